// internal/nlu/rules.go
package nlu

import "strings"

// keywordRule is one entry of the degraded-mode classification table.
// Rules are evaluated in declaration order and the first match wins.
type keywordRule struct {
	keywords             []string
	intent               string
	confidence           float64
	requiresTaskAction   bool
	conversational       bool
	extractEntities      bool
	requiresExternalInfo bool
}

func (r keywordRule) matches(lowerMessage string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(lowerMessage, kw) {
			return true
		}
	}
	return false
}

// keywordRules is the deterministic fallback classifier used when the
// generative model is unavailable.
var keywordRules = []keywordRule{
	{keywords: []string{"criar", "nova"}, intent: IntentTaskCreate, confidence: 0.8, requiresTaskAction: true, extractEntities: true},
	{keywords: []string{"atualizar", "mudar"}, intent: IntentTaskUpdate, confidence: 0.7, requiresTaskAction: true, extractEntities: true},
	{keywords: []string{"completar", "concluir"}, intent: IntentTaskComplete, confidence: 0.9, requiresTaskAction: true},
	{keywords: []string{"excluir", "deletar"}, intent: IntentTaskDelete, confidence: 0.9, requiresTaskAction: true},
	{keywords: []string{"listar", "mostrar"}, intent: IntentTaskList, confidence: 0.8, requiresTaskAction: true},
	{keywords: []string{"olá", "oi"}, intent: IntentGreeting, confidence: 0.9},
	{keywords: []string{"ajuda", "como"}, intent: IntentHelp, confidence: 0.7, conversational: true},
}

// defaultRule applies when no keyword rule matches.
var defaultRule = keywordRule{
	intent:               IntentGeneralQuestion,
	confidence:           0.5,
	requiresExternalInfo: true,
	conversational:       true,
}

// conversationalIndicators flag open-ended requests that are better served
// by a freeform generative answer than by structured task handling.
var conversationalIndicators = []string{
	"crie uma", "faça uma", "me ajude com", "explique", "como fazer",
	"como criar", "user story", "história", "requisito", "desenhe", "modelo",
	"sugira", "recomende", "dê dicas", "melhores práticas", "exemplos",
}

// degradedConversationalIndicators is the variant checked before the keyword
// table in degraded mode.
var degradedConversationalIndicators = []string{
	"user story", "história", "requisito", "explique", "me ajude com",
	"crie uma", "faça uma", "como fazer", "dicas", "sugestão",
	"recomendação", "exemplo", "modelo",
}

func matchesAny(lowerMessage string, indicators []string) bool {
	for _, indicator := range indicators {
		if strings.Contains(lowerMessage, indicator) {
			return true
		}
	}
	return false
}
