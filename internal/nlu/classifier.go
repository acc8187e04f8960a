// internal/nlu/classifier.go
package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"orumaiv/internal/common/llm"
	"orumaiv/internal/common/logger"
	"orumaiv/internal/common/metrics"
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Classifier decides the intent of a user message. It runs in live mode
// against the generative model when a credential is configured, and in a
// deterministic keyword mode otherwise.
//
// Breaker state is tracked as two independent facts: whether a credential was
// present at construction, and whether the service has failed since. Once a
// live call fails the classifier stays degraded for the process lifetime.
type Classifier struct {
	model     llm.ChatModel
	extractor *Extractor
	logger    logger.Logger

	credentialValid bool
	serviceFailing  atomic.Bool
}

// NewClassifier creates a Classifier. A nil model means no valid credential
// is configured and every classification uses the keyword table.
func NewClassifier(model llm.ChatModel, extractor *Extractor, log logger.Logger) *Classifier {
	c := &Classifier{
		model:           model,
		extractor:       extractor,
		logger:          log.WithFields(map[string]interface{}{"component": "nlu"}),
		credentialValid: model != nil,
	}
	if !c.credentialValid {
		c.logger.Warn("no valid genai credential, classifier starts degraded", nil)
	}
	return c
}

// Live reports whether the next classification will attempt the model.
func (c *Classifier) Live() bool {
	return c.credentialValid && !c.serviceFailing.Load()
}

// Classify analyzes a message and returns a ClassificationResult. It never
// returns an error: failures degrade to the keyword table, and an internal
// panic resolves to the terminal "error" classification.
func (c *Classifier) Classify(ctx context.Context, message string, reqCtx Context) (result ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("classification panic", map[string]interface{}{"panic": fmt.Sprint(r)})
			result = ClassificationResult{Intent: IntentError, Entities: []Entity{}, Confidence: 0}
		}
	}()

	if !c.Live() {
		metrics.ClassifierFallbacks.Inc()
		return c.classifyDegraded(message)
	}

	prompt := c.buildPrompt(message, reqCtx)
	reply, err := c.model.Generate(ctx, "", []llm.Turn{{Role: llm.RoleUser, Text: prompt}})
	if err != nil {
		c.serviceFailing.Store(true)
		c.logger.WithError(err).Warn("model call failed, switching to degraded mode", nil)
		metrics.LLMCalls.WithLabelValues("classify", "error").Inc()
		metrics.ClassifierFallbacks.Inc()
		return c.classifyDegraded(message)
	}
	metrics.LLMCalls.WithLabelValues("classify", "ok").Inc()

	parsed := parseModelReply(reply)
	result = ClassificationResult{
		Intent:               parsed.Intent,
		Entities:             parsed.Entities,
		Confidence:           parsed.Confidence,
		RequiresTaskAction:   parsed.RequiresTaskAction,
		RequiresExternalInfo: parsed.RequiresExternalInfo,
		Raw:                  reply,
	}
	if result.Intent == "" {
		result.Intent = IntentUnknown
	}
	if result.Entities == nil {
		result.Entities = []Entity{}
	}
	if result.Confidence == 0 && result.Intent != IntentError {
		result.Confidence = 0.7
	}
	result.ConversationalMode = c.conversationalMode(message, result)
	return result
}

// conversationalMode is computed independently of the intent: trigger
// phrases, open-ended intents and external-info needs all flip it on.
func (c *Classifier) conversationalMode(message string, result ClassificationResult) bool {
	lower := strings.ToLower(message)
	if matchesAny(lower, conversationalIndicators) {
		return true
	}
	if result.Intent == IntentGeneralQuestion || result.Intent == IntentHelp {
		return true
	}
	return result.RequiresExternalInfo
}

func (c *Classifier) classifyDegraded(message string) ClassificationResult {
	lower := strings.ToLower(message)

	if matchesAny(lower, degradedConversationalIndicators) {
		return ClassificationResult{
			Intent:               IntentGeneralQuestion,
			Entities:             []Entity{},
			Confidence:           0.8,
			RequiresExternalInfo: true,
			ConversationalMode:   true,
		}
	}

	rule := defaultRule
	for _, candidate := range keywordRules {
		if candidate.matches(lower) {
			rule = candidate
			break
		}
	}

	entities := []Entity{}
	if rule.extractEntities {
		entities = c.extractor.Extract(message)
	}

	return ClassificationResult{
		Intent:               rule.intent,
		Entities:             entities,
		Confidence:           rule.confidence,
		RequiresTaskAction:   rule.requiresTaskAction,
		RequiresExternalInfo: rule.requiresExternalInfo,
		ConversationalMode:   rule.conversational,
	}
}

// modelReply mirrors the JSON contract requested from the model.
type modelReply struct {
	Intent               string   `json:"intent"`
	Entities             []Entity `json:"entities"`
	Confidence           float64  `json:"confidence"`
	RequiresTaskAction   bool     `json:"requires_task_action"`
	RequiresExternalInfo bool     `json:"requires_external_info"`
}

// parseModelReply extracts the first JSON object from the model output. A
// reply without one resolves to "unknown" at low confidence; malformed JSON
// resolves to the terminal "error" classification.
func parseModelReply(reply string) modelReply {
	match := jsonObjectPattern.FindString(reply)
	if match == "" {
		return modelReply{Intent: IntentUnknown, Entities: []Entity{}, Confidence: 0.3}
	}

	var parsed modelReply
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return modelReply{Intent: IntentError, Entities: []Entity{}, Confidence: 0}
	}
	return parsed
}

func (c *Classifier) buildPrompt(message string, reqCtx Context) string {
	var contextDesc strings.Builder
	if reqCtx.Task != nil {
		task := reqCtx.Task
		contextDesc.WriteString("\nTAREFA ATUAL:\n")
		contextDesc.WriteString(fmt.Sprintf("- Título: %s\n", task.Text))
		contextDesc.WriteString(fmt.Sprintf("- Descrição: %s\n", orDefault(task.Description, "Não fornecida")))
		contextDesc.WriteString(fmt.Sprintf("- Data: %s\n", orDefault(task.DueDate, "Não definida")))
		contextDesc.WriteString(fmt.Sprintf("- Horário: %s\n", orDefault(task.Time, "Não definido")))
		contextDesc.WriteString(fmt.Sprintf("- Prioridade: %s\n", orDefault(string(task.Priority), "Não definida")))
		contextDesc.WriteString(fmt.Sprintf("- Categoria: %s\n", orDefault(task.Tag, "Não definida")))
	}

	return fmt.Sprintf(`Você é um assistente especializado em compreensão de linguagem natural para um aplicativo de gerenciamento de tarefas.
Analise a mensagem do usuário e extraia:

1. A intenção principal (intent)
2. Entidades mencionadas (entities)
3. Se requer ação em tarefas (requires_task_action)
4. Se requer informação externa (requires_external_info)

POSSÍVEIS INTENÇÕES:
- task_create: Criar uma nova tarefa
- task_update: Atualizar uma tarefa existente
- task_delete: Excluir uma tarefa
- task_complete: Marcar uma tarefa como concluída
- task_list: Listar tarefas
- task_query: Perguntar sobre tarefas
- general_greeting: Saudação geral
- general_help: Pedido de ajuda
- general_question: Pergunta geral
- conversation_request: Solicitação de conversa natural (ex: explicar algo, criar algo, dar dicas)
- dashboard_request: Pedido de gráfico ou visualização de dados
- unknown: Não foi possível determinar
%s
MENSAGEM DO USUÁRIO: "%s"

Responda APENAS no formato JSON abaixo:

{
  "intent": "string",
  "entities": [{"name": "string", "value": "string"}],
  "confidence": float,
  "requires_task_action": boolean,
  "requires_external_info": boolean
}`, contextDesc.String(), message)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
