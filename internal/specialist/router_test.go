package specialist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orumaiv/internal/common/logger"
	"orumaiv/internal/models"
)

func TestRouter_Identify(t *testing.T) {
	router := NewRouter(logger.NewTestLogger(t))

	tests := []struct {
		name     string
		message  string
		task     *models.Task
		expected string
	}{
		{
			name:     "user story keyword",
			message:  "crie uma user story para a tela de login",
			expected: "user_story",
		},
		{
			name:     "development keyword",
			message:  "esse bug no frontend está me travando",
			expected: "development",
		},
		{
			name:     "productivity keyword",
			message:  "como organizo minha agenda da semana?",
			expected: "productivity",
		},
		{
			name:     "health keyword",
			message:  "dicas para melhorar meu sono",
			expected: "health",
		},
		{
			name:     "fallback to task title",
			message:  "o que eu deveria fazer primeiro?",
			task:     &models.Task{Text: "Sessão de yoga"},
			expected: "health",
		},
		{
			name:     "no match falls back to general",
			message:  "qual a previsão para sexta?",
			expected: GeneralKey,
		},
		{
			name:     "message wins over task title",
			message:  "explique esse requisito",
			task:     &models.Task{Text: "treino de yoga"},
			expected: "user_story",
		},
		{
			name:     "declaration order breaks keyword ties",
			message:  "requisito de nutrição",
			expected: "user_story",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, router.Identify(tt.message, tt.task))
		})
	}
}

func TestRouter_Identify_Deterministic(t *testing.T) {
	router := NewRouter(logger.NewTestLogger(t))

	for i := 0; i < 50; i++ {
		assert.Equal(t, "development", router.Identify("problema de api no backend", nil))
	}
}

func TestSystemPromptFor(t *testing.T) {
	assert.Contains(t, SystemPromptFor("development"), "Desenvolvedor Full-Stack")
	assert.Contains(t, SystemPromptFor("health"), "não é um profissional médico")
	assert.Equal(t, DefaultSystemPrompt, SystemPromptFor(GeneralKey))
	assert.Equal(t, DefaultSystemPrompt, SystemPromptFor("does-not-exist"))
}
