package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orumaiv/internal/common/logger"
	"orumaiv/internal/models"
	"orumaiv/internal/session"
	"orumaiv/internal/specialist"
)

func newTestAgent(t *testing.T, model *scriptedModel) *Agent {
	t.Helper()
	log := logger.NewTestLogger(t)
	if model == nil {
		return NewAgent(nil, specialist.NewRouter(log), session.NewMemoryStore(time.Hour), 20, log)
	}
	return NewAgent(model, specialist.NewRouter(log), session.NewMemoryStore(time.Hour), 20, log)
}

func TestAgent_SendKeepsSessionHistory(t *testing.T) {
	model := &scriptedModel{steps: []scriptedStep{{reply: "primeira"}, {reply: "segunda"}}}
	agent := newTestAgent(t, model)

	first, err := agent.Send(context.Background(), "s1", "bom dia", nil)
	require.NoError(t, err)
	assert.Equal(t, "primeira", first)

	second, err := agent.Send(context.Background(), "s1", "e então?", nil)
	require.NoError(t, err)
	assert.Equal(t, "segunda", second)

	require.Equal(t, []int{1, 3}, model.turnCounts, "second call carries both prior turns plus the new message")
}

func TestAgent_SessionsDoNotShareHistory(t *testing.T) {
	model := &scriptedModel{steps: []scriptedStep{{reply: "ok"}}}
	agent := newTestAgent(t, model)

	_, err := agent.Send(context.Background(), "s1", "bom dia", nil)
	require.NoError(t, err)
	_, err = agent.Send(context.Background(), "s2", "boa tarde", nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1}, model.turnCounts)
}

func TestAgent_PersonaSwitchResetsHistory(t *testing.T) {
	model := &scriptedModel{steps: []scriptedStep{{reply: "ok"}}}
	agent := newTestAgent(t, model)

	_, err := agent.Send(context.Background(), "s1", "como melhorar meu código?", nil)
	require.NoError(t, err)
	_, err = agent.Send(context.Background(), "s1", "me ajude com minha dieta", nil)
	require.NoError(t, err)

	require.Len(t, model.systemPrompts, 2)
	assert.Contains(t, model.systemPrompts[0], "Desenvolvedor Full-Stack")
	assert.Contains(t, model.systemPrompts[1], "Consultor de Saúde e Bem-estar")
	assert.Equal(t, []int{1, 1}, model.turnCounts, "a persona switch discards the history")
}

func TestAgent_WelcomeSeedsSessionInPersona(t *testing.T) {
	model := &scriptedModel{steps: []scriptedStep{{reply: "Namastê!"}, {reply: "Vamos lá."}}}
	agent := newTestAgent(t, model)
	task := &models.Task{Text: "sessão de yoga", Time: "7h00"}

	welcome, err := agent.Welcome(context.Background(), "s1", "sessão de yoga", task)
	require.NoError(t, err)
	assert.Equal(t, "Namastê!", welcome)
	assert.Contains(t, model.prompts[0], "mensagem de boas-vindas")
	assert.Contains(t, model.prompts[0], "sessão de yoga")
	assert.Contains(t, model.systemPrompts[0], "Consultor de Saúde e Bem-estar")

	// The follow-up message stays in the same persona and sees the seeded
	// welcome exchange.
	_, err = agent.Send(context.Background(), "s1", "e depois?", task)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, model.turnCounts)
	assert.Equal(t, model.systemPrompts[0], model.systemPrompts[1])
}

func TestAgent_SendAddsTaskContext(t *testing.T) {
	model := &scriptedModel{steps: []scriptedStep{{reply: "ok"}}}
	agent := newTestAgent(t, model)

	_, err := agent.Send(context.Background(), "s1", "qual o horário?", &models.Task{Text: "Consulta", Time: "9h00"})
	require.NoError(t, err)

	assert.Contains(t, model.prompts[0], `tarefa com título "Consulta"`)
	assert.Contains(t, model.prompts[0], `hora: "9h00"`)
	assert.Contains(t, model.prompts[0], `prioridade: "Não especificada"`)
	assert.Contains(t, model.prompts[0], "Mensagem do usuário: qual o horário?")
}

func TestAgent_UnavailableWithoutModel(t *testing.T) {
	agent := newTestAgent(t, nil)

	assert.False(t, agent.Live())
	_, err := agent.Send(context.Background(), "s1", "oi", nil)
	assert.Error(t, err)
	_, err = agent.Welcome(context.Background(), "s1", "oi", nil)
	assert.Error(t, err)

	var missing *Agent
	assert.False(t, missing.Live())
}
