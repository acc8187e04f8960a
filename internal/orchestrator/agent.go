// internal/orchestrator/agent.go
package orchestrator

import (
	"context"
	"fmt"

	"orumaiv/internal/common/llm"
	"orumaiv/internal/common/logger"
	"orumaiv/internal/common/metrics"
	"orumaiv/internal/models"
	"orumaiv/internal/session"
	"orumaiv/internal/specialist"
)

// Agent drives open-ended generative replies. It routes each message to a
// specialist persona and keeps the conversation history per session, so
// concurrent sessions never bleed into each other.
type Agent struct {
	model    llm.ChatModel
	router   *specialist.Router
	sessions session.Store
	maxTurns int
	logger   logger.Logger
}

func NewAgent(model llm.ChatModel, router *specialist.Router, sessions session.Store, maxTurns int, log logger.Logger) *Agent {
	return &Agent{
		model:    model,
		router:   router,
		sessions: sessions,
		maxTurns: maxTurns,
		logger:   log.WithFields(map[string]interface{}{"component": "agent"}),
	}
}

// Live reports whether generative calls can be attempted at all.
func (a *Agent) Live() bool {
	return a != nil && a.model != nil
}

// Send routes the message to a persona, calls the model with the session
// history and records both turns. The caller decides how to degrade on
// error.
func (a *Agent) Send(ctx context.Context, sessionID, message string, task *models.Task) (string, error) {
	if !a.Live() {
		return "", fmt.Errorf("generative model unavailable")
	}

	state := a.sessionState(ctx, sessionID, message, task)

	userTurn := llm.Turn{Role: llm.RoleUser, Text: enhanceWithTaskContext(message, task)}
	turns := append(append([]llm.Turn{}, state.Turns...), userTurn)

	reply, err := a.model.Generate(ctx, state.SystemPrompt, turns)
	if err != nil {
		metrics.LLMCalls.WithLabelValues("conversation", "error").Inc()
		return "", err
	}
	metrics.LLMCalls.WithLabelValues("conversation", "ok").Inc()

	state.Append(userTurn, a.maxTurns)
	state.Append(llm.Turn{Role: llm.RoleModel, Text: reply}, a.maxTurns)
	a.saveState(ctx, sessionID, state)

	return reply, nil
}

// Welcome generates the automatic greeting for a freshly opened chat.
func (a *Agent) Welcome(ctx context.Context, sessionID, taskTitle string, task *models.Task) (string, error) {
	if !a.Live() {
		return "", fmt.Errorf("generative model unavailable")
	}

	profileKey := a.router.Identify(taskTitle, &models.Task{Text: taskTitle})
	systemPrompt := specialist.SystemPromptFor(profileKey)

	prompt := fmt.Sprintf("Gere uma mensagem de boas-vindas amigável e profissional para um usuário que acabou de abrir o chat para a tarefa %q.", taskTitle)
	if role := specialist.RoleFor(profileKey); role != "" {
		prompt += fmt.Sprintf(" A tarefa parece estar relacionada à sua área de especialidade. Apresente-se como um especialista em %s e ofereça ajuda específica.", role)
	}
	if task != nil {
		prompt += fmt.Sprintf(` A tarefa tem as seguintes informações:
- Título: %s
- Descrição: %s
- Hora: %s
- Prioridade: %s

Inclua detalhes da tarefa na sua mensagem de boas-vindas e ofereça ajuda específica relacionada ao tipo de tarefa.`,
			task.Text,
			orDefault(task.Description, "Não fornecida"),
			orDefault(task.Time, "Não especificada"),
			orDefault(string(task.Priority), "Não especificada"))
	} else {
		prompt += " Não temos informações detalhadas sobre esta tarefa."
	}

	userTurn := llm.Turn{Role: llm.RoleUser, Text: prompt}
	reply, err := a.model.Generate(ctx, systemPrompt, []llm.Turn{userTurn})
	if err != nil {
		metrics.LLMCalls.WithLabelValues("welcome", "error").Inc()
		return "", err
	}
	metrics.LLMCalls.WithLabelValues("welcome", "ok").Inc()

	// Seed the session so the conversation continues in the same persona.
	state := session.NewState(profileKey, systemPrompt)
	state.Append(userTurn, a.maxTurns)
	state.Append(llm.Turn{Role: llm.RoleModel, Text: reply}, a.maxTurns)
	a.saveState(ctx, sessionID, state)

	return reply, nil
}

// sessionState loads the session, reseeding it when the specialist router
// picks a different persona for this message.
func (a *Agent) sessionState(ctx context.Context, sessionID, message string, task *models.Task) *session.State {
	profileKey := a.router.Identify(message, task)
	systemPrompt := specialist.SystemPromptFor(profileKey)

	state, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		a.logger.WithError(err).Warn("session load failed", map[string]interface{}{"sessionId": sessionID})
	}
	if state == nil {
		return session.NewState(profileKey, systemPrompt)
	}
	if state.SystemPrompt != systemPrompt {
		state.ResetForProfile(profileKey, systemPrompt)
	}
	return state
}

func (a *Agent) saveState(ctx context.Context, sessionID string, state *session.State) {
	if err := a.sessions.Save(ctx, sessionID, state); err != nil {
		a.logger.WithError(err).Warn("session save failed", map[string]interface{}{"sessionId": sessionID})
	}
}

// enhanceWithTaskContext prefixes the message with the task snapshot so the
// model answers in context.
func enhanceWithTaskContext(message string, task *models.Task) string {
	if task == nil {
		return message
	}
	return fmt.Sprintf(`[Contexto: Você está visualizando uma tarefa com título %q, descrição: %q, hora: %q, prioridade: %q]

Mensagem do usuário: %s`,
		task.Text,
		orDefault(task.Description, "Não fornecida"),
		orDefault(task.Time, "Não especificada"),
		orDefault(string(task.Priority), "Não especificada"),
		message)
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
