// Package orchestrator selects, per message, which strategy answers: the
// automatic welcome, the dashboard pipeline, a direct generative call, a
// task mutation, or a templated response. Branches are checked in strict
// priority order and every generative failure degrades to the next
// strategy, so a well-formed message always gets an answer.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"orumaiv/internal/common/logger"
	"orumaiv/internal/common/metrics"
	"orumaiv/internal/dashboard"
	"orumaiv/internal/models"
	"orumaiv/internal/nlu"
	"orumaiv/internal/responder"
	"orumaiv/internal/taskagent"
	"orumaiv/internal/taskstore"
)

// welcomeAutoPrefix marks client-initiated automatic welcome messages; the
// remainder of the message is the task title.
const welcomeAutoPrefix = "welcome_auto_message:"

// dashboardTriggers select the dashboard branch straight from the raw
// message, before conversational routing can claim it.
var dashboardTriggers = []string{
	"gráfico",
	"grafico",
	"chart",
	"dashboard",
	"visualiz",
	"mostrar dados",
	"gerar chart",
}

// MessageContext carries the per-request context for one chat message.
type MessageContext struct {
	TaskID        string
	UserID        string
	SessionID     string
	IsAutoWelcome bool
}

// Reply is the single structured answer every message resolves to.
type Reply struct {
	Content          string            `json:"content"`
	FollowupQuestion string            `json:"followupQuestion,omitempty"`
	Intent           string            `json:"intent"`
	Entities         []nlu.Entity      `json:"entities"`
	Confidence       float64           `json:"confidence"`
	TaskUpdated      bool              `json:"taskUpdated"`
	TaskData         *models.Task      `json:"taskData,omitempty"`
	Dashboard        *dashboard.Result `json:"dashboardResult,omitempty"`
}

// Orchestrator wires the classifier, the task executor, the dashboard
// pipeline, the generative agent and the templated responder.
type Orchestrator struct {
	classifier *nlu.Classifier
	executor   *taskagent.Executor
	responder  *responder.Responder
	dashboard  *dashboard.Pipeline
	agent      *Agent
	tasks      taskstore.Store
	logger     logger.Logger
}

func New(
	classifier *nlu.Classifier,
	executor *taskagent.Executor,
	render *responder.Responder,
	pipeline *dashboard.Pipeline,
	agent *Agent,
	tasks taskstore.Store,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		executor:   executor,
		responder:  render,
		dashboard:  pipeline,
		agent:      agent,
		tasks:      tasks,
		logger:     log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// HandleMessage processes one chat message. It never returns an error for a
// well-formed input: every failure path resolves to a natural-language
// reply.
func (o *Orchestrator) HandleMessage(ctx context.Context, message string, msgCtx MessageContext) (reply *Reply) {
	branch := "default"
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("message handling panic", map[string]interface{}{"panic": fmt.Sprint(r)})
			reply = &Reply{
				Content:    fmt.Sprintf("Desculpe, encontrei um problema ao processar sua mensagem: %v", r),
				Intent:     nlu.IntentError,
				Entities:   []nlu.Entity{},
				Confidence: 0,
			}
			branch = "panic"
		}
		metrics.MessagesProcessed.WithLabelValues(reply.Intent, branch).Inc()
	}()

	task := o.taskContext(ctx, msgCtx.TaskID)
	sessionID := sessionIDFor(msgCtx)

	// Branch 1: automatic welcome.
	if msgCtx.IsAutoWelcome || strings.HasPrefix(message, welcomeAutoPrefix) {
		branch = "welcome"
		return o.welcome(ctx, sessionID, message, task)
	}

	result := o.classifier.Classify(ctx, message, nlu.Context{Task: task, UserID: msgCtx.UserID})

	// Branch 2: dashboard requests, checked before conversational routing
	// so chart wording is never hijacked by the open-ended branch.
	if hasDashboardTrigger(message) || result.Intent == nlu.IntentDashboardRequest {
		branch = "dashboard"
		return o.dashboardReply(ctx, message, result)
	}

	// Branch 3: open-ended conversation, model permitting.
	if result.ConversationalMode && o.agent.Live() {
		if content, err := o.agent.Send(ctx, sessionID, message, task); err == nil {
			branch = "conversational"
			return &Reply{
				Content:    content,
				Intent:     result.Intent,
				Entities:   result.Entities,
				Confidence: result.Confidence,
			}
		}
		// Degrade into the structured branches below.
	}

	// Branch 4: task mutations.
	var taskResult *taskagent.Result
	var taskUpdated bool
	if nlu.IsTaskIntent(result.Intent) || result.RequiresTaskAction {
		executed := o.executor.Execute(ctx, taskagent.Input{
			Intent:   result.Intent,
			Entities: result.Entities,
			TaskID:   msgCtx.TaskID,
			Message:  message,
		})
		taskResult = &executed
		taskUpdated = executed.Updated

		if executed.Success && result.ConversationalMode && o.agent.Live() {
			summary := actionSummary(result.Intent, executed.TaskData)
			if content, err := o.agent.Send(ctx, sessionID, summary, task); err == nil {
				branch = "task_conversational"
				return &Reply{
					Content:     content,
					Intent:      result.Intent,
					Entities:    result.Entities,
					Confidence:  result.Confidence,
					TaskUpdated: taskUpdated,
					TaskData:    executed.TaskData,
				}
			}
		}
		branch = "task"
	}

	// Branch 5: general questions that need outside knowledge.
	if result.Intent == nlu.IntentGeneralQuestion && result.RequiresExternalInfo && o.agent.Live() {
		if content, err := o.agent.Send(ctx, sessionID, message, task); err == nil {
			branch = "general_question"
			return &Reply{
				Content:     content,
				Intent:      result.Intent,
				Entities:    result.Entities,
				Confidence:  result.Confidence,
				TaskUpdated: taskUpdated,
				TaskData:    taskData(taskResult),
			}
		}
	}

	// Branch 6: templated responses.
	rendered := o.responder.Generate(result, taskResult, message, task)
	return &Reply{
		Content:          rendered.Text,
		FollowupQuestion: rendered.FollowupQuestion,
		Intent:           result.Intent,
		Entities:         result.Entities,
		Confidence:       result.Confidence,
		TaskUpdated:      taskUpdated,
		TaskData:         taskData(taskResult),
	}
}

// HandleDashboardRequest runs the dashboard pipeline directly, outside the
// chat branch selection.
func (o *Orchestrator) HandleDashboardRequest(ctx context.Context, message string) dashboard.Result {
	return o.dashboard.Process(ctx, message)
}

// ExplainDashboard answers a follow-up question about a generated dashboard.
func (o *Orchestrator) ExplainDashboard(ctx context.Context, result dashboard.Result, question string) string {
	return o.dashboard.Explain(ctx, result, question)
}

func (o *Orchestrator) welcome(ctx context.Context, sessionID, message string, task *models.Task) *Reply {
	title := strings.TrimSpace(strings.TrimPrefix(message, welcomeAutoPrefix))

	content := ""
	if o.agent.Live() {
		generated, err := o.agent.Welcome(ctx, sessionID, title, task)
		if err == nil {
			content = generated
		} else {
			o.logger.WithError(err).Warn("generative welcome failed, using template", nil)
		}
	}
	if content == "" {
		content = o.responder.WelcomeMessage(task).Text
	}

	return &Reply{
		Content:    content,
		Intent:     "welcome_message",
		Entities:   []nlu.Entity{},
		Confidence: 1,
	}
}

func (o *Orchestrator) dashboardReply(ctx context.Context, message string, result nlu.ClassificationResult) *Reply {
	dres := o.dashboard.Process(ctx, message)

	content := dres.Description
	if !dres.Success {
		content = "Desculpe, não consegui gerar o dashboard solicitado. Poderia reformular a pergunta?"
	}

	return &Reply{
		Content:    content,
		Intent:     nlu.IntentDashboardRequest,
		Entities:   result.Entities,
		Confidence: result.Confidence,
		Dashboard:  &dres,
	}
}

func (o *Orchestrator) taskContext(ctx context.Context, taskID string) *models.Task {
	if taskID == "" || o.tasks == nil {
		return nil
	}
	task, err := o.tasks.Get(ctx, taskID)
	if err != nil {
		o.logger.WithError(err).Warn("task context lookup failed", map[string]interface{}{"taskId": taskID})
		return nil
	}
	return &task
}

func actionSummary(intent string, task *models.Task) string {
	title := "uma tarefa"
	if task != nil && task.Text != "" {
		title = task.Text
	}
	return fmt.Sprintf("Você acabou de %s %q. Forneça uma resposta conversacional amigável.", actionDescription(intent), title)
}

func actionDescription(intent string) string {
	switch intent {
	case nlu.IntentTaskCreate:
		return "criar a tarefa"
	case nlu.IntentTaskUpdate:
		return "atualizar a tarefa"
	case nlu.IntentTaskDelete:
		return "excluir a tarefa"
	case nlu.IntentTaskComplete:
		return "completar a tarefa"
	default:
		return "processar a tarefa"
	}
}

func hasDashboardTrigger(message string) bool {
	lower := strings.ToLower(message)
	for _, trigger := range dashboardTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

func sessionIDFor(msgCtx MessageContext) string {
	if msgCtx.SessionID != "" {
		return msgCtx.SessionID
	}
	if msgCtx.UserID != "" {
		return msgCtx.UserID
	}
	return "anonymous"
}

func taskData(result *taskagent.Result) *models.Task {
	if result == nil {
		return nil
	}
	return result.TaskData
}
