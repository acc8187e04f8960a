// Package taskagent turns classified intents and extracted entities into
// task store mutations.
package taskagent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"orumaiv/internal/common/logger"
	"orumaiv/internal/common/metrics"
	"orumaiv/internal/models"
	"orumaiv/internal/nlu"
	"orumaiv/internal/taskstore"
)

// Actions reported in a Result.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionComplete = "complete"
	ActionList     = "list"
	ActionQuery    = "query"
	ActionNone     = "none"
	ActionError    = "error"
)

const fallbackTitle = "Nova tarefa"

var sentenceSplit = regexp.MustCompile(`[.!?]`)

// Input is one requested task operation.
type Input struct {
	Intent   string
	Entities []nlu.Entity
	TaskID   string
	Message  string
}

// Result is the outcome of one mutation attempt. It is never persisted
// beyond the response.
type Result struct {
	Success  bool         `json:"success"`
	Updated  bool         `json:"updated"`
	Action   string       `json:"action"`
	TaskData *models.Task `json:"taskData,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// Executor applies task mutations against a Store. With a nil store it runs
// in mock mode: every action is simulated under the same input contract so
// the two modes are interchangeable.
type Executor struct {
	store          taskstore.Store
	extractor      *nlu.Extractor
	maxTitleLength int
	logger         logger.Logger
}

func NewExecutor(store taskstore.Store, extractor *nlu.Extractor, maxTitleLength int, log logger.Logger) *Executor {
	if maxTitleLength <= 0 {
		maxTitleLength = 100
	}
	return &Executor{
		store:          store,
		extractor:      extractor,
		maxTitleLength: maxTitleLength,
		logger:         log.WithFields(map[string]interface{}{"component": "taskagent"}),
	}
}

// Execute runs one task operation. Precondition failures (mutating a task
// without a taskId) return a structured failure without touching the store.
func (e *Executor) Execute(ctx context.Context, input Input) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("task operation panic", map[string]interface{}{"panic": fmt.Sprint(r)})
			result = Result{Action: ActionError, Error: fmt.Sprint(r)}
		}
		outcome := "ok"
		if !result.Success {
			outcome = "error"
		}
		metrics.TaskActions.WithLabelValues(result.Action, outcome).Inc()
	}()

	switch input.Intent {
	case nlu.IntentTaskCreate:
		return e.create(ctx, input)

	case nlu.IntentTaskUpdate:
		if input.TaskID == "" {
			return Result{Action: ActionUpdate, Error: "Nenhuma tarefa selecionada para atualizar"}
		}
		return e.update(ctx, input)

	case nlu.IntentTaskDelete:
		if input.TaskID == "" {
			return Result{Action: ActionDelete, Error: "Nenhuma tarefa selecionada para excluir"}
		}
		return e.delete(ctx, input)

	case nlu.IntentTaskComplete:
		if input.TaskID == "" {
			return Result{Action: ActionComplete, Error: "Nenhuma tarefa selecionada para concluir"}
		}
		return e.complete(ctx, input)

	case nlu.IntentTaskList:
		// Listing is rendered by the caller; no store mutation.
		return Result{Success: true, Action: ActionList}

	case nlu.IntentTaskQuery:
		return Result{Success: true, Action: ActionQuery}

	default:
		return Result{Success: true, Action: ActionNone}
	}
}

func (e *Executor) create(ctx context.Context, input Input) Result {
	task := e.taskFromEntities(input.Entities, input.Message)

	if e.store == nil {
		task.ID = uuid.NewString()
		if task.Priority == "" {
			task.Priority = models.PriorityMedium
		}
		if task.DueDate == "" {
			task.DueDate = e.extractor.ResolveDate("hoje")
		}
		return Result{Success: true, Updated: true, Action: ActionCreate, TaskData: &task}
	}

	created, err := e.store.Create(ctx, task)
	if err != nil {
		e.logger.WithError(err).Error("task creation failed", nil)
		return Result{Action: ActionCreate, Error: err.Error()}
	}
	return Result{Success: true, Updated: true, Action: ActionCreate, TaskData: &created}
}

func (e *Executor) update(ctx context.Context, input Input) Result {
	if e.store == nil {
		task := e.taskFromEntities(input.Entities, "")
		task.ID = input.TaskID
		return Result{Success: true, Updated: true, Action: ActionUpdate, TaskData: &task}
	}

	updated, err := e.store.Update(ctx, input.TaskID, e.updateFromEntities(input.Entities))
	if err != nil {
		e.logger.WithError(err).Error("task update failed", map[string]interface{}{"taskId": input.TaskID})
		return Result{Action: ActionUpdate, Error: err.Error()}
	}
	return Result{Success: true, Updated: true, Action: ActionUpdate, TaskData: &updated}
}

func (e *Executor) delete(ctx context.Context, input Input) Result {
	if e.store == nil {
		return Result{Success: true, Updated: true, Action: ActionDelete}
	}

	if err := e.store.Delete(ctx, input.TaskID); err != nil {
		e.logger.WithError(err).Error("task deletion failed", map[string]interface{}{"taskId": input.TaskID})
		return Result{Action: ActionDelete, Error: err.Error()}
	}
	return Result{Success: true, Updated: true, Action: ActionDelete}
}

func (e *Executor) complete(ctx context.Context, input Input) Result {
	if e.store == nil {
		task := models.Task{ID: input.TaskID, Checked: true}
		return Result{Success: true, Updated: true, Action: ActionComplete, TaskData: &task}
	}

	checked := true
	completed, err := e.store.Update(ctx, input.TaskID, taskstore.Update{Checked: &checked})
	if err != nil {
		e.logger.WithError(err).Error("task completion failed", map[string]interface{}{"taskId": input.TaskID})
		return Result{Action: ActionComplete, Error: err.Error()}
	}
	return Result{Success: true, Updated: true, Action: ActionComplete, TaskData: &completed}
}

// taskFromEntities derives task fields from entities, falling back to the
// message's first sentence for the title.
func (e *Executor) taskFromEntities(entities []nlu.Entity, message string) models.Task {
	var task models.Task

	if title, ok := firstEntity(entities, "title", "task_name"); ok {
		task.Text = title
	} else if message != "" {
		task.Text = e.titleFromMessage(message)
	}

	if desc, ok := firstEntity(entities, "description"); ok {
		task.Description = desc
	}
	if date, ok := firstEntity(entities, "date", "due_date", "deadline"); ok {
		task.DueDate = e.extractor.ResolveDate(date)
	}
	if timeVal, ok := firstEntity(entities, "time"); ok {
		task.Time = nlu.NormalizeTime(timeVal)
	}
	if priority, ok := firstEntity(entities, "priority"); ok {
		task.Priority = parsePriority(priority)
	}
	if tag, ok := firstEntity(entities, "category", "tag", "type"); ok {
		task.Tag = tag
	}

	return task
}

func (e *Executor) updateFromEntities(entities []nlu.Entity) taskstore.Update {
	var update taskstore.Update

	if title, ok := firstEntity(entities, "title", "task_name"); ok {
		update.Text = &title
	}
	if desc, ok := firstEntity(entities, "description"); ok {
		update.Description = &desc
	}
	if date, ok := firstEntity(entities, "date", "due_date", "deadline"); ok {
		resolved := e.extractor.ResolveDate(date)
		update.DueDate = &resolved
	}
	if timeVal, ok := firstEntity(entities, "time"); ok {
		normalized := nlu.NormalizeTime(timeVal)
		update.Time = &normalized
	}
	if priority, ok := firstEntity(entities, "priority"); ok {
		level := parsePriority(priority)
		if level != "" {
			update.Priority = &level
		}
	}

	return update
}

// titleFromMessage extracts the first non-empty sentence, truncated to the
// configured rune limit.
func (e *Executor) titleFromMessage(message string) string {
	for _, sentence := range sentenceSplit.Split(message, -1) {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		runes := []rune(trimmed)
		if len(runes) > e.maxTitleLength {
			return string(runes[:e.maxTitleLength])
		}
		return trimmed
	}
	return fallbackTitle
}

func parsePriority(value string) models.Priority {
	lower := strings.ToLower(value)
	switch {
	case strings.Contains(lower, "alta"), strings.Contains(lower, "urgente"):
		return models.PriorityHigh
	case strings.Contains(lower, "média"), strings.Contains(lower, "media"):
		return models.PriorityMedium
	case strings.Contains(lower, "baixa"):
		return models.PriorityLow
	default:
		return ""
	}
}

func firstEntity(entities []nlu.Entity, names ...string) (string, bool) {
	for _, name := range names {
		if value, ok := nlu.FindEntity(entities, name); ok {
			return value, true
		}
	}
	return "", false
}
