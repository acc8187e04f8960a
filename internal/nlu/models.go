// internal/nlu/models.go
package nlu

import "orumaiv/internal/models"

// Intent tags produced by the classifier.
const (
	IntentTaskCreate   = "task_create"
	IntentTaskUpdate   = "task_update"
	IntentTaskDelete   = "task_delete"
	IntentTaskComplete = "task_complete"
	IntentTaskList     = "task_list"
	IntentTaskQuery    = "task_query"

	IntentGreeting            = "general_greeting"
	IntentHelp                = "general_help"
	IntentGeneralQuestion     = "general_question"
	IntentConversationRequest = "conversation_request"
	IntentDashboardRequest    = "dashboard_request"

	IntentUnknown = "unknown"
	IntentError   = "error"
)

// Entity is a structured field pulled out of free text.
type Entity struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Context carries per-message request context into classification.
type Context struct {
	Task   *models.Task
	UserID string
}

// ClassificationResult is produced fresh per message and never persisted.
type ClassificationResult struct {
	Intent               string   `json:"intent"`
	Entities             []Entity `json:"entities"`
	Confidence           float64  `json:"confidence"`
	RequiresTaskAction   bool     `json:"requiresTaskAction"`
	RequiresExternalInfo bool     `json:"requiresExternalInfo"`
	ConversationalMode   bool     `json:"conversationalMode"`
	Raw                  string   `json:"-"`
}

// FindEntity returns the value of the named entity, if present.
func FindEntity(entities []Entity, name string) (string, bool) {
	for _, e := range entities {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// IsTaskIntent reports whether the intent targets the task collection.
func IsTaskIntent(intent string) bool {
	switch intent {
	case IntentTaskCreate, IntentTaskUpdate, IntentTaskDelete,
		IntentTaskComplete, IntentTaskList, IntentTaskQuery:
		return true
	}
	return false
}
