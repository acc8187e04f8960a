// internal/models/task.go
package models

// Priority is the canonical task priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PriorityFromLabel maps Portuguese priority labels to canonical levels.
var PriorityFromLabel = map[string]Priority{
	"baixa": PriorityLow,
	"média": PriorityMedium,
	"media": PriorityMedium,
	"alta":  PriorityHigh,
}

// Label returns the Portuguese display label for the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Baixa"
	case PriorityMedium:
		return "Média"
	case PriorityHigh:
		return "Alta"
	default:
		return string(p)
	}
}

// Task is the task snapshot exchanged with the client and the task store.
type Task struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Description string   `json:"description,omitempty"`
	Tag         string   `json:"tag,omitempty"`
	Emoji       string   `json:"emoji,omitempty"`
	Time        string   `json:"time,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Section     string   `json:"section,omitempty"`
	Checked     bool     `json:"checked"`
}
