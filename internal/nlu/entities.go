// internal/nlu/entities.go
package nlu

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	timePattern        = regexp.MustCompile(`(\d{1,2})[h:](\d{2})?`)
	titlePattern       = regexp.MustCompile(`(?i)(?:tarefa|lembrete)[:\s]\s*([^,.\n]+)`)
	descriptionPattern = regexp.MustCompile(`(?i)descri[çc][ãa]o[:\s]\s*([^.\n]+)`)
)

// categoryKeywords maps category triggers to the stored tag value.
var categoryKeywords = []struct {
	keyword string
	tag     string
}{
	{"trabalho", "trabalho"},
	{"pessoal", "pessoal"},
	{"saúde", "saúde"},
	{"estudo", "estudos"},
	{"compras", "compras"},
}

// Extractor pulls structured entities out of free text with keyword and
// regex rules. First match wins per entity name, so a result never carries
// duplicate names.
type Extractor struct {
	now func() time.Time
}

// NewExtractor creates an Extractor using the wall clock.
func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

// NewExtractorWithClock creates an Extractor with an injected clock so
// relative-date resolution is deterministic in tests.
func NewExtractorWithClock(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Extract returns the entities found in the message. Relative date words are
// kept verbatim ("hoje", "amanhã"); ResolveDate turns them into calendar
// dates where a consumer needs one.
func (e *Extractor) Extract(message string) []Entity {
	lower := strings.ToLower(message)
	var entities []Entity

	if strings.Contains(lower, "amanhã") {
		entities = append(entities, Entity{Name: "date", Value: "amanhã"})
	} else if strings.Contains(lower, "hoje") {
		entities = append(entities, Entity{Name: "date", Value: "hoje"})
	}

	if m := timePattern.FindStringSubmatch(lower); m != nil {
		minute := m[2]
		if minute == "" {
			minute = "00"
		}
		entities = append(entities, Entity{Name: "time", Value: fmt.Sprintf("%sh%s", m[1], minute)})
	}

	if strings.Contains(lower, "prioridade alta") || strings.Contains(lower, "urgente") {
		entities = append(entities, Entity{Name: "priority", Value: "alta"})
	} else if strings.Contains(lower, "prioridade média") || strings.Contains(lower, "prioridade media") {
		entities = append(entities, Entity{Name: "priority", Value: "média"})
	} else if strings.Contains(lower, "prioridade baixa") {
		entities = append(entities, Entity{Name: "priority", Value: "baixa"})
	}

	if m := titlePattern.FindStringSubmatch(message); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			entities = append(entities, Entity{Name: "title", Value: title})
		}
	}

	if m := descriptionPattern.FindStringSubmatch(message); m != nil {
		if desc := strings.TrimSpace(m[1]); desc != "" {
			entities = append(entities, Entity{Name: "description", Value: desc})
		}
	}

	for _, c := range categoryKeywords {
		if strings.Contains(lower, c.keyword) {
			entities = append(entities, Entity{Name: "category", Value: c.tag})
			break
		}
	}

	return entities
}

// ResolveDate converts a date entity value to an ISO calendar date using the
// extractor's clock. Values it does not recognize are returned unchanged.
func (e *Extractor) ResolveDate(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "hoje":
		return e.now().Format("2006-01-02")
	case "amanhã", "amanha":
		return e.now().AddDate(0, 0, 1).Format("2006-01-02")
	default:
		return value
	}
}

// NormalizeTime converts HH:MM clock notation to the canonical HHhMM textual
// form. Already-canonical values pass through unchanged.
func NormalizeTime(value string) string {
	m := timePattern.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	minute := m[2]
	if minute == "" {
		minute = "00"
	}
	return fmt.Sprintf("%sh%s", m[1], minute)
}
