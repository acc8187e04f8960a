// internal/dashboard/nlu.go
package dashboard

import (
	"regexp"
	"strings"

	"orumaiv/internal/common/logger"
	"orumaiv/internal/nlu"
)

var taskCountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)quantas? tarefas`),
	regexp.MustCompile(`(?i)número de tarefas`),
	regexp.MustCompile(`(?i)total de tarefas`),
	regexp.MustCompile(`(?i)contagem de tarefas`),
	regexp.MustCompile(`(?i)conte as tarefas`),
	regexp.MustCompile(`(?i)me diga quantas tarefas`),
	regexp.MustCompile(`(?i)me mostre quantas tarefas`),
	regexp.MustCompile(`(?i)tarefas (que )?eu tenho`),
	regexp.MustCompile(`(?i)tarefas pendentes`),
	regexp.MustCompile(`(?i)tarefas para (hoje|amanhã|esta semana|esse mês)`),
}

var (
	timePeriodPattern = regexp.MustCompile(`(?i)hoje|amanhã|esta semana|essa semana|próxima semana|proxima semana|este mês|esse mês|próximo mês|proximo mês`)
	priorityPattern   = regexp.MustCompile(`(?i)alta prioridade|prioridade alta|média prioridade|prioridade média|baixa prioridade|prioridade baixa`)
	titlePattern      = regexp.MustCompile(`(?i)(?:com título|título|intitulado)[:\s]+([^,.]+)`)
)

// keyword table scanned in order; first chart-type match wins.
var chartTypeRules = []struct {
	pattern   *regexp.Regexp
	chartType string
}{
	{regexp.MustCompile(`(?i)barras?`), "bar"},
	{regexp.MustCompile(`(?i)colunas?`), "column"},
	{regexp.MustCompile(`(?i)linhas?`), "line"},
	{regexp.MustCompile(`(?i)pizza|torta`), "pie"},
	{regexp.MustCompile(`(?i)área|area`), "area"},
	{regexp.MustCompile(`(?i)scatter|dispersão|dispersao`), "scatter"},
}

var priorityChartPattern = regexp.MustCompile(`(?i)prioridade|priority`)

var metricRules = []struct {
	pattern *regexp.Regexp
	metric  string
}{
	{regexp.MustCompile(`(?i)vendas?`), "vendas"},
	{regexp.MustCompile(`(?i)lucros?`), "lucro"},
	{regexp.MustCompile(`(?i)receitas?`), "receita"},
	{regexp.MustCompile(`(?i)tarefas?`), "tarefas"},
}

var dimensionRules = []struct {
	pattern   *regexp.Regexp
	dimension string
}{
	{regexp.MustCompile(`(?i)produtos?`), "produtos"},
	{regexp.MustCompile(`(?i)região|regiões|regional`), "regiões"},
	{regexp.MustCompile(`(?i)mês|mes|mensal`), "mês"},
	{regexp.MustCompile(`(?i)trimestre|trimestral`), "trimestre"},
	{regexp.MustCompile(`(?i)ano|anual`), "ano"},
	{regexp.MustCompile(`(?i)prioridades?`), "prioridade"},
}

var timeRangeRules = []struct {
	pattern *regexp.Regexp
	period  string
}{
	{regexp.MustCompile(`(?i)último mês|ultimo mes`), "último mês"},
	{regexp.MustCompile(`(?i)último trimestre|ultimo trimestre`), "último trimestre"},
	{regexp.MustCompile(`(?i)último ano|ultimo ano`), "último ano"},
}

// IntentExtractor is the first pipeline stage: regex and keyword rules over
// the raw message.
type IntentExtractor struct {
	logger logger.Logger
}

func NewIntentExtractor(log logger.Logger) *IntentExtractor {
	return &IntentExtractor{logger: log.WithFields(map[string]interface{}{"stage": "chart_intent"})}
}

// Extract builds a NluResult from the message. Task-count questions
// short-circuit to a task-oriented result before the generic keyword scan.
func (e *IntentExtractor) Extract(message string) NluResult {
	result := NluResult{
		ChartType:  "auto",
		Metrics:    []string{},
		Dimensions: []string{},
		Filters:    []Filter{},
		Entities:   []nlu.Entity{},
		Language:   "pt-br",
	}

	if isTaskCountQuestion(message) {
		e.logger.Debug("task count question detected", nil)
		return e.taskCountResult(message, result)
	}

	matchedChartType := false
	for _, rule := range chartTypeRules {
		if rule.pattern.MatchString(message) {
			result.ChartType = rule.chartType
			matchedChartType = true
			break
		}
	}
	if !matchedChartType && priorityChartPattern.MatchString(message) {
		// A bare priority mention means "tasks by priority": bar chart
		// grouped on the prioridade dimension.
		result.ChartType = "bar"
		addDimension(&result, "prioridade")
	}

	for _, rule := range metricRules {
		if rule.pattern.MatchString(message) {
			result.Metrics = append(result.Metrics, rule.metric)
		}
	}
	for _, rule := range dimensionRules {
		if rule.pattern.MatchString(message) {
			addDimension(&result, rule.dimension)
		}
	}
	for _, rule := range timeRangeRules {
		if rule.pattern.MatchString(message) {
			result.TimeRange = &TimeRange{Period: rule.period}
			break
		}
	}

	if match := titlePattern.FindStringSubmatch(message); match != nil {
		result.RequestedTitle = strings.TrimSpace(match[1])
	}

	if value := extractPriorityAttribute(message); value != "" {
		result.Entities = append(result.Entities, nlu.Entity{Name: "task_attribute", Value: value})
	}

	return result
}

func (e *IntentExtractor) taskCountResult(message string, result NluResult) NluResult {
	result.Metrics = append(result.Metrics, "tarefas")
	result.ChartType = "column"

	if timePeriodPattern.MatchString(message) {
		period := extractTimePeriod(message)
		result.Entities = append(result.Entities, nlu.Entity{Name: "time_period", Value: period})
		addDimension(&result, "período")
		result.Filters = append(result.Filters, Filter{Field: "time_period", Operator: OpEqual, Value: period})
	}

	if priorityPattern.MatchString(message) {
		priority := extractPriorityLevel(message)
		result.Entities = append(result.Entities, nlu.Entity{Name: "task_priority", Value: priority})
		addDimension(&result, "prioridade")
		result.Filters = append(result.Filters, Filter{Field: "priority", Operator: OpEqual, Value: priority})
	} else {
		// No specific priority requested, so group by priority instead.
		addDimension(&result, "prioridade")
	}

	hasPeriod := hasDimension(result, "período")
	hasPriority := hasDimension(result, "prioridade")
	switch {
	case hasPeriod && hasPriority:
		result.RequestedTitle = "Tarefas por período e prioridade"
	case hasPeriod:
		result.RequestedTitle = "Tarefas por período"
	case hasPriority:
		result.RequestedTitle = "Tarefas por prioridade"
	default:
		result.RequestedTitle = "Total de tarefas"
	}

	return result
}

func isTaskCountQuestion(message string) bool {
	for _, pattern := range taskCountPatterns {
		if pattern.MatchString(message) {
			return true
		}
	}
	return false
}

func extractTimePeriod(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "hoje"):
		return "hoje"
	case strings.Contains(lower, "amanhã"), strings.Contains(lower, "amanha"):
		return "amanhã"
	case strings.Contains(lower, "esta semana"), strings.Contains(lower, "essa semana"):
		return "esta semana"
	case strings.Contains(lower, "próxima semana"), strings.Contains(lower, "proxima semana"):
		return "próxima semana"
	case strings.Contains(lower, "este mês"), strings.Contains(lower, "esse mês"):
		return "este mês"
	case strings.Contains(lower, "próximo mês"), strings.Contains(lower, "proximo mês"):
		return "próximo mês"
	default:
		return "todos"
	}
}

func extractPriorityLevel(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "alta prioridade"), strings.Contains(lower, "prioridade alta"):
		return "alta"
	case strings.Contains(lower, "média prioridade"), strings.Contains(lower, "prioridade média"),
		strings.Contains(lower, "media prioridade"), strings.Contains(lower, "prioridade media"):
		return "média"
	case strings.Contains(lower, "baixa prioridade"), strings.Contains(lower, "prioridade baixa"):
		return "baixa"
	default:
		return "todas"
	}
}

func extractPriorityAttribute(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "prioridade alta"):
		return "prioridade alta"
	case strings.Contains(lower, "prioridade média"), strings.Contains(lower, "prioridade media"):
		return "prioridade média"
	case strings.Contains(lower, "prioridade baixa"):
		return "prioridade baixa"
	default:
		return ""
	}
}

func addDimension(result *NluResult, dimension string) {
	if !hasDimension(*result, dimension) {
		result.Dimensions = append(result.Dimensions, dimension)
	}
}

func hasDimension(result NluResult, dimension string) bool {
	for _, d := range result.Dimensions {
		if d == dimension {
			return true
		}
	}
	return false
}
