// internal/dashboard/chartspec.go
package dashboard

import (
	"strings"

	"orumaiv/internal/common/logger"
)

// defaultPalette cycles by index for non-priority categories.
var defaultPalette = []string{
	"rgba(75, 192, 192, 0.6)",
	"rgba(255, 159, 64, 0.6)",
	"rgba(255, 99, 132, 0.6)",
	"rgba(54, 162, 235, 0.6)",
	"rgba(153, 102, 255, 0.6)",
	"rgba(255, 205, 86, 0.6)",
	"rgba(201, 203, 207, 0.6)",
}

// priorityColors assigns a fixed semantic color per priority label so the
// same priority is always rendered the same regardless of input order.
var priorityColors = map[string]string{
	"baixa":  "rgba(75, 192, 192, 0.8)",
	"média":  "rgba(255, 159, 64, 0.8)",
	"alta":   "rgba(255, 99, 132, 0.8)",
	"low":    "rgba(75, 192, 192, 0.8)",
	"medium": "rgba(255, 159, 64, 0.8)",
	"high":   "rgba(255, 99, 132, 0.8)",
}

var priorityLabels = map[string]bool{
	"alta": true, "média": true, "baixa": true,
	"high": true, "medium": true, "low": true,
}

// chartTypeAliases collapses localized synonyms to the renderer vocabulary.
var chartTypeAliases = map[string]string{
	"bar":    "bar",
	"barra":  "bar",
	"barras": "bar",

	"line":   "line",
	"linha":  "line",
	"linhas": "line",

	"pie":   "pie",
	"pizza": "pie",

	"area": "line",
	"área": "line",

	"column":  "bar",
	"coluna":  "bar",
	"colunas": "bar",

	"scatter":   "scatter",
	"dispersão": "scatter",

	"radar": "radar",

	"doughnut": "doughnut",
	"rosca":    "doughnut",

	"priority":   "bar",
	"prioridade": "bar",
	"tarefas":    "bar",
}

// Assembler is the fourth pipeline stage: it maps the shaped series and the
// original request into a renderer-agnostic ChartConfig.
type Assembler struct {
	logger logger.Logger
}

func NewAssembler(log logger.Logger) *Assembler {
	return &Assembler{logger: log.WithFields(map[string]interface{}{"stage": "chart_spec"})}
}

// Assemble builds the final chart specification. Labels and every dataset's
// data stay index-aligned with the processed series.
func (a *Assembler) Assemble(processed ProcessedData, request NluResult) ChartConfig {
	requested := request.ChartType
	if requested == "" || strings.EqualFold(requested, "auto") {
		// The request left the type open; honor the shaping stage's choice.
		requested = processed.ChartType
	}
	chartType := mapChartType(requested)
	labels, datasets := buildChartData(processed, chartType)

	var xAxisTitle, yAxisTitle string
	if len(request.Dimensions) > 0 {
		xAxisTitle = request.Dimensions[0]
	}
	if len(request.Metrics) > 0 {
		yAxisTitle = request.Metrics[0]
	}

	title := chartTitle(request)

	config := ChartConfig{
		ChartType: chartType,
		Data:      ChartData{Labels: labels, Datasets: datasets},
		Options: ChartOptions{
			Responsive:          true,
			MaintainAspectRatio: false,
			Plugins: PluginOptions{
				Title:   TitleOption{Display: title != "", Text: title},
				Legend:  LegendOption{Display: true, Position: "top"},
				Tooltip: TooltipOption{Enabled: true},
			},
		},
	}

	// Pie and doughnut charts have no axes.
	if chartType != "pie" && chartType != "doughnut" {
		config.Options.Scales = &ScaleOptions{
			X: AxisScale{Title: AxisTitle{Display: xAxisTitle != "", Text: xAxisTitle}},
			Y: AxisScale{Title: AxisTitle{Display: yAxisTitle != "", Text: yAxisTitle}, BeginAtZero: true},
		}
	}

	return config
}

// mapChartType resolves the request's chart-type word to the renderer
// vocabulary. An explicit pizza/pie mention always wins.
func mapChartType(chartType string) string {
	lower := strings.ToLower(chartType)
	if lower == "pizza" || lower == "pie" {
		return "pie"
	}
	if mapped, ok := chartTypeAliases[lower]; ok {
		return mapped
	}
	return "bar"
}

func buildChartData(processed ProcessedData, chartType string) ([]string, []Dataset) {
	labels := make([]string, len(processed.Data))
	values := make([]float64, len(processed.Data))
	for i, point := range processed.Data {
		label := point.Category
		if label == "" {
			label = point.Time
		}
		if label == "" {
			label = "Desconhecido"
		}
		labels[i] = label
		values[i] = point.Value
	}

	isPriorityData := processed.Metadata.Source == sourceTasks || anyPriorityLabel(labels)
	title := processed.Title

	switch {
	case chartType == "pie" || chartType == "doughnut":
		var colors []string
		if isPriorityData {
			colors = priorityColorsFor(labels)
		} else {
			colors = paletteFor(len(labels))
		}
		return labels, []Dataset{{
			Label:           orDefault(title, "Dados"),
			Data:            values,
			BackgroundColor: colors,
		}}

	case chartType == "bar" && isPriorityData:
		return labels, []Dataset{{
			Label:           orDefault(title, "Tarefas por Prioridade"),
			Data:            values,
			BackgroundColor: priorityColorsFor(labels),
		}}

	case chartType == "line" && (processed.ChartType == "area" || processed.ChartType == "área"):
		return labels, []Dataset{{
			Label:           orDefault(title, "Dados"),
			Data:            values,
			BackgroundColor: uniformColors("rgba(75, 192, 192, 0.2)", len(labels)),
			BorderColor:     "rgba(75, 192, 192, 1)",
			BorderWidth:     1,
			Fill:            true,
			Tension:         0.4,
		}}

	case chartType == "line":
		return labels, []Dataset{{
			Label:       orDefault(title, "Dados"),
			Data:        values,
			BorderColor: defaultPalette[0],
			BorderWidth: 2,
			Tension:     0.4,
		}}

	case chartType == "radar":
		return labels, []Dataset{{
			Label:           orDefault(title, "Dados"),
			Data:            values,
			BackgroundColor: uniformColors(strings.Replace(defaultPalette[0], "0.6", "0.2", 1), len(labels)),
			BorderColor:     defaultPalette[0],
			BorderWidth:     2,
		}}

	default:
		return labels, []Dataset{{
			Label:           orDefault(title, "Dados"),
			Data:            values,
			BackgroundColor: uniformColors(defaultPalette[0], len(labels)),
			BorderWidth:     1,
		}}
	}
}

// chartTitle falls back through the request's explicit title, its metrics
// and dimensions, then fixed defaults.
func chartTitle(request NluResult) string {
	if request.RequestedTitle != "" {
		return request.RequestedTitle
	}

	metrics := strings.Join(request.Metrics, " e ")
	dimensions := strings.Join(request.Dimensions, " por ")

	switch {
	case metrics != "" && dimensions != "":
		return metrics + " por " + dimensions
	case metrics != "":
		return metrics
	case dimensions != "":
		return "Dados por " + dimensions
	case strings.Contains(strings.ToLower(request.ChartType), "prioridade"):
		return "Tarefas por Prioridade"
	default:
		return "Dashboard"
	}
}

func anyPriorityLabel(labels []string) bool {
	for _, label := range labels {
		if priorityLabels[strings.ToLower(label)] {
			return true
		}
	}
	return false
}

func priorityColorsFor(labels []string) []string {
	colors := make([]string, len(labels))
	for i, label := range labels {
		if color, ok := priorityColors[strings.ToLower(label)]; ok {
			colors[i] = color
		} else {
			colors[i] = defaultPalette[0]
		}
	}
	return colors
}

func paletteFor(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = defaultPalette[i%len(defaultPalette)]
	}
	return colors
}

func uniformColors(color string, n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = color
	}
	return colors
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
