// internal/dashboard/processor.go
package dashboard

import (
	"strings"
	"time"

	"orumaiv/internal/common/logger"
)

var temporalDimensions = map[string]bool{
	"tempo":     true,
	"data":      true,
	"mês":       true,
	"ano":       true,
	"trimestre": true,
	"semana":    true,
	"dia":       true,
}

// Processor is the third pipeline stage: it normalizes raw records into the
// canonical categorical series and settles the chart type.
type Processor struct {
	now    func() time.Time
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"stage": "data_shaping"}),
	}
}

// Process shapes raw records into ProcessedData. Task data keeps its fixed
// axis labels; generic data infers a chart type when the request left it on
// "auto".
func (p *Processor) Process(raw RawData, request NluResult) ProcessedData {
	if raw.Metadata.Source == sourceTasks {
		return p.processTaskData(raw, request)
	}
	return p.processGenericData(raw, request)
}

func (p *Processor) processTaskData(raw RawData, request NluResult) ProcessedData {
	chartType := "column"
	if requested := strings.ToLower(request.ChartType); requested != "" && requested != "auto" {
		if requested == "priority" {
			chartType = "bar"
		} else {
			chartType = requested
		}
	}

	title := "Tarefas por Prioridade"
	if request.RequestedTitle != "" {
		title = request.RequestedTitle
	}

	return ProcessedData{
		ChartType:  chartType,
		Title:      title,
		Data:       normalizeRecords(raw.Records),
		XAxisLabel: "Prioridade",
		YAxisLabel: "Número de Tarefas",
		Metadata:   Metadata{Source: sourceTasks, Timestamp: p.now().Format(time.RFC3339)},
	}
}

func (p *Processor) processGenericData(raw RawData, request NluResult) ProcessedData {
	chartType := strings.ToLower(request.ChartType)
	if chartType == "" || chartType == "auto" {
		chartType = detectBestChartType(raw, request)
		p.logger.Debug("chart type inferred", map[string]interface{}{"chartType": chartType})
	}

	title := "Visualização de Dados"
	if request.RequestedTitle != "" {
		title = request.RequestedTitle
	} else if len(request.Metrics) > 0 && len(request.Dimensions) > 0 {
		title = strings.Join(request.Metrics, ", ") + " por " + strings.Join(request.Dimensions, ", ")
	}

	var xAxis, yAxis string
	if len(request.Dimensions) > 0 {
		xAxis = request.Dimensions[0]
	}
	if len(request.Metrics) > 0 {
		yAxis = request.Metrics[0]
	}

	return ProcessedData{
		ChartType:  chartType,
		Title:      title,
		Data:       normalizeRecords(raw.Records),
		XAxisLabel: xAxis,
		YAxisLabel: yAxis,
		Metadata:   raw.Metadata,
	}
}

// detectBestChartType prefers a line chart for long temporal series, a
// column chart for small categorical sets and a bar chart otherwise.
func detectBestChartType(raw RawData, request NluResult) string {
	temporal := false
	for _, dimension := range request.Dimensions {
		if temporalDimensions[strings.ToLower(dimension)] {
			temporal = true
			break
		}
	}

	count := len(raw.Records)
	if temporal {
		if count > 10 {
			return "line"
		}
		return "column"
	}
	if count <= 5 {
		return "column"
	}
	return "bar"
}

func normalizeRecords(records []Record) []Record {
	normalized := make([]Record, len(records))
	for i, record := range records {
		if record.Category == "" {
			record.Category = "Desconhecido"
		}
		normalized[i] = record
	}
	return normalized
}
