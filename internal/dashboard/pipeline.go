// internal/dashboard/pipeline.go
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"orumaiv/internal/common/errors"
	"orumaiv/internal/common/llm"
	"orumaiv/internal/common/logger"
	"orumaiv/internal/common/metrics"
	"orumaiv/internal/taskstore"
)

// chartConfigSchema is enforced at the pipeline boundary so the charting
// layer never receives a malformed specification.
const chartConfigSchema = `{
	"type": "object",
	"required": ["chartType", "data", "options"],
	"properties": {
		"chartType": {"type": "string", "minLength": 1},
		"data": {
			"type": "object",
			"required": ["labels", "datasets"],
			"properties": {
				"labels": {"type": "array", "items": {"type": "string"}},
				"datasets": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["label", "data"],
						"properties": {
							"label": {"type": "string"},
							"data": {"type": "array", "items": {"type": "number"}}
						}
					}
				}
			}
		},
		"options": {
			"type": "object",
			"required": ["responsive", "maintainAspectRatio", "plugins"]
		}
	}
}`

// Pipeline composes the four dashboard stages. Any stage failure or panic
// is contained here and converted into a failed Result carrying a safe
// empty chart specification.
type Pipeline struct {
	intents   *IntentExtractor
	retriever *Retriever
	processor *Processor
	assembler *Assembler
	model     llm.ChatModel
	schema    *gojsonschema.Schema
	logger    logger.Logger
}

// NewPipeline wires the stages. model may be nil; explanations then use the
// template fallback.
func NewPipeline(tasks taskstore.Store, model llm.ChatModel, log logger.Logger) (*Pipeline, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(chartConfigSchema))
	if err != nil {
		return nil, errors.NewConfigurationError(fmt.Sprintf("invalid chart config schema: %v", err))
	}

	return &Pipeline{
		intents:   NewIntentExtractor(log),
		retriever: NewRetriever(tasks, log),
		processor: NewProcessor(log),
		assembler: NewAssembler(log),
		model:     model,
		schema:    schema,
		logger:    log.WithFields(map[string]interface{}{"component": "dashboard"}),
	}, nil
}

// Process runs one dashboard request through all four stages.
func (p *Pipeline) Process(ctx context.Context, message string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("dashboard pipeline panic", map[string]interface{}{"panic": fmt.Sprint(r)})
			result = failedResult(fmt.Sprint(r))
		}
		outcome := "ok"
		if !result.Success {
			outcome = "error"
		}
		metrics.DashboardRequests.WithLabelValues(result.ChartConfig.ChartType, outcome).Inc()
	}()

	var request NluResult
	p.timedStage("chart_intent", func() {
		request = p.intents.Extract(message)
	})

	var raw RawData
	var retrieveErr error
	p.timedStage("data_retrieval", func() {
		raw, retrieveErr = p.retriever.Retrieve(ctx, request)
	})
	if retrieveErr != nil {
		p.logger.WithError(retrieveErr).Error("data retrieval failed", nil)
		return failedResult(retrieveErr.Error())
	}

	var processed ProcessedData
	p.timedStage("data_shaping", func() {
		processed = p.processor.Process(raw, request)
	})

	var chart ChartConfig
	p.timedStage("chart_spec", func() {
		chart = p.assembler.Assemble(processed, request)
	})

	if err := p.validateChartConfig(processed, chart); err != nil {
		p.logger.WithError(err).Error("chart config validation failed", nil)
		return failedResult(err.Error())
	}

	return Result{
		NluResult:   request,
		ChartConfig: chart,
		Title:       dashboardTitle(request),
		Description: p.explain(ctx, request),
		Source:      processed.Metadata.Source,
		Success:     true,
	}
}

// Explain answers a follow-up question about a generated dashboard.
func (p *Pipeline) Explain(ctx context.Context, result Result, question string) string {
	if p.model != nil && question != "" {
		prompt := fmt.Sprintf(`Um dashboard foi gerado com as seguintes características:
- Tipo de gráfico: %s
- Métricas: %s
- Dimensões: %s

O usuário perguntou: %q

Explique de forma clara e concisa o que este dashboard mostra, respondendo diretamente à pergunta.`,
			result.NluResult.ChartType,
			strings.Join(result.NluResult.Metrics, ", "),
			strings.Join(result.NluResult.Dimensions, ", "),
			question)

		reply, err := p.model.Generate(ctx, "", []llm.Turn{{Role: llm.RoleUser, Text: prompt}})
		if err == nil {
			metrics.LLMCalls.WithLabelValues("dashboard_explanation", "ok").Inc()
			return reply
		}
		metrics.LLMCalls.WithLabelValues("dashboard_explanation", "error").Inc()
		p.logger.WithError(err).Warn("dashboard explanation call failed", nil)
	}
	return p.templateExplanation(result.NluResult)
}

func (p *Pipeline) explain(ctx context.Context, request NluResult) string {
	if p.model != nil {
		prompt := fmt.Sprintf(`Um dashboard foi gerado com as seguintes características:
- Tipo de gráfico: %s
- Métricas: %s
- Dimensões: %s

Por favor, forneça uma explicação curta e clara sobre o que este dashboard mostra e o que podemos aprender com ele.
Seja conciso, direto e informativo.`,
			request.ChartType,
			strings.Join(request.Metrics, ", "),
			strings.Join(request.Dimensions, ", "))

		reply, err := p.model.Generate(ctx, "", []llm.Turn{{Role: llm.RoleUser, Text: prompt}})
		if err == nil {
			metrics.LLMCalls.WithLabelValues("dashboard_explanation", "ok").Inc()
			return reply
		}
		metrics.LLMCalls.WithLabelValues("dashboard_explanation", "error").Inc()
		p.logger.WithError(err).Warn("dashboard explanation call failed", nil)
	}
	return p.templateExplanation(request)
}

func (p *Pipeline) templateExplanation(request NluResult) string {
	metricsText := strings.Join(request.Metrics, ", ")
	if metricsText == "" {
		metricsText = "dados"
	}
	dimensionsText := strings.Join(request.Dimensions, ", ")
	if dimensionsText == "" {
		dimensionsText = "categorias"
	}

	explanation := fmt.Sprintf("Este gráfico de %s mostra %s por %s", request.ChartType, metricsText, dimensionsText)
	if request.TimeRange != nil && request.TimeRange.Period != "" {
		explanation += " no " + request.TimeRange.Period
	}
	return explanation + "."
}

// validateChartConfig enforces the schema and the index alignment between
// the shaped series and the final spec.
func (p *Pipeline) validateChartConfig(processed ProcessedData, chart ChartConfig) error {
	if len(chart.Data.Labels) != len(processed.Data) {
		return errors.NewPipelineDefectError("chart_spec",
			fmt.Sprintf("label count %d does not match series length %d", len(chart.Data.Labels), len(processed.Data)))
	}
	for _, dataset := range chart.Data.Datasets {
		if len(dataset.Data) != len(chart.Data.Labels) {
			return errors.NewPipelineDefectError("chart_spec",
				fmt.Sprintf("dataset %q length %d does not match label count %d", dataset.Label, len(dataset.Data), len(chart.Data.Labels)))
		}
	}

	payload, err := json.Marshal(chart)
	if err != nil {
		return errors.NewPipelineDefectError("chart_spec", err.Error())
	}
	validation, err := p.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return errors.NewPipelineDefectError("chart_spec", err.Error())
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, e := range validation.Errors() {
			details = append(details, e.String())
		}
		return errors.NewPipelineDefectError("chart_spec", strings.Join(details, "; "))
	}
	return nil
}

func (p *Pipeline) timedStage(stage string, fn func()) {
	start := time.Now()
	fn()
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func dashboardTitle(request NluResult) string {
	metricsText := strings.Join(request.Metrics, " e ")
	dimensionsText := strings.Join(request.Dimensions, " por ")

	switch {
	case metricsText != "" && dimensionsText != "":
		return metricsText + " por " + dimensionsText
	case metricsText != "":
		return metricsText
	case dimensionsText != "":
		return "Dados por " + dimensionsText
	case strings.Contains(strings.ToLower(request.ChartType), "prioridade"):
		return "Tarefas por Prioridade"
	default:
		return "Dashboard"
	}
}

// failedResult is the only shape a pipeline failure can take: an error
// string plus an empty-but-valid chart spec.
func failedResult(errMsg string) Result {
	if errMsg == "" {
		errMsg = "Erro desconhecido no processamento do dashboard"
	}
	return Result{
		NluResult: NluResult{
			ChartType:  "",
			Metrics:    []string{},
			Dimensions: []string{},
			Filters:    []Filter{},
			Language:   "pt-br",
		},
		ChartConfig: ChartConfig{
			ChartType: "bar",
			Data:      ChartData{Labels: []string{}, Datasets: []Dataset{}},
			Options: ChartOptions{
				Responsive:          true,
				MaintainAspectRatio: false,
				Plugins: PluginOptions{
					Title:   TitleOption{Display: true, Text: "Erro ao gerar gráfico"},
					Legend:  LegendOption{Display: false},
					Tooltip: TooltipOption{Enabled: true},
				},
			},
		},
		Success: false,
		Error:   errMsg,
	}
}
