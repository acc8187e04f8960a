// internal/dashboard/retriever.go
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"orumaiv/internal/common/errors"
	"orumaiv/internal/common/logger"
	"orumaiv/internal/models"
	"orumaiv/internal/taskstore"
)

// Named data sources.
const (
	sourceSales     = "sales"
	sourceProfit    = "profit"
	sourceRevenue   = "revenue"
	sourceCustomers = "customers"
	sourceProducts  = "products"
	sourceRegions   = "regions"
	sourceTime      = "time"
	sourceTasks     = "tasks"
)

// entitySourceMapping resolves metric and dimension keywords to a source.
var entitySourceMapping = map[string]string{
	"vendas":      sourceSales,
	"lucro":       sourceProfit,
	"receita":     sourceRevenue,
	"clientes":    sourceCustomers,
	"produtos":    sourceProducts,
	"regiões":     sourceRegions,
	"região":      sourceRegions,
	"tempo":       sourceTime,
	"mês":         sourceTime,
	"trimestre":   sourceTime,
	"ano":         sourceTime,
	"tarefas":     sourceTasks,
	"tarefa":      sourceTasks,
	"prioridade":  sourceTasks,
	"prioridades": sourceTasks,
}

var validOperators = map[string]bool{
	OpEqual:          true,
	OpGreater:        true,
	OpLess:           true,
	OpGreaterOrEqual: true,
	OpLessOrEqual:    true,
	OpContains:       true,
}

var months = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// Retriever is the second pipeline stage: it picks a data source for the
// request and returns its records. The tasks source reads live task records;
// the business sources are synthetic fixtures that only exist to exercise
// the generic chart paths.
type Retriever struct {
	tasks  taskstore.Store
	now    func() time.Time
	logger logger.Logger
}

func NewRetriever(tasks taskstore.Store, log logger.Logger) *Retriever {
	return &Retriever{
		tasks:  tasks,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"stage": "data_retrieval"}),
	}
}

// Retrieve fetches the records backing the request. Malformed filters fail
// validation before any source is consulted.
func (r *Retriever) Retrieve(ctx context.Context, request NluResult) (RawData, error) {
	for _, filter := range request.Filters {
		if !validOperators[filter.Operator] {
			return RawData{}, errors.NewValidationError(
				fmt.Sprintf("unsupported filter operator %q on field %q", filter.Operator, filter.Field))
		}
	}

	source := r.identifySource(request)
	r.logger.Debug("data source identified", map[string]interface{}{"source": source})

	if source == sourceTasks {
		return r.taskData(ctx)
	}
	return r.syntheticData(source, request)
}

// identifySource checks, in order: explicit entity hints, the chart-type
// keyword, metrics, dimensions, then the default source.
func (r *Retriever) identifySource(request NluResult) string {
	for _, entity := range request.Entities {
		if entity.Name == "task_attribute" && strings.Contains(strings.ToLower(entity.Value), "prioridade") {
			return sourceTasks
		}
	}

	chartType := strings.ToLower(request.ChartType)
	if strings.Contains(chartType, "priority") || strings.Contains(chartType, "prioridade") {
		return sourceTasks
	}

	for _, metric := range request.Metrics {
		if source, ok := entitySourceMapping[strings.ToLower(metric)]; ok {
			return source
		}
	}
	for _, dimension := range request.Dimensions {
		if source, ok := entitySourceMapping[strings.ToLower(dimension)]; ok {
			return source
		}
	}

	return sourceSales
}

// taskData buckets uncompleted tasks by priority, localized and sorted by
// descending count.
func (r *Retriever) taskData(ctx context.Context) (RawData, error) {
	counts := map[models.Priority]float64{
		models.PriorityLow:    0,
		models.PriorityMedium: 0,
		models.PriorityHigh:   0,
	}

	if r.tasks != nil {
		tasks, err := r.tasks.List(ctx)
		if err != nil {
			return RawData{}, errors.NewUnknownDataSourceError(sourceTasks)
		}
		for _, task := range tasks {
			if task.Checked {
				continue
			}
			if _, known := counts[task.Priority]; known {
				counts[task.Priority]++
			} else {
				r.logger.Warn("task with unknown priority", map[string]interface{}{"priority": string(task.Priority)})
			}
		}
	}

	records := []Record{
		{Category: "Baixa", Value: counts[models.PriorityLow], Priority: string(models.PriorityLow)},
		{Category: "Média", Value: counts[models.PriorityMedium], Priority: string(models.PriorityMedium)},
		{Category: "Alta", Value: counts[models.PriorityHigh], Priority: string(models.PriorityHigh)},
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Value > records[j].Value })

	return RawData{
		Records:  records,
		Metadata: Metadata{Source: sourceTasks, Timestamp: r.now().Format(time.RFC3339)},
	}, nil
}

// syntheticData returns a deterministic fixture for the business sources.
func (r *Retriever) syntheticData(source string, request NluResult) (RawData, error) {
	var records []Record

	switch source {
	case sourceSales, sourceProfit, sourceRevenue, sourceCustomers, sourceTime:
		// Monthly series so temporal chart inference has enough points.
		for i, month := range months {
			records = append(records, Record{
				Category: month,
				Value:    float64(80 + (i*37)%120),
				Time:     month,
			})
		}
	case sourceProducts:
		for i, product := range []string{"Laptop", "Smartphone", "Tablet", "Monitor", "Teclado", "Mouse", "Headphone", "Smartwatch"} {
			records = append(records, Record{Category: product, Value: float64(30 + (i*53)%200)})
		}
	case sourceRegions:
		for i, region := range []string{"Norte", "Sul", "Leste", "Oeste", "Nordeste", "Sudeste", "Centro-Oeste"} {
			records = append(records, Record{Category: region, Value: float64(50 + (i*41)%150)})
		}
	default:
		return RawData{}, errors.NewUnknownDataSourceError(source)
	}

	records = applyFilters(records, request.Filters)
	records = applyTimeRange(records, request.TimeRange)

	return RawData{
		Records:  records,
		Metadata: Metadata{Source: "mock_" + source, Timestamp: r.now().Format(time.RFC3339)},
	}, nil
}

func applyFilters(records []Record, filters []Filter) []Record {
	if len(filters) == 0 {
		return records
	}

	filtered := records[:0:0]
	for _, record := range records {
		keep := true
		for _, filter := range filters {
			if !matchesFilter(record, filter) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// matchesFilter resolves the filter field against the record's known
// attributes. Unknown fields never exclude a record.
func matchesFilter(record Record, filter Filter) bool {
	switch filter.Field {
	case "category":
		return compareStrings(record.Category, filter.Operator, filter.Value)
	case "priority":
		return compareStrings(record.Priority, filter.Operator, filter.Value)
	case "time", "time_period":
		return compareStrings(record.Time, filter.Operator, filter.Value)
	case "value":
		target, err := strconv.ParseFloat(filter.Value, 64)
		if err != nil {
			return true
		}
		return compareNumbers(record.Value, filter.Operator, target)
	default:
		return true
	}
}

func compareStrings(actual, operator, expected string) bool {
	switch operator {
	case OpEqual:
		return strings.EqualFold(actual, expected)
	case OpContains:
		return strings.Contains(strings.ToLower(actual), strings.ToLower(expected))
	case OpGreater:
		return actual > expected
	case OpLess:
		return actual < expected
	case OpGreaterOrEqual:
		return actual >= expected
	case OpLessOrEqual:
		return actual <= expected
	default:
		return true
	}
}

func compareNumbers(actual float64, operator string, expected float64) bool {
	switch operator {
	case OpEqual:
		return actual == expected
	case OpGreater:
		return actual > expected
	case OpLess:
		return actual < expected
	case OpGreaterOrEqual:
		return actual >= expected
	case OpLessOrEqual:
		return actual <= expected
	default:
		return true
	}
}

// applyTimeRange trims a monthly series to the named trailing window.
func applyTimeRange(records []Record, timeRange *TimeRange) []Record {
	if timeRange == nil || timeRange.Period == "" {
		return records
	}

	keep := len(records)
	switch timeRange.Period {
	case "último mês":
		keep = 1
	case "último trimestre":
		keep = 3
	case "último ano":
		keep = 12
	}
	if keep >= len(records) {
		return records
	}
	return records[len(records)-keep:]
}
