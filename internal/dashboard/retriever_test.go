package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orumaiv/internal/common/errors"
	"orumaiv/internal/common/logger"
	"orumaiv/internal/models"
	"orumaiv/internal/nlu"
	"orumaiv/internal/taskstore"
)

func seedTasks(t *testing.T) *taskstore.MemoryStore {
	t.Helper()
	store := taskstore.NewMemoryStore()
	ctx := context.Background()

	seed := []models.Task{
		{Text: "t1", Priority: models.PriorityHigh},
		{Text: "t2", Priority: models.PriorityHigh},
		{Text: "t3", Priority: models.PriorityHigh},
		{Text: "t4", Priority: models.PriorityMedium},
		{Text: "t5", Priority: models.PriorityMedium},
		{Text: "t6", Priority: models.PriorityLow},
		{Text: "t7", Priority: models.PriorityHigh, Checked: true},
	}
	for _, task := range seed {
		_, err := store.Create(ctx, task)
		require.NoError(t, err)
	}
	return store
}

func TestRetriever_TasksSource_BucketsUncheckedByPriority(t *testing.T) {
	retriever := NewRetriever(seedTasks(t), logger.NewTestLogger(t))

	raw, err := retriever.Retrieve(context.Background(), NluResult{Metrics: []string{"tarefas"}})
	require.NoError(t, err)

	assert.Equal(t, "tasks", raw.Metadata.Source)
	require.Len(t, raw.Records, 3)
	// Sorted by descending count; the checked high-priority task is excluded.
	assert.Equal(t, Record{Category: "Alta", Value: 3, Priority: "high"}, raw.Records[0])
	assert.Equal(t, Record{Category: "Média", Value: 2, Priority: "medium"}, raw.Records[1])
	assert.Equal(t, Record{Category: "Baixa", Value: 1, Priority: "low"}, raw.Records[2])
}

func TestRetriever_TasksSource_NilStoreYieldsZeroCounts(t *testing.T) {
	retriever := NewRetriever(nil, logger.NewTestLogger(t))

	raw, err := retriever.Retrieve(context.Background(), NluResult{Metrics: []string{"tarefas"}})
	require.NoError(t, err)

	require.Len(t, raw.Records, 3)
	for _, record := range raw.Records {
		assert.Zero(t, record.Value)
	}
}

func TestRetriever_SourceSelectionOrder(t *testing.T) {
	tests := []struct {
		name    string
		request NluResult
		source  string
	}{
		{
			name: "task attribute entity wins",
			request: NluResult{
				Entities: []nlu.Entity{{Name: "task_attribute", Value: "prioridade alta"}},
				Metrics:  []string{"vendas"},
			},
			source: "tasks",
		},
		{
			name:    "priority chart type",
			request: NluResult{ChartType: "prioridade", Metrics: []string{"vendas"}},
			source:  "tasks",
		},
		{
			name:    "metric keyword",
			request: NluResult{Metrics: []string{"vendas"}, Dimensions: []string{"mês"}},
			source:  "mock_sales",
		},
		{
			name:    "dimension keyword",
			request: NluResult{Dimensions: []string{"mês"}},
			source:  "mock_time",
		},
		{
			name:    "default",
			request: NluResult{},
			source:  "mock_sales",
		},
	}

	retriever := NewRetriever(taskstore.NewMemoryStore(), logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := retriever.Retrieve(context.Background(), tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.source, raw.Metadata.Source)
		})
	}
}

func TestRetriever_InvalidFilterOperator(t *testing.T) {
	retriever := NewRetriever(taskstore.NewMemoryStore(), logger.NewTestLogger(t))

	_, err := retriever.Retrieve(context.Background(), NluResult{
		Filters: []Filter{{Field: "category", Operator: "~", Value: "x"}},
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestRetriever_FiltersApply(t *testing.T) {
	retriever := NewRetriever(nil, logger.NewTestLogger(t))

	raw, err := retriever.Retrieve(context.Background(), NluResult{
		Dimensions: []string{"produtos"},
		Filters:    []Filter{{Field: "category", Operator: "contains", Value: "lap"}},
	})
	require.NoError(t, err)

	require.Len(t, raw.Records, 1)
	assert.Equal(t, "Laptop", raw.Records[0].Category)
}

func TestRetriever_UnknownFilterFieldNeverExcludes(t *testing.T) {
	retriever := NewRetriever(nil, logger.NewTestLogger(t))

	raw, err := retriever.Retrieve(context.Background(), NluResult{
		Dimensions: []string{"regiões"},
		Filters:    []Filter{{Field: "vendedor", Operator: "=", Value: "x"}},
	})
	require.NoError(t, err)

	assert.Len(t, raw.Records, 7)
}

func TestRetriever_TimeRangeTrimsMonthlySeries(t *testing.T) {
	retriever := NewRetriever(nil, logger.NewTestLogger(t))

	raw, err := retriever.Retrieve(context.Background(), NluResult{
		Metrics:   []string{"vendas"},
		TimeRange: &TimeRange{Period: "último trimestre"},
	})
	require.NoError(t, err)

	require.Len(t, raw.Records, 3)
	assert.Equal(t, "Out", raw.Records[0].Category)
	assert.Equal(t, "Dez", raw.Records[2].Category)
}
