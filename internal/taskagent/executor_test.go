package taskagent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orumaiv/internal/common/logger"
	"orumaiv/internal/models"
	"orumaiv/internal/nlu"
	"orumaiv/internal/taskstore"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
}

// recordingStore counts store invocations to assert zero side effects on
// precondition failures.
type recordingStore struct {
	inner *taskstore.MemoryStore
	calls int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{inner: taskstore.NewMemoryStore()}
}

func (s *recordingStore) Create(ctx context.Context, task models.Task) (models.Task, error) {
	s.calls++
	return s.inner.Create(ctx, task)
}

func (s *recordingStore) Get(ctx context.Context, id string) (models.Task, error) {
	s.calls++
	return s.inner.Get(ctx, id)
}

func (s *recordingStore) Update(ctx context.Context, id string, update taskstore.Update) (models.Task, error) {
	s.calls++
	return s.inner.Update(ctx, id, update)
}

func (s *recordingStore) Delete(ctx context.Context, id string) error {
	s.calls++
	return s.inner.Delete(ctx, id)
}

func (s *recordingStore) List(ctx context.Context) ([]models.Task, error) {
	s.calls++
	return s.inner.List(ctx)
}

func newTestExecutor(t *testing.T, store taskstore.Store) *Executor {
	t.Helper()
	return NewExecutor(store, nlu.NewExtractorWithClock(fixedClock), 100, logger.NewTestLogger(t))
}

func TestExecutor_MissingTaskID_NoSideEffects(t *testing.T) {
	tests := []struct {
		intent string
		action string
		errMsg string
	}{
		{nlu.IntentTaskUpdate, ActionUpdate, "Nenhuma tarefa selecionada para atualizar"},
		{nlu.IntentTaskDelete, ActionDelete, "Nenhuma tarefa selecionada para excluir"},
		{nlu.IntentTaskComplete, ActionComplete, "Nenhuma tarefa selecionada para concluir"},
	}

	for _, tt := range tests {
		t.Run(tt.intent, func(t *testing.T) {
			store := newRecordingStore()
			executor := newTestExecutor(t, store)

			result := executor.Execute(context.Background(), Input{Intent: tt.intent})

			assert.False(t, result.Success)
			assert.False(t, result.Updated)
			assert.Equal(t, tt.action, result.Action)
			assert.Equal(t, tt.errMsg, result.Error)
			assert.Zero(t, store.calls, "store must not be invoked on precondition failure")
		})
	}
}

func TestExecutor_Create_FromEntities(t *testing.T) {
	store := newRecordingStore()
	executor := newTestExecutor(t, store)

	message := "crie uma tarefa: comprar leite amanhã às 9h, prioridade alta"
	entities := nlu.NewExtractorWithClock(fixedClock).Extract(message)

	result := executor.Execute(context.Background(), Input{
		Intent:   nlu.IntentTaskCreate,
		Entities: entities,
		Message:  message,
	})

	require.True(t, result.Success)
	assert.True(t, result.Updated)
	assert.Equal(t, ActionCreate, result.Action)
	require.NotNil(t, result.TaskData)
	assert.Equal(t, models.PriorityHigh, result.TaskData.Priority)
	assert.Equal(t, "comprar leite amanhã às 9h", result.TaskData.Text)
	assert.Equal(t, "9h00", result.TaskData.Time)
	assert.Equal(t, "2025-03-11", result.TaskData.DueDate)
	assert.NotEmpty(t, result.TaskData.ID)
}

func TestExecutor_Create_TitleFallsBackToFirstSentence(t *testing.T) {
	executor := newTestExecutor(t, newRecordingStore())

	result := executor.Execute(context.Background(), Input{
		Intent:  nlu.IntentTaskCreate,
		Message: "preparar apresentação do trimestre. depois revisar com o time",
	})

	require.True(t, result.Success)
	assert.Equal(t, "preparar apresentação do trimestre", result.TaskData.Text)
}

func TestExecutor_Create_TitleTruncated(t *testing.T) {
	executor := NewExecutor(newRecordingStore(), nlu.NewExtractorWithClock(fixedClock), 10, logger.NewTestLogger(t))

	result := executor.Execute(context.Background(), Input{
		Intent:  nlu.IntentTaskCreate,
		Message: "uma mensagem bem mais longa que o limite",
	})

	require.True(t, result.Success)
	assert.Equal(t, "uma mensag", result.TaskData.Text)
}

func TestExecutor_Create_EmptyMessageFallbackTitle(t *testing.T) {
	executor := newTestExecutor(t, newRecordingStore())

	result := executor.Execute(context.Background(), Input{
		Intent:  nlu.IntentTaskCreate,
		Message: "...",
	})

	require.True(t, result.Success)
	assert.Equal(t, "Nova tarefa", result.TaskData.Text)
}

func TestExecutor_Update_AppliesEntities(t *testing.T) {
	store := newRecordingStore()
	executor := newTestExecutor(t, store)
	ctx := context.Background()

	created, err := store.inner.Create(ctx, models.Task{Text: "Reunião", Priority: models.PriorityLow})
	require.NoError(t, err)

	result := executor.Execute(ctx, Input{
		Intent: nlu.IntentTaskUpdate,
		TaskID: created.ID,
		Entities: []nlu.Entity{
			{Name: "priority", Value: "alta"},
			{Name: "time", Value: "14:30"},
		},
	})

	require.True(t, result.Success)
	assert.True(t, result.Updated)
	require.NotNil(t, result.TaskData)
	assert.Equal(t, models.PriorityHigh, result.TaskData.Priority)
	assert.Equal(t, "14h30", result.TaskData.Time)
	assert.Equal(t, "Reunião", result.TaskData.Text)
}

func TestExecutor_Update_UnknownTask(t *testing.T) {
	executor := newTestExecutor(t, newRecordingStore())

	result := executor.Execute(context.Background(), Input{
		Intent: nlu.IntentTaskUpdate,
		TaskID: "missing",
	})

	assert.False(t, result.Success)
	assert.Equal(t, ActionUpdate, result.Action)
	assert.NotEmpty(t, result.Error)
}

func TestExecutor_Complete(t *testing.T) {
	store := newRecordingStore()
	executor := newTestExecutor(t, store)
	ctx := context.Background()

	created, err := store.inner.Create(ctx, models.Task{Text: "Yoga"})
	require.NoError(t, err)

	result := executor.Execute(ctx, Input{Intent: nlu.IntentTaskComplete, TaskID: created.ID})

	require.True(t, result.Success)
	require.NotNil(t, result.TaskData)
	assert.True(t, result.TaskData.Checked)
}

func TestExecutor_Delete(t *testing.T) {
	store := newRecordingStore()
	executor := newTestExecutor(t, store)
	ctx := context.Background()

	created, err := store.inner.Create(ctx, models.Task{Text: "Remover"})
	require.NoError(t, err)

	result := executor.Execute(ctx, Input{Intent: nlu.IntentTaskDelete, TaskID: created.ID})

	require.True(t, result.Success)
	assert.True(t, result.Updated)
	assert.Nil(t, result.TaskData)

	_, err = store.inner.Get(ctx, created.ID)
	assert.Error(t, err)
}

func TestExecutor_NoOpIntents(t *testing.T) {
	store := newRecordingStore()
	executor := newTestExecutor(t, store)

	tests := []struct {
		intent string
		action string
	}{
		{nlu.IntentTaskList, ActionList},
		{nlu.IntentTaskQuery, ActionQuery},
		{nlu.IntentGreeting, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.intent, func(t *testing.T) {
			result := executor.Execute(context.Background(), Input{Intent: tt.intent})
			assert.True(t, result.Success)
			assert.False(t, result.Updated)
			assert.Equal(t, tt.action, result.Action)
		})
	}
	assert.Zero(t, store.calls)
}

func TestExecutor_MockMode(t *testing.T) {
	executor := newTestExecutor(t, nil)
	ctx := context.Background()

	create := executor.Execute(ctx, Input{
		Intent:  nlu.IntentTaskCreate,
		Message: "criar tarefa simples",
	})
	require.True(t, create.Success)
	require.NotNil(t, create.TaskData)
	assert.NotEmpty(t, create.TaskData.ID)
	assert.Equal(t, models.PriorityMedium, create.TaskData.Priority)
	assert.Equal(t, "2025-03-10", create.TaskData.DueDate)

	complete := executor.Execute(ctx, Input{Intent: nlu.IntentTaskComplete, TaskID: "t-1"})
	require.True(t, complete.Success)
	assert.True(t, complete.TaskData.Checked)

	// Same precondition contract as the store-backed mode.
	noID := executor.Execute(ctx, Input{Intent: nlu.IntentTaskDelete})
	assert.False(t, noID.Success)
	assert.False(t, noID.Updated)
}
