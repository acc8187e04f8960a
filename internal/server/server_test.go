package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orumaiv/internal/common/config"
	"orumaiv/internal/common/logger"
	"orumaiv/internal/dashboard"
	"orumaiv/internal/models"
	"orumaiv/internal/nlu"
	"orumaiv/internal/orchestrator"
	"orumaiv/internal/responder"
	"orumaiv/internal/session"
	"orumaiv/internal/specialist"
	"orumaiv/internal/taskagent"
	"orumaiv/internal/taskstore"
)

func newTestServer(t *testing.T, tasks taskstore.Store) *Server {
	t.Helper()
	log := logger.NewTestLogger(t)

	extractor := nlu.NewExtractor()
	classifier := nlu.NewClassifier(nil, extractor, log)
	executor := taskagent.NewExecutor(tasks, extractor, 100, log)
	render := responder.NewWithPicker(log, func(int) int { return 0 })

	pipeline, err := dashboard.NewPipeline(tasks, nil, log)
	require.NoError(t, err)

	agent := orchestrator.NewAgent(nil, specialist.NewRouter(log), session.NewMemoryStore(time.Hour), 20, log)
	orch := orchestrator.New(classifier, executor, render, pipeline, agent, tasks, log)

	return New(config.ServerConfig{Address: ":0"}, orch, nil, log)
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint_Greeting(t *testing.T) {
	s := newTestServer(t, taskstore.NewMemoryStore())

	rec := postJSON(t, s, "/api/chat", map[string]interface{}{"message": "olá"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "system", resp.Sender)
	assert.Equal(t, nlu.IntentGreeting, resp.Intent)
	assert.Equal(t, "Olá! Como posso ajudar você hoje?", resp.Text)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestChatEndpoint_RejectsEmptyMessage(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "blank message", body: map[string]interface{}{"message": "   "}},
		{name: "missing field", body: map[string]interface{}{"taskId": "t1"}},
		{name: "wrong type", body: map[string]interface{}{"message": 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, s, "/api/chat", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error": "Mensagem inválida"}`, rec.Body.String())
		})
	}
}

func TestChatEndpoint_TaskCreate(t *testing.T) {
	tasks := taskstore.NewMemoryStore()
	s := newTestServer(t, tasks)

	rec := postJSON(t, s, "/api/chat", map[string]interface{}{
		"message": "criar tarefa: comprar leite",
		"userId":  "u1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, nlu.IntentTaskCreate, resp.Intent)
	assert.True(t, resp.TaskUpdated)
	require.NotNil(t, resp.TaskData)
	assert.NotEmpty(t, resp.TaskData.ID)

	stored, err := tasks.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestChatEndpoint_WelcomeUsesTaskContext(t *testing.T) {
	tasks := taskstore.NewMemoryStore()
	_, err := tasks.Create(context.Background(), models.Task{ID: "t1", Text: "Consulta dentista"})
	require.NoError(t, err)
	s := newTestServer(t, tasks)

	rec := postJSON(t, s, "/api/chat", map[string]interface{}{
		"message":       "welcome_auto_message: Consulta dentista",
		"taskId":        "t1",
		"isAutoWelcome": true,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "welcome_message", resp.Intent)
	assert.Contains(t, resp.Text, "Consulta dentista")
}

func TestChatEndpoint_DashboardMessageCarriesResult(t *testing.T) {
	s := newTestServer(t, taskstore.NewMemoryStore())

	rec := postJSON(t, s, "/api/chat", map[string]interface{}{
		"message": "gráfico de tarefas por prioridade",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, nlu.IntentDashboardRequest, resp.Intent)
	require.NotNil(t, resp.DashboardResult)
	assert.True(t, resp.DashboardResult.Success)
	assert.Equal(t, "bar", resp.DashboardResult.ChartConfig.ChartType)
}

func TestDashboardEndpoint(t *testing.T) {
	s := newTestServer(t, taskstore.NewMemoryStore())

	rec := postJSON(t, s, "/api/dashboard", map[string]interface{}{
		"message": "gráfico de vendas por mês",
		"userId":  "u1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Explanation)
	assert.Equal(t, "line", resp.DashboardResult.ChartConfig.ChartType)
	assert.Len(t, resp.DashboardResult.ChartConfig.Data.Labels, 12)
}

func TestDashboardEndpoint_RejectsMissingMessage(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postJSON(t, s, "/api/dashboard", map[string]interface{}{"userId": "u1"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Mensagem não fornecida"}`, rec.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, taskstore.NewMemoryStore())

	// Generate at least one counted message first.
	postJSON(t, s, "/api/chat", map[string]interface{}{"message": "olá"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "assistant_messages_processed_total")
}
