// internal/server/handlers.go
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orumaiv/internal/dashboard"
	"orumaiv/internal/models"
	"orumaiv/internal/nlu"
	"orumaiv/internal/orchestrator"
)

// chatRequest is the body of POST /api/chat.
type chatRequest struct {
	Message       string `json:"message"`
	TaskID        string `json:"taskId"`
	UserID        string `json:"userId"`
	SessionID     string `json:"sessionId"`
	IsAutoWelcome bool   `json:"isAutoWelcome"`
}

// chatResponse is the message shape the chat client renders.
type chatResponse struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	Sender           string            `json:"sender"`
	Timestamp        string            `json:"timestamp"`
	Intent           string            `json:"intent"`
	Entities         []nlu.Entity      `json:"entities"`
	Confidence       float64           `json:"confidence"`
	FollowupQuestion string            `json:"followupQuestion,omitempty"`
	TaskUpdated      bool              `json:"taskUpdated"`
	TaskData         *models.Task      `json:"taskData,omitempty"`
	DashboardResult  *dashboard.Result `json:"dashboardResult,omitempty"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem inválida"})
		return
	}

	reply := s.orchestrator.HandleMessage(c.Request.Context(), req.Message, orchestrator.MessageContext{
		TaskID:        req.TaskID,
		UserID:        req.UserID,
		SessionID:     req.SessionID,
		IsAutoWelcome: req.IsAutoWelcome,
	})

	c.JSON(http.StatusOK, chatResponse{
		ID:               uuid.NewString(),
		Text:             reply.Content,
		Sender:           "system",
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Intent:           reply.Intent,
		Entities:         reply.Entities,
		Confidence:       reply.Confidence,
		FollowupQuestion: reply.FollowupQuestion,
		TaskUpdated:      reply.TaskUpdated,
		TaskData:         reply.TaskData,
		DashboardResult:  reply.Dashboard,
	})
}

// dashboardRequest is the body of POST /api/dashboard.
type dashboardRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	TaskID  string `json:"taskId"`
}

// dashboardResponse wraps the pipeline result for the dashboard client.
type dashboardResponse struct {
	Success         bool             `json:"success"`
	Explanation     string           `json:"explanation,omitempty"`
	Error           string           `json:"error,omitempty"`
	DashboardResult dashboard.Result `json:"dashboardResult"`
}

func (s *Server) handleDashboard(c *gin.Context) {
	var req dashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem não fornecida"})
		return
	}

	result := s.orchestrator.HandleDashboardRequest(c.Request.Context(), req.Message)

	c.JSON(http.StatusOK, dashboardResponse{
		Success:         result.Success,
		Explanation:     result.Description,
		Error:           result.Error,
		DashboardResult: result,
	})
}
