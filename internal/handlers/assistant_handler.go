package handlers

import (
	"net/http"

	"go-pos-store/internal/assistant"

	"github.com/gin-gonic/gin"
)

// AssistantHandler exposes the admin assistant.
type AssistantHandler struct {
	agent *assistant.Agent
}

func NewAssistantHandler(agent *assistant.Agent) *AssistantHandler {
	return &AssistantHandler{agent: agent}
}

type askRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *AssistantHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	reply, err := h.agent.Run(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
