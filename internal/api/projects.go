package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"credits_system/internal/domain"    // Importing domain models
	"credits_system/internal/ledger"    // Ledger errors
	"credits_system/internal/workspace" // Projects and messages

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// CreateProjectRequest represents a new project
type CreateProjectRequest struct {
	Title       string `json:"title"`       // Optional title
	Description string `json:"description"` // Optional description
}

// PostMessageRequest represents a chat message
type PostMessageRequest struct {
	Content string `json:"content"` // Prompt text, must not be blank
}

// ListProjectsHandler returns the caller's projects, most recently updated first
func ListProjectsHandler(ws *workspace.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			return
		}
		projects, err := ws.List(c.Request.Context(), userID)
		if err != nil {
			internalError(c, "LIST_FAILED", err, logrus.Fields{"user_id": userID})
			return
		}
		if projects == nil {
			projects = []domain.Project{} // Render an empty list, not null
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects})
	}
}

// CreateProjectHandler creates a DRAFT project for the caller
func CreateProjectHandler(ws *workspace.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			return
		}
		var req CreateProjectRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
			return
		}
		project, err := ws.Create(c.Request.Context(), userID, req.Title, req.Description)
		if err != nil {
			internalError(c, "CREATE_FAILED", err, logrus.Fields{"user_id": userID})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": project.ID}) // Return the new id
	}
}

// GetProjectHandler returns one of the caller's projects with its messages
func GetProjectHandler(ws *workspace.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			return
		}
		project, err := ws.Get(c.Request.Context(), userID, c.Param("id"))
		if errors.Is(err, workspace.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "PROJECT_NOT_FOUND"})
			return
		}
		if err != nil {
			internalError(c, "PROJECT_FAILED", err, logrus.Fields{"user_id": userID})
			return
		}
		if project.Messages == nil {
			project.Messages = []domain.Message{} // Render an empty list, not null
		}
		c.JSON(http.StatusOK, gin.H{"project": project})
	}
}

// PostMessageHandler charges the caller for a message and appends it with the agent reply
func PostMessageHandler(ws *workspace.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			return
		}
		var req PostMessageRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
			return
		}
		projectID := c.Param("id")
		ctx := c.Request.Context()
		exchange, err := ws.PostMessage(ctx, userID, projectID, req.Content)
		switch {
		case errors.Is(err, workspace.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "PROJECT_NOT_FOUND"})
			return
		case errors.Is(err, workspace.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "EMPTY_MESSAGE"})
			return
		case errors.Is(err, ledger.ErrInsufficientCredits):
			// The client offers a credit purchase on 402
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "INSUFFICIENT_CREDITS"})
			return
		case err != nil:
			internalError(c, "MESSAGE_FAILED", err, logrus.Fields{
				"user_id":    userID,    // Caller
				"project_id": projectID, // Target project
			})
			return
		}
		invalidateUser(ctx, rdb, userID) // Balance and history changed
		c.JSON(http.StatusOK, gin.H{"ok": true, "userMessage": exchange.UserMessage, "agentMessage": exchange.AgentMessage})
	}
}
