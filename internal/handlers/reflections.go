package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifecourse/api/internal/middleware"
)

type submitReflectionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

func (h HandlerSet) SubmitReflection(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req submitReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reflection, err := h.reflections.Submit(c.Request.Context(), user.ID, req.SessionID, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reflection": reflection})
}

func (h HandlerSet) ListReflections(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reflections, err := h.reflections.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reflections": reflections})
}

func (h HandlerSet) MarkReflectionViewed(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.reflections.MarkViewed(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reflection marked as viewed."})
}

func (h HandlerSet) ListAllReflections(c *gin.Context) {
	overviews, err := h.reflections.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reflections": overviews})
}

type replyReflectionRequest struct {
	ReflectionID string `json:"reflectionId" binding:"required"`
	Text         string `json:"text" binding:"required"`
}

func (h HandlerSet) ReplyReflection(c *gin.Context) {
	var req replyReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reflection, err := h.reflections.Reply(c.Request.Context(), req.ReflectionID, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reflection": reflection})
}
