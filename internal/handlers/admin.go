package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifecourse/api/internal/media/sniffer"
	"lifecourse/api/internal/middleware"
	"lifecourse/api/internal/models"
	"lifecourse/api/internal/service"
)

func (h HandlerSet) ListUsers(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	users, err := h.admin.ListUsers(c.Request.Context(), caller.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

type createAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h HandlerSet) CreateAdmin(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.admin.CreateAdmin(c.Request.Context(), caller, req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

type updateRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required,oneof=user admin superadmin"`
}

func (h HandlerSet) UpdateRole(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.admin.UpdateRole(c.Request.Context(), caller, c.Param("id"), req.Role); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated."})
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted."})
}

type sessionRequest struct {
	DayNumber     int                `json:"dayNumber" binding:"required,min=1"`
	Title         string             `json:"title" binding:"required"`
	Type          models.SessionType `json:"type" binding:"required,oneof=One:One Recorded"`
	ContextPoints []string           `json:"contextPoints"`
	MediaURL      string             `json:"mediaUrl"`
}

func (r sessionRequest) toInput() service.SessionInput {
	return service.SessionInput{
		DayNumber:     r.DayNumber,
		Title:         r.Title,
		Type:          r.Type,
		ContextPoints: r.ContextPoints,
		MediaURL:      r.MediaURL,
	}
}

func (h HandlerSet) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.admin.CreateSession(c.Request.Context(), req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h HandlerSet) UpdateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.admin.UpdateSession(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h HandlerSet) DeleteSession(c *gin.Context) {
	if err := h.admin.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted."})
}

// UploadSessionMedia accepts a multipart audio file for one session.
func (h HandlerSet) UploadSessionMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable media file"})
		return
	}
	defer file.Close()

	declaredMIME := sniffer.MimeTypeFromHTTP(fileHeader.Header)
	url, err := h.media.UploadSessionMedia(c.Request.Context(), c.Param("id"), file, fileHeader.Size, declaredMIME)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mediaUrl": url})
}

func (h HandlerSet) ListAccessRequests(c *gin.Context) {
	entries, err := h.admin.ListPendingRequests(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	type entryResponse struct {
		UserID      string               `json:"userId"`
		UserName    string               `json:"userName"`
		UserEmail   string               `json:"userEmail"`
		SessionID   string               `json:"sessionId"`
		Status      models.RequestStatus `json:"status"`
		RequestedAt string               `json:"requestedAt"`
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			UserID:      e.UserID,
			UserName:    e.UserName,
			UserEmail:   e.UserEmail,
			SessionID:   e.Request.SessionID,
			Status:      e.Request.Status,
			RequestedAt: e.Request.RequestedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"requests": out})
}

type resolveAccessRequest struct {
	Grant bool `json:"grant"`
}

// ResolveAccess grants or revokes special access on one user/session
// pair, resolving any pending request in the same write.
func (h HandlerSet) ResolveAccess(c *gin.Context) {
	var req resolveAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.admin.ResolveAccess(c.Request.Context(), c.Param("id"), c.Param("sessionId"), req.Grant)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          toUserResponse(user),
		"specialAccess": user.SpecialAccess,
	})
}
