package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"

	"lifecourse/api/internal/billing"
	"lifecourse/api/internal/middleware"
)

func (h HandlerSet) ListSessions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	views, err := h.courses.GetSessionsView(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

func (h HandlerSet) CompleteSession(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.courses.MarkCompleted(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session marked as completed."})
}

type accessRequestRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

func (h HandlerSet) RequestAccess(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req accessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.courses.RequestAccess(c.Request.Context(), user.ID, req.SessionID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Access request submitted for review."})
}

func (h HandlerSet) ListNotifications(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	notifications, err := h.courses.Notifications(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h HandlerSet) MarkNotificationsRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.courses.MarkNotificationsRead(c.Request.Context(), user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as read."})
}

type createOrderRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Product string `json:"product" binding:"required,oneof=course intro"`
}

// CreateOrder opens a payment intent before registration or upgrade.
func (h HandlerSet) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		order billing.Order
		err   error
	)
	if req.Product == "intro" {
		order, err = h.billing.CreateIntroOrder(req.Email)
	} else {
		order, err = h.billing.CreateCourseOrder(req.Email)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderId":      order.OrderID,
		"clientSecret": order.ClientSecret,
		"amount":       order.Amount,
		"currency":     order.Currency,
	})
}

// PayCourse confirms a settled upgrade order and flips the premium flag.
func (h HandlerSet) PayCourse(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		OrderID string `json:"orderId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.billing.ConfirmOrder(req.OrderID); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.courses.MarkPaid(c.Request.Context(), user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment confirmed. Full course unlocked."})
}

// BillingWebhook receives asynchronous settlement events from the
// payment gateway. Signature failures are rejected outright.
func (h HandlerSet) BillingWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	event, err := h.billing.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		h.settlePaymentIntent(c, event)
	case stripe.EventTypePaymentIntentPaymentFailed:
		h.log.Warn().Str("event_id", event.ID).Msg("payment intent failed")
	default:
		h.log.Debug().Str("event_type", string(event.Type)).Msg("unhandled billing event")
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// settlePaymentIntent flips the premium flag for the paying account. The
// synchronous /course/pay path does the same; the webhook covers clients
// that never came back after checkout.
func (h HandlerSet) settlePaymentIntent(c *gin.Context, event stripe.Event) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		h.log.Error().Err(err).Str("event_id", event.ID).Msg("decode payment intent failed")
		return
	}
	if intent.ReceiptEmail == "" {
		h.log.Warn().Str("event_id", event.ID).Msg("settled intent carries no email")
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(intent.ReceiptEmail))
	if err != nil {
		// Registration-flow intents settle before the account exists;
		// that flow verifies the order itself.
		h.log.Info().
			Str("event_id", event.ID).
			Str("email", intent.ReceiptEmail).
			Msg("settled intent has no account yet")
		return
	}
	if user.HasPaid {
		return
	}

	if err := h.courses.MarkPaid(c.Request.Context(), user.ID); err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("mark paid from webhook failed")
		return
	}
	h.log.Info().Str("user_id", user.ID).Str("event_id", event.ID).Msg("premium unlocked via webhook")
}
