package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lifecourse/api/internal/billing"
	"lifecourse/api/internal/config"
	"lifecourse/api/internal/course"
	"lifecourse/api/internal/middleware"
	"lifecourse/api/internal/models"
	"lifecourse/api/internal/repository"
	"lifecourse/api/internal/service"
)

// HandlerSet wires every HTTP handler to the services behind it.
type HandlerSet struct {
	cfg   *config.AppConfig
	log   zerolog.Logger
	db    *pgxpool.Pool
	cache *redis.Client

	auth        *service.AuthService
	courses     *service.CourseService
	admin       *service.AdminService
	media       *service.MediaService
	reflections *service.ReflectionService
	billing     *billing.Client
	users       *repository.UserRepository
}

type Deps struct {
	Cfg   *config.AppConfig
	Log   zerolog.Logger
	DB    *pgxpool.Pool
	Cache *redis.Client

	Auth        *service.AuthService
	Courses     *service.CourseService
	Admin       *service.AdminService
	Media       *service.MediaService
	Reflections *service.ReflectionService
	Billing     *billing.Client
	Users       *repository.UserRepository
}

func New(deps Deps) HandlerSet {
	return HandlerSet{
		cfg:         deps.Cfg,
		log:         deps.Log,
		db:          deps.DB,
		cache:       deps.Cache,
		auth:        deps.Auth,
		courses:     deps.Courses,
		admin:       deps.Admin,
		media:       deps.Media,
		reflections: deps.Reflections,
		billing:     deps.Billing,
		users:       deps.Users,
	}
}

// Register mounts the full API surface on the engine.
func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/api/healthz", h.Health)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)
		auth.POST("/verify-otp", h.VerifyOTP)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}

	billingGroup := v1.Group("/billing")
	{
		billingGroup.POST("/orders", h.CreateOrder)
		billingGroup.POST("/webhook", h.BillingWebhook)
	}

	v1.POST("/admin/login", h.AdminLogin)

	authed := v1.Group("")
	authed.Use(middleware.Authenticate(h.cfg.Security.JWTSecret, h.users))
	{
		authed.GET("/auth/me", h.Me)
		authed.PUT("/auth/profile", h.UpdateProfile)
		authed.PUT("/auth/password", h.ChangePassword)

		authed.GET("/course/sessions", h.ListSessions)
		authed.POST("/course/pay", h.PayCourse)
		authed.PUT("/course/sessions/:id/complete", h.CompleteSession)
		authed.POST("/course/access-requests", h.RequestAccess)
		authed.GET("/course/notifications", h.ListNotifications)
		authed.PUT("/course/notifications/read", h.MarkNotificationsRead)

		authed.GET("/reflections", h.ListReflections)
		authed.POST("/reflections", h.SubmitReflection)
		authed.PUT("/reflections/:id/viewed", h.MarkReflectionViewed)
	}

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleSuperAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateAdmin)
		admin.PUT("/users/:id/role", h.UpdateRole)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.POST("/sessions", h.CreateSession)
		admin.PUT("/sessions/:id", h.UpdateSession)
		admin.DELETE("/sessions/:id", h.DeleteSession)
		admin.POST("/sessions/:id/media", h.UploadSessionMedia)

		admin.GET("/access-requests", h.ListAccessRequests)
		admin.PUT("/users/:id/sessions/:sessionId/access", h.ResolveAccess)

		admin.GET("/reflections", h.ListAllReflections)
		admin.POST("/reflections/reply", h.ReplyReflection)
	}
}

// respondError maps service and repository sentinels onto status codes.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidOTP),
		errors.Is(err, service.ErrInvalidResetToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAdmin),
		errors.Is(err, service.ErrSuperAdminOnly),
		errors.Is(err, service.ErrSuperAdminProtected),
		errors.Is(err, service.ErrAdminProtected),
		errors.Is(err, service.ErrPremiumOnly):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrPaymentRequired):
		status = http.StatusPaymentRequired
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, course.ErrPendingRequestExists),
		errors.Is(err, repository.ErrDuplicateDay),
		errors.Is(err, repository.ErrDuplicateTitle):
		status = http.StatusConflict
	case errors.Is(err, course.ErrRequestLimitReached):
		status = http.StatusTooManyRequests
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrReflectionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnsupportedMedia),
		errors.Is(err, service.ErrMediaMismatch),
		errors.Is(err, service.ErrEmptyReflection):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type userResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	ProfilePicture string          `json:"profilePicture,omitempty"`
	Role           models.UserRole `json:"role"`
	HasPaid        bool            `json:"hasPaid"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		HasPaid:        u.HasPaid,
	}
}
