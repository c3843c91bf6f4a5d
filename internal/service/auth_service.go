package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lifecourse/api/internal/billing"
	"lifecourse/api/internal/config"
	"lifecourse/api/internal/ids"
	"lifecourse/api/internal/mail"
	"lifecourse/api/internal/models"
	"lifecourse/api/internal/repository"
	"lifecourse/api/internal/security"
)

const (
	otpKeyPrefix   = "otp:login:"
	resetKeyPrefix = "pwreset:"
)

type AuthService struct {
	users   *repository.UserRepository
	cache   *redis.Client
	mailer  *mail.Enqueuer
	billing *billing.Client
	cfg     *config.AppConfig
	log     zerolog.Logger
}

func NewAuthService(
	users *repository.UserRepository,
	cache *redis.Client,
	mailer *mail.Enqueuer,
	billingClient *billing.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		cache:   cache,
		mailer:  mailer,
		billing: billingClient,
		cfg:     cfg,
		log:     log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	OrderID  string
}

type AuthResult struct {
	Token string
	User  models.User
}

// LoginChallenge is the intermediate state between a successful
// credential check and OTP verification.
type LoginChallenge struct {
	OTPToken string
}

// Register creates a paid account. The referenced payment order must
// have settled on the gateway before anything is written.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	if input.OrderID == "" {
		return AuthResult{}, ErrPaymentRequired
	}
	if err := s.billing.ConfirmOrder(input.OrderID); err != nil {
		if errors.Is(err, billing.ErrPaymentNotSettled) {
			return AuthResult{}, ErrPaymentRequired
		}
		return AuthResult{}, err
	}

	email := normalizeEmail(input.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(strings.TrimSpace(input.Password))
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: passwordHash,
		Role:         models.UserRoleUser,
		HasPaid:      true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	if err := s.mailer.EnqueueInvoice(ctx, user.Email, user.Name,
		"15-Day Transformation Course", s.cfg.Payment.CourseAmount,
		strings.ToUpper(s.cfg.Payment.Currency), input.OrderID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("enqueue invoice email failed")
	}

	return s.issueToken(user)
}

// Login is step one of the two-step login: on valid credentials it
// stores a hashed OTP in the cache, mails the code, and returns a
// short-lived token that carries the attempt to VerifyOTP.
func (s *AuthService) Login(ctx context.Context, email string, password string) (LoginChallenge, error) {
	user, err := s.findByCredentials(ctx, email, password)
	if err != nil {
		return LoginChallenge{}, err
	}

	code, err := security.GenerateOTP()
	if err != nil {
		return LoginChallenge{}, err
	}

	key := otpKeyPrefix + user.ID
	if err := s.cache.Set(ctx, key, security.HashOTP(code), s.cfg.Security.OTPCodeTTL).Err(); err != nil {
		return LoginChallenge{}, fmt.Errorf("store otp: %w", err)
	}

	if err := s.mailer.EnqueueLoginOTP(ctx, user.Email, code); err != nil {
		return LoginChallenge{}, fmt.Errorf("enqueue otp email: %w", err)
	}

	otpToken, err := security.GenerateOTPToken(s.cfg.Security.JWTSecret, user.ID, s.cfg.Security.OTPTokenTTL)
	if err != nil {
		return LoginChallenge{}, err
	}

	return LoginChallenge{OTPToken: otpToken}, nil
}

// VerifyOTP is step two: it redeems the OTP stored for the user and
// issues the real access token. The stored code is single-use.
func (s *AuthService) VerifyOTP(ctx context.Context, otpToken string, code string) (AuthResult, error) {
	claims, err := security.ParseAccessToken(otpToken, s.cfg.Security.JWTSecret)
	if err != nil || claims.Purpose != security.TokenPurposeOTP {
		return AuthResult{}, ErrInvalidOTP
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return AuthResult{}, err
	}

	key := otpKeyPrefix + user.ID
	stored, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return AuthResult{}, ErrInvalidOTP
		}
		return AuthResult{}, fmt.Errorf("load otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(security.HashOTP(code))) != 1 {
		return AuthResult{}, ErrInvalidOTP
	}

	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("delete used otp failed")
	}

	return s.issueToken(user)
}

// AdminLogin authenticates the admin dashboard. When the configured
// super-admin email signs in, the account is lazily bootstrapped first.
func (s *AuthService) AdminLogin(ctx context.Context, email string, password string) (AuthResult, error) {
	normalized := normalizeEmail(email)
	if s.cfg.Course.SuperAdminEmail != "" && normalized == normalizeEmail(s.cfg.Course.SuperAdminEmail) {
		if err := s.EnsureSuperAdmin(ctx); err != nil {
			s.log.Error().Err(err).Msg("super admin bootstrap failed")
		}
	}

	user, err := s.findByCredentials(ctx, normalized, password)
	if err != nil {
		return AuthResult{}, err
	}
	if !user.IsAdmin() {
		return AuthResult{}, ErrNotAdmin
	}

	return s.issueToken(user)
}

// EnsureSuperAdmin creates the configured super-admin account if absent
// and promotes it if it exists with a lesser role. Idempotent.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context) error {
	email := s.cfg.Course.SuperAdminEmail
	password := s.cfg.Course.SuperAdminPassword
	if email == "" || password == "" {
		s.log.Warn().Msg("super admin seed skipped: email or password not configured")
		return nil
	}

	normalized := normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, normalized)
	if err == nil {
		if existing.Role == models.UserRoleSuperAdmin {
			return nil
		}
		s.log.Info().Str("email", normalized).Msg("promoting existing account to super admin")
		return s.users.UpdateRole(ctx, existing.ID, models.UserRoleSuperAdmin)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	s.log.Info().Str("email", normalized).Msg("creating super admin account")
	return s.users.Create(ctx, models.User{
		ID:           ids.New(),
		Name:         "Super Admin",
		Email:        normalized,
		PasswordHash: passwordHash,
		Role:         models.UserRoleSuperAdmin,
		HasPaid:      true,
	})
}

// ForgotPassword mails a one-time reset link. The token digest lives in
// the cache until redeemed or expired.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	token, digest, err := security.GenerateResetToken()
	if err != nil {
		return err
	}

	key := resetKeyPrefix + user.ID
	if err := s.cache.Set(ctx, key, digest, s.cfg.Security.ResetTTL).Err(); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	return s.mailer.EnqueuePasswordReset(ctx, user.Email, user.ID, token)
}

func (s *AuthService) ResetPasswordWithToken(ctx context.Context, userID string, token string, newPassword string) error {
	key := resetKeyPrefix + userID
	stored, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("load reset token: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(security.HashOTP(token))) != 1 {
		return ErrInvalidResetToken
	}

	if err := s.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}
	return s.cache.Del(ctx, key).Err()
}

// ChangePassword updates the password of an authenticated user.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, newPassword string) error {
	return s.setPassword(ctx, userID, newPassword)
}

// VerifyCurrentPassword confirms the caller still knows the password on
// file, gating self-service password changes.
func (s *AuthService) VerifyCurrentPassword(ctx context.Context, userID string, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := security.VerifyPassword(strings.TrimSpace(password), user.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}
	return nil
}

type ProfileUpdate struct {
	Name           *string
	Phone          *string
	ProfilePicture *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Phone != nil && strings.TrimSpace(*update.Phone) != "" {
		user.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.ProfilePicture != nil {
		user.ProfilePicture = *update.ProfilePicture
	}

	if err := s.users.Save(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) setPassword(ctx context.Context, userID string, newPassword string) error {
	passwordHash, err := security.HashPassword(strings.TrimSpace(newPassword))
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, passwordHash)
}

func (s *AuthService) findByCredentials(ctx context.Context, email string, password string) (models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := security.VerifyPassword(strings.TrimSpace(password), user.PasswordHash)
	if err != nil || !ok {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) issueToken(user models.User) (AuthResult, error) {
	token, err := security.GenerateAccessToken(s.cfg.Security.JWTSecret, user.ID, string(user.Role), s.cfg.Security.JWTAccessTTL)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
