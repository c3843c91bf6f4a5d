package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotAdmin            = errors.New("not an administrator")
	ErrSuperAdminOnly      = errors.New("only the super admin may perform this action")
	ErrSuperAdminProtected = errors.New("the super admin account cannot be modified")
	ErrAdminProtected      = errors.New("admins cannot delete other administrators")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrPremiumOnly         = errors.New("premium feature")
	ErrInvalidOTP          = errors.New("invalid or expired otp")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
	ErrPaymentRequired     = errors.New("payment verification failed")
)
