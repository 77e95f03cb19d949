package domain

import (
	"errors"
	"mime/multipart"
)

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessGetUser        = "user retrieved successfully"
	MessageSuccessUpdateUser     = "user updated successfully"
	MessageSuccessSendVerifyMail = "verification email sent successfully"
	MessageSuccessVerifyEmail    = "email verified successfully"
	MessageSuccessForgotPassword = "password reset email sent successfully"
	MessageSuccessResetPassword  = "password reset successfully"
	MessageSuccessUploadAvatar   = "avatar uploaded successfully"

	MessageFailedBodyRequest    = "failed to process body request"
	MessageFailedRegister       = "failed to register user"
	MessageFailedLogin          = "failed to login"
	MessageFailedGetUser        = "failed to retrieve user"
	MessageFailedUpdateUser     = "failed to update user"
	MessageFailedSendVerifyMail = "failed to send verification email"
	MessageFailedVerifyEmail    = "failed to verify email"
	MessageFailedForgotPassword = "failed to send password reset email"
	MessageFailedResetPassword  = "failed to reset password"
	MessageFailedUploadAvatar   = "failed to upload avatar"

	ErrEmailAlreadyExists   = errors.New("email already registered")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailNotVerified     = errors.New("email is not verified")
	ErrEmailAlreadyVerified = errors.New("email is already verified")
	ErrTelegramNotLinked    = errors.New("telegram account is not linked to any user")
)

type (
	RegisterRequest struct {
		Name          string  `json:"name" validate:"required,min=2"`
		Email         string  `json:"email" validate:"required,email"`
		Password      string  `json:"password" validate:"required,min=8"`
		Age           int     `json:"age" validate:"required,min=10,max=120"`
		Gender        string  `json:"gender" validate:"required,oneof=male female"`
		Height        float64 `json:"height" validate:"required,gt=0"`
		Weight        float64 `json:"weight" validate:"required,gt=0"`
		ActivityLevel string  `json:"activity_level" validate:"required,oneof=sedentary light moderate active very-active"`
		Goal          string  `json:"goal" validate:"required,oneof=lose-weight maintain-weight gain-weight build-muscle improve-health"`
		TelegramID    string  `json:"telegram_id" validate:"omitempty"`
	}

	RegisterResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UpdateUserRequest struct {
		Name          string  `json:"name" validate:"omitempty,min=2"`
		Age           int     `json:"age" validate:"omitempty,min=10,max=120"`
		Gender        string  `json:"gender" validate:"omitempty,oneof=male female"`
		Height        float64 `json:"height" validate:"omitempty,gt=0"`
		Weight        float64 `json:"weight" validate:"omitempty,gt=0"`
		ActivityLevel string  `json:"activity_level" validate:"omitempty,oneof=sedentary light moderate active very-active"`
		Goal          string  `json:"goal" validate:"omitempty,oneof=lose-weight maintain-weight gain-weight build-muscle improve-health"`
		TelegramID    string  `json:"telegram_id" validate:"omitempty"`
	}

	UserResponse struct {
		ID            string  `json:"id"`
		Name          string  `json:"name"`
		Email         string  `json:"email"`
		Age           int     `json:"age"`
		Gender        string  `json:"gender"`
		Height        float64 `json:"height"`
		Weight        float64 `json:"weight"`
		ActivityLevel string  `json:"activity_level"`
		Goal          string  `json:"goal"`
		TelegramID    string  `json:"telegram_id,omitempty"`
		AvatarURL     string  `json:"avatar_url,omitempty"`
		IsVerified    bool    `json:"is_verified"`
	}

	SendVerifyEmailRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	UploadAvatarRequest struct {
		Avatar *multipart.FileHeader `json:"avatar" form:"avatar" validate:"required"`
	}

	NutritionTargetsResponse struct {
		Calories int `json:"calories"`
		Protein  int `json:"protein"`
		Carbs    int `json:"carbs"`
		Fat      int `json:"fat"`
	}
)
