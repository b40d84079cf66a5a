package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessRegister      = "user registered successfully"
	MessageSuccessLogin         = "login successful"
	MessageSuccessGetMe         = "user retrieved successfully"
	MessageSuccessUpdateUser    = "user updated successfully"
	MessageSuccessGetProfile    = "profile retrieved successfully"
	MessageSuccessUpdateProfile = "profile updated successfully"

	MessageFailedRegister      = "failed to register user"
	MessageFailedLogin         = "failed to login"
	MessageFailedGetMe         = "failed to retrieve user"
	MessageFailedUpdateUser    = "failed to update user"
	MessageFailedGetProfile    = "failed to retrieve profile"
	MessageFailedUpdateProfile = "failed to update profile"

	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProfileNotFound    = errors.New("profile not found, create your dietary profile first")
)

type (
	RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Name     string `json:"name" validate:"required"`
	}

	RegisterResponse struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	UpdateUserRequest struct {
		Name   string                `json:"name" form:"name" validate:"omitempty"`
		Avatar *multipart.FileHeader `json:"avatar" form:"avatar" validate:"omitempty"`
	}

	MeResponse struct {
		ID           string             `json:"id"`
		Email        string             `json:"email"`
		Name         string             `json:"name"`
		AvatarURL    string             `json:"avatar_url,omitempty"`
		IsPremium    bool               `json:"is_premium"`
		PremiumUntil *time.Time         `json:"premium_until,omitempty"`
		Profile      *ProfileResponse   `json:"profile,omitempty"`
		Gamification *GamificationStats `json:"gamification,omitempty"`
	}

	UpdateProfileRequest struct {
		BudgetWeekly float64  `json:"budget_weekly" validate:"omitempty,gt=0"`
		Diners       int      `json:"diners" validate:"omitempty,min=1,max=12"`
		MealsPerDay  int      `json:"meals_per_day" validate:"omitempty,min=1,max=3"`
		DaysPerWeek  int      `json:"days_per_week" validate:"omitempty,min=1,max=7"`
		DietType     string   `json:"diet_type" validate:"omitempty,oneof=omnivora vegetariana vegana pescetariana keto mediterranea"`
		Allergies    []string `json:"allergies" validate:"omitempty"`
		Dislikes     []string `json:"dislikes" validate:"omitempty"`
		PantryItems  []string `json:"pantry_items" validate:"omitempty"`
	}

	ProfileResponse struct {
		BudgetWeekly float64  `json:"budget_weekly"`
		Diners       int      `json:"diners"`
		MealsPerDay  int      `json:"meals_per_day"`
		DaysPerWeek  int      `json:"days_per_week"`
		DietType     string   `json:"diet_type"`
		Allergies    []string `json:"allergies"`
		Dislikes     []string `json:"dislikes"`
		PantryItems  []string `json:"pantry_items"`
	}
)
