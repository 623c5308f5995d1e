package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister      = "user registered successfully"
	MessageSuccessLogin         = "login successful"
	MessageSuccessGetMe         = "success get current user"
	MessageSuccessUpdateProfile = "profile updated successfully"
	MessageSuccessGetProfile    = "success get profile"

	MessageFailedRegister      = "failed to register user"
	MessageFailedLogin         = "failed to login"
	MessageFailedGetMe         = "failed to get current user"
	MessageFailedUpdateProfile = "failed to update profile"
	MessageFailedGetProfile    = "failed to get profile"

	ErrUserNotFound       = errors.New("user not found")
	ErrHandleTaken        = errors.New("handle already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidHandle      = errors.New("handle must be @ followed by at least 3 alphanumeric characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type (
	RegisterRequest struct {
		Handle    string `json:"handle" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=8"`
		FirstName string `json:"first_name" validate:"required"`
		LastName  string `json:"last_name" validate:"required"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UpdateProfileRequest struct {
		FirstName string `json:"first_name,omitempty"`
		LastName  string `json:"last_name,omitempty"`
		Bio       string `json:"bio,omitempty"`
		IsPrivate *bool  `json:"is_private,omitempty"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		Handle    string    `json:"handle"`
		Email     string    `json:"email,omitempty"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		Bio       string    `json:"bio,omitempty"`
		IsPrivate bool      `json:"is_private"`
		IsStaff   bool      `json:"is_staff"`
		CreatedAt time.Time `json:"created_at"`
	}

	LoginResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}

	ProfileResponse struct {
		User           UserResponse     `json:"user"`
		Recipes        []RecipeResponse `json:"recipes"`
		FollowerCount  int64            `json:"follower_count"`
		FollowingCount int64            `json:"following_count"`
		PendingCount   int64            `json:"pending_count,omitempty"`
	}
)
