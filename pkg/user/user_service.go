package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/internal/utils/mailing"
	"tastebook/pkg/jwt"
	"tastebook/pkg/social"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var handlePattern = regexp.MustCompile(`^@[A-Za-z0-9]{3,}$`)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserResponse, error)
		GetByHandle(ctx context.Context, handle string) (domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		socialService  social.SocialService
	}
)

func NewUserService(
	userRepository UserRepository,
	jwtService jwt.JWTService,
	socialService social.SocialService,
) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		socialService:  socialService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	if !handlePattern.MatchString(req.Handle) {
		return domain.UserResponse{}, domain.ErrInvalidHandle
	}

	taken, err := s.userRepository.HandleExists(ctx, req.Handle)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if taken {
		return domain.UserResponse{}, domain.ErrHandleTaken
	}

	taken, err = s.userRepository.EmailExists(ctx, req.Email)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if taken {
		return domain.UserResponse{}, domain.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	newUser := &entities.User{
		ID:        uuid.New(),
		Handle:    req.Handle,
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := s.userRepository.Create(ctx, newUser); err != nil {
		return domain.UserResponse{}, err
	}

	go func(email, name string) {
		body := fmt.Sprintf("<p>Hi %s, welcome to Tastebook! Share your first recipe whenever you're ready.</p>", name)
		if err := mailing.SendMail(email, "Welcome to Tastebook", body); err != nil {
			log.Printf("failed to send welcome email to %s: %v", email, err)
		}
	}(newUser.Email, newUser.FirstName)

	return toUserResponse(newUser, true), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	account, err := s.userRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token := s.jwtService.GenerateTokenUser(account.ID.String(), account.IsStaff)
	return domain.LoginResponse{
		Token: token,
		User:  toUserResponse(account, true),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	account, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(account, true), nil
}

// UpdateProfile applies partial profile edits. Flipping a private account to
// public promotes every pending follow request into an accepted follow.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserResponse, error) {
	account, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	if req.FirstName != "" {
		account.FirstName = req.FirstName
	}
	if req.LastName != "" {
		account.LastName = req.LastName
	}
	if req.Bio != "" {
		account.Bio = req.Bio
	}

	promote := false
	if req.IsPrivate != nil {
		if account.IsPrivate && !*req.IsPrivate {
			promote = true
		}
		account.IsPrivate = *req.IsPrivate
	}

	if err := s.userRepository.Update(ctx, account); err != nil {
		return domain.UserResponse{}, err
	}

	if promote {
		if _, err := s.socialService.PromoteToPublic(ctx, userID); err != nil {
			return domain.UserResponse{}, err
		}
	}

	return toUserResponse(account, true), nil
}

func (s *userService) GetByHandle(ctx context.Context, handle string) (domain.UserResponse, error) {
	account, err := s.userRepository.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(account, false), nil
}

func toUserResponse(u *entities.User, includeEmail bool) domain.UserResponse {
	response := domain.UserResponse{
		ID:        u.ID.String(),
		Handle:    u.Handle,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		IsPrivate: u.IsPrivate,
		IsStaff:   u.IsStaff,
		CreatedAt: u.CreatedAt,
	}
	if includeEmail {
		response.Email = u.Email
	}
	return response
}
