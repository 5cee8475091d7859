package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
)

var (
	ErrUserNotFound        = fmt.Errorf("user: %w", repository.ErrNotFound)
	ErrStudentLinkRequired = errors.New("student accounts must be linked to a student record")
)

// UserService manages login accounts.
type UserService struct {
	userRepo    repository.UserRepository
	studentRepo repository.StudentRepository
	authService *AuthService
	log         zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, studentRepo repository.StudentRepository, authService *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		authService: authService,
		log:         log.With().Str("component", "user_service").Logger(),
	}
}

func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if users == nil && err == nil {
		users = []model.User{}
	}
	return users, err
}

// Create adds an account. Student accounts must reference an existing
// student; staff accounts never carry a student link.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	u := &model.User{
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Role:  req.Role,
	}

	if req.Role == model.RoleStudent {
		if req.StudentID == nil {
			return nil, ErrStudentLinkRequired
		}
		if _, err := s.studentRepo.GetByID(ctx, *req.StudentID); err != nil {
			return nil, notFoundAs(err, ErrStudentNotFound)
		}
		u.StudentID = req.StudentID
	}

	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes an account and revokes its tokens.
func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}
	if err := s.authService.RevokeAll(ctx, id); err != nil {
		s.log.Warn().Err(err).Int("user_id", id).Msg("Failed to revoke sessions of deleted user")
	}
	return nil
}
