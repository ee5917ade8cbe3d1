package service

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"edubatch/internal/domain"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService owns user account CRUD. Passwords are hashed here on create;
// verifying them against a login belongs to the identity service, not this
// backend.
type UserService struct {
	userRepo domain.UserRepository
}

func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(ctx context.Context, user *domain.User, password string) error {
	if len(user.Name) == 0 || len(user.Name) > 50 {
		return domain.ErrInvalidInput
	}
	if !emailRegex.MatchString(user.Email) || len(user.Email) > 100 {
		return domain.ErrInvalidInput
	}
	if len(password) < 8 || len(password) > 100 {
		return domain.ErrInvalidInput
	}
	switch user.Role {
	case domain.RoleStudent, domain.RoleAdmin, domain.RoleMentor, domain.RoleSuperAdmin:
	default:
		return domain.ErrInvalidInput
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)

	return s.userRepo.Create(ctx, user)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, user *domain.User) error {
	if _, err := s.userRepo.GetByID(ctx, user.ID); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
