package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gigflow/gigflow-backend/internal/auth"
	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	Name     *string
	Bio      *string
	Skills   []string
	Location *string
	Website  *string
}

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, id uint64) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint64, in UpdateProfileInput) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrForbidden)
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrForbidden)
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile writes only the whitelisted profile fields; identity
// and credentials are untouchable here.
func (s *userService) UpdateProfile(ctx context.Context, id uint64, in UpdateProfileInput) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			u.Name = name
		}
	}
	if in.Bio != nil {
		u.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Skills != nil {
		skills := make([]string, 0, len(in.Skills))
		for _, sk := range in.Skills {
			if sk = strings.TrimSpace(sk); sk != "" {
				skills = append(skills, sk)
			}
		}
		u.Skills = skills
	}
	if in.Location != nil {
		u.Location = strings.TrimSpace(*in.Location)
	}
	if in.Website != nil {
		u.Website = strings.TrimSpace(*in.Website)
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
