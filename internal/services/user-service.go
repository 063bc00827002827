package services

import (
	"strings"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/errs"
	"github.com/procline/error_service/internal/helper"
	"github.com/procline/error_service/internal/interfaces"
	"github.com/procline/error_service/internal/repository"
)

type UserService interface {
	Register(input dto.RegisterRequest) (*domain.User, error)
	Login(input dto.UserLogin) (*dto.LoginResponse, error)

	ListUsers(actor Actor) ([]dto.UserResponse, error)
	ListEmployees(actor Actor) ([]dto.UserResponse, error)
	GetUser(id uint) (*dto.UserResponse, error)
	UpdateUser(actor Actor, id uint, input dto.UpdateUserRequest) (*dto.UserResponse, error)
	// DeactivateUser soft-deletes: historical errors and audit logs keep
	// resolving the user.
	DeactivateUser(actor Actor, id uint) error
}

type userService struct {
	repo   repository.UserRepository
	auth   helper.Auth
	clock  interfaces.Clock
	policy AccessPolicy
}

func NewUserService(repo repository.UserRepository, auth helper.Auth, clock interfaces.Clock, policy AccessPolicy) UserService {
	return &userService{
		repo:   repo,
		auth:   auth,
		clock:  clock,
		policy: policy,
	}
}

func (s *userService) Register(input dto.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if username == "" || email == "" || strings.TrimSpace(input.Password) == "" {
		return nil, errs.Validationf("username, email and password are required")
	}

	if taken, err := s.repo.ExistsByUsername(username); err != nil {
		return nil, err
	} else if taken {
		return nil, errs.Conflictf("username already exists")
	}
	if taken, err := s.repo.ExistsByEmail(email); err != nil {
		return nil, err
	} else if taken {
		return nil, errs.Conflictf("email already exists")
	}

	hashed, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, errs.Validationf("%v", err)
	}

	now := s.clock.Now()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         domain.RoleEmployee,
		FullName:     strings.TrimSpace(input.FullName),
		Department:   strings.TrimSpace(input.Department),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(user); err != nil {
		// the unique indexes are the real guard against a register race
		if helper.IsDuplicateKey(err) {
			return nil, errs.Conflictf("username or email already exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(input dto.UserLogin) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		return nil, errs.Validationf("username and password are required")
	}

	user, err := s.repo.FindUserByUsername(username)
	if err != nil {
		return nil, errs.Forbiddenf("invalid credentials")
	}
	if err := s.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, errs.Forbiddenf("invalid credentials")
	}
	if !user.IsActive {
		return nil, errs.Forbiddenf("account is deactivated")
	}

	token, err := s.auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}

func (s *userService) ListUsers(actor Actor) ([]dto.UserResponse, error) {
	if err := s.policy.Authorize(actor, OpListUsers); err != nil {
		return nil, err
	}
	users, err := s.repo.ListUsers()
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *userService) ListEmployees(actor Actor) ([]dto.UserResponse, error) {
	if err := s.policy.Authorize(actor, OpListUsers); err != nil {
		return nil, err
	}
	users, err := s.repo.ListActiveUsers()
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *userService) GetUser(id uint) (*dto.UserResponse, error) {
	user, err := s.repo.FindUserByID(id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *userService) UpdateUser(actor Actor, id uint, input dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := s.policy.Authorize(actor, OpUpdateUser); err != nil {
		return nil, err
	}

	user, err := s.repo.FindUserByID(id)
	if err != nil {
		return nil, err
	}

	if input.Role != "" {
		if !domain.ValidRole(input.Role) {
			return nil, errs.Validationf("unknown role %q", input.Role)
		}
		user.Role = input.Role
	}
	if input.Username != "" {
		user.Username = strings.TrimSpace(input.Username)
	}
	if input.Email != "" {
		user.Email = strings.TrimSpace(strings.ToLower(input.Email))
	}
	user.FullName = input.FullName
	user.Department = input.Department
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != "" {
		hashed, err := s.auth.HashPassword(input.Password)
		if err != nil {
			return nil, errs.Validationf("%v", err)
		}
		user.PasswordHash = hashed
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveUser(user); err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, errs.Conflictf("username or email already exists")
		}
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *userService) DeactivateUser(actor Actor, id uint) error {
	if err := s.policy.Authorize(actor, OpDeactivateUser); err != nil {
		return err
	}

	user, err := s.repo.FindUserByID(id)
	if err != nil {
		return err
	}

	user.IsActive = false
	user.UpdatedAt = s.clock.Now()
	return s.repo.SaveUser(user)
}

func toUserResponses(users []domain.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.ToUserResponse(&users[i]))
	}
	return out
}
