package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/errs"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository

	CreateUser(user *domain.User) error
	SaveUser(user *domain.User) error
	FindUserByID(id uint) (*domain.User, error)
	FindUserByUsername(username string) (*domain.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	ListUsers() ([]domain.User, error)
	ListActiveUsers() ([]domain.User, error)
	// ListManagers returns the active Admin and Manager users, the
	// recipients of new-error notifications.
	ListManagers() ([]domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) CreateUser(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) SaveUser(user *domain.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) FindUserByID(id uint) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("user %d", id)
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByUsername(username string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("user %q", username)
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ListUsers() ([]domain.User, error) {
	var users []domain.User
	if err := r.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListActiveUsers() ([]domain.User, error) {
	var users []domain.User
	if err := r.db.Where("is_active = ?", true).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListManagers() ([]domain.User, error) {
	var users []domain.User
	err := r.db.
		Where("role IN ? AND is_active = ?", []string{domain.RoleAdmin, domain.RoleManager}, true).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
