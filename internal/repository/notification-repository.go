package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/errs"
)

type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository

	CreateNotifications(ns []domain.Notification) error
	ListForUser(userID uint, limit int) ([]domain.Notification, error)
	ListUnreadForUser(userID uint) ([]domain.Notification, error)
	CountUnread(userID uint) (int64, error)
	// FindOwned returns the notification only if it belongs to userID.
	FindOwned(id, userID uint) (*domain.Notification, error)
	MarkRead(id, userID uint, at time.Time) error
	MarkAllRead(userID uint, at time.Time) (int64, error)
	DeleteOwned(id, userID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) CreateNotifications(ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.Create(&ns).Error
}

func (r *notificationRepository) ListForUser(userID uint, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.db.
		Preload("ProcessError").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepository) ListUnreadForUser(userID uint) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.db.
		Preload("ProcessError").
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepository) CountUnread(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *notificationRepository) FindOwned(id, userID uint) (*domain.Notification, error) {
	n := &domain.Notification{}
	if err := r.db.First(n, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("notification %d", id)
		}
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) MarkRead(id, userID uint, at time.Time) error {
	res := r.db.Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFoundf("notification %d", id)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(userID uint, at time.Time) (int64, error) {
	res := r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) DeleteOwned(id, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFoundf("notification %d", id)
	}
	return nil
}
