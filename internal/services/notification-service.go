package services

import (
	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/interfaces"
	"github.com/procline/error_service/internal/repository"
)

// notificationListCap bounds the inbox listing, newest first.
const notificationListCap = 50

type NotificationService interface {
	ListForUser(userID uint) ([]domain.Notification, error)
	ListUnread(userID uint) ([]domain.Notification, error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(userID, id uint) error
	MarkAllRead(userID uint) (int64, error)
	Delete(userID, id uint) error
}

type notificationService struct {
	repo  repository.NotificationRepository
	clock interfaces.Clock
}

func NewNotificationService(repo repository.NotificationRepository, clock interfaces.Clock) NotificationService {
	return &notificationService{repo: repo, clock: clock}
}

func (s *notificationService) ListForUser(userID uint) ([]domain.Notification, error) {
	return s.repo.ListForUser(userID, notificationListCap)
}

func (s *notificationService) ListUnread(userID uint) ([]domain.Notification, error) {
	return s.repo.ListUnreadForUser(userID)
}

func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	return s.repo.CountUnread(userID)
}

func (s *notificationService) MarkRead(userID, id uint) error {
	return s.repo.MarkRead(id, userID, s.clock.Now())
}

func (s *notificationService) MarkAllRead(userID uint) (int64, error) {
	return s.repo.MarkAllRead(userID, s.clock.Now())
}

func (s *notificationService) Delete(userID, id uint) error {
	return s.repo.DeleteOwned(id, userID)
}
