package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/errs"
	"github.com/procline/error_service/internal/repository"
	"gorm.io/gorm"
)

func newNotificationService(t *testing.T) (NotificationService, *gorm.DB, *fixedClock) {
	t.Helper()
	db := setupTestDB(t)
	clock := newFixedClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	svc := NewNotificationService(repository.NewNotificationRepository(db), clock)
	return svc, db, clock
}

func seedNotifications(t *testing.T, db *gorm.DB, userID uint, n int, start time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		row := domain.Notification{
			Title:     fmt.Sprintf("note %d", i),
			Message:   "message",
			Type:      domain.NotificationInfo,
			UserID:    userID,
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed notification %d: %v", i, err)
		}
	}
}

func TestListForUserCapsAtNewestFifty(t *testing.T) {
	svc, db, clock := newNotificationService(t)
	seedNotifications(t, db, 1, 60, clock.Now())

	out, err := svc.ListForUser(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 50 {
		t.Fatalf("rows = %d, want 50", len(out))
	}
	// newest first, so the oldest 10 fall off
	if out[0].Title != "note 59" {
		t.Fatalf("first = %q, want note 59", out[0].Title)
	}
	if out[len(out)-1].Title != "note 10" {
		t.Fatalf("last = %q, want note 10", out[len(out)-1].Title)
	}
}

func TestListForUserScopedToOwner(t *testing.T) {
	svc, db, clock := newNotificationService(t)
	seedNotifications(t, db, 1, 3, clock.Now())
	seedNotifications(t, db, 2, 2, clock.Now())

	out, err := svc.ListForUser(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("rows = %d, want 3", len(out))
	}
	for _, n := range out {
		if n.UserID != 1 {
			t.Fatalf("foreign notification leaked: user %d", n.UserID)
		}
	}
}

func TestMarkReadStampsReadAt(t *testing.T) {
	svc, db, clock := newNotificationService(t)
	seedNotifications(t, db, 1, 1, clock.Now())

	var row domain.Notification
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("load: %v", err)
	}

	clock.Advance(time.Hour)
	if err := svc.MarkRead(1, row.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	if err := db.First(&row, row.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !row.IsRead {
		t.Fatal("not marked read")
	}
	if row.ReadAt == nil || !row.ReadAt.Equal(clock.Now()) {
		t.Fatalf("readAt = %v, want %v", row.ReadAt, clock.Now())
	}

	n, err := svc.UnreadCount(1)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if n != 0 {
		t.Fatalf("unread = %d, want 0", n)
	}
}

func TestMarkReadForeignNotificationNotFound(t *testing.T) {
	svc, db, clock := newNotificationService(t)
	seedNotifications(t, db, 1, 1, clock.Now())

	var row domain.Notification
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := svc.MarkRead(2, row.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found for foreign owner", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	svc, db, clock := newNotificationService(t)
	seedNotifications(t, db, 1, 4, clock.Now())
	seedNotifications(t, db, 2, 2, clock.Now())

	affected, err := svc.MarkAllRead(1)
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if affected != 4 {
		t.Fatalf("affected = %d, want 4", affected)
	}

	otherUnread, err := svc.UnreadCount(2)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if otherUnread != 2 {
		t.Fatalf("other user's unread = %d, want 2 untouched", otherUnread)
	}

	// second sweep finds nothing left
	affected, err = svc.MarkAllRead(1)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second sweep affected = %d, want 0", affected)
	}
}

func TestDeleteOwnedOnly(t *testing.T) {
	svc, db, clock := newNotificationService(t)
	seedNotifications(t, db, 1, 1, clock.Now())

	var row domain.Notification
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := svc.Delete(2, row.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("foreign delete: err = %v, want not found", err)
	}
	if err := svc.Delete(1, row.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	var n int64
	db.Model(&domain.Notification{}).Count(&n)
	if n != 0 {
		t.Fatalf("rows left = %d", n)
	}
}
