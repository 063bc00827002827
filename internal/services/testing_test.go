package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/repository"
)

var testDBSeq atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// single connection: keeps the shared in-memory DB alive and serializes
	// concurrent transactions the way a row lock would
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&domain.User{},
		&domain.ProductionProcess{},
		&domain.ProcessStep{},
		&domain.ProcessError{},
		&domain.ErrorComment{},
		&domain.ErrorAttachment{},
		&domain.ErrorCodeCounter{},
		&domain.AuditLog{},
		&domain.Notification{},
	)
	if err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFixedClock(t time.Time) *fixedClock {
	return &fixedClock{t: t}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeUploader struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (u *fakeUploader) UploadBytes(_ context.Context, folder, filename string, _ []byte) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.fail {
		return "", errors.New("stream write refused")
	}
	u.calls = append(u.calls, filename)
	return "/" + folder + "/" + filename, nil
}

type fakeProducer struct {
	mu       sync.Mutex
	messages [][]byte
}

func (p *fakeProducer) PublishMessage(_, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, value)
	return nil
}

func (p *fakeProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

// workflowFixture wires the error workflow against an in-memory store with
// one admin, one manager, one employee and one production process seeded.
type workflowFixture struct {
	db       *gorm.DB
	svc      ErrorService
	clock    *fixedClock
	uploader *fakeUploader
	producer *fakeProducer

	admin    domain.User
	manager  domain.User
	employee domain.User
	process  domain.ProductionProcess
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	db := setupTestDB(t)
	clock := newFixedClock(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	uploader := &fakeUploader{}
	producer := &fakeProducer{}

	f := &workflowFixture{
		db:       db,
		clock:    clock,
		uploader: uploader,
		producer: producer,
		admin:    domain.User{Username: "alice", Email: "alice@plant.local", PasswordHash: "x", Role: domain.RoleAdmin, FullName: "Alice Admin", IsActive: true},
		manager:  domain.User{Username: "mark", Email: "mark@plant.local", PasswordHash: "x", Role: domain.RoleManager, FullName: "Mark Manager", IsActive: true},
		employee: domain.User{Username: "eve", Email: "eve@plant.local", PasswordHash: "x", Role: domain.RoleEmployee, FullName: "Eve Employee", IsActive: true},
		process:  domain.ProductionProcess{ProcessCode: "WLD-01", ProcessName: "Welding Line 1", IsActive: true, Version: 1},
	}

	for _, u := range []*domain.User{&f.admin, &f.manager, &f.employee} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user %s: %v", u.Username, err)
		}
	}
	if err := db.Create(&f.process).Error; err != nil {
		t.Fatalf("seed process: %v", err)
	}

	f.svc = NewErrorService(
		db,
		repository.NewErrorRepository(db),
		repository.NewUserRepository(db),
		repository.NewAuditLogRepository(db),
		repository.NewNotificationRepository(db),
		uploader,
		producer,
		clock,
		NewAccessPolicy(),
		"error-attachments",
	)
	return f
}

func (f *workflowFixture) actor(u domain.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, IPAddress: "10.0.0.7", UserAgent: "test-agent"}
}

func (f *workflowFixture) auditCount(t *testing.T, action string) int64 {
	t.Helper()
	var n int64
	err := f.db.Model(&domain.AuditLog{}).Where("action = ?", action).Count(&n).Error
	if err != nil {
		t.Fatalf("count audit logs: %v", err)
	}
	return n
}
