package common

import (
	"context"
	"io"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/attendance"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store"
	"github.com/gin-gonic/gin"
)

// Context keys set by middlewares.
const (
	RequestIDKey = "requestId"
	ActorKey     = "actor"
)

type BatchmateRepository interface {
	store.Crud[model.Batchmate]
	FindByMobile(ctx context.Context, numbers ...string) (*model.Batchmate, error)
}

type AttendanceRepository interface {
	store.Crud[model.EventAttendance]
	FindByPair(ctx context.Context, eventID, batchmateID uint) (*model.EventAttendance, error)
	ListByEvent(ctx context.Context, eventID uint) ([]model.EventAttendance, error)
}

// SyncEnqueuer schedules batchmate flag propagation.
type SyncEnqueuer interface {
	Enqueue(batchmateID uint, flag string) string
}

// Archiver stores generated exports.
type Archiver interface {
	WriteFile(ctx context.Context, key, contentType string, body io.Reader) error
}

// CheckInNotifier confirms a QR check-in to the batchmate.
type CheckInNotifier interface {
	SendCheckInConfirmation(ctx context.Context, b *model.Batchmate, e *model.Event) error
}

// Announcer posts informational notices.
type Announcer interface {
	Info(message string) error
}

// Handler carries the collaborators every endpoint package is built from.
// Archiver, Notifier and Announcer are optional.
type Handler struct {
	Batchmates    BatchmateRepository
	Events        store.Crud[model.Event]
	Attendances   AttendanceRepository
	Notifications store.Crud[model.Notification]

	Reconciler *attendance.Reconciler
	Sync       SyncEnqueuer

	Archiver  Archiver
	Notifier  CheckInNotifier
	Announcer Announcer

	FrontendURL string
}

// Actor returns the authenticated actor id, if any.
func Actor(c *gin.Context) *int {
	if v, ok := c.Get(ActorKey); ok {
		if id, ok := v.(int); ok {
			return &id
		}
	}
	return nil
}
