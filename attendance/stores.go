// Package attendance holds the check-in workflow: resolving batchmates by phone
// number, keeping one attendance record per (event, batchmate) pair, and
// propagating the batchmate-level attendance flag to those records.
package attendance

import (
	"context"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
)

// Both store.*Repository and memstore tables satisfy these.

type BatchmateStore interface {
	FindByMobile(ctx context.Context, numbers ...string) (*model.Batchmate, error)
	Get(ctx context.Context, id uint, preload ...string) (*model.Batchmate, error)
	Create(ctx context.Context, batchmate *model.Batchmate) error
	Save(ctx context.Context, batchmate *model.Batchmate) error
}

type EventStore interface {
	Get(ctx context.Context, id uint, preload ...string) (*model.Event, error)
}

type AttendanceStore interface {
	Upsert(ctx context.Context, record *model.EventAttendance, columns []string) (*model.EventAttendance, error)
	ListByEvent(ctx context.Context, eventID uint) ([]model.EventAttendance, error)
	ListByBatchmate(ctx context.Context, batchmateID uint) ([]model.EventAttendance, error)
	Save(ctx context.Context, record *model.EventAttendance) error
}
