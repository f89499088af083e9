package memstore

import (
	"context"
	"slices"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store"
)

type BatchmateTable struct {
	*Table[model.Batchmate, *model.Batchmate]
}

func (t *BatchmateTable) FindByMobile(ctx context.Context, numbers ...string) (*model.Batchmate, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	return t.FindOne(func(b *model.Batchmate) bool {
		return slices.Contains(numbers, b.Mobile) || slices.Contains(numbers, b.WhatsappMobile)
	}), nil
}

type AttendanceTable struct {
	*Table[model.EventAttendance, *model.EventAttendance]
}

func (t *AttendanceTable) FindByPair(ctx context.Context, eventID, batchmateID uint) (*model.EventAttendance, error) {
	return t.FindOne(func(a *model.EventAttendance) bool {
		return a.EventID == eventID && a.BatchmateID == batchmateID
	}), nil
}

// Upsert holds the table lock across lookup and write, mirroring the
// database's insert-or-update-on-conflict.
func (t *AttendanceTable) Upsert(ctx context.Context, record *model.EventAttendance, columns []string) (*model.EventAttendance, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row := *record
	row.Event = nil
	row.Batchmate = nil

	existing := t.findLocked(func(a *model.EventAttendance) bool {
		return a.EventID == record.EventID && a.BatchmateID == record.BatchmateID
	})
	if existing == nil {
		row.ID = 0
		t.insertLocked(&row)
		return &row, nil
	}

	for _, column := range columns {
		switch column {
		case "status":
			existing.Status = row.Status
		case "attendance_method":
			existing.AttendanceMethod = row.AttendanceMethod
		case "marked_at":
			existing.MarkedAt = row.MarkedAt
		case "marked_by":
			existing.MarkedBy = row.MarkedBy
		case "notes":
			existing.Notes = row.Notes
		case "registered_data":
			existing.RegisteredData = row.RegisteredData
		}
	}
	existing.Touch(time.Now())
	t.rows[existing.ID] = *existing
	return existing, nil
}

func (t *AttendanceTable) ListByEvent(ctx context.Context, eventID uint) ([]model.EventAttendance, error) {
	items, _, err := t.List(ctx, store.ListOptions{
		Where:   map[string]interface{}{"event_id": eventID},
		Preload: []string{"Batchmate"},
	})
	return items, err
}

func (t *AttendanceTable) ListByBatchmate(ctx context.Context, batchmateID uint) ([]model.EventAttendance, error) {
	items, _, err := t.List(ctx, store.ListOptions{
		Where: map[string]interface{}{"batchmate_id": batchmateID},
	})
	return items, err
}

// Store groups one table per entity.
type Store struct {
	Batchmates    *BatchmateTable
	Events        *Table[model.Event, *model.Event]
	Attendances   *AttendanceTable
	Notifications *Table[model.Notification, *model.Notification]
}

func New() *Store {
	s := &Store{
		Batchmates:    &BatchmateTable{Table: NewTable[model.Batchmate]()},
		Events:        NewTable[model.Event](),
		Attendances:   &AttendanceTable{Table: NewTable[model.EventAttendance]()},
		Notifications: NewTable[model.Notification](),
	}

	s.Attendances.populate = func(ctx context.Context, row *model.EventAttendance, preload []string) {
		for _, p := range preload {
			switch p {
			case "Batchmate":
				row.Batchmate, _ = s.Batchmates.Get(ctx, row.BatchmateID)
			case "Event":
				row.Event, _ = s.Events.Get(ctx, row.EventID)
			}
		}
	}
	return s
}
