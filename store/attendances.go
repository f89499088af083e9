package store

import (
	"context"
	"fmt"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository struct {
	*Repository[model.EventAttendance]
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{Repository: NewRepository[model.EventAttendance](db)}
}

// FindByPair returns the attendance for (eventID, batchmateID) or nil, nil.
func (r *AttendanceRepository) FindByPair(ctx context.Context, eventID, batchmateID uint) (*model.EventAttendance, error) {
	return r.FindOne(ctx, "event_id = ? AND batchmate_id = ?", eventID, batchmateID)
}

func upsertClause(columns []string) clause.OnConflict {
	updates := append(append([]string{}, columns...), "updated_at")
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "batchmate_id"}}, // conflict key
		DoUpdates: clause.AssignmentColumns(updates),
	}
}

// Upsert inserts the record or, when the (event, batchmate) pair already exists,
// updates only the given columns. The stored row is returned.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *model.EventAttendance, columns []string) (*model.EventAttendance, error) {
	row := *record
	row.Event = nil
	row.Batchmate = nil
	if err := r.DB(ctx).Clauses(upsertClause(columns)).Create(&row).Error; err != nil {
		return nil, err
	}

	stored, err := r.FindByPair(ctx, record.EventID, record.BatchmateID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("attendance for event %d and batchmate %d vanished after upsert", record.EventID, record.BatchmateID)
	}
	return stored, nil
}

func (r *AttendanceRepository) ListByEvent(ctx context.Context, eventID uint) ([]model.EventAttendance, error) {
	items, _, err := r.List(ctx, ListOptions{
		Where:   map[string]interface{}{"event_id": eventID},
		Preload: []string{"Batchmate"},
	})
	return items, err
}

func (r *AttendanceRepository) ListByBatchmate(ctx context.Context, batchmateID uint) ([]model.EventAttendance, error) {
	items, _, err := r.List(ctx, ListOptions{
		Where: map[string]interface{}{"batchmate_id": batchmateID},
	})
	return items, err
}
