package attendance

import (
	"context"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/metrics"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/utils"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// UpsertInput describes one attendance write for an (event, batchmate) pair.
type UpsertInput struct {
	EventID     uint
	BatchmateID uint
	Status      string
	Method      string
	Actor       *int
	Notes       string
	Snapshot    datatypes.JSON
}

// BulkItem is one entry of a bulk manual marking.
type BulkItem struct {
	BatchmateID uint
	Status      string
	Notes       string
}

// CheckIn is a self-service QR registration.
type CheckIn struct {
	EventID  uint
	Mobile   string
	Whatsapp string
	Profile  Profile
	Snapshot datatypes.JSON
}

type Reconciler struct {
	events      EventStore
	batchmates  BatchmateStore
	attendances AttendanceStore
	registry    *Registry
	logger      zerolog.Logger

	now func() time.Time
}

func NewReconciler(events EventStore, batchmates BatchmateStore, attendances AttendanceStore) *Reconciler {
	return &Reconciler{
		events:      events,
		batchmates:  batchmates,
		attendances: attendances,
		registry:    NewRegistry(batchmates),
		logger:      log.WithComponent("attendance"),
		now:         time.Now,
	}
}

func (r *Reconciler) Registry() *Registry {
	return r.registry
}

func (r *Reconciler) requireEvent(ctx context.Context, id uint) (*model.Event, error) {
	event, err := r.events.Get(ctx, id)
	if err != nil {
		return nil, storeErr("find event", err)
	}
	if event == nil {
		return nil, &NotFoundError{Entity: "Event", ID: id}
	}
	return event, nil
}

func (r *Reconciler) requireBatchmate(ctx context.Context, id uint) (*model.Batchmate, error) {
	batchmate, err := r.batchmates.Get(ctx, id)
	if err != nil {
		return nil, storeErr("find batchmate", err)
	}
	if batchmate == nil {
		return nil, &NotFoundError{Entity: "Batchmate", ID: id}
	}
	return batchmate, nil
}

func validateUpsert(in UpsertInput) error {
	switch {
	case in.EventID == 0:
		return invalid("Event ID is required")
	case in.BatchmateID == 0:
		return invalid("Batchmate ID is required")
	case in.Status == "":
		return invalid("Status is required")
	case !model.IsValidStatus(in.Status):
		return invalid("Invalid status %q, expected Present, Absent or Pending", in.Status)
	}
	if in.Method != model.MethodManual && in.Method != model.MethodQRScan {
		return invalid("Invalid attendance method %q", in.Method)
	}
	return nil
}

// UpsertAttendance writes the single attendance row of (EventID, BatchmateID).
// A repeated call for the same pair updates the row in place.
func (r *Reconciler) UpsertAttendance(ctx context.Context, in UpsertInput) (*model.EventAttendance, error) {
	if err := validateUpsert(in); err != nil {
		return nil, err
	}
	if _, err := r.requireEvent(ctx, in.EventID); err != nil {
		return nil, err
	}
	if in.Method == model.MethodManual {
		if _, err := r.requireBatchmate(ctx, in.BatchmateID); err != nil {
			return nil, err
		}
	}

	now := r.now()
	record := &model.EventAttendance{
		EventID:          in.EventID,
		BatchmateID:      in.BatchmateID,
		Status:           in.Status,
		AttendanceMethod: in.Method,
		MarkedAt:         &now,
	}
	columns := []string{"status", "attendance_method", "marked_at"}
	switch in.Method {
	case model.MethodManual:
		// an absent actor or note leaves the stored value in place
		record.MarkedBy = in.Actor
		record.Notes = in.Notes
		if in.Actor != nil {
			columns = append(columns, "marked_by")
		}
		if in.Notes != "" {
			columns = append(columns, "notes")
		}
	case model.MethodQRScan:
		record.RegisteredData = in.Snapshot
		columns = append(columns, "registered_data")
	}

	stored, err := r.attendances.Upsert(ctx, record, columns)
	if err != nil {
		return nil, storeErr("upsert attendance", err)
	}
	metrics.AttendanceMarked.WithLabelValues(in.Method, in.Status).Inc()
	return stored, nil
}

// RegisterQR resolves the scanning batchmate and marks them present at the event.
func (r *Reconciler) RegisterQR(ctx context.Context, in CheckIn) (*model.EventAttendance, *model.Batchmate, error) {
	if in.EventID == 0 || in.Mobile == "" {
		return nil, nil, invalid("Event ID, mobile number, and data are required")
	}
	if _, err := r.requireEvent(ctx, in.EventID); err != nil {
		return nil, nil, err
	}

	profile := in.Profile
	profile.Attendance = model.BatchmatePresent
	batchmate, err := r.registry.ResolveOrCreate(ctx, in.Mobile, in.Whatsapp, profile)
	if err != nil {
		return nil, nil, err
	}

	record, err := r.UpsertAttendance(ctx, UpsertInput{
		EventID:     in.EventID,
		BatchmateID: batchmate.ID,
		Status:      model.StatusPresent,
		Method:      model.MethodQRScan,
		Snapshot:    in.Snapshot,
	})
	if err != nil {
		return nil, nil, err
	}

	r.logger.Info().
		Uint("event_id", in.EventID).
		Uint("batchmate_id", batchmate.ID).
		Msg("QR check-in registered")
	return record, batchmate, nil
}

// MarkManual records an admin's attendance decision.
func (r *Reconciler) MarkManual(ctx context.Context, eventID, batchmateID uint, status, notes string, actor *int) (*model.EventAttendance, error) {
	return r.UpsertAttendance(ctx, UpsertInput{
		EventID:     eventID,
		BatchmateID: batchmateID,
		Status:      status,
		Method:      model.MethodManual,
		Actor:       actor,
		Notes:       notes,
	})
}

// BulkUpsert applies MarkManual to each item in order. It is not atomic: on the
// first failure it stops and returns the records written so far with the error.
func (r *Reconciler) BulkUpsert(ctx context.Context, eventID uint, items []BulkItem, actor *int) ([]model.EventAttendance, error) {
	if eventID == 0 || items == nil {
		return nil, invalid("Event ID and attendances array are required")
	}

	results := make([]model.EventAttendance, 0, len(items))
	for _, item := range items {
		record, err := r.MarkManual(ctx, eventID, item.BatchmateID, item.Status, item.Notes, actor)
		if err != nil {
			return results, err
		}
		results = append(results, *record)
	}
	return results, nil
}

// SyncBatchmateFlag rewrites every attendance row of the batchmate so it agrees
// with the batchmate-level flag. Present maps to Present, anything else to Absent.
// It returns the number of rows rewritten before any error.
func (r *Reconciler) SyncBatchmateFlag(ctx context.Context, batchmateID uint, flag string) (int, error) {
	records, err := r.attendances.ListByBatchmate(ctx, batchmateID)
	if err != nil {
		return 0, storeErr("list batchmate attendances", err)
	}

	status := model.StatusAbsent
	if flag == model.BatchmatePresent {
		status = model.StatusPresent
	}

	now := r.now()
	updated := 0
	for i := range records {
		record := &records[i]
		record.Status = status
		if record.AttendanceMethod == "" {
			record.AttendanceMethod = model.MethodManual
		}
		record.MarkedAt = utils.Ptr(now)
		if err := r.attendances.Save(ctx, record); err != nil {
			return updated, storeErr("save attendance", err)
		}
		updated++
	}

	r.logger.Info().
		Uint("batchmate_id", batchmateID).
		Int("records", updated).
		Msgf("Synced attendance to %d event(s)", updated)
	return updated, nil
}

// EventStatistics returns the event and its derived attendance counts.
func (r *Reconciler) EventStatistics(ctx context.Context, eventID uint) (*model.Event, Statistics, error) {
	event, err := r.requireEvent(ctx, eventID)
	if err != nil {
		return nil, Statistics{}, err
	}
	rows, err := r.attendances.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, Statistics{}, storeErr("list event attendances", err)
	}
	return event, ComputeStatistics(rows), nil
}
