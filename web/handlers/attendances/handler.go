package attendances

import (
	"context"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/attendance"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/handlers/crud"
	"github.com/gin-gonic/gin"
)

type Endpoint struct {
	base *common.Handler
}

// Register mounts the attendance routes. checkIn runs in front of the public
// check-mobile and register-qr endpoints only.
func Register(r *gin.RouterGroup, h *common.Handler, checkIn ...gin.HandlerFunc) {
	endpoint := &Endpoint{base: h}
	resource := &crud.Resource[model.EventAttendance, *model.EventAttendance]{
		Name: "Event attendance",
		Repo: h.Attendances,
		Filters: map[string]string{
			"eventId":          "event_id",
			"batchmateId":      "batchmate_id",
			"status":           "status",
			"attendanceMethod": "attendance_method",
		},
		Preload:  []string{"Event", "Batchmate"},
		Aliases:  map[string]string{"event": "eventId", "batchmate": "batchmateId"},
		IDs:      []string{"eventId", "batchmateId"},
		ReadOnly: []string{"markedAt"},
		Prepare:  endpoint.prepare,
	}

	public := r.Group("/event-attendances", checkIn...)
	public.POST("/check-mobile", endpoint.CheckMobile)
	public.POST("/register-qr", endpoint.RegisterQR)
	r.POST("/event-attendances/mark-manual", endpoint.MarkManual)
	r.POST("/event-attendances/bulk-mark", endpoint.BulkMark)
	resource.Register(r, "/event-attendances")
}

// prepare guards the generic write path: the pair must reference existing
// rows, stay unique, and carry enumerated values.
func (ep *Endpoint) prepare(ctx context.Context, a *model.EventAttendance, payload crud.Payload, existing bool) error {
	if a.Status == "" {
		a.Status = model.StatusPending
	}
	if !model.IsValidStatus(a.Status) {
		return &attendance.ValidationError{Message: "Invalid status " + a.Status}
	}
	if a.AttendanceMethod == "" {
		a.AttendanceMethod = model.MethodNotMarked
	}
	if existing {
		if payload.Has("eventId") || payload.Has("batchmateId") {
			return &attendance.ValidationError{Message: "Event and batchmate of an attendance cannot be changed"}
		}
		return nil
	}

	if a.EventID == 0 || a.BatchmateID == 0 {
		return &attendance.ValidationError{Message: "Event ID and batchmate ID are required"}
	}
	if e, err := ep.base.Events.Get(ctx, a.EventID); err != nil {
		return err
	} else if e == nil {
		return &attendance.NotFoundError{Entity: "Event", ID: a.EventID}
	}
	if b, err := ep.base.Batchmates.Get(ctx, a.BatchmateID); err != nil {
		return err
	} else if b == nil {
		return &attendance.NotFoundError{Entity: "Batchmate", ID: a.BatchmateID}
	}
	dup, err := ep.base.Attendances.FindByPair(ctx, a.EventID, a.BatchmateID)
	if err != nil {
		return err
	}
	if dup != nil {
		return &attendance.ValidationError{Message: "Attendance already exists for this event and batchmate"}
	}
	return nil
}
