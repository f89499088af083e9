package batchmates

import (
	"context"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/utils"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/handlers/crud"
	"github.com/gin-gonic/gin"
)

type Endpoint struct {
	base     *common.Handler
	resource *crud.Resource[model.Batchmate, *model.Batchmate]
}

func Register(r *gin.RouterGroup, h *common.Handler) {
	endpoint := &Endpoint{base: h}
	endpoint.resource = &crud.Resource[model.Batchmate, *model.Batchmate]{
		Name: "Batchmate",
		Repo: h.Batchmates,
		Filters: map[string]string{
			"field":      "field",
			"attendance": "attendance",
			"country":    "country",
		},
		Order:    "calling_name",
		ReadOnly: []string{"eventAttendances"},
		Prepare:  prepare,
		AfterUpdate: func(c *gin.Context, b *model.Batchmate, payload crud.Payload) {
			endpoint.syncAttendance(c, b, payload)
		},
	}

	// export routes first so they are not shadowed by /:id
	r.GET("/batchmates/export/fieldwise", endpoint.ExportFieldwise)
	r.GET("/batchmates/export/raffle-cut-sheet", endpoint.ExportRaffle)
	endpoint.resource.Register(r, "/batchmates")
}

// prepare keeps stored numbers canonical.
func prepare(ctx context.Context, b *model.Batchmate, payload crud.Payload, existing bool) error {
	b.Mobile = utils.NormalizePhoneNumber(b.Mobile)
	b.WhatsappMobile = utils.NormalizePhoneNumber(b.WhatsappMobile)
	if !existing {
		if b.WhatsappMobile == "" {
			b.WhatsappMobile = b.Mobile
		}
		if b.Field == "" {
			b.Field = model.DefaultField
		}
		if b.Attendance == "" {
			b.Attendance = model.BatchmateAbsent
		}
	}
	return nil
}

// syncAttendance queues propagation of a directly edited attendance flag.
// It never affects the update response.
func (ep *Endpoint) syncAttendance(c *gin.Context, b *model.Batchmate, payload crud.Payload) {
	if payload.String("attendance") == "" || ep.base.Sync == nil {
		return
	}
	taskID := ep.base.Sync.Enqueue(b.ID, b.Attendance)
	logger := log.WithRequestID(c.GetString(common.RequestIDKey))
	logger.Debug().
		Uint("batchmate_id", b.ID).
		Str("task_id", taskID).
		Msg("Queued attendance sync")
}
