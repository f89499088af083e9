package events

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/attendance"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/infrastructure/qrcode"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/handlers/crud"
	"github.com/gin-gonic/gin"
)

type Endpoint struct {
	base *common.Handler
}

func Register(r *gin.RouterGroup, h *common.Handler) {
	endpoint := &Endpoint{base: h}
	resource := &crud.Resource[model.Event, *model.Event]{
		Name:     "Event",
		Repo:     h.Events,
		Filters:  map[string]string{"venue": "venue"},
		Order:    "event_date desc",
		ReadOnly: []string{"attendances", "qrCode", "qrCodeUrl"},
		Dates: map[string]func(*model.Event) **time.Time{
			"eventDate": func(e *model.Event) **time.Time { return &e.EventDate },
		},
		Prepare: prepare,
	}
	resource.Register(r, "/events")

	r.GET("/events/:id/attendances", endpoint.Attendances)
	r.POST("/events/:id/generate-qr", endpoint.GenerateQR)
	r.GET("/events/:id/statistics", endpoint.Statistics)
}

func prepare(ctx context.Context, e *model.Event, payload crud.Payload, existing bool) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return &attendance.ValidationError{Message: "Event name is required"}
	}
	return nil
}

func (ep *Endpoint) Attendances(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.BadRequest(c, err.Error())
		return
	}

	rows, err := ep.base.Attendances.ListByEvent(c.Request.Context(), id)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rows))
}

type qrResponse struct {
	QRCode    string       `json:"qrCode"`
	QRCodeURL string       `json:"qrCodeUrl"`
	Event     *model.Event `json:"event"`
}

// GenerateQR renders the event's check-in link and stores it on the event.
func (ep *Endpoint) GenerateQR(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	event, err := ep.base.Events.Get(ctx, id)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	if event == nil {
		common.NotFound(c, "Event not found")
		return
	}

	url := qrcode.CheckInURL(ep.base.FrontendURL, event.ID)
	dataURL, err := qrcode.DataURL(url)
	if err != nil {
		common.WriteError(c, err)
		return
	}

	event.QRCode = dataURL
	event.QRCodeURL = url
	if err := ep.base.Events.Save(ctx, event); err != nil {
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, qrResponse{QRCode: dataURL, QRCodeURL: url, Event: event})
}

type eventSummary struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	EventDate *time.Time `json:"eventDate"`
	Venue     string     `json:"venue"`
}

type statisticsResponse struct {
	Event      eventSummary          `json:"event"`
	Statistics attendance.Statistics `json:"statistics"`
}

func (ep *Endpoint) Statistics(c *gin.Context) {
	id, err := common.ParseID(c.Param("id"))
	if err != nil {
		common.BadRequest(c, err.Error())
		return
	}

	event, stats, err := ep.base.Reconciler.EventStatistics(c.Request.Context(), id)
	if err != nil {
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, statisticsResponse{
		Event: eventSummary{
			ID:        event.ID,
			Name:      event.Name,
			EventDate: event.EventDate,
			Venue:     event.Venue,
		},
		Statistics: stats,
	})
}
