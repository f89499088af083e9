package attendances

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/attendance"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/utils"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/gin-gonic/gin"
)

const notRegisteredMessage = "You haven't registered earlier. Please register into the system."

type CheckMobileRequest struct {
	Mobile string `json:"mobile"`
}

// BatchmateProfile is the public view returned by check-mobile.
type BatchmateProfile struct {
	ID             uint   `json:"id"`
	CallingName    string `json:"callingName"`
	FullName       string `json:"fullName"`
	NickName       string `json:"nickName"`
	Address        string `json:"address"`
	Country        string `json:"country"`
	WorkingPlace   string `json:"workingPlace"`
	Mobile         string `json:"mobile"`
	WhatsappMobile string `json:"whatsappMobile"`
	Email          string `json:"email"`
	Field          string `json:"field"`
}

func profileOf(b *model.Batchmate) BatchmateProfile {
	return BatchmateProfile{
		ID:             b.ID,
		CallingName:    b.CallingName,
		FullName:       b.FullName,
		NickName:       b.NickName,
		Address:        b.Address,
		Country:        b.Country,
		WorkingPlace:   b.WorkingPlace,
		Mobile:         b.Mobile,
		WhatsappMobile: b.WhatsappMobile,
		Email:          b.Email,
		Field:          b.Field,
	}
}

type CheckMobileResponse struct {
	Found   bool              `json:"found"`
	Data    *BatchmateProfile `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (ep *Endpoint) CheckMobile(c *gin.Context) {
	var req CheckMobileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, common.FormatBindingError(err))
		return
	}

	b, err := ep.base.Reconciler.Registry().FindByMobile(c.Request.Context(), req.Mobile)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	if b == nil {
		c.JSON(http.StatusOK, CheckMobileResponse{Found: false, Message: notRegisteredMessage})
		return
	}
	profile := profileOf(b)
	c.JSON(http.StatusOK, CheckMobileResponse{Found: true, Data: &profile})
}

// RegistrationData is the self-service form captured by the QR page.
type RegistrationData struct {
	Name         string `json:"name"`
	FullName     string `json:"fullName"`
	NickName     string `json:"nickName"`
	Address      string `json:"address"`
	Country      string `json:"country"`
	WorkingPlace string `json:"workingPlace"`
	Whatsapp     string `json:"whatsapp"`
	Email        string `json:"email"`
	Gmail        string `json:"gmail"`
	Field        string `json:"field"`
}

func (d RegistrationData) Profile() attendance.Profile {
	return attendance.Profile{
		CallingName:  d.Name,
		FullName:     d.FullName,
		NickName:     d.NickName,
		Address:      d.Address,
		Country:      d.Country,
		WorkingPlace: d.WorkingPlace,
		Email:        utils.Coalesce(d.Email, d.Gmail),
		Field:        d.Field,
	}
}

type RegisterQRRequest struct {
	EventID common.FlexibleID `json:"eventId"`
	Mobile  string            `json:"mobile"`
	Data    json.RawMessage   `json:"data"`
}

type RegisterQRResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Attendance *model.EventAttendance `json:"attendance"`
		Batchmate  *model.Batchmate       `json:"batchmate"`
	} `json:"data"`
}

func (ep *Endpoint) RegisterQR(c *gin.Context) {
	var req RegisterQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, common.FormatBindingError(err))
		return
	}
	if req.EventID == 0 || req.Mobile == "" || len(req.Data) == 0 || string(req.Data) == "null" {
		common.BadRequest(c, "Event ID, mobile number, and data are required")
		return
	}

	var data RegistrationData
	if err := json.Unmarshal(req.Data, &data); err != nil {
		common.BadRequest(c, common.FormatBindingError(&common.FieldError{Field: "data", Err: err}))
		return
	}

	ctx := c.Request.Context()
	record, batchmate, err := ep.base.Reconciler.RegisterQR(ctx, attendance.CheckIn{
		EventID:  req.EventID.Uint(),
		Mobile:   req.Mobile,
		Whatsapp: data.Whatsapp,
		Profile:  data.Profile(),
		Snapshot: []byte(req.Data),
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}

	ep.confirm(ctx, c.GetString(common.RequestIDKey), batchmate, record.EventID)

	var res RegisterQRResponse
	res.Success = true
	res.Message = "Attendance registered successfully!"
	res.Data.Attendance = record
	res.Data.Batchmate = batchmate
	c.JSON(http.StatusOK, res)
}

// confirm mails the batchmate in the background; the check-in is already stored.
func (ep *Endpoint) confirm(ctx context.Context, requestID string, b *model.Batchmate, eventID uint) {
	if ep.base.Notifier == nil || b.Email == "" {
		return
	}
	event, err := ep.base.Events.Get(ctx, eventID)
	if err != nil || event == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	go func() {
		defer cancel()
		if err := ep.base.Notifier.SendCheckInConfirmation(ctx, b, event); err != nil {
			logger := log.WithRequestID(requestID)
			logger.Warn().Err(err).Uint("batchmate_id", b.ID).Msg("Failed to send check-in confirmation")
		}
	}()
}

type MarkManualRequest struct {
	EventID     common.FlexibleID `json:"eventId"`
	BatchmateID common.FlexibleID `json:"batchmateId"`
	Status      string            `json:"status"`
	Notes       string            `json:"notes"`
}

func (ep *Endpoint) MarkManual(c *gin.Context) {
	var req MarkManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, common.FormatBindingError(err))
		return
	}
	if req.EventID == 0 || req.BatchmateID == 0 || req.Status == "" {
		common.BadRequest(c, "Event ID, batchmate ID, and status are required")
		return
	}

	record, err := ep.base.Reconciler.MarkManual(c.Request.Context(),
		req.EventID.Uint(), req.BatchmateID.Uint(), req.Status, req.Notes, common.Actor(c))
	if err != nil {
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewActionResponse("Attendance marked successfully!", record))
}

type BulkMarkItem struct {
	BatchmateID common.FlexibleID `json:"batchmateId"`
	Status      string            `json:"status"`
	Notes       string            `json:"notes"`
}

type BulkMarkRequest struct {
	EventID     common.FlexibleID `json:"eventId"`
	Attendances []BulkMarkItem    `json:"attendances"`
}

func (ep *Endpoint) BulkMark(c *gin.Context) {
	var req BulkMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, common.FormatBindingError(err))
		return
	}
	if req.EventID == 0 || req.Attendances == nil {
		common.BadRequest(c, "Event ID and attendances array are required")
		return
	}

	items := utils.Map(req.Attendances, func(i BulkMarkItem) attendance.BulkItem {
		return attendance.BulkItem{BatchmateID: i.BatchmateID.Uint(), Status: i.Status, Notes: i.Notes}
	})
	results, err := ep.base.Reconciler.BulkUpsert(c.Request.Context(), req.EventID.Uint(), items, common.Actor(c))
	if err != nil {
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewActionResponse(
		fmt.Sprintf("%d attendance records updated successfully!", len(results)), results))
}
