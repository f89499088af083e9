package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/attendance"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/security"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/store/memstore"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("alumnihub-test-signing-secret"))

type syncCall struct {
	BatchmateID uint
	Flag        string
}

type fakeSync struct {
	mu    sync.Mutex
	calls []syncCall
}

func (f *fakeSync) Enqueue(batchmateID uint, flag string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, syncCall{batchmateID, flag})
	return fmt.Sprintf("task-%d", len(f.calls))
}

type fakeArchiver struct {
	keys []string
}

func (f *fakeArchiver) WriteFile(ctx context.Context, key, contentType string, body io.Reader) error {
	f.keys = append(f.keys, key)
	return nil
}

type testServer struct {
	router   *gin.Engine
	store    *memstore.Store
	sync     *fakeSync
	archiver *fakeArchiver
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, Options{})
}

func newTestServerWith(t *testing.T, opts Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := memstore.New()
	ts := &testServer{store: s, sync: &fakeSync{}, archiver: &fakeArchiver{}}
	secret, err := security.DecodeSecret(testSecret)
	require.NoError(t, err)

	opts.JWTSecret = secret
	ts.router, err = NewRouter(&common.Handler{
		Batchmates:    s.Batchmates,
		Events:        s.Events,
		Attendances:   s.Attendances,
		Notifications: s.Notifications,
		Reconciler:    attendance.NewReconciler(s.Events, s.Batchmates, s.Attendances),
		Sync:          ts.sync,
		Archiver:      ts.archiver,
		FrontendURL:   "http://localhost:3000",
	}, opts)
	require.NoError(t, err)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (ts *testServer) createEvent(t *testing.T, name string) uint {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/events", gin.H{
		"data": gin.H{"name": name, "eventDate": "2025-01-04", "venue": "Colombo"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}

func TestCheckInScenario(t *testing.T) {
	ts := newTestServer(t)
	eventID := ts.createEvent(t, "Reunion 2025")

	w := ts.do(t, http.MethodPost, "/api/event-attendances/check-mobile", gin.H{"mobile": "0771234567"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["found"])
	assert.Equal(t, "You haven't registered earlier. Please register into the system.", body["message"])

	w = ts.do(t, http.MethodPost, "/api/event-attendances/register-qr", gin.H{
		"eventId": fmt.Sprint(eventID),
		"mobile":  "0771234567",
		"data": gin.H{
			"name":     "Tharindu",
			"fullName": "Tharindu Perera",
			"gmail":    "tharindu@gmail.com",
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Attendance registered successfully!", body["message"])
	data := body["data"].(map[string]interface{})
	record := data["attendance"].(map[string]interface{})
	batchmate := data["batchmate"].(map[string]interface{})
	assert.Equal(t, model.StatusPresent, record["status"])
	assert.Equal(t, model.MethodQRScan, record["attendanceMethod"])
	assert.Equal(t, "94771234567", batchmate["mobile"])
	assert.Equal(t, "tharindu@gmail.com", batchmate["email"])
	assert.Equal(t, model.DefaultField, batchmate["field"])
	assert.Equal(t, model.BatchmatePresent, batchmate["attendance"])

	w = ts.do(t, http.MethodPost, "/api/event-attendances/check-mobile", gin.H{"mobile": "+94771234567"})
	body = decode(t, w)
	assert.Equal(t, true, body["found"])
	profile := body["data"].(map[string]interface{})
	assert.Equal(t, "Tharindu", profile["callingName"])
	assert.NotContains(t, profile, "attendance")

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/events/%d/statistics", eventID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "Reunion 2025", body["event"].(map[string]interface{})["name"])
	stats := body["statistics"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["total"])
	assert.Equal(t, float64(1), stats["present"])
	assert.Equal(t, float64(1), stats["qrScanned"])

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/events/%d/attendances", eventID), nil)
	rows := decode(t, w)["data"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "Tharindu", rows[0].(map[string]interface{})["batchmate"].(map[string]interface{})["callingName"])
}

func TestCheckMobileRequiresNumber(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/event-attendances/check-mobile", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Mobile number is required", decode(t, w)["message"])
}

func TestCheckInRateLimitClientAddress(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
		second  int
	}{
		{"forwarded header ignored by default", nil, http.StatusTooManyRequests},
		{"forwarded header honoured from trusted proxy", []string{"192.0.2.0/24"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServerWith(t, Options{CheckInRate: 0.001, CheckInBurst: 1, TrustedProxies: tt.proxies})

			w := ts.do(t, http.MethodPost, "/api/event-attendances/check-mobile", gin.H{"mobile": "0771234567"}, "X-Forwarded-For", "203.0.113.1")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			w = ts.do(t, http.MethodPost, "/api/event-attendances/check-mobile", gin.H{"mobile": "0771234567"}, "X-Forwarded-For", "203.0.113.2")
			assert.Equal(t, tt.second, w.Code, w.Body.String())
		})
	}
}

func TestNewRouterRejectsBadProxy(t *testing.T) {
	_, err := NewRouter(&common.Handler{}, Options{TrustedProxies: []string{"not-an-ip"}})
	assert.Error(t, err)
}

func TestRegisterQRValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		body    gin.H
		status  int
		message string
	}{
		{"missing data", gin.H{"eventId": 1, "mobile": "0771234567"}, http.StatusBadRequest, "Event ID, mobile number, and data are required"},
		{"missing mobile", gin.H{"eventId": 1, "data": gin.H{}}, http.StatusBadRequest, "Event ID, mobile number, and data are required"},
		{"bad event id", gin.H{"eventId": "abc", "mobile": "0771234567", "data": gin.H{}}, http.StatusBadRequest, "Invalid id abc"},
		{"bad profile field", gin.H{"eventId": 99, "mobile": "0771234567", "data": gin.H{"name": 5}}, http.StatusBadRequest, "Field 'data.name' should be a string"},
		{"unknown event", gin.H{"eventId": 99, "mobile": "0771234567", "data": gin.H{}}, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/event-attendances/register-qr", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.message != "" {
				assert.Equal(t, tt.message, decode(t, w)["message"])
			}
		})
	}
	assert.Equal(t, 0, ts.store.Batchmates.Len())
}

func TestMarkManual(t *testing.T) {
	ts := newTestServer(t)
	eventID := ts.createEvent(t, "Dinner")
	b := &model.Batchmate{CallingName: "Sanduni"}
	require.NoError(t, ts.store.Batchmates.Create(context.Background(), b))

	token, err := security.CreateIdentityToken(&security.AdminIdentity{Id: 42, UserName: "organizer"}, testSecret, time.Hour)
	require.NoError(t, err)

	w := ts.do(t, http.MethodPost, "/api/event-attendances/mark-manual", gin.H{
		"eventId": eventID, "batchmateId": b.ID, "status": "Absent", "notes": "sick",
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Attendance marked successfully!", body["message"])
	record := body["data"].(map[string]interface{})
	assert.Equal(t, float64(42), record["markedBy"])
	assert.Equal(t, "sick", record["notes"])

	tests := []struct {
		name    string
		body    gin.H
		status  int
		message string
	}{
		{"missing status", gin.H{"eventId": eventID, "batchmateId": b.ID}, http.StatusBadRequest, "Event ID, batchmate ID, and status are required"},
		{"unknown event", gin.H{"eventId": 77, "batchmateId": b.ID, "status": "Present"}, http.StatusNotFound, "Event not found"},
		{"unknown batchmate", gin.H{"eventId": eventID, "batchmateId": 77, "status": "Present"}, http.StatusNotFound, "Batchmate not found"},
		{"invalid status", gin.H{"eventId": eventID, "batchmateId": b.ID, "status": "Late"}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/event-attendances/mark-manual", tt.body)
			assert.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decode(t, w)["message"])
			}
		})
	}

	w = ts.do(t, http.MethodPost, "/api/event-attendances/mark-manual", gin.H{
		"eventId": eventID, "batchmateId": b.ID, "status": "Present",
	}, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 1, ts.store.Attendances.Len())
}

func TestBulkMark(t *testing.T) {
	ts := newTestServer(t)
	eventID := ts.createEvent(t, "Cricket match")
	ctx := context.Background()
	a := &model.Batchmate{CallingName: "A"}
	b := &model.Batchmate{CallingName: "B"}
	require.NoError(t, ts.store.Batchmates.Create(ctx, a))
	require.NoError(t, ts.store.Batchmates.Create(ctx, b))

	w := ts.do(t, http.MethodPost, "/api/event-attendances/bulk-mark", gin.H{
		"eventId": eventID,
		"attendances": []gin.H{
			{"batchmateId": a.ID, "status": "Present"},
			{"batchmateId": b.ID, "status": "Absent", "notes": "abroad"},
			{"batchmateId": a.ID, "status": "Absent"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "3 attendance records updated successfully!", decode(t, w)["message"])
	assert.Equal(t, 2, ts.store.Attendances.Len())

	w = ts.do(t, http.MethodPost, "/api/event-attendances/bulk-mark", gin.H{"eventId": eventID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Event ID and attendances array are required", decode(t, w)["message"])
}

func TestBatchmateUpdateQueuesSync(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/batchmates", gin.H{
		"data": gin.H{"callingName": "Kasun", "mobile": "077-123 4567", "country": "Sri Lanka"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "94771234567", created["mobile"])
	assert.Equal(t, "94771234567", created["whatsappMobile"])
	assert.Equal(t, model.BatchmateAbsent, created["attendance"])
	id := uint(created["id"].(float64))

	w = ts.do(t, http.MethodPut, fmt.Sprintf("/api/batchmates/%d", id), gin.H{"data": gin.H{"workingPlace": "Dialog"}})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Dialog", updated["workingPlace"])
	assert.Equal(t, "Sri Lanka", updated["country"])
	assert.Empty(t, ts.sync.calls)

	w = ts.do(t, http.MethodPut, fmt.Sprintf("/api/batchmates/%d", id), gin.H{"data": gin.H{"attendance": "Present"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []syncCall{{id, model.BatchmatePresent}}, ts.sync.calls)

	w = ts.do(t, http.MethodPut, "/api/batchmates/999", gin.H{"data": gin.H{"attendance": "Present"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Batchmate not found", decode(t, w)["message"])
	assert.Len(t, ts.sync.calls, 1)
}

func TestListPagingAndFilters(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	for _, b := range []model.Batchmate{
		{CallingName: "Chamara", Field: "Civil"},
		{CallingName: "Amal", Field: "Civil"},
		{CallingName: "Bimal", Field: "Electrical"},
	} {
		b := b
		require.NoError(t, ts.store.Batchmates.Create(ctx, &b))
	}

	w := ts.do(t, http.MethodGet, "/api/batchmates?field=Civil&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["pagination"].(map[string]interface{})["total"])
	items := body["data"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Amal", items[0].(map[string]interface{})["callingName"])

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["limit"])
	assert.Equal(t, float64(0), pagination["offset"])

	tests := []struct {
		path    string
		message string
	}{
		{"/api/batchmates?limit=-1", "Field 'limit' must be at least 0"},
		{"/api/batchmates?offset=abc", `Invalid number "abc"`},
		{"/api/event-attendances?eventId=abc", "Field 'eventId' must be a numeric id"},
		{"/api/event-attendances?batchmateId=0", "Field 'batchmateId' must be a numeric id"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := ts.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["message"])
		})
	}
}

func TestListFiltersByNumericID(t *testing.T) {
	ts := newTestServer(t)
	first := ts.createEvent(t, "Reunion")
	second := ts.createEvent(t, "Gala")

	for _, eventID := range []uint{first, second} {
		w := ts.do(t, http.MethodPost, "/api/event-attendances/register-qr", gin.H{
			"eventId": eventID,
			"mobile":  "0771234567",
			"data":    gin.H{"name": "Nimal"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := ts.do(t, http.MethodGet, fmt.Sprintf("/api/event-attendances?eventId=%d", second), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	items := decode(t, w)["data"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(second), items[0].(map[string]interface{})["eventId"])
}

func TestGenericEndpoints(t *testing.T) {
	ts := newTestServer(t)
	eventID := ts.createEvent(t, "Gala")

	eventPath := fmt.Sprintf("/api/events/%d", eventID)
	tests := []struct {
		name    string
		method  string
		path    string
		body    interface{}
		status  int
		message string
	}{
		{"invalid id", http.MethodGet, "/api/events/abc", nil, http.StatusBadRequest, "Invalid id"},
		{"missing event", http.MethodGet, "/api/events/404", nil, http.StatusNotFound, "Event not found"},
		{"empty body", http.MethodPost, "/api/events", nil, http.StatusBadRequest, "Request body is empty"},
		{"event without name", http.MethodPost, "/api/events", gin.H{"data": gin.H{"venue": "Kandy"}}, http.StatusBadRequest, ""},
		{"bad event date", http.MethodPut, eventPath, gin.H{"data": gin.H{"eventDate": "next week"}}, http.StatusBadRequest, "Field 'eventDate' must be a date such as 2025-01-04"},
		{"wrong field type", http.MethodPut, eventPath, gin.H{"data": gin.H{"name": 5}}, http.StatusBadRequest, "Field 'name' should be a string"},
		{"data not an object", http.MethodPost, "/api/events", []string{"Gala"}, http.StatusBadRequest, "Request body must be an object"},
		{"non numeric attendance id", http.MethodPost, "/api/event-attendances", gin.H{"data": gin.H{"eventId": "abc", "batchmateId": 1, "status": "Present"}}, http.StatusBadRequest, "Field 'eventId' must be a numeric id"},
		{"delete missing", http.MethodDelete, "/api/notifications/5", nil, http.StatusNotFound, ""},
		{"notification", http.MethodPost, "/api/notifications", gin.H{"data": gin.H{"title": "Welcome", "publishedAt": "2025-01-01T08:00:00Z"}}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.message != "" {
				assert.Equal(t, tt.message, decode(t, w)["message"])
			}
		})
	}

	w := ts.do(t, http.MethodGet, fmt.Sprintf("/api/events/%d", eventID), nil)
	event := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2025-01-04T00:00:00Z", event["eventDate"])

	w = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/events/%d", eventID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/events/%d", eventID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceCreateRejectsDuplicatePair(t *testing.T) {
	ts := newTestServer(t)
	eventID := ts.createEvent(t, "Gala")
	b := &model.Batchmate{CallingName: "Nuwan"}
	require.NoError(t, ts.store.Batchmates.Create(context.Background(), b))

	payload := gin.H{"data": gin.H{"event": fmt.Sprint(eventID), "batchmate": b.ID}}
	w := ts.do(t, http.MethodPost, "/api/event-attendances", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, model.StatusPending, created["status"])
	assert.Equal(t, model.MethodNotMarked, created["attendanceMethod"])

	w = ts.do(t, http.MethodPost, "/api/event-attendances", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, ts.store.Attendances.Len())

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/event-attendances?eventId=%d", eventID), nil)
	rows := decode(t, w)["data"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "Gala", rows[0].(map[string]interface{})["event"].(map[string]interface{})["name"])
}

func TestGenerateQR(t *testing.T) {
	ts := newTestServer(t)
	eventID := ts.createEvent(t, "Reunion")

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/events/%d/generate-qr", eventID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	url := fmt.Sprintf("http://localhost:3000/attendance/register?eventId=%d", eventID)
	assert.Equal(t, url, body["qrCodeUrl"])
	assert.True(t, strings.HasPrefix(body["qrCode"].(string), "data:image/png;base64,"))

	stored, err := ts.store.Events.Get(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, url, stored.QRCodeURL)

	w = ts.do(t, http.MethodPost, "/api/events/999/generate-qr", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportFieldwise(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, ts.store.Batchmates.Create(ctx, &model.Batchmate{CallingName: "Amal", Field: "Civil", Attendance: model.BatchmatePresent}))
	require.NoError(t, ts.store.Batchmates.Create(ctx, &model.Batchmate{CallingName: "Bimal", Field: "Electrical"}))

	w := ts.do(t, http.MethodGet, "/api/batchmates/export/fieldwise", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"batchmates-fieldwise-")

	wb, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{"Summary", "Civil", "Electrical"}, wb.GetSheetList())

	require.Len(t, ts.archiver.keys, 1)
	assert.True(t, strings.HasPrefix(ts.archiver.keys[0], "exports/fieldwise/"))

	w = ts.do(t, http.MethodGet, "/api/batchmates/export/raffle-cut-sheet?all=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	wb2, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer wb2.Close()
	value, _ := wb2.GetCellValue("Raffle", "C2")
	assert.Equal(t, "Bimal", value)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		w := ts.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "alumni-hub-backend", body["service"])
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}
