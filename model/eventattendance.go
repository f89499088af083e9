package model

import (
	"time"

	"gorm.io/datatypes"
)

// Attendance status values.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusPending = "Pending"
)

// Attendance method values.
const (
	MethodQRScan    = "QR_SCAN"
	MethodManual    = "MANUAL"
	MethodNotMarked = "NOT_MARKED"
)

// EventAttendance is the join record of one batchmate's attendance at one event.
// The (event_id, batchmate_id) pair is unique.
type EventAttendance struct {
	Base
	EventID          uint           `gorm:"not null;uniqueIndex:idx_event_batchmate" json:"eventId"`
	BatchmateID      uint           `gorm:"not null;uniqueIndex:idx_event_batchmate;index" json:"batchmateId"`
	Status           string         `gorm:"size:20;not null;default:Pending" json:"status"`
	AttendanceMethod string         `gorm:"size:20;not null;default:NOT_MARKED" json:"attendanceMethod"`
	MarkedAt         *time.Time     `json:"markedAt"`
	MarkedBy         *int           `json:"markedBy"`
	Notes            string         `gorm:"type:text" json:"notes"`
	RegisteredData   datatypes.JSON `json:"registeredData,omitempty"`

	Event     *Event     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event,omitempty"`
	Batchmate *Batchmate `gorm:"foreignKey:BatchmateID;constraint:OnDelete:CASCADE" json:"batchmate,omitempty"`
}

func (EventAttendance) TableName() string {
	return "event_attendances"
}

// IsValidStatus reports whether s is one of the enumerated attendance statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusPending:
		return true
	}
	return false
}
