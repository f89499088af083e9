package model

import "time"

type Event struct {
	Base
	Name      string     `gorm:"size:255;not null" json:"name"`
	EventDate *time.Time `json:"eventDate"`
	Venue     string     `gorm:"size:255" json:"venue"`
	QRCode    string     `gorm:"type:mediumtext" json:"qrCode,omitempty"`
	QRCodeURL string     `gorm:"size:512" json:"qrCodeUrl,omitempty"`

	Attendances []EventAttendance `gorm:"foreignKey:EventID" json:"attendances,omitempty"`
}

func (Event) TableName() string {
	return "events"
}
