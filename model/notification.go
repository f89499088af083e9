package model

import "time"

type Notification struct {
	Base
	Title       string     `gorm:"size:255;not null" json:"title"`
	Message     string     `gorm:"type:text" json:"message"`
	Audience    string     `gorm:"size:50;default:all" json:"audience"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
