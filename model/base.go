package model

import "time"

// Base carries the store-assigned identity and audit timestamps shared by every entity.
type Base struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b Base) GetID() uint {
	return b.ID
}

func (b *Base) SetID(id uint) {
	b.ID = id
}

// Touch stamps the audit timestamps the way the ORM does on save.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Entity is implemented by pointers to every persisted model.
type Entity interface {
	GetID() uint
	SetID(id uint)
	Touch(now time.Time)
}

// All lists the models managed by migrations.
func All() []interface{} {
	return []interface{}{
		&Batchmate{},
		&Event{},
		&EventAttendance{},
		&Notification{},
	}
}
