package store

import (
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"gorm.io/gorm"
)

type EventRepository struct {
	*Repository[model.Event]
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{Repository: NewRepository[model.Event](db)}
}

func NewNotificationRepository(db *gorm.DB) *Repository[model.Notification] {
	return NewRepository[model.Notification](db)
}
