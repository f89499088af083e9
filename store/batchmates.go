package store

import (
	"context"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"gorm.io/gorm"
)

type BatchmateRepository struct {
	*Repository[model.Batchmate]
}

func NewBatchmateRepository(db *gorm.DB) *BatchmateRepository {
	return &BatchmateRepository{Repository: NewRepository[model.Batchmate](db)}
}

func mobileQuery(db *gorm.DB, numbers []string) *gorm.DB {
	return db.Where("mobile IN ?", numbers).Or("whatsapp_mobile IN ?", numbers).Order("id")
}

// FindByMobile returns the first batchmate whose mobile or whatsapp number equals any of numbers.
func (r *BatchmateRepository) FindByMobile(ctx context.Context, numbers ...string) (*model.Batchmate, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	var batchmate model.Batchmate
	result := mobileQuery(r.DB(ctx), numbers).Limit(1).Find(&batchmate)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &batchmate, nil
}
