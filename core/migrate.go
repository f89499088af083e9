package core

import (
	"context"
	"fmt"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/utils"
	"gorm.io/gorm"
)

// Migrate creates or alters tables for every model, including the
// idx_event_batchmate unique index on event attendances.
func Migrate(ctx context.Context, db *gorm.DB) error {
	for _, m := range model.All() {
		if err := db.WithContext(ctx).AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
	}
	return nil
}

// BackfillPhoneNumbers rewrites stored mobile and whatsapp numbers into canonical form.
// It returns the number of batchmates changed.
func BackfillPhoneNumbers(ctx context.Context, db *gorm.DB, batchSize int) (int, error) {
	logger := log.WithComponent("backfill")
	updated := 0

	var batch []model.Batchmate
	err := db.WithContext(ctx).Model(&model.Batchmate{}).
		Select("id", "mobile", "whatsapp_mobile").
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			for _, b := range batch {
				mobile := utils.NormalizePhoneNumber(b.Mobile)
				whatsapp := utils.NormalizePhoneNumber(b.WhatsappMobile)
				if mobile == b.Mobile && whatsapp == b.WhatsappMobile {
					continue
				}

				if err := db.WithContext(ctx).Model(&model.Batchmate{}).
					Where("id = ?", b.ID).
					Updates(map[string]interface{}{
						"mobile":          mobile,
						"whatsapp_mobile": whatsapp,
					}).Error; err != nil {
					return fmt.Errorf("failed to normalize batchmate %d: %w", b.ID, err)
				}
				logger.Debug().Uint("batchmate_id", b.ID).Str("mobile", mobile).Msg("normalized phone numbers")
				updated++
			}
			return nil
		}).Error

	return updated, err
}
