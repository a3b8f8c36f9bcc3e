package services

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wavedeck-app/wavedeck/pkg/internal/database"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
)

func DoAutoDatabaseCleanup() {
	deadline := time.Now().Add(-60 * time.Minute)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	// Deal soft-deletion
	var count int64
	for _, model := range database.AutoMaintainRange {
		tx := database.C.Unscoped().Delete(model, "deleted_at <= ?", deadline)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running database cleanup...")
		}
		count += tx.RowsAffected
	}

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}

// SweepAbandonedCalls is the backstop for the end-on-last-leave rule: any
// call still marked active while nobody is joined gets ended so its room is
// released instead of idling until the provider-side expiry.
func SweepAbandonedCalls() {
	var calls []models.Call
	if err := database.C.
		Where(models.Call{Status: models.CallStatusActive}).
		Find(&calls).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when sweeping abandoned calls...")
		return
	}

	for _, call := range calls {
		var remaining int64
		if err := database.C.Model(&models.CallParticipant{}).
			Where("call_id = ? AND left_at IS NULL", call.ID).
			Count(&remaining).Error; err != nil || remaining > 0 {
			continue
		}
		if _, err := finishCall(call); err != nil {
			log.Error().Err(err).Uint("call", call.ID).Msg("Unable to end abandoned call...")
		} else {
			log.Info().Uint("call", call.ID).Msg("Ended abandoned call with no joined participants.")
		}
	}
}
