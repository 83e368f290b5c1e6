package utils

import (
	"time"

	"spyserver/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CronCleaner schedules background purges so finished and abandoned
// rooms do not pile up in the database.
func CronCleaner(db *gorm.DB, logger *zap.Logger) {
	c := cron.New()

	// Ended rooms stay readable for an hour so late clients can still
	// fetch the final state, then they are purged with their players
	// and votes.
	c.AddFunc("@hourly", func() {
		endedRoomIDs := []string{}
		db.Model(&models.Room{}).
			Where("status = ? AND updated_at <= ?", models.StatusEnded, time.Now().Add(-1*time.Hour)).
			Pluck("id", &endedRoomIDs)
		if len(endedRoomIDs) == 0 {
			return
		}

		db.Where("room_id IN ?", endedRoomIDs).Delete(&models.Vote{})
		db.Where("room_id IN ?", endedRoomIDs).Delete(&models.Player{})
		result := db.Where("id IN ?", endedRoomIDs).Delete(&models.Room{})
		if result.Error != nil {
			logger.Error("failed to purge ended rooms", zap.Error(result.Error))
		} else {
			logger.Info("purged ended rooms", zap.Int("rooms_deleted", int(result.RowsAffected)))
		}
	})

	// Waiting rooms idle for a day are abandoned lobbies.
	c.AddFunc("0 3 * * *", func() {
		staleRoomIDs := []string{}
		db.Model(&models.Room{}).
			Where("status = ? AND updated_at <= ?", models.StatusWaiting, time.Now().Add(-24*time.Hour)).
			Pluck("id", &staleRoomIDs)
		if len(staleRoomIDs) == 0 {
			return
		}

		db.Where("room_id IN ?", staleRoomIDs).Delete(&models.Vote{})
		db.Where("room_id IN ?", staleRoomIDs).Delete(&models.Player{})
		result := db.Where("id IN ?", staleRoomIDs).Delete(&models.Room{})
		if result.Error != nil {
			logger.Error("failed to purge stale rooms", zap.Error(result.Error))
		} else {
			logger.Info("purged stale rooms", zap.Int("rooms_deleted", int(result.RowsAffected)))
		}
	})

	c.Start()
}
