package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/feedback360-backend/internal/data/repos"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/seed"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

func wireRepos(db *gorm.DB, log *logger.Logger) repos.Repos {
	log.Info("Wiring repos...")
	return repos.New(db, log, seed.DefaultConfig)
}
