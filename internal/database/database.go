package database

import (
	"context"

	"github.com/roomvista/decor-services/visualizer/internal/config"
	"github.com/roomvista/decor-services/visualizer/pkg/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return mysql.NewConnection(context.Background(), cfg.Database, logger)
}
