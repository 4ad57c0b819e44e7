package database

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"petsitter/internal/domain/booking"
	"petsitter/internal/domain/chat"
	"petsitter/internal/domain/notification"
	"petsitter/internal/domain/profile"
	"petsitter/internal/domain/review"
)

// Connect opens postgres for postgres:// URLs and sqlite for anything else.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info("using sqlite", zap.String("dsn", dsn))
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&profile.OwnerModel{},
		&profile.SitterModel{},
		&profile.ServiceModel{},
		&profile.AvailabilityModel{},
		&booking.BookingModel{},
		&booking.ArchiveModel{},
		&review.ReviewModel{},
		&notification.NotificationModel{},
		&chat.Channel{},
		&chat.Member{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
