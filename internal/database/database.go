package database

import (
	"fmt"
	"time"

	"eventim/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database. Duplicate key violations are translated
// to gorm.ErrDuplicatedKey so callers can detect them independent of the driver.
// Slow queries and errors are written to log; a nil log discards them.
func Open(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if driver == "sqlite" {
		// SQLite allows a single writer; one connection keeps transactions serialised.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// newGormLogger forwards gorm's warnings to zap. Lookups that find nothing are expected
// (e.g. the duplicate email check) and are not logged.
func newGormLogger(log *zap.Logger) gormlogger.Interface {
	if log == nil {
		log = zap.NewNop()
	}
	return gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate creates or updates every table and seeds the disability marks.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Country{},
		&models.City{},
		&models.Area{},
		&models.Venue{},
		&models.VenueArea{},
		&models.Artist{},
		&models.Genre{},
		&models.Subgenre{},
		&models.Tour{},
		&models.TourArtist{},
		&models.TourSubgenre{},
		&models.Event{},
		&models.EventSupportingAct{},
		&models.EventCategory{},
		&models.EventVenueArea{},
		&models.DisabilityMark{},
		&models.User{},
		&models.UserDisabilityMark{},
		&models.Image{},
		&models.CartItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return seedDisabilityMarks(db)
}

// DefaultDisabilityMarks are the Merkzeichen printed on the German disability card.
var DefaultDisabilityMarks = []models.DisabilityMark{
	{Code: "G", Description: "Erheblich beeinträchtigt in der Bewegungsfähigkeit im Straßenverkehr"},
	{Code: "aG", Description: "Außergewöhnlich gehbehindert"},
	{Code: "B", Description: "Berechtigung zur Mitnahme einer Begleitperson"},
	{Code: "H", Description: "Hilflos"},
	{Code: "Bl", Description: "Blind"},
	{Code: "Gl", Description: "Gehörlos"},
	{Code: "TBl", Description: "Taubblind"},
	{Code: "RF", Description: "Ermäßigung des Rundfunkbeitrags"},
}

func seedDisabilityMarks(db *gorm.DB) error {
	for _, mark := range DefaultDisabilityMarks {
		mark := mark
		if err := db.Where(models.DisabilityMark{Code: mark.Code}).FirstOrCreate(&mark).Error; err != nil {
			return fmt.Errorf("failed to seed disability mark %s: %w", mark.Code, err)
		}
	}
	return nil
}
