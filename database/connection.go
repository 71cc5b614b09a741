package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/models"
)

// Connect opens the database selected by DB_TYPE and registers any read replicas.
func Connect(cfg map[string]string) (*gorm.DB, error) {
	dbType := strings.ToLower(config.GetString(cfg, "DB_TYPE", "sqlite"))

	dsn, err := buildDSN(dbType, cfg)
	if err != nil {
		return nil, err
	}
	dialector, err := dialectorFor(dbType, dsn)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             config.GetDuration(cfg, "DB_SLOW_QUERY_SECONDS", 10, time.Second),
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if replicas := config.GetList(cfg, "DB_READ_REPLICAS"); len(replicas) > 0 {
		replicaDialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, replicaDSN := range replicas {
			d, err := dialectorFor(dbType, replicaDSN)
			if err != nil {
				return nil, err
			}
			replicaDialectors = append(replicaDialectors, d)
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicaDialectors,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("failed to register read replicas: %w", err)
		}
		zlog.Info().Int("replicas", len(replicaDialectors)).Msg("read replicas registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	maxOpen := config.GetInt(cfg, "DB_MAX_OPEN_CONNS", 10)
	if dbType == "sqlite" {
		// one writer at a time; a larger pool only produces SQLITE_BUSY
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(max(maxOpen/2, 1))
	sqlDB.SetConnMaxLifetime(time.Hour)

	zlog.Info().Str("dbType", dbType).Msg("connected to database")
	return db, nil
}

func buildDSN(dbType string, cfg map[string]string) (string, error) {
	switch dbType {
	case "postgres", "postgresql":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			config.GetString(cfg, "DB_HOST", "localhost"),
			config.GetString(cfg, "DB_USER", "postgres"),
			config.GetString(cfg, "DB_PASSWORD", ""),
			config.GetString(cfg, "DB_NAME", "portfolio"),
			config.GetString(cfg, "DB_PORT", "5432"),
			config.GetString(cfg, "DB_SSLMODE", "disable"),
		), nil
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(cfg, "SUPABASE_DB_HOST", ""),
			config.GetString(cfg, "SUPABASE_DB_USER", ""),
			config.GetString(cfg, "SUPABASE_DB_PASSWORD", config.GetString(cfg, "DB_PASSWORD", "")),
			config.GetString(cfg, "SUPABASE_DB_NAME", "postgres"),
			config.GetString(cfg, "SUPABASE_DB_PORT", "5432"),
		), nil
	case "mysql", "mariadb":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			config.GetString(cfg, "DB_USER", "root"),
			config.GetString(cfg, "DB_PASSWORD", ""),
			config.GetString(cfg, "DB_HOST", "localhost"),
			config.GetString(cfg, "DB_PORT", "3306"),
			config.GetString(cfg, "DB_NAME", "portfolio"),
		), nil
	case "sqlite":
		return SQLiteDSN(config.GetString(cfg, "DB_PATH", "portfolio.db")), nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE: %s", dbType)
	}
}

func dialectorFor(dbType, dsn string) (gorm.Dialector, error) {
	switch dbType {
	case "postgres", "postgresql", "supa":
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), nil
	case "mysql", "mariadb":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", dbType)
	}
}

// SQLiteDSN enables foreign keys and a busy timeout for the database file at path.
func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// AutoMigrate creates or updates every table the API uses.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
