package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

type Config struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	MaxOpenConns int
}

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// NewPostgresDB opens an instrumented pool, retrying while the server
// comes up.
func NewPostgresDB(cfg Config) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error
	maxRetries := 10

	for i := 1; i <= maxRetries; i++ {
		logrus.WithField("attempt", i).Info("Connecting to database")

		sqlDB, openErr := otelsql.Open("postgres", cfg.DSN(),
			otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
			otelsql.WithDBName(cfg.DBName),
		)
		err = openErr
		if err == nil {
			db = sqlx.NewDb(sqlDB, "postgres")
			err = db.Ping()
			if err != nil {
				db.Close()
			}
		}

		if err == nil {
			logrus.Info("Database connected")
			configurePool(db, cfg)
			return db, nil
		}

		logrus.WithError(err).Warn("Database not ready yet, waiting 2 seconds")
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("could not connect to database: %w", err)
}

func configurePool(db *sqlx.DB, cfg Config) {
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(5 * time.Minute)
}
