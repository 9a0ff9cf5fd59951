package postgres

import (
	"context"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

type DB struct {
	Host         string `yaml:"host" envconfig:"DB_HOST"`
	Port         string `yaml:"port" envconfig:"DB_PORT"`
	User         string `yaml:"user" envconfig:"DB_USER"`
	Password     string `yaml:"password" envconfig:"DB_PASSWORD"`
	NAME         string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode      string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxOpenConns int    `yaml:"maxOpenConns" envconfig:"DB_MAX_OPEN_CONNS"`
}

func (c *DB) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.NAME,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return dsn.String()
}

// NewPostgresDB opens the pool and applies the embedded migrations.
func NewPostgresDB(ctx context.Context, cfg *DB, migrations fs.FS) (*sqlx.DB, error) {
	db, err := Open(ctx, cfg.DSN(), cfg.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	if migrations == nil {
		return db, nil
	}
	if err := Migrate(db, migrations, "up"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func Open(ctx context.Context, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	const (
		defaultMaxOpenConnections = 50
		defaultMaxIdleConnections = 10
		defaultMaxConnLifetime    = time.Hour
		defaultMaxConnIdleTime    = time.Minute * 5
	)
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse dsn")
	}
	db := sqlx.NewDb(stdlib.OpenDB(*connCfg), "pgx")

	if maxOpenConns <= 0 {
		maxOpenConns = defaultMaxOpenConnections
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping")
	}
	return db, nil
}

// Migrate runs a goose command (up, down, status) over the given migration files.
func Migrate(db *sqlx.DB, migrations fs.FS, command string) error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	switch command {
	case "up":
		return errors.Wrap(goose.Up(db.DB, "."), "goose up")
	case "down":
		return errors.Wrap(goose.Down(db.DB, "."), "goose down")
	case "status":
		return errors.Wrap(goose.Status(db.DB, "."), "goose status")
	default:
		return errors.Errorf("unknown migration command %q", command)
	}
}
