// Package postgres implements the store interfaces on top of GORM. The same
// implementations back the production PostgreSQL database and the in-memory
// sqlite database used by tests.
package postgres

import (
	"context"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saketjha34/FileForge/internal/config"
	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/store"
)

// Open connects to PostgreSQL and migrates the schema.
func Open(cfg config.Postgres, debug bool) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(debug)),
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the metadata tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Folder{},
		&domain.File{},
		&domain.Favorite{},
	)
}

func logLevel(debug bool) logger.LogLevel {
	if debug {
		return logger.Info
	}
	return logger.Silent
}

// DB wraps a GORM handle and hands out store implementations bound to it.
type DB struct {
	gdb *gorm.DB
}

// New creates a DB from an open GORM handle.
func New(gdb *gorm.DB) *DB {
	return &DB{gdb: gdb}
}

// Stores returns the store bundle backed by this database connection.
func (d *DB) Stores() store.Stores {
	return store.Stores{
		Users:     &UserStore{db: d.gdb},
		Folders:   &FolderStore{db: d.gdb},
		Files:     &FileStore{db: d.gdb},
		Favorites: &FavoriteStore{db: d.gdb},
	}
}

// InTransaction runs fn with stores bound to a single database transaction.
func (d *DB) InTransaction(ctx context.Context, fn func(tx store.Stores) error) error {
	return d.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx).Stores())
	})
}

// translateNotFound maps GORM's record-not-found onto the store sentinel.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
