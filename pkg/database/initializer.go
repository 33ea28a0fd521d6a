package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Initializer creates missing tables. It never alters a table that already exists.
type Initializer struct {
	db     *gorm.DB
	models []interface{}
	log    *zap.Logger
}

// NewInitializer takes the models in dependency order (referenced tables first).
func NewInitializer(db *gorm.DB, log *zap.Logger, models ...interface{}) *Initializer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Initializer{db: db, models: models, log: log}
}

// Initialize creates every absent table and returns the names it created.
func (i *Initializer) Initialize(ctx context.Context) ([]string, error) {
	start := time.Now()
	migrator := i.db.WithContext(ctx).Migrator()

	var created []string
	for _, m := range i.models {
		name, err := i.tableName(m)
		if err != nil {
			return created, err
		}
		if migrator.HasTable(m) {
			continue
		}
		if err := migrator.CreateTable(m); err != nil {
			return created, fmt.Errorf("create table %s: %w", name, err)
		}
		created = append(created, name)
	}

	i.log.Info("schema ready",
		zap.Strings("created", created),
		zap.Int("tables", len(i.models)),
		zap.Duration("elapsed", time.Since(start)))
	return created, nil
}

// Drop removes every table, dependents first.
func (i *Initializer) Drop(ctx context.Context) error {
	migrator := i.db.WithContext(ctx).Migrator()
	for idx := len(i.models) - 1; idx >= 0; idx-- {
		m := i.models[idx]
		if !migrator.HasTable(m) {
			continue
		}
		if err := migrator.DropTable(m); err != nil {
			name, _ := i.tableName(m)
			return fmt.Errorf("drop table %s: %w", name, err)
		}
	}
	i.log.Info("schema dropped", zap.Int("tables", len(i.models)))
	return nil
}

func (i *Initializer) tableName(m interface{}) (string, error) {
	stmt := &gorm.Statement{DB: i.db}
	if err := stmt.Parse(m); err != nil {
		return "", fmt.Errorf("parse model %T: %w", m, err)
	}
	return stmt.Schema.Table, nil
}
