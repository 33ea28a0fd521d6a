// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"marketplace_api/internal/model"
	"marketplace_api/pkg/database"
)

// NewDB returns an in-memory sqlite store with every table created.
// The single connection keeps the in-memory database alive until cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.InitDB(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      ":memory:",
		LogLevel: "silent",
	}, nil)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if _, err := database.NewInitializer(db, nil, model.Tables()...).Initialize(context.Background()); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return db
}
