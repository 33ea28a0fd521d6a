package repository

import (
	"context"

	"gorm.io/gorm"
)

// ==================== Store (unit of work) ====================

// Store groups every repository over one handle. Outside a transaction the
// handle is the pool; inside Transaction it is the tx, so all reads and writes
// issued through the tx Store share the same connection.
type Store struct {
	db *gorm.DB

	Sellers    SellerRepository
	Profiles   SellerProfileRepository
	Followers  FollowerRepository
	Products   ProductRepository
	Categories CategoryRepository
	Inventory  InventoryRepository
	Reviews    ReviewRepository
	Users      UserRepository
}

// NewStore builds a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Sellers:    NewSellerRepository(db),
		Profiles:   NewSellerProfileRepository(db),
		Followers:  NewFollowerRepository(db),
		Products:   NewProductRepository(db),
		Categories: NewCategoryRepository(db),
		Inventory:  NewInventoryRepository(db),
		Reviews:    NewReviewRepository(db),
		Users:      NewUserRepository(db),
	}
}

// Transaction runs fn against a Store bound to a new transaction.
// It commits when fn returns nil and rolls back on an error or a panic.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Pagination is the skip/limit window shared by list queries.
// A non-positive Limit returns every row.
type Pagination struct {
	Skip  int
	Limit int
}

func (p Pagination) apply(db *gorm.DB) *gorm.DB {
	if p.Skip > 0 {
		db = db.Offset(p.Skip)
	}
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	return db
}
