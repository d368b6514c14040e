package account

import (
	"context"
	"errors"

	"github.com/adib-hasan/gitboard/internal/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Account{}); err != nil {
		return shared.ClassifyStorage(err)
	}
	return nil
}

// Upsert writes the account in a single INSERT ... ON CONFLICT statement.
// Every mutable field is overwritten on conflict; the owner ID never changes
// across logins, so the row count for a given identity stays at one.
func (s *Store) Upsert(ctx context.Context, a *Account) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "userid", "avatar_url", "bio", "email",
			"followers_count", "following_count",
		}),
	}).Create(a).Error
	if err != nil {
		return shared.ClassifyStorage(err)
	}
	return nil
}

func (s *Store) GetByOwnerID(ctx context.Context, ownerID string) (*Account, error) {
	var a Account
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, shared.ClassifyStorage(err)
	}
	return &a, nil
}
