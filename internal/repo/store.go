package repo

import (
	"context"

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
	if err := s.db.AutoMigrate(&Repo{}); err != nil {
		return shared.ClassifyStorage(err)
	}
	return nil
}

// Upsert writes one repository row atomically, overwriting every mutable
// field on conflict. The owner never changes for an existing repo ID.
func (s *Store) Upsert(ctx context.Context, r *Repo) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "status", "stars", "forks",
		}),
	}).Create(r).Error
	if err != nil {
		return shared.ClassifyStorage(err)
	}
	return nil
}

// UpsertAll writes the fetched set row by row and stops at the first failure.
// Rows written before the failure stay committed; rows absent from the set
// are left untouched.
func (s *Store) UpsertAll(ctx context.Context, repos []Repo) error {
	for i := range repos {
		if err := s.Upsert(ctx, &repos[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]Repo, error) {
	var repos []Repo
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&repos).Error
	if err != nil {
		return nil, shared.ClassifyStorage(err)
	}
	return repos, nil
}

// ExportRows joins the account onto its repositories for the CSV download.
// Stars is the last selected column; forks is not part of the export.
func (s *Store) ExportRows(ctx context.Context, ownerID string) ([]ExportRow, error) {
	var rows []ExportRow
	err := s.db.WithContext(ctx).
		Table("user_info").
		Select("user_info.owner_id AS owner_id, user_info.name AS owner_name, user_info.email AS owner_email, " +
			"repo_info.id AS repo_id, repo_info.name AS repo_name, repo_info.status AS status, repo_info.stars AS stars").
		Joins("INNER JOIN repo_info ON user_info.owner_id = repo_info.owner_id").
		Where("user_info.owner_id = ?", ownerID).
		Scan(&rows).Error
	if err != nil {
		return nil, shared.ClassifyStorage(err)
	}
	return rows, nil
}
