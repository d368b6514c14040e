package repo

import "github.com/adib-hasan/gitboard/internal/account"

// Repo is one row per repository owned by an account at last sync time.
// Rows are keyed by GitHub's repository ID only; repositories that disappear
// upstream are never pruned here, so orphan rows may persist.
//
// Owner exists solely to declare the foreign key; it stays nil on reads and
// writes, so the account row is only ever written through its own store.
type Repo struct {
	ID      string `gorm:"column:id;primaryKey"`
	OwnerID string `gorm:"column:owner_id;index"`
	Name    string `gorm:"column:name"`
	Status  string `gorm:"column:status"`
	Stars   int    `gorm:"column:stars"`
	Forks   int    `gorm:"column:forks"`

	Owner *account.Account `gorm:"foreignKey:OwnerID;references:OwnerID"`
}

func (Repo) TableName() string {
	return "repo_info"
}

// ExportRow is one line of the CSV download: the account joined onto each of
// its repositories. Forks is fetched into Repo but deliberately not part of
// the export.
type ExportRow struct {
	OwnerID    string  `gorm:"column:owner_id"`
	OwnerName  string  `gorm:"column:owner_name"`
	OwnerEmail *string `gorm:"column:owner_email"`
	RepoID     string  `gorm:"column:repo_id"`
	RepoName   string  `gorm:"column:repo_name"`
	Status     string  `gorm:"column:status"`
	Stars      int     `gorm:"column:stars"`
}
