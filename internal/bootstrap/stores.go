package bootstrap

import (
	"github.com/adib-hasan/gitboard/internal/account"
	"github.com/adib-hasan/gitboard/internal/repo"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideAccountStore(db *gorm.DB) *account.Store {
	return account.NewStore(db)
}

func ProvideRepoStore(db *gorm.DB) *repo.Store {
	return repo.NewStore(db)
}

// RunMigrations ensures the schema at startup. The sync pipeline repeats the
// ensure on every run, so ordering here only matters for the first boot:
// accounts before repos because repo rows reference the account table.
func RunMigrations(accounts *account.Store, repos *repo.Store) error {
	if err := accounts.Migrate(); err != nil {
		return err
	}
	return repos.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideAccountStore,
		ProvideRepoStore,
	),
	fx.Invoke(RunMigrations),
)
