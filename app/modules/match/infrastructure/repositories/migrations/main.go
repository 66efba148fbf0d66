package matchmigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	// Migration IDs come from the file names of the MustRegister callers.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
