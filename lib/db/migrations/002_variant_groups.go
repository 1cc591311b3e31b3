package migrations

import (
	"database/sql"
)

func migration002VariantGroups() Migration {
	return Migration{
		Version:     2,
		Description: "Create variant group table",
		Up: func(db *sql.DB, dialect Dialect) error {
			query := `CREATE TABLE IF NOT EXISTS flex_variant_group (
				reference TEXT NOT NULL,
				group_id TEXT NOT NULL,
				data TEXT NOT NULL,
				PRIMARY KEY (reference, group_id)
			)`

			if _, err := db.Exec(query); err != nil {
				return err
			}
			return nil
		},
	}
}
