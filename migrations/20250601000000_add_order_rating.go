package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(upAddOrderRating, downAddOrderRating)
}

// Adds the post-completion rating columns to the production orders table.
// Dev SQLite databases get these through AutoMigrate; this migration keeps
// the MySQL store the jobs report against in step.
func upAddOrderRating(tx *sql.Tx) error {
	_, err := tx.Exec(`
		ALTER TABLE orders
		ADD COLUMN rating INT NULL,
		ADD COLUMN rating_comment TEXT NULL;
	`)
	return err
}

func downAddOrderRating(tx *sql.Tx) error {
	_, err := tx.Exec(`
		ALTER TABLE orders
		DROP COLUMN rating,
		DROP COLUMN rating_comment;
	`)
	return err
}
