package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(upAddOrderSoftDelete, downAddOrderSoftDelete)
}

// Orders are soft-deleted so historical revenue reports stay stable.
func upAddOrderSoftDelete(tx *sql.Tx) error {
	_, err := tx.Exec(`
		ALTER TABLE orders
		ADD COLUMN deleted_at DATETIME NULL,
		ADD INDEX idx_orders_deleted_at (deleted_at);
	`)
	return err
}

func downAddOrderSoftDelete(tx *sql.Tx) error {
	_, err := tx.Exec(`
		ALTER TABLE orders
		DROP INDEX idx_orders_deleted_at,
		DROP COLUMN deleted_at;
	`)
	return err
}
