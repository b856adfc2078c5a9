package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(upAddPricingRuleMinQuantity, downAddPricingRuleMinQuantity)
}

// Bulk pricing tiers: rules gained a minimum-quantity threshold so a cheaper
// per-page rate can kick in above N copies. Existing rules default to 1.
func upAddPricingRuleMinQuantity(tx *sql.Tx) error {
	_, err := tx.Exec(`
		ALTER TABLE pricing_rules
		ADD COLUMN min_quantity INT NOT NULL DEFAULT 1;
	`)
	return err
}

func downAddPricingRuleMinQuantity(tx *sql.Tx) error {
	_, err := tx.Exec(`
		ALTER TABLE pricing_rules
		DROP COLUMN min_quantity;
	`)
	return err
}
