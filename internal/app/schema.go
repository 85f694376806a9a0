package app

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaSQL string

// BootstrapSchema creates the Rides table when it does not exist yet.
// It is a one shot setup step run before the store is used, not a migration.
func BootstrapSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}
	return nil
}
