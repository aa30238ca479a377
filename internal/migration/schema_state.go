package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// recordSchemaState stores the applied schema version so operators can check which
// migration set a database runs.
func recordSchemaState(ctx context.Context, db *sql.DB, schemaVersion string, checksum string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO schema_state (id, schema_version, checksum, applied_at)
		VALUES (TRUE, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET schema_version = EXCLUDED.schema_version,
		    checksum = EXCLUDED.checksum,
		    applied_at = EXCLUDED.applied_at
	`, schemaVersion, nullIfEmpty(checksum), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record schema state: %w", err)
	}
	return nil
}

func nullIfEmpty(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return trimmed
}
