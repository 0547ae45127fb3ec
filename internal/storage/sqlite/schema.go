package sqlitestore

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	logpkg "github.com/rzbill/tlog/pkg/log"
)

// SchemaVersion names the DDL script applied to new store files.
const SchemaVersion = "0.1.0"

//go:embed 0.1.0.sql
var schemaSQL string

// ensureSchema applies the DDL script when the message schema is absent.
// An already-initialized file is left untouched; a read-only open of a file
// without the schema is an error, since the DDL cannot be applied.
func (d *DB) ensureSchema(ctx context.Context, schemaPath string) error {
	var n int
	err := d.QueryRow(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'messages'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("%w: inspect %s: %v", ErrSchema, d.path, err)
	}
	if n > 0 {
		d.logger.Debug("message schema present", logpkg.Str("path", d.path))
		return nil
	}
	if d.mode == ModeRead {
		return fmt.Errorf("%w: %s holds no message schema and is read-only", ErrSchema, d.path)
	}

	ddl := schemaSQL
	if schemaPath != "" {
		b, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("%w: read %s: %v", ErrSchema, schemaPath, err)
		}
		ddl = string(b)
	}
	if _, err := d.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	d.logger.Debug("message schema created",
		logpkg.Str("path", d.path), logpkg.Str("version", SchemaVersion))
	return nil
}
