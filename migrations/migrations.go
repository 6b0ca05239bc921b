// Package migrations embeds the users schema in golang-migrate layout, one
// directory per dialect. cmd/migrate applies it; tests read the up scripts
// directly. The API server never runs migrations.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sqlite3/*.sql postgres/*.sql mysql/*.sql
var files embed.FS

// Source returns the migration files for dialect ("sqlite3", "postgres" or
// "mysql") rooted at the dialect directory, ready for source/iofs.
func Source(dialect string) (fs.FS, error) {
	if _, err := fs.Stat(files, dialect); err != nil {
		return nil, fmt.Errorf("migrations: no migrations for dialect %q", dialect)
	}
	return fs.Sub(files, dialect)
}

// UpSQL concatenates every up migration for dialect in version order.
func UpSQL(dialect string) (string, error) {
	src, err := Source(dialect)
	if err != nil {
		return "", err
	}
	names, err := fs.Glob(src, "*.up.sql")
	if err != nil {
		return "", err
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		b, err := fs.ReadFile(src, name)
		if err != nil {
			return "", fmt.Errorf("migrations: read %s: %w", name, err)
		}
		sb.Write(b)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
