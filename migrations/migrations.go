// Package migrations embeds the versioned schema migrations so the binary
// never depends on files shipped next to it.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// SQLite returns the sqlite migration files as a flat fs.FS rooted at the
// directory containing the NNN_name.sql files.
func SQLite() fs.FS {
	sub, err := fs.Sub(sqliteFS, "sqlite")
	if err != nil {
		// The subdirectory is embedded at compile time; this cannot fail.
		panic(err)
	}
	return sub
}
