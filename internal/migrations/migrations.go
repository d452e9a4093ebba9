// Package migrations embeds the goose migrations of every supported
// dialect. Each dialect lives in its own directory (sqlite, postgres, mysql)
// and is selected by the repository manager.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var Migrations embed.FS
