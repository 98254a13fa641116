package aegis

import "embed"

// Migrations holds the versioned schema files shipped inside the binaries.
//
//go:embed migrations/*.sql
var Migrations embed.FS
