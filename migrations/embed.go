// Package migrations carries the SQL migration files compiled into the
// binary, so a deployment needs no migrations directory on disk.
package migrations

import (
	"embed"

	"github.com/dcmnet/dicom-conf-core/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

func init() {
	database.MigrationsFS = files
	database.MigrationsDir = "."
}
