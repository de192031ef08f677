// Package database opens and migrates the SQLite store backing the
// configuration tree.
//
// The service keeps the whole DICOM configuration in a single SQLite
// file. WAL mode lets the editor read while imports write, the busy
// timeout absorbs short lock contention, and the pool is pinned to one
// connection to match SQLite's single-writer model.
//
// Migrations are embedded SQL files registered through MigrationsFS,
// applied in filename order with one transaction per migration. The
// config_nodes table is created STRICT so document payloads stay TEXT.
//
// Typical startup:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
