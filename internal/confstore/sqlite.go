package confstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore implements Store using SQLite. Documents are stored as
// JSON text, one row per configuration node, keyed by path.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed configuration store.
// The db parameter should be an open SQLite connection with the
// config_nodes table migrated.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetNode retrieves the configuration document at a path.
func (s *SQLiteStore) GetNode(ctx context.Context, path string) (map[string]any, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT document FROM config_nodes WHERE path = ?", path,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, path)
		}
		return nil, fmt.Errorf("querying node: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding node %s: %v", ErrInvalidDocument, path, err)
	}
	return doc, nil
}

// PersistNode stores a configuration document at a path, stamping its
// bookkeeping properties first.
func (s *SQLiteStore) PersistNode(ctx context.Context, path string, doc map[string]any) (map[string]any, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}

	if err := StampDocument(doc); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding node %s: %v", ErrInvalidDocument, path, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO config_nodes (path, parent_path, uuid, document, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			uuid = excluded.uuid,
			document = excluded.document,
			updated_at = excluded.updated_at`,
		path,
		ParentPath(path),
		documentUUID(doc),
		string(raw),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("persisting node %s: %w", path, err)
	}
	return doc, nil
}

// RemoveNode deletes the node at a path and all of its descendants.
func (s *SQLiteStore) RemoveNode(ctx context.Context, path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM config_nodes WHERE path = ? OR path LIKE ? || '/%'",
		path, path,
	)
	if err != nil {
		return fmt.Errorf("removing node %s: %w", path, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking removal of %s: %w", path, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, path)
	}
	return nil
}

// ListDevices returns the name and UUID of every configured device.
func (s *SQLiteStore) ListDevices(ctx context.Context) ([]DeviceEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, uuid FROM config_nodes WHERE parent_path = ? ORDER BY path",
		DevicesRoot,
	)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var entries []DeviceEntry
	for rows.Next() {
		var path, id string
		if err := rows.Scan(&path, &id); err != nil {
			return nil, fmt.Errorf("scanning device row: %w", err)
		}
		name := DeviceNameFromPath(path)
		if name == "" {
			continue
		}
		entries = append(entries, DeviceEntry{DeviceName: name, DeviceUUID: id})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return entries, nil
}

// PathByUUID resolves a node UUID to its configuration path.
func (s *SQLiteStore) PathByUUID(ctx context.Context, id string) (string, error) {
	var path string
	err := s.db.QueryRowContext(ctx,
		"SELECT path FROM config_nodes WHERE uuid = ?", id,
	).Scan(&path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrUUIDNotFound, id)
		}
		return "", fmt.Errorf("querying path by uuid: %w", err)
	}
	return path, nil
}

// ExportFull assembles the entire configuration tree into one nested
// document. Each stored node's document is placed at the position its
// path segments describe.
func (s *SQLiteStore) ExportFull(ctx context.Context) (map[string]any, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, document FROM config_nodes ORDER BY path",
	)
	if err != nil {
		return nil, fmt.Errorf("querying nodes for export: %w", err)
	}
	defer rows.Close()

	tree := map[string]any{}
	for rows.Next() {
		var path, raw string
		if err := rows.Scan(&path, &raw); err != nil {
			return nil, fmt.Errorf("scanning export row: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("%w: decoding node %s: %v", ErrInvalidDocument, path, err)
		}
		insertAtPath(tree, splitPath(path), doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating export rows: %w", err)
	}
	return tree, nil
}

// ImportFull replaces the entire configuration tree with an
// export-format document. The well-known positions are imported: device
// configurations under the devices root, the transfer capability groups
// and the metadata node. Each imported document is restamped on persist.
func (s *SQLiteStore) ImportFull(ctx context.Context, tree map[string]any) error {
	if tree == nil {
		return fmt.Errorf("%w: nil import tree", ErrInvalidDocument)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM config_nodes"); err != nil {
		return fmt.Errorf("clearing configuration: %w", err)
	}

	if devices, ok := lookupPath(tree, DevicesRoot); ok {
		for name, v := range devices {
			doc, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: device %q is not an object", ErrInvalidDocument, name)
			}
			if _, err := s.PersistNode(ctx, DevicePath(name), doc); err != nil {
				return err
			}
		}
	}

	for _, path := range []string{TransferCapabilitiesPath, MetadataPath} {
		if doc, ok := lookupPath(tree, path); ok {
			if _, err := s.PersistNode(ctx, path, doc); err != nil {
				return err
			}
		}
	}
	return nil
}

// insertAtPath places a document at a segment position inside the nested
// tree, creating intermediate objects as needed.
func insertAtPath(tree map[string]any, segments []string, doc map[string]any) {
	cur := tree
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segments[len(segments)-1]] = doc
}

// lookupPath descends the nested tree along a configuration path.
func lookupPath(tree map[string]any, path string) (map[string]any, bool) {
	cur := tree
	for _, seg := range splitPath(path) {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
