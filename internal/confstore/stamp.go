package confstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Bookkeeping property names stamped onto every persisted object.
const (
	// UUIDProperty is a stable object identity, assigned on first persist
	// and never changed afterwards.
	UUIDProperty = "#uuid"

	// HashProperty is a fingerprint of the object's own content, refreshed
	// on every persist. Stale hashes reveal concurrent modification.
	HashProperty = "#hash"
)

// StampDocument walks a configuration document and refreshes its
// bookkeeping properties in place: every object gains a "#uuid" if it has
// none, and its "#hash" is recomputed from the current content.
//
// Nested objects are stamped bottom-up so a parent's hash covers its
// children's final form. Arrays and maps of objects are descended into;
// scalar values are left untouched.
func StampDocument(doc map[string]any) error {
	return stampObject(doc)
}

func stampObject(obj map[string]any) error {
	for _, v := range obj {
		if err := stampValue(v); err != nil {
			return err
		}
	}

	if _, ok := obj[UUIDProperty].(string); !ok {
		obj[UUIDProperty] = uuid.New().String()
	}

	hash, err := contentHash(obj)
	if err != nil {
		return err
	}
	obj[HashProperty] = hash
	return nil
}

func stampValue(v any) error {
	switch val := v.(type) {
	case map[string]any:
		return stampObject(val)
	case []any:
		for _, item := range val {
			if err := stampValue(item); err != nil {
				return err
			}
		}
	}
	return nil
}

// contentHash fingerprints an object's content, excluding its own hash so
// the result is stable across restamps of unchanged content. Objects are
// serialised with sorted keys, which encoding/json guarantees for maps.
func contentHash(obj map[string]any) (string, error) {
	stripped := make(map[string]any, len(obj))
	for k, v := range obj {
		if k == HashProperty {
			continue
		}
		stripped[k] = v
	}

	raw, err := json.Marshal(stripped)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8]), nil
}

// documentUUID returns the top-level "#uuid" of a document, or empty.
func documentUUID(doc map[string]any) string {
	s, _ := doc[UUIDProperty].(string)
	return s
}
