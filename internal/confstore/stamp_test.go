package confstore

import "testing"

func TestStampDocumentAssignsUUIDs(t *testing.T) {
	doc := map[string]any{
		"dicomDeviceName": "scanner1",
		"dicomNetworkConnection": []any{
			map[string]any{"cn": "dicom"},
		},
		"deviceExtensions": map[string]any{
			"AuditLogger": map[string]any{"cn": "audit"},
		},
	}

	if err := StampDocument(doc); err != nil {
		t.Fatalf("StampDocument: %v", err)
	}

	if _, ok := doc[UUIDProperty].(string); !ok {
		t.Error("top-level object not stamped with a uuid")
	}
	if _, ok := doc[HashProperty].(string); !ok {
		t.Error("top-level object not stamped with a hash")
	}

	conn := doc["dicomNetworkConnection"].([]any)[0].(map[string]any)
	if _, ok := conn[UUIDProperty].(string); !ok {
		t.Error("array element object not stamped")
	}
	ext := doc["deviceExtensions"].(map[string]any)["AuditLogger"].(map[string]any)
	if _, ok := ext[UUIDProperty].(string); !ok {
		t.Error("nested extension object not stamped")
	}
}

func TestStampDocumentPreservesUUID(t *testing.T) {
	doc := map[string]any{
		UUIDProperty:      "fixed-uuid",
		"dicomDeviceName": "scanner1",
	}

	if err := StampDocument(doc); err != nil {
		t.Fatalf("StampDocument: %v", err)
	}
	if doc[UUIDProperty] != "fixed-uuid" {
		t.Errorf("uuid changed on restamp: %v", doc[UUIDProperty])
	}
}

func TestStampDocumentHashStability(t *testing.T) {
	doc := map[string]any{
		UUIDProperty:      "fixed-uuid",
		"dicomDeviceName": "scanner1",
		"dicomInstalled":  true,
	}

	if err := StampDocument(doc); err != nil {
		t.Fatalf("StampDocument: %v", err)
	}
	first := doc[HashProperty]

	// Restamping unchanged content keeps the hash.
	if err := StampDocument(doc); err != nil {
		t.Fatalf("restamp: %v", err)
	}
	if doc[HashProperty] != first {
		t.Error("hash changed although content did not")
	}

	// Changing content changes the hash.
	doc["dicomInstalled"] = false
	if err := StampDocument(doc); err != nil {
		t.Fatalf("restamp after edit: %v", err)
	}
	if doc[HashProperty] == first {
		t.Error("hash unchanged after content edit")
	}
}

func TestStampDocumentParentHashCoversChildren(t *testing.T) {
	build := func(port any) map[string]any {
		return map[string]any{
			UUIDProperty: "parent-uuid",
			"dicomNetworkConnection": []any{
				map[string]any{UUIDProperty: "child-uuid", "dicomPort": port},
			},
		}
	}

	a := build(float64(104))
	b := build(float64(11112))
	if err := StampDocument(a); err != nil {
		t.Fatalf("StampDocument: %v", err)
	}
	if err := StampDocument(b); err != nil {
		t.Fatalf("StampDocument: %v", err)
	}

	if a[HashProperty] == b[HashProperty] {
		t.Error("parent hash identical despite differing child content")
	}
}
