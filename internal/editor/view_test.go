package editor

import (
	"errors"
	"testing"

	"github.com/dcmnet/dicom-conf-core/internal/schema"
)

func TestBuildViewRequiresSchema(t *testing.T) {
	if _, err := BuildView("x", nil, ViewConfig{}); !errors.Is(err, ErrNoSchema) {
		t.Errorf("got %v, want ErrNoSchema", err)
	}
}

func TestBuildViewObject(t *testing.T) {
	n := schema.ObjectOf("Device",
		schema.Prop{Name: "dicomDeviceName", Node: &schema.Node{
			Types: []string{"string"}, UIGroup: "General", Tags: []string{"PRIMARY"},
		}},
		schema.Prop{Name: "dicomInstalled", Node: &schema.Node{
			Types: []string{"boolean"}, UIGroup: "Other",
		}},
	)
	value := map[string]any{"dicomDeviceName": "scanner1", "dicomInstalled": true}

	view, err := BuildView(value, n, ViewConfig{})
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}

	if view.Kind != schema.KindObject {
		t.Errorf("Kind = %v, want object", view.Kind)
	}
	if !view.ShowAllTogglable {
		t.Error("schema with PRIMARY tag should be togglable")
	}
	if view.ShowingAllProps {
		t.Error("togglable view should default to the condensed property set")
	}
	if view.ExtensionProperty != "deviceExtensions" {
		t.Errorf("ExtensionProperty = %q, want deviceExtensions", view.ExtensionProperty)
	}
	if len(view.Groups) != 2 || view.Groups[0] != "General" || view.Groups[1] != "Other" {
		t.Errorf("Groups = %v, want [General Other]", view.Groups)
	}

	// Condensed: only the PRIMARY property is visible.
	if len(view.Properties) != 1 || view.Properties[0].Name != "dicomDeviceName" {
		t.Fatalf("condensed properties = %v", propNames(view))
	}
	if !view.Properties[0].Primary {
		t.Error("PRIMARY property not flagged")
	}
	if view.Properties[0].View.Value != "scanner1" {
		t.Errorf("child value = %v", view.Properties[0].View.Value)
	}

	// Expanded: everything visible.
	view, err = BuildView(value, n, ViewConfig{ShowAllProps: true})
	if err != nil {
		t.Fatalf("BuildView expanded: %v", err)
	}
	if len(view.Properties) != 2 {
		t.Errorf("expanded properties = %v", propNames(view))
	}
}

func TestBuildViewUntaggedSchemaShowsEverything(t *testing.T) {
	n := schema.ObjectOf("Connection",
		schema.Prop{Name: "cn", Node: &schema.Node{Types: []string{"string"}}},
		schema.Prop{Name: "dicomPort", Node: &schema.Node{Types: []string{"integer"}}},
	)
	view, err := BuildView(map[string]any{}, n, ViewConfig{})
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	if view.ShowAllTogglable {
		t.Error("untagged schema should not offer the toggle")
	}
	if !view.ShowingAllProps {
		t.Error("untagged schema should show all properties")
	}
	if len(view.Properties) != 2 {
		t.Errorf("properties = %v", propNames(view))
	}
}

func TestBuildViewExcludesProperties(t *testing.T) {
	n := schema.ObjectOf("Device",
		schema.Prop{Name: "dicomDeviceName", Node: &schema.Node{Types: []string{"string"}}},
		schema.Prop{Name: "internalField", Node: &schema.Node{Types: []string{"string"}}},
	)
	view, err := BuildView(map[string]any{}, n, ViewConfig{
		Options: &schema.ViewOptions{ExcludeProps: []string{"internalField"}},
	})
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	if len(view.Properties) != 1 || view.Properties[0].Name != "dicomDeviceName" {
		t.Errorf("properties = %v, want [dicomDeviceName]", propNames(view))
	}
}

func TestBuildViewEnum(t *testing.T) {
	n := &schema.Node{
		Types: []string{"string"},
		Enum:  []any{"STRICT", "LENIENT"},
	}
	view, err := BuildView("STRICT", n, ViewConfig{})
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	if view.Kind != schema.KindEnum {
		t.Errorf("Kind = %v, want enum", view.Kind)
	}
	if len(view.Choices) != 2 {
		t.Errorf("Choices = %v", view.Choices)
	}
}

func TestBuildViewArray(t *testing.T) {
	n := schema.ArrayOf(schema.ObjectOf("Connection",
		schema.Prop{Name: "cn", Node: &schema.Node{Types: []string{"string"}}},
	))
	value := []any{
		map[string]any{"cn": "dicom"},
		map[string]any{"cn": "dicom-tls"},
	}

	view, err := BuildView(value, n, ViewConfig{})
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	if view.Empty {
		t.Error("non-empty array flagged empty")
	}
	if len(view.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(view.Entries))
	}
	if view.Entries[0].Key != 0 || view.Entries[1].Key != 1 {
		t.Errorf("entry keys = %v, %v", view.Entries[0].Key, view.Entries[1].Key)
	}
	if view.Entries[1].Label != "dicom-tls" {
		t.Errorf("entry label = %q, want dicom-tls", view.Entries[1].Label)
	}

	empty, err := BuildView([]any{}, n, ViewConfig{})
	if err != nil {
		t.Fatalf("BuildView empty: %v", err)
	}
	if !empty.Empty {
		t.Error("empty array not flagged")
	}
}

func TestBuildViewMapEntriesSorted(t *testing.T) {
	n := schema.MapOf(&schema.Node{Types: []string{"string"}})
	value := map[string]any{"zeta": "z", "alpha": "a", "mid": "m"}

	view, err := BuildView(value, n, ViewConfig{})
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(view.Entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(view.Entries), len(want))
	}
	for i, key := range want {
		if view.Entries[i].Key != key {
			t.Errorf("entry %d key = %v, want %q", i, view.Entries[i].Key, key)
		}
		if view.Entries[i].Label != key {
			t.Errorf("entry %d label = %q, want %q", i, view.Entries[i].Label, key)
		}
	}
}

func propNames(v *NodeView) []string {
	names := make([]string, 0, len(v.Properties))
	for _, p := range v.Properties {
		names = append(names, p.Name)
	}
	return names
}
