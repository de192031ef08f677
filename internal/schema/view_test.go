package schema

import (
	"reflect"
	"testing"
)

func TestGroups(t *testing.T) {
	node := ObjectOf("Device",
		Prop{"a", &Node{Types: []string{"string"}, UIGroup: "Logging"}},
		Prop{"b", &Node{Types: []string{"string"}, UIGroup: "General"}},
		Prop{"c", &Node{Types: []string{"string"}}},
		Prop{"d", &Node{Types: []string{"string"}, UIGroup: "Custom"}},
		Prop{"e", &Node{Types: []string{"string"}, UIGroup: "General"}},
	)

	got := Groups(node, nil)
	// Canonical order first (General before Logging), unknown groups after.
	want := []string{"General", "Logging", "Custom"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Groups() = %v, want %v", got, want)
	}
}

func TestGroupsExcludeProps(t *testing.T) {
	node := ObjectOf("Device",
		Prop{"a", &Node{Types: []string{"string"}, UIGroup: "General"}},
		Prop{"b", &Node{Types: []string{"string"}, UIGroup: "Logging"}},
	)

	got := Groups(node, &ViewOptions{ExcludeProps: []string{"b"}})
	want := []string{"General"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Groups() = %v, want %v", got, want)
	}
}

func TestGroupsShowHide(t *testing.T) {
	node := ObjectOf("Device",
		Prop{"a", &Node{Types: []string{"string"}, UIGroup: "General"}},
		Prop{"b", &Node{Types: []string{"string"}, UIGroup: "Endpoints"}},
		Prop{"c", &Node{Types: []string{"string"}, UIGroup: "Logging"}},
	)

	got := Groups(node, &ViewOptions{ShowGroups: []string{"General", "Logging"}})
	if want := []string{"General", "Logging"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Groups(show) = %v, want %v", got, want)
	}

	got = Groups(node, &ViewOptions{HideGroups: []string{"Endpoints"}})
	if want := []string{"General", "Logging"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Groups(hide) = %v, want %v", got, want)
	}
}

func TestSortProperties(t *testing.T) {
	scalar := &Node{Types: []string{"string"}}
	object := ObjectOf("Inner", Prop{"cn", scalar})

	node := ObjectOf("Device",
		Prop{"zScalar", scalar},
		Prop{"objMap", MapOf(object)},
		Prop{"plainObj", object},
		Prop{"objArray", ArrayOf(object)},
		Prop{"strArray", ArrayOf(scalar)},
		Prop{"strMap", MapOf(scalar)},
		Prop{"aScalar", scalar},
		Prop{UUIDProperty, scalar},
	)
	got := SortProperties(node, node.PropertyNames())
	want := []string{
		UUIDProperty, // bookkeeping first
		"aScalar", "strArray", "strMap", "zScalar", // rank 2 by name
		"plainObj", // plain objects
		"objArray", // arrays of objects
		"objMap",   // object maps last
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortProperties() = %v, want %v", got, want)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		schema *Node
		want   string
	}{
		{
			name:   "cn wins",
			value:  map[string]any{"cn": "DCM4CHEE", "systemName": "other"},
			schema: ObjectOf("X", Prop{"cn", &Node{}}, Prop{"systemName", &Node{}}),
			want:   "DCM4CHEE",
		},
		{
			name:   "systemName fallback",
			value:  map[string]any{"systemName": "sys1"},
			schema: ObjectOf("X", Prop{"systemName", &Node{}}),
			want:   "sys1",
		},
		{
			name:   "affinity domain name",
			value:  map[string]any{"affinityDomainName": "AD"},
			schema: ObjectOf("X", Prop{"affinityDomainName", &Node{}}),
			want:   "AD",
		},
		{
			name:   "home community id",
			value:  map[string]any{"homeCommunityID": "1.2.3"},
			schema: ObjectOf("X", Prop{"homeCommunityID", &Node{}}),
			want:   "1.2.3",
		},
		{
			name:   "json fallback truncated to 20 chars",
			value:  map[string]any{"x": "a long long long value"},
			schema: ObjectOf("X", Prop{"x", &Node{}}),
			want:   `{"x":"a long long lo`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Label(tt.value, tt.schema)
			if got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTooltip(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{
			name: "description only",
			node: &Node{Description: "TCP port"},
			want: "TCP port",
		},
		{
			name: "default only",
			node: &Node{Default: float64(104)},
			want: "Default: 104",
		},
		{
			name: "both",
			node: &Node{Description: "TCP port", Default: float64(104)},
			want: "TCP port\nDefault: 104",
		},
		{
			name: "neither",
			node: &Node{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tooltip(tt.node); got != tt.want {
				t.Errorf("Tooltip() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnumChoices(t *testing.T) {
	node := &Node{
		Types: []string{"string"},
		Enum:  []any{"ON", "OFF"},
	}

	got := EnumChoices(node)
	want := []Choice{{Value: "ON", Label: "ON"}, {Value: "OFF", Label: "OFF"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EnumChoices() = %#v, want %#v", got, want)
	}
}

func TestEnumChoicesOrdinal(t *testing.T) {
	node := &Node{
		Types:              []string{"integer"},
		Enum:               []any{float64(0), float64(1)},
		EnumStrValues:      []string{"DISABLED", "ENABLED"},
		EnumRepresentation: "ORDINAL",
	}

	got := EnumChoices(node)
	want := []Choice{
		{Value: float64(0), Label: "DISABLED"},
		{Value: float64(1), Label: "ENABLED"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EnumChoices() = %#v, want %#v", got, want)
	}
}

func TestEnumChoicesNullable(t *testing.T) {
	node := &Node{
		Types: []string{"string", "null"},
		Enum:  []any{"A"},
	}

	got := EnumChoices(node)
	if len(got) != 2 {
		t.Fatalf("EnumChoices() returned %d choices, want 2", len(got))
	}
	if got[0].Value != nil || got[0].Label != "- none -" {
		t.Errorf("nullable enum first choice = %#v, want nil/- none -", got[0])
	}
}

func TestPrimaryVisibility(t *testing.T) {
	tagged := ObjectOf("Device",
		Prop{"a", &Node{Types: []string{"string"}, Tags: []string{TagPrimary}}},
		Prop{"b", &Node{Types: []string{"string"}}},
	)
	untagged := ObjectOf("Device",
		Prop{"a", &Node{Types: []string{"string"}}},
	)

	if !HasPrimary(tagged) {
		t.Error("HasPrimary(tagged) = false, want true")
	}
	if HasPrimary(untagged) {
		t.Error("HasPrimary(untagged) = true, want false")
	}

	got := PrimaryOnly(tagged, tagged.PropertyNames(), false)
	if want := []string{"a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PrimaryOnly() = %v, want %v", got, want)
	}

	got = PrimaryOnly(tagged, tagged.PropertyNames(), true)
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PrimaryOnly(showAll) = %v, want %v", got, want)
	}
}
