package schema

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want Kind
	}{
		{
			name: "nil node",
			node: nil,
			want: KindInvalid,
		},
		{
			name: "boolean",
			node: &Node{Types: []string{"boolean"}},
			want: KindBoolean,
		},
		{
			name: "string",
			node: &Node{Types: []string{"string"}},
			want: KindString,
		},
		{
			name: "nullable string",
			node: &Node{Types: []string{"string", "null"}},
			want: KindString,
		},
		{
			name: "integer",
			node: &Node{Types: []string{"integer"}},
			want: KindInteger,
		},
		{
			name: "enum facet wins over declared type",
			node: &Node{Types: []string{"string"}, Enum: []any{"A", "B"}},
			want: KindEnum,
		},
		{
			name: "enum declared as type",
			node: &Node{Types: []string{"enum"}},
			want: KindEnum,
		},
		{
			name: "map class wins over object type",
			node: &Node{Types: []string{"object"}, Class: ClassMap},
			want: KindMap,
		},
		{
			name: "array",
			node: &Node{Types: []string{"array"}, Items: &Node{Types: []string{"string"}}},
			want: KindArray,
		},
		{
			name: "object",
			node: &Node{Types: []string{"object"}, Class: "Device"},
			want: KindObject,
		},
		{
			name: "no recognised type",
			node: &Node{},
			want: KindInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.node)
			if got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}

			// Classification is idempotent and side-effect-free.
			if again := Classify(tt.node); again != got {
				t.Errorf("Classify() second call = %v, first = %v", again, got)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBoolean, "boolean"},
		{KindString, "string"},
		{KindInteger, "integer"},
		{KindEnum, "enum"},
		{KindArray, "array"},
		{KindMap, "map"},
		{KindObject, "object"},
		{KindInvalid, "invalid"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
