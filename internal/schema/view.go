package schema

import (
	"encoding/json"
	"sort"
)

// TagPrimary marks a property as part of the condensed default view. When
// at least one property of an object carries the tag, only tagged
// properties are shown until the operator reveals the rest.
const TagPrimary = "PRIMARY"

// Identity bookkeeping properties maintained by the configuration store.
// They sort ahead of every regular property.
const (
	UUIDProperty = "#uuid"
	HashProperty = "#hash"
)

// GroupOrder is the canonical ordering of UI groups. Groups not listed
// here are appended after the known ones, in first-seen order.
var GroupOrder = []string{
	"General",
	"Affinity domain",
	"XDS profile strictness",
	"Endpoints",
	"Other",
	"Logging",
}

// ViewOptions scope a rendered subtree: properties to hide entirely and
// group tabs to force-show or force-hide.
type ViewOptions struct {
	ExcludeProps []string
	ShowGroups   []string
	HideGroups   []string
}

// Excluded reports whether the property name is excluded by the options.
func (o *ViewOptions) Excluded(name string) bool {
	if o == nil {
		return false
	}
	for _, p := range o.ExcludeProps {
		if p == name {
			return true
		}
	}
	return false
}

// Groups computes the ordered group tab list for an object node.
//
// The distinct non-empty uiGroup tags of the node's properties (minus any
// excluded property) are ordered against GroupOrder: known groups first in
// canonical order, unknown groups appended in first-seen order. ShowGroups
// then intersects and HideGroups subtracts, when supplied.
func Groups(n *Node, opts *ViewOptions) []string {
	if n == nil {
		return nil
	}

	seen := make(map[string]bool)
	var declared []string
	for _, name := range n.PropertyNames() {
		if opts.Excluded(name) {
			continue
		}
		g := n.Properties[name].UIGroup
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		declared = append(declared, g)
	}

	// Canonical groups first, then the rest in first-seen order.
	ordered := make([]string, 0, len(declared))
	used := make(map[string]bool, len(declared))
	for _, g := range GroupOrder {
		if seen[g] {
			ordered = append(ordered, g)
			used[g] = true
		}
	}
	for _, g := range declared {
		if !used[g] {
			ordered = append(ordered, g)
		}
	}

	if opts != nil && opts.ShowGroups != nil {
		ordered = intersect(ordered, opts.ShowGroups)
	}
	if opts != nil && opts.HideGroups != nil {
		ordered = subtract(ordered, opts.HideGroups)
	}
	return ordered
}

func intersect(a, b []string) []string {
	keep := make(map[string]bool, len(b))
	for _, s := range b {
		keep[s] = true
	}
	var out []string
	for _, s := range a {
		if keep[s] {
			out = append(out, s)
		}
	}
	return out
}

func subtract(a, b []string) []string {
	drop := make(map[string]bool, len(b))
	for _, s := range b {
		drop[s] = true
	}
	var out []string
	for _, s := range a {
		if !drop[s] {
			out = append(out, s)
		}
	}
	return out
}

// SortProperties orders sibling property names so that structurally heavy
// children (nested objects and collections of objects) trail simple
// fields, with store bookkeeping properties first of all. Ties break by
// property name.
func SortProperties(n *Node, names []string) []string {
	if n == nil {
		return names
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.SliceStable(sorted, func(i, j int) bool {
		return propertySortKey(sorted[i], n.Properties[sorted[i]]) <
			propertySortKey(sorted[j], n.Properties[sorted[j]])
	})
	return sorted
}

// propertySortKey builds the composite ordering key for one property.
// Rank buckets: "1" bookkeeping, "2" scalars and scalar collections,
// "3" plain objects, "4" arrays of objects, "5" object maps.
func propertySortKey(name string, child *Node) string {
	if child == nil {
		return "2" + name
	}
	wildcard := child.ValueTemplate()
	switch {
	case child.IsMap() && !wildcard.HasType("object"):
		return "2" + name
	case child.HasType("object") && child.IsMap():
		return "5" + name
	case child.HasType("object"):
		return "3" + name
	case child.HasType("array") && child.Items.HasType("object"):
		return "4" + name
	case child.HasType("array"):
		return "2" + name
	case name == UUIDProperty || name == HashProperty:
		return "1" + name
	default:
		return "2" + name
	}
}

// labelFallbackLimit caps the JSON rendering used when an object declares
// no recognised name property.
const labelFallbackLimit = 20

// labelFields are tried in priority order when deriving an object's
// display label; the first field declared by the schema wins.
var labelFields = []string{"cn", "systemName", "affinityDomainName", "homeCommunityID"}

// Label derives the display label for an object-typed value: the value of
// the first recognised name property declared by the schema, else a
// truncated JSON rendering.
func Label(value any, n *Node) string {
	if n != nil {
		for _, field := range labelFields {
			if _, ok := n.Properties[field]; ok {
				if m, ok := value.(map[string]any); ok {
					if s, ok := m[field].(string); ok {
						return s
					}
				}
				return ""
			}
		}
	}

	rendered, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	if len(rendered) > labelFallbackLimit {
		rendered = rendered[:labelFallbackLimit]
	}
	return string(rendered)
}

// Tooltip synthesizes help text from the schema's description and default.
// Returns the empty string when the node carries neither.
func Tooltip(n *Node) string {
	if n == nil {
		return ""
	}
	text := n.Description
	if n.Default != nil {
		rendered, err := json.Marshal(n.Default)
		if err == nil {
			if text != "" {
				text += "\n"
			}
			text += "Default: " + string(rendered)
		}
	}
	return text
}

// Choice is one selectable enum value with its display label.
type Choice struct {
	Value any
	Label string
}

// noneChoiceLabel is shown for the synthetic null choice of nullable
// enums.
const noneChoiceLabel = "- none -"

// EnumChoices builds the choice list for an enum node. Ordinal
// representation substitutes the parallel string labels; a nullable enum
// gains a synthetic leading "none" choice with a nil value.
func EnumChoices(n *Node) []Choice {
	if n == nil || !n.IsEnum() {
		return nil
	}

	choices := make([]Choice, 0, len(n.Enum)+1)
	for i, v := range n.Enum {
		label := ""
		if n.EnumRepresentation == "ORDINAL" && i < len(n.EnumStrValues) {
			label = n.EnumStrValues[i]
		} else if s, ok := v.(string); ok {
			label = s
		} else {
			rendered, err := json.Marshal(v)
			if err == nil {
				label = string(rendered)
			}
		}
		choices = append(choices, Choice{Value: v, Label: label})
	}

	if n.HasType("null") {
		choices = append([]Choice{{Value: nil, Label: noneChoiceLabel}}, choices...)
	}
	return choices
}

// HasPrimary reports whether any property of the node carries the PRIMARY
// tag. When none does, the condensed view is meaningless and all
// properties are always shown.
func HasPrimary(n *Node) bool {
	if n == nil {
		return false
	}
	for _, child := range n.Properties {
		if child.HasTag(TagPrimary) {
			return true
		}
	}
	return false
}

// PrimaryOnly filters property names down to those tagged PRIMARY. When
// showAll is true the input is returned unchanged.
func PrimaryOnly(n *Node, names []string, showAll bool) []string {
	if showAll || n == nil {
		return names
	}
	var out []string
	for _, name := range names {
		if n.Properties[name].HasTag(TagPrimary) {
			out = append(out, name)
		}
	}
	return out
}
