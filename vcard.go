package rdaptastic

import "strings"

// ExtractField returns the first property of card named name (case-insensitive), or nil.
// It knows nothing about the role of the entity the card belongs to.
func ExtractField(card VCard, name string) *VCardProperty {
	for i := range card {
		if strings.EqualFold(card[i].Name, name) {
			return &card[i]
		}
	}
	return nil
}

// Text renders the property value as a single string. Structured values (org units, a
// multi-valued property) are joined with ", " after dropping blank members. A nil receiver
// yields "".
func (p *VCardProperty) Text() string {
	if p == nil {
		return ""
	}
	switch v := p.Value.(type) {
	case string:
		return v
	case []any:
		return strings.Join(nonBlank(flatten(v)), ", ")
	}
	return ""
}

// Lines flattens a structured value (adr components, which may themselves be arrays) into an
// ordered list of strings, blanks included.
func (p *VCardProperty) Lines() []string {
	if p == nil {
		return nil
	}
	switch v := p.Value.(type) {
	case string:
		return []string{v}
	case []any:
		return flatten(v)
	}
	return nil
}

// Param returns the first value of parameter key, or "".
func (p *VCardProperty) Param(key string) string {
	if p == nil {
		return ""
	}
	if vs := p.Params[lower(key)]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func flatten(vals []any) []string {
	var out []string
	for _, v := range vals {
		switch x := v.(type) {
		case string:
			out = append(out, x)
		case []any:
			out = append(out, flatten(x)...)
		}
	}
	return out
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// firstMatch returns the first item satisfying pred.
func firstMatch[T any](items []T, pred func(T) bool) (T, bool) {
	for _, it := range items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// findByRole searches one nesting level of entities; nested entities are not descended into.
func findByRole(entities []Entity, role string) (Entity, bool) {
	return firstMatch(entities, func(e Entity) bool { return e.HasRole(role) })
}
