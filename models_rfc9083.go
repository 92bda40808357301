package rdaptastic

// RDAP data structures per RFC 9083, reduced to the members the normalizer reads. They are
// built from untrusted upstream JSON by models_parse.go: any member may be zero.

// Link represents an RDAP link object.
type Link struct {
	Value string
	Rel   string
	Href  string
	Type  string
}

// Event represents an RDAP event object.
type Event struct {
	EventAction string
	EventDate   string
}

// Entity represents the RDAP entity object class. Entities nest: an abuse contact usually
// hangs off the registrar entity.
type Entity struct {
	Handle   string
	Roles    []string
	VCard    VCard
	Entities []Entity
}

// HasRole reports whether the entity carries role (case-insensitive).
func (e Entity) HasRole(role string) bool {
	for _, r := range e.Roles {
		if lower(r) == lower(role) {
			return true
		}
	}
	return false
}

// Nameserver represents the RDAP nameserver object class.
type Nameserver struct {
	LDHName     string
	UnicodeName string
}

// VCard is the jCard (RFC 7095) carried in an entity's vcardArray member.
type VCard []VCardProperty

// VCardProperty is one ["name", {params}, "type", value] tuple of a jCard.
type VCardProperty struct {
	Name   string
	Params map[string][]string
	Type   string
	// Value is the decoded JSON value: string, float64, bool, nil or []any.
	Value any
}
