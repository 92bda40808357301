package rdaptastic

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reEmail  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)
)

const (
	eventRegistration = "registration"
	eventExpiration   = "expiration"
	eventLastChanged  = "last changed"
)

// Normalize builds the DomainRecord for primary. Registrant data is read from primary when it
// has a registrant entity, otherwise from secondary (which may be nil). ASN is left nil.
//
// Normalize is pure: the same inputs always produce an identical record.
func Normalize(primary, secondary *RawRecord) *DomainRecord {
	rec := &DomainRecord{
		Status:      primary.Status(),
		Registrar:   normalizeRegistrar(primary.Entities()),
		Dates:       normalizeDates(primary.Events()),
		Nameservers: normalizeNameservers(primary.Nameservers()),
		DNSSEC:      primary.DelegationSigned(),
	}

	if ent, ok := findByRole(primary.Entities(), "registrant"); ok {
		rec.Registrant = normalizeRegistrant(ent)
	} else if secondary != nil {
		if ent, ok := findByRole(secondary.Entities(), "registrant"); ok {
			rec.Registrant = normalizeRegistrant(ent)
		}
	}
	return rec
}

// HasRegistrant reports whether the record carries a registrant entity at the top level.
func (r *RawRecord) HasRegistrant() bool {
	_, ok := findByRole(r.Entities(), "registrant")
	return ok
}

func normalizeRegistrar(entities []Entity) Registrar {
	var out Registrar
	reg, ok := findByRole(entities, "registrar")
	if !ok {
		return out
	}
	out.Name = stringPtr(ExtractField(reg.VCard, "fn").Text())

	abuse, ok := findByRole(reg.Entities, "abuse")
	if !ok {
		return out
	}
	email := strings.TrimPrefix(ExtractField(abuse.VCard, "email").Text(), "mailto:")
	phone := strings.TrimPrefix(ExtractField(abuse.VCard, "tel").Text(), "tel:")
	out.Abuse = AbuseContact{Email: stringPtr(email), Phone: stringPtr(phone)}
	return out
}

func normalizeRegistrant(ent Entity) Registrant {
	out := Registrant{
		Kind:         stringPtr(ExtractField(ent.VCard, "kind").Text()),
		Name:         stringPtr(ExtractField(ent.VCard, "fn").Text()),
		Organization: stringPtr(ExtractField(ent.VCard, "org").Text()),
	}
	address, country := normalizeAddress(ExtractField(ent.VCard, "adr"))
	out.Address = address
	out.Country = stringPtr(country)

	uri := ExtractField(ent.VCard, "contact-uri").Text()
	if reEmail.MatchString(uri) && !reScheme.MatchString(uri) {
		uri = "mailto:" + uri
	}
	out.ContactURI = stringPtr(uri)
	return out
}

// normalizeAddress turns an adr property into address lines and a country code. Blank lines
// are dropped. The country comes from the cc parameter, or else from a trailing two-character
// line, and is upper-cased either way. Lines equal to the country are removed, and an empty
// result is nil.
func normalizeAddress(adr *VCardProperty) ([]string, string) {
	if adr == nil {
		return nil, ""
	}
	country := strings.ToUpper(strings.TrimSpace(adr.Param("cc")))
	lines := nonBlank(adr.Lines())

	if country == "" && len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if utf8.RuneCountInString(last) == 2 {
			country = strings.ToUpper(last)
			lines = lines[:len(lines)-1]
		}
	}
	if country != "" {
		kept := lines[:0:0]
		for _, l := range lines {
			if l != country {
				kept = append(kept, l)
			}
		}
		lines = kept
	}
	if len(lines) == 0 {
		return nil, country
	}
	return lines, country
}

func normalizeDates(events []Event) Dates {
	find := func(action string) *string {
		ev, ok := firstMatch(events, func(e Event) bool { return e.EventAction == action })
		if !ok {
			return nil
		}
		return stringPtr(ev.EventDate)
	}
	return Dates{
		Registered: find(eventRegistration),
		Expires:    find(eventExpiration),
		Updated:    find(eventLastChanged),
	}
}

func normalizeNameservers(nss []Nameserver) []string {
	out := make([]string, 0, len(nss))
	for _, ns := range nss {
		if ns.LDHName == "" {
			continue
		}
		out = append(out, lower(ns.LDHName))
	}
	return out
}
