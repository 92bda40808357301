package rdaptastic

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// RawRecord is an RDAP response as delivered by an upstream server. Every accessor tolerates
// absent or mistyped members and falls back to the zero value.
type RawRecord struct {
	doc gjson.Result
}

// ParseRawRecord validates that b holds a JSON object and wraps it.
func ParseRawRecord(b []byte) (*RawRecord, error) {
	if !gjson.ValidBytes(b) {
		return nil, errors.New("invalid RDAP JSON")
	}
	doc := gjson.ParseBytes(b)
	if !doc.IsObject() {
		return nil, errors.New("RDAP response is not a JSON object")
	}
	return &RawRecord{doc: doc}, nil
}

// ObjectClassName returns the objectClassName member, or "".
func (r *RawRecord) ObjectClassName() string { return r.doc.Get("objectClassName").String() }

// Status returns the status array, or nil when absent.
func (r *RawRecord) Status() []string {
	st := r.doc.Get("status")
	if !st.IsArray() {
		return nil
	}
	return stringsOf(st)
}

// Entities returns the top-level entities.
func (r *RawRecord) Entities() []Entity { return parseEntities(r.doc.Get("entities")) }

// Events returns the top-level events.
func (r *RawRecord) Events() []Event {
	var out []Event
	eachElem(r.doc.Get("events"), func(ev gjson.Result) {
		if ev.IsObject() {
			out = append(out, Event{
				EventAction: ev.Get("eventAction").String(),
				EventDate:   ev.Get("eventDate").String(),
			})
		}
	})
	return out
}

// Links returns the top-level links.
func (r *RawRecord) Links() []Link {
	var out []Link
	eachElem(r.doc.Get("links"), func(l gjson.Result) {
		out = append(out, Link{
			Value: l.Get("value").String(),
			Rel:   l.Get("rel").String(),
			Href:  l.Get("href").String(),
			Type:  l.Get("type").String(),
		})
	})
	return out
}

// Nameservers returns the nameserver objects in document order.
func (r *RawRecord) Nameservers() []Nameserver {
	var out []Nameserver
	eachElem(r.doc.Get("nameservers"), func(ns gjson.Result) {
		out = append(out, Nameserver{
			LDHName:     ns.Get("ldhName").String(),
			UnicodeName: ns.Get("unicodeName").String(),
		})
	})
	return out
}

// DelegationSigned reads secureDNS.delegationSigned, false when absent.
func (r *RawRecord) DelegationSigned() bool {
	return r.doc.Get("secureDNS.delegationSigned").Bool()
}

// eachElem calls fn for each member of a JSON array and does nothing for any other type.
func eachElem(arr gjson.Result, fn func(gjson.Result)) {
	if !arr.IsArray() {
		return
	}
	for _, v := range arr.Array() {
		fn(v)
	}
}

func parseEntities(arr gjson.Result) []Entity {
	var out []Entity
	eachElem(arr, func(e gjson.Result) {
		if !e.IsObject() {
			return
		}
		out = append(out, Entity{
			Handle:   e.Get("handle").String(),
			Roles:    stringsOf(e.Get("roles")),
			VCard:    parseVCard(e.Get("vcardArray")),
			Entities: parseEntities(e.Get("entities")),
		})
	})
	return out
}

// parseVCard decodes ["vcard", [[name, params, type, value], ...]]. Tuples shorter than four
// members are dropped; a property with several values keeps them all as a []any.
func parseVCard(arr gjson.Result) VCard {
	props := arr.Get("1")
	if !props.IsArray() {
		return nil
	}
	var vc VCard
	eachElem(props, func(p gjson.Result) {
		tuple := p.Array()
		if len(tuple) < 4 || tuple[0].Type != gjson.String {
			return
		}
		vp := VCardProperty{
			Name:   tuple[0].Str,
			Params: parseParams(tuple[1]),
			Type:   tuple[2].String(),
		}
		if len(tuple) == 4 {
			vp.Value = tuple[3].Value()
		} else {
			vals := make([]any, 0, len(tuple)-3)
			for _, v := range tuple[3:] {
				vals = append(vals, v.Value())
			}
			vp.Value = vals
		}
		vc = append(vc, vp)
	})
	return vc
}

func parseParams(obj gjson.Result) map[string][]string {
	if !obj.IsObject() {
		return nil
	}
	m := make(map[string][]string)
	obj.ForEach(func(k, v gjson.Result) bool {
		key := lower(k.String())
		switch {
		case v.IsArray():
			m[key] = stringsOf(v)
		case v.Type == gjson.String:
			m[key] = []string{v.Str}
		}
		return true
	})
	return m
}
