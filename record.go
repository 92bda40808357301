package rdaptastic

// DomainRecord is the normalized view of an RDAP domain response. Its JSON shape is fixed:
// members the upstream did not populate encode as null (or [] for nameservers), never omitted.
type DomainRecord struct {
	Status      []string   `json:"status"`
	Registrar   Registrar  `json:"registrar"`
	Registrant  Registrant `json:"registrant"`
	Dates       Dates      `json:"dates"`
	Nameservers []string   `json:"nameservers"`
	ASN         []ASNInfo  `json:"asn"`
	DNSSEC      bool       `json:"dnssec"`
}

// Registrar is the sponsoring registrar and its nested abuse contact.
type Registrar struct {
	Name  *string      `json:"name"`
	Abuse AbuseContact `json:"abuse"`
}

// AbuseContact holds the abuse email and phone with their mailto: and tel: schemes removed.
type AbuseContact struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Registrant is the domain holder as published by the registrar or, failing that, the
// registry. Address is nil rather than empty, and Country is an upper-case code.
type Registrant struct {
	Kind         *string  `json:"kind"`
	Name         *string  `json:"name"`
	Organization *string  `json:"organization"`
	Address      []string `json:"address"`
	Country      *string  `json:"country"`
	ContactURI   *string  `json:"contact_uri"`
}

// Dates holds the lifecycle event dates exactly as the upstream reported them.
type Dates struct {
	Registered *string `json:"registered"`
	Expires    *string `json:"expires"`
	Updated    *string `json:"updated"`
}

// ASNInfo is the enrichment result for one nameserver. Either Error is set, or the
// enrichment members are; never both.
type ASNInfo struct {
	Nameserver  string  `json:"nameserver"`
	IP          *string `json:"ip,omitempty"`
	ASN         *string `json:"asn,omitempty"`
	Description *string `json:"description,omitempty"`
	Country     *string `json:"country,omitempty"`
	Error       *string `json:"error,omitempty"`
}

// Failed reports whether enrichment failed for this nameserver.
func (a ASNInfo) Failed() bool { return a.Error != nil }
