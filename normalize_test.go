package rdaptastic

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func mustRecord(doc string) *RawRecord {
	r, err := ParseRawRecord([]byte(doc))
	Expect(err).ToNot(HaveOccurred())
	return r
}

func adrCard(params, value string) string {
	return `{"entities":[{"roles":["registrant"],"vcardArray":["vcard",[["adr",` + params + `,"text",` + value + `]]]}]}`
}

var _ = Describe("Normalize", func() {
	Describe("an empty record", func() {
		It("keeps every member with null defaults", func() {
			b, err := json.Marshal(Normalize(mustRecord(`{}`), nil))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(b)).To(Equal(`{"status":null,` +
				`"registrar":{"name":null,"abuse":{"email":null,"phone":null}},` +
				`"registrant":{"kind":null,"name":null,"organization":null,"address":null,"country":null,"contact_uri":null},` +
				`"dates":{"registered":null,"expires":null,"updated":null},` +
				`"nameservers":[],"asn":null,"dnssec":false}`))
		})
	})

	Describe("dates", func() {
		It("are null when events are absent", func() {
			Expect(Normalize(mustRecord(`{"status":["active"]}`), nil).Dates).To(Equal(Dates{}))
		})
		It("are null when events are not an array", func() {
			Expect(Normalize(mustRecord(`{"events":{"eventAction":"registration"}}`), nil).Dates).To(Equal(Dates{}))
		})
		It("take the first event of each action", func() {
			d := Normalize(mustRecord(`{"events":[
				{"eventAction":"last changed","eventDate":"2024-01-01T00:00:00Z"},
				{"eventAction":"registration","eventDate":"2000-01-01T00:00:00Z"},
				{"eventAction":"registration","eventDate":"2001-01-01T00:00:00Z"},
				{"eventAction":"last update of RDAP database","eventDate":"2026-01-01T00:00:00Z"}
			]}`), nil).Dates
			Expect(*d.Registered).To(Equal("2000-01-01T00:00:00Z"))
			Expect(*d.Updated).To(Equal("2024-01-01T00:00:00Z"))
			Expect(d.Expires).To(BeNil())
		})
	})

	Describe("registrar", func() {
		It("strips mailto: and tel: from the abuse contact", func() {
			r := Normalize(mustRecord(`{"entities":[{"roles":["technical","registrar"],
				"vcardArray":["vcard",[["fn",{},"text","Reg"]]],
				"entities":[{"roles":["abuse"],"vcardArray":["vcard",[
					["tel",{},"uri","tel:+1.555"],["email",{},"text","mailto:abuse@example.com"]]]}]}]}`), nil).Registrar
			Expect(*r.Name).To(Equal("Reg"))
			Expect(*r.Abuse.Email).To(Equal("abuse@example.com"))
			Expect(*r.Abuse.Phone).To(Equal("+1.555"))
		})
		It("yields a null abuse contact when none is nested", func() {
			r := Normalize(mustRecord(`{"entities":[{"roles":["registrar"],"vcardArray":["vcard",[["fn",{},"text","Reg"]]]}]}`), nil).Registrar
			Expect(r.Abuse).To(Equal(AbuseContact{}))
		})
		It("maps an empty abuse email to null", func() {
			r := Normalize(mustRecord(`{"entities":[{"roles":["registrar"],"entities":[{"roles":["abuse"],
				"vcardArray":["vcard",[["email",{},"text","mailto:"]]]}]}]}`), nil).Registrar
			Expect(r.Abuse.Email).To(BeNil())
		})
		It("does not look for abuse contacts at the top level", func() {
			r := Normalize(mustRecord(`{"entities":[{"roles":["registrar"]},
				{"roles":["abuse"],"vcardArray":["vcard",[["email",{},"text","top@example.com"]]]}]}`), nil).Registrar
			Expect(r.Abuse.Email).To(BeNil())
		})
		It("uses the first registrar entity", func() {
			r := Normalize(mustRecord(`{"entities":[
				{"roles":["registrar"],"vcardArray":["vcard",[["fn",{},"text","First"]]]},
				{"roles":["registrar"],"vcardArray":["vcard",[["fn",{},"text","Second"]]]}]}`), nil).Registrar
			Expect(*r.Name).To(Equal("First"))
		})
	})

	DescribeTable("registrant address",
		func(params, value string, address []string, country *string) {
			r := Normalize(mustRecord(adrCard(params, value)), nil).Registrant
			if address == nil {
				Expect(r.Address).To(BeNil())
			} else {
				Expect(r.Address).To(Equal(address))
			}
			if country == nil {
				Expect(r.Country).To(BeNil())
			} else {
				Expect(*r.Country).To(Equal(*country))
			}
		},
		Entry("infers a trailing country code", `{}`, `["", "123 Main St", "US"]`, []string{"123 Main St"}, stringPtr("US")),
		Entry("upper-cases the inferred country", `{}`, `["1 Rue X", "Paris", "fr"]`, []string{"1 Rue X", "Paris"}, stringPtr("FR")),
		Entry("prefers the cc parameter and drops duplicates", `{"cc":"CH"}`, `["Bahnhofstr. 1", "CH", "Zurich", "CH"]`, []string{"Bahnhofstr. 1", "Zurich"}, stringPtr("CH")),
		Entry("upper-cases the cc parameter before removing duplicates", `{"cc":"us"}`, `["1 Main", "US", "us"]`, []string{"1 Main", "us"}, stringPtr("US")),
		Entry("keeps a trailing two-character line when cc is given", `{"cc":"DE"}`, `["Main 1", "NW"]`, []string{"Main 1", "NW"}, stringPtr("DE")),
		Entry("flattens nested street lines", `{}`, `["", "", ["Line 1", "Line 2"], "Town", "", "", ""]`, []string{"Line 1", "Line 2", "Town"}, (*string)(nil)),
		Entry("drops whitespace-only lines", `{}`, `["  ", "\t", "Somewhere"]`, []string{"Somewhere"}, (*string)(nil)),
		Entry("becomes null when only the country remains", `{}`, `["", "", "", "", "", "", "NL"]`, []string(nil), stringPtr("NL")),
	)

	Describe("registrant", func() {
		It("reads kind, name, organization and contact uri", func() {
			r := Normalize(mustRecord(`{"entities":[{"roles":["registrant"],"vcardArray":["vcard",[
				["kind",{},"text","org"],["fn",{},"text","Ops"],["org",{},"text","Example Ltd"],
				["contact-uri",{},"uri","hostmaster@example.com"]]]}]}`), nil).Registrant
			Expect(*r.Kind).To(Equal("org"))
			Expect(*r.Name).To(Equal("Ops"))
			Expect(*r.Organization).To(Equal("Example Ltd"))
			Expect(*r.ContactURI).To(Equal("mailto:hostmaster@example.com"))
		})
		It("leaves uris with a scheme alone", func() {
			r := Normalize(mustRecord(`{"entities":[{"roles":["registrant"],"vcardArray":["vcard",[
				["contact-uri",{},"uri","https://example.com/contact"]]]}]}`), nil).Registrant
			Expect(*r.ContactURI).To(Equal("https://example.com/contact"))
		})
		It("prefers the primary record over the secondary", func() {
			primary := mustRecord(`{"entities":[{"roles":["registrant"],"vcardArray":["vcard",[["fn",{},"text","Primary"]]]}]}`)
			secondary := mustRecord(`{"entities":[{"roles":["registrant"],"vcardArray":["vcard",[["fn",{},"text","Secondary"]]]}]}`)
			Expect(*Normalize(primary, secondary).Registrant.Name).To(Equal("Primary"))
			Expect(*Normalize(mustRecord(`{}`), secondary).Registrant.Name).To(Equal("Secondary"))
		})
	})

	Describe("nameservers, status and dnssec", func() {
		var rec *DomainRecord

		BeforeEach(func() {
			rec = Normalize(mustRecord(`{"status":["active","client delete prohibited"],
				"nameservers":[{"ldhName":"NS1.Example.COM"},{"unicodeName":"x"},{"ldhName":"ns2.example.com"}],
				"secureDNS":{"delegationSigned":true}}`), nil)
		})

		It("lowercases nameservers in order and skips entries without ldhName", func() {
			Expect(rec.Nameservers).To(Equal([]string{"ns1.example.com", "ns2.example.com"}))
		})
		It("passes status through", func() {
			Expect(rec.Status).To(Equal([]string{"active", "client delete prohibited"}))
		})
		It("reads the delegation-signed flag", func() {
			Expect(rec.DNSSEC).To(BeTrue())
		})
	})

	It("is deterministic", func() {
		doc := adrCard(`{}`, `["", "123 Main St", "US"]`)
		a, _ := json.Marshal(Normalize(mustRecord(doc), nil))
		b, _ := json.Marshal(Normalize(mustRecord(doc), nil))
		Expect(a).To(Equal(b))
	})
})

var _ = Describe("ExtractField", func() {
	card := VCard{
		{Name: "version", Value: "4.0"},
		{Name: "FN", Value: "First"},
		{Name: "fn", Value: "Second"},
		{Name: "org", Value: []any{"Example", "", "Unit"}},
	}

	It("returns the first matching property", func() {
		Expect(ExtractField(card, "fn").Text()).To(Equal("First"))
	})
	It("returns nil when absent", func() {
		p := ExtractField(card, "email")
		Expect(p).To(BeNil())
		Expect(p.Text()).To(Equal(""))
		Expect(p.Lines()).To(BeNil())
	})
	It("joins structured values", func() {
		Expect(ExtractField(card, "org").Text()).To(Equal("Example, Unit"))
	})
	It("ignores malformed tuples when parsing", func() {
		vc := parseVCard(mustRecord(`{"v":["vcard",[["fn",{}],"junk",[1,{},"text","x"],["email",{"TYPE":"work"},"text","a@b.c"]]]}`).doc.Get("v"))
		Expect(vc).To(HaveLen(1))
		Expect(vc[0].Name).To(Equal("email"))
		Expect(vc[0].Param("type")).To(Equal("work"))
	})
})

var _ = DescribeTable("NormalizeDomain",
	func(in, want string, ok bool) {
		got, err := NormalizeDomain(in)
		if !ok {
			Expect(err).To(MatchError(ErrInvalidDomain))
			return
		}
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(want))
	},
	Entry("lowercases", "Example.COM", "example.com", true),
	Entry("strips the trailing dot", "example.com.", "example.com", true),
	Entry("reduces to the registrable name", "www.example.co.uk", "example.co.uk", true),
	Entry("converts IDNs", "bücher.de", "xn--bcher-kva.de", true),
	Entry("reduces deep hosts", "a.b.c.d.example.co.uk", "example.co.uk", true),
	Entry("reduces under private suffixes to the ICANN level", "foo.blogspot.com", "blogspot.com", true),
	Entry("treats an unlisted TLD as the suffix", "www.example.zz", "example.zz", true),
	Entry("accepts underscores", "my_site.com", "my_site.com", true),
	Entry("rejects a bare label", "localhost", "", false),
	Entry("rejects a public suffix", "co.uk", "", false),
	Entry("rejects urls", "https://example.com", "", false),
	Entry("rejects empty input", "  ", "", false),
)
