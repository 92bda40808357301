package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/datum-labs/rdaptastic"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func printHeader(w io.Writer, kind, handle string) {
	fmt.Fprintf(w, "\n=== %s: %s ===\n", strings.ToUpper(kind), handle)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func printRecord(w io.Writer, domain string, rec *rdaptastic.DomainRecord) {
	printHeader(w, "domain", domain)
	if len(rec.Status) > 0 {
		fmt.Fprintf(w, "status: %s\n", strings.Join(rec.Status, ", "))
	}
	fmt.Fprintf(w, "dnssec: %v\n", rec.DNSSEC)
	fmt.Fprintf(w, "registered: %s expires: %s updated: %s\n",
		deref(rec.Dates.Registered), deref(rec.Dates.Expires), deref(rec.Dates.Updated))

	printHeader(w, "registrar", deref(rec.Registrar.Name))
	fmt.Fprintf(w, "abuse: %s %s\n", deref(rec.Registrar.Abuse.Email), deref(rec.Registrar.Abuse.Phone))

	r := rec.Registrant
	printHeader(w, "registrant", deref(r.Name))
	fmt.Fprintf(w, "kind: %s organization: %s country: %s\n", deref(r.Kind), deref(r.Organization), deref(r.Country))
	for _, l := range r.Address {
		fmt.Fprintf(w, "  %s\n", l)
	}
	if r.ContactURI != nil {
		fmt.Fprintf(w, "contact: %s\n", *r.ContactURI)
	}

	if len(rec.Nameservers) > 0 {
		fmt.Fprintln(w, "\nnameservers:")
		for _, ns := range rec.Nameservers {
			fmt.Fprintf(w, "  - %s\n", ns)
		}
	}
	if rec.ASN != nil {
		fmt.Fprintln(w, "\nasn:")
		for _, a := range rec.ASN {
			if a.Failed() {
				fmt.Fprintf(w, "  - %s (error: %s)\n", a.Nameserver, *a.Error)
				continue
			}
			fmt.Fprintf(w, "  - %s %s %s %s (%s)\n", a.Nameserver, deref(a.IP), deref(a.ASN), deref(a.Description), deref(a.Country))
		}
	}
}
