package rdaptastic

import (
	"regexp"
	"strings"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var reDomain = regexp.MustCompile(`^([a-zA-Z0-9-_]{1,63}\.)+[a-zA-Z0-9-]{2,}$`)

// domainProfile is idna.Lookup without STD3 rules, so labels such as "my_site" survive.
var domainProfile = idna.New(
	idna.MapForLookup(),
	idna.StrictDomainName(false),
	idna.BidiRule(),
)

// NormalizeDomain turns user input into the name to query: lowercase ASCII (IDNs converted to
// punycode), no trailing dot, and reduced to the name registered directly under the ICANN
// suffix ("www.example.co.uk" becomes "example.co.uk", "foo.blogspot.com" becomes
// "blogspot.com"). A TLD missing from the suffix list counts as a one-label suffix.
//
// Input that is not a domain, or that is itself a suffix, yields ErrInvalidDomain.
func NormalizeDomain(input string) (string, error) {
	d := strings.TrimSuffix(strings.TrimSpace(input), ".")
	if d == "" {
		return "", errors.WithMessage(ErrInvalidDomain, "empty domain")
	}
	ascii, err := domainProfile.ToASCII(d)
	if err != nil {
		return "", errors.WithMessagef(ErrInvalidDomain, "%q: %v", input, err)
	}
	ascii = strings.ToLower(ascii)
	if !reDomain.MatchString(ascii) {
		return "", errors.WithMessagef(ErrInvalidDomain, "%q", input)
	}
	if _, ok := dns.IsDomainName(dns.Fqdn(ascii)); !ok {
		return "", errors.WithMessagef(ErrInvalidDomain, "%q", input)
	}

	suffix := icannSuffix(ascii)
	if suffix == ascii {
		return "", errors.WithMessagef(ErrInvalidDomain, "%q is a public suffix", input)
	}
	rest := strings.TrimSuffix(ascii, "."+suffix)
	return rest[strings.LastIndexByte(rest, '.')+1:] + "." + suffix, nil
}

// icannSuffix returns the ICANN part of name's public suffix, skipping privately
// registered suffixes such as "blogspot.com".
func icannSuffix(name string) string {
	suffix, icann := publicsuffix.PublicSuffix(name)
	for !icann {
		i := strings.IndexByte(suffix, '.')
		if i < 0 {
			break
		}
		suffix, icann = publicsuffix.PublicSuffix(suffix[i+1:])
	}
	return suffix
}
