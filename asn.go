package rdaptastic

import (
	"context"
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"sync"
	"unicode"

	"github.com/miekg/dns"
	"github.com/tidwall/gjson"
)

const unknownASN = "Unknown"

// EnrichNameservers resolves every nameserver to an IPv4 address and looks up the network that
// owns it. All nameservers are processed concurrently; the result has the same length and order
// as the input, and a failure for one nameserver is recorded in its own entry only.
func (c *Client) EnrichNameservers(ctx context.Context, nameservers []string) []ASNInfo {
	results := make([]ASNInfo, len(nameservers))
	var wg sync.WaitGroup
	for i, ns := range nameservers {
		wg.Add(1)
		go func(i int, ns string) {
			defer wg.Done()
			results[i] = c.enrichNameserver(ctx, ns)
		}(i, ns)
	}
	wg.Wait()
	return results
}

func (c *Client) enrichNameserver(ctx context.Context, ns string) ASNInfo {
	ip, err := c.resolveA(ctx, ns)
	if err == nil {
		var org, country string
		org, country, err = c.lookupNetwork(ctx, ip)
		if err == nil {
			asn, desc := splitOrg(org)
			return ASNInfo{
				Nameserver:  ns,
				IP:          &ip,
				ASN:         &asn,
				Description: &desc,
				Country:     stringPtr(country),
			}
		}
	}
	c.log.WithField("nameserver", ns).WithError(err).Debug("asn enrichment failed")
	msg := err.Error()
	return ASNInfo{Nameserver: ns, Error: &msg}
}

// resolveA asks the DNS-over-HTTPS endpoint for ns's A record and returns the first IPv4
// address in the answer section. This is not simply the first answer: records of another
// type (the CNAME chain a resolver puts ahead of the A record) are skipped, as are answers
// whose data is not an IPv4 address.
func (c *Client) resolveA(ctx context.Context, ns string) (string, error) {
	q := url.Values{}
	q.Set("name", ns)
	q.Set("type", dns.TypeToString[dns.TypeA])
	u := c.dohURL + "?" + q.Encode()

	resp, err := c.get(ctx, u, "application/dns-json")
	if err != nil {
		return "", &ResolutionError{Nameserver: ns, Reason: err.Error()}
	}
	if !resp.ok() {
		return "", &ResolutionError{Nameserver: ns, Reason: resp.Status}
	}
	if !gjson.ValidBytes(resp.Body) {
		return "", &ResolutionError{Nameserver: ns, Reason: "invalid DNS JSON response"}
	}
	doc := gjson.ParseBytes(resp.Body)
	if rcode := int(doc.Get("Status").Int()); rcode != dns.RcodeSuccess {
		return "", &ResolutionError{Nameserver: ns, Reason: rcodeName(rcode)}
	}

	var ip string
	eachElem(doc.Get("Answer"), func(ans gjson.Result) {
		if ip != "" {
			return
		}
		if t := ans.Get("type"); t.Exists() && uint16(t.Uint()) != dns.TypeA {
			return
		}
		if a, err := netip.ParseAddr(ans.Get("data").String()); err == nil && a.Is4() {
			ip = a.String()
		}
	})
	if ip == "" {
		return "", &ResolutionError{Nameserver: ns, Reason: "no IP found in answer"}
	}
	return ip, nil
}

func rcodeName(rcode int) string {
	if s, ok := dns.RcodeToString[rcode]; ok {
		return s
	}
	return fmt.Sprintf("RCODE%d", rcode)
}

// lookupNetwork queries {ipinfo}/{ip}/json for the owning organization and country.
func (c *Client) lookupNetwork(ctx context.Context, ip string) (org, country string, err error) {
	u := mustJoin(c.ipinfoURL, "/"+ip, "json")
	resp, err := c.get(ctx, u, "application/json")
	if err != nil {
		return "", "", &LookupError{IP: ip, Reason: err.Error()}
	}
	if !resp.ok() {
		return "", "", &LookupError{IP: ip, Reason: resp.Status}
	}
	if !gjson.ValidBytes(resp.Body) {
		return "", "", &LookupError{IP: ip, Reason: "invalid JSON response"}
	}
	doc := gjson.ParseBytes(resp.Body)
	return doc.Get("org").String(), doc.Get("country").String(), nil
}

// splitOrg splits "AS13335 Cloudflare, Inc." into the ASN token and its description.
func splitOrg(org string) (asn, description string) {
	org = strings.TrimSpace(org)
	if org == "" {
		return unknownASN, unknownASN
	}
	i := strings.IndexFunc(org, unicode.IsSpace)
	if i < 0 {
		return org, ""
	}
	return org[:i], strings.TrimLeftFunc(org[i:], unicode.IsSpace)
}
