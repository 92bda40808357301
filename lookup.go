package rdaptastic

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Lookup resolves the authoritative RDAP server for domain, fetches the record and returns it
// normalized. Nameservers are enriched with ASN data only when enrichASN is set; otherwise
// the ASN member stays nil.
//
// domain is expected to be normalized already (see NormalizeDomain). Errors are
// *NotFoundError or *UpstreamError.
func (c *Client) Lookup(ctx context.Context, domain string, enrichASN bool) (*DomainRecord, error) {
	log := c.log.WithFields(logrus.Fields{"domain": domain, "asn": enrichASN})

	base, err := c.ResolveBase(ctx, lastLabel(domain))
	if err != nil {
		return nil, err
	}
	primary, err := c.FetchDomain(ctx, base, domain)
	if err != nil {
		return nil, err
	}

	var secondary *RawRecord
	if !primary.HasRegistrant() {
		secondary, err = c.fetchSecondary(ctx, primary)
		if err != nil {
			log.WithError(err).Warn("secondary registry fetch failed; registrant left empty")
			secondary = nil
		}
	}

	rec := Normalize(primary, secondary)
	if enrichASN {
		rec.ASN = c.EnrichNameservers(ctx, rec.Nameservers)
	}
	log.WithField("base", base).Debug("domain normalized")
	return rec, nil
}
