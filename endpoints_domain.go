package rdaptastic

import (
	"context"

	"github.com/pkg/errors"
)

const rdapAccept = "application/rdap+json, application/json;q=0.8, */*;q=0.1"

// FetchDomain retrieves {base}/domain/{domain}. Any non-200 status is reported as a
// *NotFoundError carrying that status; 429 and 5xx are not told apart from 404.
func (c *Client) FetchDomain(ctx context.Context, base, domain string) (*RawRecord, error) {
	u := mustJoin(base, "/domain/", domain)
	resp, err := c.get(ctx, u, rdapAccept)
	if err != nil {
		return nil, &UpstreamError{Op: OpFetch, URL: u, Err: err}
	}
	if !resp.ok() {
		c.log.WithField("url", u).WithField("status", resp.StatusCode).Debug("rdap domain not found")
		return nil, &NotFoundError{TLD: lastLabel(domain), Domain: domain, StatusCode: resp.StatusCode}
	}
	rec, err := ParseRawRecord(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Op: OpFetch, URL: u, Err: err}
	}
	return rec, nil
}

// secondaryURL returns the href of the record's second top-level link, the registry-side
// RDAP endpoint for the same domain.
func secondaryURL(r *RawRecord) (string, bool) {
	links := r.Links()
	if len(links) < 2 || links[1].Href == "" {
		return "", false
	}
	return links[1].Href, true
}

// fetchSecondary follows the second link of primary. Failures are returned to the caller,
// which logs and discards them.
func (c *Client) fetchSecondary(ctx context.Context, primary *RawRecord) (*RawRecord, error) {
	u, ok := secondaryURL(primary)
	if !ok {
		return nil, nil
	}
	c.log.WithField("url", u).Debug("fetching secondary registry record")
	resp, err := c.get(ctx, u, rdapAccept)
	if err != nil {
		return nil, &UpstreamError{Op: OpSecondary, URL: u, Err: err}
	}
	if !resp.ok() {
		return nil, &UpstreamError{Op: OpSecondary, URL: u, Err: errors.Errorf("unexpected status %s", resp.Status)}
	}
	rec, err := ParseRawRecord(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Op: OpSecondary, URL: u, Err: err}
	}
	return rec, nil
}
