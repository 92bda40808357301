package rdaptastic

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

//go:embed bootstrap_dns.json
var pinnedBootstrapJSON []byte

// pinnedBootstrap is the snapshot of the IANA registry shipped with the binary.
var pinnedBootstrap = mustParsePinned(pinnedBootstrapJSON)

func mustParsePinned(b []byte) map[string]string {
	if !gjson.ValidBytes(b) {
		panic("rdaptastic: embedded bootstrap table is not valid JSON")
	}
	t := make(map[string]string)
	eachService(b, func(tld, base string) bool {
		if _, ok := t[tld]; !ok {
			t[tld] = base
		}
		return true
	})
	return t
}

// eachService walks a bootstrap document ({"services": [[tlds], [urls]], ...]}) in order and
// calls fn with every TLD and the first URL of its entry, trailing slash removed. Malformed
// entries are skipped. Iteration stops when fn returns false.
func eachService(doc []byte, fn func(tld, base string) bool) {
	gjson.GetBytes(doc, "services").ForEach(func(_, svc gjson.Result) bool {
		if !svc.IsArray() {
			return true
		}
		tlds := stringsOf(svc.Get("0"))
		urls := stringsOf(svc.Get("1"))
		if len(urls) == 0 {
			return true
		}
		base := strings.TrimSuffix(urls[0], "/")
		for _, tl := range tlds {
			if !fn(strings.ToLower(tl), base) {
				return false
			}
		}
		return true
	})
}

// ResolveBase returns the RDAP base URL authoritative for tld, without a trailing slash.
// Pinned TLDs are answered without touching the network; everything else goes to the remote
// bootstrap registry.
func (c *Client) ResolveBase(ctx context.Context, tld string) (string, error) {
	tld = strings.ToLower(strings.TrimPrefix(tld, "."))
	if tld == "" {
		return "", &NotFoundError{TLD: tld}
	}
	if base, ok := c.bases.Get(tld); ok {
		c.log.WithField("tld", tld).Debug("bootstrap cache hit")
		return base, nil
	}
	return c.fetchBootstrap(ctx, tld)
}

// fetchBootstrap downloads the remote registry, remembers every TLD it lists and returns the
// base for the first entry containing tld.
func (c *Client) fetchBootstrap(ctx context.Context, tld string) (string, error) {
	log := c.log.WithField("tld", tld).WithField("url", c.bootstrapURL)
	log.Debug("fetching remote bootstrap registry")

	resp, err := c.get(ctx, c.bootstrapURL, "application/json")
	if err != nil {
		return "", &UpstreamError{Op: OpBootstrap, URL: c.bootstrapURL, Err: err}
	}
	if !resp.ok() {
		return "", &UpstreamError{Op: OpBootstrap, URL: c.bootstrapURL, Err: fmt.Errorf("bootstrap fetch failed: %s", resp.Status)}
	}
	if !gjson.ValidBytes(resp.Body) {
		return "", &UpstreamError{Op: OpBootstrap, URL: c.bootstrapURL, Err: errors.New("parse bootstrap: invalid JSON")}
	}

	var found string
	eachService(resp.Body, func(tl, base string) bool {
		c.bases.SetIfAbsent(tl, base)
		if found == "" && tl == tld {
			found = base
		}
		return true
	})
	if found == "" {
		log.Debug("TLD absent from remote bootstrap registry")
		return "", &NotFoundError{TLD: tld}
	}
	return found, nil
}
