package rdaptastic

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ErrInvalidDomain is returned by NormalizeDomain for input that is not a registrable domain name.
var ErrInvalidDomain = errors.New("invalid domain")

// NotFoundError reports that no RDAP server could be determined for a TLD, or that the
// authoritative server did not return the domain.
//
// Any non-200 upstream status is reported as not found, so StatusCode may carry 429 or 5xx
// as well as 404.
type NotFoundError struct {
	TLD        string
	Domain     string
	StatusCode int
}

func (e *NotFoundError) Error() string {
	if e.Domain == "" {
		return fmt.Sprintf("no RDAP server found for TLD %q", e.TLD)
	}
	return fmt.Sprintf("domain %q not found: upstream status %d %s", e.Domain, e.StatusCode, http.StatusText(e.StatusCode))
}

// Operations reported in UpstreamError.Op.
const (
	OpBootstrap = "bootstrap"
	OpFetch     = "rdap GET"
	OpSecondary = "secondary GET"
)

// UpstreamError wraps any other failure talking to the bootstrap registry or an RDAP service.
type UpstreamError struct {
	Op  string
	URL string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ResolutionError is captured per nameserver when its A record cannot be resolved.
type ResolutionError struct {
	Nameserver string
	Reason     string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("DNS query failed for %s: %s", e.Nameserver, e.Reason)
}

// LookupError is captured per nameserver when the network-intelligence lookup fails.
type LookupError struct {
	IP     string
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("ASN query failed for IP %s: %s", e.IP, e.Reason)
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUpstream reports whether err is, or wraps, an *UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
