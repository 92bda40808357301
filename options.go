package rdaptastic

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Option func(*Client)

func WithHTTPDoer(d Doer) Option             { return func(c *Client) { c.hc = d } }
func WithUserAgent(ua string) Option         { return func(c *Client) { c.ua = ua } }
func WithTimeout(d time.Duration) Option     { return func(c *Client) { c.baseTimeout = d } }
func WithBootstrapURL(u string) Option       { return func(c *Client) { c.bootstrapURL = u } }
func WithDoHURL(u string) Option             { return func(c *Client) { c.dohURL = u } }
func WithIPInfoURL(u string) Option          { return func(c *Client) { c.ipinfoURL = strings.TrimRight(u, "/") } }
func WithLogger(l logrus.FieldLogger) Option { return func(c *Client) { c.log = l } }
func WithHeader(k, v string) Option          { return func(c *Client) { c.headerExtra.Add(k, v) } }

// WithLocalTable replaces the pinned bootstrap snapshot. Keys are lowercased TLDs.
func WithLocalTable(m map[string]string) Option {
	return func(c *Client) {
		t := make(map[string]string, len(m))
		for k, v := range m {
			t[strings.ToLower(k)] = strings.TrimSuffix(v, "/")
		}
		c.localTable = t
	}
}
