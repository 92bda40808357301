package rdaptastic

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/tidwall/gjson"
)

func lastLabel(domain string) string {
	domain = strings.TrimSuffix(domain, ".")
	parts := strings.Split(domain, ".")
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(parts[len(parts)-1])
}

func mustJoin(base, p1 string, more ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + path.Join(append([]string{"/", p1}, more...)...)
	}
	u.Path = path.Join(u.Path, p1)
	for _, m := range more {
		u.Path = path.Join(u.Path, m)
	}
	return u.String()
}

func lower(s string) string { return strings.ToLower(s) }

func copyHeaders(dst, src http.Header) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

// stringsOf collects the string members of a JSON array, skipping anything else.
func stringsOf(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	arr := r.Array()
	out := make([]string, 0, len(arr))
	for _, x := range arr {
		if x.Type == gjson.String {
			out = append(out, x.Str)
		}
	}
	return out
}

// stringPtr returns nil for the empty string.
func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
