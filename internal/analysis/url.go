package analysis

import (
	"errors"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var (
	// ErrEmptyURL is returned for blank input.
	ErrEmptyURL = errors.New("URL is required")
	// ErrInvalidURL is returned for input that cannot be a product URL.
	ErrInvalidURL = errors.New("Please enter a valid URL (e.g., amazon.com/product...)")
)

// NormalizeURL trims raw, adds an https scheme when none is given and
// rejects input that has no dot anywhere.
func NormalizeURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", ErrEmptyURL
	}

	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}

	if !strings.Contains(u, ".") {
		return "", ErrInvalidURL
	}
	return u, nil
}

// RegistrableDomain returns the eTLD+1 of rawURL ("shop.amazon.co.uk" ->
// "amazon.co.uk"), or the bare host when that cannot be determined.
func RegistrableDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if host == "" {
		return ""
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
