package runalyze

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
)

// ErrInvalidTokens is returned when a token blob cannot be decoded
var ErrInvalidTokens = errors.New("invalid runalyze session tokens")

// tokenJar is a cookie jar whose Runalyze cookies can be exported to and
// restored from a single printable string.
type tokenJar struct {
	*cookiejar.Jar
	site *url.URL
	mu   sync.Mutex
}

// cookieEntry represents a single cookie entry for serialization
type cookieEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// newTokenJar creates an empty jar scoped to site
func newTokenJar(site *url.URL) (*tokenJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &tokenJar{Jar: jar, site: site}, nil
}

// load restores cookies from a blob produced by dump
func (j *tokenJar) load(blob string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTokens, err)
	}

	var entries []cookieEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTokens, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: no cookies", ErrInvalidTokens)
	}

	cookies := make([]*http.Cookie, 0, len(entries))
	for _, entry := range entries {
		if entry.Name == "" {
			return fmt.Errorf("%w: cookie without a name", ErrInvalidTokens)
		}
		cookies = append(cookies, &http.Cookie{
			Name:  entry.Name,
			Value: entry.Value,
			Path:  "/",
		})
	}
	j.Jar.SetCookies(j.site, cookies)

	return nil
}

// dump serializes the cookies the jar would send to the site
func (j *tokenJar) dump() (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	cookies := j.Jar.Cookies(j.site)
	if len(cookies) == 0 {
		return "", fmt.Errorf("no session cookies to export")
	}

	entries := make([]cookieEntry, 0, len(cookies))
	for _, cookie := range cookies {
		entries = append(entries, cookieEntry{
			Name:  cookie.Name,
			Value: cookie.Value,
		})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cookies: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}
