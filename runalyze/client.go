package runalyze

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Runalyze web application
	DefaultBaseURL = "https://runalyze.com"
)

var (
	commonHeaders = map[string]string{
		"accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
		"accept-language":           "en-GB,en;q=0.9",
		"sec-ch-ua":                 "\"Google Chrome\";v=\"137\", \"Chromium\";v=\"137\", \"Not/A)Brand\";v=\"24\"",
		"sec-ch-ua-mobile":          "?0",
		"sec-ch-ua-platform":        "\"macOS\"",
		"sec-fetch-dest":            "document",
		"sec-fetch-mode":            "navigate",
		"sec-fetch-site":            "same-origin",
		"sec-fetch-user":            "?1",
		"upgrade-insecure-requests": "1",
	}

	csrfRe = regexp.MustCompile(`name="_csrf_token" value="([^"]+)"`)

	// Common errors
	ErrRedirectedToLogin = errors.New("redirected to login page")
	ErrTooManyRequests   = errors.New("too many requests")
)

// StatusError reports an unexpected HTTP status from Runalyze
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Logger is the logging surface used by the client
type Logger interface {
	Debug(msg string, args ...any)
}

// Options configures a Client
type Options struct {
	// BaseURL defaults to DefaultBaseURL
	BaseURL string
	// Tokens is a blob previously returned by Client.Tokens. Empty means no session.
	Tokens string
	Logger Logger
}

// Client represents a Runalyze web client. Its session lives in a cookie jar
// that can be exported as an opaque token blob and restored later.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	jar        *tokenJar
	logger     Logger
}

// New creates a new Runalyze client, restoring the session from opts.Tokens
func New(opts Options) (*Client, error) {
	rawURL := opts.BaseURL
	if rawURL == "" {
		rawURL = DefaultBaseURL
	}
	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	jar, err := newTokenJar(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if opts.Tokens != "" {
		if err := jar.load(opts.Tokens); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Jar:     jar,
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // Don't follow redirects
		},
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		jar:        jar,
		logger:     logger,
	}, nil
}

// Tokens exports the current session as an opaque string
func (c *Client) Tokens() (string, error) {
	return c.jar.dump()
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.baseURL.String(), "/") + path
}

// doRequest performs an HTTP request and reads the whole body
func (c *Client) doRequest(req *http.Request) (*http.Response, []byte, error) {
	c.logger.Debug("runalyze request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("runalyze response", "status", resp.Status, "url", req.URL.String())

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewBuffer(respBody))

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, nil, ErrTooManyRequests
	}

	return resp, respBody, nil
}

// Login performs the form login and keeps the resulting session cookies
func (c *Client) Login(username, password string) error {
	csrfToken, err := c.doGetLogin()
	if err != nil {
		return fmt.Errorf("failed to get login page: %w", err)
	}

	err = c.doPostLogin(username, password, csrfToken)
	if err != nil {
		return fmt.Errorf("failed to post login: %w", err)
	}

	return nil
}

// doGetLogin retrieves the login page and extracts the CSRF token
func (c *Client) doGetLogin() (string, error) {
	req, err := http.NewRequest("GET", c.endpoint("/login"), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range commonHeaders {
		req.Header.Set(k, v)
	}

	resp, body, err := c.doRequest(req)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	matches := csrfRe.FindStringSubmatch(string(body))
	if len(matches) < 2 {
		return "", fmt.Errorf("csrf token not found in response")
	}

	return matches[1], nil
}

// doPostLogin performs the login POST request
func (c *Client) doPostLogin(username, password, csrfToken string) error {
	data := url.Values{}
	data.Set("_username", username)
	data.Set("_password", password)
	data.Set("_remember_me", "on")
	data.Set("submit", "Sign in")
	data.Set("_csrf_token", csrfToken)

	req, err := http.NewRequest("POST", c.endpoint("/login"), strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range commonHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("content-type", "application/x-www-form-urlencoded")
	req.Header.Set("cache-control", "max-age=0")

	resp, _, err := c.doRequest(req)
	if err != nil {
		return err
	}

	// A failed login re-renders the form; success redirects away from it
	if resp.StatusCode != http.StatusFound {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	if strings.HasSuffix(resp.Header.Get("Location"), "/login") {
		return ErrRedirectedToLogin
	}

	return nil
}

// GetDataBrowser retrieves the activity list for the interval [start, end]
func (c *Client) GetDataBrowser(start, end time.Time) ([]byte, error) {
	url := fmt.Sprintf("%s?start=%d&end=%d", c.endpoint("/databrowser"), start.Unix(), end.Unix())

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range commonHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("x-requested-with", "XMLHttpRequest")
	req.Header.Set("accept", "text/html, */*; q=0.01")
	req.Header.Set("sec-fetch-dest", "empty")
	req.Header.Set("sec-fetch-mode", "cors")

	resp, body, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusFound {
		location := resp.Header.Get("Location")
		if strings.HasSuffix(location, "/login") {
			return nil, ErrRedirectedToLogin
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return body, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
