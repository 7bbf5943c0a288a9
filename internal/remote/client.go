package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jmgilman/minicrm/internal/contact"
	"github.com/jmgilman/minicrm/internal/version"
)

// maxPages stops a list walk against a server that ignores limit.
const maxPages = 1000

// client implements the Client interface over net/http.
type client struct {
	config ClientConfig
	http   *http.Client
	base   *url.URL
}

// NewClient creates a new API client with the given configuration.
func NewClient(cfg ClientConfig) (Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", base.Scheme)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Insecure {
		// Clone the default transport to keep proxy and keep-alive settings.
		var insecureTransport *http.Transport
		if defaultTransport, ok := http.DefaultTransport.(*http.Transport); ok {
			insecureTransport = defaultTransport.Clone()
		} else {
			insecureTransport = &http.Transport{}
		}
		insecureTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // intentional for insecure mode
		httpClient.Transport = insecureTransport
	}

	return &client{config: cfg, http: httpClient, base: base}, nil
}

// List fetches every contact matching query, one page at a time. A page
// shorter than PageSize ends the walk, so the server must honor limit up to
// PageSize. A page that adds no unseen ids also ends it, which stops a server
// that ignores skip from repeating the same contacts.
func (c *client) List(ctx context.Context, query string) ([]contact.Contact, error) {
	result := []contact.Contact{}
	seen := map[contact.ID]bool{}
	for page := 0; page < maxPages; page++ {
		params := url.Values{}
		if query != "" {
			params.Set("q", query)
		}
		params.Set("skip", strconv.Itoa(len(result)))
		params.Set("limit", strconv.Itoa(c.config.PageSize))

		var batch []contact.Contact
		if err := c.do(ctx, http.MethodGet, "/contacts", params, nil, &batch); err != nil {
			return nil, err
		}

		added := 0
		for _, ct := range batch {
			if seen[ct.ID] {
				continue
			}
			seen[ct.ID] = true
			result = append(result, ct)
			added++
		}
		if added == 0 || len(batch) < c.config.PageSize {
			return result, nil
		}
	}
	return result, nil
}

// Create stores a new contact.
func (c *client) Create(ctx context.Context, input contact.CreateInput) (contact.Contact, error) {
	var out contact.Contact
	if err := c.do(ctx, http.MethodPost, "/contacts", nil, input, &out); err != nil {
		return contact.Contact{}, err
	}
	return out, nil
}

// Update changes a contact's name and phone.
func (c *client) Update(ctx context.Context, id contact.ID, input contact.UpdateInput) (contact.Contact, error) {
	var out contact.Contact
	if err := c.do(ctx, http.MethodPut, "/contacts/"+id.String(), nil, input, &out); err != nil {
		return contact.Contact{}, err
	}
	return out, nil
}

// Remove deletes a contact.
func (c *client) Remove(ctx context.Context, id contact.ID) error {
	return c.do(ctx, http.MethodDelete, "/contacts/"+id.String(), nil, nil, nil)
}

// Login exchanges credentials for an access token.
func (c *client) Login(ctx context.Context, email, password string) (Token, error) {
	body := map[string]string{"email": email, "password": password}

	var tok Token
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &tok)
	if errors.Is(err, contact.ErrUnauthorized) {
		return Token{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, err)
	}
	if err != nil {
		return Token{}, err
	}
	if tok.AccessToken == "" {
		return Token{}, fmt.Errorf("%w: empty access token", contact.ErrUnavailable)
	}
	return tok, nil
}

// do sends one request and decodes a JSON response into out (if non-nil).
func (c *client) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := *c.base
	u.Path += path
	u.RawQuery = params.Encode()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set(RequestIDHeader, uuid.NewString())

	if c.config.Token != nil {
		token, err := c.config.Token()
		if err != nil {
			return fmt.Errorf("load token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &contact.StoreError{Err: contact.ErrUnavailable, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &contact.StoreError{
			Err:    contact.ErrUnavailable,
			Detail: fmt.Sprintf("decode %s %s response: %v", method, path, err),
		}
	}
	return nil
}

// errorBody is the API's error envelope. Detail is a string for most errors
// and a list of field problems for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldProblem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// mapError converts an error response to a contact.StoreError.
func (c *client) mapError(resp *http.Response) error {
	detail := readDetail(resp.Body)

	var sentinel error
	switch resp.StatusCode {
	case http.StatusNotFound:
		sentinel = contact.ErrNotFound
	case http.StatusBadRequest:
		sentinel = contact.ErrRejected
		if strings.Contains(detail, "already registered") {
			sentinel = contact.ErrEmailTaken
		}
	case http.StatusUnprocessableEntity:
		sentinel = contact.ErrRejected
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = contact.ErrUnauthorized
	default:
		sentinel = contact.ErrUnavailable
	}

	if detail == "" {
		detail = fmt.Sprintf("%s: %s", sentinel, resp.Status)
	}
	return &contact.StoreError{Err: sentinel, Detail: detail}
}

func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(data))
	}

	var msg string
	if err := json.Unmarshal(body.Detail, &msg); err == nil {
		return msg
	}

	var problems []fieldProblem
	if err := json.Unmarshal(body.Detail, &problems); err == nil {
		parts := make([]string, 0, len(problems))
		for _, p := range problems {
			if field := lastLoc(p.Loc); field != "" {
				parts = append(parts, field+": "+p.Msg)
			} else {
				parts = append(parts, p.Msg)
			}
		}
		return strings.Join(parts, "; ")
	}
	return string(body.Detail)
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok && s != "body" {
		return s
	}
	return ""
}
