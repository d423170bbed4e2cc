package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
)

// ErrNoBaseURL means the gateway address has not been configured yet.
// It is the one configuration failure this layer raises itself.
var ErrNoBaseURL = errors.New("api: gateway base address is not configured")

// RequestSpec describes one gateway call. The zero value of SkipIdentity
// and SkipToken means both auth headers are sent when configured; some
// endpoints (unauthenticated status probes) set them to opt out.
type RequestSpec struct {
	Method       string // defaults to GET
	Path         string
	Query        map[string]string
	Body         any
	Headers      map[string]string
	SkipIdentity bool
	SkipToken    bool
}

// SetQuery adds a query parameter. A nil value is omitted entirely; the
// serialized URL never carries the key.
func (r *RequestSpec) SetQuery(key string, value *string) {
	if value == nil {
		return
	}
	if r.Query == nil {
		r.Query = make(map[string]string)
	}
	r.Query[key] = *value
}

func (r *RequestSpec) SetQueryInt(key string, value *int64) {
	if value == nil {
		return
	}
	if r.Query == nil {
		r.Query = make(map[string]string)
	}
	r.Query[key] = strconv.FormatInt(*value, 10)
}

// Result is the uniform outcome of a completed HTTP exchange. OK mirrors
// the 2xx range; Body is decoded JSON when the response declares JSON,
// raw text otherwise, nil when neither could be read. Non-2xx statuses
// are returned here, never as errors.
type Result struct {
	OK     bool
	Status int
	Body   any
}

// Client is the single request pipeline to the gateway: URL building,
// auth header injection, JSON serialization, cookie persistence.
type Client struct {
	session *Session
	httpc   *http.Client
}

func NewClient(session *Session) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		session: session,
		httpc:   &http.Client{Jar: jar},
	}
}

// Do performs one exchange. It returns an error only for the unset base
// address and transport-level failures; everything the server actually
// said comes back as a Result.
func (c *Client) Do(ctx context.Context, spec RequestSpec) (Result, error) {
	baseURL, identity, token := c.session.snapshot()
	if baseURL == "" {
		return Result{}, ErrNoBaseURL
	}

	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}

	reqURL := joinURL(baseURL, spec.Path)
	if len(spec.Query) > 0 {
		values := url.Values{}
		for key, value := range spec.Query {
			values.Set(key, value)
		}
		reqURL += "?" + values.Encode()
	}

	var bodyReader io.Reader
	if spec.Body != nil {
		encoded, err := json.Marshal(spec.Body)
		if err != nil {
			return Result{}, fmt.Errorf("api: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return Result{}, fmt.Errorf("api: creating request: %w", err)
	}

	if spec.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !spec.SkipIdentity && identity != "" {
		req.Header.Set("Identity", identity)
	}
	if !spec.SkipToken && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range spec.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("api: request failed: %w", err)
	}
	defer resp.Body.Close()

	result := Result{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, nil
	}

	if isJSONContentType(resp.Header.Get("Content-Type")) {
		var decoded any
		if json.Unmarshal(raw, &decoded) == nil {
			result.Body = decoded
		}
		return result, nil
	}

	result.Body = string(raw)
	return result, nil
}

func isJSONContentType(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
