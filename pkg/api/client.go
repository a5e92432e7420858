package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fleakr/fleakr-go/pkg/config"
	"github.com/fleakr/fleakr-go/pkg/response"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// Caller is the remote-call collaborator consumed by the object mappers.
//
// Call returns the parsed response even when it carries an error payload;
// the payload is reported by Response.Err. CallStrict fails with a
// *RemoteError instead, so mutating call sites never see a failed response.
type Caller interface {
	Call(ctx context.Context, method string, params Options) (*Response, error)
	CallStrict(ctx context.Context, method string, params Options) (*Response, error)
	// AuthOptions returns the default credentials merged into every call.
	AuthOptions() Options
}

// Uploader sends multipart uploads. Uploads are always strict.
type Uploader interface {
	Upload(ctx context.Context, params ...Parameter) (*Response, error)
}

// Response is a parsed API response.
type Response struct {
	Method string
	// Body is the document root (<rsp>).
	Body *response.Node
}

// Err returns a *RemoteError when the response carries an error payload.
func (r *Response) Err() error {
	code, msg, failed := r.Body.Failure()
	if !failed {
		return nil
	}
	return &RemoteError{Method: r.Method, Code: code, Message: msg}
}

// Client is the HTTP implementation of Caller and Uploader.
type Client struct {
	endpoint       string
	uploadEndpoint string
	auth           Options
	httpClient     *http.Client
	uploadClient   *http.Client
}

// NewClient builds a Client from a validated configuration. Method calls and
// uploads use separate HTTP clients so each gets its own timeout.
func NewClient(cfg *config.Config) *Client {
	timeouts := cfg.Timeouts.WithDefaults()
	return newClient(cfg,
		&http.Client{Timeout: timeouts.Call},
		&http.Client{Timeout: timeouts.Upload},
	)
}

// NewClientForTesting builds a Client that sends every request through the
// given transport, typically one pointing at an httptest.Server.
func NewClientForTesting(cfg *config.Config, transport http.RoundTripper) *Client {
	hc := &http.Client{Transport: transport}
	return newClient(cfg, hc, hc)
}

func newClient(cfg *config.Config, httpClient, uploadClient *http.Client) *Client {
	auth := make(Options)
	for k, v := range cfg.AuthOptions() {
		auth[k] = v
	}
	return &Client{
		endpoint:       cfg.Endpoint,
		uploadEndpoint: cfg.UploadEndpoint,
		auth:           auth,
		httpClient:     httpClient,
		uploadClient:   uploadClient,
	}
}

// AuthOptions returns a copy of the configured credentials.
func (c *Client) AuthOptions() Options {
	return Merge(c.auth)
}

// Call issues a REST method call. Transport failures are returned as
// *TransportError; remote error payloads are left on the Response.
func (c *Client) Call(ctx context.Context, method string, params Options) (*Response, error) {
	values, err := Merge(c.auth, params, Options{"method": method}).Values()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	u := c.endpoint
	if strings.Contains(u, "?") {
		u += "&" + values.Encode()
	} else {
		u += "?" + values.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	return c.do(c.httpClient, method, req)
}

// CallStrict issues a REST method call and fails with *RemoteError when the
// response carries an error payload.
func (c *Client) CallStrict(ctx context.Context, method string, params Options) (*Response, error) {
	resp, err := c.Call(ctx, method, params)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		zap.L().Warn("remote call failed", zap.String("method", method), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// Upload posts the given parameters as a multipart/form-data body to the
// upload endpoint. The configured credentials are sent as leading value
// parameters unless params already carries a field of the same name.
func (c *Client) Upload(ctx context.Context, params ...Parameter) (*Response, error) {
	const method = "upload"

	auth, err := c.auth.Canonical()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	given := make(map[string]bool, len(params))
	for _, p := range params {
		given[p.FormName()] = true
	}
	all := make([]Parameter, 0, len(auth)+len(params))
	for _, k := range sortedKeys(auth) {
		if given[k] {
			continue
		}
		all = append(all, ValueParameter{Name: k, Value: auth[k]})
	}
	all = append(all, params...)

	boundary := NewBoundary()
	body, err := EncodeMultipart(boundary, all...)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	req.Header.Set("Content-Type", ContentType(boundary))

	resp, err := c.do(c.uploadClient, method, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		zap.L().Warn("upload failed", zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(hc *http.Client, method string, req *http.Request) (*Response, error) {
	req.Header.Set("Accept-Encoding", "gzip")

	start := time.Now()
	httpResp, err := hc.Do(req)
	if err != nil {
		zap.L().Error("request failed", zap.String("method", method), zap.Error(err))
		return nil, &TransportError{Method: method, Err: err}
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			zap.L().Error("failed to close response body", zap.String("method", method), zap.Error(err))
		}
	}(httpResp.Body)

	zap.L().Debug("api call",
		zap.String("method", method),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	data, err := readBody(httpResp)
	if err != nil {
		return nil, &TransportError{Method: method, StatusCode: httpResp.StatusCode, Err: err}
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &TransportError{
			Method:     method,
			StatusCode: httpResp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(truncate(data, 256)))),
		}
	}

	root, err := response.Parse(data)
	if err != nil {
		return nil, &TransportError{Method: method, StatusCode: httpResp.StatusCode, Err: err}
	}
	return &Response{Method: method, Body: root}, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return io.ReadAll(resp.Body)
	}
	gzr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress gzip: %w", err)
	}
	defer gzr.Close()
	return io.ReadAll(gzr)
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
	if c.uploadClient != c.httpClient {
		c.uploadClient.CloseIdleConnections()
	}
}
