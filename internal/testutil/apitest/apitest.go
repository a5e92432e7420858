// Package apitest provides an in-memory api.Caller and api.Uploader for
// tests. Responses are canned XML documents keyed by method name.
package apitest

import (
	"context"
	"fmt"
	"sync"

	"github.com/fleakr/fleakr-go/pkg/api"
	"github.com/fleakr/fleakr-go/pkg/response"
)

// UploadMethod is the key under which upload responses and calls are
// recorded.
const UploadMethod = "upload"

// Call records one request received by a Fake.
type Call struct {
	Method string
	Params api.Options
	Strict bool
	// Form holds the rendered parts of an upload, in order.
	Form []string
}

// Fake answers calls from canned documents. It is safe for concurrent use.
type Fake struct {
	mu        sync.Mutex
	auth      api.Options
	responses map[string]string
	errs      map[string]error
	calls     []Call
}

// New returns a Fake whose default credentials are auth.
func New(auth api.Options) *Fake {
	return &Fake{
		auth:      api.Merge(auth),
		responses: make(map[string]string),
		errs:      make(map[string]error),
	}
}

// Respond makes every call to method answer with the XML document body.
func (f *Fake) Respond(method, body string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method] = body
	delete(f.errs, method)
	return f
}

// Fail makes every call to method fail with err before any response is
// produced.
func (f *Fake) Fail(method string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
	return f
}

// Calls returns how many times method was called.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Last returns the most recent call to method.
func (f *Fake) Last(method string) (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method {
			return f.calls[i], true
		}
	}
	return Call{}, false
}

// AuthOptions implements api.Caller.
func (f *Fake) AuthOptions() api.Options {
	return api.Merge(f.auth)
}

// Call implements api.Caller.
func (f *Fake) Call(ctx context.Context, method string, params api.Options) (*api.Response, error) {
	return f.call(ctx, Call{Method: method, Params: api.Merge(f.auth, params)})
}

// CallStrict implements api.Caller.
func (f *Fake) CallStrict(ctx context.Context, method string, params api.Options) (*api.Response, error) {
	resp, err := f.call(ctx, Call{Method: method, Params: api.Merge(f.auth, params), Strict: true})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp, nil
}

// Upload implements api.Uploader.
func (f *Fake) Upload(ctx context.Context, params ...api.Parameter) (*api.Response, error) {
	c := Call{Method: UploadMethod, Params: api.Merge(f.auth), Strict: true}
	for _, p := range params {
		form, err := p.ToForm()
		if err != nil {
			return nil, err
		}
		c.Form = append(c.Form, string(form))
		if vp, ok := p.(api.ValueParameter); ok {
			c.Params[vp.Name] = vp.Value
		}
	}
	resp, err := f.call(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp, nil
}

func (f *Fake) call(ctx context.Context, c Call) (*api.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, &api.TransportError{Method: c.Method, Err: err}
	}
	if _, err := c.Params.Canonical(); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Method, err)
	}

	f.mu.Lock()
	f.calls = append(f.calls, c)
	body, ok := f.responses[c.Method]
	failure := f.errs[c.Method]
	f.mu.Unlock()

	if failure != nil {
		return nil, failure
	}
	if !ok {
		return nil, &api.TransportError{Method: c.Method, StatusCode: 404, Err: fmt.Errorf("apitest: no response for %s", c.Method)}
	}
	root, err := response.Parse([]byte(body))
	if err != nil {
		return nil, &api.TransportError{Method: c.Method, StatusCode: 200, Err: err}
	}
	return &api.Response{Method: c.Method, Body: root}, nil
}

var (
	_ api.Caller   = (*Fake)(nil)
	_ api.Uploader = (*Fake)(nil)
)
