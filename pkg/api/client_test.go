package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fleakr/fleakr-go/pkg/config"
	"github.com/klauspost/compress/gzip"
)

func startHTTPServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			if strings.Contains(msg, "operation not permitted") {
				t.Skip("network operations not permitted in sandbox")
			}
			panic(r)
		}
	}()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	cfg := &config.Config{
		APIKey:         "key",
		AuthToken:      "tok",
		Endpoint:       srv.URL + "/rest/",
		UploadEndpoint: srv.URL + "/upload/",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return NewClientForTesting(cfg, srv.Client().Transport)
}

func TestClientCall_SendsMethodAndAuth(t *testing.T) {
	srv := startHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("method") != "photosets.getInfo" || q.Get("api_key") != "key" ||
			q.Get("auth_token") != "tok" || q.Get("photoset_id") != "5" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `<rsp stat="ok"><photoset id="5"><title>T</title></photoset></rsp>`)
	}))

	resp, err := testClient(t, srv).Call(context.Background(), "photosets.getInfo", Options{"photoset_id": "5"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if err := resp.Err(); err != nil {
		t.Fatalf("resp.Err: %v", err)
	}
	if got, _ := resp.Body.Value("photoset/title"); got != "T" {
		t.Fatalf("title = %q", got)
	}
}

func TestClientCall_RemoteErrorLeftOnResponse(t *testing.T) {
	srv := startHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<rsp stat="fail"><err code="1" msg="Photoset not found"/></rsp>`)
	}))
	c := testClient(t, srv)

	resp, err := c.Call(context.Background(), "photosets.getInfo", nil)
	if err != nil {
		t.Fatalf("Call must not fail on an error payload: %v", err)
	}
	var remote *RemoteError
	if !errors.As(resp.Err(), &remote) {
		t.Fatalf("expected *RemoteError, got %v", resp.Err())
	}
	if remote.Code != "1" || remote.Message != "Photoset not found" || remote.Method != "photosets.getInfo" {
		t.Fatalf("unexpected remote error: %+v", remote)
	}

	resp, err = c.CallStrict(context.Background(), "photosets.getInfo", nil)
	if resp != nil {
		t.Fatal("strict call returned a response for an error payload")
	}
	if !errors.As(err, &remote) {
		t.Fatalf("expected *RemoteError from strict call, got %v", err)
	}
}

func TestClientCall_TransportErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "unparseable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "<rsp><broken></rsp>")
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := startHTTPServer(t, tt.handler)
			_, err := testClient(t, srv).Call(context.Background(), "photos.getInfo", nil)
			var transport *TransportError
			if !errors.As(err, &transport) {
				t.Fatalf("expected *TransportError, got %v", err)
			}
			if transport.StatusCode != tt.wantStatus {
				t.Fatalf("StatusCode = %d, want %d", transport.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestClientCall_ConnectionRefused(t *testing.T) {
	srv := startHTTPServer(t, http.NotFoundHandler())
	c := testClient(t, srv)
	srv.Close()

	_, err := c.Call(context.Background(), "photos.getInfo", nil)
	var transport *TransportError
	if !errors.As(err, &transport) || transport.StatusCode != 0 {
		t.Fatalf("expected *TransportError without status, got %v", err)
	}
}

func TestClientCall_Gzip(t *testing.T) {
	srv := startHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip" {
			t.Errorf("Accept-Encoding = %q", r.Header.Get("Accept-Encoding"))
		}
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = io.WriteString(gz, `<rsp stat="ok"><user id="12@N01"/></rsp>`)
		_ = gz.Close()
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))

	resp, err := testClient(t, srv).Call(context.Background(), "people.findByUsername", nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if id, _ := resp.Body.Value("user/@id"); id != "12@N01" {
		t.Fatalf("id = %q", id)
	}
}

func TestClientCall_UnsupportedOption(t *testing.T) {
	srv := startHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	}))
	_, err := testClient(t, srv).Call(context.Background(), "photos.getInfo", Options{"bad": struct{}{}})
	if !errors.Is(err, ErrUnsupportedOption) {
		t.Fatalf("expected ErrUnsupportedOption, got %v", err)
	}
}

func TestClientUpload(t *testing.T) {
	srv := startHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("Content-Type = %q (%v)", r.Header.Get("Content-Type"), err)
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		fields := map[string]string{}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Errorf("NextPart: %v", err)
				return
			}
			data, _ := io.ReadAll(part)
			fields[part.FormName()] = string(data)
			if part.FormName() == "photo" {
				if part.FileName() != "img.jpg" || part.Header.Get("Content-Type") != "image/jpeg" {
					t.Errorf("unexpected photo part headers: %v", part.Header)
				}
			}
		}
		if fields["api_key"] != "key" || fields["auth_token"] != "tok" || fields["title"] != "Beach" || fields["photo"] != "ABC" {
			t.Errorf("unexpected fields: %v", fields)
		}
		_, _ = io.WriteString(w, `<rsp stat="ok"><photoid>1234</photoid></rsp>`)
	}))

	params, err := UploadParameters(InlineBytes{Name: "img.jpg", Data: []byte("ABC")}, Options{"title": "Beach"})
	if err != nil {
		t.Fatalf("UploadParameters: %v", err)
	}
	resp, err := testClient(t, srv).Upload(context.Background(), params...)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if id, _ := resp.Body.Value("photoid"); id != "1234" {
		t.Fatalf("photoid = %q", id)
	}
}

func TestClientUpload_CallerCredentialsWin(t *testing.T) {
	srv := startHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if got := r.MultipartForm.Value["auth_token"]; len(got) != 1 || got[0] != "explicit" {
			t.Errorf("auth_token values = %q, want [explicit]", got)
		}
		if got := r.MultipartForm.Value["api_key"]; len(got) != 1 || got[0] != "key" {
			t.Errorf("api_key values = %q, want [key]", got)
		}
		_, _ = io.WriteString(w, `<rsp stat="ok"><photoid>1</photoid></rsp>`)
	}))

	params, err := UploadParameters(InlineBytes{Name: "img.jpg", Data: []byte("ABC")}, Options{"auth_token": "explicit"})
	if err != nil {
		t.Fatalf("UploadParameters: %v", err)
	}
	if _, err := testClient(t, srv).Upload(context.Background(), params...); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

func TestClientUpload_RemoteError(t *testing.T) {
	srv := startHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<rsp stat="fail"><err code="5" msg="Filetype was not recognised"/></rsp>`)
	}))
	_, err := testClient(t, srv).Upload(context.Background(), ValueParameter{Name: "title", Value: "x"})
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.Code != "5" {
		t.Fatalf("expected remote error 5, got %v", err)
	}
}

func TestClientAuthOptions_ReturnsCopy(t *testing.T) {
	c := NewClient(&config.Config{APIKey: "key"})
	opts := c.AuthOptions()
	opts["api_key"] = "changed"
	if c.AuthOptions()["api_key"] != "key" {
		t.Fatal("AuthOptions exposed internal state")
	}
}
