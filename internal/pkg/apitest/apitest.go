// Package apitest provides a recording gin server and a client wired to it,
// for repository tests that need to assert the exact HTTP calls made.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
)

// Call is one request received by the server.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// JSON decodes the call body into a generic value, for JSONEq-style asserts.
func (c Call) JSON(t *testing.T) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(c.Body, &v), "body: %s", c.Body)
	return v
}

// Server records every call and serves canned responses registered with Handle.
type Server struct {
	Engine *gin.Engine
	Client *httpclient.Client

	srv   *httptest.Server
	mu    sync.Mutex
	calls []Call
}

// NewServer starts a server mounted under /v1 and a client whose base URL points at it.
func NewServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{Engine: gin.New()}
	s.Engine.Use(s.record)

	s.srv = httptest.NewServer(s.Engine)
	t.Cleanup(s.srv.Close)

	client, err := httpclient.New(httpclient.Config{BaseURL: s.srv.URL + "/v1"})
	require.NoError(t, err)
	s.Client = client

	return s
}

// URL returns the server root URL.
func (s *Server) URL() string {
	return s.srv.URL
}

// Handle registers a handler for method and path (relative to /v1).
func (s *Server) Handle(method, path string, h gin.HandlerFunc) {
	s.Engine.Handle(method, "/v1"+path, h)
}

// Reply registers a handler that always answers status with body encoded as JSON.
func (s *Server) Reply(method, path string, status int, body any) {
	s.Handle(method, path, func(c *gin.Context) {
		if body == nil {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	})
}

// ReplyRaw registers a handler answering with a raw JSON document.
func (s *Server) ReplyRaw(method, path string, status int, raw string) {
	s.Handle(method, path, func(c *gin.Context) {
		c.Data(status, "application/json", []byte(raw))
	})
}

// Calls returns a snapshot of the recorded calls.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// LastCall returns the most recent call; it fails the test if there is none.
func (s *Server) LastCall(t *testing.T) Call {
	t.Helper()
	calls := s.Calls()
	require.NotEmpty(t, calls, "no request reached the server")
	return calls[len(calls)-1]
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()

	c.Next()
}
