package client_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vimeo-live-monitor/client"

	"github.com/stretchr/testify/suite"
)

type RequestTestSuite struct {
	suite.Suite
}

// TestUnitPathParamsReplaced tests that `{...}` placeholders in the
// endpoint are replaced and that a leftover placeholder is an error.
func (s *RequestTestSuite) TestUnitPathParamsReplaced() {
	c := client.NewClient("https://api.vimeo.com", client.Options{
		APIVersion:       "3.4",
		FrameworkVersion: "2.3.4",
	})

	req, err := c.NewRequest(
		http.MethodGet,
		"/videos/{video_id}",
		nil,
		client.PathParam{K: "video_id", V: "12345"},
	)
	s.NoError(err)
	s.Equal("https://api.vimeo.com/videos/12345", req.Url())

	req, err = c.NewRequest(http.MethodGet, "/videos/{video_id}", nil)
	s.Error(err)
	s.Nil(req)
}

// TestUnitFullPipelineOnTheWire tests that a request built by the
// client reaches the server with all the decorated headers.
func (s *RequestTestSuite) TestUnitFullPipelineOnTheWire() {
	var received http.Header
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			received = r.Header.Clone()
			w.Write([]byte(`{"uri": "/videos/12345"}`))
		},
	))
	defer server.Close()

	c := client.NewClient(server.URL, client.Options{
		TokenProvider:    client.StaticToken("token123"),
		APIVersion:       "3.4",
		FrameworkVersion: "2.3.4",
	}).WithHTTPClient(server.Client())

	req, err := c.NewRequest(http.MethodGet, "/videos/12345", nil)
	s.NoError(err)

	var parsed struct {
		URI string `json:"uri"`
	}
	s.NoError(req.DoAndUnmarshall(&parsed))
	s.Equal("/videos/12345", parsed.URI)

	s.Equal("Bearer token123", received.Get("Authorization"))
	s.Equal(
		"application/vnd.vimeo.*+json; version=3.4",
		received.Get("Accept"),
	)
	s.Equal("VimeoNetworking/2.3.4", received.Get("User-Agent"))
}

// TestUnitErrorStatusSurfaced tests that a non-2xx response is
// surfaced as an error to the caller.
func (s *RequestTestSuite) TestUnitErrorStatusSurfaced() {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
		},
	))
	defer server.Close()

	c := client.NewClient(server.URL, client.Options{
		APIVersion:       "3.4",
		FrameworkVersion: "2.3.4",
	}).WithHTTPClient(server.Client())

	req, err := c.NewRequest(http.MethodGet, "/videos/0", nil)
	s.NoError(err)

	_, err = req.DoAndRead()
	s.Error(err)
	s.Contains(err.Error(), "404")
}

func TestRequestTestSuite(t *testing.T) {
	suite.Run(t, new(RequestTestSuite))
}
