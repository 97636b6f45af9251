package live_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vimeo-live-monitor/client"
	"vimeo-live-monitor/model"
	"vimeo-live-monitor/vimeo/live"

	"github.com/stretchr/testify/suite"
)

type LiveServiceTestSuite struct {
	suite.Suite
}

// TestUnitGetVideo tests that the service hits the videos endpoint
// with the fields filter and maps the response into the model.
func (s *LiveServiceTestSuite) TestUnitGetVideo() {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			s.Equal("/videos/123456", r.URL.Path)
			s.Equal(
				"uri,name,link,duration,live",
				r.URL.Query().Get("fields"),
			)
			w.Write([]byte(`{
                "uri": "/videos/123456",
                "name": "Friday show",
                "live": {
                    "link": "rtmp://rtmp.cloud.vimeo.com/live/abc",
                    "status": "streaming"
                }
            }`))
		},
	))
	defer server.Close()

	c := client.NewClient(server.URL, client.Options{
		APIVersion:       "3.4",
		FrameworkVersion: "2.3.4",
	}).WithHTTPClient(server.Client())

	service := live.NewLive(c, nil)
	video, err := service.GetVideo("123456")
	s.NoError(err)
	s.Equal("Friday show", video.Name)
	s.NotNil(video.Live)

	status, ok := video.Live.Status()
	s.True(ok)
	s.Equal(model.LiveStatusStreaming, status)
	s.Equal("rtmp://rtmp.cloud.vimeo.com/live/abc", video.Live.Link)
}

// TestUnitGetVideoApiError tests that an api error response is
// surfaced to the caller.
func (s *LiveServiceTestSuite) TestUnitGetVideoApiError() {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "forbidden"}`, http.StatusForbidden)
		},
	))
	defer server.Close()

	c := client.NewClient(server.URL, client.Options{
		APIVersion:       "3.4",
		FrameworkVersion: "2.3.4",
	}).WithHTTPClient(server.Client())

	service := live.NewLive(c, nil)
	video, err := service.GetVideo("123456")
	s.Error(err)
	s.Nil(video)
}

func TestLiveServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LiveServiceTestSuite))
}
