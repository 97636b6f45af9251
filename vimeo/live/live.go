package live

import (
	"net/http"

	"vimeo-live-monitor/client"
	"vimeo-live-monitor/model"

	log "github.com/sirupsen/logrus"
)

// videoFields limits the response payload to the fields the
// model maps.
const videoFields = "uri,name,link,duration,live"

type Live struct {
	client *client.Client
	log    *log.Logger
}

// NewLive constructs an object that handles fetching videos and
// their live-stream state from the api.
func NewLive(c *client.Client, logger *log.Logger) *Live {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Live{
		client: c,
		log:    logger,
	}
}

// GetVideo fetches a single video, including its embedded
// live-stream state, by the video's id.
func (l *Live) GetVideo(videoID string) (*model.Video, error) {
	l.log.WithFields(log.Fields{
		"VideoID": videoID,
	}).Trace("Fetching video live state")

	req, err := l.client.NewRequest(
		http.MethodGet,
		"/videos/{video_id}",
		client.Parameters{"fields": videoFields},
		client.PathParam{K: "video_id", V: videoID},
	)
	if err != nil {
		return nil, err
	}
	video := new(model.Video)
	if err := req.DoAndUnmarshall(video); err != nil {
		return nil, err
	}
	return video, nil
}
