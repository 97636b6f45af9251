package model

import "time"

// Video is the slice of the api's video representation this module
// consumes: identity plus the embedded live-stream state.
type Video struct {
	URI      string      `json:"uri"`
	Name     string      `json:"name"`
	Link     string      `json:"link"`
	Duration int         `json:"duration"`
	Live     *LiveStream `json:"live"`
}

// VideoID extracts the trailing id from the video's uri
// (e.g. "/videos/123456" -> "123456"). Returns the empty
// string when the uri carries no id.
func (v *Video) VideoID() string {
	uri := v.URI
	for i := len(uri) - 1; i >= 0; i-- {
		if uri[i] == '/' {
			return uri[i+1:]
		}
	}
	return ""
}

// StatusTransition records a single observed change of a video's
// live-streaming status.
type StatusTransition struct {
	ID             uint      `json:"id"`
	VideoID        string    `json:"video_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	RTMPLink       string    `json:"rtmp_link"`
	ObservedAt     time.Time `json:"observed_at"`
}
