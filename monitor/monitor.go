// Package monitor polls the live-stream state of a configured set of
// videos and records every status transition it observes.
package monitor

import (
	"context"
	"time"

	"vimeo-live-monitor/livecache"
	"vimeo-live-monitor/model"

	log "github.com/sirupsen/logrus"
)

// LiveFetcher fetches a video's current state from the api.
type LiveFetcher interface {
	GetVideo(videoID string) (*model.Video, error)
}

// TransitionRecorder persists an observed status transition.
type TransitionRecorder interface {
	RecordTransition(transition *model.StatusTransition) error
}

// StateMirror publishes the latest observed state per video.
type StateMirror interface {
	SetLatest(ctx context.Context, entry *livecache.Entry) error
	RemoveUnwatched(ctx context.Context, watched []string) error
}

type Configuration struct {
	LogLevel        log.Level `yaml:"LogLevel" validate:"required"`
	IntervalSeconds int       `yaml:"IntervalSeconds" validate:"required,min=1"`
	VideoIds        []string  `yaml:"VideoIds" validate:"required,min=1"`
}

type Monitor struct {
	*log.Logger
	config  *Configuration
	fetcher LiveFetcher
	store   TransitionRecorder
	mirror  StateMirror

	// last observed status per video; a video without an entry has
	// not been successfully polled yet.
	last map[string]model.LiveStreamingStatus
}

// NewMonitor constructs an object that polls the watched videos on
// an interval, detects live-status transitions and hands them to the
// store and the mirror.
func NewMonitor(config *Configuration, fetcher LiveFetcher, store TransitionRecorder, mirror StateMirror) *Monitor {
	l := log.New()
	l.SetLevel(config.LogLevel)
	l.Debug("Monitor created")
	return &Monitor{
		Logger:  l,
		config:  config,
		fetcher: fetcher,
		store:   store,
		mirror:  mirror,
		last:    make(map[string]model.LiveStreamingStatus),
	}
}

// Run polls all the watched videos once immediately and then on
// every interval tick, until the provided context is cancelled.
func (monitor *Monitor) Run(ctx context.Context) {
	interval := time.Duration(monitor.config.IntervalSeconds) * time.Second
	monitor.WithFields(log.Fields{
		"Videos":   len(monitor.config.VideoIds),
		"Interval": interval,
	}).Info("Monitor started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Drop mirrored states for videos no longer on the watch list,
	// left behind by a previous run with a different config.
	if err := monitor.mirror.RemoveUnwatched(ctx, monitor.config.VideoIds); err != nil {
		monitor.Warnf("Failed to clean up unwatched live states: %v", err)
	}

	monitor.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			monitor.Info("Monitor stopped")
			return
		case <-ticker.C:
			monitor.poll(ctx)
		}
	}
}

// poll fetches every watched video's state once. A failure for one
// video is logged and does not keep the others from being polled.
func (monitor *Monitor) poll(ctx context.Context) {
	for _, videoID := range monitor.config.VideoIds {
		if ctx.Err() != nil {
			return
		}
		video, err := monitor.fetcher.GetVideo(videoID)
		if err != nil {
			monitor.WithFields(log.Fields{
				"VideoID": videoID,
			}).Warnf("Failed to fetch video live state: %v", err)
			continue
		}
		if err := monitor.Observe(ctx, videoID, video); err != nil {
			monitor.WithFields(log.Fields{
				"VideoID": videoID,
			}).Warnf("Failed to record observation: %v", err)
		}
	}
}

// Observe compares the fetched state with the last observed one and,
// when the status changed, records a transition and refreshes the
// mirror. The very first observation of a video counts as a
// transition from unavailable, so only the mirror is refreshed when
// a video starts out unavailable. A video without live state, or
// with an unknown wire status, is treated as unavailable.
func (monitor *Monitor) Observe(ctx context.Context, videoID string, video *model.Video) error {
	status := model.LiveStatusUnavailable
	link := ""
	var scheduled *time.Time

	if video != nil && video.Live != nil {
		if s, ok := video.Live.Status(); ok {
			status = s
		}
		link = video.Live.Link
		scheduled = video.Live.ScheduledStartTime
	}

	previous, seen := monitor.last[videoID]
	if seen && previous == status {
		return nil
	}
	if !seen {
		previous = model.LiveStatusUnavailable
	}

	if previous != status {
		monitor.WithFields(log.Fields{
			"VideoID": videoID,
		}).Infof("Live status transition: %s -> %s", previous, status)

		if err := monitor.store.RecordTransition(&model.StatusTransition{
			VideoID:        videoID,
			PreviousStatus: string(previous),
			NewStatus:      string(status),
			RTMPLink:       link,
			ObservedAt:     time.Now(),
		}); err != nil {
			return err
		}
	}
	if err := monitor.mirror.SetLatest(ctx, &livecache.Entry{
		VideoID:            videoID,
		Status:             string(status),
		RTMPLink:           link,
		ScheduledStartTime: scheduled,
	}); err != nil {
		return err
	}

	// Only a fully persisted observation counts as seen, so a
	// failed store or mirror write is retried on the next poll.
	monitor.last[videoID] = status
	return nil
}
