package datastore

import (
	"database/sql"
	"errors"
	"time"

	"vimeo-live-monitor/model"

	log "github.com/sirupsen/logrus"
)

// RecordTransition persists a single observed live-status change.
// The transition's ObservedAt defaults to now when unset and the
// generated id is written back to the provided model.
func (datastore *Datastore) RecordTransition(transition *model.StatusTransition) error {
	i := datastore.getIdx()

	datastore.WithFields(log.Fields{
		"VideoID": transition.VideoID,
	}).Tracef(
		"[T%d]Start: Record transition %s -> %s",
		i, transition.PreviousStatus, transition.NewStatus,
	)

	if transition.ObservedAt.IsZero() {
		transition.ObservedAt = time.Now()
	}

	if err := datastore.QueryRow(
		`
        INSERT INTO "live_status_transition" (
            video_id, previous_status, new_status, rtmp_link, observed_at
        ) VALUES ($1, $2, $3, $4, $5)
        RETURNING id;
        `,
		transition.VideoID,
		transition.PreviousStatus,
		transition.NewStatus,
		transition.RTMPLink,
		transition.ObservedAt,
	).Scan(&transition.ID); err != nil {
		datastore.Tracef("[T%d]Error: %v", i, err)
		return err
	}

	datastore.Tracef("[T%d]Done: Transition recorded", i)
	return nil
}

// GetTransitionsForVideo fetches all the recorded transitions for
// the provided video, newest first, limited by the provided limit.
func (datastore *Datastore) GetTransitionsForVideo(videoID string, limit int) ([]*model.StatusTransition, error) {
	i := datastore.getIdx()

	datastore.WithFields(log.Fields{
		"VideoID": videoID,
	}).Tracef("[T%d]Start: Fetch transitions", i)

	if limit <= 0 {
		limit = 100
	}

	rows, err := datastore.Query(
		`
        SELECT id, video_id, previous_status, new_status,
               rtmp_link, observed_at
        FROM "live_status_transition"
        WHERE video_id = $1
        ORDER BY observed_at DESC, id DESC
        LIMIT $2;
        `,
		videoID,
		limit,
	)
	if err != nil {
		datastore.Tracef("[T%d]Error: %v", i, err)
		return nil, err
	}
	defer rows.Close()

	transitions := make([]*model.StatusTransition, 0)
	for rows.Next() {
		transition := &model.StatusTransition{}
		if err := rows.Scan(
			&transition.ID,
			&transition.VideoID,
			&transition.PreviousStatus,
			&transition.NewStatus,
			&transition.RTMPLink,
			&transition.ObservedAt,
		); err != nil {
			datastore.Tracef("[T%d]Error: %v", i, err)
			return nil, err
		}
		transitions = append(transitions, transition)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	datastore.Tracef("[T%d]Done: Fetched %d transitions", i, len(transitions))
	return transitions, nil
}

// GetLatestStatus fetches the most recently recorded status for the
// provided video. Returns an empty string when the video has no
// recorded transitions yet.
func (datastore *Datastore) GetLatestStatus(videoID string) (string, error) {
	i := datastore.getIdx()

	datastore.WithFields(log.Fields{
		"VideoID": videoID,
	}).Tracef("[T%d]Start: Fetch latest status", i)

	var status string
	err := datastore.QueryRow(
		`
        SELECT new_status
        FROM "live_status_transition"
        WHERE video_id = $1
        ORDER BY observed_at DESC, id DESC
        LIMIT 1;
        `,
		videoID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			datastore.Tracef("[T%d]Done: No recorded status", i)
			return "", nil
		}
		datastore.Tracef("[T%d]Error: %v", i, err)
		return "", err
	}

	datastore.Tracef("[T%d]Done: Latest status is %s", i, status)
	return status, nil
}

// createStatusTransitionTable creates the "live_status_transition"
// table, if it does not already exist.
func (datastore *Datastore) createStatusTransitionTable() error {
	datastore.Debug("Creating table 'live_status_transition' (if not exists)")

	if _, err := datastore.Exec(
		`
        CREATE TABLE IF NOT EXISTS "live_status_transition" (
            id SERIAL,
            video_id VARCHAR NOT NULL,
            previous_status VARCHAR NOT NULL,
            new_status VARCHAR NOT NULL,
            rtmp_link VARCHAR NOT NULL DEFAULT '',
            observed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            PRIMARY KEY (id)
        );
        CREATE INDEX IF NOT EXISTS live_status_transition_video_idx
            ON "live_status_transition" (video_id, observed_at DESC);
        `,
	); err != nil {
		datastore.Errorf(
			"Error when creating table 'live_status_transition': %v", err,
		)
		return err
	}

	datastore.Trace("Created table 'live_status_transition'")
	return nil
}

func (datastore *Datastore) dropStatusTransitionTable() error {
	_, err := datastore.Exec(
		`DROP TABLE IF EXISTS "live_status_transition";`,
	)
	return err
}
