package datastore_test

import (
	"testing"
	"time"

	"vimeo-live-monitor/datastore"
	"vimeo-live-monitor/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type TransitionStoreTestSuite struct {
	store *datastore.Datastore
	suite.Suite
}

// SetupSuite runs when the suite is initialized and connects
// to the database.
func (s *TransitionStoreTestSuite) SetupSuite() {
	config := &datastore.Configuration{
		LogLevel: logrus.WarnLevel,
		Database: "vimeo_live_monitor_test",
		Host:     "postgres",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
	}
	s.store = datastore.NewDatastore(config)
	s.NoError(s.store.Connect(config))
}

// SetupTest runs before every test and recreates the tables.
func (s *TransitionStoreTestSuite) SetupTest() {
	s.NoError(s.store.Destroy())
	s.NoError(s.store.Init())
}

// TearDownSuite runs after all tests have been run, drops the
// created tables and closes the database connection.
func (s *TransitionStoreTestSuite) TearDownSuite() {
	s.NoError(s.store.Destroy())
	s.NoError(s.store.Close())
}

// TestIntegrationRecordAndFetch persists a few transitions and
// fetches them back, newest first.
func (s *TransitionStoreTestSuite) TestIntegrationRecordAndFetch() {
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	transitions := []*model.StatusTransition{
		{
			VideoID:        "VIDEO-ID-TEST",
			PreviousStatus: "unavailable",
			NewStatus:      "ready",
			ObservedAt:     base,
		},
		{
			VideoID:        "VIDEO-ID-TEST",
			PreviousStatus: "ready",
			NewStatus:      "streaming",
			RTMPLink:       "rtmp://rtmp.cloud.vimeo.com/live/abc",
			ObservedAt:     base.Add(time.Minute),
		},
		{
			VideoID:        "OTHER-VIDEO",
			PreviousStatus: "unavailable",
			NewStatus:      "pending",
			ObservedAt:     base.Add(2 * time.Minute),
		},
	}
	for _, transition := range transitions {
		s.NoError(s.store.RecordTransition(transition))
		s.NotZero(transition.ID)
	}

	fetched, err := s.store.GetTransitionsForVideo("VIDEO-ID-TEST", 0)
	s.NoError(err)
	s.Len(fetched, 2)

	s.Equal("streaming", fetched[0].NewStatus)
	s.Equal("ready", fetched[0].PreviousStatus)
	s.Equal("rtmp://rtmp.cloud.vimeo.com/live/abc", fetched[0].RTMPLink)
	s.Equal("ready", fetched[1].NewStatus)
}

// TestIntegrationLatestStatus records transitions and checks that
// the latest status is returned, or an empty string for a video
// without any.
func (s *TransitionStoreTestSuite) TestIntegrationLatestStatus() {
	status, err := s.store.GetLatestStatus("VIDEO-ID-TEST")
	s.NoError(err)
	s.Empty(status)

	base := time.Now().Truncate(time.Second)
	s.NoError(s.store.RecordTransition(&model.StatusTransition{
		VideoID:        "VIDEO-ID-TEST",
		PreviousStatus: "unavailable",
		NewStatus:      "streaming",
		ObservedAt:     base,
	}))
	s.NoError(s.store.RecordTransition(&model.StatusTransition{
		VideoID:        "VIDEO-ID-TEST",
		PreviousStatus: "streaming",
		NewStatus:      "done",
		ObservedAt:     base.Add(time.Minute),
	}))

	status, err = s.store.GetLatestStatus("VIDEO-ID-TEST")
	s.NoError(err)
	s.Equal("done", status)
}

// TestIntegrationDefaultObservedAt tests that a transition without
// an explicit timestamp gets one assigned on insert.
func (s *TransitionStoreTestSuite) TestIntegrationDefaultObservedAt() {
	transition := &model.StatusTransition{
		VideoID:        "VIDEO-ID-TEST",
		PreviousStatus: "unavailable",
		NewStatus:      "ready",
	}
	s.NoError(s.store.RecordTransition(transition))
	s.False(transition.ObservedAt.IsZero())
}

func TestTransitionStoreTestSuite(t *testing.T) {
	suite.Run(t, new(TransitionStoreTestSuite))
}
