// Package livecache mirrors the latest observed live-stream state of
// every watched video into redis, so other services can read the
// current view without going through the api or postgres.
package livecache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Configuration struct {
	LogLevel log.Level `yaml:"LogLevel" validate:"required"`
	Addr     string    `yaml:"Addr" validate:"required"`
	Password string    `yaml:"Password"`
	DB       int       `yaml:"Db"`
	// TTLHours bounds how long a state survives without being
	// refreshed by the monitor. Defaults to a week.
	TTLHours int `yaml:"TtlHours"`
}

// Entry is the serialized state stored per video.
type Entry struct {
	VideoID            string     `json:"video_id"`
	Status             string     `json:"status"`
	RTMPLink           string     `json:"rtmp_link,omitempty"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type Cache struct {
	*log.Logger
	client *redis.Client
	ttl    time.Duration
}

// KeyForVideo returns the redis key holding the provided video's
// latest state.
// Use {...} so redis cluster users get stable hash slotting per video key.
func KeyForVideo(videoID string) string {
	return fmt.Sprintf("vimeo_live:{%s}", videoID)
}

// NewCache constructs an object that handles mirroring the latest
// observed live state per video to redis.
func NewCache(config *Configuration) *Cache {
	l := log.New()
	l.SetLevel(config.LogLevel)

	ttl := time.Duration(config.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Cache{
		Logger: l,
		client: redis.NewClient(&redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
		}),
		ttl: ttl,
	}
}

// Connect pings redis so we make sure there is a valid connection.
func (cache *Cache) Connect(ctx context.Context) error {
	cache.Info("Pinging redis ...")
	if err := cache.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	cache.Info("Redis connection established")
	return nil
}

// SetLatest stores the provided entry as the video's current state.
// Each update refreshes the key's ttl.
func (cache *Cache) SetLatest(ctx context.Context, entry *Entry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry %s: %w", entry.VideoID, err)
	}
	key := KeyForVideo(entry.VideoID)
	if err := cache.client.Set(ctx, key, string(b), cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	cache.WithFields(log.Fields{
		"VideoID": entry.VideoID,
		"Status":  entry.Status,
	}).Trace("Mirrored live state to redis")
	return nil
}

// GetLatest fetches the video's current state from the mirror.
// Returns nil when nothing is cached for the video.
func (cache *Cache) GetLatest(ctx context.Context, videoID string) (*Entry, error) {
	key := KeyForVideo(videoID)
	raw, err := cache.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", key, err)
	}
	entry := &Entry{}
	if err := json.Unmarshal([]byte(raw), entry); err != nil {
		return nil, fmt.Errorf("unmarshal entry %s: %w", videoID, err)
	}
	return entry, nil
}

// Remove drops the video's state from the mirror, e.g. when it
// leaves the watch list.
func (cache *Cache) Remove(ctx context.Context, videoID string) error {
	key := KeyForVideo(videoID)
	if err := cache.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis DEL %s: %w", key, err)
	}
	return nil
}

// RemoveUnwatched drops every mirrored state that does not belong to
// one of the watched videos, so entries for videos taken off the
// watch list do not linger until their ttl expires.
func (cache *Cache) RemoveUnwatched(ctx context.Context, watched []string) error {
	keep := make(map[string]struct{}, len(watched))
	for _, videoID := range watched {
		keep[KeyForVideo(videoID)] = struct{}{}
	}

	removed := 0
	iter := cache.client.Scan(ctx, 0, KeyForVideo("*"), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if _, ok := keep[key]; ok {
			continue
		}
		if err := cache.Remove(ctx, videoIDFromKey(key)); err != nil {
			return err
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis SCAN %s: %w", KeyForVideo("*"), err)
	}

	if removed > 0 {
		cache.Infof("Removed %d unwatched live states", removed)
	}
	return nil
}

// videoIDFromKey is the inverse of KeyForVideo.
func videoIDFromKey(key string) string {
	return strings.TrimSuffix(strings.TrimPrefix(key, "vimeo_live:{"), "}")
}

// Close closes the underlying redis client.
func (cache *Cache) Close() error {
	return cache.client.Close()
}
