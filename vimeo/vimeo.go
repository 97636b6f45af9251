package vimeo

import (
	"vimeo-live-monitor/client"
	"vimeo-live-monitor/vimeo/live"

	log "github.com/sirupsen/logrus"
)

// Configuration holds everything needed to talk to the api:
// the endpoint, the requested api version and exactly one of the two
// credential sources (a user access token or app credentials).
type Configuration struct {
	LogLevel         log.Level `yaml:"LogLevel" validate:"required"`
	BaseUrl          string    `yaml:"BaseUrl"`
	ApiVersion       string    `yaml:"ApiVersion" validate:"required"`
	AccessToken      string    `yaml:"AccessToken"`
	ClientIdentifier string    `yaml:"ClientIdentifier"`
	ClientSecret     string    `yaml:"ClientSecret"`
	FrameworkVersion string    `yaml:"FrameworkVersion" validate:"required"`
}

type Vimeo struct {
	live *live.Live
}

// NewVimeo constructs an object that handles the integration with
// the video platform's rest api.
func NewVimeo(config *Configuration) *Vimeo {
	l := log.New()
	l.SetLevel(config.LogLevel)

	opts := client.Options{
		APIVersion:       config.ApiVersion,
		FrameworkVersion: config.FrameworkVersion,
		Logger:           l,
	}
	if config.AccessToken != "" {
		opts.TokenProvider = client.StaticToken(config.AccessToken)
	}
	if config.ClientIdentifier != "" || config.ClientSecret != "" {
		opts.App = &client.AppConfiguration{
			ClientIdentifier: config.ClientIdentifier,
			ClientSecret:     config.ClientSecret,
		}
	}
	c := client.NewClient(config.BaseUrl, opts)
	return &Vimeo{
		live: live.NewLive(c, l),
	}
}

// Live returns an object that handles fetching
// live-stream state from the api.
func (v *Vimeo) Live() *live.Live {
	return v.live
}
