package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"vimeo-live-monitor/config"
	"vimeo-live-monitor/datastore"
	"vimeo-live-monitor/livecache"
	"vimeo-live-monitor/monitor"
	"vimeo-live-monitor/vimeo"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type LiveMonitor struct {
	Config *Configuration `yaml:"LiveMonitor" validate:"required"`
}

type Configuration struct {
	LogLevel  log.Level                `yaml:"LogLevel" validate:"required"`
	Vimeo     *vimeo.Configuration     `yaml:"Vimeo" validate:"required"`
	Datastore *datastore.Configuration `yaml:"Datastore" validate:"required"`
	LiveCache *livecache.Configuration `yaml:"LiveCache" validate:"required"`
	Monitor   *monitor.Configuration   `yaml:"Monitor" validate:"required"`
}

// initMonitor connects the datastore and the live cache with the
// provided config and wires them, together with the api facade,
// into a new monitor.
func initMonitor(ctx context.Context, configuration *Configuration) *monitor.Monitor {
	store := datastore.NewDatastore(configuration.Datastore)
	if err := store.Connect(configuration.Datastore); err != nil {
		log.Panic(err)
	}
	if err := store.Init(); err != nil {
		log.Panic(err)
	}

	cache := livecache.NewCache(configuration.LiveCache)
	if err := cache.Connect(ctx); err != nil {
		log.Panic(err)
	}

	api := vimeo.NewVimeo(configuration.Vimeo)

	return monitor.NewMonitor(
		configuration.Monitor,
		api.Live(),
		store,
		cache,
	)
}

// loadConfig loads the config from the provided yaml
// files into the Configuration object, panics on error
func loadConfig(configFiles []string) *Configuration {
	var liveMonitor LiveMonitor
	err := config.LoadAndValidate(configFiles, &liveMonitor)
	if err != nil {
		log.Panic(err)
	}
	return liveMonitor.Config
}

func main() {
	configFileParam := flag.String(
		"configFiles",
		"config.yaml",
		"File with configuration",
	)
	flag.Parse()

	// Load .env automatically (if present). Real environment
	// variables still override.
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded .env")
	}

	ctx, cancel := context.WithCancel(context.Background())
	shutdownSignal := make(chan os.Signal, 2)
	signal.Notify(shutdownSignal, syscall.SIGTERM, syscall.SIGINT)

	configuration := loadConfig(strings.Split(*configFileParam, ","))
	log.SetLevel(configuration.LogLevel)

	liveMonitor := initMonitor(ctx, configuration)

	go func() {
		// graceful shutdown
		<-shutdownSignal
		log.Println()
		log.Warn("Shutdown requested ...")
		cancel()
		select {
		case <-time.After(time.Second * 10):
		}
		log.Fatal("Forced shutdown")
	}()

	liveMonitor.Run(ctx)
	log.Print("Clean Shutdown")
}
