package datastore

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type Datastore struct {
	*log.Logger
	*sql.DB
	idx int
}

type Configuration struct {
	LogLevel log.Level `yaml:"LogLevel" validate:"required"`
	Database string    `yaml:"Database" validate:"required"`
	Host     string    `yaml:"Host" validate:"required"`
	Port     int       `yaml:"Port" validate:"required"`
	User     string    `yaml:"User" validate:"required"`
	Password string    `yaml:"Password" validate:"required"`
}

// NewDatastore constructs an object that handles persisting the
// observed live-status transitions to the postgres database and
// fetching them back. It does not implement any of the
// monitor's logics.
func NewDatastore(config *Configuration) *Datastore {
	l := log.New()
	l.SetLevel(config.LogLevel)
	l.Debug("Datastore created")
	return &Datastore{Logger: l}
}

// Connect opens a new postgres connection based on the
// provided database configuration.
func (datastore *Datastore) Connect(configuration *Configuration) error {
	datastore.Info("Opening postgres connection ...")

	db, err := sql.Open(
		"postgres",
		fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			configuration.Host,
			configuration.Port,
			configuration.User,
			configuration.Password,
			configuration.Database,
		),
	)
	if err != nil {
		return err
	}
	// NOTE: ping the database so we make sure there is a valid connection
	if err := db.Ping(); err != nil {
		return err
	}
	datastore.DB = db

	datastore.Info("Postgres connection established")
	return nil
}

// Init creates all the tables required by the datastore.
func (datastore *Datastore) Init() error {
	datastore.Debug("Initializing datastore ...")

	if err := datastore.createStatusTransitionTable(); err != nil {
		return err
	}

	datastore.Info("Datastore initialized")
	return nil
}

// Destroy drops the tables created by the datastore.
func (datastore *Datastore) Destroy() error {
	return datastore.dropStatusTransitionTable()
}

// getIdx returns a short rolling id used to pair up the start/done
// trace logs of a single datastore operation.
func (datastore *Datastore) getIdx() int {
	i := datastore.idx
	datastore.idx = ((datastore.idx + 1) % 100)
	return i
}
