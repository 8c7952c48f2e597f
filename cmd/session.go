package cmd

import (
	"fmt"
	"io"

	"github.com/matheuskafuri/kanjo/internal/analyzer"
	"github.com/matheuskafuri/kanjo/internal/cache"
	"github.com/matheuskafuri/kanjo/internal/classifier"
	"github.com/matheuskafuri/kanjo/internal/config"
	"github.com/matheuskafuri/kanjo/internal/logging"
	"github.com/sirupsen/logrus"
)

// session is everything a command needs: config, logger, cache and the
// analyzer built on top of them.
type session struct {
	cfg     *config.Config
	log     *logrus.Logger
	store   cache.Store
	svc     *analyzer.Service
	logFile io.Closer
}

func openSession() (*session, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return newSession(cfg)
}

func newSession(cfg *config.Config) (*session, error) {
	log, logFile, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(cfg.Cache.Backend, cfg.CachePath())
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	c, err := classifier.New(cfg, log)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating classifier: %w", err)
	}

	log.WithFields(logrus.Fields{
		"provider": cfg.Model.Provider,
		"backend":  cfg.Cache.Backend,
		"cache":    cfg.CachePath(),
	}).Debug("session opened")

	return &session{
		cfg:     cfg,
		log:     log,
		store:   store,
		svc:     analyzer.New(store, c, analyzer.WithLogger(log)),
		logFile: logFile,
	}, nil
}

func (s *session) Close() error {
	err := s.store.Close()
	if cerr := s.logFile.Close(); err == nil {
		err = cerr
	}
	return err
}
