package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"lingocast/internal/cachestore"
	"lingocast/internal/config"
	"lingocast/internal/logging"
	"lingocast/internal/transcriptcache"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

var errLocalCacheDisabled = errors.New("local transcript cache is disabled (transcripts.local_cache = false)")

// openStore opens the local cache. It returns nil without error when the
// cache is disabled.
func (c *commandContext) openStore() (*cachestore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Transcripts.LocalCache {
		return nil, nil
	}
	return cachestore.Open(cfg)
}

// newCache builds the tiered transcript cache. The returned close function
// releases the local store.
func (c *commandContext) newCache() (*transcriptcache.Cache, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	store, err := c.openStore()
	if err != nil {
		return nil, nil, err
	}
	var local transcriptcache.LocalStore
	closeFn := func() {}
	if store != nil {
		local = store
		closeFn = func() { _ = store.Close() }
	}
	cache, err := transcriptcache.NewFromConfig(cfg, local, logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return cache, closeFn, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
