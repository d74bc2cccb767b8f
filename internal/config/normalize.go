package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeLive()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = defaultServerReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = defaultServerWriteTimeout
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = defaultServerShutdownTimeout
	}
}

func (c *Config) normalizeLive() {
	c.Live.Host = strings.TrimSpace(c.Live.Host)
	if c.Live.Host == "" {
		if value, ok := os.LookupEnv("LIVEBRIDGE_LIVE_HOST"); ok && strings.TrimSpace(value) != "" {
			c.Live.Host = strings.TrimSpace(value)
		} else {
			c.Live.Host = defaultLiveHost
		}
	}
	if c.Live.Port <= 0 {
		c.Live.Port = defaultLivePort
	}
	if c.Live.DialTimeout <= 0 {
		c.Live.DialTimeout = defaultLiveDialTimeout
	}
	if c.Live.IOTimeout <= 0 {
		c.Live.IOTimeout = defaultLiveIOTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
