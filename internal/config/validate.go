package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLive(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind must be set")
	}
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind must be host:port: %w", err)
	}
	return ensurePositiveMap(map[string]int{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	})
}

func (c *Config) validateLive() error {
	if strings.TrimSpace(c.Live.Host) == "" {
		return errors.New("live.host must be set")
	}
	if c.Live.Port < 1 || c.Live.Port > 65535 {
		return errors.New("live.port must be between 1 and 65535")
	}
	return ensurePositiveMap(map[string]int{
		"live.dial_timeout": c.Live.DialTimeout,
		"live.io_timeout":   c.Live.IOTimeout,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
