package commands

import (
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/spf13/viper"
)

// ConfigPersister implements the auth.ConfigPersister interface.
type ConfigPersister struct {
	mutex sync.Mutex
	now   func() time.Time
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{now: time.Now}
}

// UpdateAPIToken stores a newly granted token when apiURL matches the saved API URL.
func (p *ConfigPersister) UpdateAPIToken(apiURL, token string, expiresAt time.Time) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config, err := readConfigFile()
	if err != nil {
		return err
	}

	if config.APIURL != "" && config.APIURL != apiURL {
		return fmt.Errorf("API configuration for '%s': %w", apiURL, constants.ErrAPIConfigNotFound)
	}

	config.Token = token
	if !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	now := p.now()
	config.LastRefreshed = &now

	err = saveConfigStruct(config)
	if err != nil {
		return err
	}

	// Keep the in-process view current for the rest of this invocation.
	viper.Set(KeyToken, token)
	viper.Set(KeyTokenExpiresAt, expiresAt)

	return nil
}
