//go:build integration
// +build integration

package integrationtest

import (
	"sync"

	"github.com/humanbelnik/moviemingle/internal/config"
)

var (
	cfgOnce sync.Once
	cfg     *config.Config
)

func getConfig() *config.Config {
	cfgOnce.Do(func() {
		cfg = config.FromEnv()
	})
	return cfg
}
