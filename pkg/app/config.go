package app

import (
	"github.com/dakshbank/ledger-service/config"
	"github.com/dakshbank/ledger-service/pkg/core/diag"
)

// LoadConfig will load and initialize config
func LoadConfig() *config.AppConfig {
	return config.LoadAppConfig()
}

// SetupLogging initializes the logging system from config
func SetupLogging(appCfg *config.AppConfig) {
	diag.SetupLoggingSystem(func(setup diag.LoggingSystemSetup) {
		setup.SetLogLevel(appCfg.Log.Level.Value())
	})
}
