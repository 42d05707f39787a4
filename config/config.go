package config

import (
	"github.com/dakshbank/ledger-service/pkg/core/config"
	"github.com/dakshbank/ledger-service/pkg/version"
)

var appEnv = config.NewAppEnv(version.AppName)
var configBuilder = config.NewBuilder(appEnv)

var localParams = configBuilder.NewParamsBuilder(configBuilder.WithLocalSource())

// Do not change vars below at runtime
var (
	LogLevel = localParams.NewParam("log/logLevel").String()

	RuntimeEnv = localParams.NewParam("runtimeEnv").String()

	ServerPort = localParams.NewParam("server/port").Int()

	StorageDriver = localParams.NewParam("storage/driver").String()
	StorageDSN    = localParams.NewParam("storage/data-source-name").String()

	AuthTokenTTLHours = localParams.NewParam("auth/token-ttl-hours").Int()

	AdmissionGeneralPerSecond = localParams.NewParam("admission/general-per-second").Int()
	AdmissionGeneralBurst     = localParams.NewParam("admission/general-burst").Int()

	AdmissionAuthPerSecond = localParams.NewParam("admission/auth-per-second").Int()
	AdmissionAuthBurst     = localParams.NewParam("admission/auth-burst").Int()

	AdmissionTransactionPerSecond = localParams.NewParam("admission/transaction-per-second").Int()
	AdmissionTransactionBurst     = localParams.NewParam("admission/transaction-burst").Int()
)

// Log represents logger specific options
type Log struct {
	Level config.StringVal
}

// Server represents http server settings
type Server struct {
	Port config.IntVal
}

// Storage represents storage settings
type Storage struct {
	Driver config.StringVal
	DSN    config.StringVal
}

// Auth represents auth settings
type Auth struct {
	TokenTTLHours config.IntVal
}

// AdmissionBudget is a per class admission budget
type AdmissionBudget struct {
	PerSecond config.IntVal
	Burst     config.IntVal
}

// Admission represents admission filter settings
type Admission struct {
	General     AdmissionBudget
	Auth        AdmissionBudget
	Transaction AdmissionBudget
}

// AppConfig is a toplevel config structure
type AppConfig struct {
	Log       Log
	Server    Server
	Storage   Storage
	Auth      Auth
	Admission Admission
}

// LoadAppConfig will load and initialize app config structure
func LoadAppConfig() *AppConfig {
	cfg, err := configBuilder.LoadConfig()
	if err != nil {
		panic(err)
	}

	appCfg := AppConfig{
		Log: Log{
			Level: cfg.StringParam(LogLevel),
		},
		Server: Server{
			Port: cfg.IntParam(ServerPort),
		},
		Storage: Storage{
			Driver: cfg.StringParam(StorageDriver),
			DSN:    cfg.StringParam(StorageDSN),
		},
		Auth: Auth{
			TokenTTLHours: cfg.IntParam(AuthTokenTTLHours),
		},
		Admission: Admission{
			General: AdmissionBudget{
				PerSecond: cfg.IntParam(AdmissionGeneralPerSecond),
				Burst:     cfg.IntParam(AdmissionGeneralBurst),
			},
			Auth: AdmissionBudget{
				PerSecond: cfg.IntParam(AdmissionAuthPerSecond),
				Burst:     cfg.IntParam(AdmissionAuthBurst),
			},
			Transaction: AdmissionBudget{
				PerSecond: cfg.IntParam(AdmissionTransactionPerSecond),
				Burst:     cfg.IntParam(AdmissionTransactionBurst),
			},
		},
	}

	return &appCfg
}
