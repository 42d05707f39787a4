package config

import (
	"context"
	"flag"
	"os"

	"github.com/pkg/errors"

	uuid "github.com/satori/go.uuid"

	"github.com/dakshbank/ledger-service/pkg/core/diag"
)

const (
	appEnvVar = "APP_ENV"

	facetVar = "APP_ENV_FACET"
)

var logger = diag.CreateLogger()

// AppEnv represents app env
type AppEnv struct {
	// ServiceName is a name of a current service
	ServiceName string

	// Name is a env name. By default taken from APP_ENV
	Name string

	// Facet is a env facet like preprod (for production). By default taken from APP_ENV_FACET
	Facet string
}

type appEnvCfg struct {
	lookupFlag func(name string) *flag.Flag
}

type appEnvOpt func(*appEnvCfg)

func withLookupFlag(lookupFlag func(name string) *flag.Flag) appEnvOpt {
	return func(cfg *appEnvCfg) {
		cfg.lookupFlag = lookupFlag
	}
}

// NewAppEnv creates a new instance of the app env from os env
// Will use "dev" by default
func NewAppEnv(serviceName string, opts ...appEnvOpt) AppEnv {
	cfg := appEnvCfg{
		lookupFlag: flag.Lookup,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	appEnv := os.Getenv(appEnvVar)
	if appEnv == "" {
		if v := cfg.lookupFlag("test.v"); v == nil {
			appEnv = "dev"
		} else {
			appEnv = "test"
		}
	}
	facet := os.Getenv(facetVar)
	return AppEnv{
		Name:        appEnv,
		Facet:       facet,
		ServiceName: serviceName,
	}
}

// Source is an abstraction to read params
type Source interface {
	GetParameters(ctx context.Context, params []param) (map[string]interface{}, error)
}

type sourceBinding struct {
	source Source
	params []param
}

// ServiceConfig holds loaded param values
type ServiceConfig interface {
	StringParam(p StringParam) StringVal
	IntParam(p IntParam) IntVal
	BoolParam(p BoolParam) BoolVal
}

type serviceConfig struct {
	values map[string]paramValue
}

func (cfg *serviceConfig) paramValue(p param) paramValue {
	val, ok := cfg.values[p.key()]
	if !ok {
		panic("Parameter not bound: " + p.key())
	}
	return val
}

func (cfg *serviceConfig) StringParam(p StringParam) StringVal {
	return cfg.paramValue(p).(StringVal)
}

func (cfg *serviceConfig) IntParam(p IntParam) IntVal {
	return cfg.paramValue(p).(IntVal)
}

func (cfg *serviceConfig) BoolParam(p BoolParam) BoolVal {
	return cfg.paramValue(p).(BoolVal)
}

type loadCfg struct {
	bindings []sourceBinding
}

// ServiceConfigOpt represents a load option
type ServiceConfigOpt func(cfg *loadCfg)

// WithSource is a load option that binds params to a source
func WithSource(binding sourceBinding) ServiceConfigOpt {
	return func(cfg *loadCfg) {
		cfg.bindings = append(cfg.bindings, binding)
	}
}

// Load will fetch values of bound params from their sources
func Load(opts ...ServiceConfigOpt) (ServiceConfig, error) {
	cfg := loadCfg{}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := diag.ContextWithRequestID(context.Background(), uuid.NewV4().String())
	logger.Info(ctx, "Loading initial config values")

	result := &serviceConfig{values: map[string]paramValue{}}
	for _, binding := range cfg.bindings {
		values, err := binding.source.GetParameters(ctx, binding.params)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to fetch config values")
		}
		logger.Debug(ctx, "Fetched %v (of %v requested) values", len(values), len(binding.params))
		for _, sourceParam := range binding.params {
			value, ok := values[sourceParam.key()]
			if !ok {
				return nil, errors.Errorf("Parameter %v not found", sourceParam.key())
			}

			paramVal := sourceParam.emptyValue()
			if err := paramVal.setValue(value); err != nil {
				return nil, errors.Wrapf(err, "Failed to set parameter %v value", sourceParam.key())
			}
			result.values[sourceParam.key()] = paramVal
		}
	}
	return result, nil
}
