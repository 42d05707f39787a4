package config

// Builder is a tool to setup config
type Builder struct {
	appEnv         AppEnv
	paramsBuilders []*ParamsBuilder
}

// NewBuilder returns an instance of a config builder
func NewBuilder(appEnv AppEnv) *Builder {
	return &Builder{appEnv: appEnv}
}

// SourceFactory is a func that creates an instance of a source
type SourceFactory func() (Source, error)

// WithLocalSource creates a source factory for a local source
// that will point on configs dir
func (b *Builder) WithLocalSource() SourceFactory {
	return func() (Source, error) {
		return NewLocalSource(
			LocalOpts.WithAppEnv(b.appEnv),
			LocalOpts.WithIgnoreDefaultService(),
		)
	}
}

// NewParamsBuilder is a builder to build params bound to a given source
func (b *Builder) NewParamsBuilder(sourceFactory SourceFactory) *ParamsBuilder {
	pb := &ParamsBuilder{
		params:        []param{},
		serviceName:   b.appEnv.ServiceName,
		sourceFactory: sourceFactory,
	}
	b.paramsBuilders = append(b.paramsBuilders, pb)
	return pb
}

// LoadConfig loads the config with sources and params built
func (b *Builder) LoadConfig(loadOpts ...ServiceConfigOpt) (ServiceConfig, error) {
	sourceOpts := make([]ServiceConfigOpt, 0, len(b.paramsBuilders))
	for _, paramsBuilder := range b.paramsBuilders {
		source, err := paramsBuilder.sourceFactory()
		if err != nil {
			return nil, err
		}
		sourceOpts = append(sourceOpts, WithSource(sourceBinding{
			params: paramsBuilder.params,
			source: source,
		}))
	}

	cfg, err := Load(append(loadOpts, sourceOpts...)...)
	if err != nil {
		logger.WithError(err).Error(nil, "Failed to load config")
		return nil, err
	}
	return cfg, nil
}

// ParamsBuilder is a tool to build params bound to particular source
type ParamsBuilder struct {
	// List of all built params
	params []param

	serviceName   string
	sourceFactory SourceFactory
}

// NewParam starts building a param with a given key
func (pb *ParamsBuilder) NewParam(key string) *ParamBuilder {
	return &ParamBuilder{key: key, paramsBuilder: pb}
}

// ParamBuilder builds a param of a particular type
type ParamBuilder struct {
	key           string
	paramsBuilder *ParamsBuilder
}

// String builds a string param
func (pb *ParamBuilder) String() StringParam {
	p := newStringParam(pb.key, pb.paramsBuilder.serviceName)
	pb.paramsBuilder.params = append(pb.paramsBuilder.params, p)
	return p
}

// Int builds an int param
func (pb *ParamBuilder) Int() IntParam {
	p := newIntParam(pb.key, pb.paramsBuilder.serviceName)
	pb.paramsBuilder.params = append(pb.paramsBuilder.params, p)
	return p
}

// Bool builds a bool param
func (pb *ParamBuilder) Bool() BoolParam {
	p := newBoolParam(pb.key, pb.paramsBuilder.serviceName)
	pb.paramsBuilder.params = append(pb.paramsBuilder.params, p)
	return p
}
