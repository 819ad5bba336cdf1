// File: lixenwraith/typedconf/builder.go
package typedconf

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// ValidatorFunc defines the signature for a function that can validate a TypedConfig.
// It receives the fully built *TypedConfig and should return an error if validation fails.
type ValidatorFunc func(tc *TypedConfig) error

// Builder provides a fluent interface for loading typed configurations
type Builder struct {
	file       string
	fallback   string
	discovery  *FileDiscoveryOptions
	args       []string
	opts       LoaderOptions
	logger     *zap.Logger
	validators []ValidatorFunc
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		args:       os.Args[1:],
		opts:       DefaultLoaderOptions(),
		logger:     zap.NewNop(),
		validators: make([]ValidatorFunc, 0),
	}
}

// WithFile sets the configuration file path. An explicit file takes
// precedence over discovery and the fallback path.
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithFallbackFile sets the path used when neither WithFile nor discovery
// produced one
func (b *Builder) WithFallbackFile(path string) *Builder {
	b.fallback = path
	return b
}

// WithFileDiscovery enables automatic config file discovery
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	b.discovery = &opts
	return b
}

// WithArgs sets the command-line arguments inspected by discovery
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithLoaderOptions sets the INI reader options
func (b *Builder) WithLoaderOptions(opts LoaderOptions) *Builder {
	b.opts = opts
	return b
}

// WithLogger sets the logger; nil restores the no-op logger
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	b.logger = logger
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Path returns the file Build will load
func (b *Builder) Path() string {
	if b.file != "" {
		return b.file
	}
	if b.discovery != nil {
		if path, found := DiscoverFile(*b.discovery, b.args); found {
			return path
		}
	}
	return b.fallback
}

// Build loads the file, types every value and runs validators
func (b *Builder) Build() (*TypedConfig, error) {
	path := b.Path()
	if path == "" {
		return nil, errors.New("no configuration file specified")
	}

	log := b.logger.With(zap.String("path", path))

	raw, err := LoadFile(path, b.opts)
	if err != nil {
		log.Error("failed to load configuration", zap.Error(err))
		return nil, err
	}

	for _, key := range raw.RedefinedKeys() {
		log.Warn("key defined in multiple sections, last definition wins", zap.String("key", key))
	}

	tc := Build(raw)

	count := tc.Count()
	log.Debug("configuration loaded",
		zap.Int("sections", len(raw.Sections())),
		zap.Int("keys", tc.Len()),
		zap.Int("integer", count[KindInteger]),
		zap.Int("float", count[KindFloat]),
		zap.Int("boolean", count[KindBoolean]),
		zap.Int("string", count[KindString]),
		zap.Int("none", count[KindNone]),
	)

	for _, validator := range b.validators {
		if err := validator(tc); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return tc, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *TypedConfig {
	tc, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return tc
}
