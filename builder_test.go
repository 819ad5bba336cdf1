// FILE: lixenwraith/typedconf/builder_test.go
package typedconf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestBuilder tests the builder pattern
func TestBuilder(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("BasicBuilder", func(t *testing.T) {
		tc, err := NewBuilder().
			WithArgs(nil).
			WithFile("testdata/test.conf").
			Build()

		require.NoError(t, err)
		count, err := tc.Int64("count")
		require.NoError(t, err)
		assert.Equal(t, int64(100), count)
	})

	t.Run("NoPath", func(t *testing.T) {
		_, err := NewBuilder().WithArgs(nil).Build()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no configuration file specified")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewBuilder().
			WithArgs(nil).
			WithFile(filepath.Join(tmpDir, "missing.conf")).
			Build()
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("FallbackFile", func(t *testing.T) {
		fallback := writeConfig(t, tmpDir, "fallback.conf", "[s]\nsource=fallback\n")

		b := NewBuilder().WithArgs(nil).WithFallbackFile(fallback)
		assert.Equal(t, fallback, b.Path())

		tc, err := b.Build()
		require.NoError(t, err)
		source, _ := tc.String("source")
		assert.Equal(t, "fallback", source)
	})

	t.Run("ExplicitFileWinsOverFallback", func(t *testing.T) {
		explicit := writeConfig(t, tmpDir, "explicit.conf", "[s]\nsource=explicit\n")
		fallback := writeConfig(t, tmpDir, "other.conf", "[s]\nsource=fallback\n")

		tc, err := NewBuilder().
			WithArgs(nil).
			WithFile(explicit).
			WithFallbackFile(fallback).
			Build()
		require.NoError(t, err)
		source, _ := tc.String("source")
		assert.Equal(t, "explicit", source)
	})

	t.Run("LoaderOptions", func(t *testing.T) {
		path := writeConfig(t, tmpDir, "case.conf", "[S]\nKey=1 ; trailing\n")

		opts := DefaultLoaderOptions()
		opts.CaseSensitive = true
		opts.InlineComments = true

		tc, err := NewBuilder().WithArgs(nil).WithFile(path).WithLoaderOptions(opts).Build()
		require.NoError(t, err)
		v, err := tc.Int64("Key")
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)
		assert.False(t, tc.Has("key"))
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder().WithArgs(nil).MustBuild()
		})
	})

	t.Run("NilLoggerAndValidator", func(t *testing.T) {
		tc := NewBuilder().
			WithArgs(nil).
			WithFile("testdata/test.conf").
			WithLogger(nil).
			WithValidator(nil).
			MustBuild()
		assert.Equal(t, 7, tc.Len())
	})
}

// TestBuilderWithValidator tests validators run after typing
func TestBuilderWithValidator(t *testing.T) {
	t.Run("ValidatorsPass", func(t *testing.T) {
		var calls []string
		tc, err := NewBuilder().
			WithArgs(nil).
			WithFile("testdata/test.conf").
			WithValidator(func(tc *TypedConfig) error {
				calls = append(calls, "first")
				return nil
			}).
			WithValidator(Require("debug", "count")).
			WithValidator(RequireKind("average", KindFloat)).
			WithValidator(func(tc *TypedConfig) error {
				calls = append(calls, "last")
				return nil
			}).
			Build()

		require.NoError(t, err)
		assert.NotNil(t, tc)
		assert.Equal(t, []string{"first", "last"}, calls)
	})

	t.Run("ValidatorFails", func(t *testing.T) {
		errPort := errors.New("port must be set")
		tc, err := NewBuilder().
			WithArgs(nil).
			WithFile("testdata/test.conf").
			WithValidator(func(tc *TypedConfig) error {
				if !tc.Has("port") {
					return errPort
				}
				return nil
			}).
			Build()

		assert.Nil(t, tc)
		require.Error(t, err)
		assert.ErrorIs(t, err, errPort)
		assert.Contains(t, err.Error(), "configuration validation failed")
	})

	t.Run("RequireKindFails", func(t *testing.T) {
		_, err := NewBuilder().
			WithArgs(nil).
			WithFile("testdata/test.conf").
			WithValidator(RequireKind("number_with_comma", KindInteger)).
			Build()
		assert.ErrorIs(t, err, ErrKindMismatch)
	})
}

// TestBuilderLogging tests the diagnostics emitted through zap
func TestBuilderLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	path := writeConfig(t, t.TempDir(), "dupes.conf", "[a]\nport=1\n[b]\nport=2\nname\n")

	tc, err := NewBuilder().WithArgs(nil).WithFile(path).WithLogger(logger).Build()
	require.NoError(t, err)
	port, _ := tc.Int64("port")
	assert.Equal(t, int64(2), port)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "port", warnings[0].ContextMap()["key"])
	assert.Equal(t, path, warnings[0].ContextMap()["path"])

	loaded := logs.FilterMessage("configuration loaded").All()
	require.Len(t, loaded, 1)
	fields := loaded[0].ContextMap()
	assert.Equal(t, int64(2), fields["sections"])
	assert.Equal(t, int64(2), fields["keys"])
	assert.Equal(t, int64(1), fields["integer"])
	assert.Equal(t, int64(1), fields["none"])

	_, err = NewBuilder().WithArgs(nil).WithFile(path + ".missing").WithLogger(logger).Build()
	assert.Error(t, err)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}
