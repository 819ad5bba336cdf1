package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lixenwraith/typedconf"
)

const sampleFile = "../../testdata/test.conf"

func runCmd(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunPrintsTables(t *testing.T) {
	code, stdout, stderr := runCmd("--log-level", "error", sampleFile)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Typed configuration:")
	assert.Contains(t, stdout, "  integer (2):\n    count = 100\n    number_with_padding = 1\n")
	assert.Contains(t, stdout, "  float (1):\n    average = 1.1\n")
	assert.Contains(t, stdout, "  boolean (1):\n    debug = true\n")
	assert.Contains(t, stdout, `number_with_space = "100 0000"`)
	assert.Contains(t, stdout, "  none (1):\n    value_less\n")
}

func TestRunJSONFormat(t *testing.T) {
	code, stdout, stderr := runCmd("-f", "json", "--config", sampleFile)
	require.Equal(t, 0, code, stderr)

	var tree struct {
		Integer map[string]any    `json:"integer"`
		Float   map[string]any    `json:"float"`
		Boolean map[string]bool   `json:"boolean"`
		String  map[string]string `json:"string"`
		None    []string          `json:"none"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &tree))

	assert.Equal(t, 100.0, tree.Integer["count"])
	assert.Equal(t, 1.1, tree.Float["average"])
	assert.True(t, tree.Boolean["debug"])
	assert.Equal(t, "1,000", tree.String["number_with_comma"])
	assert.Equal(t, []string{"value_less"}, tree.None)
}

func TestRunMissingFile(t *testing.T) {
	code, stdout, stderr := runCmd(filepath.Join(t.TempDir(), "missing.conf"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "typedconf: configuration file not found")
}

func TestRunSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.conf")
	require.NoError(t, os.WriteFile(path, []byte("[broken\n"), 0644))

	code, _, stderr := runCmd(path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unclosed section header")
}

func TestRunRequire(t *testing.T) {
	code, _, stderr := runCmd("-r", "debug", "-r", "port", sampleFile)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "missing required configuration: port")

	code, _, stderr = runCmd("-r", "debug", "--require", "value_less", sampleFile)
	assert.Equal(t, 0, code, stderr)
}

func TestRunEnvDiscovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.conf")
	require.NoError(t, os.WriteFile(path, []byte("[s]\nfrom_env = yes\n"), 0644))
	t.Setenv("TYPEDCONF_CONFIG", path)

	code, stdout, stderr := runCmd()
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `from_env = "yes"`)
}

func TestRunLoaderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.conf")
	require.NoError(t, os.WriteFile(path, []byte("[S]\nPort = 80 ; http\n"), 0644))

	code, stdout, stderr := runCmd("--case-sensitive", "--inline-comments", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "    Port = 80\n")

	code, stdout, _ = runCmd(path)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `port = "80 ; http"`)
}

func TestRunUsage(t *testing.T) {
	code, stdout, _ := runCmd("--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "--format")

	code, _, stderr := runCmd("--format", "xml", sampleFile)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "typedconf:")

	code, _, _ = runCmd("--no-such-flag")
	assert.Equal(t, 2, code)

	code, _, stderr = runCmd("--log-level", "trace", sampleFile)
	assert.Equal(t, 2, code, stderr)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReprints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.conf")
	require.NoError(t, os.WriteFile(path, []byte("[s]\nport=1\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, typedconf.DefaultLoaderOptions(), typedconf.FormatText, out, zap.NewNop())
	}()

	attempt := 1
	require.Eventually(t, func() bool {
		attempt++
		content := fmt.Sprintf("[s]\nport=%d\n", attempt)
		_ = os.WriteFile(path, []byte(content), 0644)
		return strings.Contains(out.String(), "    port = ")
	}, 5*time.Second, 400*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}

func TestRunOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "typed.yaml")

	code, stdout, stderr := runCmd("-f", "yaml", "-o", out, sampleFile)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "count: 100")
	assert.Contains(t, string(data), "- value_less")
}
