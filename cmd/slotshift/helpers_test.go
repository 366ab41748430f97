package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"write blocked", fmt.Errorf("put: %w", types.ErrWriteBlocked), exitUserError},
		{"unknown viewer", types.ErrViewerNotFound, exitUserError},
		{"no room", types.ErrInsufficientSpace, exitUserError},
		{"cancelled", types.ErrUserCancelled, exitUserError},
		{"detached", types.ErrStoreDetached, exitSysError},
		{"other", errors.New("disk full"), exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestDropMods(t *testing.T) {
	assert.Equal(t, types.Modifiers(0), dropMods(false, false, false))
	assert.Equal(t, types.ModShift, dropMods(true, false, false))
	assert.Equal(t, types.ModAlt|types.ModControl, dropMods(false, true, true))
}

func TestPrintMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	drops := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{Name: "drops_total"}, []string{"kind"})
	drops.WithLabelValues("single").Add(2)

	var buf bytes.Buffer
	printMetrics(&buf, reg)

	assert.Equal(t, "drops_total{kind=single} 2\n", buf.String())
}

func TestLoadConfigWritesDefaultFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")

	cfg, err := loadConfig(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
	assert.Empty(t, cfg.DataDir)
}
