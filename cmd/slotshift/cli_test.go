package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// slotshiftBin is the path to the built slotshift binary.
	slotshiftBin string
	// buildErr captures any build error.
	buildErr error
)

// TestMain builds the slotshift binary once before running tests.
func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "slotshift-test-*")
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}
	slotshiftBin = filepath.Join(tmpDir, "slotshift")

	cmd := exec.Command("go", "build", "-o", slotshiftBin, ".")
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = errors.New(err.Error() + ": " + string(output))
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// testEnv is an isolated config, data, and temp directory.
type testEnv struct {
	t       *testing.T
	root    string
	config  string
	dataDir string
	tempDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	require.NoError(t, buildErr, "building slotshift")

	root := t.TempDir()
	env := &testEnv{
		t:       t,
		root:    root,
		config:  filepath.Join(root, "config"),
		dataDir: filepath.Join(root, "data"),
		tempDir: filepath.Join(root, "tmp"),
	}
	require.NoError(t, os.MkdirAll(env.config, 0o755))
	cfg := "backend: sqlite\ndata_dir: " + env.dataDir + "\nlog_level: error\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.config, "config.yaml"), []byte(cfg), 0o644))
	return env
}

type cmdResult struct {
	stdout   string
	stderr   string
	exitCode int
}

func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()
	all := append([]string{"--config-dir", e.config, "--temp-dir", e.tempDir, "--yes"}, args...)
	cmd := exec.Command(slotshiftBin, all...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		require.True(e.t, errors.As(err, &exitErr), "running slotshift: %v", err)
		code = exitErr.ExitCode()
	}
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), exitCode: code}
}

func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run(args...)
	require.Equal(e.t, exitSuccess, res.exitCode, "slotshift %v\nstdout: %s\nstderr: %s", args, res.stdout, res.stderr)
	return res
}

type listed struct {
	Viewer string `json:"viewer"`
	Slot   string `json:"slot"`
	Record *struct {
		ID      string `json:"id"`
		Species int    `json:"species"`
	} `json:"record"`
	Locked bool `json:"locked"`
}

func (e *testEnv) list(viewer string) map[string]listed {
	e.t.Helper()
	res := e.mustRun("list", "--viewer", viewer, "--json")
	var entries []listed
	require.NoError(e.t, json.Unmarshal([]byte(res.stdout), &entries))
	out := make(map[string]listed, len(entries))
	for _, en := range entries {
		out[en.Slot] = en
	}
	return out
}

func TestInitCreatesStorage(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("init", "--containers", "2", "--slots", "4")

	assert.Contains(t, res.stdout, "initialized")
	for _, name := range []string{"viewers.jsonl", "slots.jsonl"} {
		_, err := os.Stat(filepath.Join(env.dataDir, name))
		assert.NoError(t, err, name)
	}
	env.mustRun("init")
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("version")
	assert.Contains(t, res.stdout, "slotshift v")
}

func TestMoveSingleRecord(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--containers", "2", "--slots", "4")
	env.mustRun("put", "boxes", "0:0", "--species", "25", "--nickname", "Sparky")

	env.mustRun("move", "--from", "0:0", "--to", "1:3")

	got := env.list("boxes")
	require.Len(t, got, 1)
	require.NotNil(t, got["1:3"].Record)
	assert.Equal(t, 25, got["1:3"].Record.Species)
}

func TestMoveBatchWrapsIntoNextBox(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--containers", "2", "--slots", "4")
	for i, addr := range []string{"0:0", "0:1", "0:2"} {
		env.mustRun("put", "boxes", addr, "--species", []string{"1", "2", "3"}[i])
	}

	env.mustRun("move", "--from", "0:0", "--from", "0:1", "--from", "0:2", "--to", "0:3")

	got := env.list("boxes")
	require.Len(t, got, 3)
	assert.Equal(t, 1, got["0:3"].Record.Species)
	assert.Equal(t, 2, got["1:0"].Record.Species)
	assert.Equal(t, 3, got["1:1"].Record.Species)
}

func TestMoveLastPartyMemberIsRefused(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--containers", "1", "--slots", "4")
	env.mustRun("put", "party", "0", "--species", "7")

	res := env.run("move", "--viewer", "party", "--from", "0", "--to-viewer", "boxes", "--to", "0:0")

	assert.NotEqual(t, exitSysError, res.exitCode, res.stderr)
	assert.Len(t, env.list("party"), 1)
	assert.Empty(t, env.list("boxes"))
}

func TestExportThenImport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--containers", "2", "--slots", "4")
	env.mustRun("put", "boxes", "0:0", "--species", "150")
	out := filepath.Join(env.root, "out")

	res := env.mustRun("export", "0:0", "--dir", out)
	files, err := filepath.Glob(filepath.Join(out, "*.pk"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, res.stdout, files[0])

	env.mustRun("import", files[0], "--to", "1:2")

	got := env.list("boxes")
	require.Len(t, got, 2)
	assert.Equal(t, 150, got["1:2"].Record.Species)
	assert.Equal(t, got["0:0"].Record.ID, got["1:2"].Record.ID)

	temps, err := os.ReadDir(env.tempDir)
	require.NoError(t, err)
	assert.Empty(t, temps, "temp files are removed on exit")
}

func TestImportRejectsUnknownFile(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--containers", "1", "--slots", "4")
	path := filepath.Join(env.root, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	res := env.mustRun("import", path, "--to", "0:0")

	assert.Contains(t, res.stderr, "not a record")
	assert.Empty(t, env.list("boxes"))
}

func TestDumpAndLoad(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--containers", "1", "--slots", "4")
	env.mustRun("put", "boxes", "0:1", "--species", "9")
	snapshot := filepath.Join(env.root, "snap", "slots.jsonl")

	env.mustRun("dump", snapshot)
	env.mustRun("put", "boxes", "0:2", "--species", "10")
	env.mustRun("load", filepath.Dir(snapshot))

	got := env.list("boxes")
	require.Len(t, got, 1)
	assert.Equal(t, 9, got["0:1"].Record.Species)
}

func TestSwapBoxes(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--containers", "3", "--slots", "4")
	env.mustRun("put", "boxes", "0:1", "--species", "1")

	env.mustRun("swap-boxes", "0", "2")

	got := env.list("boxes")
	require.Contains(t, got, "2:1")
	assert.Equal(t, 1, got["2:1"].Record.Species)
}

func TestUserErrorsExitWithOne(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--containers", "1", "--slots", "4")

	assert.Equal(t, exitUserError, env.run("put", "ghost", "0:0", "--species", "1").exitCode)
	assert.Equal(t, exitUserError, env.run("put", "boxes", "5:0", "--species", "1").exitCode)
	assert.Equal(t, exitUserError, env.run("move", "--from", "0:0", "--to", "0:1").exitCode)
	assert.Equal(t, exitUserError, env.run("swap-boxes", "0", "9").exitCode)
}

func TestLockedSlotRefusesDrop(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--containers", "1", "--slots", "4")
	env.mustRun("put", "boxes", "0:0", "--species", "3")
	env.mustRun("lock", "boxes", "0:1")

	res := env.run("move", "--from", "0:0", "--to", "0:1")

	assert.NotEqual(t, exitSysError, res.exitCode, res.stderr)
	got := env.list("boxes")
	assert.Equal(t, 3, got["0:0"].Record.Species)
	assert.True(t, got["0:1"].Locked)
}
