package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesh-intelligence/slotshift/internal/entity"
	"github.com/mesh-intelligence/slotshift/internal/metrics"
	"github.com/mesh-intelligence/slotshift/internal/transfer"
	"github.com/mesh-intelligence/slotshift/internal/transport"
	"github.com/mesh-intelligence/slotshift/pkg/sqlite"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// engine wires the store, the transfer orchestrator, and the loopback
// transport for one command invocation.
type engine struct {
	cfg   types.Config
	store *sqlite.Store
	host  *cliHost
	loop  *transport.Loopback
	orch  *transfer.Orchestrator
	reg   *prometheus.Registry
}

// openStore resolves the data directory and attaches the store. The caller
// must Detach it.
func openStore() (*sqlite.Store, types.Config, error) {
	cfg, err := engineConfig()
	if err != nil {
		return nil, types.Config{}, err
	}
	store, err := sqlite.Open(cfg, sqlite.WithLogger(newLogger(cfg.LogLevel)))
	if err != nil {
		return nil, types.Config{}, fmt.Errorf("attach store: %w", err)
	}
	return store, cfg, nil
}

// openEngine attaches the store and builds an orchestrator over it. The
// caller must Close the engine.
func openEngine() (*engine, error) {
	store, cfg, err := openStore()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.LogLevel)
	reg := prometheus.NewRegistry()
	host := newCLIHost(store, logger)
	loop := transport.NewLoopback(transport.WithLogger(logger))

	orch, err := transfer.New(cfg, transfer.Collaborators{
		Editor:    store.Editor(),
		Transport: loop,
		Host:      host,
		Codec:     entity.Codec{},
		Converter: entity.Converter{},
	}, transfer.WithLogger(logger), transfer.WithMetrics(metrics.New(reg)))
	if err != nil {
		store.Detach()
		return nil, err
	}
	return &engine{cfg: cfg, store: store, host: host, loop: loop, orch: orch, reg: reg}, nil
}

// Close flushes pending temp file deletions and detaches the store.
func (e *engine) Close() {
	e.orch.Close()
	if flagMetrics {
		printMetrics(os.Stderr, e.reg)
	}
	e.store.Detach()
}

// slot resolves a viewer name and an address string into a slot handle.
func (e *engine) slot(viewer, addr string) (types.Slot, error) {
	v, err := e.store.Viewer(viewer)
	if err != nil {
		return types.Slot{}, err
	}
	a, err := parseAddress(v, addr)
	if err != nil {
		return types.Slot{}, err
	}
	return v.Slot(a), nil
}

// parseAddress parses addr; a bare index is accepted for party viewers.
func parseAddress(v *sqlite.Viewer, addr string) (types.Address, error) {
	if v.Kind() == types.AddressParty && !strings.Contains(addr, ":") {
		addr = "party:" + addr
	}
	a, err := types.ParseAddress(addr)
	if err != nil {
		return types.Address{}, err
	}
	if a.Kind != v.Kind() {
		return types.Address{}, fmt.Errorf("address %s: %w: %s is a %s viewer", addr, types.ErrOutOfRange, v.Name(), v.Kind())
	}
	return a, nil
}

// cliHost implements types.Host on the terminal. Alerts go to stderr and
// prompts read stdin unless --yes is set.
type cliHost struct {
	store  *sqlite.Store
	logger *slog.Logger
	out    io.Writer
	in     *bufio.Reader
	alerts []string
}

var _ types.Host = (*cliHost)(nil)

func newCLIHost(store *sqlite.Store, logger *slog.Logger) *cliHost {
	return &cliHost{store: store, logger: logger, out: os.Stderr, in: bufio.NewReader(os.Stdin)}
}

func (h *cliHost) Alert(msg string) {
	h.alerts = append(h.alerts, msg)
	fmt.Fprintln(h.out, "slotshift:", msg)
}

func (h *cliHost) Confirm(msg string) bool {
	if flagYes {
		return true
	}
	fmt.Fprintf(h.out, "%s\nProceed? [y/N] ", msg)
	line, _ := h.in.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (h *cliHost) Beep() {
	fmt.Fprint(h.out, "\a")
}

func (h *cliHost) LoadContainers(dir string) error {
	return h.store.LoadContainers(dir)
}

func (h *cliHost) ForwardDrop(paths []string) {
	fmt.Fprintf(h.out, "slotshift: not a record, ignored: %s\n", strings.Join(paths, ", "))
}

func (h *cliHost) RefreshParty() {
	h.logger.Debug("party changed")
}

func (h *cliHost) View(slot types.Slot) {
	rec, err := slot.Read()
	if err != nil {
		h.logger.Warn("viewing slot", "slot", slot.String(), "error", err)
		return
	}
	fmt.Printf("%s: %v\n", slot, rec)
}

// newLogger returns a text logger on stderr at the configured level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// printMetrics writes every counter and histogram sample count in reg.
func printMetrics(w io.Writer, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		fmt.Fprintln(w, "metrics:", err)
		return
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			value := m.GetCounter().GetValue()
			if h := m.GetHistogram(); h != nil {
				value = float64(h.GetSampleCount())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), value))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

// exitCode maps an error to the CLI exit code: caller mistakes and refused
// transfers are user errors, everything else is a system error.
func exitCode(err error) int {
	userErrors := []error{
		types.ErrViewerNotFound, types.ErrViewerExists, types.ErrOutOfRange,
		types.ErrWriteBlocked, types.ErrInsufficientSpace, types.ErrEmptyDisallowed,
		types.ErrIncompatibleVariant, types.ErrConversionFailed, types.ErrUserCancelled,
		types.ErrNoDestination, types.ErrInvalidData, types.ErrUnrecognized,
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// exitWith prints err prefixed by the command name and exits.
func exitWith(name string, err error) {
	fmt.Fprintln(os.Stderr, name+":", err)
	os.Exit(exitCode(err))
}

// exitUsage prints a usage error and exits with the user error code.
func exitUsage(name, format string, args ...any) {
	fmt.Fprintf(os.Stderr, name+": "+format+"\n", args...)
	os.Exit(exitUserError)
}

// exitWith closes the engine, so pending temp files are removed, then exits.
func (e *engine) exitWith(name string, err error) {
	e.Close()
	exitWith(name, err)
}

func (e *engine) exitUsage(name, format string, args ...any) {
	e.Close()
	exitUsage(name, format, args...)
}
