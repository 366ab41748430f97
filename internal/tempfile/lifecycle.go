// Package tempfile writes the ephemeral files that carry records through the
// drag transport and deletes them once the transfer no longer needs them.
package tempfile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/mesh-intelligence/slotshift/internal/metrics"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// TempFile is one ephemeral record file.
type TempFile struct {
	Path     string // absolute path handed to the transport
	RecordID string
	Created  time.Time
}

type stopper interface {
	Stop() bool
}

// Lifecycle creates and deletes temp files under one root directory. It is
// safe for concurrent use; deletions fire on timer goroutines.
type Lifecycle struct {
	mu      sync.Mutex
	fs      billy.Filesystem
	root    string
	foreign billy.Filesystem
	current func() string
	pending map[*Pending]struct{}

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	afterFunc func(d time.Duration, f func()) stopper
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithLogger sets the logger for deletion results.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lifecycle) {
		l.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Lifecycle) {
		l.metrics = m
	}
}

// WithForeignFS sets the filesystem used for paths outside the root, such as
// files dropped from other applications. The default is the host filesystem.
func WithForeignFS(fs billy.Filesystem) Option {
	return func(l *Lifecycle) {
		l.foreign = fs
	}
}

// New returns a Lifecycle writing to fs, whose files appear to the transport
// under root. current reports the path the live transfer relies on; a
// scheduled deletion of that path is skipped.
func New(fs billy.Filesystem, root string, current func() string, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		fs:      fs,
		root:    filepath.Clean(root),
		current: current,
		pending: make(map[*Pending]struct{}),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.foreign == nil {
		l.foreign = osfs.New("/")
	}
	if l.current == nil {
		l.current = func() string { return "" }
	}
	return l
}

// NewOS returns a Lifecycle on the host filesystem rooted at dir, creating
// dir when missing.
func NewOS(dir string, current func() string, opts ...Option) (*Lifecycle, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp dir %s: %w", dir, err)
	}
	return New(osfs.New(dir), dir, current, opts...), nil
}

// Root returns the directory temp files are written to.
func (l *Lifecycle) Root() string { return l.root }

// Create writes rec in the encoding selected by encrypt. The file is named
// after the record's file stem with a "ek" extension for the encrypted form
// and "pk" for the decrypted form. On failure no file is left behind and the
// error wraps types.ErrTransferSetupFailed.
func (l *Lifecycle) Create(rec types.Record, encrypt bool) (TempFile, error) {
	enc := types.EncodingFor(encrypt)
	name := rec.FileStem() + "." + enc.Extension()

	data, err := rec.Encode(enc)
	if err != nil {
		return TempFile{}, fmt.Errorf("%w: encoding %s: %v", types.ErrTransferSetupFailed, rec.ID(), err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := util.WriteFile(l.fs, name, data, 0o644); err != nil {
		_ = l.fs.Remove(name)
		return TempFile{}, fmt.Errorf("%w: writing %s: %v", types.ErrTransferSetupFailed, name, err)
	}
	return TempFile{
		Path:     filepath.Join(l.root, name),
		RecordID: rec.ID(),
		Created:  l.now(),
	}, nil
}

// Read returns the contents of path. Paths outside the root are read from
// the foreign filesystem.
func (l *Lifecycle) Read(path string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fs, name := l.locate(path)
	data, err := util.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// IsDir reports whether path names an existing directory.
func (l *Lifecycle) IsDir(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	fs, name := l.locate(path)
	info, err := fs.Stat(name)
	return err == nil && info.IsDir()
}

// Exists reports whether path names an existing file.
func (l *Lifecycle) Exists(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	fs, name := l.locate(path)
	_, err := fs.Stat(name)
	return err == nil
}

// Remove deletes path immediately. A missing file is not an error.
func (l *Lifecycle) Remove(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	fs, name := l.locate(path)
	if err := fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// ScheduleDelete deletes path after delay unless, at that time, the file is
// gone or path is the live transfer's current path. A later schedule for the
// same path replaces an earlier one. Failures are logged and counted, never
// returned.
func (l *Lifecycle) ScheduleDelete(path string, delay time.Duration) *Pending {
	p := &Pending{l: l, Path: path}
	l.mu.Lock()
	for prev := range l.pending {
		if prev.Path == path {
			prev.done = true
			delete(l.pending, prev)
			if prev.timer != nil {
				prev.timer.Stop()
			}
		}
	}
	l.pending[p] = struct{}{}
	l.mu.Unlock()
	t := l.afterFunc(delay, p.fire)
	l.mu.Lock()
	p.timer = t
	l.mu.Unlock()
	return p
}

// PendingCount returns the number of deletions that have not fired.
func (l *Lifecycle) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Close stops every pending timer and runs its deletion now.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	pending := make([]*Pending, 0, len(l.pending))
	for p := range l.pending {
		pending = append(pending, p)
	}
	l.mu.Unlock()

	for _, p := range pending {
		if p.stop() {
			l.deleteIfUnused(p.Path)
		}
	}
}

func (l *Lifecycle) deleteIfUnused(path string) {
	if path == l.current() {
		l.logger.Debug("temp file reused by live transfer, keeping", "path", path)
		l.metrics.IncTempDelete("superseded")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fs, name := l.locate(path)
	if _, err := fs.Stat(name); err != nil {
		l.metrics.IncTempDelete("missing")
		return
	}
	if err := fs.Remove(name); err != nil {
		l.logger.Warn("deleting temp file", "path", path, "error", err)
		l.metrics.IncTempDelete("failed")
		return
	}
	l.logger.Debug("deleted temp file", "path", path)
	l.metrics.IncTempDelete("deleted")
}

// locate maps path to the filesystem that holds it. Caller holds mu.
func (l *Lifecycle) locate(path string) (billy.Filesystem, string) {
	rel, err := filepath.Rel(l.root, filepath.Clean(path))
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return l.fs, rel
	}
	return l.foreign, path
}

// Pending is a scheduled deletion.
type Pending struct {
	Path string

	l     *Lifecycle
	timer stopper
	done  bool
}

// Cancel stops the deletion. It reports whether the deletion was still
// pending.
func (p *Pending) Cancel() bool {
	return p.stop()
}

// stop claims the deletion. Only one of stop or fire wins.
func (p *Pending) stop() bool {
	p.l.mu.Lock()
	defer p.l.mu.Unlock()
	if p.done {
		return false
	}
	p.done = true
	delete(p.l.pending, p)
	if p.timer != nil {
		p.timer.Stop()
	}
	return true
}

func (p *Pending) fire() {
	p.l.mu.Lock()
	if p.done {
		p.l.mu.Unlock()
		return
	}
	p.done = true
	delete(p.l.pending, p)
	p.l.mu.Unlock()

	p.l.deleteIfUnused(p.Path)
}
