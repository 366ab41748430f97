// Package transfer composes selection, drag tracking, placement, and temp
// files into slot transfers. The Orchestrator is the only component that
// writes slot contents; every write goes through the host's SlotEditor.
//
// Handlers run on the host's event goroutine. StartTransfer blocks in the
// transport until the gesture resolves; the drop handler, and so
// CompleteDrop, runs from inside that call.
package transfer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/slotshift/internal/drag"
	"github.com/mesh-intelligence/slotshift/internal/metrics"
	"github.com/mesh-intelligence/slotshift/internal/selection"
	"github.com/mesh-intelligence/slotshift/internal/tempfile"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// allowedEffects is offered to the transport for every drag.
const allowedEffects = types.EffectCopy | types.EffectMove | types.EffectLink

// Collaborators are the host capabilities the Orchestrator drives.
type Collaborators struct {
	Editor    types.SlotEditor
	Transport types.Transport
	Host      types.Host
	Codec     types.Codec
	Converter types.Converter
	Renderer  types.Renderer // optional
}

// Orchestrator runs slot transfers for one host.
type Orchestrator struct {
	editor    types.SlotEditor
	transport types.Transport
	host      types.Host
	codec     types.Codec
	converter types.Converter
	renderer  types.Renderer

	selection *selection.Set
	session   *drag.Session
	files     *tempfile.Lifecycle

	externalDelay time.Duration
	transferID    string

	logger    *slog.Logger
	metrics   *metrics.Metrics
	fs        billy.Filesystem
	foreignFS billy.Filesystem
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMetrics records transfer metrics in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithFilesystem writes temp files to fs instead of the host filesystem at
// the configured temp dir.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *Orchestrator) {
		o.fs = fs
	}
}

// WithForeignFS reads dropped files from outside the temp dir through fs.
func WithForeignFS(fs billy.Filesystem) Option {
	return func(o *Orchestrator) {
		o.foreignFS = fs
	}
}

// New constructs an Orchestrator. cfg supplies the temp dir, drag threshold,
// and external deletion delay; zero values take their defaults.
func New(cfg types.Config, c Collaborators, opts ...Option) (*Orchestrator, error) {
	if c.Editor == nil || c.Transport == nil || c.Host == nil {
		return nil, errors.New("transfer: editor, transport, and host are required")
	}
	if c.Codec == nil || c.Converter == nil {
		return nil, errors.New("transfer: codec and converter are required")
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	o := &Orchestrator{
		editor:        c.Editor,
		transport:     c.Transport,
		host:          c.Host,
		codec:         c.Codec,
		converter:     c.Converter,
		renderer:      c.Renderer,
		selection:     selection.New(),
		session:       drag.New(cfg.DragThreshold),
		externalDelay: cfg.ExternalDeleteDelay,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if o.renderer == nil {
		o.renderer = types.NopRenderer{}
	}
	for _, opt := range opts {
		opt(o)
	}

	fileOpts := []tempfile.Option{tempfile.WithLogger(o.logger), tempfile.WithMetrics(o.metrics)}
	if o.foreignFS != nil {
		fileOpts = append(fileOpts, tempfile.WithForeignFS(o.foreignFS))
	}
	if o.fs != nil {
		o.files = tempfile.New(o.fs, cfg.TempDir, o.session.CurrentPath, fileOpts...)
	} else {
		files, err := tempfile.NewOS(cfg.TempDir, o.session.CurrentPath, fileOpts...)
		if err != nil {
			return nil, fmt.Errorf("transfer: %w", err)
		}
		o.files = files
	}
	return o, nil
}

// Selection returns the selection set. Hosts use it to draw selection
// highlights.
func (o *Orchestrator) Selection() *selection.Set { return o.selection }

// Session returns the drag session.
func (o *Orchestrator) Session() *drag.Session { return o.session }

// Files returns the temp file lifecycle.
func (o *Orchestrator) Files() *tempfile.Lifecycle { return o.files }

// Close runs every pending temp file deletion now.
func (o *Orchestrator) Close() {
	o.files.Close()
}

// StartTransfer drags the record at pressed, or the whole selection when
// pressed is part of a multi-slot selection. It blocks in the transport
// until the gesture resolves. encrypt selects the encrypted transport form.
func (o *Orchestrator) StartTransfer(pressed types.Slot, encrypt bool) error {
	if err := o.session.Begin(pressed); err != nil {
		return err
	}
	o.transferID = newTransferID()
	log := o.logger.With("transfer_id", o.transferID)

	batch := o.batchFor(pressed)
	created := make([]tempfile.TempFile, 0, len(batch))
	for _, slot := range batch {
		rec, err := slot.Read()
		if err != nil {
			err = fmt.Errorf("%w: reading %s: %v", types.ErrTransferSetupFailed, slot, err)
			o.abortSetup(log, created, nil, err)
			return err
		}
		tf, err := o.files.Create(rec, encrypt)
		if err != nil {
			o.abortSetup(log, created, nil, err)
			return err
		}
		created = append(created, tf)
	}

	paths := make([]string, len(created))
	for i, tf := range created {
		paths[i] = tf.Path
	}
	o.session.SetCurrentPath(paths[0])
	for _, slot := range batch {
		o.renderer.SetDragVisual(slot)
	}
	o.renderer.SetDragCursor(pressed)
	log.Debug("transfer started", "slot", pressed.String(), "files", len(paths), "encrypt", encrypt)

	began := time.Now()
	effect, err := o.transport.BeginTransfer(paths, allowedEffects)
	o.metrics.ObserveTransport(time.Since(began))
	if err != nil {
		o.session.SetCurrentPath("")
		err = fmt.Errorf("%w: %v", types.ErrTransferSetupFailed, err)
		o.abortSetup(log, created, batch, err)
		return err
	}

	o.session.SetCurrentPath("")
	res, dropped := o.session.TakeResolution()
	external := false
	outcome := "moved"
	switch {
	case dropped && res.Destination != nil && effect == types.EffectCopy:
		// Cloned or viewed: the source keeps its record. Only Link counts
		// as internal, so the files wait out the external delay.
		external = true
		o.restore(batch)
		o.editor.View(*res.Destination)
		outcome = "copied"
	case !dropped || res.Destination == nil || effect != types.EffectLink:
		external = true
		o.restore(batch)
		outcome = "external"
		if effect == types.EffectNone {
			outcome = "cancelled"
		}
	case res.SameLocation:
		o.restore(batch)
		outcome = "same_location"
	}
	if !dropped {
		o.selection.Clear()
	}

	o.session.Reset()
	o.renderer.ResetCursor()

	delay := time.Duration(0)
	if external {
		delay = o.externalDelay
	}
	for _, p := range paths {
		o.files.ScheduleDelete(p, delay)
	}
	if res.PartyInvolved {
		o.host.RefreshParty()
	}

	o.metrics.IncTransfer(outcome)
	log.Info("transfer finished", "effect", effect.String(), "outcome", outcome, "delete_after", delay)
	return nil
}

// batchFor returns the slots dragged when pressed starts a drag.
func (o *Orchestrator) batchFor(pressed types.Slot) []types.Slot {
	if o.selection.Contains(pressed) && o.selection.Count() > 1 {
		return o.selection.All()
	}
	o.selection.Clear()
	return []types.Slot{pressed}
}

// abortSetup undoes a transfer that failed before or inside the transport
// call. Created files are removed at once; visuals of dragged slots are
// restored.
func (o *Orchestrator) abortSetup(log *slog.Logger, created []tempfile.TempFile, dragged []types.Slot, err error) {
	for _, tf := range created {
		if rmErr := o.files.Remove(tf.Path); rmErr != nil {
			log.Warn("removing temp file after failed setup", "path", tf.Path, "error", rmErr)
		}
	}
	o.restore(dragged)
	o.renderer.ResetCursor()
	o.session.Reset()
	o.metrics.IncTransfer("failed")
	log.Error("transfer setup failed", "error", err)
	o.host.Alert(err.Error())
}

func (o *Orchestrator) restore(slots []types.Slot) {
	for _, slot := range slots {
		o.renderer.RestoreVisual(slot)
	}
}

// SwapContainers exchanges two whole containers of view. Swapping a
// container with itself does nothing.
func (o *Orchestrator) SwapContainers(view types.Viewer, a, b int) error {
	if a == b {
		return nil
	}
	count := view.Layout().ContainerCount
	if a < 0 || b < 0 || a >= count || b >= count {
		return fmt.Errorf("swap containers %d and %d: %w", a, b, types.ErrOutOfRange)
	}
	if err := o.editor.SwapContainers(view, a, b); err != nil {
		return fmt.Errorf("swap containers %d and %d: %w", a, b, err)
	}
	o.logger.Info("containers swapped", "viewer", view.Name(), "a", a, "b", b)
	return nil
}

func newTransferID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
