package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/zeusync/drawkit/internal/core/codec"
	"github.com/zeusync/drawkit/internal/core/events/bus"
	"github.com/zeusync/drawkit/internal/core/observability/log"
	"github.com/zeusync/drawkit/internal/core/shape"
	"github.com/zeusync/drawkit/pkg/encoding"
	"github.com/zeusync/drawkit/pkg/generic"
)

const (
	EventLoaded = "document.loaded"
	EventSaved  = "document.saved"
)

// Event is the payload of EventLoaded and EventSaved.
type Event struct {
	DocumentID uuid.UUID
	Shapes     int
	Bytes      int64
}

var _ encoding.Serializable = (*Document)(nil)

var buffers = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

// Document owns a root group and persists it through the shape factory and the
// codec registry it was built with. The registries are borrowed, not owned.
// A Document is not safe for concurrent use.
type Document struct {
	id       uuid.UUID
	root     *shape.Group
	creators *shape.Factory
	codecs   *codec.Registry
	logger   log.Log
	events   bus.EventBus
}

type Option func(*Document)

func WithLogger(logger log.Log) Option {
	return func(d *Document) { d.logger = logger }
}

// WithEventBus makes the document publish EventLoaded and EventSaved on b.
func WithEventBus(b bus.EventBus) Option {
	return func(d *Document) { d.events = b }
}

// New returns an empty document bound to the given registries.
func New(creators *shape.Factory, codecs *codec.Registry, opts ...Option) *Document {
	d := &Document{
		id:       uuid.New(),
		root:     shape.NewGroup(),
		creators: creators,
		codecs:   codecs,
		logger:   log.Provide(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(log.String("document_id", d.id.String()))
	return d
}

// NewDefault returns an empty document bound to the process-wide registries.
func NewDefault(opts ...Option) *Document {
	return New(shape.DefaultFactory(), codec.DefaultRegistry(), opts...)
}

func (d *Document) ID() uuid.UUID { return d.id }

// Root returns the root group. The document keeps ownership.
func (d *Document) Root() *shape.Group { return d.root }

// Len returns the number of top-level shapes.
func (d *Document) Len() int { return d.root.Len() }

// Shapes returns the number of leaf shapes in the whole tree.
func (d *Document) Shapes() int {
	n := 0
	for range d.root.Leaves() {
		n++
	}
	return n
}

// Add transfers ownership of shapes to the document's root group.
func (d *Document) Add(shapes ...shape.Shape) {
	d.root.Add(shapes...)
}

// Render draws every leaf in document order, one line each.
func (d *Document) Render(w io.Writer) error {
	return d.root.Draw(w)
}

// Clone returns an independent document with a deep copy of the tree and a new id.
func (d *Document) Clone() *Document {
	clone := &Document{
		id:       uuid.New(),
		root:     d.root.Clone().(*shape.Group),
		creators: d.creators,
		codecs:   d.codecs,
		logger:   d.logger,
		events:   d.events,
	}
	return clone
}

func (d *Document) groupRW() *codec.GroupReaderWriter {
	return codec.NewGroupReaderWriter(d.creators, d.codecs)
}

// decode parses a complete document from r. Nothing is installed on failure.
func (d *Document) decode(r io.Reader) (*shape.Group, error) {
	root := shape.NewGroup()
	dec := codec.NewDecoder(r)
	if err := d.groupRW().ReadRoot(root, dec); err != nil {
		return nil, err
	}
	if err := dec.End(); err != nil {
		return nil, err
	}
	return root, nil
}

func (d *Document) encode(w io.Writer) error {
	enc := codec.NewEncoder(w)
	if err := d.groupRW().WriteRoot(d.root, enc); err != nil {
		return err
	}
	return enc.Flush()
}

// Load replaces the document's tree with the one read from r.
// The load is all-or-nothing: on error the current tree is left untouched.
func (d *Document) Load(r io.Reader) error {
	cr := &countingReader{r: r}
	root, err := d.decode(cr)
	if err != nil {
		d.logger.Error("document load failed", log.Error(err))
		return fmt.Errorf("load document: %w", err)
	}
	d.root = root

	d.logger.Debug("document loaded", log.Int("shapes", d.Shapes()), log.Any("bytes", cr.n))
	d.publish(EventLoaded, cr.n)
	return nil
}

// Save writes the document's tree to w. On error, whatever reached w is invalid.
func (d *Document) Save(w io.Writer) error {
	cw := &countingWriter{w: w}
	if err := d.encode(cw); err != nil {
		d.logger.Error("document save failed", log.Error(err))
		return fmt.Errorf("save document: %w", err)
	}

	d.logger.Debug("document saved", log.Int("shapes", d.Shapes()), log.Any("bytes", cw.n))
	d.publish(EventSaved, cw.n)
	return nil
}

// LoadFile loads the document from path. A file that cannot be opened yields ErrSourceNotFound.
func (d *Document) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return sourceError(path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return sourceError(path, err)
	}
	if fi.IsDir() {
		return sourceError(path, errIsDirectory)
	}
	return d.Load(f)
}

// SaveFile writes the document next to path and renames it into place,
// so path never holds a partial document.
func (d *Document) SaveFile(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = d.Save(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// LoadFrom loads the named document from src.
func (d *Document) LoadFrom(ctx context.Context, src Source, name string) error {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return sourceError(name, err)
	}
	defer rc.Close()
	return d.Load(rc)
}

// SaveTo stores the document under name in sink. The entry is only committed if the save succeeds.
func (d *Document) SaveTo(ctx context.Context, sink Sink, name string) error {
	wc, err := sink.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("save document %s: %w", name, err)
	}
	if err = d.Save(wc); err != nil {
		discard(wc)
		return err
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("save document %s: %w", name, err)
	}
	return nil
}

// Serialize returns the canonical text form without logging or publishing events.
func (d *Document) Serialize() ([]byte, error) {
	buf := buffers.Get()
	defer buffers.Put(buf)
	if err := d.encode(buf); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// Deserialize replaces the tree with the one encoded in data, all-or-nothing.
func (d *Document) Deserialize(data []byte) error {
	root, err := d.decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	d.root = root
	return nil
}

// Fingerprint hashes the canonical text form. Structurally equal documents share a fingerprint.
func (d *Document) Fingerprint() (uint64, error) {
	return encoding.Fingerprint(d)
}

func (d *Document) publish(eventType string, n int64) {
	if d.events == nil {
		return
	}
	payload := Event{DocumentID: d.id, Shapes: d.Shapes(), Bytes: n}
	if err := d.events.Publish(bus.NewEvent(eventType, "document", payload)); err != nil {
		d.logger.Warn("document event handler failed", log.String("event", eventType), log.Error(err))
	}
}
