package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/drawkit/internal/core/codec"
	"github.com/zeusync/drawkit/internal/core/events/bus"
	"github.com/zeusync/drawkit/internal/core/shape"
	"github.com/zeusync/drawkit/internal/shapes"
	"github.com/zeusync/drawkit/pkg/factory"
)

const circlesText = "ShapeGroup 2\nCircle 1 2 10\nCircle 3 4 5\n"

func circles() *shape.Group {
	return shape.NewGroup(shapes.NewCircle(1, 2, 10), shapes.NewCircle(3, 4, 5))
}

func save(t *testing.T, d *Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, d.Save(&buf))
	return buf.String()
}

func TestDocument_SaveCircles(t *testing.T) {
	d := NewDefault()
	d.Add(shapes.NewCircle(1, 2, 10), shapes.NewCircle(3, 4, 5))

	assert.Equal(t, circlesText, save(t, d))

	loaded := NewDefault()
	require.NoError(t, loaded.Load(strings.NewReader(circlesText)))
	assert.Equal(t, d.Root(), loaded.Root())
}

func TestDocument_NestedRoundTrip(t *testing.T) {
	d := NewDefault()
	d.Add(shapes.NewCircle(0, 0, 1), circles())

	loaded := NewDefault()
	require.NoError(t, loaded.Load(strings.NewReader(save(t, d))))

	require.Equal(t, 2, loaded.Len())
	inner, ok := loaded.Root().At(1).(*shape.Group)
	require.True(t, ok)
	assert.Equal(t, 2, inner.Len())
	assert.Equal(t, 3, loaded.Shapes())
}

func TestDocument_MoveLeavesPriorCloneUntouched(t *testing.T) {
	d := NewDefault()
	d.Add(circles())
	before := d.Clone()
	assert.NotEqual(t, d.ID(), before.ID())

	d.Root().Move(10, -5)

	assert.Equal(t, "ShapeGroup 1\nShapeGroup 2\nCircle 11 -3 10\nCircle 13 -1 5\n", save(t, d))
	assert.Equal(t, "ShapeGroup 1\n"+circlesText, save(t, before))
}

func TestDocument_RenderOrder(t *testing.T) {
	d := NewDefault()
	d.Add(
		shapes.NewSquare(0, 0, 1),
		shape.NewGroup(shapes.NewCircle(1, 1, 2), shapes.NewText(2, 2, "t")),
		shapes.NewLine(0, 0, 3, 3),
	)

	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf))
	assert.Equal(t, strings.Join([]string{
		"Drawing square at (0, 0) with size = 1",
		"Drawing circle at (1, 1) with r = 2",
		`Drawing text at (2, 2): "t"`,
		"Drawing line from (0, 0) to (3, 3)",
		"",
	}, "\n"), buf.String())
}

func TestDocument_FailedLoadKeepsState(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown id", "ShapeGroup 2\nCircle 0 0 1\nHexagon 1 2 3\n", factory.ErrUnknownID},
		{"truncated", "ShapeGroup 2\nCircle 0 0 1\n", io.ErrUnexpectedEOF},
		{"wrong root", "Circle 0 0 1\n", codec.ErrFormat},
		{"trailing", circlesText + "Circle 5 5 5\n", codec.ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDefault()
			d.Add(shapes.NewSquare(9, 9, 9))

			err := d.Load(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, "ShapeGroup 1\nSquare 9 9 9\n", save(t, d))
		})
	}
}

func TestDocument_PrivateRegistries(t *testing.T) {
	creators := shape.NewFactory()
	codecs := codec.NewRegistry()
	require.NoError(t, shape.RegisterGroup(creators))
	require.NoError(t, codec.RegisterGroup(creators, codecs))

	d := New(creators, codecs)
	err := d.Load(strings.NewReader(circlesText))
	assert.ErrorIs(t, err, factory.ErrUnknownID)

	require.NoError(t, shapes.Register(creators, codecs))
	require.NoError(t, d.Load(strings.NewReader(circlesText)))
	assert.Equal(t, 2, d.Len())
}

func TestDocument_Files(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.shapes")

	d := NewDefault()
	d.Add(circles(), shapes.NewText(0, 0, "hello world"))
	require.NoError(t, d.SaveFile(path))

	loaded := NewDefault()
	require.NoError(t, loaded.LoadFile(path))
	assert.Equal(t, d.Root(), loaded.Root())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")

	err = loaded.LoadFile(filepath.Join(dir, "missing.shapes"))
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	err = loaded.LoadFile(dir)
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.Equal(t, d.Root(), loaded.Root())
}

func TestDocument_LoadDeeplyNestedGroups(t *testing.T) {
	const depth = 50_000
	input := strings.Repeat("ShapeGroup 1\n", depth) + "ShapeGroup 0\n"

	d := NewDefault()
	start := time.Now()
	require.NoError(t, d.Load(strings.NewReader(input)))
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Equal(t, 1, d.Len())
	assert.Equal(t, 0, d.Shapes())
	assert.Equal(t, input, save(t, d))
}

type memStore struct {
	docs      map[string]string
	aborted   int
	createErr error
}

type memWriter struct {
	bytes.Buffer
	store *memStore
	name  string
}

func (w *memWriter) Close() error {
	w.store.docs[w.name] = w.String()
	return nil
}

func (w *memWriter) Abort() error {
	w.store.aborted++
	return nil
}

func (s *memStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	body, ok := s.docs[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (s *memStore) Create(_ context.Context, name string) (io.WriteCloser, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &memWriter{store: s, name: name}, nil
}

func TestDocument_SourceAndSink(t *testing.T) {
	ctx := context.Background()
	store := &memStore{docs: map[string]string{}}

	d := NewDefault()
	d.Add(circles())
	require.NoError(t, d.SaveTo(ctx, store, "a"))
	assert.Equal(t, "ShapeGroup 1\n"+circlesText, store.docs["a"])

	loaded := NewDefault()
	require.NoError(t, loaded.LoadFrom(ctx, store, "a"))
	assert.Equal(t, d.Root(), loaded.Root())

	err := loaded.LoadFrom(ctx, store, "b")
	assert.ErrorIs(t, err, ErrSourceNotFound)

	store.createErr = errors.New("read-only")
	assert.Error(t, d.SaveTo(ctx, store, "c"))
	assert.NotContains(t, store.docs, "c")
}

// An unregistered kind aborts the sink instead of committing a partial document.
func TestDocument_SaveToAbortsOnFailure(t *testing.T) {
	creators := shape.NewFactory()
	codecs := codec.NewRegistry()
	require.NoError(t, shape.RegisterGroup(creators))
	require.NoError(t, codec.RegisterGroup(creators, codecs))

	store := &memStore{docs: map[string]string{}}
	d := New(creators, codecs)
	d.Add(shapes.NewCircle(0, 0, 1))

	err := d.SaveTo(context.Background(), store, "x")
	assert.ErrorIs(t, err, codec.ErrUnregisteredType)
	assert.Equal(t, 1, store.aborted)
	assert.NotContains(t, store.docs, "x")
}

func TestDocument_SerializeAndFingerprint(t *testing.T) {
	a := NewDefault()
	a.Add(circles())
	b := NewDefault()
	b.Add(circles())

	data, err := a.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "ShapeGroup 1\n"+circlesText, string(data))

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	b.Root().Move(1, 0)
	fb, err = b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fb)

	c := NewDefault()
	require.NoError(t, c.Deserialize(data))
	assert.Equal(t, a.Root(), c.Root())
	assert.Error(t, c.Deserialize([]byte("ShapeGroup 1\n")))
	assert.Equal(t, a.Root(), c.Root())
}

func TestDocument_PublishesEvents(t *testing.T) {
	events := bus.New()
	var got []Event
	for _, typ := range []string{EventLoaded, EventSaved} {
		_, err := events.Subscribe(typ, func(e bus.Event) error {
			got = append(got, e.Data().(Event))
			return nil
		})
		require.NoError(t, err)
	}

	d := NewDefault(WithEventBus(events))
	require.NoError(t, d.Load(strings.NewReader(circlesText)))
	out := save(t, d)

	require.Len(t, got, 2)
	assert.Equal(t, Event{DocumentID: d.ID(), Shapes: 2, Bytes: int64(len(circlesText))}, got[0])
	assert.Equal(t, Event{DocumentID: d.ID(), Shapes: 2, Bytes: int64(len(out))}, got[1])

	// Serialize is silent.
	_, err := d.Serialize()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDocument_HandlerErrorDoesNotFailSave(t *testing.T) {
	events := bus.New()
	_, err := events.Subscribe(EventSaved, func(bus.Event) error { return errors.New("boom") })
	require.NoError(t, err)

	d := NewDefault(WithEventBus(events))
	assert.NoError(t, d.Save(io.Discard))
}
