package codec

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zeusync/drawkit/internal/core/shape"
	"github.com/zeusync/drawkit/pkg/factory"
)

// ReaderWriter (de)serializes the fields of one concrete shape kind.
// The id token preceding the fields is handled by the caller: on write it emits Token(),
// on read it has already consumed the id to create the shape.
type ReaderWriter interface {
	// Token is the creator id written ahead of the shape's fields.
	Token() string
	// Read populates s from dec.
	Read(s shape.Shape, dec *Decoder) error
	// Write emits the fields of s to enc.
	Write(s shape.Shape, enc *Encoder) error
}

type leaf[T shape.Shape] struct {
	token string
	read  func(T, *Decoder) error
	write func(T, *Encoder)
}

// Leaf builds a ReaderWriter for the concrete shape type T.
// Passing a shape of another type to the result fails with ErrKindMismatch.
func Leaf[T shape.Shape](token string, read func(T, *Decoder) error, write func(T, *Encoder)) ReaderWriter {
	return leaf[T]{token: token, read: read, write: write}
}

func (l leaf[T]) Token() string { return l.token }

func (l leaf[T]) Read(s shape.Shape, dec *Decoder) error {
	v, ok := s.(T)
	if !ok {
		return fmt.Errorf("%w: %s reader got %T", ErrKindMismatch, l.token, s)
	}
	return l.read(v, dec)
}

func (l leaf[T]) Write(s shape.Shape, enc *Encoder) error {
	v, ok := s.(T)
	if !ok {
		return fmt.Errorf("%w: %s writer got %T", ErrKindMismatch, l.token, s)
	}
	l.write(v, enc)
	return enc.Err()
}

// Registry maps shape kinds to their reader/writer.
type Registry struct {
	rws *factory.Registry[shape.Kind, ReaderWriter]
}

var defaultRegistry = NewRegistry()

func init() {
	if err := RegisterGroup(shape.DefaultFactory(), defaultRegistry); err != nil {
		panic(err)
	}
}

func NewRegistry() *Registry {
	return &Registry{rws: factory.New[shape.Kind, ReaderWriter]()}
}

// DefaultRegistry returns the process-wide registry paired with shape.DefaultFactory.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register binds kind to a reader/writer constructor. A kind can be bound once.
func (r *Registry) Register(kind shape.Kind, creator factory.Creator[ReaderWriter]) error {
	return r.rws.Register(kind, creator)
}

// RegisterReaderWriter binds kind to a shared, stateless reader/writer.
func (r *Registry) RegisterReaderWriter(kind shape.Kind, rw ReaderWriter) error {
	if rw == nil {
		return fmt.Errorf("%w for %s", factory.ErrNilCreator, kind)
	}
	return r.Register(kind, func() ReaderWriter { return rw })
}

// Lookup returns the reader/writer for kind or ErrUnregisteredType.
func (r *Registry) Lookup(kind shape.Kind) (ReaderWriter, error) {
	rw, err := r.rws.Create(kind)
	if errors.Is(err, factory.ErrUnknownID) {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredType, kind)
	}
	if err != nil {
		return nil, err
	}
	return rw, nil
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []shape.Kind {
	kinds := r.rws.IDs()
	slices.Sort(kinds)
	return kinds
}

// RegisterGroup registers the group reader/writer on codecs, wired to creators and codecs.
func RegisterGroup(creators *shape.Factory, codecs *Registry) error {
	return codecs.Register(shape.KindGroup, func() ReaderWriter {
		return NewGroupReaderWriter(creators, codecs)
	})
}
