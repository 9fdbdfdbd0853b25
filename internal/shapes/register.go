// Package shapes provides the concrete shape kinds. Each kind registers its creator
// and its reader/writer with the process-wide registries from init.
package shapes

import (
	"fmt"

	"github.com/zeusync/drawkit/internal/core/codec"
	"github.com/zeusync/drawkit/internal/core/shape"
	"github.com/zeusync/drawkit/pkg/factory"
)

type plugin struct {
	id     string
	kind   shape.Kind
	create factory.Creator[shape.Shape]
	rw     codec.ReaderWriter
}

var plugins []plugin

// provide records a kind and registers it with the default registries.
func provide(p plugin) {
	plugins = append(plugins, p)
	if err := p.register(shape.DefaultFactory(), codec.DefaultRegistry()); err != nil {
		panic(err)
	}
}

func (p plugin) register(creators *shape.Factory, codecs *codec.Registry) error {
	if err := creators.Register(p.id, p.create); err != nil {
		return fmt.Errorf("register %s creator: %w", p.id, err)
	}
	if err := codecs.RegisterReaderWriter(p.kind, p.rw); err != nil {
		return fmt.Errorf("register %s reader/writer: %w", p.kind, err)
	}
	return nil
}

// Register adds every kind of this package to the given registries.
// Use it with private registries; the defaults are populated automatically.
func Register(creators *shape.Factory, codecs *codec.Registry) error {
	for _, p := range plugins {
		if err := p.register(creators, codecs); err != nil {
			return err
		}
	}
	return nil
}

// IDs returns the creator ids of the kinds in this package.
func IDs() []string {
	ids := make([]string, 0, len(plugins))
	for _, p := range plugins {
		ids = append(ids, p.id)
	}
	return ids
}
