package shape

import (
	"github.com/zeusync/drawkit/pkg/factory"
)

// Factory creates empty shapes from their string id.
type Factory = factory.Registry[string, Shape]

var defaultFactory = NewFactory()

func init() {
	if err := RegisterGroup(defaultFactory); err != nil {
		panic(err)
	}
}

// NewFactory returns an empty shape factory. Register groups with RegisterGroup.
func NewFactory() *Factory {
	return factory.New[string, Shape]()
}

// DefaultFactory returns the process-wide factory that shape packages register into from init.
func DefaultFactory() *Factory {
	return defaultFactory
}

// RegisterGroup registers the group creator under GroupID.
func RegisterGroup(f *Factory) error {
	return f.Register(GroupID, func() Shape { return NewGroup() })
}
