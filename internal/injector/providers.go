package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/drawkit/internal/config"
	"github.com/zeusync/drawkit/internal/core/document"
	"github.com/zeusync/drawkit/internal/core/events/bus"
	"github.com/zeusync/drawkit/internal/core/observability/log"
	"github.com/zeusync/drawkit/internal/core/storage"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideEvents,
	ProvideStorageConfig,
	wire.Struct(new(Runtime), "*"),
)

// Runtime holds the process-wide services a command needs.
// The store is opened on demand so commands that never touch it have no side effects.
type Runtime struct {
	Logger  *log.Logger
	Events  bus.EventBus
	Storage storage.Config
}

func ProvideLogger(cfg config.Config) (*log.Logger, error) {
	lc, err := cfg.Log.Logger()
	if err != nil {
		return nil, err
	}
	return log.New(lc)
}

func ProvideEvents() bus.EventBus {
	return bus.New()
}

func ProvideStorageConfig(cfg config.Config) storage.Config {
	return cfg.Storage
}

// NewDocument returns an empty document on the default registries that logs
// and publishes through the runtime.
func (r *Runtime) NewDocument() *document.Document {
	return document.NewDefault(document.WithLogger(r.Logger), document.WithEventBus(r.Events))
}

func (r *Runtime) OpenStore() (storage.Store, error) {
	return storage.Open(r.Storage)
}
