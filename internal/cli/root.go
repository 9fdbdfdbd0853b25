// Package cli implements the drawkit command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/zeusync/drawkit/internal/config"
	"github.com/zeusync/drawkit/internal/core/document"
	"github.com/zeusync/drawkit/internal/core/observability/log"
	"github.com/zeusync/drawkit/internal/core/storage"
	"github.com/zeusync/drawkit/internal/injector"
	// Registers the built-in shape kinds with the default registries.
	_ "github.com/zeusync/drawkit/internal/shapes"
)

type app struct {
	cfgFile string
	cfg     config.Config
	rt      *injector.Runtime
}

// NewRootCommand builds a fresh command tree. Each call has its own state.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "drawkit",
		Short:             "Load, render and store shape documents",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentPostRunE = func(*cobra.Command, []string) error {
		if a.rt != nil {
			_ = a.rt.Logger.Sync()
		}
		return nil
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: "+config.DefaultPath+" when present)")

	root.AddCommand(
		a.renderCommand(),
		a.convertCommand(),
		a.checkCommand(),
		a.diffCommand(),
		a.kindsCommand(),
		a.storeCommand(),
		a.initCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	rt, err := injector.InitializeRuntime(cfg)
	if err != nil {
		return err
	}
	a.cfg, a.rt = cfg, rt
	rt.Logger.Debug("config loaded",
		log.String("command", cmd.CommandPath()),
		log.String("storage", cfg.Storage.Backend),
		log.Int("workers", cfg.Workers),
	)
	return nil
}

func (a *app) loadFile(path string) (*document.Document, error) {
	doc := a.rt.NewDocument()
	if err := doc.LoadFile(path); err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *app) withStore(fn func(storage.Store) error) error {
	store, err := a.rt.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
