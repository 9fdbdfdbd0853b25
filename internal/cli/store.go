package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeusync/drawkit/internal/core/storage"
	"github.com/zeusync/drawkit/pkg/concurrent"
)

func (a *app) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage documents in the configured storage backend",
	}
	cmd.AddCommand(
		a.storePutCommand(),
		a.storeImportCommand(),
		a.storeGetCommand(),
		a.storeListCommand(),
		a.storeRemoveCommand(),
	)
	return cmd
}

func (a *app) storePutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put NAME FILE",
		Short: "Validate FILE and store it under NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadFile(args[1])
			if err != nil {
				return err
			}
			return a.withStore(func(s storage.Store) error {
				return doc.SaveTo(cmd.Context(), s, args[0])
			})
		},
	}
}

func (a *app) storeImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Store each FILE under its base name without extension",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s storage.Store) error {
				return concurrent.ForEach(cmd.Context(), args, a.cfg.Workers, func(ctx context.Context, path string) error {
					doc, err := a.loadFile(path)
					if err != nil {
						return err
					}
					name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
					return doc.SaveTo(ctx, s, name)
				})
			})
		},
	}
}

func (a *app) storeGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Print the stored document NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := a.rt.NewDocument()
			return a.withStore(func(s storage.Store) error {
				if err := doc.LoadFrom(cmd.Context(), s, args[0]); err != nil {
					return err
				}
				return doc.Save(cmd.OutOrStdout())
			})
		},
	}
}

func (a *app) storeListCommand() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(s storage.Store) error {
				names, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, name := range names {
					if !long {
						fmt.Fprintln(out, name)
						continue
					}
					info, err := s.Stat(cmd.Context(), name)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\t%d\t%016x\t%s\n",
						info.Name, info.Size, info.Fingerprint, info.UpdatedAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "also print size, fingerprint and update time")
	return cmd
}

func (a *app) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME...",
		Short: "Delete stored documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s storage.Store) error {
				for _, name := range args {
					if err := s.Delete(cmd.Context(), name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
