package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zeusync/drawkit/internal/config"
	"github.com/zeusync/drawkit/internal/core/observability/log"
	"github.com/zeusync/drawkit/internal/core/shape"
	"github.com/zeusync/drawkit/pkg/concurrent"
)

func (a *app) renderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render FILE",
		Short: "Print one draw line per shape, in document order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadFile(args[0])
			if err != nil {
				return err
			}
			return doc.Render(cmd.OutOrStdout())
		},
	}
}

func (a *app) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Rewrite a document in canonical form (OUT may be - for stdout)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadFile(args[0])
			if err != nil {
				return err
			}
			if args[1] == "-" {
				return doc.Save(cmd.OutOrStdout())
			}
			return doc.SaveFile(args[1])
		},
	}
}

type checkResult struct {
	path        string
	fingerprint uint64
	shapes      int
	err         error
}

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Load documents in parallel and print their fingerprints",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := concurrent.Map(cmd.Context(), args, a.cfg.Workers,
				func(_ context.Context, path string) (checkResult, error) {
					res := checkResult{path: path}
					doc, err := a.loadFile(path)
					if err != nil {
						res.err = err
						return res, nil
					}
					res.shapes = doc.Shapes()
					res.fingerprint, res.err = doc.Fingerprint()
					return res, nil
				})
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, res := range results {
				if res.err != nil {
					failed++
					fmt.Fprintf(out, "%s\tERROR\t%v\n", res.path, res.err)
					continue
				}
				fmt.Fprintf(out, "%s\t%016x\t%d\n", res.path, res.fingerprint, res.shapes)
			}
			if failed > 0 {
				a.rt.Logger.Warn("check found invalid documents", log.Int("failed", failed), log.Int("total", len(results)))
				return fmt.Errorf("%d of %d documents failed to load", failed, len(results))
			}
			return nil
		},
	}
}

func (a *app) diffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff A B",
		Short: "Compare the canonical forms of two documents line by line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var texts [2]string
			for i, path := range args {
				doc, err := a.loadFile(path)
				if err != nil {
					return err
				}
				data, err := doc.Serialize()
				if err != nil {
					return err
				}
				texts[i] = string(data)
			}
			fmt.Fprint(cmd.OutOrStdout(), lineDiff(texts[0], texts[1]))
			return nil
		},
	}
}

// lineDiff renders a unified-style listing: unchanged lines are prefixed with
// a space, removed lines with '-', added lines with '+'. Equal inputs yield "".
func lineDiff(a, b string) string {
	if a == b {
		return ""
	}
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (a *app) kindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List registered shape ids and their kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creators := shape.DefaultFactory()
			ids := creators.IDs()
			slices.Sort(ids)
			for _, id := range ids {
				s, err := creators.Create(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, s.Kind())
			}
			return nil
		},
	}
}

func (a *app) initCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to --config or " + config.DefaultPath,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.cfgFile
			if path == "" {
				path = config.DefaultPath
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", filepath.Clean(path))
			return nil
		},
	}
	// The target file usually does not exist yet, so skip loading it.
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	return cmd
}
