package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depsweep/depsweep/pkg/refs"
)

// refsCommand creates the reference listing command.
func (c *CLI) refsCommand() *cobra.Command {
	var (
		sources  []string
		projects []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "refs <package>",
		Short: "List references to a package across the workspace",
		Long: `List every reference to a package across project manifests, dependency
modules, templates, docs, and source files.

The package may carry an explicit registry prefix (jsr:@std/path,
npm:react). Scoped names without a prefix default to jsr, bare names to
npm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pkg, err := parsePackageArg(args[0])
			if err != nil {
				return err
			}

			scanner, err := c.newScanner()
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			found, err := scanner.FindReferences(pkg)
			if err != nil {
				return fmt.Errorf("scan references: %w", err)
			}
			found = filterReferences(found, sources, projects)
			prog.done(fmt.Sprintf("Found %d reference(s) to %s", len(found), pkg))

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(found)
			}
			printReferences(found)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sources, "source", nil, "only these source categories (config, deps, template, docs, other)")
	cmd.Flags().StringSliceVar(&projects, "project", nil, "only references owned by these projects")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func filterReferences(found []refs.Reference, sources, projects []string) []refs.Reference {
	if len(sources) == 0 && len(projects) == 0 {
		return found
	}
	srcSet := make(map[string]bool, len(sources))
	for _, s := range sources {
		srcSet[s] = true
	}
	projSet := make(map[string]bool, len(projects))
	for _, p := range projects {
		projSet[p] = true
	}

	var out []refs.Reference
	for _, ref := range found {
		if len(srcSet) > 0 && !srcSet[string(ref.Source)] {
			continue
		}
		if len(projSet) > 0 && !projSet[ref.ProjectName] {
			continue
		}
		out = append(out, ref)
	}
	return out
}

func printReferences(found []refs.Reference) {
	if len(found) == 0 {
		printInfo("No references found")
		return
	}

	rows := make([][]string, 0, len(found))
	for _, ref := range found {
		rows = append(rows, []string{
			fmt.Sprintf("%s:%d", ref.File, ref.Line),
			ref.CurrentVersion,
			string(ref.Source),
			ref.ProjectName,
		})
	}
	table([]string{"LOCATION", "VERSION", "SOURCE", "PROJECT"}, rows)
}
