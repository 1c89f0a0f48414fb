package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/depsweep/depsweep/pkg/workspace"
)

// projectsCommand creates the projects listing command.
func (c *CLI) projectsCommand() *cobra.Command {
	var (
		skipNameless bool
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "projects [ref]",
		Short: "List projects in the workspace",
		Long: `List the projects discovered in the workspace.

Without arguments every project is listed. The optional ref narrows the
list: it is a comma-separated mix of manifest paths (packages/a/deno.json),
directories (packages), and exact project names (@scope/name).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}

			ws, err := c.newWorkspace()
			if err != nil {
				return err
			}

			opts := workspace.ResolveOptions{
				SkipNameless: skipNameless,
				Diag: func(d workspace.Diagnostic) {
					c.Logger.Debugf("skipped %s: %s (%v)", d.Path, d.Reason, d.Err)
				},
			}
			projects, err := ws.Resolve(ref, opts)
			if err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(projects)
			}
			printProjects(projects)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipNameless, "skip-nameless", false, "hide manifests without a name field")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func printProjects(projects []workspace.ProjectRef) {
	if len(projects) == 0 {
		printInfo("No projects found")
		return
	}

	rows := make([][]string, 0, len(projects))
	for _, pr := range projects {
		name := pr.Name
		if name == "" {
			name = StyleDim.Render("(nameless)")
		}
		dev := ""
		if pr.HasDev {
			dev = iconSuccess
		}
		rows = append(rows, []string{name, pr.Dir, dev, taskNames(pr.Tasks)})
	}
	table([]string{"NAME", "DIR", "DEV", "TASKS"}, rows)
	fmt.Println(StyleDim.Render(fmt.Sprintf("%d project(s)", len(projects))))
}

func taskNames(tasks map[string]string) string {
	if len(tasks) == 0 {
		return "—"
	}
	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
