package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depsweep/depsweep/pkg/refs"
	"github.com/depsweep/depsweep/pkg/registry"
)

// upgradeCommand creates the upgrade command.
func (c *CLI) upgradeCommand() *cobra.Command {
	var (
		target          string
		channel         string
		dryRun          bool
		interactive     bool
		sources         []string
		projects        []string
		excludeProjects []string
		refresh         bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade <package>",
		Short: "Rewrite every reference to a package to a new version",
		Long: `Rewrite every reference to a package across the workspace.

Without --version the target is the latest published version on the chosen
channel ("" = production), and only references older than the target are
touched. An explicit --version is applied as-is, which permits pinning and
downgrades, after checking that the version was actually published.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, pkg, err := parsePackageArg(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			resolver, err := c.newRegistry(ctx)
			if err != nil {
				return err
			}

			opts := refs.UpgradeOptions{
				Version: target,
				DryRun:  dryRun,
				Logf:    c.Logger.Debugf,
			}
			for _, s := range sources {
				opts.Sources = append(opts.Sources, refs.Source(s))
			}
			opts.Projects = projects
			opts.ExcludeProjects = excludeProjects

			spinner := newSpinner(ctx, fmt.Sprintf("Resolving %s...", pkg))
			if refresh {
				// Repopulate the cache so the lookups below see fresh data.
				if _, err := resolver.Versions(ctx, reg, pkg, registryOptions(false, true)); err != nil {
					spinner.StopWithError("Version lookup failed")
					return describeLookupError(err, pkg)
				}
			}
			if target == "" {
				latest, err := resolver.Latest(ctx, reg, pkg, channel)
				if err != nil {
					spinner.StopWithError("Version lookup failed")
					return describeLookupError(err, pkg)
				}
				opts.Version = latest
				// Latest-derived targets never downgrade existing pins.
				opts.RequireNewer = true
			} else {
				ok, err := resolver.HasVersion(ctx, reg, pkg, target)
				if err != nil {
					spinner.StopWithError("Version lookup failed")
					return describeLookupError(err, pkg)
				}
				if !ok {
					spinner.Stop()
					return fmt.Errorf("%s has no published version %s", pkg, target)
				}
			}
			spinner.Stop()

			scanner, err := c.newScanner()
			if err != nil {
				return err
			}

			if interactive {
				picked, err := c.pickProject(scanner, pkg)
				if err != nil {
					return err
				}
				if picked == "" {
					printInfo("Nothing selected")
					return nil
				}
				opts.Projects = []string{picked}
			}

			prog := newProgress(c.Logger)
			results, err := scanner.Upgrade(pkg, opts)
			if err != nil {
				return fmt.Errorf("upgrade %s: %w", pkg, err)
			}
			prog.done(fmt.Sprintf("Swept %s to %s", pkg, opts.Version))

			printUpgradeResults(results, dryRun)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "version", "V", "", "explicit target version (default: latest on the channel)")
	cmd.Flags().StringVar(&channel, "channel", "", `release channel, e.g. "integration" ("" = production)`)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing files")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the project to upgrade interactively")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "only these source categories (config, deps, template, docs, other)")
	cmd.Flags().StringSliceVar(&projects, "project", nil, "only references owned by these projects")
	cmd.Flags().StringSliceVar(&excludeProjects, "exclude-project", nil, "skip references owned by these projects")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the registry cache")

	return cmd
}

func describeLookupError(err error, pkg string) error {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return fmt.Errorf("package %s not found in the registry", pkg)
	case errors.Is(err, registry.ErrFetch):
		return fmt.Errorf("registry unreachable for %s: %w", pkg, err)
	}
	return err
}

func printUpgradeResults(results []refs.Result, dryRun bool) {
	if len(results) == 0 {
		printInfo("Nothing to upgrade")
		return
	}

	var ok, failed int
	for _, r := range results {
		if r.Success {
			ok++
			printChange(r.File, r.Line, r.OldVersion, r.NewVersion)
			continue
		}
		failed++
		printError("%s:%d: %s", r.File, r.Line, r.Error)
	}

	switch {
	case dryRun:
		printInfo("Dry run: %d reference(s) would change", ok)
	case failed > 0:
		printWarning("Updated %d reference(s), %d failed", ok, failed)
	default:
		printSuccess("Updated %d reference(s)", ok)
	}
}
