package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depsweep/depsweep/pkg/registry"
)

// versionsCommand creates the versions listing command.
func (c *CLI) versionsCommand() *cobra.Command {
	var (
		channel       string
		allChannels   bool
		includeYanked bool
		refresh       bool
		limit         int
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "versions <package>",
		Short: "List published versions of a package",
		Long: `List the published versions of a package, newest first.

By default only production versions are shown. Use --channel to list a
prerelease channel ("1.4.0-integration.2" lives on "integration"), or
--all to list every channel. Yanked and deprecated versions are hidden
unless --include-yanked is set.`,
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

			spinner := newSpinner(ctx, fmt.Sprintf("Fetching versions of %s...", pkg))
			available, err := resolver.Versions(ctx, reg, pkg, registryOptions(includeYanked, refresh))
			if err != nil {
				spinner.StopWithError("Version lookup failed")
				return describeLookupError(err, pkg)
			}
			spinner.Stop()

			if !allChannels {
				available = onChannel(available, channel)
			}
			if limit > 0 && len(available) > limit {
				available = available[:limit]
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(available)
			}
			printVersions(pkg, available)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", `release channel ("" = production)`)
	cmd.Flags().BoolVar(&allChannels, "all", false, "list every channel")
	cmd.Flags().BoolVar(&includeYanked, "include-yanked", false, "include yanked and deprecated versions")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the registry cache")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum versions to list (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func onChannel(available []registry.AvailableVersion, channel string) []registry.AvailableVersion {
	var out []registry.AvailableVersion
	for _, av := range available {
		if av.Channel == channel {
			out = append(out, av)
		}
	}
	return out
}

func printVersions(pkg string, available []registry.AvailableVersion) {
	if len(available) == 0 {
		printInfo("No versions found")
		return
	}

	rows := make([][]string, 0, len(available))
	for _, av := range available {
		ch := av.Channel
		if ch == "" {
			ch = StyleDim.Render("production")
		}
		published := ""
		if !av.PublishedAt.IsZero() {
			published = av.PublishedAt.Format("2006-01-02")
		}
		flags := ""
		if av.Yanked {
			flags = StyleWarning.Render("yanked")
		}
		rows = append(rows, []string{av.Version, ch, published, flags})
	}
	fmt.Println(StyleTitle.Render(pkg))
	table([]string{"VERSION", "CHANNEL", "PUBLISHED", ""}, rows)
}
