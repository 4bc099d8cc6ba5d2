package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/launchdash/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var noData bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a launchdash.yaml and a sample dataset",
		Long: `Initialize a directory for launchdash.

This creates:
  - launchdash.yaml with every setting and its default
  - spacex_launch_dash.csv, a sample launch dataset (skip with --no-data)
  - .gitignore for generated databases and charts

Existing files are kept unless --force is given.`,
		Example: `  # Initialize in current directory
  launchdash init

  # Initialize a new directory without the sample data
  launchdash init my-dashboard --no-data

  # Overwrite existing files
  launchdash init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force, noData)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&noData, "no-data", false, "Do not write the sample dataset")

	return cmd
}

func runInit(r *output.Renderer, dir string, force, noData bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "launchdash.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("launchdash.yaml already exists. Use --force to overwrite")
	}

	files, err := copyTemplate(projectTemplate, dir, force, func(name string) bool {
		return noData && name == sampleDataFile
	})
	if err != nil {
		return fmt.Errorf("failed to initialize %s: %w", dir, err)
	}

	for _, f := range files {
		if f.Skipped {
			r.StatusLine(f.Name, "skipped", "exists")
			continue
		}
		r.StatusLine(f.Name, "success", "")
	}

	r.Println("")
	r.Success("launchdash initialized!")
	r.Println("")
	r.Println("Next steps:")
	if noData {
		r.Println("  1. Put your launch CSV next to launchdash.yaml as " + sampleDataFile)
	} else {
		r.Println("  1. Replace " + sampleDataFile + " with your own launch records if needed")
	}
	r.Println("  2. Run 'launchdash summary' to check the dataset")
	r.Println("  3. Run 'launchdash serve' and open http://localhost:8050")

	return nil
}
