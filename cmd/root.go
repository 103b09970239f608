package cmd

import (
	"fmt"
	"os"

	"github.com/meysamhadeli/resman/config"
	"github.com/meysamhadeli/resman/constants/lipgloss"
	"github.com/meysamhadeli/resman/resource_manager"
	"github.com/meysamhadeli/resman/resource_manager/contracts"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

// RootDependencies holds what every subcommand needs once the index is built.
type RootDependencies struct {
	Cwd     string
	Config  *config.Config
	Manager contracts.IResourcesManager
}

var rootCmd = &cobra.Command{
	Use:   "resman",
	Short: "Look up resources across folders and zip archives with language and category overlays.",
	Long: `resman indexes plain directories and zip archives into one filename-keyed view.
Language folders override generic resources for the current language, category folders
(e.g. "HD") add variants that only show up while their category is enabled.`,
	Run: func(cmd *cobra.Command, args []string) {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Println(lipgloss.BlueSky.Render(fmt.Sprintf("version: %s", config.DefaultConfig.Version)))
			return
		}
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand loads the configuration and indexes every configured folder and archive.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	commonlog.Configure(verbosity, nil)

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current working directory: %v", err)))
		return nil
	}

	cfg := config.LoadConfigWithCache(rootCmd, cwd)

	manager := resource_manager.NewResourcesManager(resource_manager.WithFs(afero.NewOsFs()))

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)
	spinnerIndex, _ := spinner.Start("Indexing resources...")

	err = cfg.Apply(manager)

	spinnerIndex.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return nil
	}

	return &RootDependencies{
		Cwd:     cwd,
		Config:  cfg,
		Manager: manager,
	}
}
