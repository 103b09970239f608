package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/meysamhadeli/resman/config"
	"github.com/meysamhadeli/resman/constants/lipgloss"
	"github.com/meysamhadeli/resman/utils"
	"github.com/pterm/pterm"
)

// handleReindexCommand reloads the configuration and ignore files from disk, then forgets the
// whole index and rebuilds it. Open streams survive the reset. Without force the user is asked
// to confirm.
func handleReindexCommand(rootDependencies *RootDependencies, reader *bufio.Reader, force bool) {
	manager := rootDependencies.Manager

	if !force {
		fmt.Printf("Drop %d records and index everything again? (y/N): ", manager.RecordCount())
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println(lipgloss.Yellow.Render("Reindex cancelled."))
			return
		}
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)

	spinnerInstance, _ := spinner.Start("Reindexing resources...")

	// Reset also drops the language and categories, Apply restores the configured ones
	language, categories := manager.CurrentLanguage(), manager.EnabledCategories()
	err := rebuildIndex(rootDependencies)

	spinnerInstance.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reindexing: %v", err)))
		return
	}

	manager.SetCurrentLanguage(language)
	for _, category := range categories {
		manager.EnableCategory(category)
	}

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ %d records indexed", manager.RecordCount())))
}

// rebuildIndex drops the cached configuration and ignore patterns so edits on disk are seen,
// then indexes everything again with the reloaded configuration.
func rebuildIndex(rootDependencies *RootDependencies) error {
	config.InvalidateConfigCache(config.ConfigFilePath(rootDependencies.Cwd))
	utils.ClearIgnoreCache()

	rootDependencies.Config = config.LoadConfigWithCache(rootCmd, rootDependencies.Cwd)

	rootDependencies.Manager.Reset()
	return rootDependencies.Config.Apply(rootDependencies.Manager)
}
