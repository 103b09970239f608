package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/meysamhadeli/resman/constants/lipgloss"
	"github.com/meysamhadeli/resman/resource_manager/models"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [pattern]",
	Short: "List indexed resources",
	Long: `The 'ls' command indexes the configured folders and archives and prints every record:
its lookup key, on-disk name, storage type, size, language and category tags and where it is read from.
An optional glob pattern filters by key.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}

		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}
		handleListCommand(rootDependencies, pattern)
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func handleListCommand(rootDependencies *RootDependencies, pattern string) {
	data := pterm.TableData{{"Key", "Name", "Type", "Size", "Language", "Category", "Source"}}

	var patternErr error
	rootDependencies.Manager.Records(func(key string, record *models.FileRecord) {
		if pattern != "" {
			matched, err := filepath.Match(pattern, key)
			if err != nil {
				patternErr = err
				return
			}
			if !matched {
				return
			}
		}
		data = append(data, []string{
			key,
			record.Filename,
			record.FileType.String(),
			strconv.FormatInt(record.Size, 10),
			record.LanguageID,
			record.Category,
			record.Source(),
		})
	})

	if patternErr != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Invalid pattern %q: %v", pattern, patternErr)))
		return
	}

	if len(data) == 1 {
		fmt.Println(lipgloss.Yellow.Render("No resources indexed."))
		return
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error rendering table: %v", err)))
		return
	}
	fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("%d records", len(data)-1)))
}
