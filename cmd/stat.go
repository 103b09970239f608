package cmd

import (
	"fmt"
	"strings"

	"github.com/meysamhadeli/resman/config"
	"github.com/meysamhadeli/resman/constants/lipgloss"
	"github.com/meysamhadeli/resman/resource_manager/models"
	"github.com/meysamhadeli/resman/utils"
	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat <name>...",
	Short: "Show which record a name resolves to",
	Long: `The 'stat' command resolves each name under the configured language and enabled categories
and prints the chosen record. Use --stats to print lookup statistics afterwards.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}

		showStats, _ := cmd.Flags().GetBool("stats")
		handleStatCommand(rootDependencies, args, showStats)
	},
}

func init() {
	statCmd.Flags().BoolP("stats", "s", false, "Show lookup statistics")
	rootCmd.AddCommand(statCmd)
}

func handleStatCommand(rootDependencies *RootDependencies, names []string, showStats bool) {
	for _, name := range names {
		record := rootDependencies.Manager.FindFileRecord(name)
		if record == nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("❌ %s not found", name)))
			continue
		}
		fmt.Println(lipgloss.BoxStyle.Render(describeRecord(name, record)))
	}

	if showStats {
		printLookupStats(rootDependencies)
	}
}

func describeRecord(name string, record *models.FileRecord) string {
	var builder strings.Builder
	builder.WriteString(lipgloss.Info.Render(name) + "\n")
	builder.WriteString(fmt.Sprintf("Type:     %s\n", record.FileType))
	builder.WriteString(fmt.Sprintf("Size:     %d\n", record.Size))
	if record.LanguageID != "" {
		builder.WriteString(fmt.Sprintf("Language: %s\n", record.LanguageID))
	}
	if record.Category != "" {
		builder.WriteString(fmt.Sprintf("Category: %s\n", record.Category))
	}
	builder.WriteString(fmt.Sprintf("Source:   %s", record.Source()))
	return builder.String()
}

func printLookupStats(rootDependencies *RootDependencies) {
	stats := rootDependencies.Manager.GetPerformanceStats()

	fmt.Println(lipgloss.Info.Render("Lookup Statistics:"))
	if records, ok := stats["indexed_records"].(int); ok {
		fmt.Printf("  Indexed Records: %d\n", records)
	}
	if keys, ok := stats["indexed_keys"].(int); ok {
		fmt.Printf("  Indexed Keys: %d\n", keys)
	}
	if total, ok := stats["total_requests"].(int64); ok {
		fmt.Printf("  Lookups: %d\n", total)
	}
	if hitRate, ok := stats["hit_rate_percent"].(float64); ok {
		fmt.Printf("  Hit Rate: %.1f%%\n", hitRate)
	}
	if streams, ok := stats["open_streams"].(int); ok {
		fmt.Printf("  Open Streams: %d\n", streams)
	}

	fmt.Println(lipgloss.Info.Render("Cache Statistics:"))
	if configPath := config.ConfigFilePath(rootDependencies.Cwd); configPath != "" {
		fmt.Printf("  Config File: %s (%s)\n", configPath, config.GetConfigFileType(configPath))
	}
	if cached, ok := config.GetConfigCacheStats()["cached_files"].(int); ok {
		fmt.Printf("  Cached Configs: %d\n", cached)
	}
	if cached, ok := utils.GetIgnoreCacheStats()["cached_files"].(int); ok {
		fmt.Printf("  Cached Ignore Files: %d\n", cached)
	}
}
