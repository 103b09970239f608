package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/meysamhadeli/resman/constants/lipgloss"
	"github.com/meysamhadeli/resman/resource_manager"
	"github.com/meysamhadeli/resman/utils"
	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <name>",
	Short: "Write a resource to stdout",
	Long: `The 'cat' command resolves a name and streams the chosen record to stdout,
whether it is a plain file or a zip entry. With --highlight, text resources are syntax highlighted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}

		highlight, _ := cmd.Flags().GetBool("highlight")
		handleCatCommand(rootDependencies, args[0], highlight)
	},
}

func init() {
	catCmd.Flags().Bool("highlight", false, "Syntax highlight text resources")
	rootCmd.AddCommand(catCmd)
}

func handleCatCommand(rootDependencies *RootDependencies, name string, highlight bool) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	found, err := rootDependencies.Manager.WithStream(name, func(stream *resource_manager.Stream) error {
		if !highlight {
			_, err := io.Copy(os.Stdout, stream)
			return err
		}

		content, err := io.ReadAll(stream)
		if err != nil {
			return err
		}
		return utils.RenderHighlightedWithContext(ctx, os.Stdout, name, content, rootDependencies.Config.Theme)
	})

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading %s: %v", name, err)))
		return
	}
	if !found {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("❌ %s not found", name)))
	}
}
