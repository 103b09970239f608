package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/meysamhadeli/resman/constants/lipgloss"
	"github.com/meysamhadeli/resman/utils"
	"github.com/spf13/cobra"
)

// shellCmd: resman shell
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Resolve names interactively while switching language and categories.",
	Long: `The 'shell' subcommand indexes the configured folders and archives once and then reads names
from the prompt, printing the record each one resolves to. Slash commands change the current language
and the enabled categories so the effect of overlays can be explored without reindexing.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		handleShellCommand(rootDependencies)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func handleShellCommand(rootDependencies *RootDependencies) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go utils.GracefulShutdown(ctx, cancel, func() {
		fmt.Println(lipgloss.Yellow.Render("\n🔄 Exiting..."))
	})

	reader := bufio.NewReader(os.Stdin)

	fmt.Println(lipgloss.BoxStyle.Render("/help  Help for shell subcommand"))
	fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("%d records indexed", rootDependencies.Manager.RecordCount())))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		userInput, err := utils.InputPromptWithContext(ctx, reader)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			continue
		}

		if userInput == "" {
			continue
		}

		handled, exit := findShellSubCommand(userInput, rootDependencies, reader)
		if exit {
			return
		}
		if handled {
			continue
		}

		record := rootDependencies.Manager.FindFileRecord(userInput)
		if record == nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("❌ %s not found", userInput)))
			continue
		}
		fmt.Println(lipgloss.BoxStyle.Render(describeRecord(userInput, record)))
	}
}

func findShellSubCommand(command string, rootDependencies *RootDependencies, reader *bufio.Reader) (bool, bool) {
	manager := rootDependencies.Manager

	fields := strings.Fields(command)
	argument := ""
	if len(fields) > 1 {
		argument = fields[1]
	}

	switch fields[0] {
	case "/help":
		helps := "/clear  Clear screen\n/exit  Exit from resman\n/lang [id]  Set the current language (empty clears it)\n/enable <category>  Enable a category\n/disable <category>  Disable a category\n/state  Show language and enabled categories\n/stats  Lookup statistics\n/sum <name>  xxh3 digest of a resource\n/reindex [-f]  Rebuild the index from the configuration"
		fmt.Println(lipgloss.BoxStyle.Render(helps))
		return true, false
	case "/clear":
		fmt.Print("\033[2J\033[H")
		return true, false
	case "/exit":
		return false, true
	case "/lang":
		manager.SetCurrentLanguage(argument)
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Language set to %q", argument)))
		return true, false
	case "/enable", "/disable":
		if argument == "" {
			fmt.Printf("Usage: %s <category>\n", fields[0])
			return true, false
		}
		if fields[0] == "/enable" {
			manager.EnableCategory(argument)
		} else {
			manager.DisableCategory(argument)
		}
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ %s %sd", argument, strings.TrimPrefix(fields[0], "/"))))
		return true, false
	case "/state":
		categories := manager.EnabledCategories()
		sort.Strings(categories)
		fmt.Printf("Language: %q\n", manager.CurrentLanguage())
		fmt.Printf("Enabled categories: %s\n", strings.Join(categories, ", "))
		return true, false
	case "/stats":
		printLookupStats(rootDependencies)
		return true, false
	case "/sum":
		if argument == "" {
			fmt.Println("Usage: /sum <name>")
			return true, false
		}
		handleSumCommand(rootDependencies, []string{argument})
		return true, false
	case "/reindex":
		handleReindexCommand(rootDependencies, reader, argument == "-f")
		return true, false
	default:
		if strings.HasPrefix(command, "/") {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Unknown command %s, try /help", fields[0])))
			return true, false
		}
		return false, false
	}
}
