package cmd

import (
	"fmt"
	"io"

	"github.com/meysamhadeli/resman/constants/lipgloss"
	"github.com/meysamhadeli/resman/resource_manager"
	"github.com/meysamhadeli/resman/resource_manager/contracts"
	"github.com/spf13/cobra"
	"github.com/zeebo/xxh3"
)

var sumCmd = &cobra.Command{
	Use:   "sum <name>...",
	Short: "Print xxh3 digests of resources",
	Long: `The 'sum' command streams each resolved resource through xxh3 and prints the 64-bit digest,
which makes it easy to compare the variant picked for different languages or categories.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		handleSumCommand(rootDependencies, args)
	},
}

func init() {
	rootCmd.AddCommand(sumCmd)
}

func handleSumCommand(rootDependencies *RootDependencies, names []string) {
	for _, name := range names {
		digest, found, err := resourceDigest(rootDependencies.Manager, name)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading %s: %v", name, err)))
			continue
		}
		if !found {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("❌ %s not found", name)))
			continue
		}
		fmt.Printf("%016x  %s\n", digest, name)
	}
}

// resourceDigest returns the xxh3 digest of the resource name resolves to.
func resourceDigest(manager contracts.IResourcesManager, name string) (uint64, bool, error) {
	var digest uint64
	found, err := manager.WithStream(name, func(stream *resource_manager.Stream) error {
		hasher := xxh3.New()
		if _, err := io.Copy(hasher, stream); err != nil {
			return err
		}
		digest = hasher.Sum64()
		return nil
	})
	return digest, found, err
}
