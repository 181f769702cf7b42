package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/princespaghetti/cadist/internal/mirror"
)

var (
	mirrorDest     string
	mirrorWorkers  int
	mirrorFromFile string
)

// mirrorCmd represents the mirror command.
var mirrorCmd = &cobra.Command{
	Use:   "mirror [url...]",
	Short: "Download distribution files into a local directory",
	Long: `Mirror replicates release metadata, manifests and certificate payloads
into a local directory so that probes on restricted hosts can run against
file sources instead of the official servers.

URLs are given as arguments, read from a file with --from-file, or both.`,
	RunE: runMirror,
}

func init() {
	mirrorCmd.Flags().StringVarP(&mirrorDest, "dest", "d", ".", "Destination directory for downloaded files")
	mirrorCmd.Flags().IntVarP(&mirrorWorkers, "workers", "w", 4, "Number of concurrent downloads")
	mirrorCmd.Flags().StringVar(&mirrorFromFile, "from-file", "", "Read additional URLs from a file, one per line")
	rootCmd.AddCommand(mirrorCmd)
}

func runMirror(cmd *cobra.Command, args []string) error {
	logger := zap.L().Sugar()

	urls := append([]string{}, args...)
	if mirrorFromFile != "" {
		fromFile, err := readURLFile(mirrorFromFile)
		if err != nil {
			return fmt.Errorf("failed to read URL file: %w", err)
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs to mirror")
	}

	logger.Infof("mirroring %d files into %s", len(urls), mirrorDest)
	failed, err := mirror.New(nil, mirrorWorkers).Fetch(cmd.Context(), urls, mirrorDest)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(urls))
	}
	logger.Infof("mirrored %d files into %s", len(urls), mirrorDest)
	return nil
}

// readURLFile loads URLs from a file, one per line. Blank lines and lines
// starting with # are skipped.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
