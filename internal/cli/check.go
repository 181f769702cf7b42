package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/princespaghetti/cadist/internal/check"
	"github.com/princespaghetti/cadist/internal/fingerprint"
)

const defaultCertDir = "/etc/ssl/cadist"

var (
	checkCertDir         string
	checkReleaseSources  []string
	checkManifestSources []string
	checkObsoleteSources []string
	checkMaxSourceAge    int
	checkFingerprintMode string
	checkOpenSSLPath     string
	checkWarningDays     int
	checkCriticalDays    int
	checkTimeout         int
	checkDetails         bool
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the installed CA distribution against the official release",
	Long: `Check compares the locally installed CA store with the authoritative
release metadata and prints a single verdict line on stdout.

The exit code follows the monitoring plugin convention: 0 OK, 1 WARNING,
2 CRITICAL, 3 UNKNOWN.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkCertDir, "cert-dir", defaultCertDir, "Directory holding the installed CA descriptors")
	checkCmd.Flags().StringSliceVar(&checkReleaseSources, "release-source", nil, "Release descriptor URL or file, alternatives tried in order")
	checkCmd.Flags().StringSliceVar(&checkManifestSources, "manifest-source", nil, "Package manifest URL or file, alternatives tried in order")
	checkCmd.Flags().StringSliceVar(&checkObsoleteSources, "obsolete-source", nil, "Obsoleted package manifest URL or file, alternatives tried in order")
	checkCmd.Flags().IntVar(&checkMaxSourceAge, "max-source-age", 0, "Reject cached source files older than this many hours (0 disables)")
	checkCmd.Flags().StringVar(&checkFingerprintMode, "fingerprint-mode", "native", "Fingerprint computation: native or openssl")
	checkCmd.Flags().StringVar(&checkOpenSSLPath, "openssl-path", "", "Path to the openssl binary (openssl mode only)")
	checkCmd.Flags().IntVarP(&checkWarningDays, "warning", "w", 3, "Days after a new release before an outdated install is WARNING")
	checkCmd.Flags().IntVarP(&checkCriticalDays, "critical", "c", 8, "Days after a new release before an outdated install is CRITICAL")
	checkCmd.Flags().IntVar(&checkTimeout, "timeout", 30, "Overall probe timeout in seconds")
	checkCmd.Flags().BoolVar(&checkDetails, "details", false, "Print each finding on its own line")

	viper.BindPFlag("cert-dir", checkCmd.Flags().Lookup("cert-dir"))

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := zap.L().Sugar()

	provider, err := newProvider(checkFingerprintMode, checkOpenSSLPath)
	if err != nil {
		fmt.Printf("%s: %v\n", check.Unknown, err)
		os.Exit(check.Unknown.ExitCode())
	}

	certDir := viper.GetString("cert-dir")
	cfg := check.Config{
		CADir:           certDir,
		ReleaseSources:  checkReleaseSources,
		ManifestSources: checkManifestSources,
		ObsoleteSources: checkObsoleteSources,
		MaxSourceAge:    time.Duration(checkMaxSourceAge) * time.Hour,
		WarningDays:     checkWarningDays,
		CriticalDays:    checkCriticalDays,
		Provider:        provider,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(checkTimeout)*time.Second)
	defer cancel()

	logger.Debugf("probing CA distribution in %s", certDir)
	verdict := check.New(cfg).Run(ctx)

	printVerdict(os.Stdout, verdict, checkDetails)
	os.Exit(verdict.Severity.ExitCode())
	return nil
}

// newProvider selects the fingerprint implementation for the requested mode.
func newProvider(mode, opensslPath string) (fingerprint.Provider, error) {
	switch mode {
	case "native":
		return fingerprint.NewLibrary(), nil
	case "openssl":
		return fingerprint.NewOpenSSL(opensslPath), nil
	default:
		return nil, fmt.Errorf("unknown fingerprint mode %q (expected native or openssl)", mode)
	}
}

// printVerdict writes the verdict line. With details enabled the combined
// message is unfolded so each finding gets its own line.
func printVerdict(w io.Writer, v check.Verdict, details bool) {
	if !details {
		fmt.Fprintf(w, "%s: %s\n", v.Severity, v.Message)
		return
	}
	parts := strings.Split(v.Message, "; ")
	fmt.Fprintf(w, "%s: %s\n", v.Severity, parts[0])
	for _, part := range parts[1:] {
		fmt.Fprintf(w, " - %s\n", part)
	}
}
