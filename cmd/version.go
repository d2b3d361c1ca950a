package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/killallgit/fortune-api/internal/services/fortunes"
	"github.com/killallgit/fortune-api/migrations"
	"github.com/killallgit/fortune-api/pkg/config"
	"github.com/spf13/cobra"
)

// Build variables - these will be set during build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
	OS        = runtime.GOOS
	Arch      = runtime.GOARCH
)

// versionInfo is what `version` reports, including the schema this binary
// migrates to and the size of its built-in fortune set.
type versionInfo struct {
	Version   string            `json:"version"`
	GitCommit string            `json:"git_commit"`
	BuildTime string            `json:"build_time"`
	GoVersion string            `json:"go_version"`
	Platform  string            `json:"platform"`
	Schema    map[string]string `json:"schema"`
	Fortunes  int               `json:"builtin_fortunes"`
}

// newVersionCmd builds the version command
func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Display version information about the Fortune API.

Besides the build details this reports the newest embedded schema
migration per database driver and how many fortunes are seeded into
an empty store.`,
		RunE: runVersion,
	}

	versionCmd.Flags().BoolP("short", "s", false, "print just the version number")
	versionCmd.Flags().Bool("json", false, "print version information as JSON")
	return versionCmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if short, _ := cmd.Flags().GetBool("short"); short {
		fmt.Fprintf(out, "v%s\n", Version)
		return nil
	}

	info, err := collectVersionInfo()
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	printVersionInfo(out, info)
	return nil
}

func collectVersionInfo() (versionInfo, error) {
	info := versionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		Platform:  OS + "/" + Arch,
		Schema:    make(map[string]string, 2),
		Fortunes:  len(fortunes.DefaultFortunes),
	}

	for _, driver := range []string{config.DriverSQLite, config.DriverPostgres} {
		latest, err := migrations.Latest(driver)
		if err != nil {
			return versionInfo{}, err
		}
		info.Schema[driver] = latest
	}
	return info, nil
}

func printVersionInfo(out io.Writer, info versionInfo) {
	rule := strings.Repeat("-", 40)

	fmt.Fprintln(out, "Fortune API")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Version:      v%s\n", info.Version)
	fmt.Fprintf(out, "Git Commit:   %s\n", info.GitCommit)
	fmt.Fprintf(out, "Build Time:   %s\n", info.BuildTime)
	fmt.Fprintf(out, "Go Version:   %s\n", info.GoVersion)
	fmt.Fprintf(out, "OS/Arch:      %s\n", info.Platform)
	fmt.Fprintf(out, "Schema:       sqlite %s, postgres %s\n",
		info.Schema[config.DriverSQLite], info.Schema[config.DriverPostgres])
	fmt.Fprintf(out, "Fortunes:     %d built-in\n", info.Fortunes)
	fmt.Fprintln(out, rule)
}
