package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	internalConsole "github.com/inctrack/console-mcp-server/internal/console"
	consolePkg "github.com/inctrack/console-mcp-server/pkg/console"
)

// These variables are set by the build process using ldflags.
var (
	version = "version"
	commit  = "commit"
	date    = "date"
)

var (
	rootCmd = &cobra.Command{
		Use:     "server",
		Short:   "Incident Console MCP Server",
		Long:    `An MCP server exposing the incident tracker console: listing, search, assignment, comments and reporting.`,
		Version: fmt.Sprintf("Version: %s\nCommit: %s\nBuild Date: %s", version, commit, date),
	}

	stdioCmd = &cobra.Command{
		Use:   "stdio",
		Short: "Start stdio server",
		Long:  `Start a server that communicates via standard input/output streams using JSON-RPC messages.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			sessionToken := viper.GetString("session_token")
			if sessionToken == "" {
				return errors.New("session token not provided: use --session-token flag or set CONSOLE_SESSION_TOKEN environment variable")
			}

			// If you're wondering why we're not using viper.GetStringSlice("toolsets"),
			// it's because viper doesn't handle comma-separated values correctly for env
			// vars when using GetStringSlice.
			// https://github.com/spf13/viper/issues/380
			var enabledToolsets []string
			if viper.IsSet("toolsets") {
				toolsetsVal := viper.Get("toolsets")
				if s, ok := toolsetsVal.(string); ok {
					enabledToolsets = strings.Split(s, ",")
				} else if sl, ok := toolsetsVal.([]string); ok {
					enabledToolsets = sl
				} else {
					return fmt.Errorf("failed to parse 'toolsets': unexpected type %T", toolsetsVal)
				}
			}

			stdioServerConfig := internalConsole.StdioServerConfig{
				Version:              version,
				BaseURL:              viper.GetString("base_url"),
				SessionToken:         sessionToken,
				EnabledToolsets:      enabledToolsets,
				ReadOnly:             viper.GetBool("read-only"),
				EnableCommandLogging: viper.GetBool("enable-command-logging"),
				LogFilePath:          viper.GetString("log-file"),
			}
			return internalConsole.RunStdioServer(stdioServerConfig)
		},
	}

	httpCmd = &cobra.Command{
		Use:   "http",
		Short: "Start HTTP server",
		Long:  `Start a streamable HTTP server.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			httpServerConfig := internalConsole.HTTPServerConfig{
				Version:     version,
				Commit:      commit,
				Date:        date,
				BaseURL:     viper.GetString("base_url"),
				Port:        viper.GetString("port"),
				LogFilePath: viper.GetString("log-file"),
			}
			return internalConsole.RunHTTPServer(httpServerConfig)
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetGlobalNormalizationFunc(wordSepNormalizeFunc)
	rootCmd.SetVersionTemplate("{{.Short}}\n{{.Version}}\n")

	// Add global flags that will be shared by all commands
	rootCmd.PersistentFlags().String("session-token", "", "Incident tracker session token (can also be set via CONSOLE_SESSION_TOKEN environment variable)")
	rootCmd.PersistentFlags().StringSlice("toolsets", consolePkg.DefaultTools, "An optional comma separated list of groups of tools to allow, defaults to enabling all")
	rootCmd.PersistentFlags().Bool("read-only", false, "Restrict the server to read-only operations")
	rootCmd.PersistentFlags().String("log-file", "", "Path to log file")
	rootCmd.PersistentFlags().Bool("enable-command-logging", false, "When enabled, the server will log all command requests and responses to the log file")
	rootCmd.PersistentFlags().String("base-url", "http://localhost:8080/api", "Specify the incident tracker API base URL")

	// Add flags for http command
	httpCmd.Flags().String("port", "11320", "Port to listen on")

	// Bind flag to viper
	_ = viper.BindPFlag("session_token", rootCmd.PersistentFlags().Lookup("session-token"))
	_ = viper.BindPFlag("toolsets", rootCmd.PersistentFlags().Lookup("toolsets"))
	_ = viper.BindPFlag("read-only", rootCmd.PersistentFlags().Lookup("read-only"))
	_ = viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("enable-command-logging", rootCmd.PersistentFlags().Lookup("enable-command-logging"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("port", httpCmd.Flags().Lookup("port"))

	// Add subcommands
	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(httpCmd)
}

func initConfig() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	viper.SetEnvPrefix("console")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func wordSepNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	from := []string{"_"}
	to := "-"
	for _, sep := range from {
		name = strings.ReplaceAll(name, sep, to)
	}
	return pflag.NormalizedName(name)
}
