// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "webshield",
	Short: "WebShield is the backend for the WebShield content filter",
	Long: `WebShield is the backend service for the WebShield content-filtering
product. It serves the REST API for user profiles, security and privacy
settings, whitelist/blacklist management and usage statistics.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
