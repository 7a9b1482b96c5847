package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "conference-bridge",
	Short: "Relays Jitsi Meet conference events between the JS emitter and native broadcasts",
	Long: "Classifies conference lifecycle events coming from the JavaScript event emitter or from native\n" +
		"broadcasts and re-broadcasts them to every registered receiver, including Discord channels.",
	SilenceUsage: true,
}

// Execute runs the root command. devMode sets the default of serve's --dev flag.
func Execute(devMode bool) {
	serveDev = devMode
	serveCmd.Flags().Lookup("dev").DefValue = boolString(devMode)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
