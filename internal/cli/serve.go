package cli

import (
	"github.com/spf13/cobra"

	"github.com/angelajfisher/conference-bridge/internal/application"
)

var (
	serveDev        bool
	serveEnvFile    string
	serveConfig     string
	servePort       string
	serveDBPath     string
	serveDBDisabled bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "run the program in development mode")
	serveCmd.Flags().StringVar(&serveEnvFile, "envFile", "", "program will load environment variables from the file at this path if provided")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "path to YAML config file, watched for changes")
	serveCmd.Flags().StringVar(&servePort, "port", "", "address at which the bridge listens (default from config, :12345)")
	serveCmd.Flags().StringVar(&serveDBPath, "dbPath", "", "preferred location of the database file (default from config)")
	serveCmd.Flags().BoolVar(
		&serveDBDisabled,
		"dbDisabled",
		false,
		"disable the use of a sqlite3 database in favor of in-memory storage, which is lost on shutdown",
	)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the conference bridge",
	Long:  "Runs the HTTP bridge, the broadcast manager, and the Discord notifier until interrupted.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		application.Initialize(application.Options{
			DevMode:    serveDev,
			EnvPath:    serveEnvFile,
			ConfigPath: serveConfig,
			Port:       servePort,
			DBPath:     serveDBPath,
			DBDisabled: serveDBDisabled,
		})
	},
}
