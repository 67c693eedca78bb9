package commands

import (
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Assets are the files embedded by main
type Assets struct {
	Static    fs.FS
	IndexHTML []byte
}

// EnvPaths are the .env locations tried in order; the first one found wins
var EnvPaths = []string{".env", "../.env"}

// LoadEnv loads the first .env file found. Variables already set are kept.
func LoadEnv(paths []string) string {
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// RootCmd returns the shop-directory command with all subcommands attached
func RootCmd(assets Assets) *cobra.Command {
	root := &cobra.Command{
		Use:   "shop-directory",
		Short: "Searchable shop directory backed by a Google spreadsheet",
		Long: `shop-directory serves a listing of shops maintained in a Google spreadsheet.
The sheet is exported as CSV, its header row is detected automatically and every
shop is shown with a live "営業中" indicator derived from its opening days and hours.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if path := LoadEnv(EnvPaths); path != "" {
				log.Printf("Loaded .env from: %s", path)
			}
		},
	}

	serve := ServeCmd(assets)
	root.AddCommand(serve)
	root.AddCommand(InspectCmd())

	// Running without a subcommand serves, as the old single-purpose binary did
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}
