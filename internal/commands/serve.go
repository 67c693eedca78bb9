package commands

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/klabast/wb-services/shop-directory/internal/app"
	"github.com/klabast/wb-services/shop-directory/internal/sheet"
	"github.com/klabast/wb-services/shop-directory/internal/shops"
)

// sourceFlags are the flags shared by serve and inspect
type sourceFlags struct {
	sheetID  string
	sheetGID string
	file     string
	sheet    string
	timezone string
}

func (f *sourceFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.sheetID, "sheet-id", "", "Google spreadsheet ID (env SHEETS_ID)")
	flags.StringVar(&f.sheetGID, "sheet-gid", "", "Spreadsheet tab gid (env SHEETS_GID)")
	flags.StringVar(&f.file, "file", "", "Read a local .csv or .xlsx instead of Google Sheets (env SHEETS_FILE)")
	flags.StringVar(&f.sheet, "sheet", "", "Worksheet name for .xlsx files (env SHEETS_SHEET)")
	flags.StringVar(&f.timezone, "timezone", "", "IANA timezone for opening hours (env TIMEZONE, default Asia/Tokyo)")
}

// apply overrides cfg with the flags the user actually set
func (f *sourceFlags) apply(flags *pflag.FlagSet, cfg *app.Config) {
	if flags.Changed("sheet-id") {
		cfg.SheetID = f.sheetID
	}
	if flags.Changed("sheet-gid") {
		cfg.SheetGID = f.sheetGID
	}
	if flags.Changed("file") {
		cfg.SheetFile = f.file
	}
	if flags.Changed("sheet") {
		cfg.SheetName = f.sheet
	}
	if flags.Changed("timezone") {
		cfg.Timezone = f.timezone
	}
}

// ServeCmd returns the serve command
func ServeCmd(assets Assets) *cobra.Command {
	var (
		src          sourceFlags
		port         int
		cacheTTL     int
		liveInterval int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the web server. Configuration comes from the environment
(optionally a .env file); flags override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			src.apply(flags, &cfg)
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("cache-ttl") {
				cfg.CacheTTL = time.Duration(cacheTTL) * time.Second
			}
			if flags.Changed("live-interval") {
				cfg.LiveInterval = time.Duration(liveInterval) * time.Second
			}

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			source, err := cfg.NewSource(sheet.NewMemoryCache())
			if err != nil {
				return err
			}

			server := app.NewServer(source, shops.SystemClock{Location: loc})
			server.LiveInterval = cfg.LiveInterval
			server.Static = assets.Static
			server.IndexHTML = assets.IndexHTML

			log.Printf("Starting shop directory on http://localhost:%d", cfg.Port)
			log.Printf("Sheet: %s", sheet.Describe(source))
			log.Printf("Timezone: %s, cache TTL: %s, live interval: %s", loc, cfg.CacheTTL, cfg.LiveInterval)

			return http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), server.Routes())
		},
	}

	src.register(cmd.Flags())
	cmd.Flags().IntVar(&port, "port", app.DefaultPort, "Port to listen on (env PORT)")
	cmd.Flags().IntVar(&cacheTTL, "cache-ttl", int(sheet.DefaultCacheTTL/time.Second), "Seconds to cache the sheet, 0 disables (env SHEETS_CACHE_TTL_SECONDS)")
	cmd.Flags().IntVar(&liveInterval, "live-interval", int(app.DefaultLiveInterval/time.Second), "Seconds between live status pushes (env LIVE_INTERVAL_SECONDS)")

	return cmd
}
