package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/klabast/wb-services/shop-directory/internal/sheet"
)

// Constants
const (
	DefaultPort         = 8080
	DefaultTimezone     = "Asia/Tokyo"
	DefaultLiveInterval = 60 * time.Second
	CacheKey            = "shops"

	RawPreviewRows   = 15
	DebugItemsShown  = 5
	DebugRawRowsShow = 10

	// Error messages
	ErrInternalServer = "Internal server error"
	ErrInvalidFormat  = "Invalid format"
	ErrShopNotFound   = "店舗が見つかりません"
	ErrSheetFetch     = "スプレッドシートを取得できませんでした"

	// ICS constants
	ICSProductID = "-//Shop Directory//JA"
)

// Environment variable names
const (
	EnvSheetID      = "SHEETS_ID"
	EnvSheetGID     = "SHEETS_GID"
	EnvSheetFile    = "SHEETS_FILE"
	EnvSheetName    = "SHEETS_SHEET"
	EnvCacheTTL     = "SHEETS_CACHE_TTL_SECONDS"
	EnvPort         = "PORT"
	EnvTimezone     = "TIMEZONE"
	EnvLiveInterval = "LIVE_INTERVAL_SECONDS"
	EnvFetchTimeout = "FETCH_TIMEOUT_SECONDS"
)

// ErrMissingConfig is returned when a required variable is unset
var ErrMissingConfig = errors.New("missing configuration")

// Config holds everything needed to build the row source and the server
type Config struct {
	SheetID      string
	SheetGID     string
	SheetFile    string
	SheetName    string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	LiveInterval time.Duration
	Port         int
	Timezone     string
}

// LoadConfig reads the configuration from the environment.
// It does not validate required fields; call Validate before serving.
func LoadConfig() (Config, error) {
	cfg := Config{
		SheetID:   strings.TrimSpace(os.Getenv(EnvSheetID)),
		SheetGID:  strings.TrimSpace(os.Getenv(EnvSheetGID)),
		SheetFile: strings.TrimSpace(os.Getenv(EnvSheetFile)),
		SheetName: strings.TrimSpace(os.Getenv(EnvSheetName)),
		Timezone:  DefaultTimezone,
	}
	if tz := strings.TrimSpace(os.Getenv(EnvTimezone)); tz != "" {
		cfg.Timezone = tz
	}

	ttl, err := envSeconds(EnvCacheTTL, sheet.DefaultCacheTTL)
	if err != nil {
		return cfg, err
	}
	cfg.CacheTTL = ttl

	timeout, err := envSeconds(EnvFetchTimeout, sheet.DefaultTimeout)
	if err != nil {
		return cfg, err
	}
	cfg.FetchTimeout = timeout

	interval, err := envSeconds(EnvLiveInterval, DefaultLiveInterval)
	if err != nil {
		return cfg, err
	}
	cfg.LiveInterval = interval

	cfg.Port = DefaultPort
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid %s %q", EnvPort, v)
		}
		cfg.Port = port
	}

	return cfg, nil
}

func envSeconds(name string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative number of seconds", name, v)
	}
	return time.Duration(n) * time.Second, nil
}

// Validate checks that a row source can be built
func (c Config) Validate() error {
	if c.SheetFile != "" {
		return nil
	}
	if c.SheetID == "" {
		return fmt.Errorf("%w: %s", ErrMissingConfig, EnvSheetID)
	}
	if c.SheetGID == "" {
		return fmt.Errorf("%w: %s", ErrMissingConfig, EnvSheetGID)
	}
	return nil
}

// Location resolves the configured timezone
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// NewSource builds the row source: a local file when configured, the Google
// export otherwise, behind the in-memory cache.
func (c Config) NewSource(cache sheet.Cache) (sheet.Source, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var src sheet.Source
	if c.SheetFile != "" {
		src = &sheet.FileSource{Path: c.SheetFile, Sheet: c.SheetName}
	} else {
		src = sheet.NewHTTPSource(c.SheetID, c.SheetGID, c.FetchTimeout)
	}

	if cache == nil || c.CacheTTL <= 0 {
		return src, nil
	}
	return sheet.NewCachedSource(src, cache, CacheKey, c.CacheTTL), nil
}
