// Package cmd implements the CLI application to track a stock portfolio.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/backend"
	"github.com/etnz/folio/eodhd"
	"github.com/etnz/folio/yahoo"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&holdingsCmd{}, "portfolio")
	c.Register(&historyCmd{}, "portfolio")
	c.Register(&quoteCmd{}, "portfolio")
	c.Register(&dashboardCmd{}, "portfolio")
	c.Register(&compareCmd{}, "portfolio")

	c.Register(&importCmd{}, "backend")
	c.Register(&stocksCmd{}, "backend")
	c.Register(&addCmd{}, "backend")
	c.Register(&deleteCmd{}, "backend")

	c.Register(&assistCmd{}, "assistant")
	c.Register(&topicCmd{}, "help")
}

const (
	EnvBackendURL = "PFT_BACKEND_URL"
	EnvToken      = "PFT_TOKEN"
	EnvCurrency   = "PFT_CURRENCY"
	EnvProvider   = "PFT_PROVIDER"
	EnvVerbose    = "PFT_VERBOSE"
	EnvEODHDKey   = "EODHD_API_KEY"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	backendURL = flag.String("backend", "", "Base URL of the portfolio backend. Defaults to $"+EnvBackendURL+".")
	token      = flag.String("token", "", "Bearer token for the backend. Defaults to $"+EnvToken+".")
	currency   = flag.String("currency", "", "Currency of all amounts. Defaults to $"+EnvCurrency+" or USD.")
	provider   = flag.String("provider", "", "Market data provider (yahoo, eodhd). Defaults to $"+EnvProvider+" or yahoo.")
	Verbose    = flag.Bool("v", false, "Verbose logging.")
	raw        = flag.Bool("raw", false, "Print plain markdown instead of rendering it for the terminal.")
)

// stdout receives the commands' reports.
var stdout io.Writer = os.Stdout

// config is the resolved configuration: flags first, then environment, then defaults.
type config struct {
	BackendURL string
	Token      string
	Currency   string
	Provider   string
	EODHDKey   string
	Verbose    bool
}

func loadConfig() config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return config{
		BackendURL: flagOrEnv(*backendURL, EnvBackendURL, ""),
		Token:      flagOrEnv(*token, EnvToken, ""),
		Currency:   strings.ToUpper(flagOrEnv(*currency, EnvCurrency, "USD")),
		Provider:   strings.ToLower(flagOrEnv(*provider, EnvProvider, "yahoo")),
		EODHDKey:   getEnv(EnvEODHDKey, ""),
		Verbose:    *Verbose || getEnv(EnvVerbose, "") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func flagOrEnv(flagValue, key, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return getEnv(key, defaultValue)
}

// logger returns the console logger on stderr.
func (c config) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if c.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// market returns the market over the configured provider.
func (c config) market(log zerolog.Logger) (*folio.Market, error) {
	switch c.Provider {
	case "yahoo":
		y := yahoo.New(c.Currency, log)
		return folio.NewMarket(y, y, log), nil
	case "eodhd":
		e, err := eodhd.New(c.EODHDKey, log, eodhd.WithCurrency(c.Currency))
		if err != nil {
			return nil, fmt.Errorf("%w, set $%s", err, EnvEODHDKey)
		}
		return folio.NewMarket(e, e, log), nil
	default:
		return nil, fmt.Errorf("unknown provider %q want yahoo or eodhd", c.Provider)
	}
}

// backend returns the backend client.
func (c config) backend(log zerolog.Logger) (*backend.Client, error) {
	b, err := backend.New(c.BackendURL, backend.StaticToken(c.Token), c.Currency, log)
	if err != nil {
		return nil, fmt.Errorf("%w, use -backend or set $%s", err, EnvBackendURL)
	}
	return b, nil
}

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	if *raw {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, render(md))
}

func render(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// progress logs each status change of an import.
func progress(log zerolog.Logger) func(folio.ImportRow) {
	start := time.Now()
	return func(row folio.ImportRow) {
		log.Debug().Int("line", row.Line).Stringer("status", row.Status).Dur("elapsed", time.Since(start)).Msg("import progress")
	}
}
