package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"wpn/internal/aggregate"
	"wpn/internal/catalog"
	"wpn/internal/match"
	"wpn/internal/scrape"
	"wpn/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	fetcher    *scrape.Fetcher
	parser     *scrape.Parser
	catalog    *catalog.Catalog
	aggregator *aggregate.Aggregator
	identifier *match.Identifier
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Unset fields are built from the config, so tests can inject a custom HTTP
// client or output writer while production wiring stays one call.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Fetch.Timeout()}
	}

	fetcher := scrape.NewFetcher(opts.HTTPClient, opts.Config.Fetch.MaxInFlight, opts.Config.Fetch.RequestsPerSecond)
	parser := scrape.NewParser(opts.Config.Site.Delimiter)
	cat := catalog.New(fetcher, parser, opts.Config.Site)
	aggregator := aggregate.New(cat, fetcher, parser, opts.Config.Site, opts.Logger)
	identifier := match.NewIdentifier(nil, opts.Config.Site.Delimiter)

	return &Runner{
		config:     opts.Config,
		fetcher:    fetcher,
		parser:     parser,
		catalog:    cat,
		aggregator: aggregator,
		identifier: identifier,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the Runner's logger, propagating it to the aggregator.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.aggregator = aggregate.New(r.catalog, r.fetcher, r.parser, r.config.Site, l)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, channelsCommand, playingCommand, identifyCommand, exportCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDatabase opens the configured SQLite database and applies pending
// migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
