package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/spendlog/storage"
	"github.com/robinvdvleuten/spendlog/web"
)

type WebCmd struct {
	Port     int  `help:"Port to listen on." default:"8080" env:"SPENDLOG_PORT"`
	Create   bool `help:"Automatically create the ledger file if it doesn't exist (no confirmation prompt)." short:"c"`
	ReadOnly bool `help:"Enable read-only mode (no write operations allowed)." short:"r"`
	Watch    bool `help:"Reload when the ledger file is changed by another process." short:"w"`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	if storage.Backend(globals.Backend) == storage.BackendJSON {
		if err := cmd.ensureLedgerFile(ctx, globals); err != nil {
			return err
		}
	}

	s, err := globals.open(ctx, "web")
	if err != nil {
		return handleError(ctx, err)
	}
	defer func() { _ = s.Close() }()

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	server := web.NewWithVersion(cmd.Port, s.tracker, version, commitSHA)
	server.ReadOnly = cmd.ReadOnly
	server.Logger = s.logger

	if cmd.Watch {
		if jsonFile, ok := s.store.(*storage.JSONFile); ok {
			server.WatchEnabled = true
			server.WatchFiles = []string{jsonFile.Path(), jsonFile.CountryPath()}
		} else {
			s.logger.Warn().Str("backend", globals.Backend).Msg("watching is only supported for the json backend")
		}
	}

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving ledger: %s", pathStyle.Render(globals.Ledger))

	if cmd.ReadOnly {
		printInfof(ctx.Stdout, "Server running in READ-ONLY mode")
	}

	runCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(runCtx); err != nil {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// ensureLedgerFile creates a missing ledger file, asking first unless --create is set.
func (cmd *WebCmd) ensureLedgerFile(ctx *kong.Context, globals *Globals) error {
	ledgerFile, err := filepath.Abs(globals.Ledger)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	_, err = os.Stat(ledgerFile)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access file: %w", err)
	}

	confirmed, err := confirm(cmd.Create, fmt.Sprintf("File %q does not exist. Create it?", ledgerFile))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !confirmed {
		return fmt.Errorf("file does not exist: %s", ledgerFile)
	}

	if err := storage.NewJSONFile(ledgerFile).SaveAll(context.Background(), nil); err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	printInfof(ctx.Stdout, "Created empty ledger file: %s", pathStyle.Render(ledgerFile))
	return nil
}
