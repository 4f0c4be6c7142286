package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/robinvdvleuten/spendlog/cli"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	app struct {
		Version kong.VersionFlag `help:"Show version information"`
		cli.Commands
	}
)

func main() {
	_ = godotenv.Load()

	cli.Version = Version
	cli.CommitSHA = CommitSHA

	vars := kong.Vars{"version": buildVersion()}
	for k, v := range cli.Vars() {
		vars[k] = v
	}

	ctx := kong.Parse(&app,
		vars,
		kong.Name("spendlog"),
		kong.Description("Track personal expenses and income."),
		kong.UsageOnError(),
		kong.Bind(&app.Globals),
	)

	err := ctx.Run()

	var cmdErr *cli.CommandError
	if errors.As(err, &cmdErr) {
		os.Exit(cmdErr.ExitCode())
	}
	ctx.FatalIfErrorf(err)
}

func buildVersion() string {
	version := Version
	if version == "" {
		version = "dev"
	}
	if CommitSHA == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, CommitSHA)
}
