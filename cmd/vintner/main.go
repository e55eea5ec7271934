package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/appengine-ltd/vintner/internal/ui"
)

// version, commit, date are injected at build time (see .goreleaser.yaml).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		showVersion bool
		configPath  string
		savePath    string
		seed        int64
	)

	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.StringVar(&configPath, "config", "", "path to vintner.yaml (default: search . and ~/.config/vintner)")
	flag.StringVar(&savePath, "save", "vintner.db", "path to the save database, empty disables saving")
	flag.Int64Var(&seed, "seed", 0, "simulation seed, 0 picks one from the clock")
	flag.Parse()

	if showVersion {
		fmt.Printf("Vintner %s (%s) %s\n", version, commit, date)
		return
	}

	app := ui.NewApp(ui.AppConfig{
		Version:    version,
		Commit:     commit,
		BuildDate:  date,
		ConfigPath: configPath,
		SavePath:   savePath,
		Seed:       seed,
	})

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
