package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"scatterview/internal/config"
	"scatterview/internal/tui"
	"scatterview/internal/viewstate"
)

func main() {
	configPath := flag.String("config", "scatterview.ini", "configuration file")
	dataPath := flag.String("data", "", "sample CSV to plot at launch")
	dbPath := flag.String("db", "", "view state database, overrides db_path")
	logPath := flag.String("log", "", "write logs to this file")
	debug := flag.Bool("debug", false, "log debug records")
	flag.Parse()

	// The alt screen owns stderr, so logs go to a file or nowhere.
	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "scatterview")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if *debug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	data := cfg.Data
	if *dataPath != "" {
		data = *dataPath
	}
	if flag.NArg() > 0 {
		data = flag.Arg(0)
	}

	opts := tui.Options{Config: cfg, DataPath: data}
	if cfg.DBPath != "" {
		store, err := viewstate.Open(context.Background(), cfg.DBPath)
		if err != nil {
			slog.Warn("view state disabled", "err", err)
		} else {
			defer store.Close()
			opts.Store = store
		}
	}

	m := tui.New(opts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		log.Fatal(err)
	}
}
