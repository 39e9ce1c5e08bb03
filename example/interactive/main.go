package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akmonengine/skinning"
	"github.com/akmonengine/skinning/config"
)

func main() {
	configPath := flag.String("config", "", "configuration file (toml, yaml or json)")
	logPath := flag.String("log", "skinning.log", "log file, the terminal is taken by the viewer")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logFile.Close()

	level, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))

	scene, err := skinning.NewScene(skinning.WithWorkers(cfg.Workers), skinning.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(New(cfg, scene, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("viewer", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
