// Command editor opens a project and edits its maps.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/duckling/config"
	"github.com/milk9111/duckling/logging"
	"github.com/milk9111/duckling/selection"
	"github.com/milk9111/duckling/session"
)

func main() {
	configPath := flag.String("config", "", "path to editor.yaml")
	project := flag.String("project", "", "project directory (overrides config)")
	mapName := flag.String("map", "", "map to open (overrides config)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (overrides config)")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *project != "" {
		cfg.Project = *project
	}
	if *mapName != "" {
		cfg.Map = *mapName
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *dev {
		cfg.Development = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	var clip selection.Clipboard
	if sys, err := selection.NewSystemClipboard(); err == nil {
		clip = sys
	} else {
		logger.Warn("system clipboard unavailable, using in-process clipboard", zap.Error(err))
		clip = &selection.MemoryClipboard{}
	}

	s, err := session.New(cfg, logger, clip)
	if err != nil {
		logger.Fatal("open session", zap.Error(err))
	}
	defer func() { _ = s.Close() }()

	if cfg.WatchAssets {
		if err := s.Watch(); err != nil {
			logger.Warn("file watching disabled", zap.Error(err))
		}
	}
	if err := s.Preload(context.Background()); err != nil {
		logger.Warn("preload assets", zap.Error(err))
	}

	game := NewEditorGame(s)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("Duckling Editor - " + s.Levels.Project().Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run editor", zap.Error(err))
	}
}
