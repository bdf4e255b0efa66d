// Command mapctl works on project maps without opening the editor window.
//
//	mapctl [flags] maps                       list maps
//	mapctl [flags] check [map...]             load maps and their assets
//	mapctl [flags] run <script> <map>         run a script on a map and save it
//	mapctl [flags] prefab <map> <entity> <name>  save an entity as a prefab
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/milk9111/duckling/config"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/logging"
	"github.com/milk9111/duckling/selection"
	"github.com/milk9111/duckling/session"
)

var errUsage = errors.New("usage: mapctl [-config file] [-project dir] maps|check|run|prefab ...")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("mapctl", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to editor.yaml")
	project := fs.String("project", "", "project directory (overrides config)")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *project != "" {
		cfg.Project = *project
	}
	cfg.Map = ""
	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(level, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	s, err := session.New(cfg, logger, &selection.MemoryClipboard{})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "maps":
		return listMaps(s, out)
	case "check":
		return checkMaps(s, out, rest)
	case "run":
		if len(rest) != 2 {
			return errUsage
		}
		return runScript(s, out, rest[0], rest[1])
	case "prefab":
		if len(rest) != 3 {
			return errUsage
		}
		return savePrefab(s, rest[0], ecs.EntityKey(rest[1]), rest[2])
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func listMaps(s *session.Session, out io.Writer) error {
	names, err := s.Levels.Maps()
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}

// checkMaps loads every named map, or all of them, and preloads the assets
// they reference. Every failure is reported before returning.
func checkMaps(s *session.Session, out io.Writer, names []string) error {
	if len(names) == 0 {
		var err error
		if names, err = s.Levels.Maps(); err != nil {
			return err
		}
	}
	var errs []error
	for _, name := range names {
		if err := s.Levels.LoadMap(name); err != nil {
			errs = append(errs, err)
			fmt.Fprintf(out, "%s: %v\n", name, err)
			continue
		}
		if err := s.Preload(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			fmt.Fprintf(out, "%s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(out, "%s: ok (%d entities)\n", name, s.Entities.EntitySystem().Len())
	}
	return errors.Join(errs...)
}

func runScript(s *session.Session, out io.Writer, script, name string) error {
	src, err := os.ReadFile(scriptPath(s, script))
	if err != nil {
		return err
	}
	if err := s.Levels.LoadMap(name); err != nil {
		return err
	}
	res, err := s.Scripts.Run(context.Background(), string(src))
	if err != nil {
		return err
	}
	for _, line := range res.Output {
		fmt.Fprintln(out, line)
	}
	if !res.Changed() {
		return nil
	}
	s.Log.Info("script changed map",
		zap.Int("added", len(res.Added)), zap.Int("updated", len(res.Updated)), zap.Int("deleted", len(res.Deleted)))
	return s.Levels.SaveMap()
}

func scriptPath(s *session.Session, script string) string {
	if filepath.IsAbs(script) {
		return script
	}
	if _, err := os.Stat(script); err == nil {
		return script
	}
	return filepath.Join(s.Config.Project, s.Config.Scripts, script)
}

func savePrefab(s *session.Session, name string, key ecs.EntityKey, prefab string) error {
	if err := s.Levels.LoadMap(name); err != nil {
		return err
	}
	e, ok := s.Entities.GetEntity(key)
	if !ok {
		return fmt.Errorf("%w: %q in %s", ecs.ErrEntityNotFound, key, name)
	}
	return s.Prefabs.Save(prefab, e)
}
