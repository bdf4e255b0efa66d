// Package session assembles everything one editing session needs. A
// Session is built once per open project and passed explicitly to the UI;
// there is no package level state.
package session

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/milk9111/duckling/assets"
	"github.com/milk9111/duckling/config"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/hooks"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/prefabs"
	"github.com/milk9111/duckling/render"
	"github.com/milk9111/duckling/script"
	"github.com/milk9111/duckling/selection"
	"github.com/milk9111/duckling/tools"
)

type Session struct {
	Config config.Config
	Log    *zap.Logger
	Hooks  *hooks.Registries
	Store  *editor.Store

	Assets  *assets.Service
	Levels  *levels.Service
	Prefabs *prefabs.Library
	Scripts *script.Runner

	Entities  *entitysystem.Service
	Boxes     *entitysystem.EntityBoxService
	Positions *entitysystem.EntityPositionService
	Defaults  *entitysystem.AttributeDefaultService

	Priority *render.PriorityService
	Drawer   *render.EntityDrawer

	Resolver  *selection.Resolver
	Selection *selection.Service
	CopyPaste *selection.CopyPaste

	Viewport *tools.Viewport
	Tools    *tools.Service

	watchers []io.Closer
}

// Poll applies background asset loads and file changes. Call it once per
// frame from the UI goroutine.
func (s *Session) Poll() {
	s.Assets.Poll()
	if n := s.Prefabs.Poll(); n > 0 {
		s.Log.Debug("prefabs reloaded", zap.Int("files", n))
	}
}

// Watch starts reloading assets and prefabs when their files change.
func (s *Session) Watch() error {
	aw, err := s.Assets.Watch()
	if err != nil {
		return err
	}
	s.watchers = append(s.watchers, aw)
	pw, err := s.Prefabs.Watch()
	if err != nil {
		return err
	}
	s.watchers = append(s.watchers, pw)
	return nil
}

// Preload loads every asset the current map needs.
func (s *Session) Preload(ctx context.Context) error {
	var need []assets.Asset
	s.Entities.EntitySystem().Each(func(_ ecs.EntityKey, e ecs.Entity) bool {
		for _, key := range e.Keys() {
			if req, ok := s.Hooks.RequiredAssets.GetImplementation(key); ok && req != nil {
				need = append(need, req(e)...)
			}
		}
		return true
	})
	return s.Assets.Preload(ctx, need)
}

// Close stops file watching.
func (s *Session) Close() error {
	var errs []error
	for _, w := range s.watchers {
		errs = append(errs, w.Close())
	}
	s.watchers = nil
	return errors.Join(errs...)
}
