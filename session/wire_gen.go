// Hand-written to follow the injector in wire.go. Running go generate
// replaces it with wire's output.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package session

import (
	"go.uber.org/zap"

	"github.com/milk9111/duckling/config"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/render"
	"github.com/milk9111/duckling/script"
	"github.com/milk9111/duckling/selection"
	"github.com/milk9111/duckling/tools"
)

// New builds a session for cfg.Project.
func New(cfg config.Config, log *zap.Logger, clip selection.Clipboard) (*Session, error) {
	project, err := ProvideProject(cfg)
	if err != nil {
		return nil, err
	}
	service, err := ProvideAssets(cfg, project, log)
	if err != nil {
		return nil, err
	}
	registries := ProvideRegistries(service)
	store := ProvideStore(cfg, log)
	registry := registries.Codecs
	levelsService, err := ProvideLevels(cfg, registry, store, log)
	if err != nil {
		return nil, err
	}
	library, err := ProvidePrefabs(registry, levelsService, log)
	if err != nil {
		return nil, err
	}
	entitysystemService := entitysystem.NewService(store, log)
	runner := script.NewRunner(store, entitysystemService, registry, log)
	registry2 := registries.PositionSetters
	registry3 := registries.PositionGetters
	entityPositionService := entitysystem.NewEntityPositionService(entitysystemService, registry2, registry3)
	registry4 := registries.Boxes
	entityBoxService := entitysystem.NewEntityBoxService(registry4)
	registry5 := registries.Defaults
	attributeDefaultService := entitysystem.NewAttributeDefaultService(registry5)
	registry6 := registries.Priorities
	priorityService := render.NewPriorityService(registry6)
	registry7 := registries.Drawers
	registry8 := registries.RequiredAssets
	entityDrawer := render.NewEntityDrawer(registry7, registry8, service, priorityService, entityBoxService)
	resolver := selection.NewResolver(entitysystemService, priorityService, entityBoxService)
	selectionService := selection.NewService(store)
	copyPaste := selection.NewCopyPaste(clip, registry, entitysystemService, entityPositionService, selectionService)
	viewport := tools.NewViewport()
	entityMoveTool := tools.NewEntityMoveTool(store, resolver, entitysystemService, entityPositionService, selectionService, log)
	entityCreatorTool := tools.NewEntityCreatorTool(store, attributeDefaultService, entitysystemService, entityPositionService, selectionService, library, log)
	mapMoveTool := tools.NewMapMoveTool(viewport)
	toolsService := ProvideTools(cfg, entityMoveTool, entityCreatorTool, mapMoveTool)
	session := &Session{
		Config:    cfg,
		Log:       log,
		Hooks:     registries,
		Store:     store,
		Assets:    service,
		Levels:    levelsService,
		Prefabs:   library,
		Scripts:   runner,
		Entities:  entitysystemService,
		Boxes:     entityBoxService,
		Positions: entityPositionService,
		Defaults:  attributeDefaultService,
		Priority:  priorityService,
		Drawer:    entityDrawer,
		Resolver:  resolver,
		Selection: selectionService,
		CopyPaste: copyPaste,
		Viewport:  viewport,
		Tools:     toolsService,
	}
	return session, nil
}
