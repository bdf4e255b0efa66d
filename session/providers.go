package session

import (
	"path/filepath"

	"github.com/google/wire"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/duckling/assets"
	"github.com/milk9111/duckling/attributes"
	"github.com/milk9111/duckling/attributes/drawable"
	"github.com/milk9111/duckling/config"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/hooks"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/prefabs"
	"github.com/milk9111/duckling/registry"
	"github.com/milk9111/duckling/render"
	"github.com/milk9111/duckling/script"
	"github.com/milk9111/duckling/selection"
	"github.com/milk9111/duckling/state"
	"github.com/milk9111/duckling/tools"
)

// ProviderSet builds a Session from a config, a logger and a clipboard.
var ProviderSet = wire.NewSet(
	ProvideProject,
	ProvideAssets,
	ProvideRegistries,
	wire.FieldsOf(new(*hooks.Registries),
		"Defaults", "Boxes", "PositionSetters", "PositionGetters",
		"Drawers", "Priorities", "RequiredAssets", "Codecs"),
	ProvideStore,
	ProvideLevels,
	ProvidePrefabs,
	entitysystem.NewService,
	entitysystem.NewEntityBoxService,
	entitysystem.NewEntityPositionService,
	entitysystem.NewAttributeDefaultService,
	render.NewPriorityService,
	render.NewEntityDrawer,
	wire.Bind(new(render.AssetSource), new(*assets.Service)),
	selection.NewResolver,
	selection.NewService,
	selection.NewCopyPaste,
	script.NewRunner,
	tools.NewViewport,
	tools.NewEntityMoveTool,
	tools.NewEntityCreatorTool,
	wire.Bind(new(tools.Templates), new(*prefabs.Library)),
	tools.NewMapMoveTool,
	ProvideTools,
	wire.Struct(new(Session), "Config", "Log", "Hooks", "Store", "Assets", "Levels", "Prefabs",
		"Scripts", "Entities", "Boxes", "Positions", "Defaults", "Priority", "Drawer",
		"Resolver", "Selection", "CopyPaste", "Viewport", "Tools"),
)

// ProvideProject reads the project settings of cfg.Project.
func ProvideProject(cfg config.Config) (levels.Project, error) {
	return levels.LoadProject(cfg.Project)
}

// ProvideAssets creates the asset service over the project resources and
// registers the built-in font.
func ProvideAssets(cfg config.Config, p levels.Project, log *zap.Logger) (*assets.Service, error) {
	svc := assets.NewService(filepath.Join(cfg.Project, p.Resources), log)
	if err := svc.RegisterFont(drawable.DefaultFont, goregular.TTF); err != nil {
		return nil, err
	}
	return svc, nil
}

// ProvideRegistries creates the registries with every built-in attribute.
func ProvideRegistries(src *assets.Service) *hooks.Registries {
	r := hooks.New()
	attributes.Bootstrap(r, src)
	return r
}

// ProvideStore creates the session store with an empty map sized by cfg.
func ProvideStore(cfg config.Config, log *zap.Logger) *editor.Store {
	st := editor.NewState()
	st.Map.Dimension = geom.Vec(cfg.NewMap.Width, cfg.NewMap.Height)
	st.Map.GridSize = cfg.NewMap.GridSize
	return editor.NewStore(st, state.WithHistoryLimit(cfg.HistoryLimit), state.WithLogger(log))
}

// ProvideLevels opens cfg.Project and loads cfg.Map when one is named.
func ProvideLevels(cfg config.Config, codecs *registry.Registry[levels.Codec], store *editor.Store, log *zap.Logger) (*levels.Service, error) {
	svc := levels.NewService(codecs, store, log)
	if err := svc.Open(cfg.Project); err != nil {
		return nil, err
	}
	if cfg.Map != "" {
		if err := svc.LoadMap(cfg.Map); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// ProvidePrefabs loads the prefab templates of the open project.
func ProvidePrefabs(codecs *registry.Registry[levels.Codec], lv *levels.Service, log *zap.Logger) (*prefabs.Library, error) {
	lib := prefabs.NewLibrary(codecs, log)
	if err := lib.Load(lv.PrefabDir()); err != nil {
		return nil, err
	}
	return lib, nil
}

// ProvideTools builds the toolbar. Moving entities is the default tool.
func ProvideTools(cfg config.Config, move *tools.EntityMoveTool, create *tools.EntityCreatorTool, pan *tools.MapMoveTool) *tools.Service {
	move.Snap = cfg.SnapToGrid
	create.Snap = cfg.SnapToGrid
	return tools.NewService(move, create, pan)
}
