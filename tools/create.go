package tools

import (
	"go.uber.org/zap"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/selection"
)

const EntityCreatorToolKey = "entity-create"

// Templates instantiates named entity templates.
type Templates interface {
	Entity(name string) (ecs.Entity, error)
}

// EntityCreatorTool adds an entity where the pointer goes down and selects
// it. With a Prefab set the entity comes from that template, otherwise from
// the attribute defaults.
type EntityCreatorTool struct {
	Base

	Prefab string
	Snap   bool

	store     *editor.Store
	defaults  *entitysystem.AttributeDefaultService
	entities  *entitysystem.Service
	positions *entitysystem.EntityPositionService
	selection *selection.Service
	templates Templates
	log       *zap.Logger
}

func NewEntityCreatorTool(
	store *editor.Store,
	defaults *entitysystem.AttributeDefaultService,
	entities *entitysystem.Service,
	positions *entitysystem.EntityPositionService,
	sel *selection.Service,
	templates Templates,
	log *zap.Logger,
) *EntityCreatorTool {
	if log == nil {
		log = zap.NewNop()
	}
	return &EntityCreatorTool{
		store:     store,
		defaults:  defaults,
		entities:  entities,
		positions: positions,
		selection: sel,
		templates: templates,
		log:       log.Named("create-tool"),
	}
}

func (t *EntityCreatorTool) Key() string   { return EntityCreatorToolKey }
func (t *EntityCreatorTool) Label() string { return "Create Entity" }

func (t *EntityCreatorTool) OnStageDown(ev Event) {
	if _, err := t.Create(ev.Stage); err != nil {
		t.log.Warn("create entity", zap.Error(err))
	}
}

// Create adds a new entity at pos and returns its key.
func (t *EntityCreatorTool) Create(pos geom.Vector) (ecs.EntityKey, error) {
	e, prefix, err := t.newEntity()
	if err != nil {
		return "", err
	}
	if t.Snap {
		pos = geom.Snap(pos, t.store.State().Map.GridSize)
	}
	e = t.positions.Move(e, pos)

	mk := t.store.NewMergeKey()
	key := t.entities.NewKey(prefix)
	if err := t.entities.AddEntity(key, e, mk); err != nil {
		return "", err
	}
	if err := t.selection.Select(key, mk); err != nil {
		return "", err
	}
	return key, nil
}

func (t *EntityCreatorTool) newEntity() (ecs.Entity, string, error) {
	if t.Prefab == "" || t.templates == nil {
		return t.defaults.CreateEntity(), "entity", nil
	}
	e, err := t.templates.Entity(t.Prefab)
	if err != nil {
		return ecs.Entity{}, "", err
	}
	return e, t.Prefab, nil
}
