package tools

import (
	"go.uber.org/zap"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/selection"
	"github.com/milk9111/duckling/state"
)

const EntityMoveToolKey = "entity-move"

// EntityMoveTool selects the entity under the pointer and drags it. One
// drag, selection included, is one undo step.
type EntityMoveTool struct {
	Base

	// Snap rounds positions to the map grid.
	Snap bool

	store     *editor.Store
	resolver  *selection.Resolver
	entities  *entitysystem.Service
	positions *entitysystem.EntityPositionService
	selection *selection.Service
	log       *zap.Logger

	dragging ecs.EntityKey
	offset   geom.Vector
	mergeKey state.MergeKey
}

func NewEntityMoveTool(
	store *editor.Store,
	resolver *selection.Resolver,
	entities *entitysystem.Service,
	positions *entitysystem.EntityPositionService,
	sel *selection.Service,
	log *zap.Logger,
) *EntityMoveTool {
	if log == nil {
		log = zap.NewNop()
	}
	return &EntityMoveTool{
		store:     store,
		resolver:  resolver,
		entities:  entities,
		positions: positions,
		selection: sel,
		log:       log.Named("move-tool"),
	}
}

func (t *EntityMoveTool) Key() string   { return EntityMoveToolKey }
func (t *EntityMoveTool) Label() string { return "Move Entity" }

func (t *EntityMoveTool) OnStageDown(ev Event) {
	t.mergeKey = t.store.NewMergeKey()
	t.offset = geom.Vector{}
	key, ok := t.resolver.GetEntityKey(ev.Stage)
	if !ok {
		t.dragging = ""
		t.selection.Deselect(t.mergeKey)
		return
	}
	t.dragging = key
	if e, ok := t.entities.GetEntity(key); ok {
		if pos, ok := t.positions.GetPosition(e); ok {
			t.offset = pos.Sub(ev.Stage)
		}
	}
	if err := t.selection.Select(key, t.mergeKey); err != nil {
		t.log.Warn("select", zap.String("entity", string(key)), zap.Error(err))
	}
}

func (t *EntityMoveTool) OnStageMove(ev Event) {
	if t.dragging == "" {
		return
	}
	next := ev.Stage.Add(t.offset)
	if t.Snap {
		next = geom.Snap(next, t.store.State().Map.GridSize)
	}
	if err := t.positions.SetPosition(t.dragging, next, t.mergeKey); err != nil {
		// the entity went away mid-drag, e.g. through undo
		t.log.Debug("move", zap.String("entity", string(t.dragging)), zap.Error(err))
		t.cancel()
	}
}

func (t *EntityMoveTool) OnStageUp(Event) { t.cancel() }

func (t *EntityMoveTool) OnLeaveStage() { t.cancel() }

// Dragging reports the entity being dragged.
func (t *EntityMoveTool) Dragging() (ecs.EntityKey, bool) {
	return t.dragging, t.dragging != ""
}

func (t *EntityMoveTool) cancel() {
	t.dragging = ""
}
