package selection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.design/x/clipboard"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/registry"
	"github.com/milk9111/duckling/state"
)

var (
	ErrNothingSelected = errors.New("selection: nothing selected")
	ErrNotEntity       = errors.New("selection: clipboard does not hold an entity")
)

// Clipboard stores text.
type Clipboard interface {
	ReadText() []byte
	WriteText(data []byte)
}

// SystemClipboard is the clipboard of the operating system.
type SystemClipboard struct{}

// NewSystemClipboard initialises access to the system clipboard.
func NewSystemClipboard() (SystemClipboard, error) {
	if err := clipboard.Init(); err != nil {
		return SystemClipboard{}, fmt.Errorf("selection: clipboard: %w", err)
	}
	return SystemClipboard{}, nil
}

func (SystemClipboard) ReadText() []byte { return clipboard.Read(clipboard.FmtText) }

func (SystemClipboard) WriteText(data []byte) { clipboard.Write(clipboard.FmtText, data) }

// MemoryClipboard keeps the clipboard inside the process. It is used when
// the system clipboard is unavailable.
type MemoryClipboard struct {
	data []byte
}

func (m *MemoryClipboard) ReadText() []byte { return m.data }

func (m *MemoryClipboard) WriteText(data []byte) {
	m.data = append([]byte(nil), data...)
}

// CopyPaste copies the selected entity to the clipboard and pastes entities
// back into the map.
type CopyPaste struct {
	clip      Clipboard
	codecs    *registry.Registry[levels.Codec]
	entities  *entitysystem.Service
	positions *entitysystem.EntityPositionService
	selection *Service
}

func NewCopyPaste(
	clip Clipboard,
	codecs *registry.Registry[levels.Codec],
	entities *entitysystem.Service,
	positions *entitysystem.EntityPositionService,
	sel *Service,
) *CopyPaste {
	return &CopyPaste{clip: clip, codecs: codecs, entities: entities, positions: positions, selection: sel}
}

// Copy puts the selected entity on the clipboard.
func (c *CopyPaste) Copy() error {
	sel, ok := c.selection.Selection()
	if !ok {
		return ErrNothingSelected
	}
	attrs, err := levels.EncodeEntity(c.codecs, sel.Entity)
	if err != nil {
		return fmt.Errorf("selection: copy %q: %w", sel.Key, err)
	}
	data, err := json.Marshal(levels.Entity{Key: string(sel.Key), Attributes: attrs})
	if err != nil {
		return fmt.Errorf("selection: copy %q: %w", sel.Key, err)
	}
	c.clip.WriteText(data)
	return nil
}

// Paste adds the clipboard entity at pos under a fresh key and selects it.
// Both steps share mergeKey so a single undo removes the paste.
func (c *CopyPaste) Paste(pos geom.Vector, mergeKey state.MergeKey) (ecs.EntityKey, error) {
	var rec levels.Entity
	if err := json.Unmarshal(c.clip.ReadText(), &rec); err != nil || rec.Attributes == nil {
		return "", ErrNotEntity
	}
	e, err := levels.DecodeEntity(c.codecs, rec.Attributes)
	if err != nil {
		return "", fmt.Errorf("selection: paste: %w", err)
	}
	e = c.positions.Move(e, pos)

	key := c.entities.NewKey(keyPrefix(rec.Key))
	if err := c.entities.AddEntity(key, e, mergeKey); err != nil {
		return "", err
	}
	if err := c.selection.Select(key, mergeKey); err != nil {
		return "", err
	}
	return key, nil
}

// keyPrefix strips trailing digits so copies of "wall3" become "wallN".
func keyPrefix(key string) string {
	return strings.TrimRight(key, "0123456789")
}
