// Package script runs tengo batch edits over the entities of the open map.
//
// A script sees the global "entities", a map from entity key to a map of
// attribute name to attribute value in its file form. Whatever the script
// leaves in "entities" becomes the new entity system: changed entries are
// updated, new keys are added and missing keys are deleted, all as a
// single undo step.
package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/entitysystem"
	"github.com/milk9111/duckling/levels"
	"github.com/milk9111/duckling/registry"
)

var ErrEntitiesReplaced = errors.New("script: entities is no longer a map")

// Result summarises what a script changed.
type Result struct {
	Added   []ecs.EntityKey
	Updated []ecs.EntityKey
	Deleted []ecs.EntityKey
	// Output holds the lines passed to print.
	Output []string
}

// Changed reports whether the script changed any entity.
func (r Result) Changed() bool {
	return len(r.Added)+len(r.Updated)+len(r.Deleted) > 0
}

type Runner struct {
	store    *editor.Store
	entities *entitysystem.Service
	codecs   *registry.Registry[levels.Codec]
	log      *zap.Logger
}

func NewRunner(store *editor.Store, entities *entitysystem.Service, codecs *registry.Registry[levels.Codec], log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{store: store, entities: entities, codecs: codecs, log: log.Named("script")}
}

// Run executes src. Nothing is dispatched when the script fails or leaves an
// entity that cannot be decoded.
func (r *Runner) Run(ctx context.Context, src string) (Result, error) {
	var res Result
	sys := r.entities.EntitySystem()

	before, err := r.export(sys)
	if err != nil {
		return res, err
	}

	script := tengo.NewScript([]byte(src))
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add("entities", before); err != nil {
		return res, fmt.Errorf("script: %w", err)
	}
	if err := script.Add("print", &tengo.UserFunction{Name: "print", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			if s, ok := tengo.ToString(a); ok {
				parts = append(parts, s)
			}
		}
		res.Output = append(res.Output, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}); err != nil {
		return res, fmt.Errorf("script: %w", err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return res, fmt.Errorf("script: compile: %w", err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		return res, fmt.Errorf("script: run: %w", err)
	}

	v := compiled.Get("entities")
	if _, ok := v.Object().(*tengo.Map); !ok {
		return res, ErrEntitiesReplaced
	}
	after := v.Map()

	plan, err := r.diff(sys, before, after)
	if err != nil {
		return res, err
	}
	res.Added, res.Updated, res.Deleted = plan.added, plan.updated, plan.deleted
	if !res.Changed() {
		return res, nil
	}

	mk := r.store.NewMergeKey()
	for _, key := range plan.deleted {
		r.entities.DeleteEntity(key, mk)
	}
	for _, key := range plan.updated {
		if err := r.entities.UpdateEntity(key, plan.entities[key], mk); err != nil {
			return res, err
		}
	}
	for _, key := range plan.added {
		if err := r.entities.AddEntity(key, plan.entities[key], mk); err != nil {
			return res, err
		}
	}
	r.log.Debug("script applied",
		zap.Int("added", len(plan.added)),
		zap.Int("updated", len(plan.updated)),
		zap.Int("deleted", len(plan.deleted)),
	)
	return res, nil
}

// export converts sys into plain maps the script can read.
func (r *Runner) export(sys ecs.System) (map[string]any, error) {
	out := make(map[string]any, sys.Len())
	var err error
	sys.Each(func(key ecs.EntityKey, e ecs.Entity) bool {
		var attrs map[string]json.RawMessage
		attrs, err = levels.EncodeEntity(r.codecs, e)
		if err != nil {
			err = fmt.Errorf("script: export %q: %w", key, err)
			return false
		}
		m := make(map[string]any, len(attrs))
		for name, raw := range attrs {
			var v any
			if err = json.Unmarshal(raw, &v); err != nil {
				err = fmt.Errorf("script: export %q: %w", key, err)
				return false
			}
			m[name] = v
		}
		out[string(key)] = m
		return true
	})
	return out, err
}

type plan struct {
	added, updated, deleted []ecs.EntityKey
	entities                map[ecs.EntityKey]ecs.Entity
}

func (r *Runner) diff(sys ecs.System, before, after map[string]any) (plan, error) {
	p := plan{entities: map[ecs.EntityKey]ecs.Entity{}}

	for _, key := range sys.Keys() {
		if _, ok := after[string(key)]; !ok {
			p.deleted = append(p.deleted, key)
		}
	}

	keys := make([]string, 0, len(after))
	for k := range after {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := ecs.EntityKey(k)
		if key == "" {
			return p, fmt.Errorf("script: %w", ecs.ErrEmptyKey)
		}
		newBytes, err := json.Marshal(after[k])
		if err != nil {
			return p, fmt.Errorf("script: entity %q: %w", k, err)
		}
		if old, ok := before[k]; ok {
			oldBytes, err := json.Marshal(old)
			if err != nil {
				return p, fmt.Errorf("script: entity %q: %w", k, err)
			}
			if bytes.Equal(oldBytes, newBytes) {
				continue
			}
		}

		var attrs map[string]json.RawMessage
		if err := json.Unmarshal(newBytes, &attrs); err != nil {
			return p, fmt.Errorf("script: entity %q is not an attribute map: %w", k, err)
		}
		e, err := levels.DecodeEntity(r.codecs, attrs)
		if err != nil {
			return p, fmt.Errorf("script: entity %q: %w", k, err)
		}
		p.entities[key] = e
		if sys.Has(key) {
			p.updated = append(p.updated, key)
		} else {
			p.added = append(p.added, key)
		}
	}
	// updates follow insertion order
	sort.SliceStable(p.updated, func(i, j int) bool { return sys.Index(p.updated[i]) < sys.Index(p.updated[j]) })
	return p, nil
}
