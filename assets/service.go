package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/duckling/geom"
)

// preloadParallelism bounds concurrent file reads during Preload.
const preloadParallelism = 4

type status int

const (
	statusLoading status = iota
	statusLoaded
	statusFailed
)

type entry struct {
	asset   Asset
	status  status
	texture image.Image
	font    *FontData
	err     error
}

type result struct {
	asset   Asset
	texture image.Image
	font    *FontData
	err     error
}

type subscriber struct {
	fn func(Asset)
}

// Service tracks every asset requested during a session.
//
// All methods except the background loads themselves are meant to be called
// from a single goroutine; pending results are handed over under mu.
type Service struct {
	root string
	log  *zap.Logger

	entries map[string]*entry
	subs    []*subscriber
	changed <-chan Asset

	mu      sync.Mutex
	pending []result
	wg      sync.WaitGroup
}

// NewService creates a loader resolving keys below root.
func NewService(root string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		root:    root,
		log:     log.Named("assets"),
		entries: map[string]*entry{},
	}
}

// Root returns the resource directory.
func (s *Service) Root() string { return s.root }

// Path returns the file backing a.
func (s *Service) Path(a Asset) string {
	return filepath.Join(s.root, filepath.FromSlash(a.Key)+a.Type.Extension())
}

// Add requests a. Known assets, whether loading, loaded or failed, are not
// requested again.
func (s *Service) Add(a Asset) {
	if a.Key == "" {
		return
	}
	if _, ok := s.entries[a.Key]; ok {
		return
	}
	s.entries[a.Key] = &entry{asset: a, status: statusLoading}
	s.loadAsync(a)
}

// Reload reads a again. The previous value stays visible until the new one
// is applied by Poll.
func (s *Service) Reload(a Asset) {
	if _, ok := s.entries[a.Key]; !ok {
		s.entries[a.Key] = &entry{asset: a, status: statusLoading}
	}
	s.loadAsync(a)
}

func (s *Service) loadAsync(a Asset) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		r := s.load(a)
		s.mu.Lock()
		s.pending = append(s.pending, r)
		s.mu.Unlock()
	}()
}

// Wait blocks until all background loads have finished. Their results still
// need a Poll.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Poll applies finished loads and notifies subscribers of every asset that
// became available. It returns the number of results applied.
func (s *Service) Poll() int {
	s.reloadChanged()

	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, r := range pending {
		s.apply(r)
	}
	return len(pending)
}

// reloadChanged starts a reload for every known asset the watcher reported.
func (s *Service) reloadChanged() {
	for s.changed != nil {
		select {
		case a, ok := <-s.changed:
			if !ok {
				s.changed = nil
				return
			}
			if _, known := s.entries[a.Key]; known {
				s.log.Debug("reloading", zap.String("key", a.Key))
				s.Reload(a)
			}
		default:
			return
		}
	}
}

func (s *Service) apply(r result) {
	e, ok := s.entries[r.asset.Key]
	if !ok {
		e = &entry{asset: r.asset}
		s.entries[r.asset.Key] = e
	}
	if r.err != nil {
		if e.status == statusLoaded {
			s.log.Warn("reload failed, keeping previous", zap.String("key", r.asset.Key), zap.Error(r.err))
			return
		}
		e.status = statusFailed
		e.err = r.err
		s.log.Warn("load failed", zap.String("key", r.asset.Key), zap.Error(r.err))
		return
	}
	e.asset = r.asset
	e.status = statusLoaded
	e.err = nil
	e.texture = r.texture
	e.font = r.font
	s.log.Debug("loaded", zap.String("key", r.asset.Key), zap.String("type", string(r.asset.Type)))
	s.publish(r.asset)
}

func (s *Service) load(a Asset) result {
	r := result{asset: a}
	if a.Key == "" {
		r.err = ErrEmptyKey
		return r
	}
	path := s.Path(a)
	data, err := os.ReadFile(path)
	if err != nil {
		r.err = fmt.Errorf("assets: load %s: %w", a.Key, err)
		return r
	}
	switch a.Type {
	case TypeTexture:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			r.err = fmt.Errorf("assets: decode %s: %w", path, err)
			return r
		}
		r.texture = img
	case TypeFont:
		f, err := parseFont(data)
		if err != nil {
			r.err = fmt.Errorf("assets: %s: %w", a.Key, err)
			return r
		}
		r.font = f
	default:
		r.err = fmt.Errorf("%w %q", ErrUnknownType, a.Type)
	}
	return r
}

// Preload loads assets concurrently and applies the results before
// returning. The first failure is returned; other assets still load.
func (s *Service) Preload(ctx context.Context, assets []Asset) error {
	var todo []Asset
	for _, a := range assets {
		if a.Key == "" {
			continue
		}
		if _, ok := s.entries[a.Key]; ok {
			continue
		}
		s.entries[a.Key] = &entry{asset: a, status: statusLoading}
		todo = append(todo, a)
	}

	results := make([]result, len(todo))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadParallelism)
	for i, a := range todo {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = result{asset: a, err: err}
				return err
			}
			results[i] = s.load(a)
			return results[i].err
		})
	}
	err := g.Wait()
	for _, r := range results {
		s.apply(r)
	}
	return err
}

// RegisterFont installs an in-memory font under key, e.g. a font embedded
// in the binary.
func (s *Service) RegisterFont(key string, data []byte) error {
	f, err := parseFont(data)
	if err != nil {
		return err
	}
	s.apply(result{asset: Font(key), font: f})
	return nil
}

// IsLoaded reports whether key is available for drawing.
func (s *Service) IsLoaded(key string) bool {
	e, ok := s.entries[key]
	return ok && e.status == statusLoaded
}

// Failed returns the load error of key, if loading failed.
func (s *Service) Failed(key string) error {
	if e, ok := s.entries[key]; ok && e.status == statusFailed {
		return e.err
	}
	return nil
}

// Texture returns the decoded image stored under key.
func (s *Service) Texture(key string) (image.Image, bool) {
	e, ok := s.entries[key]
	if !ok || e.status != statusLoaded || e.texture == nil {
		return nil, false
	}
	return e.texture, true
}

// TextureSize returns the pixel size of the texture stored under key.
func (s *Service) TextureSize(key string) (geom.Vector, bool) {
	img, ok := s.Texture(key)
	if !ok {
		return geom.Vector{}, false
	}
	b := img.Bounds()
	return geom.Vec(float64(b.Dx()), float64(b.Dy())), true
}

// Font returns the font stored under key.
func (s *Service) Font(key string) (*FontData, bool) {
	e, ok := s.entries[key]
	if !ok || e.status != statusLoaded || e.font == nil {
		return nil, false
	}
	return e.font, true
}

// TextSize measures text set in the font stored under key.
func (s *Service) TextSize(key, text string, size float64) (geom.Vector, bool) {
	f, ok := s.Font(key)
	if !ok {
		return geom.Vector{}, false
	}
	v, err := f.Measure(text, size)
	if err != nil {
		s.log.Warn("measure text", zap.String("font", key), zap.Error(err))
		return geom.Vector{}, false
	}
	return v, true
}

// Subscribe registers fn to be called from Poll whenever an asset finishes
// loading.
func (s *Service) Subscribe(fn func(Asset)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	sub := &subscriber{fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Service) publish(a Asset) {
	for _, sub := range s.subs {
		sub.fn(a)
	}
}
