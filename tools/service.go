package tools

import (
	"errors"
	"fmt"

	"github.com/milk9111/duckling/registry"
)

var ErrUnknownTool = errors.New("tools: unknown tool")

// Option is a toolbar entry.
type Option struct {
	Key   string
	Label string
}

// Service keeps the available tools and the active one.
type Service struct {
	tools   *registry.Registry[Tool]
	order   []string
	def     string
	current Tool
}

// NewService registers tools in toolbar order. The first tool is the
// default and starts active.
func NewService(tools ...Tool) *Service {
	s := &Service{tools: registry.New[Tool]()}
	for _, t := range tools {
		s.Add(t)
	}
	if len(tools) > 0 {
		s.def = tools[0].Key()
		s.current = tools[0]
	}
	return s
}

// Add registers t, replacing a tool with the same key in place.
func (s *Service) Add(t Tool) {
	if !s.tools.Has(t.Key()) {
		s.order = append(s.order, t.Key())
	}
	s.tools.Register(t.Key(), t)
}

func (s *Service) Tool(key string) (Tool, bool) {
	return s.tools.GetImplementation(key)
}

func (s *Service) Default() Tool {
	t, _ := s.tools.GetImplementation(s.def)
	return t
}

// Current returns the active tool.
func (s *Service) Current() Tool {
	return s.current
}

// Activate switches to the tool with key. The previous tool sees its
// pointer leave the stage so that it drops any gesture in progress.
func (s *Service) Activate(key string) error {
	t, ok := s.tools.GetImplementation(key)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownTool, key)
	}
	if s.current != nil && s.current != t {
		s.current.OnLeaveStage()
	}
	s.current = t
	return nil
}

// Options lists the tools in toolbar order.
func (s *Service) Options() []Option {
	out := make([]Option, 0, len(s.order))
	for _, key := range s.order {
		t, _ := s.tools.GetImplementation(key)
		out = append(out, Option{Key: key, Label: t.Label()})
	}
	return out
}
