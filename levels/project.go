package levels

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the name of the project descriptor inside a project
// directory.
const ProjectFile = "project.yaml"

var ErrNoProject = errors.New("levels: no project open")

// Project describes where a project keeps its files. Directories are
// relative to the project directory.
type Project struct {
	Name       string `yaml:"name"`
	Resources  string `yaml:"resources"`
	Maps       string `yaml:"maps"`
	Prefabs    string `yaml:"prefabs"`
	DefaultMap string `yaml:"default_map"`
}

func (p *Project) applyDefaults(dir string) {
	if p.Name == "" {
		p.Name = filepath.Base(dir)
	}
	if p.Resources == "" {
		p.Resources = "resources"
	}
	if p.Maps == "" {
		p.Maps = "maps"
	}
	if p.Prefabs == "" {
		p.Prefabs = "prefabs"
	}
}

// LoadProject reads the descriptor in dir. A missing descriptor yields the
// defaults.
func LoadProject(dir string) (Project, error) {
	var p Project
	data, err := os.ReadFile(filepath.Join(dir, ProjectFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Project{}, fmt.Errorf("levels: load %s: %w", ProjectFile, err)
	default:
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Project{}, fmt.Errorf("levels: unmarshal %s: %w", ProjectFile, err)
		}
	}
	p.applyDefaults(dir)
	return p, nil
}

// SaveProject writes p to dir and creates its directories.
func SaveProject(dir string, p Project) error {
	p.applyDefaults(dir)
	for _, sub := range []string{p.Resources, p.Maps, p.Prefabs} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("levels: create %s: %w", sub, err)
		}
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("levels: marshal %s: %w", ProjectFile, err)
	}
	if err := os.WriteFile(filepath.Join(dir, ProjectFile), data, 0o644); err != nil {
		return fmt.Errorf("levels: write %s: %w", ProjectFile, err)
	}
	return nil
}
