package store

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type projectFile struct {
	Projects []struct {
		CreateProject `yaml:",inline"`
		IsActive      *bool `yaml:"is_active"`
	} `yaml:"projects"`
}

// DecodeProjects reads a YAML document with a top level projects list. Projects are
// active unless is_active is false.
func DecodeProjects(r io.Reader) ([]CreateProject, error) {
	var file projectFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	projects := make([]CreateProject, 0, len(file.Projects))
	for _, p := range file.Projects {
		arg := p.CreateProject
		arg.IsActive = p.IsActive == nil || *p.IsActive
		projects = append(projects, arg)
	}
	return projects, nil
}
