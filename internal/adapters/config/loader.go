// Package config provides the configuration loader for bob.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/bob/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file bob looks for.
const DefaultFilename = "bobfile.yaml"

// DefaultTargetDir is used when the bobfile does not set targetDir.
const DefaultTargetDir = "build"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

// Load reads the configuration from the given working directory.
func (l *FileConfigLoader) Load(cwd string) (*domain.Manifest, error) {
	name := l.Filename
	if name == "" {
		name = DefaultFilename
	}
	return Load(filepath.Join(cwd, name))
}

// Load reads a configuration file from the given path and returns a
// domain.Manifest. Tasks are registered in file order.
func Load(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(
			zerr.Wrap(err, domain.ErrConfigReadFailed.Error()),
			"path", path,
		)
	}

	var bobfile Bobfile
	if err := yaml.Unmarshal(data, &bobfile); err != nil {
		return nil, zerr.With(
			zerr.Wrap(err, domain.ErrConfigParseFailed.Error()),
			"path", path,
		)
	}

	set := domain.NewTaskSet()
	for i, dto := range bobfile.Tasks {
		if err := addTask(set, dto); err != nil {
			return nil, zerr.With(err, "task_index", i)
		}
	}

	targetDir := bobfile.TargetDir
	if targetDir == "" {
		targetDir = DefaultTargetDir
	}

	return &domain.Manifest{
		TargetDir: targetDir,
		Tasks:     set,
	}, nil
}

func addTask(set *domain.TaskSet, dto TaskDTO) error {
	action, err := buildAction(dto)
	if err != nil {
		return err
	}
	set.Add(action, dto.Inputs, dto.Outputs)
	return nil
}

// buildAction maps a DTO onto exactly one action kind.
func buildAction(dto TaskDTO) (domain.TaskAction, error) {
	var actions []domain.TaskAction
	if dto.Phony != "" {
		actions = append(actions, domain.Phony{Label: dto.Phony})
	}
	if dto.Copy != nil {
		if dto.Copy.Src == "" || dto.Copy.Dst == "" {
			return nil, zerr.Wrap(domain.ErrInvalidTaskConfig, "copy needs both src and dst")
		}
		actions = append(actions, domain.Copy{Src: dto.Copy.Src, Dst: dto.Copy.Dst})
	}
	if dto.Command != "" {
		actions = append(actions, domain.Command{Line: dto.Command})
	}

	if len(actions) != 1 {
		return nil, zerr.Wrap(domain.ErrInvalidTaskConfig, "task needs exactly one of phony, copy, command")
	}
	return actions[0], nil
}
