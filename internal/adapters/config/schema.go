package config

// Bobfile represents the structure of the bobfile.yaml configuration
// file. Tasks are an ordered list: registration order decides which
// task owns an output path when two declare the same one, and the last
// task is the default build target.
type Bobfile struct {
	Version   string    `yaml:"version"`
	TargetDir string    `yaml:"targetDir"`
	Tasks     []TaskDTO `yaml:"tasks"`
}

// TaskDTO represents a task definition in the configuration. Exactly
// one of Phony, Copy, or Command must be set.
type TaskDTO struct {
	Phony   string   `yaml:"phony"`
	Copy    *CopyDTO `yaml:"copy"`
	Command string   `yaml:"command"`
	Inputs  []string `yaml:"inputs"`
	Outputs []string `yaml:"outputs"`
}

// CopyDTO represents a file copy action.
type CopyDTO struct {
	Src string `yaml:"src"`
	Dst string `yaml:"dst"`
}
