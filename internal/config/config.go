// Package config provides YAML-based configuration loading for the maze
// robot: harness budget, robot algorithm, storage location, logging and the
// terminal viewer.
package config

// Config contains all configuration for mazebot.
type Config struct {
	Trial   TrialConfig   `yaml:"trial"`
	Robot   RobotConfig   `yaml:"robot"`
	Maze    MazeConfig    `yaml:"maze"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Viewer  ViewerConfig  `yaml:"viewer"`
}

// TrialConfig defines the harness budget and scoring.
type TrialConfig struct {
	MaxSteps       int     `yaml:"max_steps"`        // step budget shared by both runs
	TrainScoreMult float64 `yaml:"train_score_mult"` // weight of run 1 in the score
	Attempts       int     `yaml:"attempts"`         // attempts per maze/algorithm in a batch
	Workers        int     `yaml:"workers"`          // concurrent batch trials, 0 = NumCPU
}

// RobotConfig defines how the robot explores.
type RobotConfig struct {
	Algorithm string `yaml:"algorithm"`
	Seed      int64  `yaml:"seed"` // 0 = time-based
}

// MazeConfig selects the default maze.
type MazeConfig struct {
	Default string `yaml:"default"` // registry ID or maze file path
	Dir     string `yaml:"dir"`     // extra directory searched for maze files
}

// StorageConfig defines where results are persisted.
type StorageConfig struct {
	DB string `yaml:"db"`
}

// LogConfig defines logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ViewerConfig defines the terminal viewer.
type ViewerConfig struct {
	Speed SpeedPreset `yaml:"speed"`
	TPS   int         `yaml:"tps"` // overrides Speed when > 0
	Host  string      `yaml:"host"`
	Port  int         `yaml:"port"`
}

// TickRate returns the viewer's steps per second.
func (v ViewerConfig) TickRate() int {
	if v.TPS > 0 {
		return v.TPS
	}
	return TickRateForPreset(v.Speed)
}
