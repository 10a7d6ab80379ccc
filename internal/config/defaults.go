package config

import (
	_ "embed"
)

//go:embed defaults/mazebot.yaml
var defaultYAML []byte

// Default returns the hard-coded default configuration.
func Default() Config {
	return Config{
		Trial: TrialConfig{
			MaxSteps:       1000,
			TrainScoreMult: 1.0 / 30,
			Attempts:       10,
			Workers:        0,
		},
		Robot: RobotConfig{
			Algorithm: "SHORT_80",
			Seed:      0,
		},
		Maze: MazeConfig{
			Default: "wilson-12",
		},
		Storage: StorageConfig{
			DB: "~/.mazebot/results.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Viewer: ViewerConfig{
			Speed: SpeedNormal,
			Host:  "0.0.0.0",
			Port:  2222,
		},
	}
}
