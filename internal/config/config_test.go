package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	def := Default()
	if cfg.Trial.MaxSteps != def.Trial.MaxSteps {
		t.Errorf("MaxSteps = %d, expected %d", cfg.Trial.MaxSteps, def.Trial.MaxSteps)
	}
	if math.Abs(cfg.Trial.TrainScoreMult-def.Trial.TrainScoreMult) > 1e-6 {
		t.Errorf("TrainScoreMult = %v, expected %v", cfg.Trial.TrainScoreMult, def.Trial.TrainScoreMult)
	}
	if cfg.Robot.Algorithm != def.Robot.Algorithm {
		t.Errorf("Algorithm = %q, expected %q", cfg.Robot.Algorithm, def.Robot.Algorithm)
	}
	if cfg.Storage.DB != def.Storage.DB {
		t.Errorf("DB = %q, expected %q", cfg.Storage.DB, def.Storage.DB)
	}
	if cfg.Viewer != def.Viewer {
		t.Errorf("Viewer = %+v, expected %+v", cfg.Viewer, def.Viewer)
	}
}

func TestLoadCustomPathKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "robot:\n  algorithm: HEURISTIC_GOALS\ntrial:\n  max_steps: 500\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Robot.Algorithm != "HEURISTIC_GOALS" {
		t.Errorf("Algorithm = %q, expected HEURISTIC_GOALS", cfg.Robot.Algorithm)
	}
	if cfg.Trial.MaxSteps != 500 {
		t.Errorf("MaxSteps = %d, expected 500", cfg.Trial.MaxSteps)
	}
	if cfg.Maze.Default != "wilson-12" {
		t.Errorf("Maze.Default = %q, expected the default wilson-12", cfg.Maze.Default)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("trial: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of invalid yaml should fail")
	}
}

func TestLoadLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", FileName), []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, expected debug", cfg.Log.Level)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDB, "/tmp/x.db")
	t.Setenv(EnvAlg, "SHORT_70")
	t.Setenv(EnvMaxSteps, "250")
	t.Setenv(EnvSeed, "9")
	t.Setenv(EnvLogLevel, "  ")

	cfg := Default()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}
	if cfg.Storage.DB != "/tmp/x.db" || cfg.Robot.Algorithm != "SHORT_70" {
		t.Errorf("ApplyEnv() = %+v", cfg)
	}
	if cfg.Trial.MaxSteps != 250 || cfg.Robot.Seed != 9 {
		t.Errorf("MaxSteps/Seed = %d/%d, expected 250/9", cfg.Trial.MaxSteps, cfg.Robot.Seed)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("blank %s should be ignored, got %q", EnvLogLevel, cfg.Log.Level)
	}

	t.Setenv(EnvMaxSteps, "lots")
	if err := ApplyEnv(&cfg); err == nil {
		t.Error("ApplyEnv() should reject a non-numeric step budget")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("MAZEBOT_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("MAZEBOT_TEST_DOTENV") })

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}
	if got := os.Getenv("MAZEBOT_TEST_DOTENV"); got != "from-file" {
		t.Errorf("MAZEBOT_TEST_DOTENV = %q, expected from-file", got)
	}
}

func TestSpeedPresets(t *testing.T) {
	tests := []struct {
		preset         SpeedPreset
		rate           int
		faster, slower SpeedPreset
	}{
		{SpeedSlow, 4, SpeedNormal, SpeedSlow},
		{SpeedNormal, 12, SpeedFast, SpeedSlow},
		{SpeedFast, 30, SpeedInstant, SpeedNormal},
		{SpeedInstant, 120, SpeedInstant, SpeedFast},
	}
	for _, tc := range tests {
		if got := TickRateForPreset(tc.preset); got != tc.rate {
			t.Errorf("TickRateForPreset(%s) = %d, expected %d", tc.preset, got, tc.rate)
		}
		if got := tc.preset.Faster(); got != tc.faster {
			t.Errorf("%s.Faster() = %s, expected %s", tc.preset, got, tc.faster)
		}
		if got := tc.preset.Slower(); got != tc.slower {
			t.Errorf("%s.Slower() = %s, expected %s", tc.preset, got, tc.slower)
		}
	}

	if p, ok := ParseSpeedPreset("FAST"); !ok || p != SpeedFast {
		t.Errorf("ParseSpeedPreset(FAST) = %s, %v", p, ok)
	}
	v := ViewerConfig{Speed: SpeedSlow, TPS: 50}
	if v.TickRate() != 50 {
		t.Errorf("TickRate() = %d, expected the explicit 50", v.TickRate())
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}
