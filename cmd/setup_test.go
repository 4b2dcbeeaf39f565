package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"video-thumbnail/infrastructure/config"
)

// scriptedPrompter answers prompts by message substring
type scriptedPrompter struct {
	inputs   map[string]string
	selects  map[string]string
	confirm  bool
	failWith error
}

func (p *scriptedPrompter) answer(m map[string]string, message, def string) string {
	for k, v := range m {
		if strings.Contains(message, k) {
			return v
		}
	}
	return def
}

func (p *scriptedPrompter) Input(message, defaultValue string) (string, error) {
	if p.failWith != nil {
		return "", p.failWith
	}
	return p.answer(p.inputs, message, defaultValue), nil
}

func (p *scriptedPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	return p.confirm, nil
}

func (p *scriptedPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	if p.failWith != nil {
		return "", p.failWith
	}
	return p.answer(p.selects, message, defaultValue), nil
}

func TestRunSetupWithPrompter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")
	p := &scriptedPrompter{
		inputs: map[string]string{
			"ffmpeg":     "/usr/local/bin/ffmpeg",
			"remote":     "/var/cache/thumbs",
			"concurrent": "4",
			"quality":    "90",
		},
		selects: map[string]string{
			"decoder": "opencv",
			"format":  "png",
		},
	}

	if err := RunSetupWithPrompter(p, path); err != nil {
		t.Fatalf("RunSetupWithPrompter() unexpected error: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.FFmpeg.Path != "/usr/local/bin/ffmpeg" || cfg.Decoder.Backend != "opencv" || cfg.Encoder.WebP != "ffmpeg" {
		t.Errorf("backends = %+v %+v %+v", cfg.FFmpeg, cfg.Decoder, cfg.Encoder)
	}
	if cfg.Paths.CacheDirectory != "/var/cache/thumbs" || cfg.Worker.MaxConcurrency != 4 {
		t.Errorf("paths/worker = %+v %+v", cfg.Paths, cfg.Worker)
	}
	if cfg.Defaults.Format != "png" || cfg.Defaults.Quality != 90 {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
}

func TestRunSetupWithPrompter_Errors(t *testing.T) {
	tests := []struct {
		name string
		p    *scriptedPrompter
	}{
		{name: "cancelled", p: &scriptedPrompter{failWith: errors.New("interrupt")}},
		{name: "bad concurrency", p: &scriptedPrompter{inputs: map[string]string{"concurrent": "-2"}}},
		{name: "bad quality", p: &scriptedPrompter{inputs: map[string]string{"quality": "150"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RunSetupWithPrompter(tt.p, filepath.Join(t.TempDir(), "config.yaml")); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRunConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")
	cfg := config.Default()

	var out bytes.Buffer
	if err := RunConfigSetWithDependencies(cfg, path, "decoder.backend", "opencv", &out); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(out.String(), "Set decoder.backend = opencv") {
		t.Errorf("set output = %q", out.String())
	}

	out.Reset()
	if err := RunConfigGetWithDependencies(cfg, "decoder.backend", &out); err != nil || out.String() != "opencv\n" {
		t.Errorf("get = %q, %v", out.String(), err)
	}

	out.Reset()
	if err := RunConfigShowWithDependencies(cfg, &out); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "paths.cache_directory") || !strings.Contains(out.String(), "decoder.backend") {
		t.Errorf("show output = %q", out.String())
	}

	if err := RunConfigSetWithDependencies(cfg, path, "nope", "x", &out); !errors.Is(err, config.ErrUnknownKey) {
		t.Errorf("set unknown key error = %v", err)
	}
}
