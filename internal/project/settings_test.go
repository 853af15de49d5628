package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/synth"
)

// clearEnv unsets the override variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvUnmatched, EnvPowerNets, EnvGroundNets} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDirDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	s, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"VCC"}, s.PowerNets)
	assert.Equal(t, []string{"GND"}, s.GroundNets)
	assert.Equal(t, "fail", s.Unmatched)
	assert.Empty(t, s.RulePaths())
	assert.Empty(t, s.OutputPath())
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, `
module: alu_slice
rules:
  - board.vcfg
  - /opt/lib/parts.vcfg
power_nets: [VCC, "+5V"]
unmatched: warn
output: build/alu.v
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "alu_slice", s.Module)
	assert.Equal(t, []string{"VCC", "+5V"}, s.PowerNets)
	assert.Equal(t, []string{"GND"}, s.GroundNets, "missing keys keep defaults")
	assert.Equal(t, []string{filepath.Join(dir, "board.vcfg"), "/opt/lib/parts.vcfg"}, s.RulePaths())
	assert.Equal(t, filepath.Join(dir, "build", "alu.v"), s.OutputPath())

	opts, err := s.Options(nil)
	require.NoError(t, err)
	assert.Equal(t, synth.UnmatchedWarn, opts.Unmatched)
}

func TestLoadDirFindsSettings(t *testing.T) {
	clearEnv(t)

	s, err := LoadDir("../../testdata/alu")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join("../../testdata/alu", "alu.vcfg"),
		filepath.Join("../../testdata/alu", "parts.vcfg"),
	}, s.RulePaths())
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, "unmatched: fail\n")

	t.Setenv(EnvUnmatched, " WARN ")
	t.Setenv(EnvPowerNets, "VDD, +3V3,")
	t.Setenv(EnvGroundNets, "VSS")

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", s.Unmatched)
	assert.Equal(t, []string{"VDD", "+3V3"}, s.PowerNets)
	assert.Equal(t, []string{"VSS"}, s.GroundNets)
}

func TestDotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "OTV_UNMATCHED=warn\nOTV_GROUND_NETS=0V\n")
	// Process environment wins over .env
	t.Setenv(EnvGroundNets, "AGND")

	s, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "warn", s.Unmatched)
	assert.Equal(t, []string{"AGND"}, s.GroundNets)
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad policy", "unmatched: ignore\n", "oneof"},
		{"empty power", "power_nets: []\n", "min"},
		{"blank rule", "rules: [a.vcfg, \"\"]\n", "required"},
		{"overlap", "power_nets: [VCC]\nground_nets: [GND, VCC]\n", "both power and ground"},
		{"bad yaml", "rules: [unterminated\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeFile(t, t.TempDir(), FileName, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.Error(t, err)
}
