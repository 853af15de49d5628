// Package project loads per-project conversion settings from otv.yaml,
// with overrides from the environment (and a .env file next to it).
package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/synth"
)

// FileName is the settings file looked up next to the netlist.
const FileName = "otv.yaml"

// Environment overrides.
const (
	EnvUnmatched  = "OTV_UNMATCHED"
	EnvPowerNets  = "OTV_POWER_NETS"
	EnvGroundNets = "OTV_GROUND_NETS"
)

// Settings is the contents of otv.yaml.
type Settings struct {
	// Module overrides the module name derived from the netlist file name
	Module string `yaml:"module"`

	// Rules lists rule files, loaded in order (relative to the settings file)
	Rules []string `yaml:"rules" validate:"dive,required"`

	PowerNets  []string `yaml:"power_nets" validate:"min=1,dive,required"`
	GroundNets []string `yaml:"ground_nets" validate:"min=1,dive,required"`

	// Unmatched is "fail" or "warn"
	Unmatched string `yaml:"unmatched" validate:"oneof=fail warn"`

	// Output is the Verilog file to write; empty means stdout
	Output string `yaml:"output"`

	dir string
}

// Default returns the settings used when no otv.yaml exists.
func Default() *Settings {
	opts := synth.DefaultOptions()
	return &Settings{
		PowerNets:  opts.PowerNets,
		GroundNets: opts.GroundNets,
		Unmatched:  string(opts.Unmatched),
	}
}

// Find returns the settings file in dir, if there is one.
func Find(dir string) (string, bool) {
	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}
	return "", false
}

// Load reads a settings file, applies environment overrides and validates
// the result. Fields missing from the file keep their defaults. A .env
// file in the same directory is loaded first; variables already set in
// the environment win over it.
func Load(path string) (*Settings, error) {
	s := Default()
	s.dir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadDir loads otv.yaml from dir, or returns defaults (with environment
// overrides) when the directory has none.
func LoadDir(dir string) (*Settings, error) {
	if path, ok := Find(dir); ok {
		return Load(path)
	}

	s := Default()
	s.dir = dir
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	envFile := filepath.Join(s.dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvUnmatched)); v != "" {
		s.Unmatched = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPowerNets); v != "" {
		s.PowerNets = splitList(v)
	}
	if v := os.Getenv(EnvGroundNets); v != "" {
		s.GroundNets = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that no net is both a power and a
// ground net.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q check", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	ground := make(map[string]bool, len(s.GroundNets))
	for _, n := range s.GroundNets {
		ground[n] = true
	}
	for _, n := range s.PowerNets {
		if ground[n] {
			return fmt.Errorf("invalid settings: net %q is both power and ground", n)
		}
	}
	return nil
}

// RulePaths returns the rule files resolved against the settings directory.
func (s *Settings) RulePaths() []string {
	paths := make([]string, len(s.Rules))
	for i, r := range s.Rules {
		if filepath.IsAbs(r) || s.dir == "" {
			paths[i] = r
		} else {
			paths[i] = filepath.Join(s.dir, r)
		}
	}
	return paths
}

// OutputPath returns the output file resolved against the settings
// directory, or "" for stdout.
func (s *Settings) OutputPath() string {
	if s.Output == "" || filepath.IsAbs(s.Output) || s.dir == "" {
		return s.Output
	}
	return filepath.Join(s.dir, s.Output)
}

// Options converts the settings into conversion options.
func (s *Settings) Options(logger *slog.Logger) (synth.Options, error) {
	policy, err := synth.ParseUnmatchedPolicy(s.Unmatched)
	if err != nil {
		return synth.Options{}, err
	}
	return synth.Options{
		PowerNets:  s.PowerNets,
		GroundNets: s.GroundNets,
		Unmatched:  policy,
		Logger:     logger,
	}, nil
}
