package orch

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the optional workspace configuration file.
const ConfigFile = "foreman.yaml"

// Duration wraps time.Duration so it can be written as "10m" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return eris.Wrapf(err, "invalid duration %q", raw)
	}

	*d = Duration(parsed)
	return nil
}

// ToolConfig holds the command templates executed per action. Templates may
// reference {unit} (the unit name) and {features} (the rendered feature
// flags, empty when the unit declares none).
type ToolConfig struct {
	Build       string `yaml:"build"`
	Test        string `yaml:"test"`
	Lint        string `yaml:"lint"`
	FeatureFlag string `yaml:"featureFlag"`
	ArtifactVar string `yaml:"artifactVar"`
}

// SnapshotConfig names the environment variables the snapshot library
// recognizes. The defaults target insta; other tools can be wired in by
// overriding the names in foreman.yaml.
type SnapshotConfig struct {
	UpdateVar     string `yaml:"updateVar"`
	EnabledValue  string `yaml:"enabledValue"`
	DisabledValue string `yaml:"disabledValue"`
	WorkspaceVar  string `yaml:"workspaceVar"`
}

// Config is the workspace configuration. Every field has a default; a
// missing foreman.yaml is not an error.
type Config struct {
	Manifest       string              `yaml:"manifest"`
	InputsDir      string              `yaml:"inputs"`
	CacheDir       string              `yaml:"cache"`
	Timeout        Duration            `yaml:"timeout"`
	NoInputFeature string              `yaml:"noInputFeature"`
	Env            map[string]string   `yaml:"env,omitempty"`
	Features       map[string][]string `yaml:"features,omitempty"`
	Tools          ToolConfig          `yaml:"tools"`
	Snapshots      SnapshotConfig      `yaml:"snapshots"`
}

// DefaultConfig returns the configuration used when foreman.yaml is absent.
// The defaults drive a cargo workspace with insta snapshot tests.
func DefaultConfig() Config {
	return Config{
		Manifest:       "Cargo.toml",
		InputsDir:      "inputs",
		CacheDir:       ".foreman",
		Timeout:        Duration(10 * time.Minute),
		NoInputFeature: "no_real_inputs",
		Tools: ToolConfig{
			Build:       "cargo build --locked {features}",
			Test:        "cargo test --locked {features}",
			Lint:        "cargo clippy --locked {features} -- -D warnings",
			FeatureFlag: "--features",
			ArtifactVar: "CARGO_TARGET_DIR",
		},
		Snapshots: SnapshotConfig{
			UpdateVar:     "INSTA_UPDATE",
			EnabledValue:  "always",
			DisabledValue: "no",
			WorkspaceVar:  "INSTA_WORKSPACE_ROOT",
		},
	}
}

// LoadConfig reads foreman.yaml from the workspace root, layered over the
// defaults.
func LoadConfig(root string) (Config, error) {
	cfg := DefaultConfig()

	cfgPath := filepath.Join(root, ConfigFile)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, eris.Wrapf(err, "Could not open file %s.", cfgPath)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, eris.Wrapf(err, "Failed to parse %s.", cfgPath)
	}

	return cfg, nil
}
