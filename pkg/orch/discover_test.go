package orch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foreman/pkg/orch"
)

func makeUnit(t *testing.T, root, name string, withManifest bool) {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	if withManifest {
		manifest := filepath.Join(dir, "Cargo.toml")
		require.NoError(t, os.WriteFile(manifest, []byte("[package]\nname = \""+name+"\"\n"), 0o644))
	}
}

func TestDiscoverUnitsFindsManifestDirs(t *testing.T) {
	root := t.TempDir()
	makeUnit(t, root, "day_1", true)
	makeUnit(t, root, "day_2", true)
	makeUnit(t, root, "notes", false)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("hi"), 0o644))

	units, err := orch.DiscoverUnits(root, orch.DefaultConfig())
	require.NoError(t, err)

	names := make([]string, 0, len(units))
	for _, unit := range units {
		names = append(names, unit.Name)
	}
	assert.ElementsMatch(t, []string{"day_1", "day_2"}, names)
}

func TestDiscoverUnitsSkipsHiddenAndNestedDirs(t *testing.T) {
	root := t.TempDir()
	makeUnit(t, root, ".cache", true)
	makeUnit(t, root, "day_1", true)
	// a manifest two levels down must not produce a unit
	makeUnit(t, filepath.Join(root, "misc"), "inner", true)

	units, err := orch.DiscoverUnits(root, orch.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "day_1", units[0].Name)
	assert.Equal(t, filepath.Join(root, "day_1"), units[0].Path)
	assert.Equal(t, filepath.Join(root, "day_1", "Cargo.toml"), units[0].ManifestPath)
}

func TestDiscoverUnitsEmptyRoot(t *testing.T) {
	units, err := orch.DiscoverUnits(t.TempDir(), orch.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestDiscoverUnitsMissingRoot(t *testing.T) {
	_, err := orch.DiscoverUnits(filepath.Join(t.TempDir(), "nope"), orch.DefaultConfig())
	require.Error(t, err)
	assert.True(t, eris.Is(err, orch.ErrRootNotFound))
}

func TestDiscoverUnitsAppliesConfiguredFeatures(t *testing.T) {
	root := t.TempDir()
	makeUnit(t, root, "day_1", true)
	makeUnit(t, root, "day_2", true)

	cfg := orch.DefaultConfig()
	cfg.Features = map[string][]string{"day_2": {"no_real_inputs"}}

	units, err := orch.DiscoverUnits(root, cfg)
	require.NoError(t, err)
	require.Len(t, units, 2)

	for _, unit := range units {
		if unit.Name == "day_2" {
			assert.True(t, unit.HasFeature("no_real_inputs"))
		} else {
			assert.False(t, unit.HasFeature("no_real_inputs"))
		}
	}
}

func TestDiscoverUnitsCustomManifest(t *testing.T) {
	root := t.TempDir()
	makeUnit(t, root, "day_1", true)

	dir := filepath.Join(root, "unit_b")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.yaml"), []byte("{}"), 0o644))

	cfg := orch.DefaultConfig()
	cfg.Manifest = "build.yaml"

	units, err := orch.DiscoverUnits(root, cfg)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "unit_b", units[0].Name)
}
