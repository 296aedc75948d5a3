package orch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foreman/pkg/orch"
)

func TestLogStoreRoundtrip(t *testing.T) {
	store, err := orch.NewLogStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put("day_1", orch.ActionBuild, "compiling day_1 v0.1.0\n"))
	require.NoError(t, store.Put("day_1", orch.ActionTest, "running 4 tests\n"))

	content, err := store.Get("day_1", orch.ActionBuild)
	require.NoError(t, err)
	assert.Equal(t, "compiling day_1 v0.1.0\n", content)

	// actions do not overwrite each other
	content, err = store.Get("day_1", orch.ActionTest)
	require.NoError(t, err)
	assert.Equal(t, "running 4 tests\n", content)
}

func TestLogStoreGetMissing(t *testing.T) {
	store, err := orch.NewLogStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get("day_9", orch.ActionLint)
	require.Error(t, err)
}

func TestLogStoreOverwritesPreviousRun(t *testing.T) {
	store, err := orch.NewLogStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put("day_1", orch.ActionBuild, "old"))
	require.NoError(t, store.Put("day_1", orch.ActionBuild, "new"))

	content, err := store.Get("day_1", orch.ActionBuild)
	require.NoError(t, err)
	assert.Equal(t, "new", content)
}

func TestLogStoreRunInfo(t *testing.T) {
	store, err := orch.NewLogStore(t.TempDir())
	require.NoError(t, err)

	started := time.Now().Truncate(time.Second)
	require.NoError(t, store.WriteRunInfo(orch.RunInfo{
		ID:      "V1StGXR8_Z5jdHi6B-myT",
		Action:  orch.ActionTest,
		Started: started,
	}))

	info, err := store.ReadRunInfo()
	require.NoError(t, err)
	assert.Equal(t, "V1StGXR8_Z5jdHi6B-myT", info.ID)
	assert.Equal(t, orch.ActionTest, info.Action)
	assert.True(t, info.Started.Equal(started))
}
