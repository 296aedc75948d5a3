package orch

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
)

// LogStore persists captured toolchain output keyed by (unit, action) so a
// failing unit's full log can be retrieved after the run, not just streamed
// at failure time.
type LogStore struct {
	dir string
}

// RunInfo identifies the orchestration run that last wrote to the store.
type RunInfo struct {
	ID      string
	Action  Action
	Started time.Time
}

// NewLogStore opens (and creates if necessary) the log directory below the
// given cache dir.
func NewLogStore(cacheDir string) (*LogStore, error) {
	dir := filepath.Join(cacheDir, "logs")
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to create log directory %s", dir)
	}

	return &LogStore{dir: dir}, nil
}

func (s *LogStore) path(unit string, action Action) string {
	return filepath.Join(s.dir, unit+"."+string(action)+".log")
}

// Put stores the captured output for the given unit and action, replacing
// whatever a previous run left behind.
func (s *LogStore) Put(unit string, action Action, content string) error {
	err := os.WriteFile(s.path(unit, action), []byte(content), 0o644)
	if err != nil {
		return eris.Wrapf(err, "Failed to write log for %s/%s", unit, action)
	}
	return nil
}

// Get retrieves the persisted output for the given unit and action.
func (s *LogStore) Get(unit string, action Action) (string, error) {
	data, err := os.ReadFile(s.path(unit, action))
	if err != nil {
		return "", eris.Wrapf(err, "No stored log for %s/%s", unit, action)
	}
	return string(data), nil
}

// WriteRunInfo records which run the stored logs belong to.
func (s *LogStore) WriteRunInfo(info RunInfo) error {
	handle, err := os.Create(filepath.Join(s.dir, "run.gob"))
	if err != nil {
		return eris.Wrap(err, "Failed to create run info")
	}
	defer handle.Close()

	return gob.NewEncoder(handle).Encode(info)
}

// ReadRunInfo returns the recorded run metadata, if any.
func (s *LogStore) ReadRunInfo() (RunInfo, error) {
	var info RunInfo

	handle, err := os.Open(filepath.Join(s.dir, "run.gob"))
	if err != nil {
		return info, err
	}
	defer handle.Close()

	err = gob.NewDecoder(handle).Decode(&info)
	return info, err
}
