package orch

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// buildStamp records the state of a unit's sources at the time of its last
// successful build. A later build whose newest source is not newer than the
// stamp is a cache hit.
type buildStamp struct {
	RunID        string
	Mode         Mode
	NewestSource time.Time
	Completed    time.Time
}

func stampPath(cacheDir string, unit Unit, mode Mode) string {
	return filepath.Join(cacheDir, "stamps", unit.Name+"."+mode.String()+".stamp")
}

func writeStamp(file string, stamp buildStamp) error {
	err := os.MkdirAll(filepath.Dir(file), 0o755)
	if err != nil {
		return err
	}

	handle, err := os.Create(file)
	if err != nil {
		return err
	}
	defer handle.Close()

	return gob.NewEncoder(handle).Encode(stamp)
}

func readStamp(file string) (buildStamp, error) {
	var stamp buildStamp

	handle, err := os.Open(file)
	if err != nil {
		return stamp, err
	}
	defer handle.Close()

	err = gob.NewDecoder(handle).Decode(&stamp)
	return stamp, err
}

// newestSource walks the unit directory and returns the most recent
// modification time among its files. Hidden entries and the conventional
// build output directories are skipped since the toolchain touches those on
// every run.
func newestSource(unitPath string) (time.Time, error) {
	var newest time.Time

	err := filepath.WalkDir(unitPath, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()
		if entry.IsDir() && path != unitPath {
			if strings.HasPrefix(name, ".") || name == "target" {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		if info.ModTime().Sub(newest) > 0 {
			newest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return newest, eris.Wrapf(err, "Failed to scan %s", unitPath)
	}

	return newest, nil
}
