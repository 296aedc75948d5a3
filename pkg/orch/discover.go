package orch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// DiscoverUnits scans the immediate subdirectories of root and returns one
// Unit for each directory that contains the configured manifest file. The
// scan is read-only and never descends further than one level. The returned
// order follows the directory listing (sorted by name); callers must not
// rely on anything beyond "every qualifying unit appears exactly once".
func DiscoverUnits(root string, cfg Config) ([]Unit, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return nil, eris.Wrapf(ErrRootNotFound, "no such directory %s", root)
		}
		return nil, eris.Wrapf(err, "Failed to read %s", root)
	}

	units := make([]Unit, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		manifest := filepath.Join(root, entry.Name(), cfg.Manifest)
		_, err := os.Stat(manifest)
		if err != nil {
			if eris.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, eris.Wrapf(err, "Failed to check %s", manifest)
		}

		units = append(units, Unit{
			Name:         entry.Name(),
			Path:         filepath.Join(root, entry.Name()),
			ManifestPath: manifest,
			Features:     cfg.Features[entry.Name()],
		})
	}

	return units, nil
}
