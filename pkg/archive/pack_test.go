package archive_test

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"foreman/pkg/archive"
)

func makeArtifacts(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "release"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "release", "day_1"), []byte("binary"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "day_1.d"), []byte("deps"), 0o644))

	return dir
}

func readEntries(t *testing.T, reader io.Reader) map[string]string {
	t.Helper()

	entries := map[string]string{}
	contents := tar.NewReader(reader)
	for {
		header, err := contents.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		content, err := io.ReadAll(contents)
		require.NoError(t, err)
		entries[header.Name] = string(content)
	}

	return entries
}

func TestPackBrotli(t *testing.T) {
	src := makeArtifacts(t)
	dest := filepath.Join(t.TempDir(), "day_1.tar.br")

	require.NoError(t, archive.Pack(dest, src))

	handle, err := os.Open(dest)
	require.NoError(t, err)
	defer handle.Close()

	entries := readEntries(t, brotli.NewReader(handle))
	assert.Equal(t, "binary", entries["release/day_1"])
	assert.Equal(t, "deps", entries["day_1.d"])
}

func TestPackXz(t *testing.T) {
	src := makeArtifacts(t)
	dest := filepath.Join(t.TempDir(), "day_1.tar.xz")

	require.NoError(t, archive.Pack(dest, src))

	handle, err := os.Open(dest)
	require.NoError(t, err)
	defer handle.Close()

	reader, err := xz.NewReader(handle)
	require.NoError(t, err)

	entries := readEntries(t, reader)
	assert.Len(t, entries, 2)
}

func TestPackGzip(t *testing.T) {
	src := makeArtifacts(t)
	dest := filepath.Join(t.TempDir(), "day_1.tar.gz")

	require.NoError(t, archive.Pack(dest, src))

	handle, err := os.Open(dest)
	require.NoError(t, err)
	defer handle.Close()

	reader, err := gzip.NewReader(handle)
	require.NoError(t, err)

	entries := readEntries(t, reader)
	assert.Equal(t, "binary", entries["release/day_1"])
}

func TestPackRejectsUnknownExtension(t *testing.T) {
	src := makeArtifacts(t)

	err := archive.Pack(filepath.Join(t.TempDir(), "day_1.zip"), src)
	require.Error(t, err)
}

func TestPackMissingSource(t *testing.T) {
	err := archive.Pack(filepath.Join(t.TempDir(), "out.tar.gz"), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
