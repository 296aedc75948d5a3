// Package archive packages build artifacts into compressed tarballs. The
// compressor is chosen by file extension: .tar.br (brotli), .tar.xz (xz)
// and .tar.gz (gzip).
package archive

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/rotisserie/eris"
	"github.com/ulikunitz/xz"
)

func newCompressor(handle *os.File, name string) (io.WriteCloser, error) {
	switch {
	case strings.HasSuffix(name, ".tar.br"):
		return brotli.NewWriterLevel(handle, brotli.BestCompression), nil
	case strings.HasSuffix(name, ".tar.xz"):
		writer, err := xz.NewWriter(handle)
		if err != nil {
			return nil, eris.Wrap(err, "Failed to initialize xz writer")
		}
		return writer, nil
	case strings.HasSuffix(name, ".tar.gz"):
		return gzip.NewWriter(handle), nil
	}

	return nil, eris.Errorf("unsupported archive extension on %s", name)
}

// Pack writes the contents of srcDir into the archive at destPath. Paths
// inside the archive are relative to srcDir with forward slashes.
func Pack(destPath, srcDir string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return eris.Wrapf(err, "Could not find %s", srcDir)
	}
	if !info.IsDir() {
		return eris.Errorf("%s is not a directory!", srcDir)
	}

	handle, err := os.Create(destPath)
	if err != nil {
		return eris.Wrapf(err, "Failed to create %s", destPath)
	}
	defer handle.Close()

	compressor, err := newCompressor(handle, destPath)
	if err != nil {
		return err
	}

	writer := tar.NewWriter(compressor)
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return eris.Wrapf(err, "Failed to relativize %s", path)
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return eris.Wrapf(err, "Failed to build header for %s", path)
		}
		header.Name = filepath.ToSlash(relPath)

		err = writer.WriteHeader(header)
		if err != nil {
			return eris.Wrapf(err, "Failed to write header for %s", path)
		}

		source, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "Failed to open %s", path)
		}
		defer source.Close()

		_, err = io.Copy(writer, source)
		if err != nil {
			return eris.Wrapf(err, "Failed to archive %s", path)
		}

		return nil
	})
	if err != nil {
		return err
	}

	err = writer.Close()
	if err != nil {
		return eris.Wrap(err, "Failed to finalize archive")
	}

	err = compressor.Close()
	if err != nil {
		return eris.Wrap(err, "Failed to flush compressor")
	}

	return nil
}
