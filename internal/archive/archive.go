// Package archive unpacks and repacks the zip containers (.ootrs, .mmrs)
// that bundle a sequence with its metadata.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/retroenv/seqvol/internal/detector"
)

var (
	// ErrNoSequence is returned when an archive contains no sequence file.
	ErrNoSequence = errors.New("archive contains no sequence file")
	// ErrMultipleSequences is returned when an archive contains more than one sequence file.
	ErrMultipleSequences = errors.New("archive contains multiple sequence files")
	// ErrUnsafePath is returned for archive entries that would be extracted outside of the target directory.
	ErrUnsafePath = errors.New("unsafe path in archive")
)

// timestampLayout is appended to the name of repacked archives.
const timestampLayout = "20060102150405"

// Unpack extracts the archive into dir and returns the path of the single
// sequence file it contains.
func Unpack(archivePath, dir string) (string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer func() { _ = reader.Close() }()

	var sequences []string
	for _, file := range reader.File {
		path, err := extract(file, dir)
		if err != nil {
			return "", err
		}
		if path != "" && detector.IsSequence(path) {
			sequences = append(sequences, path)
		}
	}

	switch len(sequences) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNoSequence, archivePath)
	case 1:
		return sequences[0], nil
	default:
		names := make([]string, 0, len(sequences))
		for _, path := range sequences {
			rel, _ := filepath.Rel(dir, path)
			names = append(names, filepath.ToSlash(rel))
		}
		return "", fmt.Errorf("%w: %s", ErrMultipleSequences, strings.Join(names, ", "))
	}
}

// extract writes a single archive entry below dir and returns the path of
// the written file, or an empty path for directories.
func extract(file *zip.File, dir string) (string, error) {
	if !filepath.IsLocal(file.Name) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, file.Name)
	}
	path := filepath.Join(dir, filepath.FromSlash(file.Name))

	if file.FileInfo().IsDir() {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", path, err)
		}
		return "", nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", path, err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening archive entry %s: %w", file.Name, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating file %s: %w", path, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("extracting %s: %w", file.Name, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("closing file %s: %w", path, err)
	}
	return path, nil
}

// RepackName returns the name of the repacked archive, the original name with
// a timestamp inserted before the extension.
func RepackName(archivePath string, now time.Time) string {
	ext := filepath.Ext(archivePath)
	base := strings.TrimSuffix(archivePath, ext)
	return fmt.Sprintf("%s.%s%s", base, now.Format(timestampLayout), ext)
}

// Repack zips the content of dir into a new archive next to archivePath and
// returns its path. The original archive is not modified.
func Repack(dir, archivePath string, now time.Time) (string, error) {
	target := RepackName(archivePath, now)

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating archive %s: %w", target, err)
	}

	writer := zip.NewWriter(out)
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		return addFile(writer, dir, path)
	})
	if err == nil {
		err = writer.Close()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("writing archive %s: %w", target, err)
	}
	return target, nil
}

func addFile(writer *zip.Writer, dir, path string) error {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return fmt.Errorf("resolving archive path of %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading file info of %s: %w", path, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("creating archive header for %s: %w", path, err)
	}
	header.Name = filepath.ToSlash(rel)
	header.Method = zip.Deflate

	dst, err := writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", header.Name, err)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = src.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("compressing %s: %w", path, err)
	}
	return nil
}
