package archive

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/meysamhadeli/resman/resource_manager/models"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// ZipOpener opens zip archives stored on an afero filesystem.
type ZipOpener struct {
	Fs afero.Fs
}

// NewZipOpener returns an opener reading archives from fs.
func NewZipOpener(fs afero.Fs) *ZipOpener {
	return &ZipOpener{Fs: fs}
}

// Open reads the central directory of the archive at path.
func (o *ZipOpener) Open(path string) (Reader, error) {
	file, err := o.Fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to stat archive %s: %w", path, err), file.Close())
	}

	zr, err := zip.NewReader(file, info.Size())
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to read archive %s: %w", path, err), file.Close())
	}

	return &zipReader{path: path, file: file, zr: zr, current: -1}, nil
}

type zipReader struct {
	path    string
	file    afero.File
	zr      *zip.Reader
	current int
	entry   io.ReadCloser
}

func (r *zipReader) info() EntryInfo {
	f := r.zr.File[r.current]
	return EntryInfo{
		Name:             f.Name,
		UncompressedSize: int64(f.UncompressedSize64),
		Stored:           f.Method == zip.Store,
		IsDir:            strings.HasSuffix(f.Name, "/"),
	}
}

func (r *zipReader) GoToFirstEntry() (EntryInfo, error) {
	if len(r.zr.File) == 0 {
		return EntryInfo{}, ErrEmptyArchive
	}
	if err := r.CloseCurrentEntry(); err != nil {
		return EntryInfo{}, err
	}
	r.current = 0
	return r.info(), nil
}

func (r *zipReader) GoToNextEntry() (EntryInfo, error) {
	if r.current < 0 {
		return EntryInfo{}, ErrNoCurrentEntry
	}
	if err := r.CloseCurrentEntry(); err != nil {
		return EntryInfo{}, err
	}
	if r.current+1 >= len(r.zr.File) {
		return EntryInfo{}, ErrEndOfList
	}
	r.current++
	return r.info(), nil
}

func (r *zipReader) CurrentPosition() (models.EntryPosition, error) {
	if r.current < 0 {
		return models.EntryPosition{}, ErrNoCurrentEntry
	}
	offset, err := r.zr.File[r.current].DataOffset()
	if err != nil {
		return models.EntryPosition{}, fmt.Errorf("failed to locate entry %s: %w", r.zr.File[r.current].Name, err)
	}
	return models.EntryPosition{Index: r.current, DataOffset: offset}, nil
}

func (r *zipReader) SeekTo(pos models.EntryPosition) error {
	if pos.Index < 0 || pos.Index >= len(r.zr.File) {
		return fmt.Errorf("%w: index %d in %s", ErrBadPosition, pos.Index, r.path)
	}
	offset, err := r.zr.File[pos.Index].DataOffset()
	if err != nil {
		return fmt.Errorf("failed to locate entry %d in %s: %w", pos.Index, r.path, err)
	}
	if offset != pos.DataOffset {
		return fmt.Errorf("%w: entry %d of %s moved from %d to %d", ErrBadPosition, pos.Index, r.path, pos.DataOffset, offset)
	}
	if err := r.CloseCurrentEntry(); err != nil {
		return err
	}
	r.current = pos.Index
	return nil
}

func (r *zipReader) OpenCurrentEntry() error {
	if r.current < 0 {
		return ErrNoCurrentEntry
	}
	if err := r.CloseCurrentEntry(); err != nil {
		return err
	}
	rc, err := r.zr.File[r.current].Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", r.zr.File[r.current].Name, err)
	}
	r.entry = rc
	return nil
}

func (r *zipReader) ReadCurrentEntry(p []byte) (int, error) {
	if r.entry == nil {
		return 0, ErrEntryNotOpen
	}
	n, err := io.ReadFull(r.entry, p)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	return n, err
}

func (r *zipReader) CloseCurrentEntry() error {
	if r.entry == nil {
		return nil
	}
	err := r.entry.Close()
	r.entry = nil
	return err
}

func (r *zipReader) Close() error {
	return multierr.Append(r.CloseCurrentEntry(), r.file.Close())
}
