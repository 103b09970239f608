// Package archive exposes zip archives through a cursor-style reader: walk the entry list,
// remember an entry's position, come back to it later and stream its bytes.
package archive

import (
	"errors"

	"github.com/meysamhadeli/resman/resource_manager/models"
)

var (
	// ErrEndOfList is returned by GoToNextEntry after the last entry.
	ErrEndOfList = errors.New("end of archive entry list")

	// ErrNoCurrentEntry is returned when the cursor is not positioned on an entry.
	ErrNoCurrentEntry = errors.New("no current archive entry")

	// ErrEntryNotOpen is returned by ReadCurrentEntry before OpenCurrentEntry.
	ErrEntryNotOpen = errors.New("current archive entry is not open")

	// ErrBadPosition is returned by SeekTo when the position does not match the archive.
	ErrBadPosition = errors.New("archive position does not match any entry")

	// ErrEmptyArchive is returned by GoToFirstEntry on an archive without entries.
	ErrEmptyArchive = errors.New("archive has no entries")
)

// EntryInfo describes the entry under the cursor.
type EntryInfo struct {
	Name             string
	UncompressedSize int64
	Stored           bool // entry data is not compressed
	IsDir            bool
}

// Reader is an open archive with a cursor over its entries.
type Reader interface {
	GoToFirstEntry() (EntryInfo, error)
	GoToNextEntry() (EntryInfo, error)
	CurrentPosition() (models.EntryPosition, error)
	SeekTo(pos models.EntryPosition) error
	OpenCurrentEntry() error
	// ReadCurrentEntry fills p as far as the entry allows; 0 with a nil error means end of data.
	ReadCurrentEntry(p []byte) (int, error)
	CloseCurrentEntry() error
	Close() error
}

// Opener opens archives by path.
type Opener interface {
	Open(path string) (Reader, error)
}
