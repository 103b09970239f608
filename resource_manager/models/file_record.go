package models

import (
	"fmt"
	"strconv"
)

// FileType tells which backend serves a record.
type FileType int

const (
	RegularFile FileType = iota
	CompressedFile
	StoredFile
)

func (t FileType) String() string {
	switch t {
	case RegularFile:
		return "regular"
	case CompressedFile:
		return "compressed"
	case StoredFile:
		return "stored"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// IsArchived reports whether records of this type live inside a zip archive.
func (t FileType) IsArchived() bool {
	return t == CompressedFile || t == StoredFile
}

// EntryPosition locates an entry inside an archive without rescanning the central directory.
// Index is the entry's ordinal in the directory, DataOffset the offset of its data;
// both are checked when seeking back to the entry.
type EntryPosition struct {
	Index      int
	DataOffset int64
}

// FileRecord holds the metadata of one physical or archived file
type FileRecord struct {
	Filename   string // Demo.png (case as on disk); full entry name for archives
	FileType   FileType
	Size       int64 // -1 when the size query failed
	LanguageID string
	Category   string

	// regular file
	FilePath     string // /Users/user/../<AppId>/res/Textures/Demo.png
	RelativePath string // res/Textures/Demo.png

	// zip
	ZipFilePath string
	ZipFilePos  EntryPosition
}

// Validate checks that exactly the fields of the record's backend are populated.
func (r *FileRecord) Validate() error {
	switch {
	case r.FileType == RegularFile:
		if r.FilePath == "" {
			return fmt.Errorf("regular file record %q has no file path", r.Filename)
		}
		if r.ZipFilePath != "" {
			return fmt.Errorf("regular file record %q carries an archive path", r.Filename)
		}
	case r.FileType.IsArchived():
		if r.ZipFilePath == "" {
			return fmt.Errorf("archived record %q has no archive path", r.Filename)
		}
		if r.FilePath != "" || r.RelativePath != "" {
			return fmt.Errorf("archived record %q carries regular file paths", r.Filename)
		}
	default:
		return fmt.Errorf("record %q has unknown file type %s", r.Filename, r.FileType)
	}
	return nil
}

// Source returns the location the record is read from, for display.
func (r *FileRecord) Source() string {
	if r.FileType.IsArchived() {
		return fmt.Sprintf("%s!%s", r.ZipFilePath, r.Filename)
	}
	return r.FilePath
}

// Handle identifies an open read session. It is unique among open sessions only.
type Handle uint64

func (h Handle) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}
