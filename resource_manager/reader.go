package resource_manager

import (
	"errors"
	"fmt"
	"io"

	"github.com/meysamhadeli/resman/resource_manager/models"
	"go.uber.org/multierr"
)

// ReadData copies up to len(buf) bytes of filename into buf and returns how many were read.
// Unresolved names and backend failures read 0 bytes.
func (m *Manager) ReadData(filename string, buf []byte) int {
	record := m.FindFileRecord(filename)
	if record == nil {
		return 0
	}

	n, err := m.readRecord(record, buf)
	if err != nil {
		m.log.Warningf("cannot read %s: %v", record.Source(), err)
	}
	return n
}

// ReadAll returns the whole content of filename in a buffer of its indexed size.
// It returns nil, nil when the name does not resolve and a runtime error when the data read
// does not match the indexed size.
func (m *Manager) ReadAll(filename string) ([]byte, error) {
	record := m.FindFileRecord(filename)
	if record == nil {
		return nil, nil
	}
	if record.Size < 0 {
		return nil, runtimeError("read", record.Source(), ErrSizeUnknown)
	}

	buf := make([]byte, record.Size)
	n, err := m.readRecord(record, buf)
	if err != nil {
		m.log.Warningf("cannot read %s: %v", record.Source(), err)
	}
	if int64(n) != record.Size {
		return nil, runtimeError("read", record.Source(), fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, n, record.Size))
	}

	return buf, nil
}

func (m *Manager) readRecord(record *models.FileRecord, buf []byte) (int, error) {
	switch {
	case record.FileType == models.RegularFile:
		return m.readDataFromRegularFile(record.FilePath, buf)
	case record.FileType.IsArchived():
		return m.readDataFromArchive(record, buf)
	default:
		return 0, fmt.Errorf("unknown file type %s", record.FileType)
	}
}

func (m *Manager) readDataFromRegularFile(filePath string, buf []byte) (int, error) {
	file, err := m.fs.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	n, err := io.ReadFull(file, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
	}
	return n, err
}

func (m *Manager) readDataFromArchive(record *models.FileRecord, buf []byte) (n int, err error) {
	zipFile, err := m.archives.Open(record.ZipFilePath)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Combine(err, zipFile.CloseCurrentEntry(), zipFile.Close())
	}()

	if err := zipFile.SeekTo(record.ZipFilePos); err != nil {
		return 0, err
	}
	if err := zipFile.OpenCurrentEntry(); err != nil {
		return 0, err
	}

	return zipFile.ReadCurrentEntry(buf)
}
