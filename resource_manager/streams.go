package resource_manager

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/meysamhadeli/resman/resource_manager/archive"
	"github.com/meysamhadeli/resman/resource_manager/models"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// maxHandleDraws bounds how many ids are drawn before giving up on finding a free handle.
const maxHandleDraws = 16

// IDSource draws candidate stream handles.
type IDSource interface {
	NextID() uint64
}

// UUIDSource draws handles from the random bits of version 4 UUIDs.
type UUIDSource struct{}

func (UUIDSource) NextID() uint64 {
	id := uuid.New()
	return binary.BigEndian.Uint64(id[8:])
}

// streamRecord is one open read session.
type streamRecord struct {
	fileRecord *models.FileRecord
	handle     models.Handle

	file    afero.File     // RegularFile
	zipFile archive.Reader // CompressedFile, StoredFile
}

func (s *streamRecord) close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return multierr.Combine(s.zipFile.CloseCurrentEntry(), s.zipFile.Close())
}

type streamTable struct {
	open map[models.Handle]*streamRecord
}

func newStreamTable() *streamTable {
	return &streamTable{open: make(map[models.Handle]*streamRecord)}
}

func (t *streamTable) insert(s *streamRecord) error {
	if _, exists := t.open[s.handle]; exists {
		return fmt.Errorf("%w: %s", ErrHandleCollision, s.handle)
	}
	t.open[s.handle] = s
	return nil
}

// Stream is an open read session on one resource. Close it when done; WithStream does so
// on every path.
type Stream struct {
	manager *Manager
	handle  models.Handle
	record  *models.FileRecord
}

var _ io.ReadSeekCloser = (*Stream)(nil)

// GetStream opens filename for sequential reading. It returns nil, nil when the name
// does not resolve.
func (m *Manager) GetStream(filename string) (*Stream, error) {
	record := m.FindFileRecord(filename)
	if record == nil {
		return nil, nil
	}

	s := &streamRecord{fileRecord: record}
	if err := m.openBackend(s); err != nil {
		return nil, err
	}

	handle, err := m.allocateHandle()
	if err == nil {
		s.handle = handle
		err = m.streams.insert(s)
	}
	if err != nil {
		return nil, runtimeError("open stream", record.Source(), multierr.Append(err, s.close()))
	}

	return &Stream{manager: m, handle: handle, record: record}, nil
}

// WithStream opens filename, passes the stream to fn and closes it afterwards. fn is not
// called when the name does not resolve; found reports whether it was.
func (m *Manager) WithStream(filename string, fn func(*Stream) error) (found bool, err error) {
	stream, err := m.GetStream(filename)
	if err != nil || stream == nil {
		return false, err
	}
	defer func() {
		err = multierr.Append(err, stream.Close())
	}()

	return true, fn(stream)
}

func (m *Manager) openBackend(s *streamRecord) error {
	record := s.fileRecord

	if record.FileType == models.RegularFile {
		file, err := m.fs.Open(record.FilePath)
		if err != nil {
			return runtimeError("open stream", record.FilePath, fmt.Errorf("%w: %w", ErrStreamOpen, err))
		}
		s.file = file
		return nil
	}

	zipFile, err := m.archives.Open(record.ZipFilePath)
	if err != nil {
		return runtimeError("open stream", record.Source(), fmt.Errorf("%w: %w", ErrArchiveReopen, err))
	}
	if err := zipFile.SeekTo(record.ZipFilePos); err != nil {
		return runtimeError("open stream", record.Source(), multierr.Append(fmt.Errorf("%w: %w", ErrArchiveReopen, err), zipFile.Close()))
	}
	if err := zipFile.OpenCurrentEntry(); err != nil {
		return runtimeError("open stream", record.Source(), multierr.Append(fmt.Errorf("%w: %w", ErrArchiveReopen, err), zipFile.Close()))
	}
	s.zipFile = zipFile
	return nil
}

// allocateHandle draws ids until one is not in use by an open stream.
func (m *Manager) allocateHandle() (models.Handle, error) {
	for i := 0; i < maxHandleDraws; i++ {
		handle := models.Handle(m.ids.NextID())
		if _, used := m.streams.open[handle]; !used {
			return handle, nil
		}
	}
	return 0, fmt.Errorf("%w: no free handle after %d draws", ErrHandleCollision, maxHandleDraws)
}

// Read reads up to len(p) bytes from the stream behind handle. Unknown handles and backend
// failures read 0 bytes; 0 with a nil error also marks the end of data.
func (m *Manager) Read(handle models.Handle, p []byte) (int, error) {
	s, ok := m.streams.open[handle]
	if !ok {
		return 0, nil
	}

	var (
		n   int
		err error
	)
	if s.file != nil {
		n, err = io.ReadFull(s.file, p)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = nil
		}
	} else {
		n, err = s.zipFile.ReadCurrentEntry(p)
	}

	if err != nil {
		m.log.Warningf("read failed on stream %s (%s): %v", handle, s.fileRecord.Source(), err)
		return 0, nil
	}
	return n, nil
}

// Seek moves the cursor of a regular file stream. Archive streams only read forward.
// Unknown handles report position 0.
func (m *Manager) Seek(handle models.Handle, offset int64, whence int) (int64, error) {
	s, ok := m.streams.open[handle]
	if !ok {
		return 0, nil
	}
	if s.file == nil {
		return 0, runtimeError("seek", s.fileRecord.Source(), ErrSeekUnsupported)
	}
	pos, err := s.file.Seek(offset, whence)
	if err != nil {
		return 0, runtimeError("seek", s.fileRecord.FilePath, err)
	}
	return pos, nil
}

// Tell returns the cursor position of a regular file stream.
func (m *Manager) Tell(handle models.Handle) (int64, error) {
	s, ok := m.streams.open[handle]
	if !ok {
		return 0, nil
	}
	if s.file == nil {
		return 0, runtimeError("tell", s.fileRecord.Source(), ErrSeekUnsupported)
	}
	pos, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, runtimeError("tell", s.fileRecord.FilePath, err)
	}
	return pos, nil
}

// CloseFile releases the stream behind handle. Closing an unknown handle does nothing.
func (m *Manager) CloseFile(handle models.Handle) error {
	s, ok := m.streams.open[handle]
	if !ok {
		return nil
	}
	delete(m.streams.open, handle)

	if err := s.close(); err != nil {
		return fmt.Errorf("failed to close stream %s: %w", handle, err)
	}
	return nil
}

// OpenStreams returns the number of open streams.
func (m *Manager) OpenStreams() int {
	return len(m.streams.open)
}

// Handle returns the handle identifying the stream.
func (s *Stream) Handle() models.Handle {
	return s.handle
}

// Record returns the record the stream reads from.
func (s *Stream) Record() *models.FileRecord {
	return s.record
}

// Read implements io.Reader; it returns io.EOF once no more data is available, including
// after Close.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := s.manager.Read(s.handle, p)
	if err == nil && n == 0 {
		return 0, io.EOF
	}
	return n, err
}

func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	return s.manager.Seek(s.handle, offset, whence)
}

func (s *Stream) Tell() (int64, error) {
	return s.manager.Tell(s.handle)
}

func (s *Stream) Close() error {
	return s.manager.CloseFile(s.handle)
}
