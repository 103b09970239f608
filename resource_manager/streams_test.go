package resource_manager

import (
	"errors"
	"io"
	"testing"

	"github.com/meysamhadeli/resman/resource_manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStreamFixture(t *testing.T, options ...Option) *Manager {
	t.Helper()
	manager, fs := newTestManager(t, options...)
	writeFiles(t, fs, map[string]string{"/game/plain.txt": "0123456789"})
	writeZip(t, fs, "/pack.zip",
		zipEntry{name: "packed.txt", data: "packed data in the archive"},
		zipEntry{name: "stored.txt", data: "stored", stored: true},
	)
	manager.AddRootFolder("/game")
	require.NoError(t, manager.AddArchive("/pack.zip", ""))
	return manager
}

func TestGetStream_ReadsToEnd(t *testing.T) {
	manager := newStreamFixture(t)

	for name, want := range map[string]string{
		"plain.txt":  "0123456789",
		"packed.txt": "packed data in the archive",
		"stored.txt": "stored",
	} {
		t.Run(name, func(t *testing.T) {
			stream, err := manager.GetStream(name)
			require.NoError(t, err)
			require.NotNil(t, stream)
			assert.Equal(t, name, stream.Record().Filename)

			data, err := io.ReadAll(stream)
			require.NoError(t, err)
			assert.Equal(t, want, string(data))

			n, err := manager.Read(stream.Handle(), make([]byte, 8))
			assert.NoError(t, err)
			assert.Zero(t, n)

			require.NoError(t, stream.Close())
			assert.Zero(t, manager.OpenStreams())
		})
	}
}

func TestGetStream_UnresolvedName(t *testing.T) {
	manager := newStreamFixture(t)

	stream, err := manager.GetStream("nope.txt")
	assert.NoError(t, err)
	assert.Nil(t, stream)
	assert.Zero(t, manager.OpenStreams())
}

func TestGetStream_ChunkedRead(t *testing.T) {
	manager := newStreamFixture(t)

	stream, err := manager.GetStream("packed.txt")
	require.NoError(t, err)
	defer stream.Close()

	buf := make([]byte, 6)
	n, err := manager.Read(stream.Handle(), buf)
	require.NoError(t, err)
	assert.Equal(t, "packed", string(buf[:n]))

	n, err = manager.Read(stream.Handle(), buf)
	require.NoError(t, err)
	assert.Equal(t, " data ", string(buf[:n]))
}

func TestGetStream_HandlesAreDistinct(t *testing.T) {
	manager := newStreamFixture(t, WithIDSource(&fixedIDs{ids: []uint64{7, 7, 9}}))

	first, err := manager.GetStream("plain.txt")
	require.NoError(t, err)
	second, err := manager.GetStream("plain.txt")
	require.NoError(t, err)

	assert.Equal(t, models.Handle(7), first.Handle())
	assert.Equal(t, models.Handle(9), second.Handle())
	assert.Equal(t, 2, manager.OpenStreams())

	// each stream keeps its own cursor
	buf := make([]byte, 3)
	_, err = first.Read(buf)
	require.NoError(t, err)
	_, err = second.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "012", string(buf))

	require.NoError(t, first.Close())
	require.NoError(t, second.Close())
}

func TestGetStream_HandleCollisionIsRuntimeFatal(t *testing.T) {
	manager := newStreamFixture(t, WithIDSource(&fixedIDs{ids: []uint64{42}}))

	first, err := manager.GetStream("plain.txt")
	require.NoError(t, err)

	second, err := manager.GetStream("packed.txt")
	require.Error(t, err)
	assert.Nil(t, second)
	assert.ErrorIs(t, err, ErrHandleCollision)
	assert.True(t, IsRuntimeFatal(err))
	assert.Equal(t, 1, manager.OpenStreams())

	require.NoError(t, first.Close())
}

func TestGetStream_RemovedFile(t *testing.T) {
	manager, fs := newTestManager(t)
	writeFiles(t, fs, map[string]string{"/game/plain.txt": "x"})
	manager.AddRootFolder("/game")
	require.NoError(t, fs.Remove("/game/plain.txt"))

	_, err := manager.GetStream("plain.txt")
	assert.ErrorIs(t, err, ErrStreamOpen)
	assert.True(t, IsRuntimeFatal(err))
}

func TestGetStream_RewrittenArchive(t *testing.T) {
	manager, fs := newTestManager(t)
	writeZip(t, fs, "/pack.zip", zipEntry{name: "a.txt", data: "aaaa"})
	require.NoError(t, manager.AddArchive("/pack.zip", ""))
	writeZip(t, fs, "/pack.zip", zipEntry{name: "a-much-longer-name.txt", data: "bbbb"})

	_, err := manager.GetStream("a.txt")
	assert.ErrorIs(t, err, ErrArchiveReopen)
	assert.True(t, IsRuntimeFatal(err))
	assert.Zero(t, manager.OpenStreams())
}

func TestSeekAndTell_RegularFile(t *testing.T) {
	manager := newStreamFixture(t)

	stream, err := manager.GetStream("plain.txt")
	require.NoError(t, err)
	defer stream.Close()

	pos, err := stream.Seek(3, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	buf := make([]byte, 2)
	_, err = stream.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "34", string(buf))

	pos, err = stream.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)
}

func TestSeekAndTell_ArchiveStreamIsRuntimeFatal(t *testing.T) {
	manager := newStreamFixture(t)

	stream, err := manager.GetStream("packed.txt")
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, ErrSeekUnsupported)
	assert.True(t, IsRuntimeFatal(err))

	_, err = stream.Tell()
	assert.ErrorIs(t, err, ErrSeekUnsupported)
}

func TestUnknownHandle(t *testing.T) {
	manager := newStreamFixture(t)
	handle := models.Handle(12345)

	n, err := manager.Read(handle, make([]byte, 4))
	assert.NoError(t, err)
	assert.Zero(t, n)

	pos, err := manager.Seek(handle, 1, io.SeekStart)
	assert.NoError(t, err)
	assert.Zero(t, pos)

	pos, err = manager.Tell(handle)
	assert.NoError(t, err)
	assert.Zero(t, pos)

	assert.NoError(t, manager.CloseFile(handle))
}

func TestCloseFile_IsIdempotent(t *testing.T) {
	manager := newStreamFixture(t)

	stream, err := manager.GetStream("stored.txt")
	require.NoError(t, err)

	require.NoError(t, manager.CloseFile(stream.Handle()))
	require.NoError(t, manager.CloseFile(stream.Handle()))
	require.NoError(t, stream.Close())

	n, err := stream.Read(make([]byte, 4))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestWithStream_ClosesOnEveryPath(t *testing.T) {
	manager := newStreamFixture(t)
	failure := errors.New("consumer failed")

	found, err := manager.WithStream("plain.txt", func(stream *Stream) error {
		assert.Equal(t, 1, manager.OpenStreams())
		return failure
	})
	assert.True(t, found)
	assert.ErrorIs(t, err, failure)
	assert.Zero(t, manager.OpenStreams())

	var content []byte
	found, err = manager.WithStream("packed.txt", func(stream *Stream) error {
		var readErr error
		content, readErr = io.ReadAll(stream)
		return readErr
	})
	assert.True(t, found)
	require.NoError(t, err)
	assert.Equal(t, "packed data in the archive", string(content))
	assert.Zero(t, manager.OpenStreams())

	called := false
	found, err = manager.WithStream("missing.txt", func(*Stream) error {
		called = true
		return nil
	})
	assert.False(t, found)
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestReset_KeepsOpenStreams(t *testing.T) {
	manager := newStreamFixture(t)

	stream, err := manager.GetStream("packed.txt")
	require.NoError(t, err)

	manager.Reset()
	assert.Zero(t, manager.RecordCount())
	assert.False(t, manager.Exists("packed.txt"))
	assert.Equal(t, 1, manager.OpenStreams())

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "packed data in the archive", string(data))
	require.NoError(t, stream.Close())
}
