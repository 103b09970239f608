package archive

import (
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/meysamhadeli/resman/resource_manager/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createArchive(t *testing.T, fs afero.Fs, path string, names ...string) {
	t.Helper()

	file, err := fs.Create(path)
	require.NoError(t, err)

	writer := zip.NewWriter(file)
	for i, name := range names {
		method := zip.Deflate
		if i%2 == 1 {
			method = zip.Store
		}
		w, err := writer.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		require.NoError(t, err)
		_, err = w.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
}

func TestZipReader_WalksEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	createArchive(t, fs, "/a.zip", "one.txt", "dir/two.txt", "three.txt")

	reader, err := NewZipOpener(fs).Open("/a.zip")
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.GoToNextEntry()
	assert.ErrorIs(t, err, ErrNoCurrentEntry)

	info, err := reader.GoToFirstEntry()
	require.NoError(t, err)
	assert.Equal(t, EntryInfo{Name: "one.txt", UncompressedSize: 18}, info)

	info, err = reader.GoToNextEntry()
	require.NoError(t, err)
	assert.Equal(t, "dir/two.txt", info.Name)
	assert.True(t, info.Stored)

	info, err = reader.GoToNextEntry()
	require.NoError(t, err)
	assert.Equal(t, "three.txt", info.Name)

	_, err = reader.GoToNextEntry()
	assert.ErrorIs(t, err, ErrEndOfList)
}

func TestZipReader_SeekToRememberedPosition(t *testing.T) {
	fs := afero.NewMemMapFs()
	createArchive(t, fs, "/a.zip", "one.txt", "two.txt")

	reader, err := NewZipOpener(fs).Open("/a.zip")
	require.NoError(t, err)

	_, err = reader.GoToFirstEntry()
	require.NoError(t, err)
	_, err = reader.GoToNextEntry()
	require.NoError(t, err)
	position, err := reader.CurrentPosition()
	require.NoError(t, err)
	assert.Equal(t, 1, position.Index)
	require.NoError(t, reader.Close())

	reader, err = NewZipOpener(fs).Open("/a.zip")
	require.NoError(t, err)
	defer reader.Close()

	require.NoError(t, reader.SeekTo(position))
	require.NoError(t, reader.OpenCurrentEntry())

	buf := make([]byte, 64)
	n, err := reader.ReadCurrentEntry(buf)
	require.NoError(t, err)
	assert.Equal(t, "content of two.txt", string(buf[:n]))

	n, err = reader.ReadCurrentEntry(buf)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, reader.CloseCurrentEntry())
	_, err = reader.ReadCurrentEntry(buf)
	assert.ErrorIs(t, err, ErrEntryNotOpen)
}

func TestZipReader_SeekToRejectsBadPositions(t *testing.T) {
	fs := afero.NewMemMapFs()
	createArchive(t, fs, "/a.zip", "one.txt")

	reader, err := NewZipOpener(fs).Open("/a.zip")
	require.NoError(t, err)
	defer reader.Close()

	assert.ErrorIs(t, reader.SeekTo(models.EntryPosition{Index: 5}), ErrBadPosition)
	assert.ErrorIs(t, reader.SeekTo(models.EntryPosition{Index: -1}), ErrBadPosition)
	assert.ErrorIs(t, reader.SeekTo(models.EntryPosition{Index: 0, DataOffset: 9999}), ErrBadPosition)
}

func TestZipReader_EmptyArchive(t *testing.T) {
	fs := afero.NewMemMapFs()
	createArchive(t, fs, "/empty.zip")

	reader, err := NewZipOpener(fs).Open("/empty.zip")
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.GoToFirstEntry()
	assert.ErrorIs(t, err, ErrEmptyArchive)

	_, err = reader.CurrentPosition()
	assert.ErrorIs(t, err, ErrNoCurrentEntry)
	assert.ErrorIs(t, reader.OpenCurrentEntry(), ErrNoCurrentEntry)
}

func TestZipOpener_Failures(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.zip", []byte("not an archive"), 0644))

	_, err := NewZipOpener(fs).Open("/missing.zip")
	assert.Error(t, err)

	_, err = NewZipOpener(fs).Open("/bad.zip")
	assert.ErrorIs(t, err, zip.ErrFormat)
}
