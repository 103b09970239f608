package resource_manager

import (
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type zipEntry struct {
	name   string
	data   string
	stored bool
}

// writeZip creates a zip archive at path on fs with the given entries, in order.
func writeZip(t testing.TB, fs afero.Fs, path string, entries ...zipEntry) {
	t.Helper()

	file, err := fs.Create(path)
	require.NoError(t, err)

	writer := zip.NewWriter(file)
	for _, entry := range entries {
		method := zip.Deflate
		if entry.stored {
			method = zip.Store
		}
		w, err := writer.CreateHeader(&zip.FileHeader{Name: entry.name, Method: method})
		require.NoError(t, err)
		if entry.data != "" {
			_, err = w.Write([]byte(entry.data))
			require.NoError(t, err)
		}
	}
	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
}

// writeFiles creates each file of the map (path -> content) on fs.
func writeFiles(t testing.TB, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
}

func newTestManager(t testing.TB, options ...Option) (*Manager, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewResourcesManager(append([]Option{WithFs(fs)}, options...)...), fs
}

// fixedIDs hands out the same ids in a loop.
type fixedIDs struct {
	ids  []uint64
	next int
}

func (f *fixedIDs) NextID() uint64 {
	id := f.ids[f.next%len(f.ids)]
	f.next++
	return id
}
