package export

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLocalStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)
	require.Equal(t, dir, storage.basePath)

	_, err = os.Stat(dir)
	require.NoError(t, err, "base directory should be created")
}

func TestLocalStorage_Save(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name := FileName("amazon")
	content := "Hello, world!"

	path, err := storage.Save(name, strings.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, "ecomlens-amazon.png", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(len(content)), info.Size())
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base)
	require.NoError(t, err)

	path, err := storage.Save("../../escape.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "escape.png"), path)

	_, err = storage.Save("..", strings.NewReader("x"))
	require.Error(t, err)
}

func TestDecodeDataURI(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G'}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	mime, data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	require.Equal(t, "image/png", mime)
	require.Equal(t, raw, data)

	for _, bad := range []string{
		"image/png;base64,AAAA",
		"data:image/png;base64",
		"data:image/png,AAAA",
		"data:image/png;base64,***",
	} {
		_, _, err := DecodeDataURI(bad)
		require.ErrorIs(t, err, ErrInvalidDataURI, bad)
	}
}

func TestSaveDataURI(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("pixels"))
	path, err := storage.SaveDataURI(FileName("custom"), uri)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "pixels", string(got))
}
