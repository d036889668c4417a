package romimage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadSystemSplitsSixteenKiBImage(t *testing.T) {
	data := make([]byte, splitROMSize)
	data[0] = 0xAA          // first byte of BASIC
	data[halfROMSize] = 0xBB // first byte of KERNAL
	path := writeTempFile(t, data)

	sys, err := LoadSystem(path)
	require.NoError(t, err)
	assert.Len(t, sys.Basic, halfROMSize)
	assert.Len(t, sys.Kernal, halfROMSize)
	assert.EqualValues(t, 0xAA, sys.Basic[0])
	assert.EqualValues(t, 0xBB, sys.Kernal[0])
	assert.EqualValues(t, 0xE000, sys.KernalBase)
}

func TestLoadSystemSingleBlobComputesKernalBase(t *testing.T) {
	data := make([]byte, 8192)
	path := writeTempFile(t, data)

	sys, err := LoadSystem(path)
	require.NoError(t, err)
	assert.Nil(t, sys.Basic)
	assert.Len(t, sys.Kernal, 8192)
	assert.EqualValues(t, addressSpace-8192, sys.KernalBase)
}

func TestLoadSystemRejectsOversizedImage(t *testing.T) {
	data := make([]byte, addressSpace+1)
	path := writeTempFile(t, data)

	_, err := LoadSystem(path)
	assert.Error(t, err)
}

func TestLoadSystemMissingFile(t *testing.T) {
	_, err := LoadSystem(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestPadKernalPadsShortBlobAtFront(t *testing.T) {
	sys := &System{Kernal: []byte{0xAA, 0xBB}, KernalBase: addressSpace - 2}

	padded, err := sys.PadKernal()
	require.NoError(t, err)
	assert.Len(t, padded, kernalWindow)
	assert.EqualValues(t, 0xAA, padded[kernalWindow-2])
	assert.EqualValues(t, 0xBB, padded[kernalWindow-1])
	for _, b := range padded[:kernalWindow-2] {
		assert.EqualValues(t, 0, b)
	}
}

func TestPadKernalReturnsFullWindowUnchanged(t *testing.T) {
	data := make([]byte, kernalWindow)
	data[0] = 0x42
	sys := &System{Kernal: data, KernalBase: 0xE000}

	padded, err := sys.PadKernal()
	require.NoError(t, err)
	assert.EqualValues(t, 0x42, padded[0])
}

func TestPadKernalRejectsOversizedBlob(t *testing.T) {
	sys := &System{Kernal: make([]byte, kernalWindow+1)}

	_, err := sys.PadKernal()
	assert.Error(t, err)
}

func TestLoadCharGen(t *testing.T) {
	path := writeTempFile(t, []byte{0x01, 0x02, 0x03})
	data, err := LoadCharGen(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, data)
}

func TestLoadProgram(t *testing.T) {
	path := writeTempFile(t, []byte{0xA9, 0x00})
	data, err := LoadProgram(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA9, 0x00}, data)
}
