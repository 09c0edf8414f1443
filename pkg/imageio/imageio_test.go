package imageio

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 30), uint8(y * 30), 128, 255})
		}
	}
	return img
}

func TestSaveLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")

	require.NoError(t, Save(testImage(), path, "png", 92, false))

	loaded, err := Load(path)
	require.NoError(t, err)

	bounds := loaded.Bounds()
	assert.Equal(t, 8, bounds.Dx())
	assert.Equal(t, 8, bounds.Dy())

	// PNG is lossless
	r, g, b, _ := loaded.At(2, 3).RGBA()
	assert.Equal(t, uint32(60), r>>8)
	assert.Equal(t, uint32(90), g>>8)
	assert.Equal(t, uint32(128), b>>8)
}

func TestSaveLoadJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")

	require.NoError(t, Save(testImage(), path, "jpg", 92, false))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, loaded.Bounds().Dx())
}

func TestSaveLoadWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")

	require.NoError(t, Save(testImage(), path, "webp", 92, true))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, loaded.Bounds().Dx())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such-image.png"))
	assert.Error(t, err)
}
