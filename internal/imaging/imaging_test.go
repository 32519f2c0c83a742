package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestProcessCoverJPEG(t *testing.T) {
	data := createTestJPEG(100, 150)
	cover, err := ProcessCover(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ProcessCover JPEG: %v", err)
	}
	if cover.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", cover.MIME)
	}
	if len(cover.Data) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestProcessCoverPNG(t *testing.T) {
	data := createTestPNG(100, 150)
	cover, err := ProcessCover(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ProcessCover PNG: %v", err)
	}
	if cover.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg (always outputs JPEG), got %s", cover.MIME)
	}
}

func TestProcessCoverDownscale(t *testing.T) {
	data := createTestJPEG(1600, 2400)
	cover, err := ProcessCover(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ProcessCover large image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(cover.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		t.Errorf("expected max %dx%d, got %dx%d", MaxDimension, MaxDimension, bounds.Dx(), bounds.Dy())
	}
}

func TestProcessCoverSmallImageNotUpscaled(t *testing.T) {
	data := createTestJPEG(50, 75)
	cover, err := ProcessCover(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ProcessCover small image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(cover.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 75 {
		t.Errorf("small cover should not be resized: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestProcessCoverInvalidFormat(t *testing.T) {
	if _, err := ProcessCover(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestProcessCoverGIFRejected(t *testing.T) {
	// GIF magic bytes.
	if _, err := ProcessCover(bytes.NewReader([]byte("GIF89a..."))); err == nil {
		t.Error("expected error for GIF")
	}
}
