package imaging

import (
	"encoding/binary"
	"testing"
)

func TestGrayscale_RGB24(t *testing.T) {
	buf, _ := NewBuffer(3, 1, FormatRGB24)
	copy(buf.Data(), []byte{
		255, 255, 255, // white
		0, 0, 0, // black
		255, 0, 0, // pure red
	})

	out, err := Apply(NewGrayscale(), buf)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Format() != FormatGray8 {
		t.Fatalf("output format = %v, want Gray8", out.Format())
	}

	want := []byte{255, 0, 76} // 0.299 * 255 = 76.2
	for i, w := range want {
		if got := out.Data()[i]; got != w {
			t.Errorf("pixel %d = %d, want %d", i, got, w)
		}
	}
}

func TestGrayscale_RGBA32_IgnoresAlpha(t *testing.T) {
	buf, _ := NewBuffer(1, 1, FormatRGBA32)
	copy(buf.Data(), []byte{100, 100, 100, 3})

	out, err := Apply(NewGrayscale(), buf)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := out.Data()[0]; got != 100 {
		t.Errorf("pixel = %d, want 100 (alpha must not contribute)", got)
	}
}

func TestGrayscale_RGB48(t *testing.T) {
	buf, _ := NewBuffer(2, 1, FormatRGB48)
	for c := 0; c < 3; c++ {
		binary.BigEndian.PutUint16(buf.Data()[c*2:], 0xFFFF)
	}
	// Second pixel stays black.

	out, err := Apply(NewGrayscale(), buf)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Format() != FormatGray16 {
		t.Fatalf("output format = %v, want Gray16", out.Format())
	}
	if got := binary.BigEndian.Uint16(out.Data()); got != 0xFFFF {
		t.Errorf("white pixel = %#x, want 0xFFFF", got)
	}
	if got := binary.BigEndian.Uint16(out.Data()[2:]); got != 0 {
		t.Errorf("black pixel = %#x, want 0", got)
	}
}

func TestGrayscale_PaddedSource(t *testing.T) {
	buf, _ := NewBufferWithStride(2, 2, FormatRGB24, 10)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			_ = buf.SetPixel(x, y, []byte{50, 50, 50})
		}
	}

	out, err := Apply(NewGrayscale(), buf)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := out.Pixel(x, y)[0]; got != 50 {
				t.Errorf("pixel (%d, %d) = %d, want 50", x, y, got)
			}
		}
	}
}
