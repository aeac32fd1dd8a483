package imaging

import (
	"bytes"
	"testing"
)

func TestInvert(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		in     []byte
		want   []byte
	}{
		{"Gray8", FormatGray8, []byte{0, 100, 255}, []byte{255, 155, 0}},
		{"Gray16", FormatGray16, []byte{0x00, 0x10}, []byte{0xFF, 0xEF}},
		{"RGB24", FormatRGB24, []byte{10, 20, 30}, []byte{245, 235, 225}},
		{"RGBA32 keeps alpha", FormatRGBA32, []byte{10, 20, 30, 200}, []byte{245, 235, 225, 200}},
		{"RGB48", FormatRGB48,
			[]byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03},
			[]byte{0xFF, 0xFE, 0xFF, 0xFD, 0xFF, 0xFC}},
		{"RGBA64 keeps alpha", FormatRGBA64,
			[]byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 0x12, 0x34},
			[]byte{0xFF, 0xFE, 0xFF, 0xFD, 0xFF, 0xFC, 0x12, 0x34}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpp := tt.format.BytesPerPixel()
			width := len(tt.in) / bpp
			buf, err := FromRaw(bytes.Clone(tt.in), width, 1, tt.format, len(tt.in))
			if err != nil {
				t.Fatalf("FromRaw() error = %v", err)
			}

			if err := ApplyInPlace(Invert{}, buf); err != nil {
				t.Fatalf("ApplyInPlace() error = %v", err)
			}
			if !bytes.Equal(buf.Data(), tt.want) {
				t.Errorf("inverted = %v, want %v", buf.Data(), tt.want)
			}
		})
	}
}

func TestInvert_Involution(t *testing.T) {
	buf, _ := NewBufferWithStride(5, 5, FormatRGB24, 17)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			_ = buf.SetPixel(x, y, []byte{byte(x * 40), byte(y * 40), byte(x + y)})
		}
	}
	before := bytes.Clone(buf.Data())

	if err := ApplyInPlace(Invert{}, buf); err != nil {
		t.Fatalf("ApplyInPlace() error = %v", err)
	}
	if err := ApplyInPlace(Invert{}, buf); err != nil {
		t.Fatalf("ApplyInPlace() error = %v", err)
	}
	if !bytes.Equal(buf.Data(), before) {
		t.Error("double inversion is not the identity")
	}
}
