package imaging

import (
	"bytes"
	"testing"
)

func TestStripDataURLPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"data:image/png;base64,AAAA", "AAAA"},
		{"data:image/webp;base64,QUJD", "QUJD"},
		{"AAAA", "AAAA"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripDataURLPrefix(tt.in); got != tt.want {
			t.Errorf("StripDataURLPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeBase64Image(t *testing.T) {
	// format is not inspected; any well-formed base64 decodes to its bytes
	data, err := DecodeBase64Image("AAAA")
	if err != nil {
		t.Fatalf("DecodeBase64Image(AAAA) failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0, 0, 0}) {
		t.Errorf("decoded = %v, want three zero bytes", data)
	}

	// data-URL prefixed input decodes to the same bytes
	prefixed, err := DecodeBase64Image("data:image/webp;base64,AAAA")
	if err != nil {
		t.Fatalf("prefixed decode failed: %v", err)
	}
	if !bytes.Equal(prefixed, data) {
		t.Error("prefixed and raw inputs should decode identically")
	}

	if _, err := DecodeBase64Image("not-base64!!!"); err == nil {
		t.Error("malformed base64 should be rejected")
	}
}

func TestEncodeBase64RoundTrip(t *testing.T) {
	in := []byte{0xde, 0xad, 0xbe, 0xef}
	out, err := DecodeBase64Image(EncodeBase64(in))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(in, out) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}
