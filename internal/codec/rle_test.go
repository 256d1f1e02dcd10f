package codec

import (
	"bytes"
	"testing"
)

// TestRLEMaskRoundTrip realizes Property P5: encoding then decoding a
// mask returns exactly the original bytes, for both uniform and mixed
// rows, including runs that cross the 128-length encoding boundary.
func TestRLEMaskRoundTrip(t *testing.T) {
	width, height := 300, 3
	mask := make([]byte, width*height)
	for i := range mask {
		switch {
		case i%width < 5:
			mask[i] = 0
		case i%width < 200:
			mask[i] = 1
		default:
			mask[i] = byte(i % 2)
		}
	}

	encoded, err := EncodeRLEMask(mask, width, height)
	if err != nil {
		t.Fatalf("EncodeRLEMask: %v", err)
	}
	decoded, err := DecodeRLEMask(encoded, width, height)
	if err != nil {
		t.Fatalf("DecodeRLEMask: %v", err)
	}
	if !bytes.Equal(decoded, mask) {
		t.Fatalf("round trip mismatch: got %v, want %v", decoded, mask)
	}
}

func TestRLEMaskAllOnesAndAllZeros(t *testing.T) {
	width, height := 10, 2
	ones := make([]byte, width*height)
	for i := range ones {
		ones[i] = 1
	}
	enc, err := EncodeRLEMask(ones, width, height)
	if err != nil {
		t.Fatalf("EncodeRLEMask(ones): %v", err)
	}
	dec, err := DecodeRLEMask(enc, width, height)
	if err != nil {
		t.Fatalf("DecodeRLEMask(ones): %v", err)
	}
	if !bytes.Equal(dec, ones) {
		t.Fatalf("all-ones round trip mismatch")
	}

	zeros := make([]byte, width*height)
	enc, err = EncodeRLEMask(zeros, width, height)
	if err != nil {
		t.Fatalf("EncodeRLEMask(zeros): %v", err)
	}
	dec, err = DecodeRLEMask(enc, width, height)
	if err != nil {
		t.Fatalf("DecodeRLEMask(zeros): %v", err)
	}
	if !bytes.Equal(dec, zeros) {
		t.Fatalf("all-zeros round trip mismatch")
	}
}

func TestDecodeRLEMaskRejectsTruncatedRow(t *testing.T) {
	// A single run claiming only 3 of 10 pixels on a 10-wide row.
	data := []byte{byte(int8(2))} // run of 3 ones
	if _, err := DecodeRLEMask(data, 10, 1); err == nil {
		t.Fatal("expected an error for a row that decodes short of width")
	}
}

func TestEncodeRLEMaskRejectsWrongSize(t *testing.T) {
	if _, err := EncodeRLEMask(make([]byte, 5), 3, 3); err == nil {
		t.Fatal("expected an error when mask length does not match width*height")
	}
}
