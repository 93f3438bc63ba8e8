package wire

import (
	"bytes"
	"testing"
)

func TestWriteFrame_ReadFrame_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"empty payload", nil},
		{"short payload", []byte{1, 2, 3, 4}},
		{"kind word only", []byte{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteFrame(&buf, tt.payload); err != nil {
				t.Fatalf("WriteFrame() error = %v", err)
			}

			got, err := ReadFrame(&buf)
			if err != nil {
				t.Fatalf("ReadFrame() error = %v", err)
			}

			if !bytes.Equal(got, tt.payload) {
				t.Errorf("ReadFrame() = %v, want %v", got, tt.payload)
			}
		})
	}
}

func TestWriteFrame_LengthPrefixIncludesItself(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{1, 2, 3, 4, 5, 6}
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}

	if buf.Len() != lengthPrefixSize+len(payload) {
		t.Fatalf("frame length = %d, want %d", buf.Len(), lengthPrefixSize+len(payload))
	}
}

func TestReadFrame_RejectsOversized(t *testing.T) {
	var buf bytes.Buffer
	lenBuf := make([]byte, 8)
	lenBuf[7] = 0xFF // absurdly large declared length
	buf.Write(lenBuf)

	if _, err := ReadFrame(&buf); err == nil {
		t.Fatal("ReadFrame() error = nil, want error for oversized frame")
	}
}

func TestReadFrame_RejectsShortPrefix(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{4, 0, 0, 0, 0, 0, 0, 0}) // total_len=4, smaller than the prefix itself

	if _, err := ReadFrame(&buf); err == nil {
		t.Fatal("ReadFrame() error = nil, want error for undersized total_len")
	}
}

func TestReadFrame_PropagatesShortRead(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{16, 0, 0, 0, 0, 0, 0, 0}) // declares 8 bytes of payload, provides none

	if _, err := ReadFrame(&buf); err == nil {
		t.Fatal("ReadFrame() error = nil, want error for truncated payload")
	}
}
