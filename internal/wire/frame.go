// Package wire implements the control-pipe framing codec: a length-prefixed
// packet whose first payload word names the message kind, plus the
// UTF-16LE string and environment-block encodings used by its payloads.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// lengthPrefixSize is the byte size of the u64 LE total-length field, which
// counts itself as part of total_len (§6).
const lengthPrefixSize = 8

// MaxFrameSize bounds a single control-pipe packet to guard against a
// corrupt or hostile length prefix forcing an unbounded allocation.
const MaxFrameSize = 1 << 20

// ReadFrame reads one length-prefixed control-pipe packet and returns its
// payload (kind word plus any per-kind fields), with the 8-byte length
// prefix stripped.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}

	total := binary.LittleEndian.Uint64(lenBuf[:])
	if total < lengthPrefixSize {
		return nil, fmt.Errorf("wire: frame length %d smaller than prefix", total)
	}
	if total > MaxFrameSize {
		return nil, fmt.Errorf("wire: frame length %d exceeds maximum %d", total, MaxFrameSize)
	}

	payload := make([]byte, total-lengthPrefixSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	return payload, nil
}

// WriteFrame writes payload as one length-prefixed control-pipe packet.
func WriteFrame(w io.Writer, payload []byte) error {
	total := uint64(lengthPrefixSize + len(payload))

	var lenBuf [lengthPrefixSize]byte
	binary.LittleEndian.PutUint64(lenBuf[:], total)

	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}

	return nil
}
