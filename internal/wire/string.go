package wire

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"
)

// appendUTF16String appends a u32 length-in-code-units prefix followed by
// the UTF-16LE code units of s (§6 "Strings are encoded as...").
func appendUTF16String(buf []byte, s string) []byte {
	units := utf16.Encode([]rune(s))

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(units)))
	buf = append(buf, lenBuf[:]...)

	for _, u := range units {
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], u)
		buf = append(buf, tmp[:]...)
	}

	return buf
}

// readUTF16String reads a length-prefixed UTF-16LE string, returning the
// decoded string and the remaining bytes.
func readUTF16String(b []byte) (string, []byte, error) {
	count, rest, err := readU32(b)
	if err != nil {
		return "", nil, err
	}

	byteLen := int(count) * 2
	if len(rest) < byteLen {
		return "", nil, fmt.Errorf("wire: UTF-16 string declares %d code units, only %d bytes remain", count, len(rest))
	}

	units := make([]uint16, count)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(rest[i*2 : i*2+2])
	}

	return string(utf16.Decode(units)), rest[byteLen:], nil
}

// EncodeEnvBlock serializes env as the double-NUL-terminated
// "key=value\0key=value\0\0" form (§4.4, §9): each entry is NUL-terminated,
// and one additional NUL is appended unconditionally after the last entry
// (DESIGN.md open-question resolution — an empty environment serializes to
// a single NUL, not zero bytes).
func EncodeEnvBlock(env []string) string {
	var b strings.Builder
	for _, kv := range env {
		b.WriteString(kv)
		b.WriteByte(0)
	}
	b.WriteByte(0)
	return b.String()
}

// DecodeEnvBlock parses a double-NUL-terminated environment block back into
// "key=value" entries.
func DecodeEnvBlock(block string) []string {
	if block == "" {
		return nil
	}

	parts := strings.Split(block, "\x00")
	env := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		env = append(env, p)
	}
	if len(env) == 0 {
		return nil
	}
	return env
}
