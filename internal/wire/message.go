package wire

import (
	"encoding/binary"
	"fmt"
)

// PingMessage carries no fields.
type PingMessage struct{}

// StartProcessMessage requests that the agent spawn a child program (§6).
type StartProcessMessage struct {
	App     string
	Cmdline string
	Cwd     string
	Env     []string // key=value pairs, marshalled as a double-NUL block
	Desktop string
}

// SetSizeMessage requests a console buffer/window resize.
type SetSizeMessage struct {
	Cols uint32
	Rows uint32
}

// GetExitCodeMessage carries no fields.
type GetExitCodeMessage struct{}

// GetProcessIdMessage carries no fields.
type GetProcessIdMessage struct{}

// SetConsoleModeMessage requests a console input-mode change.
type SetConsoleModeMessage struct {
	Mode uint32
}

// EncodeRequest builds the frame payload (kind word + fields) for a request.
func EncodeRequest(kind MessageKind, msg any) ([]byte, error) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(kind))

	switch kind {
	case Ping:
		return buf, nil

	case StartProcess:
		m, ok := msg.(StartProcessMessage)
		if !ok {
			return nil, fmt.Errorf("wire: StartProcess expects StartProcessMessage, got %T", msg)
		}
		buf = appendUTF16String(buf, m.App)
		buf = appendUTF16String(buf, m.Cmdline)
		buf = appendUTF16String(buf, m.Cwd)
		buf = appendUTF16String(buf, EncodeEnvBlock(m.Env))
		buf = appendUTF16String(buf, m.Desktop)
		return buf, nil

	case SetSize:
		m, ok := msg.(SetSizeMessage)
		if !ok {
			return nil, fmt.Errorf("wire: SetSize expects SetSizeMessage, got %T", msg)
		}
		buf = appendU32(buf, m.Cols)
		buf = appendU32(buf, m.Rows)
		return buf, nil

	case GetExitCode, GetProcessId:
		return buf, nil

	case SetConsoleMode:
		m, ok := msg.(SetConsoleModeMessage)
		if !ok {
			return nil, fmt.Errorf("wire: SetConsoleMode expects SetConsoleModeMessage, got %T", msg)
		}
		buf = appendU32(buf, m.Mode)
		return buf, nil

	default:
		return nil, fmt.Errorf("wire: unknown message kind %d", kind)
	}
}

// DecodeRequest parses a frame payload into its kind and typed message.
func DecodeRequest(payload []byte) (MessageKind, any, error) {
	if len(payload) < 4 {
		return 0, nil, fmt.Errorf("wire: payload too short for kind word: %d bytes", len(payload))
	}

	kind := MessageKind(binary.LittleEndian.Uint32(payload))
	body := payload[4:]

	switch kind {
	case Ping:
		return kind, PingMessage{}, nil

	case StartProcess:
		app, rest, err := readUTF16String(body)
		if err != nil {
			return kind, nil, err
		}
		cmdline, rest, err := readUTF16String(rest)
		if err != nil {
			return kind, nil, err
		}
		cwd, rest, err := readUTF16String(rest)
		if err != nil {
			return kind, nil, err
		}
		envBlock, rest, err := readUTF16String(rest)
		if err != nil {
			return kind, nil, err
		}
		desktop, _, err := readUTF16String(rest)
		if err != nil {
			return kind, nil, err
		}
		return kind, StartProcessMessage{
			App:     app,
			Cmdline: cmdline,
			Cwd:     cwd,
			Env:     DecodeEnvBlock(envBlock),
			Desktop: desktop,
		}, nil

	case SetSize:
		cols, rest, err := readU32(body)
		if err != nil {
			return kind, nil, err
		}
		rows, _, err := readU32(rest)
		if err != nil {
			return kind, nil, err
		}
		return kind, SetSizeMessage{Cols: cols, Rows: rows}, nil

	case GetExitCode:
		return kind, GetExitCodeMessage{}, nil

	case GetProcessId:
		return kind, GetProcessIdMessage{}, nil

	case SetConsoleMode:
		mode, _, err := readU32(body)
		if err != nil {
			return kind, nil, err
		}
		return kind, SetConsoleModeMessage{Mode: mode}, nil

	default:
		return kind, nil, fmt.Errorf("wire: unknown message kind %d", kind)
	}
}

// EncodeStatusReply builds a bare u32 status reply payload.
func EncodeStatusReply(status uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, status)
	return buf
}

// DecodeStatusReply parses a bare u32 status/code/pid reply payload.
func DecodeStatusReply(payload []byte) (uint32, error) {
	if len(payload) < 4 {
		return 0, fmt.Errorf("wire: reply payload too short: %d bytes", len(payload))
	}
	return binary.LittleEndian.Uint32(payload), nil
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func readU32(b []byte) (uint32, []byte, error) {
	if len(b) < 4 {
		return 0, nil, fmt.Errorf("wire: expected 4 bytes for u32, got %d", len(b))
	}
	return binary.LittleEndian.Uint32(b), b[4:], nil
}
