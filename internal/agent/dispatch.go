package agent

import (
	"fmt"

	"github.com/conbridge/conbridge/internal/wire"
)

// stillActive is the reference STILL_ACTIVE sentinel (0x103 / 259): the
// exit-code value a running process reports until it actually exits.
const stillActive = 0x103

// enableProcessedInput is the reference ENABLE_PROCESSED_INPUT console
// mode bit (0x0001): when set, Ctrl-C raises a console event instead of
// being delivered as a key (§4.2 rule 1).
const enableProcessedInput = 0x0001

// HandleControl implements transport.ControlHandler, dispatching one
// decoded control-pipe request per §4.3's "one handler per message kind"
// and §6's reply schemas. It takes State's mutex for the duration, so it
// interleaves safely with Run's poll/output/input handling.
func (s *State) HandleControl(kind wire.MessageKind, msg any) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case wire.Ping:
		return wire.EncodeStatusReply(wire.StatusOK), nil

	case wire.StartProcess:
		m, ok := msg.(wire.StartProcessMessage)
		if !ok {
			return nil, fmt.Errorf("agent: StartProcess: unexpected message type %T", msg)
		}
		if err := s.Process.Start(m.App, m.Cmdline, m.Cwd, m.Env, s.cols, s.rows); err != nil {
			return wire.EncodeStatusReply(wire.StatusFail), nil
		}
		return wire.EncodeStatusReply(wire.StatusOK), nil

	case wire.SetSize:
		m, ok := msg.(wire.SetSizeMessage)
		if !ok {
			return nil, fmt.Errorf("agent: SetSize: unexpected message type %T", msg)
		}
		if err := s.Scraper.Resize(int(m.Cols), int(m.Rows)); err != nil {
			return wire.EncodeStatusReply(wire.StatusFail), nil
		}
		if err := s.Process.SetSize(int(m.Cols), int(m.Rows)); err != nil {
			return wire.EncodeStatusReply(wire.StatusFail), nil
		}
		s.cols, s.rows = int(m.Cols), int(m.Rows)
		return wire.EncodeStatusReply(wire.StatusOK), nil

	case wire.GetExitCode:
		code, exited := s.Process.ExitCode()
		if !exited {
			return wire.EncodeStatusReply(stillActive), nil
		}
		return wire.EncodeStatusReply(uint32(code)), nil

	case wire.GetProcessId:
		return wire.EncodeStatusReply(uint32(s.Process.Pid())), nil

	case wire.SetConsoleMode:
		m, ok := msg.(wire.SetConsoleModeMessage)
		if !ok {
			return nil, fmt.Errorf("agent: SetConsoleMode: unexpected message type %T", msg)
		}
		s.Translator.ProcessedInputMode = m.Mode&enableProcessedInput != 0
		return wire.EncodeStatusReply(wire.StatusOK), nil

	default:
		return nil, fmt.Errorf("agent: unhandled message kind %v", kind)
	}
}
