// dsr.go implements the Device-Status-Report round-trip that flushes
// ambiguous partial escape sequences (§4.2 "DSR synchronisation"),
// grounded on the non-blocking probe/parse pattern in the teacher's
// lr-margin detector (internal/harness/lrmargin.go's parseCPRColumn /
// matchCPR scanning style), adapted here into a stateful incremental
// matcher instead of a one-shot blocking probe.
package input

// dsrQuery is the query the translator sends downstream: ESC [ 6 n.
const dsrQuery = "\x1b[6n"

// matchDSRReply scans buf for a complete `ESC [ digits ; digits R`
// response starting at offset 0. It returns the number of bytes consumed
// on a full match, or (0, false) if no match is possible yet (either a
// dead end or a live partial prefix — the caller distinguishes those via
// isEof when it matters).
func matchDSRReply(buf []byte, isEof bool) (consumed int, matched bool, live bool) {
	if len(buf) == 0 {
		return 0, false, !isEof
	}
	if buf[0] != 0x1b {
		return 0, false, false
	}
	i := 1
	if i >= len(buf) {
		return 0, false, !isEof
	}
	if buf[i] != '[' {
		return 0, false, false
	}
	i++

	start := i
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		i++
	}
	if i == start {
		if i >= len(buf) {
			return 0, false, !isEof
		}
		return 0, false, false
	}
	if i >= len(buf) {
		return 0, false, !isEof
	}
	if buf[i] != ';' {
		return 0, false, false
	}
	i++

	start2 := i
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		i++
	}
	if i == start2 {
		if i >= len(buf) {
			return 0, false, !isEof
		}
		return 0, false, false
	}
	if i >= len(buf) {
		return 0, false, !isEof
	}
	if buf[i] != 'R' {
		return 0, false, false
	}

	return i + 1, true, false
}
