package keymap

// Virtual-key constants for the navigation/function keys the reference
// input map recognizes (standard Win32 VK_* values, carried here only as
// opaque identifiers — this bridge never talks to the Win32 API directly).
const (
	VKBack   uint16 = 0x08
	VKTab    uint16 = 0x09
	VKReturn uint16 = 0x0D
	VKEscape uint16 = 0x1B
	VKPrior  uint16 = 0x21 // Page Up
	VKNext   uint16 = 0x22 // Page Down
	VKEnd    uint16 = 0x23
	VKHome   uint16 = 0x24
	VKLeft   uint16 = 0x25
	VKUp     uint16 = 0x26
	VKRight  uint16 = 0x27
	VKDown   uint16 = 0x28
	VKInsert uint16 = 0x2D
	VKDelete uint16 = 0x2E

	VKF1  uint16 = 0x70
	VKF2  uint16 = 0x71
	VKF3  uint16 = 0x72
	VKF4  uint16 = 0x73
	VKF5  uint16 = 0x74
	VKF6  uint16 = 0x75
	VKF7  uint16 = 0x76
	VKF8  uint16 = 0x77
	VKF9  uint16 = 0x78
	VKF10 uint16 = 0x79
	VKF11 uint16 = 0x7A
	VKF12 uint16 = 0x7B

	VKControl uint16 = 0x11
	VKMenu    uint16 = 0x12 // Alt
	VKShift   uint16 = 0x10
)

// LayoutLookup resolves (virtual_key, base modifier bits) for a UTF-8
// derived character, standing in for the platform keyboard-layout query of
// §4.2. This layout only maps the printable ASCII range and control
// characters directly produced by a US layout; anything else falls through
// with ok=false so the caller emits virtual_key=0 with the raw code unit.
func LayoutLookup(r rune) (vk uint16, mods ModMask, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return uint16(r) - 'a' + 'A', 0, true
	case r >= 'A' && r <= 'Z':
		return uint16(r), ModShift, true
	case r >= '0' && r <= '9':
		return uint16(r), 0, true
	case r == '\r' || r == '\n':
		return VKReturn, 0, true
	case r == '\t':
		return VKTab, 0, true
	case r == 0x7F || r == 0x08:
		return VKBack, 0, true
	case r >= 1 && r <= 26:
		// Ctrl-A..Ctrl-Z map to the corresponding letter key with ModCtrl.
		return uint16(r) - 1 + 'A', ModCtrl, true
	default:
		return 0, 0, false
	}
}
