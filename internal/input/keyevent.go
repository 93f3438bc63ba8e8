package input

import "github.com/conbridge/conbridge/internal/keymap"

// Event is one synthetic key press/release delivered to the console input
// queue (§4.2 "Key emission").
type Event struct {
	Press      bool
	VirtualKey uint16
	Unicode    rune
	Modifiers  keymap.ModMask
}

// EmitKeyEvents expands one logical key with modifiers into the full
// press/release sequence of §4.2:
//
//	press Ctrl, Alt, Shift (each with the cumulative mask so far)
//	press the primary key with the full mask (character zeroed if both
//	  Ctrl and Alt are held)
//	release the primary key (character zeroed if Alt is held)
//	release Shift, then Alt, then Ctrl (each clearing its bit)
//
// The cumulative modifier mask returns to 0 by the end (§8 invariant).
func EmitKeyEvents(key keymap.Key) []Event {
	var events []Event
	var mask keymap.ModMask

	pressModifier := func(vk uint16, bit keymap.ModMask) {
		if key.Modifiers&bit == 0 {
			return
		}
		mask |= bit
		events = append(events, Event{Press: true, VirtualKey: vk, Modifiers: mask})
	}

	pressModifier(keymap.VKControl, keymap.ModCtrl)
	pressModifier(keymap.VKMenu, keymap.ModAlt)
	pressModifier(keymap.VKShift, keymap.ModShift)

	primaryChar := key.Unicode
	if key.Modifiers&keymap.ModCtrl != 0 && key.Modifiers&keymap.ModAlt != 0 {
		primaryChar = 0
	}
	events = append(events, Event{Press: true, VirtualKey: key.VirtualKey, Unicode: primaryChar, Modifiers: mask})

	releaseChar := key.Unicode
	if key.Modifiers&keymap.ModAlt != 0 {
		releaseChar = 0
	}
	events = append(events, Event{Press: false, VirtualKey: key.VirtualKey, Unicode: releaseChar, Modifiers: mask})

	releaseModifier := func(vk uint16, bit keymap.ModMask) {
		if key.Modifiers&bit == 0 {
			return
		}
		mask &^= bit
		events = append(events, Event{Press: false, VirtualKey: vk, Modifiers: mask})
	}

	releaseModifier(keymap.VKShift, keymap.ModShift)
	releaseModifier(keymap.VKMenu, keymap.ModAlt)
	releaseModifier(keymap.VKControl, keymap.ModCtrl)

	return events
}
