package input

import (
	"bytes"
	"unicode/utf8"
)

// maxSequence bounds how long an escape sequence may grow before it is dropped.
const maxSequence = 32

// Decoder turns raw terminal input into events. Escape sequences split across
// reads are held back until the rest arrives.
type Decoder struct {
	pending []byte
}

// Feed decodes as much of data, plus any held-back bytes, as possible.
// Handles SGR mouse reports, Q and Ctrl-C.
func (d *Decoder) Feed(data []byte) []Event {
	buf := append(d.pending, data...)
	d.pending = nil

	var events []Event
	i := 0
	for i < len(buf) {
		if buf[i] == 0x1b {
			n, ev, complete := parseEscape(buf[i:])
			if !complete {
				d.pending = append([]byte(nil), buf[i:]...)
				break
			}
			if ev.Kind != KindNone {
				events = append(events, ev)
			}
			i += n
			continue
		}

		// Single byte inputs
		r, size := utf8.DecodeRune(buf[i:])
		switch r {
		case 'q', 'Q':
			events = append(events, Event{Kind: KindQuit})
		case 3: // Ctrl-C
			events = append(events, Event{Kind: KindQuit})
		}
		i += size
	}
	return events
}

// parseEscape decodes one sequence at the start of data. complete is false
// when data ends before the sequence does.
func parseEscape(data []byte) (n int, ev Event, complete bool) {
	if len(data) < 2 {
		return 0, Event{}, false
	}
	switch data[1] {
	case '[':
	case 0x1b:
		// Lone escape: the next sequence starts right after it.
		return 1, Event{}, true
	case 'O':
		// SS3 key (application cursor or keypad mode).
		if len(data) < 3 {
			return 0, Event{}, false
		}
		return 3, Event{}, true
	default:
		// Alt-modified key: the key itself is not a plain keypress.
		return 2, Event{}, true
	}
	if len(data) < 3 {
		return 0, Event{}, false
	}
	if data[2] != '<' {
		return skipCSI(data)
	}

	// SGR mouse: ESC [ < Btn ; X ; Y M/m
	end := -1
	limit := min(len(data), maxSequence)
	for i := 3; i < limit; i++ {
		if data[i] == 0x1b {
			// Cut short by the next sequence.
			return i, Event{}, true
		}
		if data[i] == 'M' || data[i] == 'm' {
			end = i
			break
		}
	}
	if end < 0 {
		if len(data) >= maxSequence {
			return maxSequence, Event{}, true
		}
		return 0, Event{}, false
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return end + 1, Event{}, true
	}
	return end + 1, decodeSGRMouse(btn, x, y, data[end] == 'M'), true
}

// skipCSI consumes a non-mouse CSI sequence (arrow keys and the like).
func skipCSI(data []byte) (int, Event, bool) {
	for i := 2; i < len(data); i++ {
		if data[i] == 0x1b {
			return i, Event{}, true
		}
		if data[i] >= 0x40 && data[i] <= 0x7e {
			return i + 1, Event{}, true
		}
		if i >= maxSequence {
			return i, Event{}, true
		}
	}
	return 0, Event{}, false
}

func parseSGRParams(params []byte) (btn, x, y int, ok bool) {
	parts := bytes.Split(params, []byte{';'})
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	vals := [3]int{}
	for i, p := range parts {
		if len(p) == 0 {
			return 0, 0, 0, false
		}
		v := 0
		for _, c := range p {
			if c < '0' || c > '9' {
				return 0, 0, 0, false
			}
			v = v*10 + int(c-'0')
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], true
}

// decodeSGRMouse maps the SGR button byte to an event.
// Bits 0-1: button (0=left, 1=middle, 2=right, 3=none). Bit 5: motion. Bit 6: wheel.
func decodeSGRMouse(btn, x, y int, pressed bool) Event {
	ev := Mouse(ActionNone, ButtonNone, x-1, y-1)

	buttonID := btn & 0x03
	isMotion := btn&32 != 0
	isWheel := btn&64 != 0

	if isWheel {
		ev.Button = ButtonWheelDown
		if buttonID == 0 {
			ev.Button = ButtonWheelUp
		}
		ev.Action = ActionPress
		return ev
	}

	switch buttonID {
	case 0:
		ev.Button = ButtonLeft
	case 1:
		ev.Button = ButtonMiddle
	case 2:
		ev.Button = ButtonRight
	}

	switch {
	case !pressed:
		ev.Action = ActionRelease
	case isMotion && ev.Button != ButtonNone:
		ev.Action = ActionDrag
	case isMotion:
		ev.Action = ActionMove
	case ev.Button == ButtonNone:
		// Legacy release report (button 3) in SGR form.
		ev.Action = ActionRelease
	default:
		ev.Action = ActionPress
	}
	return ev
}
