package tui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/birchlabs/folio/pkg/input"
)

// keyEventFor translates a terminal key press into the dispatcher's key
// event model. Unmapped keys report ok=false and are ignored.
func keyEventFor(msg tea.KeyMsg) (input.KeyEvent, bool) {
	ev := input.KeyEvent{Alt: msg.Alt}

	switch msg.Type {
	case tea.KeyUp:
		ev.Code = input.KeyUp
	case tea.KeyDown:
		ev.Code = input.KeyDown
	case tea.KeyLeft:
		ev.Code = input.KeyLeft
	case tea.KeyRight:
		ev.Code = input.KeyRight
	case tea.KeyPgUp:
		ev.Code = input.KeyPageUp
	case tea.KeyPgDown:
		ev.Code = input.KeyPageDown
	case tea.KeyHome:
		ev.Code = input.KeyHome
	case tea.KeyEnd:
		ev.Code = input.KeyEnd
	case tea.KeyEnter:
		ev.Code = input.KeyEnter
	case tea.KeySpace:
		ev.Code = input.KeySpace
	case tea.KeyBackspace:
		ev.Code = input.KeyBackspace
	case tea.KeyEscape:
		ev.Code = input.KeyEscape

	case tea.KeyCtrlF:
		ev.Code = input.KeyF
		ev.Ctrl = true

	case tea.KeyCtrlG:
		ev.Code = input.KeyG
		ev.Ctrl = true

	case tea.KeyShiftUp:
		ev.Code = input.KeyUp
		ev.Shift = true

	case tea.KeyShiftDown:
		ev.Code = input.KeyDown
		ev.Shift = true

	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return input.KeyEvent{}, false
		}

		return runeEvent(msg.Runes[0], msg.Alt)

	default:
		return input.KeyEvent{}, false
	}

	return ev, true
}

func runeEvent(r rune, alt bool) (input.KeyEvent, bool) {
	ev := input.KeyEvent{Alt: alt}

	switch {
	case r == '+' || r == '=':
		ev.Code = input.KeyEqualsWK
		ev.Shift = r == '+'

	case r == '-' || r == '_':
		ev.Code = input.KeyMinusWK
		ev.Shift = r == '_'

	case r >= '0' && r <= '9':
		ev.Code = input.Key0 + int(r-'0')

	case unicode.IsLetter(r) && r < 128:
		// Keycodes for letters match their upper-case ASCII value.
		ev.Code = int(unicode.ToUpper(r))
		ev.Shift = unicode.IsUpper(r)

	default:
		return input.KeyEvent{}, false
	}

	return ev, true
}
