package input

// Kind identifies the type of an input event.
type Kind int

const (
	KindNone Kind = iota
	KindMouse
	KindQuit
)

// Button is the mouse button reported with an event.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
)

// Action is what the mouse did.
type Action int

const (
	ActionNone Action = iota
	ActionPress
	// ActionDrag is motion with a button held.
	ActionDrag
	// ActionMove is motion without a button.
	ActionMove
	ActionRelease
)

func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionDrag:
		return "drag"
	case ActionMove:
		return "move"
	case ActionRelease:
		return "release"
	default:
		return "none"
	}
}

// Event is one decoded input event. X and Y are 0-based terminal cells.
type Event struct {
	Kind   Kind
	X, Y   int
	Button Button
	Action Action
}

// Mouse builds a mouse event.
func Mouse(action Action, button Button, x, y int) Event {
	return Event{Kind: KindMouse, Action: action, Button: button, X: x, Y: y}
}
