package core

// Action represents a semantic game action, abstracted from physical key presses.
// Platforms map keys (terminal or desktop) onto actions; the loop driver only
// ever sees actions.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // Up arrow, ' - move up
	ActionDown           // Down arrow, / - move down
	ActionLeft           // Left arrow, z - move left
	ActionRight          // Right arrow, x - move right
	ActionRestart        // R - restart the current level
	ActionSave           // S - save position
	ActionLoad           // L - load saved position
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionQuit           // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRestart:
		return "Restart"
	case ActionSave:
		return "Save"
	case ActionLoad:
		return "Load"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered between two simulation ticks.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
	// last is the most recent movement action, so that one direction wins
	// when several arrows were pressed within a single tick.
	last Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
	if a.isMove() {
		f.last = a
	}
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Direction returns the single movement direction for this frame.
// The most recently pressed direction wins.
func (f InputFrame) Direction() Dir {
	switch f.last {
	case ActionUp:
		return DirUp
	case ActionDown:
		return DirDown
	case ActionLeft:
		return DirLeft
	case ActionRight:
		return DirRight
	default:
		return DirNone
	}
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.last = ActionNone
}

func (a Action) isMove() bool {
	return a == ActionUp || a == ActionDown || a == ActionLeft || a == ActionRight
}
