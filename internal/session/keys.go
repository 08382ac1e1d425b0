package session

type Key string

const (
	KeyDown   Key = "ArrowDown"
	KeyUp     Key = "ArrowUp"
	KeyEnter  Key = "Enter"
	KeyEscape Key = "Escape"
)

type Command int

const (
	CommandNone       Command = iota
	CommandSelect             // Select Suggestions[Highlight]
	CommandSearchText         // Search the raw input
)

// HandleKey applies keyboard navigation over the suggestion list. It is pure: the returned
// view is a modified copy and the command tells the caller what to run next.
func HandleKey(v View, key Key) (View, Command) {
	n := len(v.Suggestions)
	if n == 0 {
		return v, CommandNone
	}

	switch key {
	case KeyDown:
		v.Highlight = min(v.Highlight+1, n-1)
	case KeyUp:
		v.Highlight = max(v.Highlight-1, 0)
	case KeyEnter:
		if v.Highlight >= 0 && v.Highlight < n {
			return v, CommandSelect
		}
		return v, CommandSearchText
	case KeyEscape:
		v.Suggestions = nil
		v.Highlight = -1
		v.Phase = PhaseIdle
	}

	return v, CommandNone
}
