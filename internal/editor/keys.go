package editor

// KeyStroke is a normalized keyboard event from the host: the lowercase
// key plus the platform modifier (ctrl or cmd) and shift.
type KeyStroke struct {
	Key   string
	Mod   bool
	Shift bool
}

// HandleKey resolves the editing shortcuts:
//
//	mod+Z        undo
//	mod+shift+Z  redo
//	mod+Y        redo
//	mod+C        copy the selected block
//	mod+V        paste the clipboard
//	mod+D        duplicate the selected block
//
// It reports whether the stroke was consumed; unmatched or currently
// inapplicable strokes (copy without a selection, paste with an empty
// clipboard) are left to the host.
func (e *Editor) HandleKey(stroke KeyStroke) bool {
	if !stroke.Mod {
		return false
	}

	switch stroke.Key {
	case "z":
		if stroke.Shift {
			if !e.CanRedo() {
				return false
			}

			e.Redo()

			return true
		}

		if !e.CanUndo() {
			return false
		}

		e.Undo()

		return true

	case "y":
		if !e.CanRedo() {
			return false
		}

		e.Redo()

		return true

	case "c":
		if !e.Selection().HasNode() {
			return false
		}

		return e.Copy() == nil

	case "v":
		if e.clipboard == nil {
			return false
		}

		return e.Paste() == nil

	case "d":
		if !e.Selection().HasNode() {
			return false
		}

		return e.Duplicate() == nil

	default:
		return false
	}
}
