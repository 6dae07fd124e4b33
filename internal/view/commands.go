package view

import (
	"errors"
	"fmt"

	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/renderer/backend"
)

type command struct {
	run func(v *View, ev backend.Event) error

	// vertical commands keep the goal column.
	vertical bool
}

var commands = map[string]command{
	"cursor.left":       {run: cursorLeft},
	"cursor.right":      {run: cursorRight},
	"cursor.up":         {run: cursorUp, vertical: true},
	"cursor.down":       {run: cursorDown, vertical: true},
	"cursor.page-up":    {run: pageUp, vertical: true},
	"cursor.page-down":  {run: pageDown, vertical: true},
	"cursor.line-start": {run: lineStart},
	"cursor.line-end":   {run: lineEnd},
	"insert":            {run: insertRune},
	"insert.newline":    {run: insertNewline},
	"insert.tab":        {run: insertTab},
	"delete.backward":   {run: deleteBackward},
	"delete.forward":    {run: deleteForward},
	"undo":              {run: undo},
	"redo":              {run: redo},
	"reveal.at-point":   {run: revealAtPoint},
	"reveal.stop":       {run: revealStop},
	"reveal.toggle":     {run: revealToggle},
	"save":              {run: save},
	"quit":              {run: quit},
}

var keyBindings = map[backend.Key]string{
	backend.KeyLeft:      "cursor.left",
	backend.KeyRight:     "cursor.right",
	backend.KeyUp:        "cursor.up",
	backend.KeyDown:      "cursor.down",
	backend.KeyPageUp:    "cursor.page-up",
	backend.KeyPageDown:  "cursor.page-down",
	backend.KeyHome:      "cursor.line-start",
	backend.KeyEnd:       "cursor.line-end",
	backend.KeyRune:      "insert",
	backend.KeyEnter:     "insert.newline",
	backend.KeyTab:       "insert.tab",
	backend.KeyBackspace: "delete.backward",
	backend.KeyDelete:    "delete.forward",
	backend.KeyCtrlZ:     "undo",
	backend.KeyCtrlY:     "redo",
	backend.KeyCtrlR:     "reveal.at-point",
	backend.KeyEscape:    "reveal.stop",
	backend.KeyCtrlG:     "reveal.stop",
	backend.KeyCtrlT:     "reveal.toggle",
	backend.KeyCtrlS:     "save",
	backend.KeyCtrlQ:     "quit",
	backend.KeyCtrlC:     "quit",
}

// bindingFor returns the command bound to a key event.
func bindingFor(ev backend.Event) (string, bool) {
	if ev.Key == backend.KeyRune && ev.Mod.Has(backend.ModAlt) {
		return "", false
	}
	name, ok := keyBindings[ev.Key]
	return name, ok
}

// Commands returns the names of all commands.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	return names
}

func cursorLeft(v *View, _ backend.Event) error {
	if v.point > 0 {
		v.point--
	}
	return nil
}

func cursorRight(v *View, _ backend.Event) error {
	if v.point < v.doc.Len() {
		v.point++
	}
	return nil
}

func cursorUp(v *View, _ backend.Event) error {
	v.moveLines(-1)
	return nil
}

func cursorDown(v *View, _ backend.Event) error {
	v.moveLines(1)
	return nil
}

func pageUp(v *View, _ backend.Event) error {
	v.moveLines(-v.vp.height)
	return nil
}

func pageDown(v *View, _ backend.Event) error {
	v.moveLines(v.vp.height)
	return nil
}

func lineStart(v *View, _ backend.Event) error {
	v.point = v.doc.LineStart(v.point)
	return nil
}

func lineEnd(v *View, _ backend.Event) error {
	v.point = v.doc.LineEnd(v.point)
	return nil
}

// moveLines moves the cursor n lines, keeping the column it had before the
// first of a run of vertical moves.
func (v *View) moveLines(n int) {
	line, col := v.doc.Position(v.point)
	if v.goalCol < 0 {
		v.goalCol = col
	}
	target := min(max(line+n, 0), v.doc.LineCount()-1)
	v.point = v.doc.Offset(target, v.goalCol)
}

func insertRune(v *View, ev backend.Event) error {
	if ev.Rune == 0 {
		return nil
	}
	return v.insert(string(ev.Rune))
}

func insertNewline(v *View, _ backend.Event) error {
	return v.insert("\n")
}

func insertTab(v *View, _ backend.Event) error {
	return v.insert("\t")
}

func (v *View) insert(s string) error {
	if err := v.doc.Insert(v.point, s); err != nil {
		return err
	}
	v.point += len([]rune(s))
	return nil
}

func deleteBackward(v *View, _ backend.Event) error {
	if v.point == 0 {
		return nil
	}
	if err := v.doc.Delete(v.point-1, v.point); err != nil {
		return err
	}
	v.point--
	return nil
}

func deleteForward(v *View, _ backend.Event) error {
	if v.point >= v.doc.Len() {
		return nil
	}
	return v.doc.Delete(v.point, v.point+1)
}

func undo(v *View, _ backend.Event) error {
	edit, err := v.doc.Undo()
	if errors.Is(err, document.ErrNothingToUndo) {
		v.status.SetMessage("Already at oldest change", MessageInfo)
		return nil
	}
	if err != nil {
		return err
	}
	v.point = edit.Pos + edit.InsertedLen()
	return nil
}

func redo(v *View, _ backend.Event) error {
	edit, err := v.doc.Redo()
	if errors.Is(err, document.ErrNothingToRedo) {
		v.status.SetMessage("Already at newest change", MessageInfo)
		return nil
	}
	if err != nil {
		return err
	}
	v.point = edit.Pos + edit.InsertedLen()
	return nil
}

func revealAtPoint(v *View, _ backend.Event) error {
	if v.session == nil {
		return ErrNoSession
	}
	if !v.session.Enabled() {
		v.status.SetMessage("Reveal is off", MessageInfo)
		return nil
	}
	if !v.session.RevealAtPoint(v.point) {
		v.status.SetMessage("Nothing to reveal", MessageInfo)
	}
	return nil
}

func revealStop(v *View, _ backend.Event) error {
	if v.session != nil {
		v.session.Stop()
	}
	return nil
}

func revealToggle(v *View, _ backend.Event) error {
	if v.session == nil {
		return ErrNoSession
	}
	if v.session.Enabled() {
		v.session.Disable()
		v.status.SetMessage("Reveal off", MessageInfo)
		return nil
	}
	if err := v.session.Enable(); err != nil {
		return err
	}
	v.status.SetMessage("Reveal on", MessageInfo)
	return nil
}

func save(v *View, _ backend.Event) error {
	if v.save == nil {
		return ErrNoSaver
	}
	if err := v.save(v.doc.Text()); err != nil {
		return fmt.Errorf("save %s: %w", v.doc.Name(), err)
	}
	v.savedRev = v.doc.Revision()
	v.status.SetMessage(fmt.Sprintf("Wrote %s", v.doc.Name()), MessageInfo)
	return nil
}

func quit(*View, backend.Event) error {
	return ErrQuit
}
