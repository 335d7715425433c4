package tui

import (
	"fmt"

	"github.com/jesseduffield/gocui"

	"github.com/Joseda-hg/eventflow/internal/form"
)

type formField struct {
	Label string
	Value *string
}

const (
	fieldTitle = iota
	fieldDescription
	fieldStart
	fieldEnd
	fieldColor
	fieldCount
)

type formEditor struct {
	ui *UI
}

// formFields points the popup rows at the fields of f. The color row has no
// text value and is rendered from f.Fields.Color.
func formFields(f *form.Form) []formField {
	return []formField{
		{Label: "Title", Value: &f.Fields.Title},
		{Label: "Description", Value: &f.Fields.Description},
		{Label: "Start (HH:MM)", Value: &f.Fields.StartTime},
		{Label: "End (HH:MM)", Value: &f.Fields.EndTime},
		{Label: "Color (space/←→)"},
	}
}

func (u *UI) renderForm(view *gocui.View) {
	if !u.form.IsOpen() || view == nil {
		return
	}
	view.Clear()
	fmt.Fprintf(view, "%s\n\n", u.form.Date().Long())

	fields := formFields(u.form)
	for index, field := range fields {
		prefix := "  "
		if index == u.formIndex {
			prefix = "> "
		}
		value := ""
		if field.Value != nil {
			value = *field.Value
		} else {
			value = string(u.form.Fields.Color)
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, value)
	}

	fmt.Fprintln(view)
	if u.form.Err != nil {
		fmt.Fprintf(view, "! %s\n", u.form.Err.Error())
	}
	help := "enter save | esc cancel"
	if _, editing := u.form.Editing(); editing {
		help += " | ctrl+d delete"
	}
	fmt.Fprint(view, help)

	current := fields[u.formIndex]
	cursorX := len([]rune(current.Label)) + 4
	if current.Value != nil {
		cursorX += len([]rune(*current.Value))
	}
	view.SetCursor(cursorX, u.formIndex+2)
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if !u.form.IsOpen() {
		return nil
	}
	if u.formIndex < fieldCount-1 {
		u.formIndex++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if !u.form.IsOpen() {
		return nil
	}
	if u.formIndex > 0 {
		u.formIndex--
	}
	u.renderForm(view)
	return nil
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || !ui.form.IsOpen() || view == nil {
		return false
	}
	ui.editField(key, ch, mod)
	ui.renderForm(view)
	return true
}

func (u *UI) editField(key gocui.Key, ch rune, mod gocui.Modifier) {
	if u.formIndex == fieldColor {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			u.form.CycleColor(1)
		case gocui.KeyArrowLeft:
			u.form.CycleColor(-1)
		}
		return
	}

	value := formFields(u.form)[u.formIndex].Value
	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(*value)
		if len(runes) > 0 {
			*value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		*value += " "
	case gocui.KeyCtrlU:
		*value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		*value += string(ch)
	}
}
