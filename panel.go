package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/meterdesk/internal/billing"
)

// ---------------------------------------------------------------------------
// Product editor panel
// ---------------------------------------------------------------------------

const (
	editorFieldName = 0
	editorFieldDesc = 1
	editorFields    = 2
)

// productEditor is the form inside the edit panel. A zero targetID means
// the panel is creating a new product in the selected family.
type productEditor struct {
	name             textinput.Model
	desc             textinput.Model
	focus            int
	targetID         string
	familyExternalID string
	editing          bool
}

func newProductEditor(p billing.Product, familyExternalID string, editing bool) productEditor {
	name := textinput.New()
	name.Placeholder = "Product name"
	name.CharLimit = 120
	name.Width = 40
	name.SetValue(p.Name)
	name.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 240
	desc.Width = 40
	desc.SetValue(p.Description)

	return productEditor{
		name:             name,
		desc:             desc,
		targetID:         p.ID,
		familyExternalID: familyExternalID,
		editing:          editing,
	}
}

func (e productEditor) valid() bool {
	return strings.TrimSpace(e.name.Value()) != ""
}

func (e productEditor) update(msg tea.KeyMsg) (productEditor, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		e = e.setFocus((e.focus + 1) % editorFields)
		return e, nil
	case "shift+tab", "up":
		e = e.setFocus((e.focus - 1 + editorFields) % editorFields)
		return e, nil
	}

	var cmd tea.Cmd
	switch e.focus {
	case editorFieldName:
		e.name, cmd = e.name.Update(msg)
	case editorFieldDesc:
		e.desc, cmd = e.desc.Update(msg)
	}
	return e, cmd
}

func (e productEditor) setFocus(field int) productEditor {
	e.focus = field
	e.name.Blur()
	e.desc.Blur()
	switch field {
	case editorFieldName:
		e.name.Focus()
	case editorFieldDesc:
		e.desc.Focus()
	}
	return e
}

func (e productEditor) view(saving bool) string {
	title := "New Product"
	if e.editing {
		title = "Edit Product"
	}
	label := lipgloss.NewStyle().Foreground(colorSubtext0)
	lines := []string{
		titleStyle.Render(title),
		"",
		label.Render("Name"),
		e.name.View(),
		"",
		label.Render("Description"),
		e.desc.View(),
		"",
	}
	switch {
	case saving:
		lines = append(lines, statusStyle.Render("Saving…"))
	case !e.valid():
		lines = append(lines, lipgloss.NewStyle().Foreground(colorWarning).Render("Name is required"))
	default:
		lines = append(lines, statusStyle.Render("enter save · esc cancel"))
	}
	return strings.Join(lines, "\n")
}
