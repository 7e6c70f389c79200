package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// cardColors is the rotation of foreground colors assigned to channel cards.
var cardColors = []lipgloss.Color{
	lipgloss.Color("12"), // bright blue
	lipgloss.Color("10"), // bright green
	lipgloss.Color("13"), // bright magenta
	lipgloss.Color("11"), // bright yellow
	lipgloss.Color("14"), // bright cyan
	lipgloss.Color("9"),  // bright red
	lipgloss.Color("15"), // bright white
}

// cardColor returns the color for the i-th channel card.
func cardColor(i int) lipgloss.Color {
	return cardColors[i%len(cardColors)]
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
