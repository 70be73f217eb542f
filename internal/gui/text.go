package gui

import "strings"

// RichText is text plus styling. Methods return modified copies.
type RichText struct {
	text    string
	color   *Color32
	strong  bool
	italics bool
	size    float64
}

func NewRichText(text string) RichText { return RichText{text: text} }

func (r RichText) Text() string { return r.text }

func (r RichText) Strong() RichText {
	r.strong = true
	return r
}

func (r RichText) Italics() RichText {
	r.italics = true
	return r
}

func (r RichText) Color(c Color32) RichText {
	r.color = &c
	return r
}

func (r RichText) Size(s float64) RichText {
	r.size = s
	return r
}

// Style reports the styling flags of r.
func (r RichText) Style() (color *Color32, strong, italics bool) {
	return r.color, r.strong, r.italics
}

// Galley is text that has already been laid out.
type Galley struct {
	Rows []string
}

// LayoutText wraps text at width columns (0 disables wrapping).
func LayoutText(text string, width int) *Galley {
	if width <= 0 {
		return &Galley{Rows: strings.Split(text, "\n")}
	}
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		for len(line) > width {
			rows = append(rows, line[:width])
			line = line[width:]
		}
		rows = append(rows, line)
	}
	return &Galley{Rows: rows}
}

func (g Galley) Text() string { return strings.Join(g.Rows, "\n") }

// Clone returns a copy that shares no rows with g.
func (g Galley) Clone() Galley {
	return Galley{Rows: append([]string(nil), g.Rows...)}
}

// WidgetText is anything a widget can display: plain, rich, or pre-shaped text.
type WidgetText struct {
	rich   RichText
	galley *Galley
}

func TextFromString(s string) WidgetText     { return WidgetText{rich: NewRichText(s)} }
func TextFromRich(r RichText) WidgetText     { return WidgetText{rich: r} }
func TextFromGalley(g *Galley) WidgetText    { return WidgetText{galley: g} }
func (w WidgetText) IsEmpty() bool           { return w.Text() == "" }
func (w WidgetText) Rich() (RichText, bool)  { return w.rich, w.galley == nil }
func (w WidgetText) Galley() (*Galley, bool) { return w.galley, w.galley != nil }

func (w WidgetText) Text() string {
	if w.galley != nil {
		return w.galley.Text()
	}
	return w.rich.text
}

// TextBuffer is editable text owned by the caller of a text edit widget.
type TextBuffer interface {
	Text() string
	SetText(string)
}

// BoolBuffer is a caller-owned boolean (checkbox state).
type BoolBuffer interface {
	Get() bool
	Set(bool)
}
