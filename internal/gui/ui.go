package gui

import (
	"fmt"
	"strings"
)

const (
	defaultWidth = 40
	lineHeight   = 1
)

// Ui places widgets into one region of an area. A Ui is only valid while the
// closure that received it runs.
type Ui struct {
	ctx      *Context
	node     *Element
	prefix   string
	counters map[string]int
	width    float64
	cursor   Pos2
}

func newUi(ctx *Context, node *Element, prefix string, width float64) *Ui {
	return &Ui{
		ctx:      ctx,
		node:     node,
		prefix:   prefix,
		counters: make(map[string]int),
		width:    width,
	}
}

func (u *Ui) Context() *Context       { return u.ctx }
func (u *Ui) AvailableWidth() float64 { return u.width }

// nextID derives a stable id from the label and its occurrence count, so the
// same script produces the same ids every frame.
func (u *Ui) nextID(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		key = "_"
	}
	n := u.counters[key]
	u.counters[key]++
	id := u.prefix + "/" + key
	if n > 0 {
		id = fmt.Sprintf("%s#%d", id, n)
	}
	return id
}

func (u *Ui) add(el *Element, sense Sense, height float64) Response {
	u.node.Children = append(u.node.Children, el)
	rect := RectFromMinSize(u.cursor, Vec2{X: u.width, Y: height})
	u.cursor.Y += height
	resp := Response{
		ID:    el.ID,
		Rect:  rect,
		Sense: sense,
		label: el.Text,
		ctx:   u.ctx,
		el:    el,
	}
	resp.hovered = u.ctx.hovered(el.ID, el.Text)
	el.Hovered = resp.hovered
	if sense&SenseClick != 0 {
		resp.clicked = u.ctx.clicked(el.ID, el.Text)
	}
	return resp
}

func (u *Ui) text(kind ElementKind, text WidgetText, sense Sense) Response {
	el := &Element{Kind: kind, Text: text.Text()}
	if rich, ok := text.Rich(); ok {
		el.Color, el.Strong, el.Italics = rich.Style()
	}
	el.ID = u.nextID(el.Text)
	return u.add(el, sense, float64(strings.Count(el.Text, "\n")+1)*lineHeight)
}

func (u *Ui) Label(text WidgetText) Response { return u.text(ElemLabel, text, SenseHover) }

func (u *Ui) Heading(text WidgetText) Response {
	resp := u.text(ElemHeading, text, SenseHover)
	resp.el.Strong = true
	return resp
}

func (u *Ui) ColoredLabel(c Color32, text WidgetText) Response {
	resp := u.text(ElemLabel, text, SenseHover)
	resp.el.Color = &c
	return resp
}

func (u *Ui) Button(text WidgetText) Response { return u.text(ElemButton, text, SenseClick) }

func (u *Ui) SmallButton(text WidgetText) Response {
	resp := u.text(ElemButton, text, SenseClick)
	resp.el.Italics = true
	return resp
}

func (u *Ui) Separator() Response {
	return u.add(&Element{Kind: ElemSeparator, ID: u.nextID("---")}, SenseHover, lineHeight)
}

func (u *Ui) AddSpace(amount float64) {
	if amount <= 0 {
		return
	}
	u.node.Children = append(u.node.Children, &Element{Kind: ElemSpace, ID: u.nextID(" ")})
	u.cursor.Y += amount
}

// TextEditSingleline shows buf and applies any queued edit to it.
func (u *Ui) TextEditSingleline(buf TextBuffer) Response {
	el := &Element{Kind: ElemTextEdit, ID: u.nextID("text_edit")}
	resp := u.add(el, SenseClick|SenseFocusable, lineHeight)
	if t, ok := u.ctx.edit(el.ID, ""); ok && t != buf.Text() {
		buf.SetText(t)
		resp.MarkChanged()
	}
	el.Text = buf.Text()
	return resp
}

// Checkbox flips b when clicked.
func (u *Ui) Checkbox(b BoolBuffer, text WidgetText) Response {
	el := &Element{Kind: ElemCheckbox, Text: text.Text()}
	el.ID = u.nextID(el.Text)
	resp := u.add(el, SenseClick, lineHeight)
	if resp.clicked {
		b.Set(!b.Get())
		resp.MarkChanged()
	}
	el.Checked = b.Get()
	return resp
}

func (u *Ui) group(horizontal bool, add func(*Ui)) Response {
	el := &Element{Kind: ElemGroup, Horizontal: horizontal, ID: u.nextID("group")}
	child := newUi(u.ctx, el, el.ID, u.width)
	child.cursor = u.cursor
	add(child)
	height := child.cursor.Y - u.cursor.Y
	if horizontal && len(el.Children) > 0 {
		height = lineHeight
	}
	return u.add(el, SenseHover, height)
}

// Horizontal lays out the widgets added by add side by side.
func (u *Ui) Horizontal(add func(*Ui)) Response { return u.group(true, add) }

// Vertical lays out the widgets added by add top to bottom.
func (u *Ui) Vertical(add func(*Ui)) Response { return u.group(false, add) }

// Collapsing adds a header that toggles a body. add only runs while the body
// is open; the second result reports whether it ran.
func (u *Ui) Collapsing(heading WidgetText, add func(*Ui)) (Response, bool) {
	el := &Element{Kind: ElemCollapsing, Text: heading.Text()}
	el.ID = u.nextID(el.Text)
	resp := u.add(el, SenseClick, lineHeight)
	collapsed := u.ctx.collapsed(el.ID, el.Text, true)
	if resp.clicked {
		u.ctx.memory[el.ID].collapsed = !collapsed
		collapsed = !collapsed
	}
	el.Open = !collapsed
	if collapsed {
		return resp, false
	}
	body := newUi(u.ctx, el, el.ID, u.width-2)
	body.cursor = u.cursor
	add(body)
	u.cursor = body.cursor
	return resp, true
}

// MenuButton adds a button that opens a popup menu. The menu stays open
// until its button is clicked again.
func (u *Ui) MenuButton(text WidgetText, add func(*Ui)) (Response, bool) {
	el := &Element{Kind: ElemMenu, Text: text.Text()}
	el.ID = u.nextID(el.Text)
	resp := u.add(el, SenseClick, lineHeight)
	closed := u.ctx.collapsed(el.ID, el.Text, true)
	if resp.clicked {
		u.ctx.memory[el.ID].collapsed = !closed
		closed = !closed
	}
	el.Open = !closed
	if closed {
		return resp, false
	}
	body := newUi(u.ctx, el, el.ID, u.width)
	add(body)
	return resp, true
}
