package gui

// Input is the interaction state fed into one frame. Targets are matched
// against widget ids first and widget labels second, so a caller can say
// "click the button labelled OK" without knowing the generated id.
type Input struct {
	Clicks  []string
	Hover   string
	Closes  []string
	Toggles []string
	Edits   map[string]string
}

func (in Input) has(list []string, id, label string) bool {
	for _, t := range list {
		if t == id || (label != "" && t == label) {
			return true
		}
	}
	return false
}

type areaMemory struct {
	collapsed bool
	seen      bool
}

// Context is the root of the immediate-mode library. It lives across
// frames; everything a frame draws is collected into a Frame.
type Context struct {
	frameNr uint64
	input   Input
	pending Input
	memory  map[string]*areaMemory
	frame   *Frame
	repaint bool
	cursor  CursorIcon
}

func NewContext() *Context {
	return &Context{memory: make(map[string]*areaMemory)}
}

// BeginFrame starts collecting a new frame, consuming queued input.
func (c *Context) BeginFrame() {
	c.input = c.pending
	c.pending = Input{}
	c.repaint = false
	c.cursor = CursorDefault
	c.frameNr++
	c.frame = &Frame{Number: c.frameNr}
}

// EndFrame finishes the current frame and returns what was drawn.
func (c *Context) EndFrame() *Frame {
	f := c.frame
	if f == nil {
		f = &Frame{Number: c.frameNr}
	}
	c.frame = nil
	return f
}

// FrameNr is the number of the current or last frame, starting at 1.
func (c *Context) FrameNr() uint64 { return c.frameNr }

// RequestRepaint marks that the caller wants another frame soon.
func (c *Context) RequestRepaint()        { c.repaint = true }
func (c *Context) RepaintRequested() bool { return c.repaint }

// Cursor is the cursor icon requested during the current frame.
func (c *Context) Cursor() CursorIcon { return c.cursor }

// QueueClick schedules a click on target for the next frame.
func (c *Context) QueueClick(target string) { c.pending.Clicks = append(c.pending.Clicks, target) }

// QueueClose schedules pressing the close button of a window.
func (c *Context) QueueClose(target string) { c.pending.Closes = append(c.pending.Closes, target) }

// QueueToggle schedules a collapse toggle of a window or collapsing header.
func (c *Context) QueueToggle(target string) { c.pending.Toggles = append(c.pending.Toggles, target) }

// QueueHover makes target hovered during the next frame.
func (c *Context) QueueHover(target string) { c.pending.Hover = target }

// QueueEdit replaces the text of a text edit during the next frame.
func (c *Context) QueueEdit(target, text string) {
	if c.pending.Edits == nil {
		c.pending.Edits = make(map[string]string)
	}
	c.pending.Edits[target] = text
}

func (c *Context) clicked(id, label string) bool { return c.input.has(c.input.Clicks, id, label) }
func (c *Context) closed(id, label string) bool  { return c.input.has(c.input.Closes, id, label) }
func (c *Context) toggled(id, label string) bool { return c.input.has(c.input.Toggles, id, label) }
func (c *Context) hovered(id, label string) bool {
	return c.input.Hover != "" && (c.input.Hover == id || c.input.Hover == label)
}

func (c *Context) edit(id, label string) (string, bool) {
	if t, ok := c.input.Edits[id]; ok {
		return t, true
	}
	t, ok := c.input.Edits[label]
	return t, ok
}

// collapsed resolves the persisted collapse state of an area or header.
func (c *Context) collapsed(id, label string, initial bool) bool {
	mem, ok := c.memory[id]
	if !ok {
		mem = &areaMemory{collapsed: initial}
		c.memory[id] = mem
	}
	mem.seen = true
	if c.toggled(id, label) {
		mem.collapsed = !mem.collapsed
	}
	return mem.collapsed
}

// InFrame reports whether a frame is being built.
func (c *Context) InFrame() bool { return c.frame != nil }

// addArea records a in the current frame. Outside a frame a is dropped and
// false is returned; queued input belongs to the next BeginFrame.
func (c *Context) addArea(a *Area) bool {
	if c.frame == nil {
		return false
	}
	c.frame.Areas = append(c.frame.Areas, a)
	return true
}

// AreaKind tells the renderer how to place an area.
type AreaKind int

const (
	AreaWindow AreaKind = iota
	AreaPanelTop
	AreaPanelBottom
	AreaTooltip
)

// Area is one top-level container drawn in a frame.
type Area struct {
	Kind       AreaKind
	ID         string
	Title      string
	Collapsed  bool
	Order      Order
	TitleAlign Align
	Width      int
	Root       *Element
}

// ElementKind identifies a widget in the element tree.
type ElementKind int

const (
	ElemLabel ElementKind = iota
	ElemHeading
	ElemButton
	ElemSeparator
	ElemSpace
	ElemTextEdit
	ElemCheckbox
	ElemGroup
	ElemCollapsing
	ElemMenu
)

// Element is one drawn widget. Groups hold children.
type Element struct {
	Kind       ElementKind
	ID         string
	Text       string
	Color      *Color32
	Strong     bool
	Italics    bool
	Horizontal bool
	Checked    bool
	Open       bool
	Hovered    bool
	Children   []*Element
}

// Frame is the output of one pass over the UI.
type Frame struct {
	Number uint64
	Areas  []*Area
}

// Interactive returns the ids of clickable elements in paint order.
func (f *Frame) Interactive() []string {
	var ids []string
	var walk func(*Element)
	walk = func(e *Element) {
		if e == nil {
			return
		}
		switch e.Kind {
		case ElemButton, ElemCheckbox, ElemCollapsing, ElemMenu:
			ids = append(ids, e.ID)
		}
		for _, ch := range e.Children {
			walk(ch)
		}
	}
	for _, a := range f.Areas {
		walk(a.Root)
	}
	return ids
}

// Texts returns every text in the frame in paint order.
func (f *Frame) Texts() []string {
	var out []string
	var walk func(*Element)
	walk = func(e *Element) {
		if e == nil {
			return
		}
		if e.Text != "" {
			out = append(out, e.Text)
		}
		for _, ch := range e.Children {
			walk(ch)
		}
	}
	for _, a := range f.Areas {
		walk(a.Root)
	}
	return out
}
