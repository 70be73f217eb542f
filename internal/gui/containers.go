package gui

// Window is the configuration of a floating window. Setters return a modified
// copy, so a Window value can be shared freely.
type Window struct {
	title        string
	id           string
	open         bool
	collapsed    bool
	collapsedSet bool
	resizable    bool
	titleBar     bool
	defaultSize  Vec2
	order        Order
	titleAlign   Align
}

func NewWindow(title string) Window {
	return Window{
		title:       title,
		open:        true,
		resizable:   true,
		titleBar:    true,
		defaultSize: Vec2{X: defaultWidth, Y: 10},
		order:       OrderMiddle,
	}
}

func (w Window) Title() string { return w.title }

// Key is the memory key of the window: its explicit id, or its title.
func (w Window) Key() string {
	if w.id != "" {
		return w.id
	}
	return w.title
}

func (w Window) IsOpen() bool      { return w.open }
func (w Window) IsResizable() bool { return w.resizable }
func (w Window) HasTitleBar() bool { return w.titleBar }
func (w Window) Size() Vec2        { return w.defaultSize }
func (w Window) Layer() Order      { return w.order }

func (w Window) ID(id string) Window {
	w.id = id
	return w
}

func (w Window) Open(open bool) Window {
	w.open = open
	return w
}

// Collapsed forces the collapse state. Without it the state is remembered
// across frames and toggled by input.
func (w Window) Collapsed(collapsed bool) Window {
	w.collapsed = collapsed
	w.collapsedSet = true
	return w
}

func (w Window) Resizable(r bool) Window {
	w.resizable = r
	return w
}

func (w Window) TitleBar(b bool) Window {
	w.titleBar = b
	return w
}

func (w Window) DefaultSize(size Vec2) Window {
	w.defaultSize = size
	return w
}

func (w Window) Order(o Order) Window {
	w.order = o
	return w
}

// TitleAlign places the title within the title bar.
func (w Window) TitleAlign(a Align) Window {
	w.titleAlign = a
	return w
}

// WindowResult is what showing a window produced.
type WindowResult struct {
	// Open is false when the window was closed before or during this frame.
	Open bool
	// BodyShown reports whether the body closure ran.
	BodyShown bool
	// Response covers the title bar and the body. Nil when not drawn.
	Response *Response
}

// Show draws the window. add runs only when the window is open and expanded.
func (w Window) Show(ctx *Context, add func(*Ui)) WindowResult {
	if !w.open {
		return WindowResult{}
	}
	key := w.Key()
	if ctx.closed(key, w.title) {
		return WindowResult{}
	}
	collapsed := ctx.collapsed(key, w.title, false)
	if w.collapsedSet {
		collapsed = w.collapsed
	}

	width := w.defaultSize.X
	if width <= 0 {
		width = defaultWidth
	}
	area := &Area{
		Kind:       AreaWindow,
		ID:         key,
		Title:      w.title,
		Collapsed:  collapsed,
		Order:      w.order,
		TitleAlign: w.titleAlign,
		Width:      int(width),
		Root:       &Element{Kind: ElemGroup, ID: key},
	}
	ctx.addArea(area)

	bar := Response{
		ID:      key,
		Rect:    RectFromMinSize(Pos2{}, Vec2{X: width, Y: lineHeight}),
		Sense:   SenseClick,
		label:   w.title,
		clicked: ctx.clicked(key, w.title),
		hovered: ctx.hovered(key, w.title),
		ctx:     ctx,
		el:      area.Root,
	}
	if collapsed {
		return WindowResult{Open: true, Response: &bar}
	}

	ui := newUi(ctx, area.Root, key, width)
	ui.cursor = Pos2{Y: lineHeight}
	add(ui)
	body := Response{ID: key, Rect: RectFromMinSize(Pos2{}, Vec2{X: width, Y: ui.cursor.Y}), ctx: ctx}
	resp := bar.Union(body)
	return WindowResult{Open: true, BodyShown: true, Response: &resp}
}

// PanelSide says which edge a TopBottomPanel is attached to.
type PanelSide int

const (
	PanelTop PanelSide = iota
	PanelBottom
)

// TopBottomPanel is a full-width bar at the top or bottom of the screen.
type TopBottomPanel struct {
	id          string
	side        PanelSide
	resizable   bool
	exactHeight float64
}

func TopPanel(id string) TopBottomPanel    { return TopBottomPanel{id: id, side: PanelTop} }
func BottomPanel(id string) TopBottomPanel { return TopBottomPanel{id: id, side: PanelBottom} }

func (p TopBottomPanel) Key() string       { return p.id }
func (p TopBottomPanel) Side() PanelSide   { return p.side }
func (p TopBottomPanel) IsResizable() bool { return p.resizable }
func (p TopBottomPanel) Height() float64   { return p.exactHeight }

func (p TopBottomPanel) Resizable(r bool) TopBottomPanel {
	p.resizable = r
	return p
}

func (p TopBottomPanel) ExactHeight(h float64) TopBottomPanel {
	p.exactHeight = h
	return p
}

// Show draws the panel. Panels cannot be closed, so add always runs.
func (p TopBottomPanel) Show(ctx *Context, add func(*Ui)) Response {
	kind := AreaPanelTop
	if p.side == PanelBottom {
		kind = AreaPanelBottom
	}
	area := &Area{Kind: kind, ID: p.id, Order: OrderBackground, Width: defaultWidth * 2, Root: &Element{Kind: ElemGroup, ID: p.id}}
	ctx.addArea(area)
	ui := newUi(ctx, area.Root, p.id, float64(area.Width))
	add(ui)
	height := ui.cursor.Y
	if p.exactHeight > 0 {
		height = p.exactHeight
	}
	return Response{
		ID:      p.id,
		Rect:    RectFromMinSize(Pos2{}, Vec2{X: float64(area.Width), Y: height}),
		Sense:   SenseHover,
		hovered: ctx.hovered(p.id, ""),
		ctx:     ctx,
		el:      area.Root,
	}
}
