package gui

// Response is the result of adding a widget: what the user did with it this
// frame, plus where it ended up.
type Response struct {
	ID    string
	Rect  Rect
	Sense Sense

	label            string
	clicked          bool
	secondaryClicked bool
	doubleClicked    bool
	hovered          bool
	changed          bool
	dragDelta        Vec2
	hoverText        string

	ctx *Context
	el  *Element
}

func (r Response) Clicked() bool          { return r.clicked }
func (r Response) SecondaryClicked() bool { return r.secondaryClicked }
func (r Response) DoubleClicked() bool    { return r.doubleClicked }
func (r Response) Hovered() bool          { return r.hovered }
func (r Response) Changed() bool          { return r.changed }
func (r Response) DragDelta() Vec2        { return r.dragDelta }
func (r Response) HoverText() string      { return r.hoverText }
func (r Response) Context() *Context      { return r.ctx }

// MarkChanged flags the widget as changed. Used by widgets that edit
// caller-owned state.
func (r *Response) MarkChanged() { r.changed = true }

// Union combines two responses: the rect covers both, and any interaction on
// either counts.
func (r Response) Union(o Response) Response {
	out := r
	out.Rect = r.Rect.Union(o.Rect)
	out.Sense = r.Sense.Union(o.Sense)
	out.clicked = r.clicked || o.clicked
	out.secondaryClicked = r.secondaryClicked || o.secondaryClicked
	out.doubleClicked = r.doubleClicked || o.doubleClicked
	out.hovered = r.hovered || o.hovered
	out.changed = r.changed || o.changed
	out.dragDelta = r.dragDelta.Add(o.dragDelta)
	return out
}

// OnHoverText attaches a tooltip shown while the widget is hovered.
func (r Response) OnHoverText(text WidgetText) Response {
	r.hoverText = text.Text()
	if r.hovered && r.ctx != nil {
		r.ctx.addArea(&Area{
			Kind:  AreaTooltip,
			ID:    r.ID + "/tooltip",
			Order: OrderTooltip,
			Root:  &Element{Kind: ElemGroup, Children: []*Element{{Kind: ElemLabel, Text: r.hoverText}}},
		})
	}
	return r
}

// OnHoverUi runs add inside a tooltip area when the widget is hovered. It
// reports whether add was invoked.
func (r Response) OnHoverUi(add func(*Ui)) (Response, bool) {
	if !r.hovered || r.ctx == nil {
		return r, false
	}
	area := &Area{Kind: AreaTooltip, ID: r.ID + "/tooltip", Order: OrderTooltip, Root: &Element{Kind: ElemGroup}}
	if !r.ctx.addArea(area) {
		return r, false
	}
	add(newUi(r.ctx, area.Root, area.ID, defaultWidth))
	return r, true
}

// OnHoverCursor requests icon as the cursor while the widget is hovered.
func (r Response) OnHoverCursor(icon CursorIcon) Response {
	if r.hovered && r.ctx != nil && r.ctx.InFrame() {
		r.ctx.cursor = icon
	}
	return r
}

// Interact widens the sense of the response, re-checking input for the new
// interaction kinds.
func (r Response) Interact(sense Sense) Response {
	r.Sense = r.Sense.Union(sense)
	if r.ctx != nil && sense&SenseClick != 0 {
		r.clicked = r.clicked || r.ctx.clicked(r.ID, r.label)
	}
	return r
}
