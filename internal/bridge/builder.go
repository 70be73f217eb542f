package bridge

import (
	"fmt"

	"github.com/vk/scriptui/internal/gui"
)

// State is the lifecycle state of a Builder.
type State int

const (
	Configuring State = iota
	Shown
)

func (s State) String() string {
	if s == Shown {
		return "shown"
	}
	return "configuring"
}

// Outcome is what showing a container produced.
type Outcome struct {
	Open      bool
	BodyShown bool
	Response  *gui.Response
}

// Showable is an immutable container configuration.
type Showable interface {
	Kind() string
	Show(ctx *gui.Context, add func(*gui.Ui)) Outcome
}

// WindowConfig is the Showable of a floating window.
type WindowConfig struct{ gui.Window }

func (WindowConfig) Kind() string { return "window" }

func (w WindowConfig) Show(ctx *gui.Context, add func(*gui.Ui)) Outcome {
	res := w.Window.Show(ctx, add)
	return Outcome{Open: res.Open, BodyShown: res.BodyShown, Response: res.Response}
}

// PanelConfig is the Showable of a top or bottom panel.
type PanelConfig struct{ gui.TopBottomPanel }

func (PanelConfig) Kind() string { return "top_bottom_panel" }

func (p PanelConfig) Show(ctx *gui.Context, add func(*gui.Ui)) Outcome {
	resp := p.TopBottomPanel.Show(ctx, add)
	return Outcome{Open: true, BodyShown: true, Response: &resp}
}

// BuilderReuseError is returned when a builder is configured or shown after
// it has been shown.
type BuilderReuseError struct {
	Kind      string
	Operation string
}

func (e *BuilderReuseError) Error() string {
	return fmt.Sprintf("%s builder: %s called after show; create a new builder for every show", e.Kind, e.Operation)
}

// Builder holds a container configuration until it is shown. Every mutator
// replaces the whole configuration value.
type Builder struct {
	state  State
	config Showable
}

func NewBuilder(config Showable) *Builder { return &Builder{config: config} }

func (b *Builder) State() State     { return b.state }
func (b *Builder) Config() Showable { return b.config }
func (b *Builder) Kind() string     { return b.config.Kind() }

// Configure replaces the configuration with fn's result.
func (b *Builder) Configure(operation string, fn func(Showable) (Showable, error)) error {
	if b.state != Configuring {
		return &BuilderReuseError{Kind: b.Kind(), Operation: operation}
	}
	next, err := fn(b.config)
	if err != nil {
		return err
	}
	b.config = next
	return nil
}

// take moves the builder to Shown and returns the configuration to show.
func (b *Builder) take() (Showable, error) {
	if b.state != Configuring {
		return nil, &BuilderReuseError{Kind: b.Kind(), Operation: "show"}
	}
	b.state = Shown
	return b.config, nil
}

func windowMutator(op string, fn func(gui.Window) gui.Window) func(*Builder) (*Builder, error) {
	return func(b *Builder) (*Builder, error) {
		return b, b.Configure(op, func(s Showable) (Showable, error) {
			w, ok := s.(WindowConfig)
			if !ok {
				return nil, fmt.Errorf("%s is not a window option of %s", op, s.Kind())
			}
			return WindowConfig{fn(w.Window)}, nil
		})
	}
}

func panelMutator(op string, fn func(gui.TopBottomPanel) gui.TopBottomPanel) func(*Builder) (*Builder, error) {
	return func(b *Builder) (*Builder, error) {
		return b, b.Configure(op, func(s Showable) (Showable, error) {
			p, ok := s.(PanelConfig)
			if !ok {
				return nil, fmt.Errorf("%s is not a panel option of %s", op, s.Kind())
			}
			return PanelConfig{fn(p.TopBottomPanel)}, nil
		})
	}
}

// Handlers bound by the container bindings.

func NewWindow(title string) *Builder { return NewBuilder(WindowConfig{gui.NewWindow(title)}) }
func TopPanel(id string) *Builder     { return NewBuilder(PanelConfig{gui.TopPanel(id)}) }
func BottomPanel(id string) *Builder  { return NewBuilder(PanelConfig{gui.BottomPanel(id)}) }

func WindowOpen(b *Builder, open bool) (*Builder, error) {
	return windowMutator("open", func(w gui.Window) gui.Window { return w.Open(open) })(b)
}

func WindowCollapsed(b *Builder, collapsed bool) (*Builder, error) {
	return windowMutator("collapsed", func(w gui.Window) gui.Window { return w.Collapsed(collapsed) })(b)
}

func WindowDefaultSize(b *Builder, size gui.Vec2) (*Builder, error) {
	return windowMutator("default_size", func(w gui.Window) gui.Window { return w.DefaultSize(size) })(b)
}

func WindowResizable(b *Builder, resizable bool) (*Builder, error) {
	return windowMutator("resizable", func(w gui.Window) gui.Window { return w.Resizable(resizable) })(b)
}

func WindowTitleBar(b *Builder, titleBar bool) (*Builder, error) {
	return windowMutator("title_bar", func(w gui.Window) gui.Window { return w.TitleBar(titleBar) })(b)
}

func WindowID(b *Builder, id string) (*Builder, error) {
	return windowMutator("id", func(w gui.Window) gui.Window { return w.ID(id) })(b)
}

func PanelResizable(b *Builder, resizable bool) (*Builder, error) {
	return panelMutator("resizable", func(p gui.TopBottomPanel) gui.TopBottomPanel { return p.Resizable(resizable) })(b)
}

func PanelExactHeight(b *Builder, height float64) (*Builder, error) {
	return panelMutator("exact_height", func(p gui.TopBottomPanel) gui.TopBottomPanel { return p.ExactHeight(height) })(b)
}

func WindowOrder(b *Builder, order gui.Order) (*Builder, error) {
	return windowMutator("order", func(w gui.Window) gui.Window { return w.Order(order) })(b)
}

func WindowTitleAlign(b *Builder, align gui.Align) (*Builder, error) {
	return windowMutator("title_align", func(w gui.Window) gui.Window { return w.TitleAlign(align) })(b)
}
