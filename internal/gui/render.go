package gui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	windowStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(mutedColor)

	tooltipStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(highlightColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	focusStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Reverse(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// Render draws a finished frame as terminal text. focus is the id of the
// element to highlight, or empty.
func Render(f *Frame, focus string) string {
	if f == nil {
		return ""
	}
	var top, middle, bottom, tips []string
	for _, a := range f.sortedAreas() {
		switch a.Kind {
		case AreaPanelTop:
			top = append(top, renderPanel(a, focus))
		case AreaPanelBottom:
			bottom = append(bottom, renderPanel(a, focus))
		case AreaTooltip:
			tips = append(tips, tooltipStyle.Render(renderChildren(a.Root, focus, a.Width)))
		default:
			middle = append(middle, renderWindow(a, focus))
		}
	}
	var blocks []string
	blocks = append(blocks, top...)
	if len(middle) > 0 {
		blocks = append(blocks, lipgloss.JoinHorizontal(lipgloss.Top, middle...))
	}
	blocks = append(blocks, tips...)
	blocks = append(blocks, bottom...)
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// sortedAreas orders areas by paint layer, keeping call order within a
// layer.
func (f *Frame) sortedAreas() []*Area {
	out := append([]*Area(nil), f.Areas...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func renderPanel(a *Area, focus string) string {
	style := panelStyle
	if a.Kind == AreaPanelBottom {
		style = style.Border(lipgloss.NormalBorder(), true, false, false, false)
	}
	return style.Width(a.Width).Render(renderChildren(a.Root, focus, a.Width))
}

func renderWindow(a *Area, focus string) string {
	marker := "▾ "
	if a.Collapsed {
		marker = "▸ "
	}
	style := titleStyle
	if focus == a.ID {
		style = focusStyle
	}
	switch a.TitleAlign {
	case AlignCenter:
		style = style.Width(max(a.Width-2, 1)).Align(lipgloss.Center)
	case AlignMax:
		style = style.Width(max(a.Width-2, 1)).Align(lipgloss.Right)
	}
	title := style.Render(marker + a.Title)
	if a.Collapsed {
		return windowStyle.Render(title)
	}
	body := renderChildren(a.Root, focus, a.Width)
	if body == "" {
		return windowStyle.Render(title)
	}
	return windowStyle.Width(a.Width).Render(title + "\n" + body)
}

func renderChildren(e *Element, focus string, width int) string {
	if e == nil {
		return ""
	}
	lines := make([]string, 0, len(e.Children))
	for _, ch := range e.Children {
		lines = append(lines, renderElement(ch, focus, width))
	}
	if e.Horizontal {
		spaced := make([]string, 0, 2*len(lines))
		for i, l := range lines {
			if i > 0 {
				spaced = append(spaced, " ")
			}
			spaced = append(spaced, l)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func textStyle(e *Element) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(e.Strong).Italic(e.Italics)
	if e.Color != nil {
		s = s.Foreground(lipgloss.Color(e.Color.Hex()))
	}
	return s
}

func renderElement(e *Element, focus string, width int) string {
	focused := focus != "" && focus == e.ID
	pick := func(s lipgloss.Style) lipgloss.Style {
		if focused || e.Hovered {
			return focusStyle
		}
		return s
	}
	switch e.Kind {
	case ElemHeading:
		return textStyle(e).Underline(true).Render(e.Text)
	case ElemButton:
		return pick(buttonStyle).Render("[ " + e.Text + " ]")
	case ElemSeparator:
		return mutedStyle.Render(strings.Repeat("─", max(width-4, 1)))
	case ElemSpace:
		return ""
	case ElemTextEdit:
		return pick(lipgloss.NewStyle().Underline(true)).Render(e.Text + " ")
	case ElemCheckbox:
		box := "[ ] "
		if e.Checked {
			box = "[x] "
		}
		return pick(lipgloss.NewStyle()).Render(box + e.Text)
	case ElemGroup:
		return renderChildren(e, focus, width)
	case ElemCollapsing, ElemMenu:
		marker := "▸ "
		if e.Open {
			marker = "▾ "
		}
		head := pick(titleStyle).Render(marker + e.Text)
		if !e.Open || len(e.Children) == 0 {
			return head
		}
		body := lipgloss.NewStyle().PaddingLeft(2).Render(renderChildren(e, focus, width-2))
		return lipgloss.JoinVertical(lipgloss.Left, head, body)
	}
	return pick(textStyle(e)).Render(e.Text)
}
