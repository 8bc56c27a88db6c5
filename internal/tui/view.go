package tui

import (
	"strconv"
	"strings"

	"meeting-board/internal/export"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const indentWidth = 2

func (m appModel) View() string {
	header := m.viewHeader()
	footer := m.viewFooter()

	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	if bodyH < 3 {
		bodyH = 3
	}

	listW := m.width
	previewW := 0
	if m.showPreview && m.width >= 60 {
		listW = m.width / 2
		previewW = m.width - listW - 1
	}

	body := m.viewRows(listW, bodyH)
	if previewW > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(listW).Render(body),
			" ",
			m.viewPreview(previewW, bodyH),
		)
	}
	if m.confirmClear {
		body = renderConfirm(m.width)
	}
	return strings.Join([]string{header, body, footer}, "\n\n")
}

func (m appModel) viewHeader() string {
	parts := []string{lipgloss.NewStyle().Bold(true).Render("Meeting Board")}
	if m.recording() {
		parts = append(parts, styleRecording().Render("● REC"))
	}
	if m.speaking {
		parts = append(parts, styleAccent().Render("♪ speaking"))
	}
	parts = append(parts, styleTitle().Render(itemCount(m.ctrl.Outline().Len())))
	return strings.Join(parts, "  ")
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return strconv.Itoa(n) + " items"
}

// viewRows renders the outline, scrolled so the focused row stays visible.
func (m appModel) viewRows(width, height int) string {
	items := m.ctrl.Outline().Items()
	focus := m.ctrl.FocusIndex()

	start := 0
	if focus >= height {
		start = focus - height + 1
	}
	end := start + height
	if end > len(items) {
		end = len(items)
	}

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		it := items[i]
		prefix := strings.Repeat(" ", it.Indent*indentWidth) + styleBullet().Render("•") + " "
		avail := width - xansi.StringWidth(prefix)
		if avail < 1 {
			avail = 1
		}

		if i == focus {
			in := m.input
			in.Width = avail - 1
			lines = append(lines, prefix+in.View())
			continue
		}

		text := truncateToWidth(it.Text, avail)
		if text == "" {
			text = styleMuted().Render("…")
		} else if it.Indent == 0 {
			text = styleTopItem().Render(text)
		}
		lines = append(lines, prefix+text)
	}
	if m.recording() {
		lines = append(lines, styleRecording().Render("Listening..."))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewPreview(width, height int) string {
	out := renderMarkdown(export.Markdown(m.ctrl.Outline()), width)
	lines := strings.Split(out, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		if xansi.StringWidth(l) > width {
			lines[i] = xansi.Truncate(l, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewFooter() string {
	if m.flash != "" {
		return styleAccent().Render(truncateToWidth(m.flash, m.width))
	}
	h := help.New()
	h.Width = m.width
	return h.ShortHelpView(m.keys.help())
}

func renderConfirm(width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 2)
	body := strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render("Clear the board?"),
		"",
		"All items will be removed.",
		"",
		styleMuted().Render("y: clear   n/esc: cancel"),
	}, "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box.Render(body))
}

func truncateToWidth(s string, w int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if w <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	if w <= 1 {
		return "…"
	}
	return xansi.Cut(s, 0, w-1) + "…"
}
