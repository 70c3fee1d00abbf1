package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the card colors.
type Theme struct {
	Primary lipgloss.Color // accent: borders, labels
	Accent  lipgloss.Color // the translated text
	Dim     lipgloss.Color // secondary text
}

// DefaultTheme is the lantern red and ink theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#c0392b"),
	Accent:  lipgloss.Color("#f5d76e"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Body   lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Body:   lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Section is a labeled block of lines inside a card.
type Section struct {
	Label string
	Lines []string
}

// Card renders a bordered box with a title, labeled sections and a footer.
type Card struct {
	Styles   Styles
	Title    string
	Status   string
	Sections []Section
	Footer   string
}

// Render renders the card at the given width. Long lines are wrapped by
// display width; empty sections are skipped.
func (c Card) Render(width int) string {
	if width < 12 {
		width = 12
	}
	bc := c.Styles.Border
	inner := width - 4

	var lines []string
	lines = append(lines, bc.Render("╭"+strings.Repeat("─", width-2)+"╮"))

	title := c.Styles.Title.Render(c.Title)
	status := ""
	if c.Status != "" {
		status = c.Styles.Help.Render("[" + c.Status + "]")
	}
	pad := max(0, width-5-lipgloss.Width(title)-lipgloss.Width(status))
	lines = append(lines, bc.Render("│")+" "+title+" "+status+strings.Repeat(" ", pad)+" "+bc.Render("│"))

	for i, sec := range c.Sections {
		if len(sec.Lines) == 0 {
			continue
		}
		label := c.Styles.Label.Render(sec.Label)
		pad := max(0, width-3-lipgloss.Width(label))
		lines = append(lines, bc.Render("├")+bc.Render("─")+label+bc.Render(strings.Repeat("─", pad))+bc.Render("┤"))
		style := c.Styles.Help
		if i == 0 {
			style = c.Styles.Body
		}
		for _, l := range sec.Lines {
			for _, w := range wrap(l, inner) {
				fill := strings.Repeat(" ", max(0, inner-displayWidth(w)))
				lines = append(lines, bc.Render("│")+" "+style.Render(w)+fill+" "+bc.Render("│"))
			}
		}
	}

	lines = append(lines, bc.Render("╰"+strings.Repeat("─", width-2)+"╯"))
	if c.Footer != "" {
		lines = append(lines, c.Styles.Help.Render(c.Footer))
	}
	return strings.Join(lines, "\n")
}

// wrap splits s into lines of at most width display columns.
func wrap(s string, width int) []string {
	if s == "" {
		return []string{""}
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		for displayWidth(para) > width {
			head := truncateString(para, width)
			if head == "" {
				break
			}
			out = append(out, head)
			para = para[len(head):]
		}
		out = append(out, para)
	}
	return out
}

func displayWidth(s string) int {
	return lipgloss.Width(s)
}

// truncateString safely truncates a string to the given width,
// handling multi-byte characters correctly.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	currentWidth := 0
	for i, r := range runes {
		w := lipgloss.Width(string(r))
		if currentWidth+w > width {
			return string(runes[:i])
		}
		currentWidth += w
	}
	return s
}
