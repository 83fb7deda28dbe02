package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/chris-regnier/dreamctl/internal/config"
	"github.com/chris-regnier/dreamctl/internal/dream"
)

// Theme holds resolved lipgloss colors for terminal rendering.
type Theme struct {
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Accent        lipgloss.Color
	Muted         lipgloss.Color
	Danger        lipgloss.Color
	MarkdownStyle string

	// Mood badge colors, one per dream.Tone.
	Positive lipgloss.Color
	Uneasy   lipgloss.Color
	Low      lipgloss.Color
	Driven   lipgloss.Color
}

// DefaultPreset is used when the configured preset is empty or unknown.
const DefaultPreset = "default-dark"

// Built-in presets.
var presets = map[string]Theme{
	"default-dark": {
		Primary:       lipgloss.Color("15"),
		Secondary:     lipgloss.Color("243"),
		Accent:        lipgloss.Color("141"),
		Muted:         lipgloss.Color("241"),
		Danger:        lipgloss.Color("9"),
		MarkdownStyle: "dark",
		Positive:      lipgloss.Color("114"),
		Uneasy:        lipgloss.Color("215"),
		Low:           lipgloss.Color("111"),
		Driven:        lipgloss.Color("213"),
	},
	"default-light": {
		Primary:       lipgloss.Color("0"),
		Secondary:     lipgloss.Color("240"),
		Accent:        lipgloss.Color("91"),
		Muted:         lipgloss.Color("245"),
		Danger:        lipgloss.Color("1"),
		MarkdownStyle: "light",
		Positive:      lipgloss.Color("28"),
		Uneasy:        lipgloss.Color("166"),
		Low:           lipgloss.Color("25"),
		Driven:        lipgloss.Color("127"),
	},
	"dracula": {
		Primary:       lipgloss.Color("#F8F8F2"),
		Secondary:     lipgloss.Color("#6272A4"),
		Accent:        lipgloss.Color("#BD93F9"),
		Muted:         lipgloss.Color("#6272A4"),
		Danger:        lipgloss.Color("#FF5555"),
		MarkdownStyle: "dracula",
		Positive:      lipgloss.Color("#50FA7B"),
		Uneasy:        lipgloss.Color("#FFB86C"),
		Low:           lipgloss.Color("#8BE9FD"),
		Driven:        lipgloss.Color("#FF79C6"),
	},
	"catppuccin-mocha": {
		Primary:       lipgloss.Color("#CDD6F4"),
		Secondary:     lipgloss.Color("#585B70"),
		Accent:        lipgloss.Color("#CBA6F7"),
		Muted:         lipgloss.Color("#6C7086"),
		Danger:        lipgloss.Color("#F38BA8"),
		MarkdownStyle: "dark",
		Positive:      lipgloss.Color("#A6E3A1"),
		Uneasy:        lipgloss.Color("#FAB387"),
		Low:           lipgloss.Color("#89B4FA"),
		Driven:        lipgloss.Color("#F5C2E7"),
	},
}

// ResolveTheme builds a Theme from config, starting with a preset
// and applying any explicit overrides.
func ResolveTheme(cfg config.ThemeConfig) Theme {
	theme, ok := presets[cfg.Preset]
	if !ok {
		theme = presets[DefaultPreset]
	}

	override := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	override(&theme.Primary, cfg.Primary)
	override(&theme.Secondary, cfg.Secondary)
	override(&theme.Accent, cfg.Accent)
	override(&theme.Muted, cfg.Muted)
	override(&theme.Danger, cfg.Danger)
	if cfg.MarkdownStyle != "" {
		theme.MarkdownStyle = cfg.MarkdownStyle
	}

	return theme
}

// HelpStyle returns a lipgloss style for help/footer text.
func (t Theme) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

// HeaderStyle returns a lipgloss style for headers.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
}

// AccentStyle returns a lipgloss style for accented/focused elements.
func (t Theme) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent)
}

// DangerStyle returns a lipgloss style for warnings/delete prompts.
func (t Theme) DangerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Danger)
}

// ToneColor maps a mood tone onto the theme palette.
func (t Theme) ToneColor(tone dream.Tone) lipgloss.Color {
	switch tone {
	case dream.TonePositive:
		return t.Positive
	case dream.ToneUneasy:
		return t.Uneasy
	case dream.ToneLow:
		return t.Low
	case dream.ToneDriven:
		return t.Driven
	default:
		return t.Secondary
	}
}

// MoodBadge renders a mood label colored by its tone.
func (t Theme) MoodBadge(m dream.Mood) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(t.ToneColor(m.Tone())).
		Render(string(m))
}

// NewList creates a list.Model with delegate and chrome styles derived from the theme.
func (t Theme) NewList(items []list.Item, width, height int) list.Model {
	l := list.New(items, t.ListDelegate(), width, height)
	l.Styles = t.ListStyles()
	return l
}

// ListDelegate returns a list.DefaultDelegate with item styles derived from the theme.
func (t Theme) ListDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Padding(0, 0, 0, 2)
	d.Styles.NormalDesc = d.Styles.NormalTitle.
		Foreground(t.Muted)
	d.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Accent).
		Foreground(t.Accent).
		Padding(0, 0, 0, 1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.
		Foreground(t.Secondary)
	d.Styles.DimmedTitle = lipgloss.NewStyle().
		Foreground(t.Muted).
		Padding(0, 0, 0, 2)
	d.Styles.DimmedDesc = d.Styles.DimmedTitle
	return d
}

// ListStyles returns list.Styles (chrome around the list) derived from the theme.
func (t Theme) ListStyles() list.Styles {
	s := list.DefaultStyles()
	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Padding(0, 1)
	s.FilterPrompt = lipgloss.NewStyle().Foreground(t.Accent)
	s.FilterCursor = lipgloss.NewStyle().Foreground(t.Accent)
	s.PaginationStyle = lipgloss.NewStyle().Foreground(t.Muted)
	s.HelpStyle = lipgloss.NewStyle().Foreground(t.Muted)
	s.ActivePaginationDot = lipgloss.NewStyle().Foreground(t.Accent)
	s.InactivePaginationDot = lipgloss.NewStyle().Foreground(t.Muted)
	s.NoItems = lipgloss.NewStyle().Foreground(t.Muted)
	return s
}
