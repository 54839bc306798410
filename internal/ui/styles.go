package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// StatusTone selects the color used for a status label in table output.
type StatusTone int

// Tones applied to status labels.
const (
	ToneMuted StatusTone = iota
	ToneSuccess
	ToneWarning
	ToneInfo
	ToneError
)

const (
	successColorConstant = "#00AF00"
	warningColorConstant = "#FFAA00"
	infoColorConstant    = "#00AFD7"
	errorColorConstant   = "#FF0000"
	mutedColorConstant   = "#888888"
)

type reportStyles struct {
	folder lipgloss.Style
	tones  map[StatusTone]lipgloss.Style
}

// newReportStyles binds the palette to writer so color is only emitted when writer supports it.
func newReportStyles(writer io.Writer) reportStyles {
	renderer := lipgloss.NewRenderer(writer)
	return reportStyles{
		folder: renderer.NewStyle().Bold(true),
		tones: map[StatusTone]lipgloss.Style{
			ToneSuccess: renderer.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
			ToneWarning: renderer.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
			ToneInfo:    renderer.NewStyle().Foreground(lipgloss.Color(infoColorConstant)),
			ToneError:   renderer.NewStyle().Foreground(lipgloss.Color(errorColorConstant)),
			ToneMuted:   renderer.NewStyle().Foreground(lipgloss.Color(mutedColorConstant)),
		},
	}
}

func (styles reportStyles) renderStatus(tone StatusTone, label string) string {
	style, known := styles.tones[tone]
	if !known {
		style = styles.tones[ToneMuted]
	}
	return style.Render(label)
}
