package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"diagramkit/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BlockListModel - Interactive diagram block selection
// =============================================================================

// BlockListModel is the bubbletea model for picking one diagram block out of
// a scanned result.
type BlockListModel struct {
	Segments []pipeline.Segment
	Cursor   int
	Selected *pipeline.Segment
	Height   int
	Offset   int
}

// NewBlockListModel creates a new block list model.
func NewBlockListModel(segments []pipeline.Segment) BlockListModel {
	return BlockListModel{
		Segments: segments,
		Cursor:   0,
		Height:   15,
		Offset:   0,
	}
}

func (m BlockListModel) Init() tea.Cmd {
	return nil
}

func (m BlockListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Segments)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			seg := m.Segments[m.Cursor]
			m.Selected = &seg
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BlockListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagram Block"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Segments) {
		end = len(m.Segments)
	}

	for i := m.Offset; i < end; i++ {
		seg := m.Segments[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		line := fmt.Sprintf("#%d  %s", seg.Block.Position, seg.Classification.Dialect.Tag())
		if seg.Translated != "" {
			line += "  " + listDimStyle.Render("translated")
		}
		if len(seg.Warnings) > 0 {
			line += "  " + StyleWarning.Render(fmt.Sprintf("%d warnings", len(seg.Warnings)))
		}

		b.WriteString(cursor + style.Render(line) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d diagram blocks", len(m.Segments))))
	b.WriteString("\n")

	return b.String()
}
