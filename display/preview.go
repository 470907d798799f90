package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/luna-display/internal/format"
	"gitlab.com/tinyland/lab/luna-display/metrics"
	"gitlab.com/tinyland/lab/luna-display/render"
)

// Preview geometry: the 128x64 panel maps onto a character grid of 8 rows
// (one per 8-pixel band) by 25 columns (the layout line threshold), using
// the 7-pixel font advance for the x axis.
const (
	previewRows = render.Height / 8
	previewCols = render.LineThreshold
	fontAdvance = 7
)

// FrameMsg delivers a rendered frame to the preview model.
type FrameMsg render.Frame

// previewKeyMap holds the preview's key bindings.
type previewKeyMap struct {
	Quit key.Binding
}

var previewKeys = previewKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var (
	previewBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1)
	previewFooterStyle = lipgloss.NewStyle().Faint(true)
)

// PreviewModel is the Bubbletea model mirroring display frames in the
// terminal, for development without the physical panel.
type PreviewModel struct {
	frame    render.Frame
	frames   int
	lastPush time.Time
}

// NewPreviewModel creates an empty preview model.
func NewPreviewModel() PreviewModel {
	return PreviewModel{}
}

// Init implements tea.Model. No initial commands are needed.
func (m PreviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, previewKeys.Quit) {
			return m, tea.Quit
		}
	case FrameMsg:
		m.frame = render.Frame(msg)
		m.frames++
		m.lastPush = time.Now()
	}
	return m, nil
}

// View implements tea.Model. It paints the frame onto the character grid
// and wraps it in panel chrome with a status footer.
func (m PreviewModel) View() string {
	grid := make([][]rune, previewRows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", previewCols))
	}

	for _, line := range m.frame {
		row := line.Y / 8
		col := line.X / fontAdvance
		if row < 0 || row >= previewRows {
			continue
		}
		for i, r := range line.Text {
			if col+i >= previewCols {
				break
			}
			grid[row][col+i] = r
		}
	}

	rows := make([]string, previewRows)
	for i, g := range grid {
		rows[i] = string(g)
	}

	footer := fmt.Sprintf("frames: %d  last: %s  up: %s  %s: quit",
		m.frames,
		format.TimeSince(m.lastPush),
		format.Duration(metrics.Uptime()),
		previewKeys.Quit.Help().Key,
	)

	return previewBorderStyle.Render(strings.Join(rows, "\n")) + "\n" +
		previewFooterStyle.Render(footer)
}

// Preview is a display sink that mirrors frames into a running Bubbletea
// program.
type Preview struct {
	prog *tea.Program
}

// NewPreview creates the preview program. Run must be called on the main
// goroutine; Push may be called from the display loop.
func NewPreview() *Preview {
	return &Preview{
		prog: tea.NewProgram(NewPreviewModel(), tea.WithAltScreen()),
	}
}

// Run blocks until the preview quits.
func (p *Preview) Run() error {
	_, err := p.prog.Run()
	return err
}

// Push sends a frame to the preview. It never fails.
func (p *Preview) Push(f render.Frame) error {
	p.prog.Send(FrameMsg(f))
	return nil
}

// Quit asks the preview program to exit.
func (p *Preview) Quit() {
	p.prog.Quit()
}
