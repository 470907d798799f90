package display

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/luna-display/metrics"
	"gitlab.com/tinyland/lab/luna-display/render"
)

func TestPreviewModel_FrameMsgUpdatesState(t *testing.T) {
	m := NewPreviewModel()

	frame := render.Render(metrics.Snapshot{IP: "192.168.1.5", CPU: 42, RAM: 17}, "Ready.", 0)
	updated, cmd := m.Update(FrameMsg(frame))
	if cmd != nil {
		t.Error("FrameMsg must not produce a command")
	}

	pm := updated.(PreviewModel)
	if pm.frames != 1 {
		t.Errorf("frames = %d, want 1", pm.frames)
	}
	if pm.lastPush.IsZero() {
		t.Error("lastPush not recorded")
	}

	view := pm.View()
	for _, want := range []string{"LUNA: CPU: 42% RAM: 17%", "IP: 192.168.1.5", "Ready."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPreviewModel_QuitKey(t *testing.T) {
	m := NewPreviewModel()

	for _, k := range []string{"q", "esc", "ctrl+c"} {
		var msg tea.KeyMsg
		switch k {
		case "q":
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}

		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("key %q did not quit", k)
		}
	}
}

func TestPreviewModel_IgnoresOtherKeys(t *testing.T) {
	m := NewPreviewModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd != nil {
		t.Error("unexpected command for unbound key")
	}
}

func TestPreviewModel_ViewClipsLongLines(t *testing.T) {
	m := NewPreviewModel()
	frame := render.Frame{{Text: strings.Repeat("Z", 80), X: 0, Y: 0}}
	updated, _ := m.Update(FrameMsg(frame))

	view := updated.(PreviewModel).View()
	if strings.Contains(view, strings.Repeat("Z", previewCols+1)) {
		t.Errorf("view exceeds the %d-column panel grid", previewCols)
	}
	if !strings.Contains(view, strings.Repeat("Z", previewCols)) {
		t.Error("view missing the clipped line")
	}
}
