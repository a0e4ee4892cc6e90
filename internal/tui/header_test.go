package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/casamatriz/internal/client"
	"github.com/dm/casamatriz/internal/model"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{30 * time.Second, "30s"},
		{time.Minute, "1m"},
		{150 * time.Second, "2m"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatDuration(tc.d))
	}
}

func TestRenderStatusBar_BeforeFirstPoll(t *testing.T) {
	app := newTestApp(newFakeClient())
	app.width = 120

	out := stripANSI(renderStatusBar(app))

	for _, svc := range model.Services {
		assert.Contains(t, out, svc.Label)
	}
	assert.Contains(t, out, "Waiting for status...")
	assert.Equal(t, 3, strings.Count(out, indicatorDot))
}

func TestRenderStatusBar_AfterPoll(t *testing.T) {
	app := newTestApp(newFakeClient())
	app.width = 120
	at := time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)
	app.status.Apply(client.SystemStatus{"middleware": "up", "app1": "down", "hospital": "up"}, at)

	out := stripANSI(renderStatusBar(app))

	assert.Contains(t, out, "Last: 14:05:09")
	assert.Contains(t, out, "Poll: 5s")
	assert.NotContains(t, out, "Waiting")
}

func TestRenderStatusBar_SingleLineAtWidth(t *testing.T) {
	app := newTestApp(newFakeClient())
	for _, width := range []int{40, 80, 160} {
		app.width = width
		out := renderStatusBar(app)
		assert.Equal(t, 1, lipgloss.Height(out), "width=%d", width)
		assert.LessOrEqual(t, lipgloss.Width(out), width, "width=%d", width)
	}
}

func TestRenderIndicator(t *testing.T) {
	out := stripANSI(renderIndicator(model.Services[2], model.StateDown))
	assert.Equal(t, indicatorDot+" App 2 (Hospital)", out)
}

func TestIndicatorStyle(t *testing.T) {
	assert.Equal(t, StyleIndicatorUp.GetForeground(), IndicatorStyle(model.StateUp).GetForeground())
	assert.Equal(t, StyleIndicatorDown.GetForeground(), IndicatorStyle(model.StateDown).GetForeground())
	assert.Equal(t, StyleIndicatorUnknown.GetForeground(), IndicatorStyle(model.StateUnknown).GetForeground())
}

func TestRenderFooter(t *testing.T) {
	app := newTestApp(newFakeClient())
	app.width = 200

	assert.Contains(t, stripANSI(renderFooter(app)), "? for help")

	app.showHelp = true
	out := stripANSI(renderFooter(app))
	assert.Contains(t, out, "r: reload")
	assert.Contains(t, out, "q: quit")
}

func TestMenuEntryAt(t *testing.T) {
	cases := []struct {
		y      int
		want   viewKind
		wantOK bool
	}{
		{0, 0, false},
		{bodyTop, 0, false},
		{bodyTop + menuFirstEntry, viewWelcome, true},
		{bodyTop + menuFirstEntry + 1, viewPurchases, true},
		{bodyTop + menuFirstEntry + 2, viewHospital, true},
		{bodyTop + menuFirstEntry + 3, 0, false},
	}
	for _, tc := range cases {
		got, ok := menuEntryAt(tc.y)
		assert.Equal(t, tc.wantOK, ok, "y=%d", tc.y)
		if tc.wantOK {
			assert.Equal(t, tc.want, got, "y=%d", tc.y)
		}
	}
}

func TestCycleView(t *testing.T) {
	assert.Equal(t, viewPurchases, cycleView(viewWelcome, 1))
	assert.Equal(t, viewWelcome, cycleView(viewHospital, 1))
	assert.Equal(t, viewHospital, cycleView(viewWelcome, -1))
	// The items drill-down cycles as if it were purchases.
	assert.Equal(t, viewHospital, cycleView(viewItems, 1))
}

func TestRenderMenu_HighlightsParentOfItems(t *testing.T) {
	app := newTestApp(newFakeClient())
	app.view = viewItems

	lines := strings.Split(stripANSI(renderMenu(app, 10)), "\n")

	require.GreaterOrEqual(t, len(lines), menuFirstEntry+len(menuEntries))
	assert.Contains(t, lines[0], "MENU")
	assert.Contains(t, lines[menuFirstEntry+1], "2  App 1: Purchases")
	assert.Equal(t, 1, menuIndex(viewItems))
}

func TestRenderDialog(t *testing.T) {
	d := &errorDialog{title: "Hospital Error", text: "Database\x1b[31m offline"}

	out := stripANSI(renderDialog(d, 80, 20))

	assert.Contains(t, out, "Hospital Error")
	assert.Contains(t, out, "Database[31m offline", "control bytes are stripped from server text")
	assert.Contains(t, out, "[enter/esc: close]")
	assert.Equal(t, 20, lipgloss.Height(out))
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"plain", "connection refused", "connection refused"},
		{"keeps newline and tab", "a\n\tb", "a\n\tb"},
		{"strips escape", "a\x1bb", "ab"},
		{"strips bell and del", "a\x07b\x7f", "ab"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitize(tc.input))
		})
	}
}
