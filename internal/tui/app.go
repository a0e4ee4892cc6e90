package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/casamatriz/internal/client"
	"github.com/dm/casamatriz/internal/engine"
	"github.com/dm/casamatriz/internal/model"
)

// doubleClickWindow is the longest gap between two presses on the same row
// that still counts as a double-click.
const doubleClickWindow = 500 * time.Millisecond

// Options configures an App.
type Options struct {
	PollInterval  time.Duration
	StatusTimeout time.Duration
	// LoadTimeout bounds each data load; zero means unbounded.
	LoadTimeout time.Duration
	Logger      *slog.Logger
}

// clickRecord remembers the last left press on a table row.
type clickRecord struct {
	seq uint64
	row int
	at  time.Time
}

// App is the root Bubble Tea model for the dashboard.
type App struct {
	client client.MiddlewareClient
	opts   Options
	log    *slog.Logger

	// Status poll state
	polling bool // true while a statusCmd goroutine is in-flight
	status  *model.StatusBoard

	// Navigation state. content is nil on the welcome view.
	view    viewKind
	content *contentView
	loadSeq uint64

	dialog  *errorDialog
	spinner spinner.Model

	// Layout
	width, height int

	// UI state
	showHelp  bool
	lastClick clickRecord
	now       func() time.Time
}

// NewApp creates a new App with the given middleware client and options.
func NewApp(c client.MiddlewareClient, opts Options) *App {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = engine.DefaultStatusTimeout
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(StyleSpinner))

	return &App{
		client:  c,
		opts:    opts,
		log:     log,
		status:  model.NewStatusBoard(),
		polling: true, // Init() always issues an immediate statusCmd
		view:    viewWelcome,
		spinner: sp,
		now:     time.Now,
	}
}

// Init implements tea.Model. Starts the first status poll immediately on launch.
func (app *App) Init() tea.Cmd {
	return statusCmd(app.client, app.opts.StatusTimeout)
}

// Update implements tea.Model. All state changes happen here.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height
		app.resizeContent()

	case StatusMsg:
		app.polling = false
		app.status.Apply(msg.Status, msg.At)
		app.log.Debug("status poll", "middleware", msg.Status[client.ServiceMiddleware],
			"app1", msg.Status[client.ServiceApp1], "hospital", msg.Status[client.ServiceHospital])
		return app, tickCmd(app.opts.PollInterval)

	case StatusErrorMsg:
		app.polling = false
		app.log.Debug("status poll failed", "err", msg.Err)
		return app, tickCmd(app.opts.PollInterval)

	case StatusTickMsg:
		if app.polling {
			return app, nil
		}
		app.polling = true
		return app, statusCmd(app.client, app.opts.StatusTimeout)

	case RowsMsg:
		if !app.isCurrentLoad(msg.Seq) {
			app.log.Debug("dropping stale load result", "seq", msg.Seq)
			return app, nil
		}
		app.content.table.SetRows(msg.Rows)
		app.content.state = model.LoadPopulated
		app.log.Debug("load finished", "view", app.content.kind, "rows", len(msg.Rows))

	case LoadErrorMsg:
		if !app.isCurrentLoad(msg.Seq) {
			app.log.Debug("dropping stale load error", "seq", msg.Seq, "err", msg.Err)
			return app, nil
		}
		app.content.state = model.LoadError
		app.dialog = &errorDialog{title: msg.Title, text: msg.Text}
		app.log.Warn("load failed", "view", app.content.kind, "err", msg.Err)

	case spinner.TickMsg:
		if app.content == nil || app.content.state != model.LoadLoading {
			return app, nil
		}
		var cmd tea.Cmd
		app.spinner, cmd = app.spinner.Update(msg)
		return app, cmd

	case tea.KeyMsg:
		return app.handleKey(msg)

	case tea.MouseMsg:
		return app.handleMouse(msg)
	}

	return app, nil
}

func (app *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if app.dialog != nil {
		switch {
		case key.Matches(msg, keys.ForceQuit):
			return app, tea.Quit
		case key.Matches(msg, keys.Dismiss):
			app.dialog = nil
		}
		return app, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return app, tea.Quit
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
	case key.Matches(msg, keys.Welcome):
		return app, app.openView(viewWelcome)
	case key.Matches(msg, keys.Purchases):
		return app, app.openView(viewPurchases)
	case key.Matches(msg, keys.Hospital):
		return app, app.openView(viewHospital)
	case key.Matches(msg, keys.NextView):
		return app, app.openView(cycleView(app.view, 1))
	case key.Matches(msg, keys.PrevView):
		return app, app.openView(cycleView(app.view, -1))
	case key.Matches(msg, keys.Refresh):
		return app, app.reload()
	case key.Matches(msg, keys.Back):
		if app.view == viewItems {
			return app, app.openView(viewPurchases)
		}
	case key.Matches(msg, keys.Open):
		if app.view == viewPurchases {
			return app, app.drillDown()
		}
	default:
		if app.content != nil {
			var cmd tea.Cmd
			app.content.table, cmd = app.content.table.Update(msg)
			if key.Matches(msg, keys.Sort, keys.Reverse) {
				app.lastClick = clickRecord{}
			}
			return app, cmd
		}
	}
	return app, nil
}

// handleMouse selects menu entries and table rows on left press. A second
// press on the same purchases row within doubleClickWindow opens that list.
func (app *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if app.dialog != nil {
		return app, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return app, nil
	}

	if msg.X < menuWidth {
		if kind, ok := menuEntryAt(msg.Y); ok {
			return app, app.openView(kind)
		}
		return app, nil
	}

	cv := app.content
	if cv == nil || cv.state != model.LoadPopulated {
		return app, nil
	}
	row, ok := cv.table.SelectOnPage(msg.Y - bodyTop - tableFirstRow)
	if !ok {
		return app, nil
	}

	now := app.now()
	prev := app.lastClick
	app.lastClick = clickRecord{seq: cv.seq, row: row, at: now}
	double := prev.seq == cv.seq && prev.row == row && now.Sub(prev.at) <= doubleClickWindow
	if double && app.view == viewPurchases {
		app.lastClick = clickRecord{}
		return app, app.drillDown()
	}
	return app, nil
}

// openView discards the current view and builds kind from scratch. Table
// views start loading immediately.
func (app *App) openView(kind viewKind) tea.Cmd {
	app.view = kind
	app.lastClick = clickRecord{}
	if kind == viewWelcome {
		app.content = nil
		return nil
	}
	app.content = newContentView(kind)
	app.resizeContent()
	return app.reload()
}

// openItems builds the items drill-down for one purchase list.
func (app *App) openItems(listID client.ID, listName string) tea.Cmd {
	app.view = viewItems
	app.lastClick = clickRecord{}
	app.content = newContentView(viewItems)
	app.content.listID = listID
	app.content.listName = listName
	app.resizeContent()
	return app.reload()
}

// drillDown opens the items view for the selected purchases row.
func (app *App) drillDown() tea.Cmd {
	if app.content == nil {
		return nil
	}
	sel, ok := app.content.table.Selected()
	if !ok {
		return nil
	}
	name := ""
	if len(sel.Cells) > 1 {
		name = sel.Cells[1]
	}
	return app.openItems(sel.ID, name)
}

// reload moves the current table view to Loading: its rows are cleared before
// the fetch is issued, and only the result carrying the new token is applied.
func (app *App) reload() tea.Cmd {
	cv := app.content
	if cv == nil {
		return nil
	}
	app.loadSeq++
	cv.seq = app.loadSeq
	cv.state = model.LoadLoading
	cv.table.SetRows(nil)
	return tea.Batch(
		loadCmd(app.client, cv.kind, cv.listID, cv.seq, app.opts.LoadTimeout),
		app.spinner.Tick,
	)
}

func (app *App) isCurrentLoad(seq uint64) bool {
	return app.content != nil && app.content.seq == seq && app.content.state == model.LoadLoading
}

// bodyHeight is the number of rows between the status bar and the footer.
func (app *App) bodyHeight() int {
	height := app.height
	if height <= 0 {
		height = 24
	}
	h := height - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (app *App) resizeContent() {
	if app.content != nil {
		app.content.table.SetPageSize(app.bodyHeight() - tableFirstRow)
	}
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	h := app.bodyHeight()

	var body string
	if app.dialog != nil {
		body = renderDialog(app.dialog, width, h)
	} else {
		contentWidth := width - menuWidth
		if contentWidth < 1 {
			contentWidth = 1
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			renderMenu(app, h),
			renderContent(app, contentWidth, h),
		)
	}

	return strings.Join([]string{
		renderStatusBar(app),
		body,
		renderFooter(app),
	}, "\n")
}

// tickCmd schedules the next status poll after duration d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return StatusTickMsg(t)
	})
}

// statusCmd is a Bubble Tea command that polls /api/system-status once and
// returns a StatusMsg or StatusErrorMsg.
func statusCmd(c client.MiddlewareClient, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		status, err := engine.PollStatus(context.Background(), c, timeout)
		if err != nil {
			return StatusErrorMsg{Err: err}
		}
		return StatusMsg{Status: status, At: time.Now()}
	}
}
