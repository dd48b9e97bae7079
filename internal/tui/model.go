// Package tui is the interactive client dashboard built on Bubble Tea.
//
// The Bubble Tea Update loop is the only code that touches the
// dashboard.Core. Store calls run in commands and come back as messages;
// pushed events arrive one at a time through an EventSource.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/clientdash/internal/dashboard"
	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/logging"
	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/realtime"
	"github.com/Makepad-fr/clientdash/internal/store"
	"github.com/Makepad-fr/clientdash/internal/ui"
)

// EventSource delivers pushed events in arrival order. *realtime.Queue
// implements it.
type EventSource interface {
	Events() <-chan realtime.Event
	Done() <-chan struct{}
}

// Connection reports the push channel state. *realtime.Channel implements it.
type Connection interface {
	IsConnected() bool
}

// Options configure a dashboard Model.
type Options struct {
	Store store.Store
	Core  *dashboard.Core
	// Events and Conn are nil when realtime is disabled.
	Events       EventSource
	Conn         Connection
	TickInterval time.Duration
	Theme        ui.Theme
	Log          *logging.Logger
}

// Model is the Bubble Tea model of the dashboard.
type Model struct {
	ctx    context.Context
	store  store.Store
	core   *dashboard.Core
	events EventSource
	conn   Connection
	tick   time.Duration
	log    *logging.Logger

	list    list.Model
	search  textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  ui.Styles

	connected bool
	errText   string
	errSeq    int
	width     int
	height    int
}

// New builds a dashboard model. The first load is issued by Init.
func New(ctx context.Context, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Theme.Name == "" {
		opts.Theme = ui.Current()
	}
	if opts.Log == nil {
		opts.Log = logging.NopLogger()
	}
	if opts.Core == nil {
		opts.Core = dashboard.New(dashboard.WithLogger(opts.Log))
	}
	styles := ui.NewStyles(opts.Theme)

	l := list.New(nil, clientDelegate{styles: styles}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = styles.Help

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search phone number..."
	ti.CharLimit = 32

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Accent

	m := Model{
		ctx:     ctx,
		store:   opts.Store,
		core:    opts.Core,
		events:  opts.Events,
		conn:    opts.Conn,
		tick:    opts.TickInterval,
		log:     opts.Log.WithComponent("tui"),
		list:    l,
		search:  ti,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeys(),
		styles:  styles,
	}
	if m.conn != nil {
		m.connected = m.conn.IsConnected()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.load(m.core.Filter()),
		m.spinner.Tick,
		tickCmd(m.tick),
		waitForEvent(m.events),
	)
}

func (m Model) load(f model.Filter) tea.Cmd {
	return loadCmd(m.ctx, m.store, m.core.BeginLoad(f))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(max(msg.Width-4, 20), max(msg.Height-chromeHeight, 3))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)

	case loadResultMsg:
		err := m.core.ApplyLoad(msg.res)
		if errors.Is(err, errors.ErrStaleResult) {
			return m, nil
		}
		m.syncList()
		if err != nil {
			return m.fail("Could not load clients", err)
		}
		return m, nil

	case mutateResultMsg:
		req, reload, err := m.core.ApplyMutate(msg.res)
		if err != nil {
			if errors.IsNotFound(err) {
				return m.fail("Client no longer exists", err)
			}
			return m.fail("Could not update client", err)
		}
		if reload {
			return m, loadCmd(m.ctx, m.store, req)
		}
		m.syncList()
		return m, nil

	case eventMsg:
		m.core.Apply(msg.ev)
		m.syncList()
		return m, waitForEvent(m.events)

	case tickMsg:
		if m.conn != nil {
			m.connected = m.conn.IsConnected()
		}
		return m, tickCmd(m.tick)

	case clearErrMsg:
		if msg.seq == m.errSeq {
			m.errText = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.core.Filter()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Next):
		f.Status = f.Status.Next()
		return m, m.load(f)
	case key.Matches(msg, m.keys.All):
		f.Status = model.StatusAll
		return m, m.load(f)
	case key.Matches(msg, m.keys.Pending):
		f.Status = model.StatusFilterPending
		return m, m.load(f)
	case key.Matches(msg, m.keys.Confirmed):
		f.Status = model.StatusFilterConfirmed
		return m, m.load(f)
	case key.Matches(msg, m.keys.Reload):
		return m, m.load(f)
	case key.Matches(msg, m.keys.Toggle):
		// the list is hidden behind the spinner until the load settles
		if m.core.Loading() {
			return m, nil
		}
		it, ok := m.list.SelectedItem().(clientItem)
		if !ok {
			return m, nil
		}
		return m, mutateCmd(m.ctx, m.store, it.ID, it.Status.Toggle())
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateSearch feeds keys to the search box and re-queries on every change.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Done) {
		m.search.Blur()
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	f := m.core.Filter()
	f.Search = m.search.Value()
	return m, tea.Batch(cmd, m.load(f))
}

func (m *Model) syncList() {
	idx := m.list.Index()
	m.list.SetItems(toItems(m.core.Records()))
	if n := len(m.list.Items()); n > 0 {
		m.list.Select(min(idx, n-1))
	}
}

func (m Model) fail(text string, err error) (tea.Model, tea.Cmd) {
	m.log.Warn(text, "error", err.Error())
	m.errSeq++
	m.errText = text + ": " + err.Error()
	if errors.IsRetryable(err) {
		m.errText += " (r to retry)"
	}
	return m, clearErrCmd(m.errSeq)
}
