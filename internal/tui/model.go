// Package tui is the interactive ROM browser.
package tui

import (
	"context"
	"fmt"
	"time"

	"romcat/internal/catalog"
	"romcat/internal/errors"
	"romcat/internal/log"
	"romcat/internal/preview"
	"romcat/internal/store"
	"romcat/internal/tui/common"
	"romcat/internal/tui/components"
	"romcat/internal/tui/messages"
	"romcat/internal/tui/styles"
	"romcat/internal/tui/views"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const previewPollInterval = 100 * time.Millisecond

// Recorder remembers launched selections.
type Recorder interface {
	RecordSelection(ctx context.Context, sel store.Selection) error
}

// Option configures a Model.
type Option func(*Model)

// WithRecorder records the launched selection in r.
func WithRecorder(r Recorder) Option {
	return func(m *Model) { m.recorder = r }
}

type Model struct {
	catalog  *catalog.Service
	pipeline *preview.Pipeline
	recorder Recorder

	keys   common.KeyMap
	help   help.Model
	styles styles.Styles
	search textinput.Model
	status *components.StatusBar

	mode common.Mode
	err  error

	// path of the entry the preview was last resolved for
	previewPath string
	batch       chan tea.Msg
	selection   *catalog.Selection
}

// New creates a browser over svc, resolving art through pipe.
func New(svc *catalog.Service, pipe *preview.Pipeline, opts ...Option) *Model {
	st := styles.FromTheme(svc.Config())

	search := textinput.New()
	search.Placeholder = "game name"
	search.Prompt = "search: "
	search.CharLimit = 64
	search.Width = 40

	m := &Model{
		catalog:  svc,
		pipeline: pipe,
		keys:     common.DefaultKeyMap(),
		help:     help.New(),
		styles:   st,
		search:   search,
		status:   components.NewStatusBar(st.Status),
		mode:     common.Normal,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.refreshPreview()
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m, m.styles)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.mode == common.Search {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)

	case spinner.TickMsg:
		return m, m.status.Update(msg)

	case messages.ScanCompleteMsg:
		m.status.SetLoading(false)
		switch {
		case errors.Is(msg.Error, catalog.ErrScanCancelled):
			m.status.SetText("Scan cancelled")
		case errors.Is(msg.Error, catalog.ErrScanBusy):
			m.status.SetText("A scan is already running")
		case msg.Error != nil:
			m.err = msg.Error
		default:
			m.status.SetText(fmt.Sprintf("%d games indexed", msg.Entries))
		}
		return m, m.keepCursor()

	case messages.CatalogChangedMsg:
		return m, m.keepCursor()

	case messages.PreviewTickMsg:
		return m, m.pollPreview()

	case messages.BatchProgressMsg:
		m.status.SetText(fmt.Sprintf("Fetching art %d/%d: %s", msg.Current, msg.Total, msg.Name))
		return m, waitForBatch(m.batch)

	case messages.BatchCompleteMsg:
		m.status.SetLoading(false)
		m.batch = nil
		if msg.Error != nil {
			m.err = msg.Error
		} else {
			m.status.SetText(fmt.Sprintf("Downloaded %d images", msg.Downloaded))
		}
		m.previewPath = ""
		return m, m.refreshPreview()

	case messages.ErrorMsg:
		m.err = msg.Err
	}
	return m, nil
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.catalog.CancelScan()
		m.pipeline.CancelBatch()
		m.pipeline.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.catalog.Navigate(catalog.Prev)
	case key.Matches(msg, m.keys.Down):
		m.catalog.Navigate(catalog.Next)
	case key.Matches(msg, m.keys.PageUp):
		m.catalog.Navigate(catalog.PrevPage)
	case key.Matches(msg, m.keys.PageDown):
		m.catalog.Navigate(catalog.NextPage)
	case key.Matches(msg, m.keys.GotoTop):
		m.catalog.Navigate(catalog.First)
	case key.Matches(msg, m.keys.GotoBottom):
		m.catalog.Navigate(catalog.Last)
	case key.Matches(msg, m.keys.Filter):
		m.mode = common.Search
		m.search.SetValue(m.catalog.Search())
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ClearFilter):
		if m.catalog.SearchActive() {
			m.catalog.ClearSearch()
		}
	case key.Matches(msg, m.keys.NextStation):
		m.cycleStation(1)
	case key.Matches(msg, m.keys.PrevStation):
		m.cycleStation(-1)
	case key.Matches(msg, m.keys.CycleSort):
		m.cycleSort()
	case key.Matches(msg, m.keys.Rescan):
		return m, m.startScan()
	case key.Matches(msg, m.keys.CancelScan):
		m.catalog.CancelScan()
		m.pipeline.CancelBatch()
	case key.Matches(msg, m.keys.FetchPreview):
		return m, m.fetchPreview()
	case key.Matches(msg, m.keys.BatchFetch):
		return m, m.startBatch()
	case key.Matches(msg, m.keys.Select):
		return m, m.selectCurrent()
	}

	return m, m.refreshPreview()
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ExitSearch):
		m.search.Blur()
		m.search.SetValue("")
		m.catalog.ClearSearch()
		m.mode = common.Normal
		return m, m.refreshPreview()
	case key.Matches(msg, m.keys.AcceptSearch):
		m.search.Blur()
		m.mode = common.Normal
		return m, m.refreshPreview()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if text := m.search.Value(); text != m.catalog.Search() {
		if text == "" {
			m.catalog.ClearSearch()
		} else {
			m.catalog.SetSearch(text)
		}
	}
	return m, tea.Batch(cmd, m.refreshPreview())
}

// cycleStation steps the filter through All and every enabled station.
func (m *Model) cycleStation(step int) {
	stations := m.catalog.Stations()
	cur := -1
	for i, st := range stations {
		if st.ID == m.catalog.Filter() {
			cur = i
		}
	}
	n := len(stations) + 1
	next := ((cur+1+step)%n+n)%n - 1
	if next < 0 {
		m.catalog.Browse(catalog.AllStations)
		return
	}
	m.catalog.Browse(stations[next].ID)
}

func (m *Model) cycleSort() {
	modes := catalog.SortModes()
	next := modes[(int(m.catalog.CurrentSort())+1)%len(modes)]
	m.catalog.Sort(next)
	m.status.SetText("Sorted by " + next.String())
}

// keepCursor puts the cursor back on the entry it was on before the view
// was rebuilt, then reloads its art.
func (m *Model) keepCursor() tea.Cmd {
	if m.previewPath != "" {
		m.catalog.SelectEntry(m.previewPath)
	}
	m.previewPath = ""
	return m.refreshPreview()
}

// refreshPreview resolves local art when the cursor moved to another entry.
func (m *Model) refreshPreview() tea.Cmd {
	e, ok := m.catalog.Selected()
	if !ok {
		if m.previewPath != "" {
			m.pipeline.Clear()
			m.previewPath = ""
		}
		return nil
	}
	if e.Path == m.previewPath {
		return nil
	}
	m.previewPath = e.Path
	m.pipeline.LoadLocal(e)
	return nil
}

func (m *Model) fetchPreview() tea.Cmd {
	if m.batch != nil {
		return nil
	}
	e, ok := m.catalog.Selected()
	if !ok {
		return nil
	}
	m.previewPath = e.Path
	m.pipeline.FetchAsync(e)
	m.status.SetText("Fetching art for " + e.Name)
	return tea.Batch(m.status.SetLoading(true), previewTick())
}

func previewTick() tea.Cmd {
	return tea.Tick(previewPollInterval, func(time.Time) tea.Msg {
		return messages.PreviewTickMsg{}
	})
}

func (m *Model) pollPreview() tea.Cmd {
	res, finished := m.pipeline.Poll()
	if !finished {
		return previewTick()
	}
	m.status.SetLoading(false)
	switch res.Status {
	case preview.Ready:
		m.status.SetText("Art ready for " + res.Name)
	case preview.NotFound:
		m.status.SetText("No art found for " + res.Name)
	case preview.NoInternet:
		m.status.SetText("No internet connection")
	case preview.Error:
		m.status.SetText("Art download failed")
	}
	return nil
}

func (m *Model) startScan() tea.Cmd {
	if m.catalog.Scanning() {
		return nil
	}
	filter := m.catalog.Filter()
	svc := m.catalog
	m.status.SetText("Scanning...")

	scan := func() tea.Msg {
		ctx := context.Background()
		var (
			n   int
			err error
		)
		if filter == catalog.AllStations {
			n, err = svc.ScanAll(ctx)
		} else {
			n, err = svc.ScanStation(ctx, filter)
		}
		return messages.ScanCompleteMsg{Entries: n, Error: err}
	}
	return tea.Batch(m.status.SetLoading(true), scan)
}

func (m *Model) startBatch() tea.Cmd {
	if m.batch != nil {
		return nil
	}
	filter := m.catalog.Filter()
	if filter == catalog.AllStations {
		m.err = errors.New("pick a station to fetch art for")
		return nil
	}

	m.pipeline.Clear()
	m.previewPath = ""
	ch := make(chan tea.Msg, 64)
	m.batch = ch
	pipe := m.pipeline

	go func() {
		defer close(ch)
		n, err := pipe.BatchFetch(context.Background(), filter, func(current, total int, name string) {
			select {
			case ch <- messages.BatchProgressMsg{Current: current, Total: total, Name: name}:
			default:
			}
		})
		ch <- messages.BatchCompleteMsg{Downloaded: n, Error: err}
	}()

	m.status.SetText("Fetching art...")
	return tea.Batch(m.status.SetLoading(true), waitForBatch(ch))
}

func waitForBatch(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) selectCurrent() tea.Cmd {
	sel, err := m.catalog.Select()
	if err != nil {
		m.err = err
		return nil
	}

	if m.recorder != nil {
		e, _ := m.catalog.Selected()
		rec := store.Selection{Path: sel.Path, Label: sel.Label, Core: sel.Core}
		if st, err := m.catalog.Station(e.StationID); err == nil {
			rec.Station = st.ShortName
		}
		if err := m.recorder.RecordSelection(context.Background(), rec); err != nil {
			log.LogWithError(err).Warn("failed to record selection")
		}
	}

	m.selection = &sel
	m.pipeline.Close()
	return tea.Quit
}

// Selection returns the entry the user launched, if any.
func (m *Model) Selection() (catalog.Selection, bool) {
	if m.selection == nil {
		return catalog.Selection{}, false
	}
	return *m.selection, true
}

// Getters used by the views

func (m *Model) Page() catalog.Page {
	return m.catalog.Rows()
}

func (m *Model) Mode() common.Mode {
	return m.mode
}

func (m *Model) HelpView() string {
	return m.help.View(m.keys)
}

func (m *Model) Title() string {
	label := "All stations"
	if filter := m.catalog.Filter(); filter != catalog.AllStations {
		label = m.catalog.StationName(filter)
	}
	return fmt.Sprintf("romcat  %s  [%s]  %d games", label, m.catalog.CurrentSort(), m.catalog.ViewLen())
}

func (m *Model) SearchInput() string {
	return m.search.View()
}

func (m *Model) Search() string {
	return m.catalog.Search()
}

func (m *Model) Status() string {
	return m.status.View()
}

func (m *Model) Preview() preview.Result {
	return m.pipeline.Current()
}

func (m *Model) Err() error {
	return m.err
}

func (m *Model) StationName(id int) string {
	return m.catalog.StationName(id)
}

// Run starts the browser and blocks until the user quits or launches a game.
func Run(svc *catalog.Service, pipe *preview.Pipeline, opts ...Option) (catalog.Selection, bool, error) {
	m := New(svc, pipe, opts...)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	// Send blocks while Update runs, and the browser's own edits notify too
	svc.OnChange(func() {
		go prog.Send(messages.CatalogChangedMsg{})
	})

	final, err := prog.Run()
	if err != nil {
		return catalog.Selection{}, false, errors.Wrap(err, "browser failed")
	}
	sel, ok := final.(*Model).Selection()
	return sel, ok, nil
}
