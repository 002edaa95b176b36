package ui

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"photogrid/internal/config"
	"photogrid/internal/debounce"
	"photogrid/internal/domain"
	"photogrid/internal/eventbus"
	"photogrid/internal/imageloader"
	"photogrid/internal/layout"
	"photogrid/internal/search"
	"photogrid/internal/snapshot"
	"photogrid/internal/ui/views"
)

// StatusTTL is how long a status message stays on screen
const StatusTTL = 3 * time.Second

const (
	resultsSection = "results"
	prefetchCount  = 20
)

// preview is the photo shown in the preview popup
type preview struct {
	photo   domain.Photo
	url     string
	img     image.Image
	err     error
	loading bool
}

// stats counts pipeline events for the status bar
type stats struct {
	dispatched int
	discarded  int
	failed     int
	images     int
}

// Model represents the UI state
type Model struct {
	bus       eventbus.EventBus
	config    *config.Config
	log       zerolog.Logger
	pipeline  *search.Pipeline
	debouncer *debounce.Debouncer
	images    *imageloader.Loader
	rng       *rand.Rand

	width    int
	height   int
	screen   Screen
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	viewport viewport.Model
	styles   *views.Styles
	results  *views.ResultRenderer
	popup    *views.PopupRenderer
	helpText *HelpRenderer

	data     *snapshot.DataSource[string, int]
	current  domain.ResultSet
	selected int
	mosaic   bool
	preview  *preview
	demos    map[Screen]*demoState

	status    string
	statusErr bool
	statusID  int
	stats     stats

	paused   bool
	quitting bool

	// Program reference for terminal management
	program *tea.Program
}

// ModelOption configures optional collaborators of the model
type ModelOption func(*Model)

// WithImageLoader enables photo previews
func WithImageLoader(l *imageloader.Loader) ModelOption {
	return func(m *Model) { m.images = l }
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) ModelOption {
	return func(m *Model) { m.log = log.With().Str("component", "ui").Logger() }
}

// WithRand sets the random source used by the demo shuffle
func WithRand(r *rand.Rand) ModelOption {
	return func(m *Model) { m.rng = r }
}

// NewModel creates a new UI model. The model owns pipeline and closes it on quit.
func NewModel(bus eventbus.EventBus, cfg *config.Config, pipeline *search.Pipeline, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	in := textinput.New()
	in.Placeholder = "Search photos"
	in.Prompt = "🔍 "
	in.CharLimit = 100
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	styles := views.NewStyles()
	m := &Model{
		bus:       bus,
		config:    cfg,
		log:       zerolog.Nop(),
		pipeline:  pipeline,
		debouncer: debounce.New(cfg.Debounce()),
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		screen:    ParseScreen(cfg.UI.StartScreen),
		input:     in,
		spinner:   sp,
		help:      help.New(),
		keys:      newKeyMap(),
		viewport:  viewport.New(80, 20),
		styles:    styles,
		results:   views.NewResultRenderer(styles),
		popup:     views.NewPopupRenderer(styles),
		helpText:  NewHelpRenderer(),
		data:      snapshot.NewDataSource[string, int](),
		demos:     map[Screen]*demoState{},
	}
	for _, opt := range opts {
		opt(m)
	}

	m.demos[ScreenGrid] = newDemoState(layout.Grid())
	m.demos[ScreenSections] = newDemoState(layout.MultipleSections())
	m.demos[ScreenNested] = newDemoState(layout.NestedGroups())
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-8)
		m.resizeViewport()
		m.refreshBody()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceMsg:
		return m, m.settle(msg.ticket)

	case searchResultMsg:
		return m, m.complete(msg.outcome)

	case spinner.TickMsg:
		if m.pipeline.State() != search.StateRequesting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case imageLoadedMsg:
		if m.preview != nil && m.preview.url == msg.url {
			m.preview.loading = false
			m.preview.img = msg.img
			m.preview.err = msg.err
		}
		return m, nil

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case EventMsg:
		m.countEvent(msg.Event)
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			return m, m.setStatus(fmt.Sprintf("help: %v", msg.err), true)
		}
		return m, nil

	case pauseRenderingMsg:
		m.paused = true
		return m, nil

	case resumeRenderingMsg:
		m.paused = false
		return m, nil
	}

	var cmd tea.Cmd
	if m.screen == ScreenSearch {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.NextScreen):
		m.switchScreen(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevScreen):
		m.switchScreen(-1)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		return m, m.showHelp()
	case key.Matches(msg, m.keys.FullHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeViewport()
		m.refreshBody()
		return m, nil
	}

	if m.screen == ScreenSearch {
		return m.handleSearchKey(msg)
	}
	return m.handleDemoKey(msg)
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		if m.preview != nil {
			m.preview = nil
			return m, nil
		}
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-max(1, m.viewport.Height))
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(max(1, m.viewport.Height))
		return m, nil
	case key.Matches(msg, m.keys.Mosaic):
		m.mosaic = !m.mosaic
		m.refreshBody()
		return m, nil
	case key.Matches(msg, m.keys.Preview):
		return m, m.openPreview()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.push(m.input.Value()))
}

func (m *Model) handleDemoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.demos[m.screen]
	if d == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.QuitDemo):
		return m, m.quit()
	case key.Matches(msg, m.keys.Up):
		d.focus(-1)
	case key.Matches(msg, m.keys.Down):
		d.focus(1)
	case key.Matches(msg, m.keys.Left):
		d.page(-1, m.demoEnv())
	case key.Matches(msg, m.keys.Right):
		d.page(1, m.demoEnv())
	case key.Matches(msg, m.keys.Shuffle):
		ch := d.shuffle(m.rng)
		m.refreshBody()
		return m, m.setStatus(fmt.Sprintf("applied %d moves", len(ch.Moves)), false)
	default:
		return m, nil
	}
	m.refreshBody()
	return m, nil
}

// push feeds the field value to the debouncer and schedules its settle check
func (m *Model) push(value string) tea.Cmd {
	ticket := m.debouncer.Push(value)
	return tea.Tick(m.debouncer.Quiet(), func(time.Time) tea.Msg {
		return debounceMsg{ticket: ticket}
	})
}

// settle dispatches the term for ticket if it is still the newest input
func (m *Model) settle(ticket debounce.Ticket) tea.Cmd {
	term, ok := m.debouncer.Settle(ticket)
	if !ok {
		return nil
	}
	req, fetch := m.pipeline.Dispatch(term)
	if !fetch {
		return nil
	}
	p := m.pipeline
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return searchResultMsg{outcome: p.Execute(req)} },
	)
}

// complete applies a finished request on the UI loop
func (m *Model) complete(o search.Outcome) tea.Cmd {
	rs, verdict := m.pipeline.Complete(o)
	defer m.pipeline.Retire()

	switch verdict {
	case search.Accepted:
		changes := m.applyResults(rs)
		return tea.Batch(
			m.setStatus(fmt.Sprintf("%d photos for %q (%d new)", rs.Len(), rs.Term, len(changes.Inserts)), false),
			m.prefetch(),
		)
	case search.Failed:
		return m.setStatus(fmt.Sprintf("search failed: %v", o.Err), true)
	default:
		return nil
	}
}

func (m *Model) applyResults(rs domain.ResultSet) snapshot.Changes[int] {
	var keep int
	hasKeep := false
	if m.selected < m.current.Len() {
		keep, hasKeep = m.current.Items[m.selected].ID, true
	}

	snap := snapshot.New[string, int]()
	_ = snap.AppendSections(resultsSection)
	_ = snap.AppendItems(rs.IDs(), resultsSection)
	changes := m.data.Apply(snap)
	m.current = rs

	m.selected = 0
	if hasKeep {
		if p, ok := snap.IndexPath(keep); ok {
			m.selected = p.Item
		}
	}
	m.viewport.GotoTop()
	m.refreshBody()
	return changes
}

func (m *Model) prefetch() tea.Cmd {
	if m.images == nil || !m.config.UI.Prefetch {
		return nil
	}
	var urls []string
	for i, p := range m.current.Items {
		if i >= prefetchCount {
			break
		}
		urls = append(urls, thumbnailURL(p))
	}
	images := m.images
	return func() tea.Msg {
		images.Prefetch(urls)
		return nil
	}
}

func thumbnailURL(p domain.Photo) string {
	if p.PreviewURL != "" {
		return p.PreviewURL
	}
	return p.URL
}

func (m *Model) openPreview() tea.Cmd {
	if m.selected >= m.current.Len() {
		return nil
	}
	photo := m.current.Items[m.selected]
	url := thumbnailURL(photo)
	m.preview = &preview{photo: photo, url: url}

	if m.images == nil || !m.config.UI.Thumbnails {
		return nil
	}
	if img, ok := m.images.Cached(url); ok {
		m.preview.img = img
		return nil
	}
	m.preview.loading = true
	images := m.images
	return func() tea.Msg {
		img, err := images.Load(context.Background(), url)
		return imageLoadedMsg{url: url, img: img, err: err}
	}
}

func (m *Model) moveSelection(delta int) {
	n := m.current.Len()
	if n == 0 {
		return
	}
	m.selected = min(max(m.selected+delta, 0), n-1)
	m.refreshBody()
}

func (m *Model) switchScreen(delta int) {
	m.screen = Screen((int(m.screen) + delta + int(screenCount)) % int(screenCount))
	if m.screen == ScreenSearch {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	m.resizeViewport()
	m.viewport.GotoTop()
	m.refreshBody()
}

// setStatus shows text and schedules its removal
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusID++
	id := m.statusID
	m.status = text
	m.statusErr = isErr
	return tea.Tick(StatusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m *Model) countEvent(e eventbus.DomainEvent) {
	switch e.(type) {
	case eventbus.SearchDispatchedEvent:
		m.stats.dispatched++
	case eventbus.ResponseDiscardedEvent:
		m.stats.discarded++
	case eventbus.SearchFailedEvent:
		m.stats.failed++
	case eventbus.ImageFailedEvent:
		m.stats.images++
	}
}

func (m *Model) showHelp() tea.Cmd {
	if m.program == nil {
		m.help.ShowAll = !m.help.ShowAll
		m.resizeViewport()
		return nil
	}
	return m.fetchHelpPager(m.helpText.RenderHelpContent())
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	program := m.program
	return func() tea.Msg {
		// Send pause message to stop rendering
		program.Send(pauseRenderingMsg{})

		err := NewHelpOps(program).ShowHelpInPager(helpContent)

		// Send resume message to restart rendering
		program.Send(resumeRenderingMsg{})

		return helpPagerMsg{err: err}
	}
}

func (m *Model) quit() tea.Cmd {
	m.log.Info().Uint64("latest_seq", m.pipeline.Latest()).Msg("quitting")
	m.quitting = true
	m.pipeline.Close()
	return tea.Quit
}

// chromeHeight is the number of lines around the body
func (m *Model) chromeHeight() int {
	h := 3 // tabs, status, help
	if m.screen == ScreenSearch {
		h += 2 // input and a blank line
	}
	if m.help.ShowAll {
		h += 3
	}
	return h
}

func (m *Model) resizeViewport() {
	m.viewport.Width = max(1, m.width-2)
	m.viewport.Height = max(1, m.height-m.chromeHeight())
}

func (m *Model) demoEnv() layout.Environment {
	return layout.TerminalEnvironment(max(1, m.viewport.Width), max(1, m.viewport.Height))
}

// refreshBody re-renders the scrollable body for the current screen
func (m *Model) refreshBody() {
	if m.width == 0 {
		return
	}
	if m.screen == ScreenSearch {
		m.refreshResults()
		return
	}
	d := m.demos[m.screen]
	if d == nil {
		return
	}
	env := m.demoEnv()
	snap := d.data.Snapshot()
	m.viewport.SetContent(d.demo.Render(snap, env, d.pages, nil))

	frames := d.demo.Frames(snap, env)
	if d.section < len(frames) {
		m.ensureVisible(int(frames[d.section].Bounds.Y/env.PointsPerRow), int(frames[d.section].Bounds.H/env.PointsPerRow))
	}
}

func (m *Model) refreshResults() {
	items := m.current.Items
	if !m.mosaic {
		m.viewport.SetContent(m.results.RenderList(items, m.selected, m.viewport.Width))
		m.ensureVisible(m.selected, 1)
		return
	}

	env := layout.TerminalEnvironment(m.viewport.Width, m.viewport.Height)
	sf := layout.Resolve(layout.PhotoSearchSection(), env, len(items))
	p := layout.NewPainter(env, layout.Teal)
	p.Selected = &layout.IndexPath{Section: 0, Item: m.selected}
	p.Label = func(_, item int) string {
		if item < len(items) {
			return fmt.Sprintf("%d", items[item].ID)
		}
		return ""
	}
	m.viewport.SetContent(p.Paint([]layout.SectionFrame{sf}))
	if m.selected < len(sf.Items) {
		r := sf.Items[m.selected].Rect
		m.ensureVisible(int(r.Y/env.PointsPerRow), max(1, int(r.H/env.PointsPerRow)))
	}
}

// ensureVisible scrolls so that rows [row, row+height) are on screen
func (m *Model) ensureVisible(row, height int) {
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height
	switch {
	case row < top:
		m.viewport.SetYOffset(row)
	case row+height > bottom:
		m.viewport.SetYOffset(max(row, row+height-m.viewport.Height))
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting || m.paused {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(views.RenderTabs(m.styles, screenNames, int(m.screen)))
	b.WriteString("\n")

	if m.screen == ScreenSearch {
		b.WriteString(m.input.View())
		if m.pipeline.State() == search.StateRequesting {
			b.WriteString(" " + m.spinner.View())
		}
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.Main.Render(m.body()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys.forScreen(m.screen))))
	return b.String()
}

func (m *Model) body() string {
	if m.screen == ScreenSearch && m.preview != nil {
		return m.popup.RenderCentered(m.previewContent(), m.viewport.Width, m.viewport.Height)
	}
	return m.viewport.View()
}

func (m *Model) previewContent() string {
	p := m.preview
	cols := min(48, max(8, m.viewport.Width/2))
	rows := max(3, min(m.viewport.Height-8, cols/3))

	var art string
	switch {
	case p.loading:
		art = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, m.spinner.View()+" loading")
	case p.img != nil:
		art = imageloader.Thumbnail(p.img, cols, rows)
	default:
		art = imageloader.Placeholder(cols, rows)
	}
	return art + "\n" + m.results.RenderDetails(p.photo)
}

func (m *Model) statusLine() string {
	left := ""
	switch {
	case m.status != "" && m.statusErr:
		left = m.styles.StatusError.Render(m.status)
	case m.status != "":
		left = m.styles.StatusSuccess.Render(m.status)
	case m.screen == ScreenSearch && m.pipeline.State() == search.StateRequesting:
		left = m.styles.StatusLoading.Render("searching…")
	case m.screen != ScreenSearch:
		if d := m.demos[m.screen]; d != nil && len(d.demo.Sections) > 0 {
			left = m.styles.Status.Render(fmt.Sprintf("section %q, page %d", d.demo.Sections[d.section], d.pages[d.section]+1))
		}
	}

	right := ""
	if m.screen == ScreenSearch {
		right = m.styles.Stats.Render(fmt.Sprintf("%d photos · %d sent · %d discarded · %d failed",
			m.current.Len(), m.stats.dispatched, m.stats.discarded, m.stats.failed))
	}
	return views.RenderStatusBar(left, right, m.width)
}
