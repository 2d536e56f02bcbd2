package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/birchlabs/folio/pkg/document"
	"github.com/birchlabs/folio/pkg/event"
	"github.com/birchlabs/folio/pkg/input"
	"github.com/birchlabs/folio/pkg/session"
	"github.com/birchlabs/folio/pkg/viewer"
)

// Config wires the shell to its collaborators.
type Config struct {
	Controller *session.Controller
	Screen     *Screen
	Dispatcher *input.KeyCommandDispatcher
	Gestures   *input.GestureInterpreter

	// Path is the document opened on startup.
	Path string

	CaretBrowsing bool
}

// NewProgram returns a new Tea program.
func NewProgram(cfg Config) *tea.Program {
	slog.Debug("starting folio ui")

	m := newModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	cfg.Screen.SetNotify(func() {
		p.Send(refreshMsg{})
	})

	return p
}

// scrollSettleDelay is how long after the last wheel-driven page turn the
// scroll state is considered settled.
const scrollSettleDelay = 300 * time.Millisecond

type (
	refreshMsg  struct{}
	busEventMsg struct {
		evt event.Event
	}
	openResultMsg struct {
		err error
	}
	scrollSettleMsg struct{}
)

type model struct {
	cfg     Config
	sub     *event.Subscription
	scroll  *input.ScrollStateTracker
	spinner spinner.Model

	width  int
	height int

	fileName      string
	title         string
	pageCount     int
	contentLength int64
	errText       string
	opening       bool
}

func newModel(cfg Config) *model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &model{
		cfg:     cfg,
		sub:     cfg.Controller.Bus().Subscribe(16),
		scroll:  input.NewScrollStateTracker(),
		spinner: sp,
		opening: true,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.openDocument(),
		m.waitForEvent(),
	)
}

func (m *model) openDocument() tea.Cmd {
	return func() tea.Msg {
		err := m.cfg.Controller.Open(context.Background(), document.OpenParams{
			Path: m.cfg.Path,
		})

		return openResultMsg{err: err}
	}
}

func (m *model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-m.sub.C()
		if !ok {
			return nil
		}

		return busEventMsg{evt: evt}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cfg.Controller.Bus().Publish(event.Resize{Width: msg.Width, Height: msg.Height})

	case scrollSettleMsg:
		m.scroll.OnSettle(float64(m.cfg.Screen.CurrentPageNumber()), 0)

	case spinner.TickMsg:
		if m.opening {
			var cmd tea.Cmd

			m.spinner, cmd = m.spinner.Update(msg)

			return m, cmd
		}

	case openResultMsg:
		m.opening = false
		if msg.err != nil && m.errText == "" {
			m.errText = msg.err.Error()
		}

	case busEventMsg:
		m.handleEvent(msg.evt)

		return m, m.waitForEvent()

	case refreshMsg:
		// State already changed; returning re-renders the view.

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}

	return m, nil
}

func (m *model) handleEvent(evt event.Event) {
	switch e := evt.(type) {
	case event.DocumentInit:
		m.opening = false
		m.errText = ""
		m.fileName = e.FileName
		m.pageCount = e.Pages
		m.cfg.Gestures.Reset()

	case event.DocumentLoaded:
		m.contentLength = e.ContentLength

	case event.MetadataLoaded:
		m.title = e.Info.Title

	case event.DocumentError:
		m.opening = false
		m.errText = fmt.Sprintf("%s: %v", e.MessageKey, e.Err)
	}
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.sub.Cancel()

		return m, tea.Quit
	}

	if m.errText != "" && msg.Type == tea.KeyEscape {
		m.errText = ""

		return m, nil
	}

	ev, ok := keyEventFor(msg)
	if !ok {
		return m, nil
	}

	cmds, _ := m.cfg.Dispatcher.Dispatch(ev, m.dispatchContext())
	for _, cmd := range cmds {
		m.apply(cmd)
	}

	return m, nil
}

func (m *model) dispatchContext() input.DispatchContext {
	scale := m.cfg.Screen.CurrentScaleValue()

	return input.DispatchContext{
		OverlayActive:    m.errText != "",
		ViewerHasFocus:   true,
		PageFitsViewport: true,
		ScaleIsPageFit:   scale == viewer.ScalePageFit,
		FindBarOpen:      m.cfg.Screen.FindBarOpen(),
		CurrentPage:      m.cfg.Screen.CurrentPageNumber(),
		PageCount:        m.pageCount,
		SupportsFind:     true,

		SupportsCaretBrowsing: m.cfg.CaretBrowsing,
	}
}

// apply unwraps deferred commands immediately: the terminal has no competing
// platform zoom to wait out.
func (m *model) apply(cmd viewer.Command) {
	if d, ok := cmd.(input.Deferred); ok {
		cmd = d.Cmd
	}

	m.cfg.Screen.Apply(cmd)
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	me := tea.MouseEvent(msg)
	if me.Action != tea.MouseActionPress {
		return nil
	}

	ev := input.WheelEvent{
		DeltaMode: input.DeltaLine,
		CtrlKey:   me.Ctrl,
		ClientX:   float64(me.X),
		ClientY:   float64(me.Y),
	}

	switch me.Button {
	case tea.MouseButtonWheelUp:
		ev.DeltaY = -1
	case tea.MouseButtonWheelDown:
		ev.DeltaY = 1
	case tea.MouseButtonWheelLeft:
		ev.DeltaX = -1
	case tea.MouseButtonWheelRight:
		ev.DeltaX = 1
	default:
		return nil
	}

	env := input.GestureEnv{
		CtrlPhysicallyDown: m.cfg.Dispatcher.CtrlDown(),
		Scrolling:          m.scroll.IsScrolling(),
		OverlayActive:      m.errText != "",
		CurrentScale:       m.cfg.Screen.ScaleFactor(),
	}

	cmd, handled := m.cfg.Gestures.ClassifyWheel(ev, env)
	if handled {
		if cmd != nil {
			m.cfg.Screen.Apply(cmd)
		}

		return nil
	}

	// Ordinary scroll turns pages in the text shell.
	if ev.DeltaY != 0 {
		m.cfg.Screen.Apply(viewer.TurnPage{Delta: int(ev.DeltaY)})
	}

	// Zoom gestures returned above, so this observation is never zoom-driven.
	started := m.scroll.OnScroll(float64(m.cfg.Screen.CurrentPageNumber()), 0, false)
	if !started {
		return nil
	}

	return tea.Tick(scrollSettleDelay, func(time.Time) tea.Msg {
		return scrollSettleMsg{}
	})
}

func (m *model) View() string {
	if m.width == 0 {
		return ""
	}

	bodyHeight := max(1, m.height-1)

	var body string

	switch {
	case m.errText != "":
		body = m.renderOverlay(m.errText, bodyHeight)
	case m.opening:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" opening document",
		)
	default:
		body = m.renderPage(bodyHeight)
	}

	return body + "\n" + m.statusBarView()
}

var pageBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(1, 4)

func (m *model) renderPage(height int) string {
	title := m.title
	if title == "" {
		title = m.fileName
	}

	content := fmt.Sprintf("%s\n\npage %d of %d",
		title, m.cfg.Screen.CurrentPageNumber(), m.pageCount)

	if m.cfg.Screen.FindBarOpen() {
		content += "\n\n/ find"
	}

	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
		pageBoxStyle.Render(content),
	)
}

var errorBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.ThickBorder()).
	BorderForeground(lipgloss.Color("#FF5555")).
	Padding(1, 2)

func (m *model) renderOverlay(text string, height int) string {
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
		errorBoxStyle.Render(text+"\n\nesc to dismiss"),
	)
}

func (m *model) statusBarView() string {
	var pos []string

	if m.pageCount > 0 {
		pos = append(pos, fmt.Sprintf("%d/%d", m.cfg.Screen.CurrentPageNumber(), m.pageCount))
	}

	pos = append(pos, m.cfg.Screen.StatusScale())

	if r := m.cfg.Screen.PagesRotation(); r != 0 {
		pos = append(pos, fmt.Sprintf("%d°", int(r)))
	}

	if m.contentLength > 0 {
		pos = append(pos, humanize.Bytes(uint64(m.contentLength))) //nolint:gosec // Non-negative.
	}

	return statusBar{
		note:    m.fileName,
		pos:     strings.Join(pos, " · "),
		width:   m.width,
		isError: m.errText != "",
	}.render()
}
