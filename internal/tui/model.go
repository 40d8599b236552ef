// Package tui is a terminal article reader: the rendered post scrolls in a
// viewport next to its table of contents, whose highlight follows the
// scroll position.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jinkyeom/sciencestop/internal/categories"
	"github.com/jinkyeom/sciencestop/internal/postservice"
	"github.com/jinkyeom/sciencestop/internal/scrollspy"
)

// Rows below the viewport top in which a heading can become active.
const (
	sectionBand  = 3
	sidebarWidth = 30
	chromeRows   = 3 // title, meta, help
)

// Source loads rendered posts.
type Source interface {
	Get(ctx context.Context, slug string) (*postservice.PostDetail, error)
}

// postLoaded carries a load result back to the model. seq identifies the
// navigation that started it.
type postLoaded struct {
	seq  uint64
	slug string
	post *postservice.PostDetail
	err  error
}

// Model is the reader's bubbletea model.
type Model struct {
	ctx    context.Context
	src    Source
	keys   KeyMap
	styles *Styles

	viewport viewport.Model
	tracker  *scrollspy.Tracker

	slug   string
	post   *postservice.PostDetail
	text   Text
	active string

	// seq increments on every navigation; results from older loads are
	// dropped. cancel aborts the load in flight.
	seq     uint64
	cancel  context.CancelFunc
	loading bool
	err     error

	width  int
	height int
	ready  bool
}

// New creates a reader that opens slug first.
func New(ctx context.Context, src Source, slug string) *Model {
	return &Model{
		ctx:      ctx,
		src:      src,
		keys:     DefaultKeyMap(),
		styles:   DefaultStyles(),
		viewport: viewport.New(0, 0),
		tracker:  scrollspy.NewTracker(nil, scrollspy.WithBand(sectionBand), scrollspy.WithBottomSlack(0)),
		slug:     slug,
	}
}

// Init starts loading the first post.
func (m *Model) Init() tea.Cmd {
	return m.open(m.slug)
}

// open cancels any load in flight and starts loading slug.
func (m *Model) open(slug string) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	m.seq++
	seq := m.seq
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.loading = true
	m.slug = slug

	src := m.src
	return func() tea.Msg {
		post, err := src.Get(ctx, slug)
		return postLoaded{seq: seq, slug: slug, post: post, err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case postLoaded:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.cancel = nil
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				m.err = msg.err
			}
			return m, nil
		}
		m.err = nil
		m.post = msg.post
		m.active = ""
		m.tracker.Reset(msg.post.TOC)
		m.relayout()
		m.viewport.GotoTop()
		m.spy()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Newer):
			if m.post != nil && m.post.Previous != nil {
				return m, m.open(m.post.Previous.Slug)
			}
			return m, nil
		case key.Matches(msg, m.keys.Older):
			if m.post != nil && m.post.Next != nil {
				return m, m.open(m.post.Next.Slug)
			}
			return m, nil
		case key.Matches(msg, m.keys.NextSection):
			m.jump(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevSection):
			m.jump(-1)
			return m, nil
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			m.spy()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			m.spy()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.spy()
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.ready = true
	m.viewport.Width = max(width-sidebarWidth-1, 20)
	m.viewport.Height = max(height-chromeRows, 1)
	m.relayout()
	m.spy()
}

// relayout lays the post out for the current width.
func (m *Model) relayout() {
	if m.post == nil || !m.ready {
		return
	}
	text, err := Layout(m.post.HTML, m.viewport.Width)
	if err != nil {
		m.err = fmt.Errorf("tui: layout: %w", err)
		return
	}
	m.text = text

	rows := make([]string, len(text.Lines))
	for i, l := range text.Lines {
		rows[i] = m.styles.line(l)
	}
	m.viewport.SetContent(strings.Join(rows, "\n"))
}

// spy feeds the current scroll position, in rows, to the tracker.
func (m *Model) spy() {
	if m.post == nil || !m.ready {
		return
	}
	s := scrollspy.Snapshot{
		ScrollY:        float64(m.viewport.YOffset),
		ViewportHeight: float64(m.viewport.Height),
		ScrollHeight:   float64(len(m.text.Lines)),
		Headings:       make([]scrollspy.Position, len(m.text.Anchors)),
	}
	for i, a := range m.text.Anchors {
		s.Headings[i] = scrollspy.Position{ID: a.ID, Top: float64(a.Row - m.viewport.YOffset)}
	}
	if id, changed := m.tracker.Observe(s); changed {
		m.active = id
	}
}

// jump scrolls so the next (dir > 0) or previous heading sits at the top.
func (m *Model) jump(dir int) {
	y := m.viewport.YOffset
	target := -1
	if dir > 0 {
		for _, a := range m.text.Anchors {
			if a.Row > y {
				target = a.Row
				break
			}
		}
	} else {
		for i := len(m.text.Anchors) - 1; i >= 0; i-- {
			if a := m.text.Anchors[i]; a.Row < y {
				target = a.Row
				break
			}
		}
		if target < 0 && y > 0 {
			target = 0
		}
	}
	if target < 0 {
		return
	}
	m.viewport.SetYOffset(target)
	m.spy()
}

// Active returns the highlighted heading id.
func (m *Model) Active() string { return m.active }

// Post returns the post on screen.
func (m *Model) Post() *postservice.PostDetail { return m.post }

// Err returns the last load error.
func (m *Model) Err() error { return m.err }

// View renders the reader.
func (m *Model) View() string {
	if !m.ready {
		return ""
	}
	var b strings.Builder

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(m.help())
		return b.String()
	case m.post == nil:
		b.WriteString(m.styles.Meta.Render("Loading " + m.slug + "..."))
		return b.String()
	}

	b.WriteString(m.styles.Title.Render(m.post.Title))
	b.WriteString("\n")
	b.WriteString(m.styles.Meta.Render(m.meta()))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.sidebar()))
	b.WriteString("\n")
	b.WriteString(m.help())
	return b.String()
}

func (m *Model) meta() string {
	parts := []string{m.post.Published.Format("2006-01-02")}
	for _, id := range m.post.Categories {
		if l := categories.Label(id); l != "" {
			parts = append(parts, l)
		}
	}
	for _, t := range m.post.Tags {
		parts = append(parts, "#"+t)
	}
	if m.loading {
		parts = append(parts, "loading...")
	}
	return strings.Join(parts, " · ")
}

func (m *Model) sidebar() string {
	inner := sidebarWidth - 2
	rows := []string{m.styles.Meta.Render("Contents")}
	for _, h := range m.post.TOC {
		indent := ""
		if h.Level == 3 {
			indent = "  "
		}
		label := truncate(indent+h.Text, inner-2)
		if h.ID == m.active {
			rows = append(rows, m.styles.Active.Render("▸ "+label))
		} else {
			rows = append(rows, m.styles.TOC.Render("  "+label))
		}
	}
	return m.styles.Sidebar.Height(m.viewport.Height).Width(inner).Render(strings.Join(rows, "\n"))
}

func (m *Model) help() string {
	var parts []string
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, "["+h.Key+"] "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, "  "))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if lipgloss.Width(s) <= width {
		return s
	}
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// Run opens slug in a full-screen reader until the user quits or ctx ends.
func Run(ctx context.Context, src Source, slug string) error {
	p := tea.NewProgram(New(ctx, src, slug),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
