package bubbletea

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fwojciec/relay"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the relay TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	send    SendFunc
	sender  string
	theme   relay.Theme
	styles  Styles
	spinner spinner.Model

	blocks []MessageBlock
	// progress is the current turn's progress block. It stays in the
	// transcript after the turn resolves so a failure still shows how far
	// the backend got.
	progress *ProgressBlock

	running  bool
	cancel   context.CancelFunc
	updateCh chan relay.Update
	resultCh chan relay.Outcome
	ready    bool
}

// New creates a new TUI Model with the given send function, sender name,
// and theme.
func New(send SendFunc, sender string, theme relay.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	styles := NewStyles(theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Accent))

	return Model{
		Input:   ti,
		send:    send,
		sender:  sender,
		theme:   theme,
		styles:  styles,
		spinner: sp,
	}
}

// Running returns whether a delivery is currently in flight.
func (m Model) Running() bool { return m.running }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		if m.progress != nil {
			m.progress.Append(msg.Update)
		}
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.updateCh != nil {
			return m, listenForUpdate(m.updateCh, m.resultCh)
		}
		return m, nil

	case ResultMsg:
		m = m.finishTurn(msg.Outcome)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components.
	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	// Output area.
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")

	// Status line.
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	// Input area.
	b.WriteString(m.Input.View())

	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusHeight - borderHeight

	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)
	}

	// When idle, pass keys to both the input (for typing) and viewport
	// (for scrolling). Only forward non-character keys to viewport to avoid
	// conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")

	m.blocks = append(m.blocks, NewUserMessageBlock(m.sender, text, m.styles))
	m.progress = NewProgressBlock(m.styles)
	m.blocks = append(m.blocks, m.progress)
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	// Set up channels and context for the delivery.
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.updateCh = make(chan relay.Update, 256)
	m.resultCh = make(chan relay.Outcome, 1)
	m.running = true

	m.Input.Blur()

	q := relay.Query{Text: text, Sender: m.sender}

	return m, tea.Batch(
		startSend(m.send, ctx, q, m.updateCh, m.resultCh),
		listenForUpdate(m.updateCh, m.resultCh),
		m.spinner.Tick,
	)
}

// finishTurn resolves the in-flight delivery into transcript blocks.
func (m Model) finishTurn(out relay.Outcome) Model {
	m.running = false
	m.cancel = nil
	m.updateCh = nil
	m.resultCh = nil

	// Drop the progress block if nothing ever reached it, so a pure batch
	// turn leaves no empty gap in the transcript.
	if m.progress != nil && m.progress.Empty() {
		for i := len(m.blocks) - 1; i >= 0; i-- {
			if m.blocks[i] == m.progress {
				m.blocks = append(m.blocks[:i], m.blocks[i+1:]...)
				break
			}
		}
	}
	m.progress = nil

	if out.OK() {
		m.blocks = append(m.blocks, NewAnswerBlock(out.Result, m.theme, m.styles))
	} else {
		m.blocks = append(m.blocks, NewFailureBlock(out, m.styles))
	}
	return m
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.running {
		return m.spinner.View() + m.styles.Muted.Render("Waiting for response... (Ctrl+C to cancel)")
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+C to quit")
}

// startSend runs the delivery in a goroutine. The sink bridges progress
// updates and the terminal outcome onto the model's channels; closing
// updateCh after the send returns signals listenForUpdate to read the
// outcome.
func startSend(send SendFunc, ctx context.Context, q relay.Query, updateCh chan relay.Update, resultCh chan relay.Outcome) tea.Cmd {
	return func() tea.Msg {
		send(ctx, q, &channelSink{ctx: ctx, updateCh: updateCh, resultCh: resultCh})
		close(updateCh)
		return nil
	}
}

// listenForUpdate waits for the next progress update from the channel.
// When the channel closes, it reads the outcome from resultCh and returns
// ResultMsg.
func listenForUpdate(updateCh <-chan relay.Update, resultCh <-chan relay.Outcome) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updateCh
		if !ok {
			return ResultMsg{Outcome: <-resultCh}
		}
		return ProgressMsg{Update: u}
	}
}

var _ relay.Sink = (*channelSink)(nil)

// channelSink forwards sink callbacks onto the model's channels.
type channelSink struct {
	ctx      context.Context
	updateCh chan<- relay.Update
	resultCh chan<- relay.Outcome
}

func (s *channelSink) Progress(u relay.Update) {
	select {
	case s.updateCh <- u:
	case <-s.ctx.Done():
	}
}

// Result never blocks: resultCh is buffered and receives exactly one
// outcome per delivery.
func (s *channelSink) Result(out relay.Outcome) {
	s.resultCh <- out
}
