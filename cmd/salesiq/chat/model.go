// Package chat provides the interactive TUI for salesiq: a question
// prompt, a scrolling history, and rendered answers. The TUI is a thin
// front end — it submits one question at a time to the pipeline and
// renders either the error rendering or the success rendering.
package chat

import (
	"context"
	"strings"

	"salesiq/internal/pipeline"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// SubmitFunc drives one question through the pipeline.
type SubmitFunc func(ctx context.Context, question string) (*pipeline.State, error)

// Message is one entry in the conversation history.
type Message struct {
	Role    string // "user", "assistant", "error"
	Content string
}

// askResultMsg carries a terminal pipeline state back into the update loop.
type askResultMsg struct {
	state *pipeline.State
	err   error
}

// Model is the bubbletea model for the chat interface.
type Model struct {
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer
	styles    Styles

	submit   SubmitFunc
	history  []Message
	thinking bool
	ready    bool
	width    int
	height   int
}

// New creates the chat model around a submit function.
func New(submit SubmitFunc) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "Ask about the sales data..."
	ti.Focus()
	ti.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return Model{}, err
	}

	return Model{
		textinput: ti,
		spinner:   sp,
		renderer:  renderer,
		styles:    DefaultStyles(),
		submit:    submit,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			question := strings.TrimSpace(m.textinput.Value())
			if question == "" || m.thinking {
				return m, nil
			}
			m.history = append(m.history, Message{Role: "user", Content: question})
			m.textinput.Reset()
			m.thinking = true
			m.refreshViewport()
			return m, tea.Batch(m.spinner.Tick, m.submitCmd(question))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 5 // header, input, footer
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case askResultMsg:
		m.thinking = false
		m.history = append(m.history, m.resultMessage(msg))
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	var tiCmd, vpCmd tea.Cmd
	m.textinput, tiCmd = m.textinput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// submitCmd runs the pipeline off the UI goroutine.
func (m Model) submitCmd(question string) tea.Cmd {
	submit := m.submit
	return func() tea.Msg {
		state, err := submit(context.Background(), question)
		return askResultMsg{state: state, err: err}
	}
}

// resultMessage converts a terminal state (or fault) into a history entry.
func (m Model) resultMessage(msg askResultMsg) Message {
	if msg.err != nil {
		return Message{Role: "error", Content: msg.err.Error()}
	}
	state := msg.state
	if state.Failed() {
		return Message{Role: "error", Content: state.Err}
	}
	switch state.Intent {
	case pipeline.IntentFactSQL:
		return Message{Role: "assistant", Content: rowsToMarkdown(state.Results)}
	case pipeline.IntentSummary:
		return Message{Role: "assistant", Content: state.FinalAnswer}
	default:
		return Message{Role: "assistant", Content: "_I couldn't tell whether that needs a lookup or a summary. Try rephrasing._"}
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(submit SubmitFunc) error {
	m, err := New(submit)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
