package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// inputClosedMsg reports that the input stream has ended.
type inputClosedMsg struct{}

// promptModel is the Bubble Tea model behind the play console: a single
// action prompt whose submitted lines are queued for the waiting agent.
type promptModel struct {
	input  textinput.Model
	lines  chan string
	closed bool
}

func newPromptModel() *promptModel {
	ti := textinput.New()
	ti.Placeholder = "fold, check, call, bet 10, raise 20, allin, quit"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 64
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	return &promptModel{
		input: ti,
		// Lines typed ahead of a decision wait here.
		lines: make(chan string, 128),
	}
}

func (m *promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inputClosedMsg:
		m.close()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.close()
			return m, nil
		case tea.KeyEnter, tea.KeyCtrlJ:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if m.closed {
				return m, nil
			}
			m.lines <- line
			return m, tea.Println(dimStyle.Render("> " + line))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *promptModel) View() string {
	if m.closed {
		return ""
	}
	return m.input.View() + "\n"
}

func (m *promptModel) close() {
	if !m.closed {
		m.closed = true
		close(m.lines)
	}
}

// console runs the prompt program for the length of a session. Everything
// written to it is printed above the prompt so narration and input do not
// interleave.
type console struct {
	program *tea.Program
	model   *promptModel
	done    chan struct{}

	mu      sync.Mutex
	pending bytes.Buffer
}

// newConsole creates a console reading keys from in and rendering to out.
// A terminal on stdin is handed to Bubble Tea directly; any other reader is
// watched for end of input, which closes the prompt.
func newConsole(in io.Reader, out io.Writer) *console {
	c := &console{model: newPromptModel(), done: make(chan struct{})}
	if f, ok := in.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		in = &eofReader{r: in, onEOF: func() { c.program.Send(inputClosedMsg{}) }}
	}
	c.program = tea.NewProgram(c.model,
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)
	return c
}

// Start runs the program in the background.
func (c *console) Start() {
	go func() {
		defer close(c.done)
		_, _ = c.program.Run()
	}()
}

// Close stops the program and waits for its final render.
func (c *console) Close() error {
	c.flush(true)
	c.program.Quit()
	<-c.done
	return nil
}

// ReadLine blocks for the next submitted line. It returns false once input
// has closed.
func (c *console) ReadLine() (string, bool) {
	line, ok := <-c.model.lines
	return line, ok
}

// Write prints complete lines above the prompt. A trailing partial line is
// held until it is finished or the console closes.
func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	c.pending.Write(p)
	c.mu.Unlock()
	c.flush(false)
	return len(p), nil
}

func (c *console) flush(all bool) {
	c.mu.Lock()
	var lines []string
	for {
		line, err := c.pending.ReadString('\n')
		if errors.Is(err, io.EOF) {
			if all && line != "" {
				lines = append(lines, line)
			} else {
				c.pending.WriteString(line)
			}
			break
		}
		lines = append(lines, strings.TrimSuffix(line, "\n"))
	}
	c.mu.Unlock()
	for _, line := range lines {
		c.program.Send(tea.Println(line)())
	}
}

// eofReader calls onEOF once when r is exhausted. Bubble Tea delivers the
// keys from each read before reading again, so the notification arrives
// after every line that preceded it.
type eofReader struct {
	r     io.Reader
	onEOF func()
	once  sync.Once
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) {
		e.once.Do(e.onEOF)
	}
	return n, err
}
