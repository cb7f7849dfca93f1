// Package tui bridges the interpreter's blocking Terminal/SaveHandler/
// stream.Sink collaborators onto a bubbletea program: the interpreter runs
// to completion on its own goroutine, exchanging messages with the UI
// goroutine over channels.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nwidger/zif/machine"
	"github.com/nwidger/zif/state"
	"github.com/nwidger/zif/story"
)

// readLineRequest/readCharRequest/saveRequest/restoreRequest travel from
// the interpreter goroutine to the UI goroutine; the matching reply
// channel travels back embedded in the request.
type readLineRequest struct{ reply chan<- string }
type readCharRequest struct {
	timeoutHundredths int
	reply             chan<- charReply
}
type charReply struct {
	c       uint8
	timeout bool
}
type textMessage string
type doneMessage struct{ err error }

// channelIO implements machine.Terminal by round-tripping line/character
// reads through the UI goroutine. Saves go straight to FileSaves on the
// interpreter goroutine, since they need no UI interaction.
type channelIO struct {
	toUI chan<- any
}

func (c *channelIO) ReadLine() (string, bool) {
	reply := make(chan string, 1)
	c.toUI <- readLineRequest{reply: reply}
	return <-reply, true
}

func (c *channelIO) ReadChar(timeoutHundredths int) (uint8, bool) {
	reply := make(chan charReply, 1)
	c.toUI <- readCharRequest{timeoutHundredths: timeoutHundredths, reply: reply}
	r := <-reply
	return r.c, r.timeout
}

// channelSink implements stream.Sink, forwarding every screen write to the
// UI goroutine as a textMessage.
type channelSink struct{ toUI chan<- any }

func (s channelSink) WriteText(text string) { s.toUI <- textMessage(text) }

// FileSaves implements machine.SaveHandler against a Quetzal file on disk,
// named after the story and rooted at Dir (the `-s`/`--save-dir` flag).
type FileSaves struct {
	Dir       string
	StoryPath string
}

func (f FileSaves) path() string {
	base := strings.TrimSuffix(filepath.Base(f.StoryPath), filepath.Ext(f.StoryPath))
	return filepath.Join(f.Dir, base+".qzl")
}

func (f FileSaves) Save(data []uint8) bool {
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return false
	}
	return os.WriteFile(f.path(), data, 0644) == nil
}

func (f FileSaves) Restore() ([]uint8, bool) {
	data, err := os.ReadFile(f.path())
	if err != nil {
		return nil, false
	}
	return data, true
}

type appState int

const (
	running appState = iota
	waitingForLine
	waitingForChar
)

// Model is the bubbletea program driving one running story.
type Model struct {
	toUI   chan any
	m      *machine.Machine
	width  int
	height int

	state       appState
	pendingLine chan<- string
	pendingChar chan<- charReply

	lowerText string
	inputBox  textinput.Model
	err       error
}

// Options configures NewModel from the CLI flags that affect machine
// construction rather than UI behaviour.
type Options struct {
	Seed        int64
	UndoDepth   int
	ConsoleCols int
}

// NewModel loads storyPath and wires a Machine into a runnable bubbletea
// model. saves implements the persistence half of the SaveHandler
// collaborator.
func NewModel(storyPath string, storyBytes []uint8, opts Options, saves machine.SaveHandler) (Model, error) {
	st, err := story.Load(storyPath, storyBytes)
	if err != nil {
		return Model{}, err
	}

	cols := opts.ConsoleCols
	if cols <= 0 {
		cols = 80
	}

	toUI := make(chan any, 64)
	io := &channelIO{toUI: toUI}
	sink := channelSink{toUI: toUI}

	m := machine.New(state.NewWithUndoDepth(st, opts.Seed, opts.UndoDepth), sink, io, saves, cols, 24)

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 200
	ti.Prompt = ""

	return Model{toUI: toUI, m: m, inputBox: ti, state: running}, nil
}

func (model Model) Init() tea.Cmd {
	return tea.Batch(waitForUI(model.toUI), runMachine(model.m, model.toUI), tea.WindowSize())
}

func runMachine(m *machine.Machine, toUI chan<- any) tea.Cmd {
	return func() tea.Msg {
		err := m.Run()
		toUI <- doneMessage{err: err}
		return nil
	}
}

func waitForUI(toUI <-chan any) tea.Cmd {
	return func() tea.Msg { return <-toUI }
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		model.width, model.height = msg.Width, msg.Height
		return model, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return model, tea.Quit
		}
		switch model.state {
		case waitingForChar:
			model.state = running
			reply := model.pendingChar
			model.pendingChar = nil
			var c uint8
			if len(msg.Runes) > 0 {
				c = uint8(msg.Runes[0])
			} else {
				c = keyToZChar(msg)
			}
			go func() { reply <- charReply{c: c} }()
			return model, waitForUI(model.toUI)

		case waitingForLine:
			if msg.Type == tea.KeyEnter {
				model.state = running
				line := model.inputBox.Value()
				model.lowerText += line + "\n"
				reply := model.pendingLine
				model.pendingLine = nil
				model.inputBox.SetValue("")
				go func() { reply <- line }()
				return model, waitForUI(model.toUI)
			}
			var cmd tea.Cmd
			model.inputBox, cmd = model.inputBox.Update(msg)
			return model, cmd
		}
		return model, nil

	case textMessage:
		model.lowerText += string(msg)
		return model, waitForUI(model.toUI)

	case readLineRequest:
		model.state = waitingForLine
		model.pendingLine = msg.reply
		return model, waitForUI(model.toUI)

	case readCharRequest:
		model.state = waitingForChar
		model.pendingChar = msg.reply
		return model, waitForUI(model.toUI)

	case doneMessage:
		if msg.err != nil {
			model.err = msg.err
		}
		return model, tea.Quit
	}
	return model, nil
}

func (model Model) View() string {
	if model.err != nil {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
		return fmt.Sprintf("\n%s\n\n%s\n", style.Render("Z-Machine Error:"), model.err.Error())
	}
	if model.width == 0 {
		return "Initializing..."
	}

	body := wordwrap.String(model.lowerText, model.width)
	lines := strings.Split(body, "\n")
	if max := model.height - 2; len(lines) > max && max > 0 {
		lines = lines[len(lines)-max:]
	}

	out := strings.Join(lines, "\n")
	if model.state == waitingForLine {
		out += "\n" + model.inputBox.View()
	}
	return out
}

// keyToZChar maps bubbletea key messages to the Z-machine's input-extended
// character codes for arrow and function keys.
func keyToZChar(msg tea.KeyMsg) uint8 {
	switch msg.Type {
	case tea.KeyUp:
		return 129
	case tea.KeyDown:
		return 130
	case tea.KeyLeft:
		return 131
	case tea.KeyRight:
		return 132
	case tea.KeyF1:
		return 133
	case tea.KeyF2:
		return 134
	case tea.KeyF3:
		return 135
	case tea.KeyF4:
		return 136
	case tea.KeyF5:
		return 137
	case tea.KeyF6:
		return 138
	case tea.KeyF7:
		return 139
	case tea.KeyF8:
		return 140
	case tea.KeyF9:
		return 141
	case tea.KeyF10:
		return 142
	case tea.KeyF11:
		return 143
	case tea.KeyF12:
		return 144
	case tea.KeyEscape:
		return 27
	case tea.KeyEnter:
		return 13
	case tea.KeyDelete, tea.KeyBackspace:
		return 8
	default:
		return 0
	}
}
