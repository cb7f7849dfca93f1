package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nwidger/zif/machine"
	"github.com/nwidger/zif/state"
	"github.com/nwidger/zif/story"
	"github.com/nwidger/zif/tui"
)

// consoleSink writes screen text to stdout, optionally tee'd to print.log
// (the `-p`/`--print` flag).
type consoleSink struct{ w io.Writer }

func (s consoleSink) WriteText(text string) { io.WriteString(s.w, text) }

// fileTerminal answers reads from an input file until it runs dry, then
// falls back to stdin, optionally echoing every keystroke to key.log (the
// `-i`/`--input` and `-k`/`--key` flags).
type fileTerminal struct {
	input     *bufio.Reader
	fromStdin *bufio.Reader
	keyLog    io.Writer
}

func newFileTerminal(inputPath string, keyLog io.Writer) *fileTerminal {
	t := &fileTerminal{fromStdin: bufio.NewReader(os.Stdin), keyLog: keyLog}
	if inputPath != "" {
		if f, err := os.Open(inputPath); err == nil {
			t.input = bufio.NewReader(f)
		} else {
			log.Warn("failed to open input file, falling back to stdin", "path", inputPath, "err", err)
		}
	}
	return t
}

func (t *fileTerminal) reader() *bufio.Reader {
	if t.input != nil {
		return t.input
	}
	return t.fromStdin
}

func (t *fileTerminal) ReadLine() (string, bool) {
	for {
		line, err := t.reader().ReadString('\n')
		if err != nil && line == "" {
			if t.input != nil {
				t.input = nil
				continue
			}
			return "", false
		}
		if t.keyLog != nil {
			io.WriteString(t.keyLog, line)
		}
		return strings.TrimSuffix(line, "\n"), true
	}
}

func (t *fileTerminal) ReadChar(timeoutHundredths int) (uint8, bool) {
	b, err := t.reader().ReadByte()
	if err != nil {
		if t.input != nil {
			t.input = nil
			return t.ReadChar(timeoutHundredths)
		}
		return 0, true
	}
	if t.keyLog != nil {
		t.keyLog.Write([]byte{b})
	}
	return b, false
}

// runBatch runs storyPath to completion headlessly, writing output to
// stdout and wiring the print/key/trace logging flags.
func runBatch(storyPath string, storyBytes []uint8) {
	st, err := story.Load(storyPath, storyBytes)
	if err != nil {
		log.Fatal("failed to parse story header", "path", storyPath, "err", err)
	}

	out := io.Writer(os.Stdout)
	if printLog {
		f, err := os.Create("print.log")
		if err != nil {
			log.Fatal("failed to create print.log", "err", err)
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}

	var keyLogWriter io.Writer
	if keyLog {
		f, err := os.Create("key.log")
		if err != nil {
			log.Fatal("failed to create key.log", "err", err)
		}
		defer f.Close()
		keyLogWriter = f
	}

	cols := width
	if cols <= 0 {
		cols = 80
	}

	saves := tui.FileSaves{Dir: saveDir, StoryPath: storyPath}
	m := machine.New(state.NewWithUndoDepth(st, seed, undoDepth), consoleSink{w: out}, newFileTerminal(inputFile, keyLogWriter), saves, cols, 24)

	if trace {
		f, err := os.Create("trace.log")
		if err != nil {
			log.Fatal("failed to create trace.log", "err", err)
		}
		defer f.Close()
		m.Trace = f
	}

	if err := m.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running story:", err)
		os.Exit(1)
	}
}
