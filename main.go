package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/nwidger/zif/selectstoryui"
	"github.com/nwidger/zif/tui"
)

var (
	infoLevel bool
	warnLevel bool
	width     int
	batch     bool
	trace     bool
	printLog  bool
	keyLog    bool
	inputFile string
	seed      int64
	undoDepth int
	saveDir   string
)

func init() {
	pflag.BoolVar(&infoLevel, "info", false, "Raise message filter to INFO.")
	pflag.BoolVar(&warnLevel, "warn", false, "Raise message filter to WARNING.")
	pflag.IntVarP(&width, "width", "w", 0, "Force console columns to N.")
	pflag.BoolVarP(&batch, "batch", "b", false, "Suppress screen output (tests).")
	pflag.BoolVarP(&trace, "trace", "T", false, "Emit a per-instruction disassembly trace to trace.log.")
	pflag.BoolVarP(&printLog, "print", "p", false, "Mirror screen output to print.log.")
	pflag.BoolVarP(&keyLog, "key", "k", false, "Log keystrokes to key.log.")
	pflag.StringVarP(&inputFile, "input", "i", "", "Read keystrokes from FILE until EOF, then fall back to the terminal.")
	pflag.Int64VarP(&seed, "seed", "S", 0, "Fix the initial RNG seed; 0 = unpredictable.")
	pflag.IntVarP(&undoDepth, "undo", "u", 4, "Undo-ring depth.")
	pflag.StringVarP(&saveDir, "save-dir", "s", "Saves", "Save-file directory.")
	pflag.Parse()
}

func configureLogging() {
	switch {
	case infoLevel:
		log.SetLevel(log.InfoLevel)
	case warnLevel:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.ErrorLevel)
	}
}

func main() {
	configureLogging()

	args := pflag.Args()

	var model tea.Model

	if len(args) > 0 {
		storyPath := args[0]
		storyBytes, err := os.ReadFile(storyPath)
		if err != nil {
			log.Fatal("failed to read story file", "path", storyPath, "err", err)
		}

		if batch {
			runBatch(storyPath, storyBytes)
			return
		}

		saves := tui.FileSaves{Dir: saveDir, StoryPath: storyPath}
		m, err := tui.NewModel(storyPath, storyBytes, tui.Options{Seed: seed, UndoDepth: undoDepth, ConsoleCols: width}, saves)
		if err != nil {
			log.Fatal("failed to load story", "path", storyPath, "err", err)
		}
		model = m
	} else {
		model = selectstoryui.NewUIModel(newStoryLauncher, "")
	}

	program := tea.NewProgram(model)
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		os.Exit(1)
	}
}

// newStoryLauncher adapts tui.NewModel to the signature the story-browser
// UI expects once it has downloaded a rom.
func newStoryLauncher(romBytes []byte, romPath string) tea.Model {
	saves := tui.FileSaves{Dir: saveDir, StoryPath: romPath}
	m, err := tui.NewModel(romPath, romBytes, tui.Options{Seed: seed, UndoDepth: undoDepth, ConsoleCols: width}, saves)
	if err != nil {
		log.Fatal("failed to load downloaded story", "err", err)
	}
	return m
}
