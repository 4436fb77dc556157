package tui

import (
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

var digitRuns = regexp.MustCompile(`\d+`)

// ErrBadSize is returned by ParseDimensions for text that does not hold
// exactly two numbers.
var ErrBadSize = errors.New("wrong size format, expected height,width")

// ParseDimensions extracts "height,width" from free text. Any non-digit text
// separates the two numbers, so "20x40" and "20, 40" are both accepted.
func ParseDimensions(text string) (height, width int, err error) {
	runs := digitRuns.FindAllString(text, -1)
	if len(runs) != 2 {
		return 0, 0, errors.Wrapf(ErrBadSize, "[ParseDimensions] got %q", text)
	}
	if height, err = strconv.Atoi(runs[0]); err != nil {
		return 0, 0, errors.Wrapf(ErrBadSize, "[ParseDimensions] height %q", runs[0])
	}
	if width, err = strconv.Atoi(runs[1]); err != nil {
		return 0, 0, errors.Wrapf(ErrBadSize, "[ParseDimensions] width %q", runs[1])
	}
	return height, width, nil
}

type menuOption int

const (
	optionRandomGrid menuOption = iota
	optionFileGrid
	optionExit
)

var menuLabels = []string{
	optionRandomGrid: "Generate a random grid",
	optionFileGrid:   "Grid from a file",
	optionExit:       "Exit the game",
}

// menu tracks the highlighted main menu entry.
type menu struct {
	selected menuOption
}

func (m *menu) up() {
	if m.selected > 0 {
		m.selected--
	}
}

func (m *menu) down() {
	if int(m.selected) < len(menuLabels)-1 {
		m.selected++
	}
}

// textbox is a single line editor with a fixed capacity.
type textbox struct {
	runes []rune
	limit int
}

func (t *textbox) insert(r rune) {
	if len(t.runes) < t.limit {
		t.runes = append(t.runes, r)
	}
}

func (t *textbox) backspace() {
	if len(t.runes) > 0 {
		t.runes = t.runes[:len(t.runes)-1]
	}
}

func (t *textbox) empty() bool { return len(t.runes) == 0 }

func (t *textbox) String() string { return string(t.runes) }

// prompt holds the texts of a parameter input screen.
type prompt struct {
	instruction string
	errorMsg    string
}

var (
	sizePrompt = prompt{
		instruction: "Enter grid size - fmt: height,width",
		errorMsg:    "Wrong size format. Try again.",
	}
	pathPrompt = prompt{
		instruction: "Enter grid file name - e.g. test.txt",
		errorMsg:    "File not found. Try again.",
	}
)
