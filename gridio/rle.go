package gridio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
)

const (
	DefaultVerticalPadding   = 4
	DefaultHorizontalPadding = 4

	rleCommentPrefix = "#"
	rleRowSeparator  = "$"
	rleAliveTag      = 'o'
	rleDeadTag       = 'b'

	// maxRunLength bounds a single run.
	maxRunLength = 1 << 20
	// maxPatternWidth bounds the header width, a decoded row and the padding.
	maxPatternWidth = 1 << 20
	// maxPatternCells bounds the padded grid.
	maxPatternCells = 1 << 26
)

type rleOptions struct {
	verticalPadding   int
	horizontalPadding int
}

// RLEOption customizes ParseRLE.
type RLEOption func(*rleOptions)

// WithPadding sets the number of dead rows added above and below the pattern
// and the number of dead columns added on each side of it.
func WithPadding(vertical, horizontal int) RLEOption {
	return func(o *rleOptions) {
		o.verticalPadding = min(max(0, vertical), maxPatternWidth)
		o.horizontalPadding = min(max(0, horizontal), maxPatternWidth)
	}
}

// ParseRLE reads a run-length encoded pattern:
//
//	#N Glider
//	3, 3, B3/S23
//	bo$2bo$3o
//
// Comment lines come first, then a "width, height, rule" header of which only
// width is used, then body lines. The body is split into rows on '$'; inside a
// row "<n>o" is n alive cells and "<n>b" n dead cells, with n defaulting to 1.
// Other characters are skipped. The decoded pattern is surrounded by dead
// padding and every row is widened to the same length.
func ParseRLE(r io.Reader, opts ...RLEOption) (*model.Grid, error) {
	o := rleOptions{
		verticalPadding:   DefaultVerticalPadding,
		horizontalPadding: DefaultHorizontalPadding,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		width     = -1
		body      strings.Builder
		lineNum   int
		bodyStart int
		scanner   = bufio.NewScanner(r)
	)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLineLength)), maxLineLength)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if width < 0 {
			if line == "" || strings.HasPrefix(line, rleCommentPrefix) {
				continue
			}
			w, err := parseRLEHeader(line, lineNum)
			if err != nil {
				return nil, err
			}
			width, bodyStart = w, lineNum+1
			continue
		}
		body.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, lineTooLong(lineNum + 1)
		}
		return nil, errors.Wrap(err, "[ParseRLE] failed to read pattern")
	}
	if width < 0 {
		return nil, &FormatError{Msg: "pattern file is empty or has no header"}
	}

	var pattern [][]bool
	for i, token := range strings.Split(body.String(), rleRowSeparator) {
		row, err := decodeRLERow(token)
		if err != nil {
			return nil, errors.Wrapf(err, "[ParseRLE] row %d starting near line %d", i, bodyStart)
		}
		pattern = append(pattern, row)
	}

	return padPattern(pattern, width, o)
}

// parseRLEHeader returns the width declared by a "width, height, rule"
// header. Fields written as "x = 3" are accepted too.
func parseRLEHeader(line string, lineNum int) (int, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return 0, &FormatError{Line: lineNum, Msg: "header must have the form 'width, height, rule'"}
	}
	field := strings.TrimSpace(fields[0])
	if i := strings.IndexByte(field, '='); i >= 0 {
		field = strings.TrimSpace(field[i+1:])
	}
	width, err := strconv.Atoi(field)
	if err != nil || width < 0 {
		return 0, &FormatError{Line: lineNum, Msg: "header width " + strconv.Quote(field) + " is not a non-negative integer"}
	}
	if width > maxPatternWidth {
		return 0, &FormatError{Line: lineNum, Msg: "header width exceeds " + strconv.Itoa(maxPatternWidth)}
	}
	return width, nil
}

type lexState int

const (
	stateIdle lexState = iota
	stateReadingDigits
)

// rowLexer decodes one '$'-separated row token.
type rowLexer struct {
	state lexState
	count int
	cells []bool
}

func (l *rowLexer) feed(ch byte) error {
	switch {
	case ch >= '0' && ch <= '9':
		if l.state == stateIdle {
			l.state, l.count = stateReadingDigits, 0
		}
		l.count = l.count*10 + int(ch-'0')
		if l.count > maxRunLength {
			return &FormatError{Msg: "run length exceeds " + strconv.Itoa(maxRunLength)}
		}
	case ch == rleAliveTag || ch == rleDeadTag:
		n := 1
		if l.state == stateReadingDigits {
			n = l.count
		}
		if len(l.cells)+n > maxPatternWidth {
			return &FormatError{Msg: "row width exceeds " + strconv.Itoa(maxPatternWidth)}
		}
		for range n {
			l.cells = append(l.cells, ch == rleAliveTag)
		}
		l.state, l.count = stateIdle, 0
	default:
		// unknown tag: drop it along with any pending count
		l.state, l.count = stateIdle, 0
	}
	return nil
}

func decodeRLERow(token string) ([]bool, error) {
	var l rowLexer
	for i := 0; i < len(token); i++ {
		if err := l.feed(token[i]); err != nil {
			return nil, err
		}
	}
	// a trailing count with no tag is dropped
	return l.cells, nil
}

func padPattern(pattern [][]bool, width int, o rleOptions) (*model.Grid, error) {
	for _, row := range pattern {
		width = max(width, len(row))
	}
	total := width + 2*o.horizontalPadding
	if total == 0 {
		return nil, &FormatError{Msg: "pattern has no columns"}
	}
	if height := len(pattern) + 2*o.verticalPadding; height > maxPatternCells/total {
		return nil, &FormatError{Msg: fmt.Sprintf("padded pattern of %dx%d exceeds %d cells", height, total, maxPatternCells)}
	}

	rows := make([][]bool, 0, len(pattern)+2*o.verticalPadding)
	for range o.verticalPadding {
		rows = append(rows, make([]bool, total))
	}
	for _, cells := range pattern {
		row := make([]bool, total)
		copy(row[o.horizontalPadding:], cells)
		rows = append(rows, row)
	}
	for range o.verticalPadding {
		rows = append(rows, make([]bool, total))
	}
	return model.NewGridFromRows(rows)
}
