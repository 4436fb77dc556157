package gridio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
)

const (
	deadChar  = '0'
	aliveChar = '1'
)

// maxLineLength is the longest line the grid readers accept.
var maxLineLength = 64 * 1024 * 1024

func lineTooLong(lineNum int) *FormatError {
	return &FormatError{Line: lineNum, Msg: fmt.Sprintf("line is longer than %d bytes", maxLineLength)}
}

// ParsePlainText reads a grid written as one line per row with one '0' or
// '1' per cell. Trailing blank lines are ignored.
func ParsePlainText(r io.Reader) (*model.Grid, error) {
	var (
		rows    [][]bool
		blank   int
		lineNum int
		scanner = bufio.NewScanner(r)
	)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLineLength)), maxLineLength)

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			blank++
			continue
		}
		if blank > 0 {
			return nil, &FormatError{Line: lineNum - blank, Msg: "empty line inside grid"}
		}

		row := make([]bool, len(line))
		for col := 0; col < len(line); col++ {
			switch line[col] {
			case deadChar:
			case aliveChar:
				row[col] = true
			default:
				return nil, &FormatError{
					Line:   lineNum,
					Column: col + 1,
					Msg:    fmt.Sprintf("incorrect value %q, values must be 0 or 1", line[col]),
				}
			}
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, &FormatError{
				Line: lineNum,
				Msg:  "row length differs from the first row",
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, lineTooLong(lineNum + 1)
		}
		return nil, errors.Wrap(err, "[ParsePlainText] failed to read grid")
	}
	if len(rows) == 0 {
		return nil, &FormatError{Msg: "grid is empty"}
	}

	return model.NewGridFromRows(rows)
}

// SerializePlainText writes g in the format read by ParsePlainText.
func SerializePlainText(w io.Writer, g *model.Grid) error {
	bw := bufio.NewWriter(w)
	line := make([]byte, g.GetWidth()+1)
	line[len(line)-1] = '\n'
	for row := range g.GetHeight() {
		for col := range g.GetWidth() {
			line[col] = deadChar
			if g.Get(row, col) {
				line[col] = aliveChar
			}
		}
		if _, err := bw.Write(line); err != nil {
			return errors.Wrap(err, "[SerializePlainText] failed to write row")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "[SerializePlainText] failed to flush grid")
	}
	return nil
}

// CheckShape returns a *ShapeMismatchError when g is not height x width.
func CheckShape(g *model.Grid, height, width int) error {
	if g.GetHeight() == height && g.GetWidth() == width {
		return nil
	}
	return &ShapeMismatchError{
		WantHeight: height,
		WantWidth:  width,
		GotHeight:  g.GetHeight(),
		GotWidth:   g.GetWidth(),
	}
}
