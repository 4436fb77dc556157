package gridio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-life/model"
)

func rowsOf(lines ...string) [][]bool {
	rows := make([][]bool, len(lines))
	for i, line := range lines {
		rows[i] = make([]bool, len(line))
		for j := range line {
			rows[i][j] = line[j] == '1'
		}
	}
	return rows
}

func assertRows(t *testing.T, want [][]bool, g *model.Grid) {
	t.Helper()
	if diff := cmp.Diff(want, g.Rows()); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePlainText(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  [][]bool
	}{
		{
			name:  "single cell",
			input: "1",
			want:  rowsOf("1"),
		},
		{
			name:  "3x3 with trailing newline",
			input: "000\n010\n000\n",
			want:  rowsOf("000", "010", "000"),
		},
		{
			name:  "4x5",
			input: "00000\n00000\n01110\n00000\n",
			want:  rowsOf("00000", "00000", "01110", "00000"),
		},
		{
			name:  "crlf line endings",
			input: "01\r\n10\r\n",
			want:  rowsOf("01", "10"),
		},
		{
			name:  "trailing blank lines",
			input: "01\n10\n\n\n",
			want:  rowsOf("01", "10"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ParsePlainText(strings.NewReader(tc.input))
			require.NoError(t, err)
			assertRows(t, tc.want, g)
		})
	}
}

func TestParsePlainTextIncorrectValue(t *testing.T) {
	_, err := ParsePlainText(strings.NewReader("000\n020\n000\n"))
	require.Error(t, err)

	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.Line)
	assert.Equal(t, 2, formatErr.Column)
	assert.Contains(t, err.Error(), "'2'")
}

func TestParsePlainTextMalformed(t *testing.T) {
	inputs := map[string]string{
		"empty":          "",
		"only newlines":  "\n\n",
		"ragged rows":    "000\n00\n",
		"blank line gap": "01\n\n10\n",
		"spaces":         "0 1\n",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePlainText(strings.NewReader(input))
			var formatErr *FormatError
			require.True(t, errors.As(err, &formatErr), "got %v", err)
		})
	}
}

func TestSerializePlainTextRoundTrip(t *testing.T) {
	grids := [][][]bool{
		rowsOf("000", "010", "000"),
		rowsOf("1"),
		rowsOf("10110", "01001"),
	}
	for _, rows := range grids {
		g, err := model.NewGridFromRows(rows)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, SerializePlainText(&buf, g))

		parsed, err := ParsePlainText(&buf)
		require.NoError(t, err)
		assert.True(t, g.Equal(parsed))
	}
}

func TestSerializePlainTextFormat(t *testing.T) {
	g, err := model.NewGridFromRows(rowsOf("010", "001"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SerializePlainText(&buf, g))
	assert.Equal(t, "010\n001\n", buf.String())
}

func TestRandomGridRoundTrip(t *testing.T) {
	seed := uint64(7)
	g := GenerateRandom(17, 23, 0.4, &seed)

	var buf bytes.Buffer
	require.NoError(t, SerializePlainText(&buf, g))
	parsed, err := ParsePlainText(&buf)
	require.NoError(t, err)
	assert.True(t, g.Equal(parsed))
}

func TestCheckShape(t *testing.T) {
	g := model.NewGrid(3, 4)
	require.NoError(t, CheckShape(g, 3, 4))

	err := CheckShape(g, 4, 3)
	var shapeErr *ShapeMismatchError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, &ShapeMismatchError{WantHeight: 4, WantWidth: 3, GotHeight: 3, GotWidth: 4}, shapeErr)
}

func setMaxLineLength(t *testing.T, n int) {
	t.Helper()
	old := maxLineLength
	maxLineLength = n
	t.Cleanup(func() { maxLineLength = old })
}

func TestParsePlainTextLineTooLong(t *testing.T) {
	setMaxLineLength(t, 16)

	_, err := ParsePlainText(strings.NewReader("0101\n" + strings.Repeat("0", 40) + "\n"))
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr), "got %v", err)
	assert.Equal(t, 2, formatErr.Line)
}
