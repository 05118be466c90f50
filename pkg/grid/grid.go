package grid

import (
	"strings"
	"unicode/utf8"
)

const tabWidth = 4

// GetGridCoords converts a linear cell index into column and row.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Buffer is a fixed-size character grid fed through io.Writer. Text wraps
// at the right edge and the grid scrolls up one row when the cursor runs
// off the bottom.
type Buffer struct {
	Cols, Rows int

	cells   []rune
	cursor  int
	pending []byte // incomplete UTF-8 sequence from the previous Write
}

func New(cols, rows int) *Buffer {
	return &Buffer{Cols: cols, Rows: rows, cells: make([]rune, cols*rows)}
}

func (b *Buffer) Write(p []byte) (int, error) {
	data := p
	if len(b.pending) > 0 {
		data = append(b.pending, p...)
		b.pending = nil
	}
	for len(data) > 0 {
		if !utf8.FullRune(data) {
			b.pending = append([]byte(nil), data...)
			break
		}
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		b.put(r)
	}
	return len(p), nil
}

func (b *Buffer) put(r rune) {
	switch r {
	case '\n':
		b.cursor += b.Cols - b.cursor%b.Cols
	case '\r':
		b.cursor -= b.cursor % b.Cols
	case '\t':
		n := tabWidth - (b.cursor%b.Cols)%tabWidth
		for i := 0; i < n; i++ {
			b.put(' ')
		}
		return
	default:
		if b.cursor >= len(b.cells) {
			b.scroll()
		}
		b.cells[b.cursor] = r
		b.cursor++
		return
	}
	if b.cursor > len(b.cells) {
		b.scroll()
	}
}

func (b *Buffer) scroll() {
	copy(b.cells, b.cells[b.Cols:])
	clear(b.cells[len(b.cells)-b.Cols:])
	b.cursor -= b.Cols
}

// Cell returns the rune at index, or 0 for an empty cell.
func (b *Buffer) Cell(index int) rune {
	if index < 0 || index >= len(b.cells) {
		return 0
	}
	return b.cells[index]
}

// Len is the number of cells.
func (b *Buffer) Len() int { return len(b.cells) }

// Lines returns each row with trailing blanks removed.
func (b *Buffer) Lines() []string {
	out := make([]string, b.Rows)
	for y := 0; y < b.Rows; y++ {
		row := b.cells[y*b.Cols : (y+1)*b.Cols]
		var sb strings.Builder
		for _, r := range row {
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
		}
		out[y] = strings.TrimRight(sb.String(), " ")
	}
	return out
}

// Clear empties the grid and homes the cursor.
func (b *Buffer) Clear() {
	clear(b.cells)
	b.cursor = 0
	b.pending = nil
}
