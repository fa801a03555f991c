package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Pen tags the cells a drawing touches so they can be colored on render.
// The last pen to touch a cell wins.
type Pen uint8

const (
	PenNone Pen = iota
	PenZero
	PenTension
	PenCompression
	PenLoad
	PenJoint
	PenAnchor
	PenFlag
	PenSelect
)

// Canvas is a character grid addressed in sub-pixels: (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	pens          [][]Pen
	pen           Pen
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		pens:   make([][]Pen, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.pens[i] = make([]Pen, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) SetPen(p Pen) { c.pen = p }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.pens[row][col] = c.pen
}

// PenAt reports the pen of the cell holding sub-pixel (x, y).
func (c *Canvas) PenAt(x, y int) Pen {
	col, row := x/2, y/4
	if x < 0 || y < 0 || col >= c.Width || row >= c.Height {
		return PenNone
	}
	return c.pens[row][col]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.pens[i][j] = PenNone
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawBox outlines the square of half-size r centred on (x, y).
func (c *Canvas) DrawBox(x, y, r int) {
	c.DrawLine(x-r, y-r, x+r, y-r)
	c.DrawLine(x+r, y-r, x+r, y+r)
	c.DrawLine(x+r, y+r, x-r, y+r)
	c.DrawLine(x-r, y+r, x-r, y-r)
}

// DrawSupport draws a triangle with its apex at (x, y).
func (c *Canvas) DrawSupport(x, y, r int) {
	c.DrawLine(x, y, x-r, y+r)
	c.DrawLine(x-r, y+r, x+r, y+r)
	c.DrawLine(x+r, y+r, x, y)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with each cell styled by its pen. Pens missing from
// styles render unstyled.
func (c *Canvas) Render(styles map[Pen]lipgloss.Style) string {
	var b strings.Builder
	for r, row := range c.Grid {
		for col, ch := range row {
			if st, ok := styles[c.pens[r][col]]; ok && ch != blank {
				b.WriteString(st.Render(string(ch)))
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
