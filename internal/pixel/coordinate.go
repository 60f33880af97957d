package pixel

import "fmt"

// Coordinate is a position on the canvas or inside a frame, origin top-left.
type Coordinate struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Add translates c by o.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{X: c.X + o.X, Y: c.Y + o.Y}
}

// Valid reports whether c lies on the canvas side of the origin. The
// protocol carries unsigned coordinates only.
func (c Coordinate) Valid() bool {
	return c.X >= 0 && c.Y >= 0
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Dimension is the size of a rectangular pixel region.
type Dimension struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Pixels returns Width*Height.
func (d Dimension) Pixels() int {
	return d.Width * d.Height
}

// Valid reports whether both sides are positive.
func (d Dimension) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

func (d Dimension) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}
