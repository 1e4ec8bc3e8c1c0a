// Package turtle implements the 2-D drawing cursor: a stateful pose
// (position, heading, pen, color, line width) and an append-only
// command log consumed read-only by external renderers. Home is the
// center of the configured canvas, not its corner, and every move
// clamps into the canvas rectangle around it.
package turtle

import (
	"fmt"
	"math"
)

// DefaultStep is the fixed distance an argumentless forward/backward
// moves.
const DefaultStep = 100.0

// DefaultTurn is the fixed angle an argumentless left/right turns; 90
// degrees is the natural "turn a corner" amount for square and
// triangle drawings.
const DefaultTurn = 90.0

// DefaultCanvasW and DefaultCanvasH size the canvas a turtle is
// confined to when no explicit size is configured.
const (
	DefaultCanvasW = 800.0
	DefaultCanvasH = 600.0
)

// Color is either a named color from a closed set or an explicit RGB
// triple.
type Color struct {
	Name    string
	R, G, B uint8
}

var namedColors = map[string]Color{
	"black":   {Name: "black"},
	"white":   {Name: "white", R: 255, G: 255, B: 255},
	"red":     {Name: "red", R: 220, G: 40, B: 40},
	"green":   {Name: "green", R: 40, G: 160, B: 70},
	"blue":    {Name: "blue", R: 40, G: 80, B: 220},
	"yellow":  {Name: "yellow", R: 230, G: 210, B: 40},
	"orange":  {Name: "orange", R: 230, G: 130, B: 30},
	"purple":  {Name: "purple", R: 150, G: 60, B: 180},
	"pink":    {Name: "pink", R: 240, G: 150, B: 190},
	"brown":   {Name: "brown", R: 130, G: 90, B: 50},
	"gray":    {Name: "gray", R: 130, G: 130, B: 130},
	"grey":    {Name: "gray", R: 130, G: 130, B: 130},
}

// NamedColor looks up a color by name in the closed set; an
// unrecognized name falls back to black.
func NamedColor(name string) Color {
	if c, ok := namedColors[name]; ok {
		return c
	}
	return namedColors["black"]
}

// RGBColor builds an explicit RGB-triple color, bypassing the named
// set entirely.
func RGBColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

func (c Color) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Command is one entry of the append-only command log.
type Command interface{ isCommand() }

type LineCmd struct {
	X0, Y0, X1, Y1 float64
	Color          Color
	Width          float64
}

type MoveCmd struct{ X0, Y0, X1, Y1 float64 }
type TurnToCmd struct{ Angle float64 }
type PenUpCmd struct{}
type PenDownCmd struct{}
type ColorCmd struct{ Color Color }
type WidthCmd struct{ Width float64 }
type CircleCmd struct {
	CX, CY, R float64
	Color     Color
	Width     float64
}
type ClearCmd struct{}

func (LineCmd) isCommand()    {}
func (MoveCmd) isCommand()    {}
func (TurnToCmd) isCommand()  {}
func (PenUpCmd) isCommand()   {}
func (PenDownCmd) isCommand() {}
func (ColorCmd) isCommand()   {}
func (WidthCmd) isCommand()   {}
func (CircleCmd) isCommand()  {}
func (ClearCmd) isCommand()   {}

// Turtle is the stateful drawing cursor, one instance per session.
// Every movement clamps to the canvas and appends to Log; the caller
// is responsible for surfacing the non-fatal "reached canvas edge"
// warning this returns.
type Turtle struct {
	W, H float64

	X, Y      float64
	Heading   float64
	PenDown   bool
	Col       Color
	LineWidth float64

	Log []Command
}

// New creates a turtle with the given canvas size, posed at the
// center with pen down, color black, and line width 1.
func New(w, h float64) *Turtle {
	t := &Turtle{W: w, H: h, PenDown: true, Col: NamedColor("black"), LineWidth: 1}
	t.X, t.Y = w/2, h/2
	return t
}

func (t *Turtle) clamp(x, y float64) (cx, cy float64, clamped bool) {
	cx, cy = x, y
	if cx < 0 {
		cx, clamped = 0, true
	} else if cx > t.W {
		cx, clamped = t.W, true
	}
	if cy < 0 {
		cy, clamped = 0, true
	} else if cy > t.H {
		cy, clamped = t.H, true
	}
	return cx, cy, clamped
}

const edgeWarning = "Turtle reached canvas edge"

func (t *Turtle) move(distance float64) (warning string) {
	rad := t.Heading * math.Pi / 180
	x0, y0 := t.X, t.Y
	x1 := t.X + distance*math.Cos(rad)
	y1 := t.Y - distance*math.Sin(rad)
	x1, y1, clamped := t.clamp(x1, y1)
	t.X, t.Y = x1, y1
	if t.PenDown {
		t.Log = append(t.Log, LineCmd{X0: x0, Y0: y0, X1: x1, Y1: y1, Color: t.Col, Width: t.LineWidth})
	} else {
		t.Log = append(t.Log, MoveCmd{X0: x0, Y0: y0, X1: x1, Y1: y1})
	}
	if clamped {
		return edgeWarning
	}
	return ""
}

// Forward moves the turtle distance units along its current heading.
func (t *Turtle) Forward(distance float64) string { return t.move(distance) }

// Backward moves the turtle distance units opposite its heading.
func (t *Turtle) Backward(distance float64) string { return t.move(-distance) }

// turn wraps the heading via modulo 360; it never clamps or errors.
func (t *Turtle) turn(degrees float64) {
	h := math.Mod(t.Heading+degrees, 360)
	if h < 0 {
		h += 360
	}
	t.Heading = h
	t.Log = append(t.Log, TurnToCmd{Angle: t.Heading})
}

// Left turns the turtle counter-clockwise by degrees.
func (t *Turtle) Left(degrees float64) { t.turn(degrees) }

// Right turns the turtle clockwise by degrees.
func (t *Turtle) Right(degrees float64) { t.turn(-degrees) }

// PenUp lifts the pen; subsequent moves record Move rather than Line.
func (t *Turtle) PenUp() {
	t.PenDown = false
	t.Log = append(t.Log, PenUpCmd{})
}

// PenDownOp lowers the pen.
func (t *Turtle) PenDownOp() {
	t.PenDown = true
	t.Log = append(t.Log, PenDownCmd{})
}

// SetColorName sets the pen color from a name in the closed set,
// falling back to black on an unrecognized name.
func (t *Turtle) SetColorName(name string) {
	t.Col = NamedColor(name)
	t.Log = append(t.Log, ColorCmd{Color: t.Col})
}

// SetColorRGB sets the pen color from an explicit RGB triple.
func (t *Turtle) SetColorRGB(r, g, b uint8) {
	t.Col = RGBColor(r, g, b)
	t.Log = append(t.Log, ColorCmd{Color: t.Col})
}

// SetWidth sets the pen's line width. Non-positive widths are rejected
// by the caller; Turtle itself just records whatever it's given.
func (t *Turtle) SetWidth(w float64) {
	t.LineWidth = w
	t.Log = append(t.Log, WidthCmd{Width: w})
}

// DrawCircle appends a Circle command centered at the turtle's
// current position.
func (t *Turtle) DrawCircle(radius float64) {
	t.Log = append(t.Log, CircleCmd{CX: t.X, CY: t.Y, R: radius, Color: t.Col, Width: t.LineWidth})
}

// Clear empties the command log and resets pose to canvas center.
func (t *Turtle) Clear() {
	t.Log = t.Log[:0]
	t.X, t.Y = t.W/2, t.H/2
	t.Heading = 0
	t.PenDown = true
	t.Col = NamedColor("black")
	t.LineWidth = 1
}
