// Package render serializes a turtle's command log to an SVG document
// using the generic codecs/xml element/writer machinery.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ellex-lang/ellex/codecs/xml"
	"github.com/ellex-lang/ellex/turtle"
)

// WriteSVG serializes t's command log as an SVG document to w. Line
// and Circle commands become <line>/<circle> elements; Move, PenUp,
// PenDown, TurnTo and Color carry no visible mark and are skipped.
func WriteSVG(w io.Writer, t *turtle.Turtle) error {
	svg := xml.NewElement("svg", "")
	setAttr(svg, "", "xmlns", "http://www.w3.org/2000/svg")
	setAttr(svg, "", "width", strconv.FormatFloat(t.W, 'f', 0, 64))
	setAttr(svg, "", "height", strconv.FormatFloat(t.H, 'f', 0, 64))
	setAttr(svg, "", "viewBox", fmt.Sprintf("0 0 %s %s",
		strconv.FormatFloat(t.W, 'f', 0, 64), strconv.FormatFloat(t.H, 'f', 0, 64)))

	bg := xml.NewElement("rect", "")
	setAttr(bg, "", "x", "0")
	setAttr(bg, "", "y", "0")
	setAttr(bg, "", "width", strconv.FormatFloat(t.W, 'f', 0, 64))
	setAttr(bg, "", "height", strconv.FormatFloat(t.H, 'f', 0, 64))
	setAttr(bg, "", "fill", "white")
	svg.Append(bg)

	for _, cmd := range t.Log {
		if el := commandElement(cmd); el != nil {
			svg.Append(el)
		}
	}

	doc := xml.NewDocument(svg)
	return doc.Write(w)
}

func commandElement(cmd turtle.Command) *xml.Element {
	switch c := cmd.(type) {
	case turtle.LineCmd:
		e := xml.NewElement("line", "")
		setAttr(e, "", "x1", fstr(c.X0))
		setAttr(e, "", "y1", fstr(c.Y0))
		setAttr(e, "", "x2", fstr(c.X1))
		setAttr(e, "", "y2", fstr(c.Y1))
		setAttr(e, "", "stroke", c.Color.String())
		setAttr(e, "", "stroke-width", fstr(c.Width))
		return e
	case turtle.CircleCmd:
		e := xml.NewElement("circle", "")
		setAttr(e, "", "cx", fstr(c.CX))
		setAttr(e, "", "cy", fstr(c.CY))
		setAttr(e, "", "r", fstr(c.R))
		setAttr(e, "", "stroke", c.Color.String())
		setAttr(e, "", "stroke-width", fstr(c.Width))
		setAttr(e, "", "fill", "none")
		return e
	default:
		return nil
	}
}

func fstr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func setAttr(e *xml.Element, ns, name, value string) {
	_ = e.SetAttribute(xml.NewAttribute(value, name, ns))
}
