package xml

import (
	"bytes"
	"io"
	"slices"
)

// SupportedVersion is the XML declaration version written by Writer's prolog.
const SupportedVersion = "1.0"

type Node interface {
	Tag() string
	Leaf() bool
}

type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

func NewAttribute(value, name, namespace string) Attribute {
	return Attribute{
		Name:      name,
		Namespace: namespace,
		Value:     value,
	}
}

type Element struct {
	Namespace string
	Name      string
	Attrs     []Attribute
	Nodes     []Node
}

func NewElement(name, namespace string) *Element {
	return &Element{
		Name:      name,
		Namespace: namespace,
	}
}

func (e *Element) Tag() string {
	return e.Name
}

func (e *Element) Leaf() bool {
	return len(e.Nodes) == 0
}

func (e *Element) Append(node Node) {
	e.Nodes = append(e.Nodes, node)
}

func (e *Element) SetAttribute(attr Attribute) error {
	ix := slices.IndexFunc(e.Attrs, func(a Attribute) bool {
		return a.Namespace == attr.Namespace && a.Name == attr.Name
	})
	if ix < 0 {
		e.Attrs = append(e.Attrs, attr)
	} else {
		e.Attrs[ix] = attr
	}
	return nil
}

// Instruction is a processing instruction, e.g. the <?xml ... ?> prolog.
type Instruction struct {
	Name  string
	Attrs []Attribute
}

func (i *Instruction) Tag() string {
	return i.Name
}

func (i *Instruction) Leaf() bool {
	return true
}

type Document struct {
	root Node
}

func NewDocument(root Node) *Document {
	return &Document{
		root: root,
	}
}

func (d *Document) Write(w io.Writer) error {
	return NewWriter(w).Write(d)
}

func (d *Document) WriteString() (string, error) {
	var (
		buf bytes.Buffer
		err = d.Write(&buf)
	)
	return buf.String(), err
}

func (d *Document) Append(node Node) {
	if el, ok := d.root.(*Element); ok {
		el.Append(node)
	}
}
