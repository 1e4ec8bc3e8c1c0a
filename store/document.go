// Package store implements session persistence: a self-describing
// document (variables, functions as source fragments, history,
// config, execution count, optional turtle state) and a durable
// bbolt-backed store for it.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/ellex-lang/ellex/lang"
	"github.com/ellex-lang/ellex/safety"
	"github.com/ellex-lang/ellex/turtle"
)

// DocumentVersion is bumped whenever Document's shape changes in a way
// that affects decoding older saves. Version 1 predates the Turtle
// field; those restore with a fresh turtle rather than failing, see
// RestoreTurtle.
const DocumentVersion = 2

// TaggedValue is a JSON-friendly encoding of a lang.Value, tagged by
// its dynamic type so Decode can reconstruct the right Go type without
// guessing from shape alone (a List of Strings and a List of Numbers
// both marshal to JSON arrays).
type TaggedValue struct {
	Type   string        `json:"type"`
	Str    string        `json:"str,omitempty"`
	Num    float64       `json:"num,omitempty"`
	Items  []TaggedValue `json:"items,omitempty"`
}

func EncodeValue(v lang.Value) TaggedValue {
	switch v := v.(type) {
	case lang.String:
		return TaggedValue{Type: "string", Str: v.Value}
	case lang.Number:
		return TaggedValue{Type: "number", Num: v.Value}
	case lang.List:
		items := make([]TaggedValue, len(v.Items))
		for i, it := range v.Items {
			items[i] = EncodeValue(it)
		}
		return TaggedValue{Type: "list", Items: items}
	default:
		return TaggedValue{Type: "nil"}
	}
}

func (t TaggedValue) Decode() lang.Value {
	switch t.Type {
	case "string":
		return lang.String{Value: t.Str}
	case "number":
		return lang.Number{Value: t.Num}
	case "list":
		items := make([]lang.Value, len(t.Items))
		for i, it := range t.Items {
			items[i] = it.Decode()
		}
		return lang.List{Items: items}
	default:
		return lang.Nil{}
	}
}

// FunctionDoc persists a FunctionRecord as a source fragment rather
// than the AST directly, so a reload goes through the same parser a
// human-typed make would.
type FunctionDoc struct {
	Params     []string `json:"params"`
	BodySource string   `json:"body_source"`
}

// TurtlePose persists the turtle's pose fields; the command log is
// persisted separately as TurtleLog so an old save (pre-Turtle) can
// omit both and still decode.
type TurtlePose struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Heading   float64 `json:"heading"`
	PenDown   bool    `json:"pen_down"`
	Color     string  `json:"color"`
	LineWidth float64 `json:"line_width"`
}

// TurtleLogEntry is a JSON-friendly encoding of one turtle.Command,
// tagged by kind so Decode can reconstruct the right Go type.
type TurtleLogEntry struct {
	Kind  string  `json:"kind"`
	X0    float64 `json:"x0,omitempty"`
	Y0    float64 `json:"y0,omitempty"`
	X1    float64 `json:"x1,omitempty"`
	Y1    float64 `json:"y1,omitempty"`
	Angle float64 `json:"angle,omitempty"`
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	CX    float64 `json:"cx,omitempty"`
	CY    float64 `json:"cy,omitempty"`
	R     float64 `json:"r,omitempty"`
}

func encodeLog(log []turtle.Command) []TurtleLogEntry {
	out := make([]TurtleLogEntry, len(log))
	for i, cmd := range log {
		switch c := cmd.(type) {
		case turtle.LineCmd:
			out[i] = TurtleLogEntry{Kind: "line", X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1, Color: c.Color.String(), Width: c.Width}
		case turtle.MoveCmd:
			out[i] = TurtleLogEntry{Kind: "move", X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1}
		case turtle.TurnToCmd:
			out[i] = TurtleLogEntry{Kind: "turn_to", Angle: c.Angle}
		case turtle.PenUpCmd:
			out[i] = TurtleLogEntry{Kind: "pen_up"}
		case turtle.PenDownCmd:
			out[i] = TurtleLogEntry{Kind: "pen_down"}
		case turtle.ColorCmd:
			out[i] = TurtleLogEntry{Kind: "color", Color: c.Color.String()}
		case turtle.WidthCmd:
			out[i] = TurtleLogEntry{Kind: "width", Width: c.Width}
		case turtle.CircleCmd:
			out[i] = TurtleLogEntry{Kind: "circle", CX: c.CX, CY: c.CY, R: c.R, Color: c.Color.String(), Width: c.Width}
		case turtle.ClearCmd:
			out[i] = TurtleLogEntry{Kind: "clear"}
		}
	}
	return out
}

// Document is the self-describing persisted-session document.
type Document struct {
	Version        int                    `json:"version"`
	Variables      map[string]TaggedValue `json:"variables"`
	Functions      map[string]FunctionDoc `json:"functions"`
	History        []string               `json:"history"`
	Config         safety.Config          `json:"config"`
	ExecutionCount int                    `json:"execution_count"`
	Turtle         *TurtlePose            `json:"turtle,omitempty"`
	TurtleLog      []TurtleLogEntry       `json:"turtle_log,omitempty"`
}

// Encode builds a Document from a live evaluator's scopes, function
// table and turtle, plus the session-level history/execution-count
// supplied by the caller.
func Encode(scopes *lang.Scopes, funcs *lang.FunctionTable, t *turtle.Turtle, history []string, cfg safety.Config, execCount int) *Document {
	doc := &Document{
		Version:        DocumentVersion,
		Variables:      make(map[string]TaggedValue),
		Functions:      make(map[string]FunctionDoc),
		History:        append([]string{}, history...),
		Config:         cfg,
		ExecutionCount: execCount,
	}
	for _, name := range scopes.SessionNames() {
		if v, ok := scopes.ResolveSession(name); ok {
			doc.Variables[name] = EncodeValue(v)
		}
	}
	for _, name := range funcs.Names() {
		rec, ok := funcs.Lookup(name)
		if !ok {
			continue
		}
		doc.Functions[name] = FunctionDoc{
			Params:     rec.Params,
			BodySource: lang.PrintBlock(rec.Body),
		}
	}
	if t != nil {
		doc.Turtle = &TurtlePose{
			X: t.X, Y: t.Y,
			Heading:   t.Heading,
			PenDown:   t.PenDown,
			Color:     t.Col.String(),
			LineWidth: t.LineWidth,
		}
		doc.TurtleLog = encodeLog(t.Log)
	}
	return doc
}

// Marshal/Unmarshal give callers a plain JSON encoding independent of
// the bbolt-backed Store, for embeddings that want their own
// transport.
func Marshal(doc *Document) ([]byte, error) { return json.Marshal(doc) }

func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode session document: %w", err)
	}
	return &doc, nil
}

// Restore rebuilds a function table and a scope's session bindings
// from a decoded Document, re-parsing each function's body source
// through the normal parser.
func Restore(doc *Document) (*lang.Scopes, *lang.FunctionTable, error) {
	scopes := lang.NewScopes()
	for name, tv := range doc.Variables {
		scopes.DefineSession(name, tv.Decode())
	}
	funcs := lang.NewFunctionTable()
	for name, fd := range doc.Functions {
		prog, err := lang.NewParserString(fd.BodySource).ParseProgram()
		if err != nil {
			return nil, nil, fmt.Errorf("restoring function %q: %w", name, err)
		}
		funcs.Define(&lang.FunctionRecord{Name: name, Params: fd.Params, Body: prog.Stmts})
	}
	return scopes, funcs, nil
}

// RestoreTurtle applies a decoded pose and command log onto a fresh
// Turtle, or leaves it at its just-constructed default when
// doc.Turtle is nil, so an older save without turtle state still
// restores cleanly. Pose fields are assigned directly rather than
// through Turtle's mutator methods, which would each append a fresh,
// spurious entry to the very log being restored.
func RestoreTurtle(doc *Document, t *turtle.Turtle) {
	if doc.Turtle == nil {
		return
	}
	p := doc.Turtle
	t.X, t.Y = p.X, p.Y
	t.Heading = p.Heading
	t.PenDown = p.PenDown
	t.LineWidth = p.LineWidth
	t.Col = turtle.NamedColor(p.Color)
	t.Log = decodeLog(doc.TurtleLog)
}

func decodeLog(entries []TurtleLogEntry) []turtle.Command {
	out := make([]turtle.Command, 0, len(entries))
	for _, e := range entries {
		switch e.Kind {
		case "line":
			out = append(out, turtle.LineCmd{X0: e.X0, Y0: e.Y0, X1: e.X1, Y1: e.Y1, Color: turtle.NamedColor(e.Color), Width: e.Width})
		case "move":
			out = append(out, turtle.MoveCmd{X0: e.X0, Y0: e.Y0, X1: e.X1, Y1: e.Y1})
		case "turn_to":
			out = append(out, turtle.TurnToCmd{Angle: e.Angle})
		case "pen_up":
			out = append(out, turtle.PenUpCmd{})
		case "pen_down":
			out = append(out, turtle.PenDownCmd{})
		case "color":
			out = append(out, turtle.ColorCmd{Color: turtle.NamedColor(e.Color)})
		case "width":
			out = append(out, turtle.WidthCmd{Width: e.Width})
		case "circle":
			out = append(out, turtle.CircleCmd{CX: e.CX, CY: e.CY, R: e.R, Color: turtle.NamedColor(e.Color), Width: e.Width})
		case "clear":
			out = append(out, turtle.ClearCmd{})
		}
	}
	return out
}
