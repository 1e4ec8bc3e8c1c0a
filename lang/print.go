package lang

import (
	"fmt"
	"strconv"
	"strings"
)

// Print pretty-prints a Program back to Ellex source text. Reparsing
// the output reproduces the same AST, modulo stripped comments, which
// is what lets a saved function be persisted as its own source text.
func Print(prog *Program) string {
	var b strings.Builder
	for i, stmt := range prog.Stmts {
		if i > 0 {
			b.WriteByte('\n')
		}
		printStmt(&b, stmt, 0)
	}
	return b.String()
}

// PrintBlock prints a bare statement list (a function body, a repeat
// body, ...), one statement per line, with no enclosing "do"/"end".
func PrintBlock(stmts []Node) string {
	var b strings.Builder
	for i, stmt := range stmts {
		if i > 0 {
			b.WriteByte('\n')
		}
		printStmt(&b, stmt, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func printStmt(b *strings.Builder, n Node, depth int) {
	indent(b, depth)
	switch n := n.(type) {
	case *Tell:
		b.WriteString("tell ")
		b.WriteString(printExpr(n.Expr))
	case *Ask:
		b.WriteString("ask ")
		b.WriteString(printExpr(n.Prompt))
		b.WriteString(" = ")
		b.WriteString(n.Target)
		if n.Hint != HintNone {
			b.WriteString(" as ")
			b.WriteString(hintName(n.Hint))
		}
	case *Repeat:
		b.WriteString("repeat ")
		b.WriteString(printExpr(n.Count))
		b.WriteString(" times do\n")
		printBody(b, n.Body, depth+1)
		b.WriteByte('\n')
		indent(b, depth)
		b.WriteString("end")
	case *When:
		b.WriteString("when ")
		b.WriteString(printExpr(n.Subject))
		b.WriteString(" is ")
		b.WriteString(printExpr(n.Value))
		b.WriteString(" do\n")
		printBody(b, n.Then, depth+1)
		if n.Else != nil {
			b.WriteByte('\n')
			indent(b, depth)
			b.WriteString("otherwise do\n")
			printBody(b, n.Else, depth+1)
		}
		b.WriteByte('\n')
		indent(b, depth)
		b.WriteString("end")
	case *Make:
		b.WriteString("make ")
		b.WriteString(n.Name)
		if len(n.Params) > 0 {
			b.WriteString(" with ")
			b.WriteString(strings.Join(n.Params, ", "))
		}
		b.WriteString(" do\n")
		printBody(b, n.Body, depth+1)
		b.WriteByte('\n')
		indent(b, depth)
		b.WriteString("end")
	case *Call:
		b.WriteString(n.Name)
		if len(n.Args) > 0 {
			parts := make([]string, len(n.Args))
			for i, a := range n.Args {
				parts[i] = printExpr(a)
			}
			b.WriteByte(' ')
			b.WriteString(strings.Join(parts, ", "))
		}
	case *TurtleOp:
		b.WriteString(printTurtleOp(n))
	case *Comment:
		// comments don't round-trip
	default:
		fmt.Fprintf(b, "/* unprintable %T */", n)
	}
}

func printBody(b *strings.Builder, stmts []Node, depth int) {
	for i, stmt := range stmts {
		if i > 0 {
			b.WriteByte('\n')
		}
		printStmt(b, stmt, depth)
	}
}

func hintName(h TypeHint) string {
	switch h {
	case HintString:
		return "string"
	case HintNumber:
		return "number"
	case HintList:
		return "list"
	default:
		return ""
	}
}

func printTurtleOp(n *TurtleOp) string {
	switch n.Verb {
	case "use_color":
		return "use color " + printExpr(n.Arg)
	case "draw_circle":
		return "draw circle with radius " + printExpr(n.Arg)
	default:
		return n.Verb
	}
}

func printExpr(n Node) string {
	switch n := n.(type) {
	case *StringLit:
		// The lexer has no escape syntax, so this is a plain quote-wrap,
		// not strconv.Quote. A string containing a literal '"' can't
		// round-trip, the same limitation the grammar itself has.
		return `"` + n.Value + `"`
	case *NumberLit:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *ListLit:
		items := make([]string, len(n.Items))
		for i, it := range n.Items {
			items[i] = printExpr(it)
		}
		return "(" + strings.Join(items, ", ") + ")"
	case *IdentExpr:
		return n.Name
	case *CallExpr:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = printExpr(a)
		}
		if len(parts) == 0 {
			return n.Name
		}
		return n.Name + " " + strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("/* unprintable %T */", n)
	}
}
