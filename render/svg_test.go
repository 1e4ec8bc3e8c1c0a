package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellex-lang/ellex/turtle"
)

func TestWriteSVGProducesWellFormedDocumentWithVisibleCommands(t *testing.T) {
	tt := turtle.New(turtle.DefaultCanvasW, turtle.DefaultCanvasH)
	tt.SetColorName("blue")
	tt.Forward(100)
	tt.Left(90)
	tt.PenUp()
	tt.Forward(50)
	tt.PenDownOp()
	tt.DrawCircle(20)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, tt))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Equal(t, 1, strings.Count(out, "<line"))
	assert.Equal(t, 1, strings.Count(out, "<circle"))
	assert.Contains(t, out, `stroke="blue"`)
}

func TestWriteSVGSkipsNonVisibleCommands(t *testing.T) {
	tt := turtle.New(turtle.DefaultCanvasW, turtle.DefaultCanvasH)
	tt.Clear()
	tt.PenUp()
	tt.Forward(100)
	tt.Right(45)
	tt.SetColorName("red")

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, tt))

	out := buf.String()
	assert.NotContains(t, out, "<line")
	assert.NotContains(t, out, "<circle")
}
