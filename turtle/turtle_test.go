package turtle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHomeIsCenter(t *testing.T) {
	tt := New(DefaultCanvasW, DefaultCanvasH)
	assert.Equal(t, DefaultCanvasW/2, tt.X)
	assert.Equal(t, DefaultCanvasH/2, tt.Y)
	assert.True(t, tt.PenDown)
}

func TestForwardRecordsLineWhenPenDown(t *testing.T) {
	tt := New(800, 600)
	tt.Forward(100)
	assert.Len(t, tt.Log, 1)
	line, ok := tt.Log[0].(LineCmd)
	assert.True(t, ok)
	assert.Equal(t, tt.X, line.X1)
}

func TestPenUpRecordsMove(t *testing.T) {
	tt := New(800, 600)
	tt.PenUp()
	tt.Forward(50)
	assert.Len(t, tt.Log, 2)
	_, ok := tt.Log[1].(MoveCmd)
	assert.True(t, ok)
}

func TestConfinementClampsAndWarns(t *testing.T) {
	tt := New(100, 100)
	tt.Heading = 0
	warn := tt.Forward(1000)
	assert.NotEmpty(t, warn)
	assert.GreaterOrEqual(t, tt.X, 0.0)
	assert.LessOrEqual(t, tt.X, 100.0)
}

func TestTurnWrapsModulo360(t *testing.T) {
	tt := New(800, 600)
	tt.Right(370)
	assert.Equal(t, 350.0, tt.Heading)
	tt.Left(360)
	assert.Equal(t, 350.0, tt.Heading)
}

func TestUnrecognizedColorFallsBackToBlack(t *testing.T) {
	tt := New(800, 600)
	tt.SetColorName("chartreuse")
	assert.Equal(t, "black", tt.Col.Name)
}

func TestClearResetsPoseAndLog(t *testing.T) {
	tt := New(800, 600)
	tt.Forward(10)
	tt.Right(90)
	tt.Clear()
	assert.Empty(t, tt.Log)
	assert.Equal(t, 400.0, tt.X)
	assert.Equal(t, 300.0, tt.Y)
	assert.Equal(t, 0.0, tt.Heading)
}

func TestSquareDrawingProducesFourCollinearForwardSegments(t *testing.T) {
	tt := New(800, 600)
	tt.PenDownOp()
	for i := 0; i < 4; i++ {
		tt.Forward(DefaultStep)
	}
	assert.Len(t, tt.Log, 5)
	_, ok := tt.Log[0].(PenDownCmd)
	assert.True(t, ok)
	for _, cmd := range tt.Log[1:] {
		_, ok := cmd.(LineCmd)
		assert.True(t, ok)
	}
}
