package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellex-lang/ellex/lang"
	"github.com/ellex-lang/ellex/safety"
	"github.com/ellex-lang/ellex/turtle"
)

func TestEncodeDecodeValueRoundTrip(t *testing.T) {
	values := []lang.Value{
		lang.String{Value: "hello"},
		lang.Number{Value: 42.5},
		lang.List{Items: []lang.Value{lang.Number{Value: 1}, lang.String{Value: "two"}}},
		lang.Nil{},
	}
	for _, v := range values {
		tv := EncodeValue(v)
		got := tv.Decode()
		assert.Equal(t, v, got)
	}
}

func TestDocumentRoundTripThroughScopesAndFunctions(t *testing.T) {
	scopes := lang.NewScopes()
	scopes.DefineSession("name", lang.String{Value: "Alice"})
	scopes.DefineSession("count", lang.Number{Value: 3})

	funcs := lang.NewFunctionTable()
	prog, err := lang.NewParserString(`make greet with who do tell "hi {who}" end`).ParseProgram()
	require.NoError(t, err)
	make := prog.Stmts[0].(*lang.Make)
	funcs.Define(&lang.FunctionRecord{Name: make.Name, Params: make.Params, Body: make.Body})

	tt := turtle.New(turtle.DefaultCanvasW, turtle.DefaultCanvasH)
	tt.Forward(50)

	doc := Encode(scopes, funcs, tt, []string{`tell "hi"`}, safety.Default(), 1)
	data, err := Marshal(doc)
	require.NoError(t, err)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 1, decoded.ExecutionCount)
	assert.Equal(t, []string{`tell "hi"`}, decoded.History)

	restoredScopes, restoredFuncs, err := Restore(decoded)
	require.NoError(t, err)

	v, ok := restoredScopes.ResolveSession("name")
	require.True(t, ok)
	assert.Equal(t, lang.String{Value: "Alice"}, v)

	rec, ok := restoredFuncs.Lookup("greet")
	require.True(t, ok)
	assert.Equal(t, []string{"who"}, rec.Params)

	restoredTurtle := turtle.New(turtle.DefaultCanvasW, turtle.DefaultCanvasH)
	RestoreTurtle(decoded, restoredTurtle)
	assert.Equal(t, tt.X, restoredTurtle.X)
	assert.Equal(t, tt.Y, restoredTurtle.Y)
	assert.Len(t, restoredTurtle.Log, len(tt.Log))
}

// Older saves without a turtle field restore with a fresh, default
// turtle rather than failing.
func TestRestoreTurtleWithNoSavedTurtleKeepsDefault(t *testing.T) {
	doc := &Document{Version: 1}
	fresh := turtle.New(turtle.DefaultCanvasW, turtle.DefaultCanvasH)
	before := *fresh
	RestoreTurtle(doc, fresh)
	assert.Equal(t, before.X, fresh.X)
	assert.Equal(t, before.Y, fresh.Y)
}

func TestStampAndVerifyRoundTrip(t *testing.T) {
	data := []byte(`{"hello":"world"}`)
	stamp := Stamp(data, "s3cret")
	assert.True(t, Verify(data, "s3cret", stamp))
	assert.False(t, Verify(data, "wrong-secret", stamp))
	assert.False(t, Verify([]byte(`{"hello":"tampered"}`), "s3cret", stamp))
}

func TestBoltStoreSaveLoadDeleteWithIntegrityStamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	bs, err := OpenBolt(path, "s3cret")
	require.NoError(t, err)
	defer bs.Close()

	scopes := lang.NewScopes()
	scopes.DefineSession("x", lang.Number{Value: 7})
	doc := Encode(scopes, lang.NewFunctionTable(), nil, nil, safety.Default(), 0)

	require.NoError(t, bs.Save("sess-1", doc))

	loaded, err := bs.Load("sess-1")
	require.NoError(t, err)
	v, ok := loaded.Variables["x"]
	require.True(t, ok)
	assert.Equal(t, float64(7), v.Num)

	ids, err := bs.List()
	require.NoError(t, err)
	assert.Contains(t, ids, "sess-1")

	require.NoError(t, bs.Delete("sess-1"))
	_, err = bs.Load("sess-1")
	require.Error(t, err)
}

func TestBoltStoreUnstampedLoadAcceptedWithNoSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	bs, err := OpenBolt(path, "")
	require.NoError(t, err)
	defer bs.Close()

	doc := Encode(lang.NewScopes(), lang.NewFunctionTable(), nil, nil, safety.Default(), 0)
	require.NoError(t, bs.Save("sess-1", doc))

	_, err = bs.Load("sess-1")
	require.NoError(t, err)
}
