package claimsx

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_JSONRoundTripByteStable(t *testing.T) {
	payloads := []string{
		`{"iss":"issuer","sub":"subject","aud":["api","web"],"exp":1696118400,"jti":"token-1"}`,
		`{"z":"last","a":"first","nested":{"b":2,"a":1},"list":[1,"two",true,null],"flag":false}`,
		`{"price":19.99,"count":3,"ratio":1e+06,"empty":{},"none":null}`,
		`{}`,
	}

	for _, payload := range payloads {
		doc := NewDocument()
		require.NoError(t, doc.UnmarshalJSON([]byte(payload)))

		out, err := doc.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, payload, string(out))
	}
}

func TestDocument_OrderPreserved(t *testing.T) {
	doc := NewDocument()
	require.NoError(t, doc.UnmarshalJSON([]byte(`{"z":1,"a":2,"m":3}`)))
	assert.Equal(t, []string{"z", "a", "m"}, doc.Keys())

	// overwriting keeps the original position
	doc.Set("a", String("changed"))
	assert.Equal(t, []string{"z", "a", "m"}, doc.Keys())

	value, ok := doc.Get("a")
	require.True(t, ok)
	assert.Equal(t, String("changed"), value)
}

func TestDocument_EqualIgnoresOrder(t *testing.T) {
	left := NewDocument()
	require.NoError(t, left.UnmarshalJSON([]byte(`{"a":1,"nested":{"x":true,"y":[1,2]}}`)))

	right := NewDocument()
	require.NoError(t, right.UnmarshalJSON([]byte(`{"nested":{"y":[1,2],"x":true},"a":1}`)))

	assert.True(t, left.Equal(right))
	assert.True(t, right.Equal(left))

	right.Set("a", Number("2"))
	assert.False(t, left.Equal(right))
}

func TestDocument_EqualValueLevel(t *testing.T) {
	left := NewDocument()
	left.Set("seq", Array{Number("1"), Number("2")})

	reordered := NewDocument()
	reordered.Set("seq", Array{Number("2"), Number("1")})

	// sequences stay order-sensitive, unlike documents
	assert.False(t, left.Equal(reordered))
}

func TestNumber_Equal(t *testing.T) {
	assert.True(t, Number("1").Equal(Number("1")))
	assert.True(t, Number("1").Equal(Number("1.0")))
	assert.False(t, Number("1").Equal(Number("2")))
	assert.False(t, Number("1").Equal(String("1")))
}

func TestValueOf(t *testing.T) {
	value, err := ValueOf(map[string]any{
		"b":    int64(2),
		"a":    "one",
		"flag": true,
		"none": nil,
		"list": []any{"x", 1.5},
	})
	require.NoError(t, err)

	doc, ok := value.(*Document)
	require.True(t, ok)
	// map input has no meaningful order, keys come out sorted
	assert.Equal(t, []string{"a", "b", "flag", "list", "none"}, doc.Keys())

	instant, err := ValueOf(time.Unix(1696118400, 0))
	require.NoError(t, err)
	assert.Equal(t, Number("1696118400"), instant)

	_, err = ValueOf(struct{}{})
	require.Error(t, err)
}

func TestValue_MarshalStandalone(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{String("x"), `"x"`},
		{Number("1.5"), `1.5`},
		{Bool(true), `true`},
		{Null{}, `null`},
		{Array{String("a"), Null{}}, `["a",null]`},
	}
	for _, tt := range tests {
		out, err := json.Marshal(tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(out))
	}
}
