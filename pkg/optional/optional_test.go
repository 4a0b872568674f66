package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchPayload struct {
	Title       Field[string] `json:"title,omitzero"`
	Description Field[string] `json:"description,omitzero"`
	Count       Field[int]    `json:"count,omitzero"`
}

func TestField_UnmarshalDistinguishesStates(t *testing.T) {
	var p patchPayload
	require.NoError(t, json.Unmarshal([]byte(`{"title":"hello","description":null}`), &p))

	// Present with a value
	assert.True(t, p.Title.IsSet())
	assert.False(t, p.Title.IsNull())
	v, ok := p.Title.Value()
	assert.True(t, ok)
	assert.Equal(t, "hello", v)

	// Present as explicit null
	assert.True(t, p.Description.IsSet())
	assert.True(t, p.Description.IsNull())
	_, ok = p.Description.Value()
	assert.False(t, ok)

	// Absent from the payload
	assert.False(t, p.Count.IsSet())
	assert.False(t, p.Count.IsNull())
	_, ok = p.Count.Value()
	assert.False(t, ok)
}

func TestField_ZeroValueIsUnset(t *testing.T) {
	var f Field[string]
	assert.False(t, f.IsSet())
	assert.True(t, f.IsZero())
}

func TestField_Constructors(t *testing.T) {
	set := Of(42)
	assert.True(t, set.IsSet())
	assert.False(t, set.IsNull())
	v, ok := set.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	null := Null[int]()
	assert.True(t, null.IsSet())
	assert.True(t, null.IsNull())
	assert.False(t, null.IsZero())
}

func TestField_MarshalRoundTrip(t *testing.T) {
	p := patchPayload{
		Title:       Of("hello"),
		Description: Null[string](),
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	// Unset fields are dropped, null fields stay null.
	assert.JSONEq(t, `{"title":"hello","description":null}`, string(data))

	var back patchPayload
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}

func TestField_UnmarshalZeroValue(t *testing.T) {
	var p patchPayload
	require.NoError(t, json.Unmarshal([]byte(`{"count":0,"title":""}`), &p))

	// A zero value is still "set" — distinct from absent.
	assert.True(t, p.Count.IsSet())
	n, ok := p.Count.Value()
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	assert.True(t, p.Title.IsSet())
	s, ok := p.Title.Value()
	assert.True(t, ok)
	assert.Equal(t, "", s)
}
