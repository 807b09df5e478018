package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_JSONIsNumber(t *testing.T) {
	b, err := json.Marshal(struct {
		Q Quantity `json:"q"`
	}{MustQuantity("2.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":2.5}`, string(b))
}

func TestQuantity_UnmarshalAcceptsStringAndNumber(t *testing.T) {
	var v struct {
		A Quantity `json:"a"`
		B Quantity `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":3,"b":"0.75"}`), &v))
	assert.True(t, v.A.Equal(NewQuantityFromInt(3)))
	assert.True(t, v.B.Equal(MustQuantity("0.75")))
}

func TestParseQuantity_Comma(t *testing.T) {
	q, err := ParseQuantity("2,5")
	require.NoError(t, err)
	assert.True(t, q.Equal(NewQuantity(2.5)))

	_, err = ParseQuantity("due")
	assert.Error(t, err)
}
