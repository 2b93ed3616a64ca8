package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Number ID `json:"number"`
		Text   ID `json:"text"`
		Null   ID `json:"null"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"number":1024,"text":"abc","null":null}`), &payload))

	assert.Equal(t, ID("1024"), payload.Number)
	assert.Equal(t, ID("abc"), payload.Text)
	assert.Equal(t, ID(""), payload.Null)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &bad))
}

func TestBillingProfile_FullName(t *testing.T) {
	assert.Equal(t, "Maria Silva", BillingProfile{FirstName: "Maria", LastName: "Silva"}.FullName())
}
