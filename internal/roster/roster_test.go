package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	body := []byte(`{
		"success": true,
		"count": 2,
		"data": [
			{"id": 1, "name": "Ann", "email": "a@x.com",
			 "address": {"city": "NY"}, "company": {"name": "Acme"}},
			{"id": "u-2", "name": "Bob", "email": "b@x.com",
			 "address": {"city": "NY"}, "company": {"name": "Zeta"}}
		]
	}`)

	r, err := DecodeEnvelope(body)
	require.NoError(t, err)
	require.Len(t, r, 2)

	assert.Equal(t, "1", r[0].ID)
	assert.Equal(t, "1", r[0].Key)
	assert.Equal(t, "Ann", r[0].Name)
	assert.Equal(t, "NY", r[0].City)
	assert.Equal(t, "Acme", r[0].Company)
	assert.Equal(t, "u-2", r[1].ID)
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"data not an array", `{"success": true, "count": 1, "data": {"name": "Ann"}}`},
		{"data absent", `{"success": true, "count": 0}`},
		{"success false", `{"success": false, "count": 0, "data": []}`},
		{"missing email", `{"success": true, "count": 1, "data": [{"name": "Ann"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEnvelope([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestDecodeEnvelope_OptionalFields(t *testing.T) {
	body := []byte(`{"success": true, "count": 1, "data": [
		{"name": "Cara", "email": "c@x.com"}
	]}`)

	r, err := DecodeEnvelope(body)
	require.NoError(t, err)
	require.Len(t, r, 1)

	p := r[0]
	assert.Empty(t, p.ID)
	assert.NotEmpty(t, p.Key, "records without an upstream id get a synthetic key")
	assert.Empty(t, p.City)
	assert.Equal(t, UnknownPlaceholder, p.DisplayCity())
	assert.Equal(t, UnknownPlaceholder, p.DisplayCompany())
}

func TestRosterDelete_ReferenceIdentity(t *testing.T) {
	// Two records with identical visible fields.
	a := &Person{Key: "k1", Name: "Dup", Email: "d@x.com"}
	b := &Person{Key: "k2", Name: "Dup", Email: "d@x.com"}
	r := Roster{a, b}

	out, ok := r.Delete(b)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Same(t, a, out[0], "only the exact reference is removed")

	out2, ok2 := out.Delete(&Person{Key: "k1", Name: "Dup", Email: "d@x.com"})
	assert.False(t, ok2, "a value-equal copy does not match")
	assert.Len(t, out2, 1)
}

func TestRosterDelete_Missing(t *testing.T) {
	r := Roster{{Key: "k1", Name: "Ann", Email: "a@x.com"}}
	out, ok := r.Delete(&Person{Key: "zz"})
	assert.False(t, ok)
	assert.Len(t, out, 1)
}
