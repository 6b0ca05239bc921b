package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/user-api/models"
)

func TestUser_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(models.User{ID: 1, Name: "Juan Pérez", Email: "juan.perez@example.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"nombre":"Juan Pérez","email":"juan.perez@example.com"}`, string(b))
}

func TestNewUser_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    models.NewUser
		wantErr bool
	}{
		{name: "complete", body: `{"nombre":"Juan","email":"j@example.com"}`, want: models.NewUser{Name: "Juan", Email: "j@example.com"}},
		{name: "empty strings", body: `{"nombre":"","email":""}`, want: models.NewUser{}},
		{name: "unknown keys ignored", body: `{"nombre":"A","email":"a@b","edad":30}`, want: models.NewUser{Name: "A", Email: "a@b"}},
		{name: "missing email", body: `{"nombre":"Juan"}`, wantErr: true},
		{name: "null name", body: `{"nombre":null,"email":"j@example.com"}`, wantErr: true},
		{name: "wrong type", body: `{"nombre":42,"email":"j@example.com"}`, wantErr: true},
		{name: "english key", body: `{"name":"Juan","email":"j@example.com"}`, wantErr: true},
		{name: "not an object", body: `["Juan"]`, wantErr: true},
		{name: "malformed", body: `{"nombre":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.NewUser
			err := json.Unmarshal([]byte(tt.body), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateUser_UnmarshalJSON(t *testing.T) {
	var u models.UpdateUser
	require.NoError(t, json.Unmarshal([]byte(`{"nombre":"Juan P.","email":"jp@example.com"}`), &u))
	assert.Equal(t, models.UpdateUser{Name: "Juan P.", Email: "jp@example.com"}, u)

	err := json.Unmarshal([]byte(`{"email":"jp@example.com"}`), &u)
	assert.ErrorIs(t, err, models.ErrMissingField)
}
