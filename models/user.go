package models

import (
	"encoding/json"
	"errors"
)

// User represents a row in the "users" table.
// The JSON name of Name is "nombre"; the column is "name".
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
}

// NewUser holds the fields required to create a user. The id is assigned by
// the database, so it has no field here.
type NewUser struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
}

// UpdateUser holds the replacement name and email for an existing user. The
// target id comes from the request path.
type UpdateUser struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
}

// ErrMissingField is returned when a request body lacks nombre or email, or
// carries null for either of them.
var ErrMissingField = errors.New("models: nombre and email are required")

// userFields is the shared wire shape of NewUser and UpdateUser. Pointers
// tell an absent or null key apart from an empty string.
type userFields struct {
	Name  *string `json:"nombre"`
	Email *string `json:"email"`
}

func (f *userFields) decode(data []byte) (name, email string, err error) {
	if err := json.Unmarshal(data, f); err != nil {
		return "", "", err
	}
	if f.Name == nil || f.Email == nil {
		return "", "", ErrMissingField
	}
	return *f.Name, *f.Email, nil
}

// UnmarshalJSON rejects bodies where nombre or email is missing, null or not
// a string. Empty strings are accepted and unknown keys are ignored.
func (u *NewUser) UnmarshalJSON(data []byte) error {
	var f userFields
	name, email, err := f.decode(data)
	if err != nil {
		return err
	}
	u.Name, u.Email = name, email
	return nil
}

// UnmarshalJSON applies the same rules as NewUser.UnmarshalJSON.
func (u *UpdateUser) UnmarshalJSON(data []byte) error {
	var f userFields
	name, email, err := f.decode(data)
	if err != nil {
		return err
	}
	u.Name, u.Email = name, email
	return nil
}
