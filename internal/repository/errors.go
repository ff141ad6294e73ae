package repository

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// validID reports whether id has the shape of a stored contact id. Anything
// else cannot exist, and Postgres would reject it as a uuid literal.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
