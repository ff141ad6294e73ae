package model

import "time"

// ContactStatus is the triage state of a contact submission.
type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

// contactTransitions lists the forward moves the admin view offers.
var contactTransitions = map[ContactStatus]ContactStatus{
	ContactStatusNew:  ContactStatusRead,
	ContactStatusRead: ContactStatusReplied,
}

// Valid reports whether s is one of new, read or replied.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	}
	return false
}

// Next returns the status the admin view offers from s ("mark as read" for
// new, "mark as replied" for read). ok is false for replied.
func (s ContactStatus) Next() (next ContactStatus, ok bool) {
	next, ok = contactTransitions[s]
	return next, ok
}

// CanTransitionTo reports whether to is the single forward move from s.
func (s ContactStatus) CanTransitionTo(to ContactStatus) bool {
	next, ok := s.Next()
	return ok && next == to
}

// Contact represents a message submitted via the support page contact form.
// Only Status and UpdatedAt change after creation.
type Contact struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
