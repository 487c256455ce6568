package main

import (
	"encoding/json"
	"strings"
)

const (
	// EventTypeUserCreated is the Clerk event type for user creation
	EventTypeUserCreated = "user.created"
)

// WebhookEvent represents a Clerk webhook event envelope.
// The shape of Data depends on Type.
type WebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// UserCreatedData is the payload for "user.created" events
type UserCreatedData struct {
	ID             string         `json:"id"`
	FirstName      *string        `json:"first_name"`
	LastName       *string        `json:"last_name"`
	ImageURL       *string        `json:"image_url"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
}

// EmailAddress is a nested object within Clerk user data
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// SyncUserRequest is the normalized user record handed to a UserSyncer
type SyncUserRequest struct {
	Email   string
	Name    string
	Image   *string
	ClerkID string
}

// PrimaryEmail returns the first email address, or an empty string if there is none.
func (d UserCreatedData) PrimaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}

// FullName joins first and last name with a single space and trims the result.
// Missing parts count as empty strings, so a user without names gets "".
func (d UserCreatedData) FullName() string {
	return strings.TrimSpace(valueOrEmpty(d.FirstName) + " " + valueOrEmpty(d.LastName))
}

// SyncRequest builds the downstream request for this user
func (d UserCreatedData) SyncRequest() SyncUserRequest {
	return SyncUserRequest{
		Email:   d.PrimaryEmail(),
		Name:    d.FullName(),
		Image:   d.ImageURL,
		ClerkID: d.ID,
	}
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
