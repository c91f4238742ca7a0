package store

import (
	"errors"
	"fmt"
	"net/mail"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits enforced before anything reaches the database.
const (
	MinPasswordLen    = 6
	MaxTitleLen       = 500
	MaxFaviconLen     = 2048
	MaxSessionNameLen = 255
	MaxDescriptionLen = 2000
	MaxTagLen         = 100
)

var (
	// ErrInvalidEmail is returned when an email address does not parse.
	ErrInvalidEmail = errors.New("Invalid email format")

	// ErrPasswordTooShort is returned for passwords under MinPasswordLen characters.
	ErrPasswordTooShort = fmt.Errorf("Password must be at least %d characters", MinPasswordLen)

	// ErrURLRequired is returned when a link has no URL.
	ErrURLRequired = errors.New("URL is required")

	// ErrNameRequired is returned when a session has no name.
	ErrNameRequired = errors.New("Name is required")
)

// ValidateCredentials checks the email format and password length.
func ValidateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateNewLink checks a link before it is saved.
func ValidateNewLink(in NewLink) error {
	if in.URL == "" {
		return ErrURLRequired
	}
	if err := maxLen("title", in.Title, MaxTitleLen); err != nil {
		return err
	}
	if err := maxLen("favicon", in.Favicon, MaxFaviconLen); err != nil {
		return err
	}
	if in.SessionID != "" && !IsUUID(in.SessionID) {
		return errors.New("session_id must be a UUID")
	}
	return nil
}

// ValidateNewSession checks a session before it is created.
func ValidateNewSession(in NewSession) error {
	if in.Name == "" {
		return ErrNameRequired
	}
	return validateSessionFields(in.Name, in.Description, in.Tag)
}

// ValidateSessionPatch checks the fields present in a partial update.
func ValidateSessionPatch(p SessionPatch) error {
	var name, desc, tag string
	if p.Name != nil {
		name = *p.Name
	}
	if p.Description != nil {
		desc = *p.Description
	}
	if p.Tag != nil {
		tag = *p.Tag
	}
	return validateSessionFields(name, desc, tag)
}

func validateSessionFields(name, description, tag string) error {
	if err := maxLen("name", name, MaxSessionNameLen); err != nil {
		return err
	}
	if err := maxLen("description", description, MaxDescriptionLen); err != nil {
		return err
	}
	return maxLen("tag", tag, MaxTagLen)
}

// IsUUID reports whether s is a canonical UUID string.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}

func maxLen(field, v string, limit int) error {
	if utf8.RuneCountInString(v) > limit {
		return fmt.Errorf("%s must be at most %d characters", field, limit)
	}
	return nil
}
