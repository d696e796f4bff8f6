package memorials

import (
	"strings"
	"time"
)

// Result is the outcome of a publish validation pass. Errors maps a
// form field name to a human-readable message; when several rules fire
// on the same field the messages are joined with "; ".
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Validate checks a draft against the publish rules. Every rule is
// evaluated independently so all violations are reported at once, not
// just the first. Pure: no I/O, and the clock is an argument.
func Validate(d *Memorial, now time.Time) Result {
	errs := map[string][]string{}

	add := func(field, msg string) {
		errs[field] = append(errs[field], msg)
	}

	if strings.TrimSpace(d.FirstName) == "" {
		add("firstName", "First name is required")
	}
	if strings.TrimSpace(d.LastName) == "" {
		add("lastName", "Last name is required")
	}
	if strings.TrimSpace(d.Title) == "" {
		add("title", "Title is required")
	}
	if d.BirthDate == nil {
		add("birthDate", "Birth date is required")
	}
	if d.DeathDate == nil {
		add("deathDate", "Death date is required")
	}

	if d.BirthDate != nil && d.DeathDate != nil && !d.DeathDate.After(*d.BirthDate) {
		add("deathDate", "Death date must be after birth date")
	}
	if d.DeathDate != nil && d.DeathDate.After(now) {
		add("deathDate", "Death date cannot be in the future")
	}

	if d.Privacy == PrivacyPasswordProtected && strings.TrimSpace(d.Password) == "" &&
		(d.PasswordHash == nil || strings.TrimSpace(*d.PasswordHash) == "") {
		add("password", "Password is required for password-protected memorials")
	}

	if d.CustomURL != nil && *d.CustomURL != "" {
		for _, msg := range CustomURLIssues(*d.CustomURL) {
			add("customUrl", msg)
		}
	}

	out := Result{Valid: len(errs) == 0, Errors: make(map[string]string, len(errs))}
	for field, msgs := range errs {
		out.Errors[field] = strings.Join(msgs, "; ")
	}
	return out
}
