package memorials

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func date(s string) *time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func completeDraft() *Memorial {
	return &Memorial{
		FirstName: "John",
		LastName:  "Doe",
		Title:     "In Loving Memory of John Doe",
		BirthDate: date("1950-06-15"),
		DeathDate: date("2026-01-10"),
		Privacy:   PrivacyPublic,
	}
}

func TestValidate_CompleteDraftIsValid(t *testing.T) {
	t.Parallel()

	res := Validate(completeDraft(), testNow)
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("expected empty error map, got %v", res.Errors)
	}
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	res := Validate(&Memorial{Privacy: PrivacyPublic}, testNow)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	for _, field := range []string{"firstName", "lastName", "title", "birthDate", "deathDate"} {
		if _, ok := res.Errors[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, res.Errors)
		}
	}
}

func TestValidate_DeathBeforeBirth(t *testing.T) {
	t.Parallel()

	// The exact scenario: empty first name plus death date before
	// birth date must report both violations at once.
	d := &Memorial{
		FirstName: "",
		LastName:  "Doe",
		Title:     "A Life Remembered",
		BirthDate: date("2000-01-01"),
		DeathDate: date("1999-01-01"),
		Privacy:   PrivacyPublic,
	}
	res := Validate(d, testNow)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if _, ok := res.Errors["firstName"]; !ok {
		t.Errorf("expected firstName error, got %v", res.Errors)
	}
	if msg := res.Errors["deathDate"]; !strings.Contains(msg, "after birth date") {
		t.Errorf("expected ordering message on deathDate, got %q", msg)
	}
}

func TestValidate_DeathDateChecksFireIndependently(t *testing.T) {
	t.Parallel()

	t.Run("future only", func(t *testing.T) {
		t.Parallel()
		d := completeDraft()
		d.BirthDate = nil
		d.DeathDate = date("2030-01-01")
		res := Validate(d, testNow)
		msg := res.Errors["deathDate"]
		if !strings.Contains(msg, "future") {
			t.Errorf("expected future message, got %q", msg)
		}
		if strings.Contains(msg, "after birth date") {
			t.Errorf("ordering check should not fire without a birth date: %q", msg)
		}
	})

	t.Run("both fire", func(t *testing.T) {
		t.Parallel()
		d := completeDraft()
		d.BirthDate = date("2031-01-01")
		d.DeathDate = date("2030-01-01")
		res := Validate(d, testNow)
		msg := res.Errors["deathDate"]
		if !strings.Contains(msg, "after birth date") || !strings.Contains(msg, "future") {
			t.Errorf("expected both messages, got %q", msg)
		}
	})

	t.Run("equal dates rejected", func(t *testing.T) {
		t.Parallel()
		d := completeDraft()
		d.BirthDate = date("2000-01-01")
		d.DeathDate = date("2000-01-01")
		res := Validate(d, testNow)
		if !strings.Contains(res.Errors["deathDate"], "after birth date") {
			t.Errorf("equal dates must fail ordering, got %v", res.Errors)
		}
	})
}

func TestValidate_PasswordProtection(t *testing.T) {
	t.Parallel()

	d := completeDraft()
	d.Privacy = PrivacyPasswordProtected
	res := Validate(d, testNow)
	if _, ok := res.Errors["password"]; !ok {
		t.Fatalf("expected password error, got %v", res.Errors)
	}

	d.Password = "hunter2"
	res = Validate(d, testNow)
	if !res.Valid {
		t.Fatalf("expected valid with password set, got %v", res.Errors)
	}

	// An already-persisted hash also satisfies the rule.
	d.Password = ""
	hash := "$2a$10$somethinghashed"
	d.PasswordHash = &hash
	res = Validate(d, testNow)
	if !res.Valid {
		t.Fatalf("expected valid with stored hash, got %v", res.Errors)
	}
}

func TestValidate_CustomURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantOK  bool
		wantMsg string
	}{
		{name: "valid", url: "john-smith-123", wantOK: true},
		{name: "too short", url: "ab", wantOK: false, wantMsg: "at least 3"},
		{name: "bad characters", url: "John_Smith", wantOK: false, wantMsg: "lowercase"},
		{name: "too long", url: strings.Repeat("a", 51), wantOK: false, wantMsg: "at most 50"},
		{name: "empty skips the checks", url: "", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := completeDraft()
			if tt.url != "" {
				u := tt.url
				d.CustomURL = &u
			}
			res := Validate(d, testNow)
			if tt.wantOK {
				if _, ok := res.Errors["customUrl"]; ok {
					t.Fatalf("unexpected customUrl error: %v", res.Errors)
				}
				return
			}
			msg, ok := res.Errors["customUrl"]
			if !ok {
				t.Fatalf("expected customUrl error for %q", tt.url)
			}
			if !strings.Contains(msg, tt.wantMsg) {
				t.Fatalf("expected %q in message, got %q", tt.wantMsg, msg)
			}
		})
	}
}

func TestValidate_ShortNonMatchingURLReportsBothRules(t *testing.T) {
	t.Parallel()

	d := completeDraft()
	u := "A!"
	d.CustomURL = &u
	res := Validate(d, testNow)
	msg := res.Errors["customUrl"]
	if !strings.Contains(msg, "lowercase") || !strings.Contains(msg, "at least 3") {
		t.Fatalf("expected charset and length messages, got %q", msg)
	}
}

func TestValidate_Deterministic(t *testing.T) {
	t.Parallel()

	d := &Memorial{FirstName: "", LastName: "Doe"}
	first := Validate(d, testNow)
	for i := 0; i < 5; i++ {
		again := Validate(d, testNow)
		if again.Valid != first.Valid || len(again.Errors) != len(first.Errors) {
			t.Fatal("validation is not deterministic")
		}
		for k, v := range first.Errors {
			if again.Errors[k] != v {
				t.Fatalf("message drifted for %s: %q vs %q", k, v, again.Errors[k])
			}
		}
	}
}
