package memorials

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for birth and death dates.
const DateLayout = "2006-01-02"

// ApplyField merges a single wizard field into the draft. Field names
// match the keys used by Validate. Dates arrive as "YYYY-MM-DD"; an
// empty value clears the field.
func ApplyField(d *Memorial, field, value string) error {
	switch field {
	case "firstName":
		d.FirstName = value
	case "middleName":
		d.MiddleName = value
	case "lastName":
		d.LastName = value
	case "nickname":
		d.Nickname = value
	case "title":
		d.Title = value
	case "headline":
		d.Headline = value
	case "obituary":
		d.Obituary = value
	case "biography":
		d.Biography = value
	case "serviceDetails":
		d.ServiceDetails = value
	case "privacy":
		d.Privacy = value
	case "password":
		d.Password = value
	case "customUrl":
		if value == "" {
			d.CustomURL = nil
		} else {
			v := value
			d.CustomURL = &v
		}
	case "birthDate":
		t, err := parseDate(value)
		if err != nil {
			return err
		}
		d.BirthDate = t
	case "deathDate":
		t, err := parseDate(value)
		if err != nil {
			return err
		}
		d.DeathDate = t
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return &t, nil
}
