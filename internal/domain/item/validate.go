package item

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kailas-cloud/lostfound/internal/domain"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\d{11}$`)

	dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}
)

// Field length limits.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 5000
	maxShortFieldLen  = 200
)

// ParseDate parses a report date. Returns false for anything unparseable.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ValidateEmail accepts a plain e-mail address.
func ValidateEmail(v string) error {
	if !emailRegex.MatchString(strings.TrimSpace(v)) {
		return errors.New("email must be a valid address")
	}
	return nil
}

// ValidateContact accepts an e-mail address or an 11-digit phone number.
func ValidateContact(v string) error {
	v = strings.TrimSpace(v)
	if !emailRegex.MatchString(v) && !phoneRegex.MatchString(v) {
		return errors.New("contact must be a valid email or 11-digit phone number")
	}
	return nil
}

// ValidateDate rejects unparseable dates and dates after today (UTC).
func ValidateDate(v string, now time.Time) error {
	t, ok := ParseDate(v)
	if !ok {
		return fmt.Errorf("date %q must be YYYY-MM-DD", v)
	}
	y, m, d := now.UTC().Date()
	endOfToday := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	if !t.Before(endOfToday) {
		return errors.New("date cannot be in the future")
	}
	return nil
}

// Validate checks a lost report before it is stored.
func (l *Lost) Validate(now time.Time) error {
	if err := validateCommon(l.Title, l.Category, l.Location, l.Date, l.Description, l.ContactInfo, now); err != nil {
		return err
	}
	if len(l.Attributes) > maxAttributeCount {
		return fmt.Errorf("too many attributes (max %d): %w", maxAttributeCount, domain.ErrValidation)
	}
	for k, v := range l.Attributes {
		if k == "" || len(k) > 64 || len(v) > maxShortFieldLen {
			return fmt.Errorf("attribute %q is invalid: %w", k, domain.ErrValidation)
		}
	}
	return nil
}

// Validate checks a found report before it is stored.
func (f *Found) Validate(now time.Time) error {
	return validateCommon(f.Title, f.Category, f.Location, f.Date, f.Description, f.ContactInfo, now)
}

func validateCommon(title, category, location, date, description, contact string, now time.Time) error {
	required := []struct{ name, value string }{
		{"title", title},
		{"category", category},
		{"location", location},
		{"date", date},
		{"contact_info", contact},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required: %w", r.name, domain.ErrValidation)
		}
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("title too long (max %d): %w", MaxTitleLen, domain.ErrValidation)
	}
	if len(category) > maxShortFieldLen || len(location) > maxShortFieldLen {
		return fmt.Errorf("category or location too long (max %d): %w", maxShortFieldLen, domain.ErrValidation)
	}
	if len(description) > MaxDescriptionLen {
		return fmt.Errorf("description too long (max %d): %w", MaxDescriptionLen, domain.ErrValidation)
	}
	if err := ValidateContact(contact); err != nil {
		return fmt.Errorf("%w: %w", err, domain.ErrValidation)
	}
	if err := ValidateDate(date, now); err != nil {
		return fmt.Errorf("%w: %w", err, domain.ErrValidation)
	}
	return nil
}

// Validate trims a claim and checks the claimant can be reached.
func (c *Claimer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Contact = strings.TrimSpace(c.Contact)
	c.Details = strings.TrimSpace(c.Details)
	if c.Name == "" {
		return fmt.Errorf("claimer name is required: %w", domain.ErrValidation)
	}
	if len(c.Name) > maxShortFieldLen {
		return fmt.Errorf("claimer name too long (max %d): %w", maxShortFieldLen, domain.ErrValidation)
	}
	if err := ValidateContact(c.Contact); err != nil {
		return fmt.Errorf("claimer %w: %w", err, domain.ErrValidation)
	}
	if len(c.Details) > MaxDescriptionLen {
		return fmt.Errorf("claim details too long (max %d): %w", MaxDescriptionLen, domain.ErrValidation)
	}
	return nil
}
