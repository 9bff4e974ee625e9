package item

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domitem "github.com/kailas-cloud/lostfound/internal/domain/item"
)

const (
	fieldID          = "id"
	fieldTitle       = "title"
	fieldCategory    = "category"
	fieldLocation    = "location"
	fieldDate        = "date"
	fieldDescription = "description"
	fieldContact     = "contact_info"
	fieldStatus      = "status"
	fieldUserID      = "user_id"
	fieldAttributes  = "attributes_json"
	fieldCreatedAt   = "created_at"

	fieldFinderName    = "finder_name"
	fieldFinderContact = "finder_contact"
	fieldFinderDetails = "finder_details"
	fieldFinderFoundAt = "finder_found_at"

	fieldClaimerName      = "claimer_name"
	fieldClaimerContact   = "claimer_contact"
	fieldClaimerDetails   = "claimer_details"
	fieldClaimerClaimedAt = "claimer_claimed_at"
)

// Timestamps are stored as unix milliseconds.
func formatMillis(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseMillis(s string) (time.Time, error) {
	if s == "" || s == "0" {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// lostToHash converts a lost report to a map for HSET.
func lostToHash(l *domitem.Lost) (map[string]string, error) {
	m := map[string]string{
		fieldID:          l.ID,
		fieldTitle:       l.Title,
		fieldCategory:    l.Category,
		fieldLocation:    l.Location,
		fieldDate:        l.Date,
		fieldDescription: l.Description,
		fieldContact:     l.ContactInfo,
		fieldStatus:      string(l.Status),
		fieldUserID:      l.UserID,
		fieldCreatedAt:   formatMillis(l.CreatedAt),
	}
	if len(l.Attributes) > 0 {
		raw, err := json.Marshal(l.Attributes)
		if err != nil {
			return nil, fmt.Errorf("marshal attributes: %w", err)
		}
		m[fieldAttributes] = string(raw)
	}
	if l.Finder != nil {
		for k, v := range finderToHash(l.Finder) {
			m[k] = v
		}
	}
	return m, nil
}

func finderToHash(f *domitem.Finder) map[string]string {
	return map[string]string{
		fieldFinderName:    f.Name,
		fieldFinderContact: f.Contact,
		fieldFinderDetails: f.Details,
		fieldFinderFoundAt: formatMillis(f.FoundAt),
	}
}

// lostFromHash hydrates a lost report from an HGETALL result map.
func lostFromHash(m map[string]string) (domitem.Lost, error) {
	createdAt, err := parseMillis(m[fieldCreatedAt])
	if err != nil {
		return domitem.Lost{}, err
	}

	l := domitem.Lost{
		ID:          m[fieldID],
		Title:       m[fieldTitle],
		Category:    m[fieldCategory],
		Location:    m[fieldLocation],
		Date:        m[fieldDate],
		Description: m[fieldDescription],
		ContactInfo: m[fieldContact],
		Status:      domitem.LostStatus(m[fieldStatus]),
		UserID:      m[fieldUserID],
		CreatedAt:   createdAt,
	}

	if raw := m[fieldAttributes]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &l.Attributes); err != nil {
			return domitem.Lost{}, fmt.Errorf("unmarshal attributes: %w", err)
		}
	}

	if name, ok := m[fieldFinderName]; ok {
		foundAt, err := parseMillis(m[fieldFinderFoundAt])
		if err != nil {
			return domitem.Lost{}, err
		}
		l.Finder = &domitem.Finder{
			Name:    name,
			Contact: m[fieldFinderContact],
			Details: m[fieldFinderDetails],
			FoundAt: foundAt,
		}
	}

	return l, nil
}

func claimerToHash(c *domitem.Claimer) map[string]string {
	return map[string]string{
		fieldClaimerName:      c.Name,
		fieldClaimerContact:   c.Contact,
		fieldClaimerDetails:   c.Details,
		fieldClaimerClaimedAt: formatMillis(c.ClaimedAt),
	}
}

// foundToHash converts a found report to a map for HSET.
func foundToHash(f *domitem.Found) map[string]string {
	m := map[string]string{
		fieldID:          f.ID,
		fieldTitle:       f.Title,
		fieldCategory:    f.Category,
		fieldLocation:    f.Location,
		fieldDate:        f.Date,
		fieldDescription: f.Description,
		fieldContact:     f.ContactInfo,
		fieldStatus:      string(f.Status),
		fieldUserID:      f.UserID,
		fieldCreatedAt:   formatMillis(f.CreatedAt),
	}
	if f.Claimer != nil {
		for k, v := range claimerToHash(f.Claimer) {
			m[k] = v
		}
	}
	return m
}

// foundFromHash hydrates a found report from an HGETALL result map.
func foundFromHash(m map[string]string) (domitem.Found, error) {
	createdAt, err := parseMillis(m[fieldCreatedAt])
	if err != nil {
		return domitem.Found{}, err
	}
	f := domitem.Found{
		ID:          m[fieldID],
		Title:       m[fieldTitle],
		Category:    m[fieldCategory],
		Location:    m[fieldLocation],
		Date:        m[fieldDate],
		Description: m[fieldDescription],
		ContactInfo: m[fieldContact],
		Status:      domitem.FoundStatus(m[fieldStatus]),
		UserID:      m[fieldUserID],
		CreatedAt:   createdAt,
	}

	if name, ok := m[fieldClaimerName]; ok {
		claimedAt, err := parseMillis(m[fieldClaimerClaimedAt])
		if err != nil {
			return domitem.Found{}, err
		}
		f.Claimer = &domitem.Claimer{
			Name:      name,
			Contact:   m[fieldClaimerContact],
			Details:   m[fieldClaimerDetails],
			ClaimedAt: claimedAt,
		}
	}
	return f, nil
}
