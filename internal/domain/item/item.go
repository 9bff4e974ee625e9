// Package item holds the lost and found report records.
package item

import (
	"strings"
	"time"
)

// LostStatus is the lifecycle state of a lost report.
type LostStatus string

const (
	// LostPending is a lost report still waiting for a match.
	LostPending LostStatus = "pending"
	// LostFound is a lost report whose item has been located.
	LostFound LostStatus = "found"
	// LostClaimed is a lost report whose item went back to the owner.
	LostClaimed LostStatus = "claimed"
)

// Valid reports whether s is a known lost status.
func (s LostStatus) Valid() bool {
	switch s {
	case LostPending, LostFound, LostClaimed:
		return true
	}
	return false
}

// FoundStatus is the lifecycle state of a found report.
type FoundStatus string

const (
	// FoundAvailable is a found item nobody has claimed yet. New reports start here.
	FoundAvailable FoundStatus = "available"
	// FoundClaimed is a found item handed over to its owner.
	FoundClaimed FoundStatus = "claimed"
	// FoundPending is a found item with a claim awaiting review.
	FoundPending FoundStatus = "pending"
)

// Valid reports whether s is a known found status.
func (s FoundStatus) Valid() bool {
	switch s {
	case FoundAvailable, FoundClaimed, FoundPending:
		return true
	}
	return false
}

// Finder describes whoever reported locating a lost item.
type Finder struct {
	Name    string
	Contact string
	Details string
	FoundAt time.Time
}

// Claimer describes someone asking for a found item back.
type Claimer struct {
	Name      string
	Contact   string
	Details   string
	ClaimedAt time.Time
}

// Lost is a lost item report.
type Lost struct {
	ID          string
	Title       string
	Category    string
	Location    string
	Date        string // YYYY-MM-DD as submitted
	Description string
	ContactInfo string
	Status      LostStatus
	UserID      string
	// Attributes holds category-specific identifying fields (brand, color, issuer...).
	Attributes map[string]string
	Finder     *Finder
	CreatedAt  time.Time
}

// Attr returns a trimmed attribute value or "".
func (l *Lost) Attr(key string) string {
	if l.Attributes == nil {
		return ""
	}
	return strings.TrimSpace(l.Attributes[key])
}

// Found is a found item report.
type Found struct {
	ID          string
	Title       string
	Category    string
	Location    string
	Date        string // YYYY-MM-DD as submitted
	Description string
	ContactInfo string
	Status      FoundStatus
	UserID      string
	Claimer     *Claimer
	CreatedAt   time.Time
}

// Identifying attribute keys used by the ownership questionnaire.
const (
	AttrSubcategory   = "subcategory"
	AttrPhoneBrand    = "phone_brand"
	AttrPhoneModel    = "phone_model"
	AttrPhoneColor    = "phone_color"
	AttrPhoneCase     = "phone_case"
	AttrItemBrand     = "item_brand"
	AttrItemColor     = "item_color"
	AttrHasCash       = "has_cash"
	AttrFirstName     = "first_name"
	AttrLastName      = "last_name"
	AttrIDCardIssuer  = "id_card_issuer"
	AttrUniversity    = "university"
	AttrBagBrand      = "bag_brand"
	AttrBagColor      = "bag_color"
	AttrBagMaterial   = "bag_material"
	AttrBagContents   = "bag_contents"
	AttrClothesType   = "clothes_type"
	AttrClothesSize   = "clothes_size"
	AttrClothesColor  = "clothes_color"
	AttrClothesBrand  = "clothes_brand"
	maxAttributeCount = 64
)
