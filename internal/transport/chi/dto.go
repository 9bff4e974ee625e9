package chi

import (
	"time"

	"github.com/kailas-cloud/lostfound/internal/domain/item"
	"github.com/kailas-cloud/lostfound/internal/domain/match"
	"github.com/kailas-cloud/lostfound/internal/domain/message"
	"github.com/kailas-cloud/lostfound/internal/domain/verify"
	connectionuc "github.com/kailas-cloud/lostfound/internal/usecase/connection"
)

type lostItemRequest struct {
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Location    string            `json:"location"`
	Date        string            `json:"date"`
	Description string            `json:"description"`
	ContactInfo string            `json:"contact_info"`
	UserID      string            `json:"user_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

func (r lostItemRequest) toDomain() item.Lost {
	return item.Lost{
		Title:       r.Title,
		Category:    r.Category,
		Location:    r.Location,
		Date:        r.Date,
		Description: r.Description,
		ContactInfo: r.ContactInfo,
		UserID:      r.UserID,
		Attributes:  r.Attributes,
	}
}

type foundItemRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Description string `json:"description"`
	ContactInfo string `json:"contact_info"`
	UserID      string `json:"user_id,omitempty"`
}

func (r foundItemRequest) toDomain() item.Found {
	return item.Found{
		Title:       r.Title,
		Category:    r.Category,
		Location:    r.Location,
		Date:        r.Date,
		Description: r.Description,
		ContactInfo: r.ContactInfo,
		UserID:      r.UserID,
	}
}

type finderRequest struct {
	Name    string     `json:"finder_name"`
	Contact string     `json:"finder_contact"`
	Details string     `json:"finder_details,omitempty"`
	FoundAt *time.Time `json:"found_at,omitempty"`
}

func (r finderRequest) toDomain() item.Finder {
	f := item.Finder{Name: r.Name, Contact: r.Contact, Details: r.Details}
	if r.FoundAt != nil {
		f.FoundAt = *r.FoundAt
	}
	return f
}

type finderResponse struct {
	Name    string    `json:"finder_name"`
	Contact string    `json:"finder_contact"`
	Details string    `json:"finder_details,omitempty"`
	FoundAt time.Time `json:"found_at"`
}

type claimRequest struct {
	Name      string     `json:"claimer_name"`
	Contact   string     `json:"claimer_contact"`
	Details   string     `json:"claimer_details,omitempty"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
}

func (r claimRequest) toDomain() item.Claimer {
	c := item.Claimer{Name: r.Name, Contact: r.Contact, Details: r.Details}
	if r.ClaimedAt != nil {
		c.ClaimedAt = *r.ClaimedAt
	}
	return c
}

type claimerResponse struct {
	Name      string    `json:"claimer_name"`
	Contact   string    `json:"claimer_contact"`
	Details   string    `json:"claimer_details,omitempty"`
	ClaimedAt time.Time `json:"claimed_at"`
}

type lostItemResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Location    string            `json:"location"`
	Date        string            `json:"date"`
	Description string            `json:"description"`
	ContactInfo string            `json:"contact_info"`
	Status      string            `json:"status"`
	UserID      string            `json:"user_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Finder      *finderResponse   `json:"finder,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func lostToResponse(l *item.Lost) lostItemResponse {
	resp := lostItemResponse{
		ID:          l.ID,
		Title:       l.Title,
		Category:    l.Category,
		Location:    l.Location,
		Date:        l.Date,
		Description: l.Description,
		ContactInfo: l.ContactInfo,
		Status:      string(l.Status),
		UserID:      l.UserID,
		Attributes:  l.Attributes,
		CreatedAt:   l.CreatedAt,
	}
	if l.Finder != nil {
		resp.Finder = &finderResponse{
			Name:    l.Finder.Name,
			Contact: l.Finder.Contact,
			Details: l.Finder.Details,
			FoundAt: l.Finder.FoundAt,
		}
	}
	return resp
}

type foundItemResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Category    string           `json:"category"`
	Location    string           `json:"location"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	ContactInfo string           `json:"contact_info"`
	Status      string           `json:"status"`
	UserID      string           `json:"user_id,omitempty"`
	Claimer     *claimerResponse `json:"claimer,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func foundToResponse(f *item.Found) foundItemResponse {
	resp := foundItemResponse{
		ID:          f.ID,
		Title:       f.Title,
		Category:    f.Category,
		Location:    f.Location,
		Date:        f.Date,
		Description: f.Description,
		ContactInfo: f.ContactInfo,
		Status:      string(f.Status),
		UserID:      f.UserID,
		CreatedAt:   f.CreatedAt,
	}
	if f.Claimer != nil {
		resp.Claimer = &claimerResponse{
			Name:      f.Claimer.Name,
			Contact:   f.Claimer.Contact,
			Details:   f.Claimer.Details,
			ClaimedAt: f.Claimer.ClaimedAt,
		}
	}
	return resp
}

type contactMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r contactMessageRequest) toDomain() message.Message {
	return message.Message{Name: r.Name, Email: r.Email, Subject: r.Subject, Body: r.Message}
}

type contactMessageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func messageToResponse(m *message.Message) contactMessageResponse {
	return contactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Body,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

type listResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

func newListResponse[T any](items []T, next string) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, NextCursor: next, HasMore: next != ""}
}

type connectionResponse struct {
	ID              string             `json:"id"`
	LostItemID      string             `json:"lost_item_id"`
	FoundItemID     string             `json:"found_item_id"`
	MatchPercentage int                `json:"match_percentage"`
	Status          string             `json:"status"`
	CreatedAt       *time.Time         `json:"created_at,omitempty"`
	UpdatedAt       *time.Time         `json:"updated_at,omitempty"`
	LostItem        *lostItemResponse  `json:"lost_item,omitempty"`
	FoundItem       *foundItemResponse `json:"found_item,omitempty"`
}

func connectionToResponse(c *connectionuc.Connection) connectionResponse {
	resp := connectionResponse{
		ID:              c.ID,
		LostItemID:      c.LostItemID,
		FoundItemID:     c.FoundItemID,
		MatchPercentage: c.MatchPercentage,
		Status:          string(c.Status),
		CreatedAt:       timePtr(c.CreatedAt),
		UpdatedAt:       timePtr(c.UpdatedAt),
	}
	if c.Lost != nil {
		l := lostToResponse(c.Lost)
		resp.LostItem = &l
	}
	if c.Found != nil {
		f := foundToResponse(c.Found)
		resp.FoundItem = &f
	}
	return resp
}

type connectionStatusRequest struct {
	Status string `json:"status"`
}

type questionnaireResponse struct {
	LostItemID string   `json:"lost_item_id"`
	Questions  []string `json:"questions"`
}

type answersRequest struct {
	Answers []string `json:"answers"`
}

type verifyResponse struct {
	Confidence int  `json:"confidence"`
	Verified   bool `json:"verified"`
	Earned     int  `json:"earned"`
	Possible   int  `json:"possible"`
}

func verifyToResponse(r verify.Result) verifyResponse {
	return verifyResponse{
		Confidence: r.Confidence,
		Verified:   r.Verified,
		Earned:     r.Earned,
		Possible:   r.Possible,
	}
}

type questionPayload struct {
	Text           string `json:"text"`
	ExpectedAnswer string `json:"expected_answer,omitempty"`
}

type verifyRequest struct {
	Questions []questionPayload `json:"questions"`
	Answers   []string          `json:"answers"`
}

func (r verifyRequest) questions() []verify.Question {
	qs := make([]verify.Question, len(r.Questions))
	for i, q := range r.Questions {
		qs[i] = verify.Question{Text: q.Text, ExpectedAnswer: q.ExpectedAnswer}
	}
	return qs
}

type matchLostItem struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
	lostItemRequest
}

type matchFoundItem struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
	foundItemRequest
}

type matchRequest struct {
	Lost          []matchLostItem  `json:"lost_items"`
	Found         []matchFoundItem `json:"found_items"`
	MinPercentage *int             `json:"min_percentage,omitempty"`
}

// items converts the payload. Reports without a status are open for matching.
func (r matchRequest) items() ([]item.Lost, []item.Found) {
	lost := make([]item.Lost, len(r.Lost))
	for i, l := range r.Lost {
		lost[i] = l.toDomain()
		lost[i].ID = l.ID
		lost[i].Status = item.LostStatus(l.Status)
		if l.Status == "" {
			lost[i].Status = item.LostPending
		}
	}
	found := make([]item.Found, len(r.Found))
	for i, f := range r.Found {
		found[i] = f.toDomain()
		found[i].ID = f.ID
		found[i].Status = item.FoundStatus(f.Status)
		if f.Status == "" {
			found[i].Status = item.FoundAvailable
		}
	}
	return lost, found
}

type candidateResponse struct {
	ID              string `json:"id"`
	LostItemID      string `json:"lost_item_id"`
	FoundItemID     string `json:"found_item_id"`
	MatchPercentage int    `json:"match_percentage"`
	Status          string `json:"status"`
}

type matchResponse struct {
	Candidates []candidateResponse `json:"candidates"`
}

func candidatesToResponse(cs []match.Candidate) matchResponse {
	out := make([]candidateResponse, len(cs))
	for i, c := range cs {
		out[i] = candidateResponse{
			ID:              c.ID,
			LostItemID:      c.LostItemID,
			FoundItemID:     c.FoundItemID,
			MatchPercentage: c.MatchPercentage,
			Status:          string(c.Status),
		}
	}
	return matchResponse{Candidates: out}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	LatencyMs int64             `json:"latency_ms"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
