package roster

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// UnknownPlaceholder is the display marker for absent optional fields.
const UnknownPlaceholder = "—" // em-dash

// Person is a single roster record.
//
// Name and Email are always present; City and Company may be empty, meaning
// "unknown". Unknown fields render as UnknownPlaceholder and are excluded
// from aggregation buckets. Key is a stable per-record identifier used for
// row identity in the UI: the upstream ID when the record has one, otherwise
// a ULID assigned at decode time.
type Person struct {
	ID      string `json:"id,omitempty"`
	Key     string `json:"key"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	City    string `json:"city,omitempty"`
	Company string `json:"company,omitempty"`
}

// DisplayCity returns the city, or the unknown placeholder when absent.
func (p *Person) DisplayCity() string {
	if p.City == "" {
		return UnknownPlaceholder
	}
	return p.City
}

// DisplayCompany returns the company, or the unknown placeholder when absent.
func (p *Person) DisplayCompany() string {
	if p.Company == "" {
		return UnknownPlaceholder
	}
	return p.Company
}

// personPayload mirrors the remote service's record shape. The upstream ID
// may be a JSON string or number; City and Company are nested one level down.
type personPayload struct {
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Address struct {
		City string `json:"city"`
	} `json:"address"`
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
}

// decodeID normalizes a string-or-numeric JSON id to its string form.
// Returns "" for absent or null ids.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// toPerson converts a decoded payload record into a Person, assigning a
// synthetic ULID key when the record carries no upstream id.
func (pp *personPayload) toPerson() (*Person, error) {
	name := strings.TrimSpace(pp.Name)
	email := strings.TrimSpace(pp.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("record missing required name/email fields")
	}

	p := &Person{
		ID:      decodeID(pp.ID),
		Name:    name,
		Email:   email,
		City:    strings.TrimSpace(pp.Address.City),
		Company: strings.TrimSpace(pp.Company.Name),
	}
	if p.ID != "" {
		p.Key = p.ID
	} else {
		p.Key = ulid.Make().String()
	}
	return p, nil
}
