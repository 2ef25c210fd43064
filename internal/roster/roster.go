// Package roster defines the people roster data model and the decoding of
// the remote directory service's payload envelope.
package roster

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when the remote response body does not
// have the expected envelope or record shape.
var ErrMalformedPayload = errors.New("malformed roster payload")

// Roster is an ordered collection of Person records. Order is arrival order
// from the data source and is preserved by every downstream operation.
//
// Records are held by pointer so that two records with identical visible
// fields remain distinguishable: deletion operates on reference identity.
type Roster []*Person

// envelope is the remote service's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

// DecodeEnvelope parses a response body of the form
// {success, count, data: [...]} into a Roster.
//
// A body that is not valid JSON, an envelope whose data field is not an
// array, or a record missing its required name/email fields all yield
// ErrMalformedPayload.
func DecodeEnvelope(body []byte) (Roster, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: success flag not set", ErrMalformedPayload)
	}
	return DecodeRecords(env.Data)
}

// DecodeRecords parses a raw JSON array of person records into a Roster.
// A nil or non-array value is malformed.
func DecodeRecords(data json.RawMessage) (Roster, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: data field absent", ErrMalformedPayload)
	}

	var payloads []personPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("%w: data is not an array of records: %v", ErrMalformedPayload, err)
	}

	out := make(Roster, 0, len(payloads))
	for i := range payloads {
		p, err := payloads[i].toPerson()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedPayload, i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Delete removes exactly one record from r by reference identity and
// returns the shortened roster plus whether a record was removed. Records
// that merely share field values with target are untouched.
func (r Roster) Delete(target *Person) (Roster, bool) {
	for i, p := range r {
		if p == target {
			out := make(Roster, 0, len(r)-1)
			out = append(out, r[:i]...)
			out = append(out, r[i+1:]...)
			return out, true
		}
	}
	return r, false
}
