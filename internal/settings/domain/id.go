package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ID identifies a settings row. It is either persisted (assigned by the server)
// or pending (generated locally for a row the server has not seen yet).
// A pending ID never equals a persisted one, even when the underlying strings match.
type ID struct {
	value   string
	pending bool
}

// Persisted wraps a server-assigned id.
func Persisted(id string) ID {
	return ID{value: id}
}

// NewPending returns a fresh local id for a row that has not been saved yet.
func NewPending() ID {
	return ID{value: uuid.NewString(), pending: true}
}

func (id ID) IsPending() bool { return id.pending }

func (id ID) IsZero() bool { return id.value == "" }

// Value returns the raw id string. For pending ids it is the local uuid.
func (id ID) Value() string { return id.value }

func (id ID) String() string {
	if id.pending {
		return "new:" + id.value
	}
	return id.value
}

// MarshalJSON encodes persisted ids as their string and pending ids as "",
// which the API treats as "assign a new id".
func (id ID) MarshalJSON() ([]byte, error) {
	if id.pending {
		return json.Marshal("")
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*id = Persisted(s)
	return nil
}
