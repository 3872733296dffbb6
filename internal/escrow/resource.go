package escrow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Decode errors callers branch on.
var (
	// ErrStoreNotFound means the module account never initialized its storage.
	ErrStoreNotFound = errors.New("store resource not found")

	// ErrMalformedStore means the resource exists but lacks an expected field.
	ErrMalformedStore = errors.New("malformed store resource")
)

// U64 decodes the node's u64 rendering, which is a JSON string for values
// that may exceed a double's integer range. Bare numbers are accepted too.
type U64 uint64

// UnmarshalJSON implements json.Unmarshaler.
func (u *U64) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse u64 %q: %w", s, err)
		}
		*u = U64(v)
		return nil
	}

	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parse u64: %w", err)
	}
	*u = U64(n)
	return nil
}

// Store mirrors the contract's Store resource: the shared counter the module
// uses to assign agreement ids.
type Store struct {
	NextID uint64
}

// storePayload is the wire shape of the resource's data field. Pointer fields
// distinguish an absent field from a zero value.
type storePayload struct {
	NextID *U64 `json:"next_id"`
}

// DecodeStore extracts the typed Store out of a generic resource record as
// returned by an account-resource read.
func DecodeStore(record map[string]any) (*Store, error) {
	if record == nil {
		return nil, ErrStoreNotFound
	}

	data, ok := record["data"]
	if !ok || data == nil {
		return nil, fmt.Errorf("%w: missing data field", ErrMalformedStore)
	}

	// Round-trip through JSON to bind the untyped record to the known layout.
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStore, err)
	}
	var payload storePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStore, err)
	}
	if payload.NextID == nil {
		return nil, fmt.Errorf("%w: missing next_id field", ErrMalformedStore)
	}

	return &Store{NextID: uint64(*payload.NextID)}, nil
}
