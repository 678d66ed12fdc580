package counter

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// NullCounter is a counter that may be null, in the manner of sql.NullString.
// It implements sql.Scanner and driver.Valuer so it can be used directly as a
// column type.
type NullCounter struct {
	Counter Counter
	Valid   bool
}

// Some wraps c as a non-null NullCounter.
func Some(c Counter) NullCounter {
	return NullCounter{Counter: c, Valid: true}
}

// Scan implements sql.Scanner.
func (n *NullCounter) Scan(src any) error {
	var raw sql.NullString
	switch v := src.(type) {
	case nil:
	case string:
		raw = sql.NullString{String: v, Valid: true}
	case []byte:
		raw = sql.NullString{String: string(v), Valid: true}
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrMalformedEncoding, src)
	}

	decoded, err := DefaultCodec.Decode(raw)
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}

// Value implements driver.Valuer.
func (n NullCounter) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return Encode(n.Counter)
}

type counterJSON struct {
	Start    *int64 `json:"start"`
	CycleLen *int64 `json:"cycle_len"`
	Value    *int64 `json:"value"`
}

// MarshalJSON renders null or {"start":..,"cycle_len":..,"value":..}.
func (n NullCounter) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	c := n.Counter
	return json.Marshal(counterJSON{Start: &c.start, CycleLen: &c.cycleLen, Value: &c.value})
}

// UnmarshalJSON accepts null or a counter object. All three members are
// required; the value is normalized into the window.
func (n *NullCounter) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NullCounter{}
		return nil
	}

	var obj counterJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	if obj.Start == nil || obj.CycleLen == nil || obj.Value == nil {
		return fmt.Errorf("%w: counter object needs start, cycle_len and value", ErrTypeMismatch)
	}

	c, err := New(*obj.Start, *obj.CycleLen, *obj.Value)
	if err != nil {
		return err
	}
	*n = Some(c)
	return nil
}
