package counter

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// ColumnWidth is the width of the fixed text column holding an encoded counter.
const ColumnWidth = 25

// ColumnType is the SQL column type declared for an encoded counter.
const ColumnType = "char(25)"

const fieldSep = ":"

// FieldAdapter is the set of hooks a storage layer needs to keep a counter in
// a text column.
type FieldAdapter interface {
	// ColumnType returns the column type to declare.
	ColumnType() string
	// Decode parses a stored value. A NULL column yields an invalid NullCounter.
	Decode(raw sql.NullString) (NullCounter, error)
	// Coerce turns arbitrary input into a counter, or null.
	Coerce(in Input) (NullCounter, error)
	// Encode renders a counter for storage.
	Encode(c Counter) (string, error)
}

// Codec converts counters to and from their stored text form.
// Range is only consulted when an integer is coerced into a counter.
type Codec struct {
	Range Range
}

var _ FieldAdapter = Codec{}

// DefaultCodec coerces integers into DefaultRange.
var DefaultCodec = Codec{Range: DefaultRange}

// NewCodec returns a codec coercing integers into r.
func NewCodec(r Range) (Codec, error) {
	if err := r.Validate(); err != nil {
		return Codec{}, fmt.Errorf("codec range: %w", err)
	}
	return Codec{Range: r}, nil
}

func (Codec) ColumnType() string { return ColumnType }

func (Codec) Decode(raw sql.NullString) (NullCounter, error) {
	if !raw.Valid {
		return NullCounter{}, nil
	}
	c, err := Parse(raw.String)
	if err != nil {
		return NullCounter{}, err
	}
	return NullCounter{Counter: c, Valid: true}, nil
}

func (Codec) Encode(c Counter) (string, error) {
	return Encode(c)
}

func (cd Codec) Coerce(in Input) (NullCounter, error) {
	switch in.kind {
	case inputNull:
		return NullCounter{}, nil
	case inputCounter:
		if err := in.counter.Validate(); err != nil {
			return NullCounter{}, err
		}
		return NullCounter{Counter: in.counter, Valid: true}, nil
	case inputInt:
		r := cd.Range
		if r == (Range{}) {
			r = DefaultRange
		}
		c, err := r.FromInt(in.n)
		if err != nil {
			return NullCounter{}, err
		}
		return NullCounter{Counter: c, Valid: true}, nil
	default:
		return NullCounter{}, fmt.Errorf("%w: empty input", ErrTypeMismatch)
	}
}

// Parse decodes the "start:cycle_len:value" form. Trailing blanks, as returned
// for fixed-width CHAR columns by some databases, are ignored.
func Parse(s string) (Counter, error) {
	s = strings.TrimRight(s, " ")
	fields := strings.Split(s, fieldSep)
	if len(fields) != 3 {
		return Counter{}, fmt.Errorf("%w: %q has %d fields, want 3", ErrMalformedEncoding, s, len(fields))
	}

	var nums [3]int64
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return Counter{}, fmt.Errorf("%w: field %d of %q: %v", ErrMalformedEncoding, i, s, err)
		}
		nums[i] = n
	}

	c, err := New(nums[0], nums[1], nums[2])
	if err != nil {
		return Counter{}, fmt.Errorf("decode %q: %w", s, err)
	}
	return c, nil
}

// Encode renders c as "start:cycle_len:value". It rejects invalid counters
// and encodings wider than ColumnWidth instead of letting the column
// truncate them.
func Encode(c Counter) (string, error) {
	if err := c.Validate(); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	s := format(c)
	if len(s) > ColumnWidth {
		return "", fmt.Errorf("%w: %q is %d characters, column holds %d", ErrMalformedEncoding, s, len(s), ColumnWidth)
	}
	return s, nil
}

func format(c Counter) string {
	b := make([]byte, 0, ColumnWidth)
	b = strconv.AppendInt(b, c.start, 10)
	b = append(b, fieldSep...)
	b = strconv.AppendInt(b, c.cycleLen, 10)
	b = append(b, fieldSep...)
	b = strconv.AppendInt(b, c.value, 10)
	return string(b)
}
