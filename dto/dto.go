package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/narrator/schema"
)

// StringID is the transport form of a UUID identifier.
type StringID string

// ToStringID converts an identifier to its transport form.
func ToStringID(id uuid.UUID) StringID { return StringID(id.String()) }

// ToID converts a transport identifier back to a UUID. The JSON and msgpack
// decoders validate the format, so ToID panics only on values built by hand.
func ToID(s StringID) uuid.UUID { return uuid.MustParse(string(s)) }

// RefToStringID converts a typed reference to its transport form.
func RefToStringID[T any](r schema.Ref[T]) StringID { return ToStringID(r.UUID()) }

// ToRef converts a transport identifier back to a typed reference.
func ToRef[T any](s StringID) schema.Ref[T] { return schema.NewRef[T](ToID(s)) }

// UnmarshalJSON implements json.Unmarshaler and rejects malformed identifiers.
func (s *StringID) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if err := uuid.Validate(v); err != nil {
		return fmt.Errorf("dto: invalid id %q: %w", v, err)
	}
	*s = StringID(v)
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder and rejects malformed
// identifiers.
func (s *StringID) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeString()
	if err != nil {
		return err
	}
	if err := uuid.Validate(v); err != nil {
		return fmt.Errorf("dto: invalid id %q: %w", v, err)
	}
	*s = StringID(v)
	return nil
}

// Integer is the set of integer types carried as WideInt.
type Integer interface {
	~int | ~int64 | ~uint | ~uint64
}

// WideInt carries a 64-bit integer. It is encoded as a decimal string.
// Unsigned values keep their bits: values of 1<<63 and above are carried
// as negative numbers and convert back unchanged through ToWideInt.
type WideInt int64

var (
	_ json.Marshaler        = WideInt(0)
	_ json.Unmarshaler      = (*WideInt)(nil)
	_ json.Unmarshaler      = (*StringID)(nil)
	_ msgpack.CustomDecoder = (*StringID)(nil)
	_ msgpack.CustomEncoder = WideInt(0)
	_ msgpack.CustomDecoder = (*WideInt)(nil)
	_ msgpack.CustomEncoder = DateTime{}
	_ msgpack.CustomDecoder = (*DateTime)(nil)
)

// ToWideIntDto converts an integer to its transport form.
func ToWideIntDto[T Integer](v T) WideInt { return WideInt(v) }

// ToWideInt converts a transport integer back to T.
func ToWideInt[T Integer](w WideInt) T { return T(w) }

// String returns the decimal representation of w.
func (w WideInt) String() string { return strconv.FormatInt(int64(w), 10) }

// MarshalJSON implements json.Marshaler.
func (w WideInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

// UnmarshalJSON implements json.Unmarshaler. Both quoted and bare numbers
// are accepted.
func (w *WideInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("dto: invalid wide integer %s: %w", data, err)
	}
	*w = WideInt(v)
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (w WideInt) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(w.String())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (w *WideInt) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("dto: invalid wide integer %q: %w", s, err)
	}
	*w = WideInt(v)
	return nil
}

// DateTime is the transport form of a timestamp, in milliseconds since the
// Unix epoch.
type DateTime struct {
	Millis int64 `json:"millis"`
}

// ToDateTimeDto converts a timestamp to its transport form.
func ToDateTimeDto(t time.Time) DateTime { return DateTime{Millis: t.UnixMilli()} }

// ToDateTime converts a transport timestamp back to a UTC time.
func ToDateTime(d DateTime) time.Time { return time.UnixMilli(d.Millis).UTC() }

// EncodeMsgpack implements msgpack.CustomEncoder.
func (d DateTime) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeInt(d.Millis)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *DateTime) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInt64()
	if err != nil {
		return err
	}
	d.Millis = v
	return nil
}

// Name carries an enumeration value by its name.
type Name[E ~string] struct {
	Name string `json:"name" msgpack:"name"`
}

// Dto converts an enumeration value to its transport form.
func Dto[E ~string](e E) Name[E] { return Name[E]{Name: string(e)} }

// Enum converts a transport enumeration back to its value.
func Enum[E ~string](n Name[E]) E { return E(n.Name) }

// Slice converts every element of in with f. A nil slice stays nil.
func Slice[S, D any](in []S, f func(S) D) []D {
	if in == nil {
		return nil
	}
	out := make([]D, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

// Ptr converts the value in points to with f. A nil pointer stays nil.
func Ptr[S, D any](in *S, f func(S) D) *D {
	if in == nil {
		return nil
	}
	v := f(*in)
	return &v
}
