// Package jsontime provides a timestamp type stored as Unix milliseconds.
//
// History records keep their creation time as an integer millisecond count
// in JSON and msgpack, so records written by other clients of the same
// store decode unchanged. YAML output shows the time in RFC 3339.
package jsontime

import (
	"encoding/json"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Milli is a time.Time with millisecond resolution on the wire.
type Milli time.Time

// FromTime truncates t to the millisecond.
func FromTime(t time.Time) Milli {
	return Milli(time.UnixMilli(t.UnixMilli()))
}

// NowEpochMilli returns the current time as Milli.
func NowEpochMilli() Milli {
	return FromTime(time.Now())
}

// Time returns the underlying time.Time value.
func (ep Milli) Time() time.Time {
	return time.Time(ep)
}

// UnixMilli returns the wire value.
func (ep Milli) UnixMilli() int64 {
	return time.Time(ep).UnixMilli()
}

// Equal reports whether ep and t represent the same instant.
func (ep Milli) Equal(t Milli) bool {
	return time.Time(ep).Equal(time.Time(t))
}

func (ep Milli) String() string {
	return time.Time(ep).String()
}

// Format formats the local time with the given layout.
func (ep Milli) Format(layout string) string {
	return time.Time(ep).Local().Format(layout)
}

// IsZero reports whether ep is the zero time.
func (ep Milli) IsZero() bool {
	return time.Time(ep).IsZero()
}

// UnmarshalJSON implements json.Unmarshaler. null leaves ep unchanged.
func (ep *Milli) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return err
	}
	*ep = Milli(time.UnixMilli(ms))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ep Milli) MarshalJSON() ([]byte, error) {
	return json.Marshal(ep.UnixMilli())
}

// MarshalYAML renders the time in RFC 3339 with milliseconds.
func (ep Milli) MarshalYAML() (any, error) {
	return time.Time(ep).Local().Format("2006-01-02T15:04:05.000Z07:00"), nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (ep Milli) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeInt(ep.UnixMilli())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (ep *Milli) DecodeMsgpack(dec *msgpack.Decoder) error {
	ms, err := dec.DecodeInt64()
	if err != nil {
		return err
	}
	*ep = Milli(time.UnixMilli(ms))
	return nil
}

var (
	_ msgpack.CustomEncoder = Milli{}
	_ msgpack.CustomDecoder = (*Milli)(nil)
)
