package jsontime

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"
)

func TestMilli_MarshalJSON(t *testing.T) {
	tm := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	ep := Milli(tm)

	data, err := json.Marshal(ep)
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}

	expected := tm.UnixMilli()
	var got int64
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal result error: %v", err)
	}
	if got != expected {
		t.Errorf("MarshalJSON = %d, want %d", got, expected)
	}
}

func TestMilli_UnmarshalJSON(t *testing.T) {
	ms := int64(1705315800000) // 2024-01-15 10:30:00 UTC
	data, _ := json.Marshal(ms)

	var ep Milli
	if err := json.Unmarshal(data, &ep); err != nil {
		t.Fatalf("UnmarshalJSON error: %v", err)
	}

	expected := time.UnixMilli(ms)
	if !time.Time(ep).Equal(expected) {
		t.Errorf("UnmarshalJSON = %v, want %v", time.Time(ep), expected)
	}
}

func TestMilli_Msgpack(t *testing.T) {
	type entry struct {
		ID        string `msgpack:"id"`
		Timestamp Milli  `msgpack:"timestamp"`
	}
	in := entry{ID: "a", Timestamp: NowEpochMilli()}

	data, err := msgpack.Marshal(in)
	if err != nil {
		t.Fatalf("msgpack.Marshal: %v", err)
	}
	var out entry
	if err := msgpack.Unmarshal(data, &out); err != nil {
		t.Fatalf("msgpack.Unmarshal: %v", err)
	}
	if !out.Timestamp.Equal(in.Timestamp) {
		t.Errorf("round trip: got %v, want %v", out.Timestamp, in.Timestamp)
	}

	// The wire value is a plain integer.
	var raw map[string]any
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	switch v := raw["timestamp"].(type) {
	case int64, uint64, int8, int16, int32, uint8, uint16, uint32:
	default:
		t.Errorf("timestamp encoded as %T", v)
	}
}

func TestMilli_RoundTrip(t *testing.T) {
	original := NowEpochMilli()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var restored Milli
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !original.Equal(restored) {
		t.Errorf("RoundTrip: original=%v, restored=%v", original, restored)
	}
}

func TestMilli_FromTime(t *testing.T) {
	tm := time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)
	ep := FromTime(tm)
	if got := ep.Time().Nanosecond(); got != 123000000 {
		t.Errorf("nanoseconds = %d, want 123000000", got)
	}
	if ep.UnixMilli() != tm.UnixMilli() {
		t.Errorf("UnixMilli = %d", ep.UnixMilli())
	}
	if ep.Equal(FromTime(tm.Add(time.Millisecond))) {
		t.Error("instants 1ms apart compare equal")
	}
}

func TestMilli_NullAndInvalid(t *testing.T) {
	ep := FromTime(time.Unix(100, 0))
	if err := json.Unmarshal([]byte("null"), &ep); err != nil {
		t.Fatal(err)
	}
	if ep.UnixMilli() != 100000 {
		t.Errorf("null changed value to %v", ep)
	}
	if err := json.Unmarshal([]byte(`"yesterday"`), &ep); err == nil {
		t.Error("expected error for string timestamp")
	}
}

func TestMilli_YAML(t *testing.T) {
	type entry struct {
		Timestamp Milli `yaml:"timestamp"`
	}
	tm := time.Date(2025, 5, 20, 8, 0, 0, 250*int(time.Millisecond), time.Local)
	data, err := yaml.Marshal(entry{Timestamp: FromTime(tm)})
	if err != nil {
		t.Fatal(err)
	}
	want := "timestamp: " + tm.Format("2006-01-02T15:04:05.000Z07:00")
	if !strings.Contains(string(data), want) {
		t.Errorf("yaml = %q, want %q", data, want)
	}
}

func TestMilli_Methods(t *testing.T) {
	ep := NowEpochMilli()

	if ep.String() == "" {
		t.Error("String() should not be empty")
	}
	if ep.Time().IsZero() {
		t.Error("Time() should not be zero")
	}
	if ep.Time().Nanosecond()%int(time.Millisecond) != 0 {
		t.Error("NowEpochMilli should be truncated to milliseconds")
	}

	var zero Milli
	if !zero.IsZero() {
		t.Error("zero Milli should be zero")
	}

	fixed := Milli(time.Date(2024, 3, 9, 8, 5, 0, 0, time.Local))
	if got := fixed.Format("2006-01-02 15:04"); got != "2024-03-09 08:05" {
		t.Errorf("Format = %q", got)
	}
}
