package encoding

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStdBase64Data_MarshalJSON(t *testing.T) {
	data := StdBase64Data([]byte("hello world"))

	b, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}

	expected := `"aGVsbG8gd29ybGQ="`
	if string(b) != expected {
		t.Errorf("MarshalJSON = %s; want %s", b, expected)
	}
}

func TestStdBase64Data_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{name: "valid base64", input: `"aGVsbG8gd29ybGQ="`, want: []byte("hello world")},
		{name: "empty base64", input: `""`, want: []byte{}},
		{name: "null", input: `null`, want: nil},
		{name: "invalid - number", input: `123`, wantErr: true},
		{name: "invalid - alphabet", input: `"@@@@"`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var data StdBase64Data
			err := json.Unmarshal([]byte(tc.input), &data)
			if tc.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != string(tc.want) {
				t.Errorf("got %q, want %q", data, tc.want)
			}
		})
	}
}

func TestDecodeBase64(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0x01, 0x00, 0x7f}
	tests := []struct {
		name  string
		input string
	}{
		{"std padded", "+/8BAH8="},
		{"std unpadded", "+/8BAH8"},
		{"url padded", "-_8BAH8="},
		{"url unpadded", "-_8BAH8"},
		{"with newlines", "+/8B\nAH8=\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeBase64(tc.input)
			if err != nil {
				t.Fatalf("DecodeBase64(%q): %v", tc.input, err)
			}
			if string(got) != string(raw) {
				t.Errorf("DecodeBase64(%q) = %v, want %v", tc.input, got, raw)
			}
		})
	}

	if _, err := DecodeBase64("not*base64"); !errors.Is(err, ErrInvalidBase64) {
		t.Errorf("invalid input error = %v", err)
	}
	if got, err := DecodeBase64(""); err != nil || len(got) != 0 {
		t.Errorf("empty input = %v, %v", got, err)
	}
}

func TestStdBase64Data_String(t *testing.T) {
	if got := StdBase64Data("hi").String(); got != "aGk=" {
		t.Errorf("String() = %q", got)
	}
}
