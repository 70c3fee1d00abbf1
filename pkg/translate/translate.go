// Package translate builds translation prompts for a remote text-generation
// model and parses the model's structured reply.
//
// The package does no I/O. A Request carries the system instruction, the task
// prompt and the JSON schema the model must answer with; Parse turns the raw
// model text back into a Result, failing with ErrMalformedResponse whenever
// the reply does not satisfy that same schema.
package translate

import (
	"errors"
	"strings"

	"github.com/haivivi/huaxiazi/pkg/dialect"
)

// ErrEmptyInput is returned when the text to translate is blank.
var ErrEmptyInput = errors.New("translate: empty input")

// Result is one parsed translation.
type Result struct {
	// TranslatedText is the produced text. Never empty after Parse.
	TranslatedText string `json:"translatedText" msgpack:"translatedText"`

	// Phonetic is a romanization or tone annotation. May be empty when the
	// model cannot supply one.
	Phonetic string `json:"phonetic" msgpack:"phonetic"`

	// Meaning is a free-text explanation.
	Meaning string `json:"meaning" msgpack:"meaning"`

	// DialectName is the dialect as named by the model. It usually echoes
	// the requested dialect but is not checked against it.
	DialectName string `json:"dialectName" msgpack:"dialectName"`
}

// Request is a fully built translation request.
type Request struct {
	Dialect dialect.Dialect
	Mode    dialect.Mode

	// Text is the literal user input, untrimmed.
	Text string

	SystemInstruction string
	Prompt            string
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
