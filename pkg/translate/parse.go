package translate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrMalformedResponse is matched by every error Parse returns.
var ErrMalformedResponse = errors.New("translate: malformed response")

// ParseError describes why a model reply was rejected.
type ParseError struct {
	// Reason is a short human readable cause.
	Reason string
	// Raw is the trimmed model output that was rejected.
	Raw string
	// Err is the underlying decode or validation error, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("translate: malformed response: %s: %v", e.Reason, e.Err)
	}
	return "translate: malformed response: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedResponse) hold for any *ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrMalformedResponse }

// Parser validates model replies against Schema.
type Parser struct {
	// Repair enables jsonrepair for replies that fail to decode because of
	// a syntax error (trailing commas, single quotes, unquoted keys). The
	// repaired document must still satisfy the schema.
	Repair bool
}

// Parse validates raw with the default (strict) parser.
func Parse(raw string) (Result, error) {
	return (&Parser{}).Parse(raw)
}

// Parse trims raw, decodes it and validates it against Schema. An empty reply
// is treated as an empty object and therefore fails validation.
func (p *Parser) Parse(raw string) (Result, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		text = "{}"
	}

	doc, err := p.decode(text)
	if err != nil {
		return Result{}, &ParseError{Reason: "not valid JSON", Raw: text, Err: err}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return Result{}, &ParseError{Reason: fmt.Sprintf("want object, got %T", doc), Raw: text}
	}

	rs, err := resolvedSchema()
	if err != nil {
		return Result{}, fmt.Errorf("translate: resolve schema: %w", err)
	}
	if err := rs.Validate(obj); err != nil {
		return Result{}, &ParseError{Reason: "schema mismatch", Raw: text, Err: err}
	}

	// Extraction re-checks presence and type independently of the schema.
	var vals [4]string
	for i, f := range Fields {
		v, ok := obj[f]
		if !ok {
			return Result{}, &ParseError{Reason: "missing field " + f, Raw: text}
		}
		s, ok := v.(string)
		if !ok {
			return Result{}, &ParseError{Reason: fmt.Sprintf("field %s: want string, got %T", f, v), Raw: text}
		}
		vals[i] = s
	}
	if strings.TrimSpace(vals[0]) == "" {
		return Result{}, &ParseError{Reason: "empty " + FieldTranslatedText, Raw: text}
	}
	return Result{
		TranslatedText: vals[0],
		Phonetic:       vals[1],
		Meaning:        vals[2],
		DialectName:    vals[3],
	}, nil
}

func (p *Parser) decode(text string) (any, error) {
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		return v, nil
	}
	var synErr *json.SyntaxError
	if !p.Repair || !errors.As(err, &synErr) {
		return nil, err
	}
	fixed, rerr := jsonrepair.JSONRepair(text)
	if rerr != nil {
		return nil, errors.Join(err, rerr)
	}
	if err := json.Unmarshal([]byte(fixed), &v); err != nil {
		return nil, err
	}
	return v, nil
}
