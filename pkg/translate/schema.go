package translate

import (
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// Field names of the structured reply.
const (
	FieldTranslatedText = "translatedText"
	FieldPhonetic       = "phonetic"
	FieldMeaning        = "meaning"
	FieldDialectName    = "dialectName"
)

// Fields lists the four required reply fields in schema order.
var Fields = []string{FieldTranslatedText, FieldPhonetic, FieldMeaning, FieldDialectName}

// Schema returns the output schema every translation reply must satisfy: an
// object with four required string properties. A fresh value is returned on
// each call so callers may adapt it for a provider.
func Schema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "方言翻译结果",
		Properties: map[string]*jsonschema.Schema{
			FieldTranslatedText: {Type: "string", Description: "翻译结果文本"},
			FieldPhonetic:       {Type: "string", Description: "拼音/注音标注"},
			FieldMeaning:        {Type: "string", Description: "含义/文化解释"},
			FieldDialectName:    {Type: "string", Description: "方言名称"},
		},
		Required:      append([]string(nil), Fields...),
		PropertyOrder: append([]string(nil), Fields...),
	}
}

var (
	resolveOnce sync.Once
	resolved    *jsonschema.Resolved
	resolveErr  error
)

func resolvedSchema() (*jsonschema.Resolved, error) {
	resolveOnce.Do(func() {
		resolved, resolveErr = Schema().Resolve(nil)
	})
	return resolved, resolveErr
}
