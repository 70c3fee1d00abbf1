package translate

import (
	"fmt"
	"strings"

	"github.com/haivivi/huaxiazi/pkg/dialect"
)

// NewRequest builds the instruction and prompt for translating text in the
// given direction. Callers reject blank input before calling; NewRequest
// still returns ErrEmptyInput for it so a blank prompt never reaches the
// model.
func NewRequest(text string, d dialect.Dialect, mode dialect.Mode) (*Request, error) {
	if Blank(text) {
		return nil, ErrEmptyInput
	}
	if !d.Valid() {
		return nil, fmt.Errorf("translate: %w: %d", dialect.ErrUnknownDialect, int(d))
	}
	req := &Request{Dialect: d, Mode: mode, Text: text}
	switch mode {
	case dialect.ToDialect:
		req.SystemInstruction = toDialectInstruction(d)
		req.Prompt = toDialectPrompt(text, d)
	case dialect.ToMandarin:
		req.SystemInstruction = toMandarinInstruction(d)
		req.Prompt = toMandarinPrompt(text, d)
	default:
		return nil, fmt.Errorf("translate: %w: %q", dialect.ErrUnknownMode, string(mode))
	}
	return req, nil
}

func toDialectInstruction(d dialect.Dialect) string {
	var sb strings.Builder
	sb.WriteString("你是一位精通中国方言的语言学专家。")
	fmt.Fprintf(&sb, "请将用户输入的普通话或英文翻译成指定的方言：%s。", d.Label())
	sb.WriteString("译文必须是当地人日常真正会说的地道表达，而不是逐字替换汉字；")
	fmt.Fprintf(&sb, "请注意%s内部不同片区之间的读音和用词差异，以%s的说法为准。", d.Label(), d.Region())
	return sb.String()
}

func toMandarinInstruction(d dialect.Dialect) string {
	return fmt.Sprintf(
		"你是一位精通中国方言的语言学专家。请将用户输入的方言（%s）翻译成标准普通话，准确传达原句的语气和含义。",
		d.Label(),
	)
}

func toDialectPrompt(text string, d dialect.Dialect) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "翻译文本: \"%s\"。\n", text)
	sb.WriteString("要求返回：\n")
	sb.WriteString("1. 方言文字表达（translatedText）。\n")
	fmt.Fprintf(&sb, "2. 该方言的拼音或注音（phonetic），使用%s。\n", d.Romanization())
	sb.WriteString("3. 意思的详细解释及文化背景（meaning）。\n")
	sb.WriteString("并在 dialectName 中给出方言名称。")
	return sb.String()
}

func toMandarinPrompt(text string, d dialect.Dialect) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "翻译文本: \"%s\"。\n", text)
	sb.WriteString("要求返回：\n")
	sb.WriteString("1. 翻译后的标准普通话（translatedText）。\n")
	fmt.Fprintf(&sb, "2. 原方言文本的读音标注（phonetic），使用%s。\n", d.Romanization())
	sb.WriteString("3. 对方言词汇的文化解释或意义（meaning）。\n")
	sb.WriteString("并在 dialectName 中给出原文的方言名称。")
	return sb.String()
}
