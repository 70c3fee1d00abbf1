package session

import "time"

// Notice messages.
const (
	NoticeTranslateFailed = "翻译遇到了点阻碍"
	NoticeSpeechFailed    = "语音失败，请检查网络"
	NoticeCopied          = "已收纳"
)

// NoticeDurations sets how long each notice stays visible.
type NoticeDurations struct {
	TranslateFailed time.Duration
	SpeechFailed    time.Duration
	Copied          time.Duration
}

// DefaultNoticeDurations returns the standard display times.
func DefaultNoticeDurations() NoticeDurations {
	return NoticeDurations{
		TranslateFailed: 2 * time.Second,
		SpeechFailed:    3 * time.Second,
		Copied:          1500 * time.Millisecond,
	}
}

// Notice is a transient message shown to the user.
type Notice struct {
	Message string        `json:"message" yaml:"message"`
	TTL     time.Duration `json:"ttl" yaml:"ttl"`
	Expires time.Time     `json:"expires" yaml:"expires"`
}
