package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/jsontime"
	"github.com/haivivi/huaxiazi/pkg/translate"
)

// MaxHistory is the number of history items kept.
const MaxHistory = 50

// HistoryItem is one saved translation.
type HistoryItem struct {
	translate.Result `json:",inline" yaml:",inline" msgpack:",inline"`

	ID           string          `json:"id" yaml:"id" msgpack:"id"`
	OriginalText string          `json:"originalText" yaml:"original_text" msgpack:"originalText"`
	Timestamp    jsontime.Milli  `json:"timestamp" yaml:"timestamp" msgpack:"timestamp"`
	Mode         dialect.Mode    `json:"mode" yaml:"mode" msgpack:"mode"`
	Dialect      dialect.Dialect `json:"dialect" yaml:"dialect" msgpack:"dialect"`
}

func newHistoryItem(res translate.Result, original string, d dialect.Dialect, mode dialect.Mode, now time.Time) HistoryItem {
	return HistoryItem{
		Result:       res,
		ID:           uuid.NewString(),
		OriginalText: original,
		Timestamp:    jsontime.FromTime(now),
		Mode:         mode,
		Dialect:      d,
	}
}

// prepend returns a new slice with item first, truncated to MaxHistory.
func prepend(history []HistoryItem, item HistoryItem) []HistoryItem {
	n := min(len(history)+1, MaxHistory)
	out := make([]HistoryItem, 0, n)
	out = append(out, item)
	return append(out, history[:n-1]...)
}
