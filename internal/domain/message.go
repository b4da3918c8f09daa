package domain

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// TimeLayout is the wall-clock format carried in every message. Second
// granularity, no timezone.
const TimeLayout = "2006-01-02 15:04:05"

// DefaultSentiment is assumed when a decoded record carries no sentiment.
const DefaultSentiment = 0.5

// Message is the unit of data flowing through the pipeline. It is immutable
// once created: sinks append it, readers return copies, nothing mutates it.
type Message struct {
	Author    string  `json:"author"`
	Text      string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Category  string  `json:"category,omitempty"`
	Sentiment float64 `json:"sentiment"`
	Keyword   string  `json:"keyword_mentioned,omitempty"`
	Length    int     `json:"message_length"`
}

// UnmarshalJSON applies the reader-side defaults: a record without a
// sentiment scores 0.5, and a record without a length gets the character
// count of its text.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	aux := struct {
		*alias
		Sentiment *float64 `json:"sentiment"`
	}{alias: (*alias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.Sentiment != nil {
		m.Sentiment = *aux.Sentiment
	} else {
		m.Sentiment = DefaultSentiment
	}
	if m.Length == 0 && m.Text != "" {
		m.Length = utf8.RuneCountInString(m.Text)
	}

	return nil
}

// Generator produces messages from a monotonic counter.
type Generator struct {
	Author string
}

// Generate builds the message for one tick. Pure function of the counter and
// the wall clock; every field is plain text or a number so any sink can
// encode it without loss.
func (g Generator) Generate(counter int) Message {
	text := fmt.Sprintf("Hello World! This is message #%d", counter)

	return Message{
		Author:    g.Author,
		Text:      text,
		Timestamp: time.Now().Format(TimeLayout),
		Category:  "test",
		Sentiment: 0.8,
		Keyword:   "hello",
		Length:    utf8.RuneCountInString(text),
	}
}
