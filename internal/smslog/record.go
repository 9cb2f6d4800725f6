// Package smslog keeps the local, append-only log of sent and received
// messages as a single JSON array.
package smslog

import "time"

const (
	TypeSent     = "sent"
	TypeReceived = "received"

	// NotApplicable and Unknown fill time fields that have no value.
	NotApplicable = "N/A"
	Unknown       = "unknown"

	// TimeLayout is local ISO-8601 without a zone, e.g. 2026-10-18T09:15:02.123456.
	TimeLayout = "2006-01-02T15:04:05.000000"
)

// Record is one logged message. Records are never mutated once appended.
type Record struct {
	Type           string `json:"type"`
	SenderNumber   string `json:"sender_number"`
	ReceiverNumber string `json:"receiver_number"`
	MessageContent string `json:"message_content"`
	SentTime       string `json:"sent_time"`
	ReceivedTime   string `json:"received_time"`
}

// DisplayTime returns the sent time, falling back to the received time when
// the sent time is a placeholder.
func (r Record) DisplayTime() string {
	if r.SentTime == "" || r.SentTime == NotApplicable || r.SentTime == Unknown {
		if r.ReceivedTime == "" {
			return NotApplicable
		}
		return r.ReceivedTime
	}
	return r.SentTime
}

// Now formats t the way sent_time is stored.
func Now(t time.Time) string {
	return t.Local().Format(TimeLayout)
}
