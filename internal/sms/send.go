package sms

import (
	"context"
	"errors"
	"fmt"

	"smsctl/internal/modem"
	"smsctl/internal/smslog"
)

var (
	ErrCreateFailed = errors.New("failed to create SMS")
	ErrSendFailed   = errors.New("failed to send SMS")
)

// Send creates an outgoing message on the modem, sends it, and logs it.
// Nothing is logged unless the device accepted the send.
func (m *Manager) Send(ctx context.Context, md *modem.Modem, number, text string) (*smslog.Record, error) {
	receiver, changed := m.Numbers.Normalize(number)
	if changed {
		m.printf("Detected %s number, automatically added country code: %s\n", m.Numbers.describe(), receiver)
	}

	m.printf("Sending SMS to %s...\n", receiver)
	handle, err := m.Provider.CreateMessage(ctx, md.Path, receiver, text)
	if err != nil {
		m.println("Failed to create SMS.")
		return nil, fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	m.Log.Debug().Str("sms", handle).Msg("created outgoing message")

	if err := m.Provider.SendMessage(ctx, handle); err != nil {
		m.println("Failed to send SMS.")
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	m.println("SMS sent. Logging to JSON file...")
	rec := smslog.Record{
		Type:           smslog.TypeSent,
		SenderNumber:   md.OwnNumber,
		ReceiverNumber: receiver,
		MessageContent: text,
		SentTime:       smslog.Now(m.Now()),
		ReceivedTime:   smslog.NotApplicable,
	}
	if err := m.Store.Append(rec); err != nil {
		m.printf("Error: %v\n", err)
		return &rec, err
	}
	m.println("SMS record saved.")
	return &rec, nil
}
