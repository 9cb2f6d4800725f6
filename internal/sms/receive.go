package sms

import (
	"context"
	"errors"
	"fmt"

	"smsctl/internal/modem"
	"smsctl/internal/smslog"
)

// Receive logs every unread incoming message on the modem and marks it read.
// Messages in any state other than "received" are left alone. It returns
// the number of messages logged.
func (m *Manager) Receive(ctx context.Context, md *modem.Modem) (int, error) {
	m.println("Checking for new received SMS...")
	handles, err := m.Provider.ListMessages(ctx, md.Path)
	if err != nil {
		m.Log.Debug().Err(err).Msg("no message list from modem")
		return 0, nil
	}

	var (
		logged int
		errs   []error
	)
	for _, handle := range handles {
		details, err := m.Provider.MessageDetails(ctx, handle)
		if err != nil {
			continue
		}
		if details.Get("state", "") != modem.StateReceived {
			continue
		}

		m.printf("New SMS found: %s\n", handle)
		rec := smslog.Record{
			Type:           smslog.TypeReceived,
			SenderNumber:   details.Get("number", smslog.Unknown),
			ReceiverNumber: md.OwnNumber,
			MessageContent: details.Get("text", ""),
			SentTime:       smslog.Unknown,
			ReceivedTime:   details.Get("timestamp", smslog.NotApplicable),
		}
		if err := m.Store.Append(rec); err != nil {
			// left unread so the next run picks it up again
			m.printf("Error: %v\n", err)
			errs = append(errs, fmt.Errorf("%s: %w", handle, err))
			continue
		}
		logged++

		if err := m.Provider.MarkRead(ctx, handle); err != nil {
			m.Log.Warn().Err(err).Str("sms", handle).Msg("could not mark message read")
		}
	}

	m.printf("All new SMS processed and saved to %s\n", m.LogName)
	return logged, errors.Join(errs...)
}
