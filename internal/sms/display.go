package sms

import (
	"errors"

	"smsctl/internal/smslog"
)

// ShowLog prints the newest n log records. A missing log is reported and
// is not an error. A malformed log is warned about and shown as empty; only
// a log that cannot be read at all is an error.
func (m *Manager) ShowLog(n int) error {
	m.printf("--- Last %d SMS Records (from %s) ---\n", n, m.LogName)

	records, err := m.Store.ReadLast(n)
	if errors.Is(err, smslog.ErrNoLog) {
		m.println("Log file does not exist.")
		return nil
	}
	if errors.Is(err, smslog.ErrMalformed) {
		m.Log.Warn().Err(err).Msg("message log is malformed")
		m.printf("Failed to read or parse %s. Error: %v\n", m.LogName, err)
		return nil
	}
	if err != nil {
		m.printf("Failed to read or parse %s. Error: %v\n", m.LogName, err)
		return err
	}
	if len(records) == 0 {
		m.println("No SMS records found in log file.")
	}

	for _, r := range records {
		m.printf("Type: %s, Sender: %s, Receiver: %s\n", r.Type, r.SenderNumber, r.ReceiverNumber)
		m.printf("Content: %s\n", r.MessageContent)
		m.printf("Time: %s\n-------------------\n", r.DisplayTime())
	}
	return nil
}
