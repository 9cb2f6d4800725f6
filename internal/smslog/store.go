package smslog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// ErrNoLog is returned by ReadLast when the log file does not exist yet.
	ErrNoLog = errors.New("log file does not exist")
	// ErrMalformed wraps JSON decoding failures of the log file.
	ErrMalformed = errors.New("log file is malformed")
)

// Store is the log abstraction the operations depend on.
type Store interface {
	Append(rec Record) error
	ReadLast(n int) ([]Record, error)
}

// JSONFile stores records as an indented JSON array in one file.
//
// Append is a read-modify-write of the whole file without locking: two
// processes appending at the same time can lose one of the records.
type JSONFile struct {
	Path string
	Log  zerolog.Logger

	rename func(oldpath, newpath string) error
}

// NewJSONFile returns a store backed by path.
func NewJSONFile(path string, log zerolog.Logger) *JSONFile {
	return &JSONFile{
		Path:   path,
		Log:    log.With().Str("component", "smslog").Logger(),
		rename: os.Rename,
	}
}

// Append adds rec to the end of the log. A malformed existing file is
// replaced by a fresh array holding only rec; its old content is lost.
func (s *JSONFile) Append(rec Record) error {
	records, err := s.load()
	if errors.Is(err, ErrMalformed) {
		s.Log.Warn().Str("file", s.Path).Err(err).Msg("log file is malformed, a new file will be created")
		records = nil
	} else if err != nil && !errors.Is(err, ErrNoLog) {
		return err
	}

	records = append(records, rec)
	if err := s.write(records); err != nil {
		return fmt.Errorf("could not write to %s: %w", s.Path, err)
	}
	return nil
}

// ReadLast returns up to n of the newest records, oldest first.
func (s *JSONFile) ReadLast(n int) ([]Record, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n < len(records) {
		records = records[len(records)-n:]
	}
	return records, nil
}

func (s *JSONFile) load() ([]Record, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoLog
		}
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.Path, err)
	}
	return records, nil
}

// write replaces the file via a temp file and rename, so a failed write
// leaves the previous content in place.
func (s *JSONFile) write(records []Record) error {
	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	rename := s.rename
	if rename == nil {
		rename = os.Rename
	}
	if err := rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("replace %s: %w", s.Path, err)
	}
	return nil
}
