// Package storage persists finished interviews as masked, append-only records.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/talentscout/internal/profile"
)

// TimestampLayout is ISO-8601 UTC with microseconds.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// ErrNotFound is returned by Finder implementations when no record matches.
var ErrNotFound = errors.New("candidate record not found")

// Message is one transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store appends one record per finished session. Implementations must write
// each record atomically so concurrent sessions never interleave.
type Store interface {
	Persist(ctx context.Context, sessionID string, values profile.Values, transcript []Message) error
}

// Finder looks up the most recent record of a returning candidate.
type Finder interface {
	LastProfile(ctx context.Context, hashedEmail string) (*StoredProfile, error)
}

// Record is the persisted shape.
type Record struct {
	SessionID   string         `json:"session_id"`
	Timestamp   string         `json:"timestamp"`
	HashedEmail *string        `json:"hashed_email"`
	Profile     profile.Values `json:"profile"`
	Transcript  []Message      `json:"transcript"`
}

// NewRecord builds a record with the email and phone masked and the email hashed.
func NewRecord(sessionID string, values profile.Values, transcript []Message, now time.Time) Record {
	masked := make(profile.Values, len(profile.Fields))
	for _, f := range profile.Fields {
		masked[f] = values[f]
	}
	masked[profile.Email] = MaskEmail(values[profile.Email])
	masked[profile.Phone] = MaskPhone(values[profile.Phone])

	if transcript == nil {
		transcript = []Message{}
	}

	return Record{
		SessionID:   sessionID,
		Timestamp:   now.UTC().Format(TimestampLayout),
		HashedEmail: HashEmail(values[profile.Email]),
		Profile:     masked,
		Transcript:  transcript,
	}
}

// Encode renders the record as a single JSON line without a trailing newline.
func (r Record) Encode() ([]byte, error) {
	data, err := sonic.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// StoredProfile is a profile read back from storage. Older records may carry
// a numeric years_of_experience, hence the weakly typed decoding.
type StoredProfile struct {
	SessionID         string `mapstructure:"-" json:"session_id"`
	Timestamp         string `mapstructure:"-" json:"timestamp"`
	FullName          string `mapstructure:"full_name" json:"full_name"`
	Email             string `mapstructure:"email" json:"email"`
	Phone             string `mapstructure:"phone" json:"phone"`
	DesiredPositions  string `mapstructure:"desired_positions" json:"desired_positions"`
	YearsOfExperience string `mapstructure:"years_of_experience" json:"years_of_experience"`
	CurrentLocation   string `mapstructure:"current_location" json:"current_location"`
	TechStack         string `mapstructure:"tech_stack" json:"tech_stack"`
}

type rawRecord struct {
	SessionID   string         `json:"session_id"`
	Timestamp   string         `json:"timestamp"`
	HashedEmail *string        `json:"hashed_email"`
	Profile     map[string]any `json:"profile"`
}

// DecodeProfile parses a stored record and returns its hashed email and profile.
func DecodeProfile(data []byte) (hashedEmail string, p *StoredProfile, err error) {
	var raw rawRecord
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return "", nil, fmt.Errorf("decode record: %w", err)
	}

	p = &StoredProfile{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           p,
	})
	if err != nil {
		return "", nil, fmt.Errorf("build profile decoder: %w", err)
	}
	if err := decoder.Decode(raw.Profile); err != nil {
		return "", nil, fmt.Errorf("decode profile: %w", err)
	}
	p.SessionID = raw.SessionID
	p.Timestamp = raw.Timestamp

	if raw.HashedEmail != nil {
		hashedEmail = *raw.HashedEmail
	}
	return hashedEmail, p, nil
}

// Discard is a Store that drops every record. It is used when the operator
// disables persistence.
type Discard struct{}

// Persist implements Store.
func (Discard) Persist(context.Context, string, profile.Values, []Message) error { return nil }
