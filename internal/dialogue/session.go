// Package dialogue drives a candidate through language selection, profile
// collection and the technical questions.
package dialogue

import (
	"time"

	"github.com/spigell/talentscout/internal/classify"
	"github.com/spigell/talentscout/internal/i18n"
	"github.com/spigell/talentscout/internal/profile"
	"github.com/spigell/talentscout/internal/storage"
)

// MaxQuestions is the number of technical questions asked per interview.
const MaxQuestions = 5

// Phase is the state of an interview.
type Phase string

const (
	PhaseLanguagePending Phase = "language_pending"
	PhaseIntroPending    Phase = "intro_pending"
	PhasePersonal        Phase = "personal"
	PhaseTechnical       Phase = "technical"
	PhaseEnded           Phase = "ended"
)

// Role tells who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one history entry. Sentiment is only set on candidate turns of the
// personal phase.
type Turn struct {
	Role      Role               `json:"role"`
	Content   string             `json:"content"`
	Sentiment classify.Sentiment `json:"sentiment,omitempty"`
}

// Session is the state of one interview.
type Session struct {
	ID             string
	Language       i18n.Language
	Phase          Phase
	Profile        profile.Profile
	History        []Turn
	AskedQuestions []string
	Sentiments     []classify.Sentiment
	// CurrentField is the field awaiting an answer, empty when none is.
	CurrentField profile.Field
	// TechStart is the history index where the technical phase began.
	TechStart int
	Consent   bool
	CreatedAt time.Time

	persisted bool
}

func newSession(id string, consent bool, now time.Time) *Session {
	return &Session{
		ID:        id,
		Language:  i18n.English,
		Phase:     PhaseLanguagePending,
		Consent:   consent,
		CreatedAt: now,
	}
}

func (s *Session) append(role Role, content string, sentiment classify.Sentiment) {
	s.History = append(s.History, Turn{Role: role, Content: content, Sentiment: sentiment})
}

func (s *Session) transcript() []storage.Message {
	out := make([]storage.Message, 0, len(s.History))
	for _, t := range s.History {
		out = append(out, storage.Message{Role: string(t.Role), Content: t.Content})
	}
	return out
}

// visible returns the turns shown to the candidate. Once the technical phase
// has begun the profile collection is hidden.
func (s *Session) visible() []Turn {
	start := 0
	if s.TechStart > 0 && s.TechStart <= len(s.History) {
		start = s.TechStart
	}
	out := make([]Turn, len(s.History)-start)
	copy(out, s.History[start:])
	return out
}

// FieldState is the fill state of one profile field.
type FieldState struct {
	Field  profile.Field `json:"field"`
	Label  string        `json:"label"`
	Filled bool          `json:"filled"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID             string        `json:"session_id"`
	Phase          Phase         `json:"phase"`
	Language       i18n.Language `json:"language"`
	Progress       float64       `json:"progress"`
	Fields         []FieldState  `json:"fields"`
	AskedQuestions []string      `json:"asked_questions"`
	Messages       []Turn        `json:"messages"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (s *Session) snapshot() Snapshot {
	fields := make([]FieldState, 0, len(profile.Fields))
	for _, f := range profile.Fields {
		fields = append(fields, FieldState{Field: f, Label: f.Label(), Filled: s.Profile.Get(f) != ""})
	}

	return Snapshot{
		ID:             s.ID,
		Phase:          s.Phase,
		Language:       s.Language,
		Progress:       s.Profile.Completion(),
		Fields:         fields,
		AskedQuestions: append([]string{}, s.AskedQuestions...),
		Messages:       s.visible(),
		CreatedAt:      s.CreatedAt,
	}
}
