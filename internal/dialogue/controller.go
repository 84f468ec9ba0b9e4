package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/classify"
	"github.com/spigell/talentscout/internal/i18n"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/metrics"
	"github.com/spigell/talentscout/internal/profile"
	"github.com/spigell/talentscout/internal/question"
	"github.com/spigell/talentscout/internal/storage"
)

// ErrNotEnded is returned by Export before the interview is over.
var ErrNotEnded = errors.New("interview has not ended")

// QuestionGenerator produces the technical questions.
type QuestionGenerator interface {
	Generate(ctx context.Context, techStack string, asked []string, lang i18n.Language) question.Result
}

// Deps wires a Controller. Only Generator is required.
type Deps struct {
	Generator QuestionGenerator
	Store     storage.Store
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	// Consent allows persisting the finished interview.
	Consent bool
	Now     func() time.Time
	NewID   func() string
}

// Reply is the assistant answer to one candidate turn.
type Reply struct {
	Text  string `json:"reply"`
	Phase Phase  `json:"phase"`
	Ended bool   `json:"ended"`
}

// Controller owns one interview session. Turns are processed one at a time.
type Controller struct {
	deps Deps

	mu      sync.Mutex
	session *Session
	logger  *zap.Logger
	closed  bool
}

// New creates a controller with a fresh session.
func New(deps Deps) *Controller {
	if deps.Store == nil {
		deps.Store = storage.Discard{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	c := &Controller{deps: deps}
	c.reset()
	deps.Metrics.SessionOpened()
	return c
}

func (c *Controller) reset() {
	c.session = newSession(c.deps.NewID(), c.deps.Consent, c.deps.Now())
	c.logger = logger.WithSession(c.deps.Logger, c.session.ID)
}

// ID returns the current session id.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Phase
}

// Start returns the opening question. The prompt is added to the history
// only once.
func (c *Controller) Start() Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.start()
}

func (c *Controller) start() Reply {
	text := i18n.Text(i18n.English, i18n.KeyLanguagePrompt)
	if len(c.session.History) == 0 {
		c.session.append(RoleAssistant, text, "")
		c.logger.Info("interview started", zap.Bool("consent", c.session.Consent))
	}
	return c.reply(text)
}

func (c *Controller) reply(text string) Reply {
	return Reply{Text: text, Phase: c.session.Phase, Ended: c.session.Phase == PhaseEnded}
}

// Handle processes one candidate message and returns the assistant answer.
func (c *Controller) Handle(ctx context.Context, text string) Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s.Phase == PhaseEnded {
		return c.reply(i18n.Text(s.Language, i18n.KeyEnd))
	}
	if len(s.History) == 0 {
		c.start()
	}

	phase := s.Phase
	var sentiment classify.Sentiment
	if phase == PhasePersonal {
		sentiment = classify.ClassifySentiment(text)
		s.Sentiments = append(s.Sentiments, sentiment)
	}
	s.append(RoleUser, text, sentiment)
	c.deps.Metrics.Turn(string(phase))

	var answer string
	switch phase {
	case PhaseLanguagePending:
		answer = c.handleLanguage(text)
	case PhaseIntroPending:
		answer = c.handleIntro(text)
	case PhasePersonal:
		answer = c.handlePersonal(ctx, text)
	case PhaseTechnical:
		answer = c.handleTechnical(ctx, text)
	default:
		c.logger.Error("unknown phase", zap.String(logger.FieldPhase, string(phase)))
		answer = c.end()
	}

	s.append(RoleAssistant, answer, "")

	if s.Phase == PhaseEnded {
		c.persist(ctx)
	}
	return c.reply(answer)
}

func (c *Controller) handleLanguage(text string) string {
	lang, ok := classify.DetectLanguage(text)
	if !ok {
		return i18n.Text(i18n.English, i18n.KeyLanguageRetry)
	}

	c.session.Language = lang
	c.setPhase(PhaseIntroPending)
	c.logger.Info("language selected", zap.String("language", string(lang)))
	return i18n.Text(lang, i18n.KeyGreeting)
}

func (c *Controller) handleIntro(text string) string {
	s := c.session

	if classify.IsExactEndTrigger(text) {
		return c.end()
	}
	if classify.IsAffirmative(s.Language, text) {
		c.setPhase(PhasePersonal)
		return c.askNextField()
	}
	if classify.ContainsEndTrigger(text) {
		return c.end()
	}
	return i18n.Text(s.Language, i18n.KeyWait)
}

func (c *Controller) handlePersonal(ctx context.Context, text string) string {
	s := c.session

	if classify.IsExactEndTrigger(text) {
		return c.end()
	}

	if s.CurrentField != "" {
		err := s.Profile.Set(s.CurrentField, text)
		switch {
		case err == nil:
			c.logger.Debug("profile field stored", zap.String("field", string(s.CurrentField)))
		case errors.Is(err, profile.ErrEmptyValue):
			return i18n.Text(s.Language, s.CurrentField.PromptKey())
		default:
			c.logger.Error("profile field rejected", zap.String("field", string(s.CurrentField)), zap.Error(err))
		}
	}

	if !s.Profile.Complete() {
		return c.askNextField()
	}

	s.CurrentField = ""
	s.TechStart = len(s.History)
	c.setPhase(PhaseTechnical)
	return c.askQuestion(ctx)
}

func (c *Controller) handleTechnical(ctx context.Context, text string) string {
	if classify.IsExactEndTrigger(text) {
		return c.end()
	}
	if len(c.session.AskedQuestions) >= MaxQuestions {
		return c.end()
	}
	return c.askQuestion(ctx)
}

func (c *Controller) askNextField() string {
	s := c.session

	next, ok := s.Profile.Next()
	if !ok {
		c.logger.Error("no profile field left to ask")
		return c.end()
	}
	s.CurrentField = next
	return i18n.Text(s.Language, next.PromptKey())
}

func (c *Controller) askQuestion(ctx context.Context) string {
	s := c.session

	started := time.Now()
	res := c.deps.Generator.Generate(ctx, s.Profile.Get(profile.TechStack), s.AskedQuestions, s.Language)
	c.deps.Metrics.Question(string(res.Source), res.Failures, time.Since(started))

	s.AskedQuestions = append(s.AskedQuestions, res.Text)
	c.logger.Info("technical question asked",
		zap.Int("number", len(s.AskedQuestions)),
		zap.String("technology", res.Technology),
		zap.String("source", string(res.Source)),
	)
	return fmt.Sprintf("Q%d: %s", len(s.AskedQuestions), res.Text)
}

func (c *Controller) end() string {
	s := c.session
	if s.Phase == PhaseEnded {
		c.logger.Error("interview ended twice")
	} else {
		c.setPhase(PhaseEnded)
	}
	s.CurrentField = ""
	return i18n.Text(s.Language, i18n.KeyEnd)
}

func (c *Controller) setPhase(p Phase) {
	c.logger.Debug("phase changed",
		zap.String("from", string(c.session.Phase)),
		zap.String(logger.FieldPhase, string(p)),
	)
	c.session.Phase = p
}

func (c *Controller) persist(ctx context.Context) {
	s := c.session
	if s.persisted {
		return
	}
	s.persisted = true

	if !s.Consent {
		c.logger.Info("interview not stored, no consent given")
		return
	}

	err := c.deps.Store.Persist(context.WithoutCancel(ctx), s.ID, s.Profile.Values(), s.transcript())
	c.deps.Metrics.Persisted(err)
	if err != nil {
		c.logger.Error("failed to store interview", zap.Error(err))
		return
	}
	c.logger.Info("interview stored", zap.Int("turns", len(s.History)))
}

// Restart discards the session and begins a new one with a new id.
func (c *Controller) Restart() Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.session.ID
	c.reset()
	c.logger.Info("interview restarted", zap.String("previous_session_id", old))
	return c.start()
}

// Visible returns the turns to show: the whole history until the technical
// phase starts and only the technical part afterwards.
func (c *Controller) Visible() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.visible()
}

// Progress returns the filled fraction of the profile.
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Profile.Completion()
}

// Snapshot returns a copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.snapshot()
}

type export struct {
	Profile    profile.Values    `json:"profile"`
	Transcript []storage.Message `json:"transcript"`
	Timestamp  string            `json:"timestamp"`
}

// Export renders the finished interview as indented JSON. Contact details are
// not masked: the document is handed to the candidate.
func (c *Controller) Export() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s.Phase != PhaseEnded {
		return nil, ErrNotEnded
	}

	data, err := sonic.ConfigDefault.MarshalIndent(export{
		Profile:    s.Profile.Values(),
		Transcript: s.transcript(),
		Timestamp:  c.deps.Now().UTC().Format(storage.TimestampLayout),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}
	return data, nil
}

var filenameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// ExportFilename names the exported transcript after the candidate.
func (c *Controller) ExportFilename() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := filenameReplacer.Replace(c.session.Profile.Get(profile.FullName))
	if name == "" {
		name = "candidate"
	}
	return fmt.Sprintf("interview_%s.json", name)
}

// Close releases the session gauge. It is safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.deps.Metrics.SessionClosed()
}
