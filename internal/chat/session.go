package chat

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	domain "sheetchat/domain/chat"
	"sheetchat/domain/core"
	"sheetchat/domain/dataset"
	"sheetchat/internal"
	"sheetchat/internal/errors"
	"sheetchat/internal/profiling"
	"sheetchat/internal/usage"
	"sheetchat/ports"
)

// State is where a session sits in its lifecycle
type State int

const (
	StateNoDataset State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "no_dataset"
}

// Settings are the completion and preview parameters every session uses
type Settings struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	HistoryLimit int
	PreviewRows  int
}

// Answer is the reply produced for one question
type Answer struct {
	Route  Route
	Text   string
	Failed bool
}

// Snapshot is a consistent copy of a session's state for rendering
type Snapshot struct {
	ID         core.ID
	State      State
	Dataset    *dataset.Dataset
	Preview    *dataset.Preview
	Transcript []domain.Entry
	HistoryLen int
}

// Session owns one user's dataset, transcript and prompt history. Questions are
// serialised: the lock is held across the completion call.
type Session struct {
	id       core.ID
	client   ports.CompletionClient
	recorder usage.Recorder
	settings Settings
	profiler *profiling.Profiler
	logger   *internal.Logger

	mu         sync.Mutex
	dataset    *dataset.Dataset
	preview    *dataset.Preview
	transcript domain.Transcript
	history    *domain.PromptHistory

	createdAt  time.Time
	lastActive atomic.Int64
}

// NewSession creates an empty session. recorder may be nil.
func NewSession(id core.ID, client ports.CompletionClient, recorder usage.Recorder, settings Settings) *Session {
	if id.IsEmpty() {
		id = core.NewID()
	}
	s := &Session{
		id:        id,
		client:    client,
		recorder:  recorder,
		settings:  settings,
		profiler:  profiling.NewProfiler(settings.PreviewRows),
		logger:    internal.DefaultLogger.With("Session"),
		history:   domain.NewPromptHistory(),
		createdAt: time.Now(),
	}
	s.touch()
	return s
}

func (s *Session) ID() core.ID { return s.id }

// LastActive reports the last time the session was used
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// State reports whether a dataset has been loaded
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if s.dataset == nil {
		return StateNoDataset
	}
	return StateReady
}

// LoadDataset installs ds and profiles it once for display. Replacing an
// existing dataset with a different one clears the transcript and prompt
// history; re-uploading the same file (same fingerprint) keeps the
// conversation. It reports whether the conversation was reset.
func (s *Session) LoadDataset(ds *dataset.Dataset) (bool, error) {
	if ds == nil {
		return false, errors.InvalidInput("no dataset to load")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.dataset != nil && ds.Fingerprint() != "" && s.dataset.Fingerprint() == ds.Fingerprint() {
		s.logger.Debug("session %s: %s re-uploaded unchanged", s.id, ds.Name())
		return false, nil
	}

	reset := s.dataset != nil
	if reset {
		s.transcript = domain.Transcript{}
		s.history = domain.NewPromptHistory()
		s.logger.Info("session %s: dataset replaced by %s, conversation reset", s.id, ds.Name())
	} else {
		s.logger.Info("session %s: dataset %s loaded (%d columns, %d rows)", s.id, ds.Name(), ds.ColumnCount(), ds.RowCount())
	}
	preview := s.profiler.Preview(ds)
	s.dataset = ds
	s.preview = &preview
	return reset, nil
}

// Ask answers one question and appends it and its answer to the transcript.
// Completion failures are returned as answer text, never as an error.
func (s *Session) Ask(ctx context.Context, question string) (Answer, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return Answer{}, errors.InvalidInput("question is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.stateLocked() != StateReady {
		return Answer{}, errors.NoDataset()
	}

	answer := Answer{Route: RouteQuestion(q)}
	switch answer.Route {
	case RouteColumns:
		answer.Text = ColumnsAnswer(s.dataset)
	case RouteRows:
		answer.Text = RowsAnswer(s.dataset)
	default:
		answer.Text, answer.Failed = s.complete(ctx, CompletionPrompt(s.dataset, q))
	}

	s.transcript.Append(domain.SpeakerUser, q)
	s.transcript.Append(domain.SpeakerAssistant, answer.Text)
	s.logger.Debug("session %s: route=%s failed=%t transcript=%d", s.id, answer.Route, answer.Failed, s.transcript.Len())
	return answer, nil
}

// complete runs the external call; the caller holds s.mu
func (s *Session) complete(ctx context.Context, prompt string) (string, bool) {
	s.history.AppendUser(prompt)

	req := ports.CompletionRequest{
		Model:       s.settings.Model,
		Messages:    s.history.Window(s.settings.HistoryLimit),
		MaxTokens:   s.settings.MaxTokens,
		Temperature: s.settings.Temperature,
	}
	s.logger.Trace("session %s: sending %d of %d messages, prompt %d bytes",
		s.id, len(req.Messages), s.history.Len(), len(prompt))

	var (
		resp *ports.CompletionResponse
		err  error
	)
	if s.client == nil {
		err = errors.ExternalServiceError("completion", errors.InternalError("no completion client configured"))
	} else {
		resp, err = s.client.Complete(ctx, req)
	}

	if err != nil {
		s.logger.Warn("session %s: completion failed: %v", s.id, err)
		s.record(ctx, nil, true)
		return "LLM request failed: " + err.Error(), true
	}
	s.record(ctx, resp.Usage, false)
	return resp.Content, false
}

func (s *Session) record(ctx context.Context, u *ports.UsageData, failed bool) {
	if s.recorder == nil {
		return
	}
	if u == nil {
		u = &ports.UsageData{Model: s.settings.Model}
	}
	s.recorder.Record(ctx, s.id.String(), u, failed)
}

// Snapshot copies the session state for rendering
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.id,
		State:      s.stateLocked(),
		Dataset:    s.dataset,
		Preview:    s.preview,
		Transcript: s.transcript.Entries(),
		HistoryLen: s.history.Len(),
	}
}
