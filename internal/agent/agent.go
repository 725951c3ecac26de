// Package agent sequences the pipeline over time: snapshot, scan, predict,
// match, select. One agent drives one page.
package agent

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizpilot/quizpilot/internal/browser"
	"github.com/quizpilot/quizpilot/internal/history"
	"github.com/quizpilot/quizpilot/internal/match"
	"github.com/quizpilot/quizpilot/internal/mcq"
	"github.com/quizpilot/quizpilot/internal/ocr"
	"github.com/quizpilot/quizpilot/internal/predict"
	"github.com/quizpilot/quizpilot/internal/scan"
)

// Config is the per-session tuning surface. Zero durations select the
// defaults noted on each field.
type Config struct {
	// AutoAnswer gates DOM mutation: off means the pipeline stops after
	// matching and only reports.
	AutoAnswer bool
	// SaveHistory persists attempts when a store is attached.
	SaveHistory bool
	// AnswerDelay..MaxAnswerDelay bounds the randomized pause before a
	// selection is applied. Defaults 3s..6s.
	AnswerDelay    time.Duration
	MaxAnswerDelay time.Duration
	// ProcessInterval staggers MCQ processing within one pass. Default 1s.
	ProcessInterval time.Duration
	// OCREnabled adds screenshot recognition candidates to each pass.
	OCREnabled  bool
	OCRLanguage string
	Scan        scan.Options
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.AnswerDelay <= 0 {
		out.AnswerDelay = 3 * time.Second
	}
	if out.MaxAnswerDelay <= 0 {
		out.MaxAnswerDelay = 6 * time.Second
	}
	if out.MaxAnswerDelay < out.AnswerDelay {
		out.MaxAnswerDelay = out.AnswerDelay
	}
	if out.ProcessInterval <= 0 {
		out.ProcessInterval = time.Second
	}
	return out
}

type Option func(*Agent)

func WithOCR(e ocr.Engine) Option          { return func(a *Agent) { a.engine = e } }
func WithHistory(s history.Store) Option   { return func(a *Agent) { a.store = s } }
func WithBus(b *Bus) Option                { return func(a *Agent) { a.bus = b } }
func WithLogger(log zerolog.Logger) Option { return func(a *Agent) { a.log = log } }

// WithRand replaces the delay randomness source, for deterministic tests.
func WithRand(r *rand.Rand) Option { return func(a *Agent) { a.rng = r } }

// Agent owns all session state. All mutation happens on the Run goroutine;
// external collaborators observe through the bus and the Stats accessor.
type Agent struct {
	page   browser.Page
	agg    *scan.Aggregator
	pred   predict.Predictor
	engine ocr.Engine
	store  history.Store
	bus    *Bus
	cfg    Config
	log    zerolog.Logger
	rng    *rand.Rand

	trigger chan struct{}

	mu    sync.Mutex
	stats mcq.Stats

	// attempted is touched only by the Run goroutine.
	attempted map[string]bool
}

func New(page browser.Page, pred predict.Predictor, cfg Config, opts ...Option) *Agent {
	a := &Agent{
		page:      page,
		pred:      pred,
		cfg:       cfg.withDefaults(),
		log:       zerolog.Nop(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		trigger:   make(chan struct{}, 1),
		attempted: make(map[string]bool),
	}
	for _, o := range opts {
		o(a)
	}
	if a.bus == nil {
		a.bus = NewBus()
	}
	a.agg = scan.NewAggregator(a.log)
	return a
}

// Bus exposes the event stream for subscribers.
func (a *Agent) Bus() *Bus { return a.bus }

// TriggerScan schedules a pass. A pass already in flight is not re-entered;
// at most one follow-up is queued.
func (a *Agent) TriggerScan() {
	select {
	case a.trigger <- struct{}{}:
	default:
	}
}

// Stats returns a copy of the session counters.
func (a *Agent) Stats() mcq.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// MarkCorrect records external ground-truth feedback. The detection
// pipeline has no truth channel of its own; accuracy stays advisory.
func (a *Agent) MarkCorrect() mcq.Stats {
	a.mu.Lock()
	a.stats.Correct++
	a.stats.RecomputeAccuracy()
	s := a.stats
	a.mu.Unlock()
	a.bus.Publish(Event{Type: EventStats, Stats: &s})
	return s
}

// Run drives the session until ctx ends. It performs an initial pass and
// then rescans on page mutations and manual triggers.
func (a *Agent) Run(ctx context.Context) error {
	mutations, err := a.page.WatchMutations(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("mutation watching unavailable, manual triggers only")
	}
	a.TriggerScan()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.trigger:
			a.scanOnce(ctx)
		case _, ok := <-mutations:
			if !ok {
				mutations = nil
				continue
			}
			a.TriggerScan()
		}
	}
}

func (a *Agent) scanOnce(ctx context.Context) {
	snap, err := a.page.Snapshot(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("snapshot failed")
		a.publishError("snapshot failed: " + err.Error())
		return
	}

	var extras []mcq.MCQ
	if a.cfg.OCREnabled && a.engine != nil {
		extras = a.ocrCandidates(ctx)
	}

	found := a.agg.Run(snap, a.cfg.Scan, extras...)
	a.log.Info().Int("mcqs", len(found)).Str("url", snap.URL).Msg("scan pass complete")
	// Found tracks the last pass, so an empty pass resets it.
	a.mu.Lock()
	a.stats.Found = len(found)
	a.mu.Unlock()
	a.publishStats()
	a.bus.Publish(Event{Type: EventScan, Found: len(found)})

	for _, m := range found {
		if m.Answered || a.attempted[mcq.Key(m)] {
			continue
		}
		// Deliberate pacing: one MCQ per interval, not a burst.
		if !a.sleep(ctx, a.cfg.ProcessInterval) {
			return
		}
		a.process(ctx, snap.URL, m)
	}
}

// ocrCandidates screenshots the viewport and extracts question candidates
// from the recognized text. Capture failures disable only this path; DOM
// detection is unaffected.
func (a *Agent) ocrCandidates(ctx context.Context) []mcq.MCQ {
	shot, err := a.page.CaptureViewport(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("viewport capture failed, skipping OCR pass")
		return nil
	}
	res, err := a.engine.Recognize(ctx, shot, ocr.Options{Language: a.cfg.OCRLanguage, WantWords: true})
	if err != nil {
		a.log.Warn().Err(err).Msg("recognition failed, skipping OCR pass")
		a.publishError("ocr failed: " + err.Error())
		return nil
	}
	if len(res.Words) > 0 {
		return ocr.ExtractWords(res.Words)
	}
	return ocr.ExtractText(res.Text)
}

func (a *Agent) process(ctx context.Context, url string, m mcq.MCQ) {
	key := mcq.Key(m)
	a.attempted[key] = true
	log := a.log.With().Str("question", mcq.Truncate(m.Question, 60)).Str("kind", string(m.Kind)).Logger()
	log.Info().Msg("processing mcq")

	var imageData string
	if m.QuestionImage != "" {
		data, err := a.page.FetchImageData(ctx, m.QuestionImage)
		if err != nil {
			log.Error().Err(err).Str("src", m.QuestionImage).Msg("question image fetch failed")
			a.publishError("image fetch failed: " + err.Error())
			return
		}
		imageData = data
	}

	resp, err := a.pred.Predict(ctx, predict.Request{
		Question:  m.Question,
		Options:   m.OptionTexts(),
		ImageData: imageData,
	})
	if err != nil {
		log.Error().Err(err).Msg("prediction failed")
		a.publishError("prediction failed: " + err.Error())
		return
	}
	m.ResolvedAnswer = resp.Answer

	res := match.Match(resp.Answer, m.Options)
	if res.Empty() {
		log.Warn().Str("answer", resp.Answer).Msg("no option matched predicted answer")
		a.publishError("no option matched: " + resp.Answer)
		return
	}
	log.Info().Str("answer", resp.Answer).Str("matched", res.Options[0].Text).
		Str("tier", string(res.Tier)).Msg("answer matched")

	if a.cfg.SaveHistory && a.store != nil {
		_, err := a.store.Save(ctx, history.Attempt{
			URL:           url,
			Question:      m.Question,
			Options:       m.OptionTexts(),
			Answer:        resp.Answer,
			MatchedOption: res.Options[0].Text,
			MatchTier:     string(res.Tier),
			Kind:          string(m.Kind),
		})
		if err != nil {
			log.Error().Err(err).Msg("saving attempt failed")
		}
	}
	a.bus.Publish(Event{
		Type:     EventAnswer,
		Question: m.Question,
		Answer:   resp.Answer,
		Matched:  res.Options[0].Text,
		Tier:     string(res.Tier),
		Provider: resp.Provider,
	})

	if !a.cfg.AutoAnswer {
		return
	}
	if !a.sleep(ctx, a.answerDelay()) {
		return
	}
	if !a.selectOptions(ctx, m, res.Options) {
		return
	}
	a.mu.Lock()
	a.stats.Answered++
	a.stats.RecomputeAccuracy()
	a.mu.Unlock()
	a.publishStats()
}

// selectOptions applies the matched options to the live page. Reports
// whether at least one selection took effect; handle-less options count as
// best-effort successes.
func (a *Agent) selectOptions(ctx context.Context, m mcq.MCQ, options []mcq.Option) bool {
	if m.Kind == mcq.KindSelect {
		sel, idx, ok := selectTarget(options[0].Ref)
		if !ok {
			a.log.Error().Str("ref", string(options[0].Ref)).Msg("option handle is not a select entry")
			return false
		}
		if err := a.page.SelectIndex(ctx, sel, idx); err != nil {
			a.log.Error().Err(err).Msg("select failed")
			a.publishError("select failed: " + err.Error())
			return false
		}
		return true
	}

	applied := false
	for _, o := range options {
		switch {
		case o.Ref == "":
			// Pure OCR hit with no anchor: nothing to act on.
			applied = true
		default:
			var err error
			if x, y, ok := mcq.ParsePointRef(o.Ref); ok {
				err = a.page.ClickPoint(ctx, x, y)
			} else {
				err = a.page.Click(ctx, o.Ref)
			}
			if err != nil {
				a.log.Error().Err(err).Str("ref", string(o.Ref)).Msg("click failed")
				a.publishError("click failed: " + err.Error())
				continue
			}
			applied = true
		}
	}
	return applied
}

func (a *Agent) answerDelay() time.Duration {
	min, max := a.cfg.AnswerDelay, a.cfg.MaxAnswerDelay
	if max <= min {
		return min
	}
	return min + time.Duration(a.rng.Int63n(int64(max-min)))
}

func (a *Agent) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (a *Agent) publishStats() {
	s := a.Stats()
	a.bus.Publish(Event{Type: EventStats, Stats: &s})
}

func (a *Agent) publishError(msg string) {
	a.bus.Publish(Event{Type: EventError, Error: msg})
}
