package message

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

const (
	// defaultRefreshInterval is how long a message stays current before a
	// new one is requested.
	defaultRefreshInterval = 5 * time.Minute

	// temperature and maxTokens bound every generation request.
	temperature = 0.9
	maxTokens   = 50

	// initialText is shown until the first refresh completes.
	initialText = "Initializing..."
)

// Category is one of four rotating message intents, selected purely by
// time of day.
type Category int

const (
	CategoryStatus Category = iota
	CategoryGreeting
	CategoryMood
	CategoryFact
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryStatus:
		return "status"
	case CategoryGreeting:
		return "greeting"
	case CategoryMood:
		return "mood"
	case CategoryFact:
		return "fact"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// Origin tags where a message came from, so callers can tell a real
// completion apart from a degraded fallback.
type Origin int

const (
	// OriginProvider means the text came from the model service.
	OriginProvider Origin = iota
	// OriginFallback means the provider was unavailable and a canned
	// phrase was substituted.
	OriginFallback
)

// Message is the current display message plus its origin tag.
type Message struct {
	Text   string
	Origin Origin
}

// fallbacks are the neutral phrases substituted when the provider fails.
// Selection is by current minute, so the choice is stable within a minute.
var fallbacks = []string{
	"All systems nominal.",
	"Keeping an eye on things.",
	"Quiet day so far.",
	"Everything looks fine.",
	"Still here, still watching.",
}

// CategoryAt derives the prompt category from the wall-clock minute:
// 0-14 status, 15-29 greeting, 30-44 mood, 45-59 fact, repeating hourly.
func CategoryAt(now time.Time) Category {
	return Category((now.Minute() / 15) % 4)
}

// FallbackAt returns the deterministic fallback phrase for the given time.
func FallbackAt(now time.Time) string {
	return fallbacks[now.Minute()%len(fallbacks)]
}

// promptFor builds the provider prompt for a category. The greeting prompt
// has three sub-variants chosen by hour bucket.
func promptFor(cat Category, now time.Time) string {
	switch cat {
	case CategoryGreeting:
		bucket := "evening"
		switch {
		case now.Hour() < 12:
			bucket = "morning"
		case now.Hour() < 18:
			bucket = "afternoon"
		}
		return fmt.Sprintf("Write a short, friendly good %s greeting for a tiny status display. Maximum 10 words, plain text only.", bucket)
	case CategoryMood:
		return "Write a short, lighthearted comment about your mood as a small computer. Maximum 10 words, plain text only."
	case CategoryFact:
		return "Share one surprising tech fact in a single short sentence. Maximum 12 words, plain text only."
	default:
		return "Write one short, upbeat status line for a tiny status display. Maximum 10 words, plain text only."
	}
}

// Scheduler owns the current message and decides when to ask the provider
// for a new one. It is not safe for concurrent use; the display loop is the
// only caller.
type Scheduler struct {
	provider Provider
	logger   *slog.Logger
	interval time.Duration

	current     Message
	lastRefresh time.Time
}

// NewScheduler creates a Scheduler with the initial sentinel message and a
// zero last-refresh time, guaranteeing an immediate first refresh. If
// logger is nil, a no-op logger is used.
func NewScheduler(p Provider, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{
		provider: p,
		logger:   logger,
		interval: defaultRefreshInterval,
		current:  Message{Text: initialText, Origin: OriginFallback},
	}
}

// SetInterval overrides the refresh interval. Non-positive values keep the
// default.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// Message returns the current message without refreshing.
func (s *Scheduler) Message() Message {
	return s.current
}

// ShouldRefresh reports whether a refresh is due: elapsed wall-clock time
// since the last refresh is at least the interval.
func (s *Scheduler) ShouldRefresh(now time.Time) bool {
	return now.Sub(s.lastRefresh) >= s.interval
}

// MaybeRefresh refreshes the message if one is due and returns the current
// message either way. Refresh never fails: any provider error is swallowed
// and a deterministic fallback phrase is substituted. The category is
// locked in at refresh time, independent of the refresh cadence.
func (s *Scheduler) MaybeRefresh(ctx context.Context, now time.Time) Message {
	if !s.ShouldRefresh(now) {
		return s.current
	}

	cat := CategoryAt(now)
	prompt := promptFor(cat, now)

	text, err := s.provider.Generate(ctx, prompt, temperature, maxTokens)
	if err != nil {
		fallback := FallbackAt(now)
		s.logger.Warn("message refresh degraded to fallback",
			"category", cat.String(),
			"fallback", fallback,
			"error", err,
		)
		s.current = Message{Text: fallback, Origin: OriginFallback}
	} else {
		s.logger.Info("message refreshed",
			"category", cat.String(),
			"chars", len(text),
		)
		s.current = Message{Text: text, Origin: OriginProvider}
	}

	s.lastRefresh = now
	return s.current
}
