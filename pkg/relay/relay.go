// Package relay forwards a conversation to the weak and strong model tiers
// and collects their answers for side-by-side comparison.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/pairwise/pkg/llm"
	"github.com/papercomputeco/pairwise/pkg/llm/provider"
	"github.com/papercomputeco/pairwise/pkg/utils"
)

const (
	TierWeak   = "weak"
	TierStrong = "strong"
)

// ErrUnknownTier is returned by Ask for a tier other than TierWeak or TierStrong.
var ErrUnknownTier = errors.New("unknown model tier")

const tracerName = "github.com/papercomputeco/pairwise/pkg/relay"

// Models names the upstream model used for each tier.
type Models struct {
	Weak   string
	Strong string
}

// Pair holds one answer per tier.
type Pair struct {
	Weak   string `json:"weak"`
	Strong string `json:"strong"`
}

// Relay issues completion calls for both tiers through a shared Completer.
type Relay struct {
	completer provider.Completer
	models    Models
	logger    *slog.Logger
}

// New creates a Relay.
func New(completer provider.Completer, models Models, logger *slog.Logger) *Relay {
	return &Relay{
		completer: completer,
		models:    models,
		logger:    logger,
	}
}

// Models returns the configured model identifiers.
func (r *Relay) Models() Models {
	return r.models
}

// Generate sends the new prompt to both tiers, each with its own history.
// The two calls run concurrently. If either fails the other is cancelled
// and the error is returned; there is no partial result.
func (r *Relay) Generate(ctx context.Context, req llm.ConversationRequest) (Pair, error) {
	var pair Pair

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := r.Ask(gctx, TierWeak, req)
		pair.Weak = out
		return err
	})
	g.Go(func() error {
		out, err := r.Ask(gctx, TierStrong, req)
		pair.Strong = out
		return err
	})

	if err := g.Wait(); err != nil {
		return Pair{}, err
	}
	return pair, nil
}

// Nudge sends a follow-up prompt to the strong tier only. HistoryWeak is
// ignored.
func (r *Relay) Nudge(ctx context.Context, req llm.ConversationRequest) (string, error) {
	return r.Ask(ctx, TierStrong, req)
}

// Ask sends the prompt to a single tier, replaying that tier's history.
func (r *Relay) Ask(ctx context.Context, tier string, req llm.ConversationRequest) (string, error) {
	switch tier {
	case TierWeak:
		return r.complete(ctx, TierWeak, r.models.Weak,
			llm.Transcript(req.SystemPrompt, req.HistoryWeak, req.UserPrompt))
	case TierStrong:
		return r.complete(ctx, TierStrong, r.models.Strong,
			llm.Transcript(req.SystemPrompt, req.HistoryStrong, req.UserPrompt))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
}

func (r *Relay) complete(ctx context.Context, tier, model string, messages []llm.Message) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "relay.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("pairwise.tier", tier),
		attribute.String("pairwise.model", model),
		attribute.Int("pairwise.message_count", len(messages)),
	)

	start := time.Now()
	out, err := r.completer.Complete(ctx, model, messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		r.logger.Error("upstream completion failed",
			"tier", tier,
			"model", model,
			"provider", r.completer.Name(),
			"error", err,
		)
		return "", fmt.Errorf("%s tier: %w", tier, err)
	}

	r.logger.Debug("upstream completion",
		"tier", tier,
		"model", model,
		"message_count", len(messages),
		"duration", time.Since(start),
		"preview", utils.Preview(out, 80),
	)
	return out, nil
}
