package briefing

import (
	"context"
	"time"

	"github.com/yegors/flightplanner/internal/config"
	"github.com/yegors/flightplanner/internal/route"
	"github.com/yegors/flightplanner/pkg/logger"
)

// Brief is a generated sortie brief
type Brief struct {
	Context *SortieContext `json:"context"`
	Text    string         `json:"text"`
	Drafted bool           `json:"drafted"`
}

// Generator builds sortie briefs, optionally with a drafted narrative
type Generator struct {
	drafter Drafter
	timeout time.Duration
	logger  *logger.Logger
	now     func() time.Time
}

// NewGenerator creates a brief generator. drafter may be nil.
func NewGenerator(drafter Drafter, timeout time.Duration, log *logger.Logger) *Generator {
	return &Generator{
		drafter: drafter,
		timeout: timeout,
		logger:  log.Named("briefing"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewGeneratorFromConfig wires the OpenAI drafter when briefing is enabled
// and a key is configured
func NewGeneratorFromConfig(cfg config.BriefingConfig, log *logger.Logger) *Generator {
	var drafter Drafter
	if cfg.Enabled && cfg.OpenAIAPIKey != "" {
		drafter = NewOpenAIDrafter(cfg.OpenAIAPIKey, cfg.Model, cfg.MaxTokens)
	} else if cfg.Enabled {
		log.Warn("Briefing drafts enabled but no OpenAI API key configured")
	}
	return NewGenerator(drafter, time.Duration(cfg.TimeoutSeconds)*time.Second, log)
}

// CanDraft reports whether narrative drafting is available
func (g *Generator) CanDraft() bool {
	return g.drafter != nil
}

// Generate builds the brief for r. When draft is set and a drafter is
// configured the narrative is added; a failed draft falls back to the
// table-only brief.
func (g *Generator) Generate(ctx context.Context, r *route.Route, draft bool) (*Brief, error) {
	sc, err := BuildContext(r, g.now())
	if err != nil {
		return nil, err
	}

	text, err := Render(sc)
	if err != nil {
		return nil, err
	}
	brief := &Brief{Context: sc, Text: text}

	if !draft || g.drafter == nil {
		return brief, nil
	}

	draftCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		draftCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	narrative, err := g.drafter.Draft(draftCtx, text)
	if err != nil {
		g.logger.Warn("Brief draft failed, returning table only",
			logger.String("route", r.Name()),
			logger.Error(err))
		return brief, nil
	}
	if narrative == "" {
		return brief, nil
	}

	sc.Narrative = narrative
	if brief.Text, err = Render(sc); err != nil {
		return nil, err
	}
	brief.Drafted = true

	g.logger.Info("Drafted sortie brief",
		logger.String("route", r.Name()),
		logger.Duration("took", time.Since(start)))
	return brief, nil
}
