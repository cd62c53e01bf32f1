package automod

import (
	"context"
	"time"

	"discord-automod-bot/internal/models"

	"go.uber.org/zap"
)

// Engine evaluates inbound messages against a guild's automod rules and
// executes the configured enforcement for the first rule that triggers.
// All dependencies are injected; there is no package-level state.
type Engine struct {
	store           ConfigStore
	tracker         Tracker
	violations      ViolationLog
	platform        Platform
	logger          *zap.Logger
	phishingDomains []string

	// now is swappable for deterministic window tests
	now func() int64
}

// Options configures optional engine behavior.
type Options struct {
	// PhishingDomains overrides the built-in denylist when non-nil.
	PhishingDomains []string
}

// New wires up an engine. logger must not be nil.
func New(store ConfigStore, tracker Tracker, violations ViolationLog, platform Platform, logger *zap.Logger, opts Options) *Engine {
	domains := opts.PhishingDomains
	if domains == nil {
		domains = defaultPhishingDomains
	}
	return &Engine{
		store:           store,
		tracker:         tracker,
		violations:      violations,
		platform:        platform,
		logger:          logger,
		phishingDomains: domains,
		now:             models.Now,
	}
}

// Result describes the handling of one violating message.
type Result struct {
	Rule    *models.Rule
	Outcome string
}

// ProcessMessage runs the full pipeline for one inbound message: global
// exemptions, then each enabled rule in insertion order until one triggers,
// then enforcement and audit emission. Returns nil when the message is
// clean or exempt.
//
// Store failures fail closed: the message is treated as non-violating for
// this pass and the failure goes to operational logging only.
func (e *Engine) ProcessMessage(ctx context.Context, msg *Message) *Result {
	start := time.Now()
	defer func() {
		checkDuration.Observe(time.Since(start).Seconds())
	}()
	messagesChecked.Inc()

	settings, err := e.store.GetSettings(msg.GuildID)
	if err != nil {
		e.storeFailure(msg, "settings", err)
		return nil
	}
	if exempt(msg, settings) {
		return nil
	}

	rules, err := e.store.GetRules(msg.GuildID)
	if err != nil {
		e.storeFailure(msg, "rules", err)
		return nil
	}

	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		filters, err := e.store.GetFilters(rule.ID)
		if err != nil {
			e.storeFailure(msg, "filters", err)
			return nil
		}
		if !ruleApplies(filters, msg) {
			continue
		}

		triggered, err := e.evaluate(ctx, rule, msg)
		if err != nil {
			e.storeFailure(msg, string(rule.RuleType), err)
			return nil
		}
		if !triggered {
			continue
		}

		// First match wins; a message is never double-punished in one pass.
		ruleTriggered.WithLabelValues(string(rule.RuleType)).Inc()
		e.logger.Info("rule triggered",
			zap.String("guild_id", msg.GuildID),
			zap.String("user_id", msg.AuthorID),
			zap.String("rule_type", string(rule.RuleType)))

		outcome := e.executeAction(ctx, msg, rule)
		e.emitAudit(msg, rule, settings, outcome)
		return &Result{Rule: rule, Outcome: outcome}
	}

	return nil
}

// CheckMessage evaluates without enforcing: it returns the first rule that
// would trigger, or nil. Used by the simulator and tests that assert on
// detection alone.
func (e *Engine) CheckMessage(ctx context.Context, msg *Message) (*models.Rule, error) {
	settings, err := e.store.GetSettings(msg.GuildID)
	if err != nil {
		return nil, err
	}
	if exempt(msg, settings) {
		return nil, nil
	}

	rules, err := e.store.GetRules(msg.GuildID)
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		filters, err := e.store.GetFilters(rule.ID)
		if err != nil {
			return nil, err
		}
		if !ruleApplies(filters, msg) {
			continue
		}
		triggered, err := e.evaluate(ctx, rule, msg)
		if err != nil {
			return nil, err
		}
		if triggered {
			return rule, nil
		}
	}
	return nil, nil
}

func (e *Engine) storeFailure(msg *Message, stage string, err error) {
	storeErrors.WithLabelValues(stage).Inc()
	e.logger.Error("store failure, message passes unchecked",
		zap.String("guild_id", msg.GuildID),
		zap.String("stage", stage),
		zap.Error(err))
}
