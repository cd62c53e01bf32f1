package automod

import (
	"context"

	"discord-automod-bot/internal/models"
)

// recordAndCount appends a violation and returns how many the user has
// accumulated for this rule type within the trailing 300-second window,
// including the one just appended. Only the escalating actions call this.
func (e *Engine) recordAndCount(ctx context.Context, guildID, userID string, ruleType models.RuleType) (int, error) {
	now := e.now()
	if err := e.violations.AddViolation(ctx, guildID, userID, string(ruleType), now); err != nil {
		return 0, err
	}
	return e.violations.CountViolationsSince(ctx, guildID, userID, string(ruleType), now-models.ViolationWindowSeconds)
}
