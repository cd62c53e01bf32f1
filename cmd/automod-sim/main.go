// Command automod-sim runs the moderation engine against stdin, with an
// in-memory store and a platform that prints enforcement instead of calling
// Discord. Useful for trying out rule configurations before deploying them.
//
// Usage:
//
//	automod-sim [-rules rules.json]
//
// Each input line is checked as one message from the same simulated user.
// Lines starting with "as <user>: " switch the sending user.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"discord-automod-bot/internal/automod"
	"discord-automod-bot/internal/models"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const simGuild = "sim-guild"

// printPlatform fulfils the enforcement surface by narrating it.
type printPlatform struct{}

func (printPlatform) SendTimedNotice(channelID, text string, retractAfter time.Duration) error {
	fmt.Printf("  → would warn in #%s (retract after %s): %s\n", channelID, retractAfter, text)
	return nil
}

func (printPlatform) DeleteMessage(channelID, messageID string) error {
	fmt.Printf("  → would delete message %s\n", messageID)
	return nil
}

func (printPlatform) TimeoutMember(guildID, userID string, duration time.Duration, reason string) error {
	fmt.Printf("  → would timeout %s for %s (%s)\n", userID, duration, reason)
	return nil
}

func (printPlatform) BanMember(guildID, userID, reason string) error {
	fmt.Printf("  → would ban %s (%s)\n", userID, reason)
	return nil
}

func (printPlatform) SendAuditEmbed(channelID string, rec *automod.AuditRecord) error {
	fmt.Printf("  → audit to #%s: %s / %s\n", channelID, models.FormatRuleName(rec.RuleType), rec.Outcome)
	return nil
}

// ruleFile is the optional JSON rule set loaded at startup.
type ruleFile struct {
	Rules []struct {
		Type          string `json:"type"`
		Action        string `json:"action"`
		Threshold     int    `json:"threshold"`
		WindowSeconds int    `json:"window_seconds"`
		Violations    int    `json:"violations"`
	} `json:"rules"`
	Words []struct {
		Word  string `json:"word"`
		Match string `json:"match"`
	} `json:"words"`
	BlockedDomains []string `json:"blocked_domains"`
}

func loadRules(store *automod.MemStore, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f ruleFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return err
	}

	for _, r := range f.Rules {
		if !models.ValidRuleType(r.Type) {
			return fmt.Errorf("unknown rule type %q", r.Type)
		}
		if !models.ValidAction(r.Action) {
			return fmt.Errorf("unknown action %q", r.Action)
		}
		store.AddRule(&models.Rule{
			GuildID:          simGuild,
			RuleType:         models.RuleType(r.Type),
			Enabled:          true,
			Threshold:        r.Threshold,
			ThresholdSeconds: r.WindowSeconds,
			Action:           models.Action(r.Action),
			ViolationCount:   r.Violations,
		})
	}
	for _, w := range f.Words {
		match := w.Match
		if match == "" {
			match = models.MatchContains
		}
		store.AddWord(&models.WordEntry{GuildID: simGuild, Word: strings.ToLower(w.Word), MatchType: match})
	}
	for _, d := range f.BlockedDomains {
		store.AddLinkDomain(simGuild, models.LinkBlock, models.NormalizeDomain(d))
	}
	return nil
}

// defaultRules approximates a typical strict setup when no file is given.
func defaultRules(store *automod.MemStore) {
	for _, rt := range []models.RuleType{
		models.RuleAllCaps,
		models.RuleBadWords,
		models.RuleFastMessageSpam,
		models.RuleMassMentions,
		models.RulePhishingLinks,
		models.RuleInviteLinks,
		models.RuleZalgo,
	} {
		store.AddRule(&models.Rule{
			GuildID:  simGuild,
			RuleType: rt,
			Enabled:  true,
			Action:   models.ActionWarnDelete,
		})
	}
	store.AddWord(&models.WordEntry{GuildID: simGuild, Word: "badword", MatchType: models.MatchContains})
}

func main() {
	rulesPath := flag.String("rules", "", "JSON rule set to load")
	flag.Parse()

	store := automod.NewMemStore()
	if *rulesPath != "" {
		if err := loadRules(store, *rulesPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *rulesPath, err)
			os.Exit(1)
		}
		fmt.Printf("Loaded rule set from %s\n", *rulesPath)
	} else {
		defaultRules(store)
		fmt.Println("Using built-in default rule set (pass -rules to override)")
	}

	logger := zap.NewNop()
	engine := automod.New(store, store, store, printPlatform{}, logger, automod.Options{})

	rules, _ := store.GetRules(simGuild)
	fmt.Printf("%d rules active. Type messages; 'as <user>: <text>' switches sender. Ctrl-D exits.\n\n", len(rules))

	user := "user-1"
	msgID := 0
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if rest, ok := strings.CutPrefix(line, "as "); ok {
			if name, text, ok := strings.Cut(rest, ": "); ok {
				user = name
				line = text
			}
		}

		msgID++
		msg := &automod.Message{
			GuildID:   simGuild,
			ChannelID: "sim-channel",
			MessageID: fmt.Sprintf("msg-%d", msgID),
			AuthorID:  user,
			Content:   line,
		}

		result := engine.ProcessMessage(context.Background(), msg)
		if result == nil {
			fmt.Println("  clean")
			continue
		}
		fmt.Printf("  ⚡ %s triggered: %s\n",
			models.FormatRuleName(result.Rule.RuleType), result.Outcome)
	}
}
