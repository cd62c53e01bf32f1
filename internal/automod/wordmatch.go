package automod

import (
	"regexp"
	"strings"

	"discord-automod-bot/internal/models"
)

// regexMeta lists the metacharacters escaped before a wildcard pattern is
// compiled. '*' is deliberately absent: it becomes '.*'.
var regexMeta = strings.NewReplacer(
	`.`, `\.`,
	`+`, `\+`,
	`?`, `\?`,
	`^`, `\^`,
	`$`, `\$`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`[`, `\[`,
	`]`, `\]`,
	`\`, `\\`,
)

// matchWord tests one word entry against message content. lower must be
// strings.ToLower(content); it is passed in so a word list of hundreds of
// entries lowercases the message once.
func matchWord(entry *models.WordEntry, content, lower string) bool {
	switch entry.MatchType {
	case models.MatchExact:
		for _, tok := range strings.Fields(lower) {
			if tok == entry.Word {
				return true
			}
		}
		return false
	case models.MatchWildcard:
		pattern := strings.ReplaceAll(regexMeta.Replace(entry.Word), `*`, `.*`)
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			// Degrade to a literal substring match with the wildcards stripped
			return strings.Contains(lower, strings.ReplaceAll(entry.Word, "*", ""))
		}
		return re.MatchString(content)
	default: // contains
		return strings.Contains(lower, entry.Word)
	}
}
