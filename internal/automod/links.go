package automod

import (
	"net/url"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	urlPattern        = regexp.MustCompile(`(?i)https?://[^\s]+`)
	invitePattern     = regexp.MustCompile(`(?i)(discord\.gg|discord\.com/invite|discordapp\.com/invite)/[a-zA-Z0-9]+`)
	maskedLinkPattern = regexp.MustCompile(`(?is)\[.+?\]\(https?://.+?\)`)
)

// defaultPhishingDomains is the built-in denylist of known-bad hostnames.
// Extend via a phishing_domains.yaml file (see LoadPhishingDomains).
var defaultPhishingDomains = []string{
	"discord-nitro.com",
	"discord-gift.com",
	"discordgift.site",
	"steamcommunity.ru",
	"steamcommunlty.com",
	"discordapp.ru",
}

type phishingFile struct {
	Domains []string `yaml:"domains"`
}

// LoadPhishingDomains reads additional denylisted domains from a YAML file
// and returns them merged with the built-in list. A missing file is not an
// error; the built-in list is returned.
func LoadPhishingDomains(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultPhishingDomains, nil
		}
		return defaultPhishingDomains, err
	}
	var f phishingFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return defaultPhishingDomains, err
	}
	merged := make([]string, 0, len(defaultPhishingDomains)+len(f.Domains))
	merged = append(merged, defaultPhishingDomains...)
	for _, d := range f.Domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			merged = append(merged, d)
		}
	}
	return merged, nil
}

// extractHostnames returns the lowercased hostname of every parseable URL in
// content. Malformed URLs are skipped, never fatal.
func extractHostnames(content string) []string {
	raw := urlPattern.FindAllString(content, -1)
	if len(raw) == 0 {
		return nil
	}
	hosts := make([]string, 0, len(raw))
	for _, u := range raw {
		parsed, err := url.Parse(strings.TrimRight(u, ".,;:!?)"))
		if err != nil || parsed.Hostname() == "" {
			continue
		}
		hosts = append(hosts, strings.ToLower(parsed.Hostname()))
	}
	return hosts
}

// hostMatchesAny reports whether host matches one of the listed domains.
// Matching is substring-based so "sub.evil.com" is caught by "evil.com".
func hostMatchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if d != "" && strings.Contains(host, d) {
			return true
		}
	}
	return false
}

// containsURL reports whether content has at least one http(s) URL.
func containsURL(content string) bool {
	return urlPattern.MatchString(content)
}
