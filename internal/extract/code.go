// Package extract pulls verification codes out of SMS text.
package extract

import "regexp"

const keywords = `(?:验证码|code|校验码|动态码)`

// Rule is one code extractor. Rules are tried in order and the first hit wins.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Match returns the first capture group of the rule's pattern.
func (r Rule) Match(content string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(content)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// DefaultRules prefers codes next to a keyword over bare digit runs.
var DefaultRules = []Rule{
	{Name: "keyword-prefix", Pattern: regexp.MustCompile(`(?i)` + keywords + `.*?(\d{4,8})`)},
	{Name: "keyword-suffix", Pattern: regexp.MustCompile(`(?i)(\d{4,8}).*?` + keywords)},
	{Name: "bare-digits", Pattern: regexp.MustCompile(`\b(\d{4,6})\b`)},
}

// Code runs rules against content and reports which rule matched.
// An empty rule name means nothing matched.
func Code(content string, rules []Rule) (code string, rule string) {
	for _, r := range rules {
		if c, ok := r.Match(content); ok {
			return c, r.Name
		}
	}
	return "", ""
}
