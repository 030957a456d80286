package services

import (
	"fmt"
	"regexp"
	"strings"
)

// BannedWords are rejected in citizen supplied text.
var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "faggot", "retard",
	"porn", "nude", "nudes",
	"scam", "phishing", "malware",
}

// ContentFilter screens report and comment text before it is stored.
type ContentFilter struct {
	bannedWords         []*regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	allCapsPattern      *regexp.Regexp
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{
		bannedWords:         make([]*regexp.Regexp, 0, len(BannedWords)),
		repeatedCharPattern: repeatedCharPattern(6),
		allCapsPattern:      regexp.MustCompile(`\b[A-Z]{5,}\b`),
	}
	for _, word := range BannedWords {
		f.bannedWords = append(f.bannedWords, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return f
}

// repeatedCharPattern matches any letter or punctuation mark repeated n or more times.
func repeatedCharPattern(n int) *regexp.Regexp {
	runs := make([]string, 0, 29)
	for c := 'a'; c <= 'z'; c++ {
		runs = append(runs, fmt.Sprintf("%c{%d,}", c, n))
	}
	for _, c := range []string{`!`, `\?`, `\.`} {
		runs = append(runs, fmt.Sprintf("%s{%d,}", c, n))
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(runs, "|") + `)`)
}

// Check returns false and a reason code when text should be rejected.
func (f *ContentFilter) Check(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return true, ""
	}
	for _, re := range f.bannedWords {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if f.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	if len(f.allCapsPattern.FindAllString(text, -1)) > 3 {
		return false, "excessive_caps"
	}
	return true, ""
}

func (f *ContentFilter) RejectionMessage(reason string) string {
	switch reason {
	case "inappropriate_language":
		return "Your text contains inappropriate language."
	case "spam_detected":
		return "Your text appears to be spam."
	case "excessive_caps":
		return "Please avoid using excessive capital letters."
	}
	return "Your text does not meet our content guidelines."
}
