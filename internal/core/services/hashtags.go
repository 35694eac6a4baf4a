package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// DefaultHashtagLimit is the default number of tags produced by BuildHashtags.
const DefaultHashtagLimit = domain.DefaultHashtagLimit

// MinHashtags is the minimum number of distinct hashtags a generated post carries.
const MinHashtags = 20

// minTagBodyLength is the length a keyword-derived tag body must exceed.
const minTagBodyLength = 2

// genericHashtags is the fixed pool of high-traffic tags appended after keyword tags.
var genericHashtags = []string{
	"#AI", "#MachineLearning", "#DataScience", "#Tech", "#Innovation", "#CareerGrowth",
	"#Python", "#Coding", "#BigData", "#Analytics", "#FutureOfWork", "#Leadership",
	"#Productivity", "#Motivation", "#Learning", "#WorkCulture", "#ProfessionalDevelopment",
	"#DigitalTransformation", "#CloudComputing", "#Automation", "#DevOps", "#Business",
}

// BuildHashtags derives hashtags from keywords, followed by the generic pool.
// Keyword tags are title-cased per word and stripped to letters and digits;
// bodies of two runes or fewer are skipped. Tags are deduplicated
// case-insensitively keeping the first seen, truncated to limit and joined
// with spaces. The result is deterministic for identical input.
func BuildHashtags(keywords []string, limit int) string {
	return strings.Join(hashtagList(keywords, limit), " ")
}

func hashtagList(keywords []string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	caser := cases.Title(language.Und, cases.NoLower)
	candidates := make([]string, 0, len(keywords)+len(genericHashtags))
	for _, k := range keywords {
		body := alphanumeric(caser.String(strings.TrimSpace(k)))
		if utf8.RuneCountInString(body) <= minTagBodyLength {
			continue
		}
		candidates = append(candidates, "#"+body)
	}
	candidates = append(candidates, genericHashtags...)

	seen := make(map[string]struct{}, len(candidates))
	tags := make([]string, 0, limit)
	for _, tag := range candidates {
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == limit {
			break
		}
	}
	return tags
}

func alphanumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// ExtractHashtags returns the distinct hashtags in text, in order of appearance.
// Comparison is case-insensitive; the first spelling wins.
func ExtractHashtags(text string) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, field := range strings.Fields(text) {
		if !strings.HasPrefix(field, "#") {
			continue
		}
		body := alphanumeric(field[1:])
		if body == "" {
			continue
		}
		tag := "#" + body
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// AugmentHashtags appends tags from BuildHashtags that text does not already
// contain when text has fewer than minimum distinct hashtags.
func AugmentHashtags(text string, keywords []string, minimum int) string {
	present := ExtractHashtags(text)
	if len(present) >= minimum {
		return text
	}

	have := make(map[string]struct{}, len(present))
	for _, tag := range present {
		have[strings.ToLower(tag)] = struct{}{}
	}

	var missing []string
	for _, tag := range hashtagList(keywords, len(keywords)+len(genericHashtags)) {
		if _, ok := have[strings.ToLower(tag)]; ok {
			continue
		}
		missing = append(missing, tag)
		if len(present)+len(missing) >= minimum {
			break
		}
	}
	if len(missing) == 0 {
		return text
	}
	return strings.TrimRight(text, " \n") + "\n\n" + strings.Join(missing, " ")
}
