// Package template materializes the site template tree and applies the
// configuration patchers to its designated patch points.
package template

import "regexp"

// PatchReport records which anchor rules matched and which were skipped
// during one materialization. Skips are fail-open: a drifted template keeps
// deploying, it just stops receiving that substitution.
type PatchReport struct {
	Applied []string
	Skipped []string
}

func (r *PatchReport) applied(rule string) {
	if r != nil {
		r.Applied = append(r.Applied, rule)
	}
}

func (r *PatchReport) skipped(rule string) {
	if r != nil {
		r.Skipped = append(r.Skipped, rule)
	}
}

// replaceInner replaces the text between the pattern's two capture groups
// with value, leaving the captured surrounding markup untouched. Only the
// first match is rewritten.
func replaceInner(src string, re *regexp.Regexp, value string) (string, bool) {
	loc := re.FindStringSubmatchIndex(src)
	if loc == nil || len(loc) < 6 {
		return src, false
	}
	return src[:loc[0]] + src[loc[2]:loc[3]] + value + src[loc[4]:loc[5]] + src[loc[1]:], true
}

// replaceMatch swaps the first match of the pattern for the replacement text.
func replaceMatch(src string, re *regexp.Regexp, replacement string) (string, bool) {
	loc := re.FindStringIndex(src)
	if loc == nil {
		return src, false
	}
	return src[:loc[0]] + replacement + src[loc[1]:], true
}
