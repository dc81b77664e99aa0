// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package markup

import (
	"errors"
	"fmt"
	"regexp"
)

// WordReplacement is a user-defined find/replace rule.
//
// From is an RE2 regular expression. To is expanded with [regexp.Regexp.Expand]
// rules: $1 or $name takes the longest run of letters, digits and underscores
// as the group name, so a group followed by a word character needs braces,
// ${1}x rather than $1x. A reference to a group that does not exist expands to
// nothing. $$ is a literal dollar sign.
type WordReplacement struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to"   yaml:"to"`
}

// RuleError reports a replacement rule that could not be applied.
type RuleError struct {
	Index int
	From  string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("word replacement #%d (%q): %v", e.Index+1, e.From, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// Replace applies rules to text in order, each rule seeing the output of the
// previous ones.
//
// Rules with an empty From are skipped. Rules whose From does not compile are
// skipped as well and reported through the returned error, which joins one
// *RuleError per bad rule; the returned text is always usable.
func Replace(text string, rules []WordReplacement) (string, error) {
	var errs []error

	for i, rule := range rules {
		if rule.From == "" {
			continue
		}

		re, err := regexp.Compile(rule.From)
		if err != nil {
			errs = append(errs, &RuleError{Index: i, From: rule.From, Err: err})

			continue
		}

		text = re.ReplaceAllString(text, rule.To)
	}

	return text, errors.Join(errs...)
}
