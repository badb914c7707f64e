// Package sanitize strips markup from user-supplied text. Anniversary and
// collection names end up in HTML pages, JSON, and ICS feeds, so they are
// stored as plain text only.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the shared strict policy: every element is removed, and the
// contents of script and style elements go with it.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text removes all HTML from input and trims surrounding whitespace.
// Entities are decoded again afterwards because every output path escapes
// on its own; "Tom & Jerry" stays "Tom & Jerry".
func Text(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(getPolicy().Sanitize(input)))
}

// OptionalText applies Text to an optional field. Nil, and values that are
// empty once stripped, come back nil.
func OptionalText(input *string) *string {
	if input == nil {
		return nil
	}
	s := Text(*input)
	if s == "" {
		return nil
	}
	return &s
}
