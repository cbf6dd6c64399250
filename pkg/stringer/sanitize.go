package stringer

import (
  "html"
  "regexp"
  "strings"

  "github.com/microcosm-cc/bluemonday"
  "golang.org/x/text/cases"
)

var (
  policy         = bluemonday.StrictPolicy()
  RegexRepeatSep = regexp.MustCompile(`[ \t]{2,}`)
  RegexTag       = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9-]*(\s[^<>]*)?/?>`)
)

func StripTags(s string) string {
  return strings.TrimSpace(policy.Sanitize(s))
}

func Strip(s string) string {
  return strings.TrimSpace(s)
}

func IsEmptyStr(s string) bool {
  return Strip(s) == ""
}

func HasMarkup(s string) bool {
  return RegexTag.MatchString(s)
}

// SanitizeText removes markup while keeping entities such as & readable.
// Text without complete tags is returned unchanged, so a lone "<" survives.
func SanitizeText(s string) string {
  if !HasMarkup(s) {
    return s
  }
  s = StripTags(s)
  s = html.UnescapeString(s)
  s = RegexRepeatSep.ReplaceAllLiteralString(s, " ")
  return Strip(s)
}

// NormalizeEmail returns the caseless form used to store and compare emails.
// Casers keep state, so each call gets its own.
func NormalizeEmail(s string) string {
  return cases.Fold().String(Strip(s))
}
