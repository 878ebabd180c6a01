package form

import (
	"crypto/rand"
	"regexp"
	"strings"

	"github.com/gofrs/uuid"
)

var (
	reNonSlug  = regexp.MustCompile(`[^a-z0-9-]+`)
	reManyDash = regexp.MustCompile(`-+`)
)

const slugSuffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// Slug turns a title into a URL-safe public identifier with a random
// suffix so that independent lineages never collide:
// "Customer Feedback" -> "customer-feedback-a1b2c3".
func Slug(title string) string {
	slug := strings.ToLower(title)
	slug = strings.Join(strings.Fields(slug), "-")
	slug = reNonSlug.ReplaceAllLiteralString(slug, "")
	slug = reManyDash.ReplaceAllLiteralString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 50 {
		slug = slug[:50]
	}
	if slug == "" {
		return randomSuffix(6)
	}
	return slug + "-" + randomSuffix(6)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = slugSuffixChars[int(b)%len(slugSuffixChars)]
	}
	return string(buf)
}

// NewLineageID identifies a family of form versions.
func NewLineageID() string {
	return uuid.Must(uuid.NewV4()).String()
}
