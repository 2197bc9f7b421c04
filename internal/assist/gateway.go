// Package assist integrates an external language-model service for content
// moderation, thread summaries, and sentiment labels. The rest of the
// application only sees the Gateway interface and has no knowledge of the
// provider's protocol.
package assist

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Gateway is the capability interface injected into the core services.
type Gateway interface {
	// Moderate reports whether the text violates content policy.
	// Callers decide failure policy; creation paths treat an error as fatal.
	Moderate(ctx context.Context, text string) (bool, error)

	// Summarize returns a one-sentence summary of a feedback thread.
	Summarize(ctx context.Context, thread Thread) (string, error)

	// ClassifySentiment returns one of the canonical sentiment labels.
	// It degrades to SentimentConstructive rather than failing.
	ClassifySentiment(ctx context.Context, text string) (string, error)
}

// Canonical sentiment labels. ClassifySentiment never returns anything else.
const (
	SentimentPositive     = "Positive"
	SentimentNegative     = "Negative"
	SentimentConstructive = "Constructive"
)

// ThreadComment is one comment line in a summarization prompt.
type ThreadComment struct {
	CommenterName string
	CommentText   string
	CreatedAt     time.Time
}

// Thread carries everything the summarizer needs about a feedback post.
// Comments must be in oldest-first order for faithful thread reconstruction.
type Thread struct {
	Title       string
	StudentName string
	Standing    string
	Major       string
	Description string
	CreatedAt   time.Time
	Comments    []ThreadComment
}

// BuildThreadText renders a thread into the deterministic plain-text form
// fed to the summarization prompt.
func BuildThreadText(t Thread) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Post Title: %s\n", t.Title)
	fmt.Fprintf(&b, "Posted by: %s (%s, %s) on %s\n\n",
		t.StudentName, t.Standing, t.Major, t.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Description:\n%s\n\n", t.Description)
	b.WriteString("Comments:\n")

	if len(t.Comments) == 0 {
		b.WriteString("(No comments yet)\n")
		return b.String()
	}

	for i, c := range t.Comments {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n",
			i+1, c.CommenterName, c.CreatedAt.UTC().Format(time.RFC3339), c.CommentText)
	}
	return b.String()
}

// NormalizeSentiment maps a raw model response onto a canonical label.
// Anything that is not recognizably positive or negative is treated as
// constructive; this is the fail-safe default, not an error.
func NormalizeSentiment(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(s, "positive"):
		return SentimentPositive
	case strings.HasPrefix(s, "negative"):
		return SentimentNegative
	case strings.HasPrefix(s, "construct"):
		return SentimentConstructive
	default:
		return SentimentConstructive
	}
}
