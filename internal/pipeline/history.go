package pipeline

import (
	"fmt"
	"unicode/utf8"
)

// MaxCommentLength caps free-text audit comments
const MaxCommentLength = 200

// ComposeComment builds the generated audit text for a stage change.
// Wording depends on catalog direction: advancing says "Moved to",
// retreating says "Back to", a same-position re-save says "Stage changed
// to". Rejection always reads "Moved to Rejected" whatever the order.
func ComposeComment(previous, next Stage, isNewApplicant bool, actor string) string {
	if isNewApplicant {
		return fmt.Sprintf("Applicant created with initial stage by %s", actor)
	}

	if next == StageRejected {
		return fmt.Sprintf("Moved to %s by %s", Label(next), actor)
	}

	prevIdx, nextIdx := Order(previous), Order(next)
	switch {
	case nextIdx > prevIdx:
		return fmt.Sprintf("Moved to %s by %s", Label(next), actor)
	case nextIdx < prevIdx:
		return fmt.Sprintf("Back to %s by %s", Label(next), actor)
	default:
		return fmt.Sprintf("Stage changed to %s by %s", Label(next), actor)
	}
}

// ResolveComment prefers the caller-supplied comment over the generated
// one, but only when it is non-empty and within the length cap. Overlong
// comments fall back to the generated text instead of being truncated.
func ResolveComment(supplied string, previous, next Stage, isNewApplicant bool, actor string) string {
	if supplied != "" && utf8.RuneCountInString(supplied) <= MaxCommentLength {
		return supplied
	}
	return ComposeComment(previous, next, isNewApplicant, actor)
}
