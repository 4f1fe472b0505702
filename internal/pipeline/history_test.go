package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeCommentWording(t *testing.T) {
	cases := []struct {
		name     string
		previous Stage
		next     Stage
		isNew    bool
		want     string
	}{
		{"creation", "", StageChallengeEmail, true, "Applicant created with initial stage by hr@flix.test"},
		{"advance", StageChallengeEmail, StageFirstInterview, false, "Moved to First Interview by hr@flix.test"},
		{"retreat", StageSalesMock, StageEquipmentEmail, false, "Back to Equipment Email by hr@flix.test"},
		{"same position", StageSlackMock, StageSlackMock, false, "Stage changed to Slack Mockup Calls by hr@flix.test"},
		{"rejection from early stage", StageChallengeEmail, StageRejected, false, "Moved to Rejected by hr@flix.test"},
		{"rejection from late stage", StageHired, StageRejected, false, "Moved to Rejected by hr@flix.test"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComposeComment(tc.previous, tc.next, tc.isNew, "hr@flix.test"))
		})
	}
}

func TestResolveCommentPrefersSupplied(t *testing.T) {
	got := ResolveComment("Strong communicator, move along", StageChallengeEmail, StageFirstInterview, false, "hr@flix.test")
	assert.Equal(t, "Strong communicator, move along", got)
}

func TestResolveCommentEmptyFallsBack(t *testing.T) {
	got := ResolveComment("", StageChallengeEmail, StageFirstInterview, false, "hr@flix.test")
	assert.Equal(t, "Moved to First Interview by hr@flix.test", got)
}

func TestResolveCommentOverlongFallsBack(t *testing.T) {
	overlong := strings.Repeat("x", MaxCommentLength+1)
	got := ResolveComment(overlong, StageChallengeEmail, StageFirstInterview, false, "hr@flix.test")
	assert.Equal(t, "Moved to First Interview by hr@flix.test", got)

	// Exactly at the cap is accepted. Runes count, not bytes.
	atCap := strings.Repeat("é", MaxCommentLength)
	assert.Equal(t, atCap, ResolveComment(atCap, StageChallengeEmail, StageFirstInterview, false, "hr@flix.test"))
}
