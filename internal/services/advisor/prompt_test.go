package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/lfg/internal/model"
)

func TestCandidateLineShowsSignedRatingDiff(t *testing.T) {
	account := model.Account{Username: "dps", Role: model.RoleDPS, Rating: 1400}
	lobby := model.Lobby{
		Name:           "Raid1",
		Leader:         "alice",
		RequiredRating: 1500,
		Members:        model.MemberSlots{Tank: "alice", DPS: [3]model.Username{"bob"}},
	}

	assert.Equal(t,
		"- Raid1 (Leader: alice) | Needs: Healer, 2 DPS | Req Rating: 1500 (Your rating: -100)",
		CandidateLine(account, lobby))

	account.Rating = 1500
	assert.Contains(t, CandidateLine(account, lobby), "(Your rating: +0)")
}

func TestBuildPromptListsPlayerAndCandidates(t *testing.T) {
	account := model.Account{Username: "dps", Role: model.RoleDPS, Rating: 2000}
	candidates := []model.Lobby{
		{Name: "Raid1", Leader: "alice", RequiredRating: 1500},
		{Name: "Raid2", Leader: "bob", RequiredRating: 1900},
	}

	prompt := BuildPrompt(account, candidates)

	assert.Contains(t, prompt, "- Role: DPS")
	assert.Contains(t, prompt, "- Rating: 2000")
	assert.Contains(t, prompt, "- Raid1 (Leader: alice)")
	assert.Contains(t, prompt, "- Raid2 (Leader: bob)")
	assert.Contains(t, prompt, "Recommended: [Lobby Name]")
	assert.Contains(t, prompt, "Reason: [Brief explanation]")
}

func TestParseRecommendation(t *testing.T) {
	candidates := []model.Lobby{{Name: "Raid1"}, {Name: "Night Raid"}, {Name: "raid1"}}

	tests := []struct {
		name  string
		text  string
		want  model.LobbyName
		found bool
	}{
		{"plain", "Recommended: Night Raid\nReason: good fit", "Night Raid", true},
		{"bracketed", "Recommended: [Raid1]", "Raid1", true},
		{"markdown", "**Recommended:** Night Raid", "Night Raid", true},
		{"exact wins", "Recommended: raid1", "raid1", true},
		{"case insensitive", "recommended: NIGHT RAID", "Night Raid", true},
		{"unknown lobby", "Recommended: Elsewhere", "", false},
		{"no line", "I would pick Raid1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRecommendation(tt.text, candidates)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
