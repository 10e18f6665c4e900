package advisor

import (
	"fmt"
	"strings"

	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/membership"
)

// CandidateLine describes one joinable lobby for the prompt
func CandidateLine(account model.Account, lobby model.Lobby) string {
	diff := account.Rating - lobby.RequiredRating
	status := fmt.Sprintf("%d", diff)
	if diff >= 0 {
		status = fmt.Sprintf("+%d", diff)
	}
	return fmt.Sprintf("- %s (Leader: %s) | Needs: %s | Req Rating: %d (Your rating: %s)",
		lobby.Name, lobby.Leader, strings.Join(membership.OpenRoles(lobby), ", "), lobby.RequiredRating, status)
}

// BuildPrompt asks for one recommendation among candidates
func BuildPrompt(account model.Account, candidates []model.Lobby) string {
	var b strings.Builder
	b.WriteString("You are a matchmaking expert for a team-based online game. Recommend the best lobby for this player.\n\n")
	b.WriteString("Player Info:\n")
	fmt.Fprintf(&b, "- Role: %s\n", account.Role)
	fmt.Fprintf(&b, "- Rating: %d\n\n", account.Rating)
	b.WriteString("Available Lobbies:\n")
	for _, l := range candidates {
		b.WriteString(CandidateLine(account, l))
		b.WriteByte('\n')
	}
	b.WriteString("\nRecommend ONE lobby and explain why, including what each role in the group contributes.\n")
	b.WriteString("Format your response as:\n")
	b.WriteString("Recommended: [Lobby Name]\n")
	b.WriteString("Reason: [Brief explanation]\n")
	return b.String()
}

// ParseRecommendation finds the "Recommended:" line and returns the candidate
// it names. Exact matches win over case-insensitive ones.
func ParseRecommendation(text string, candidates []model.Lobby) (model.LobbyName, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "*_# ")
		if len(line) < len("recommended:") || !strings.EqualFold(line[:len("recommended:")], "recommended:") {
			continue
		}
		value := strings.TrimSpace(line[len("recommended:"):])
		value = strings.Trim(value, "*_[]\"'` .")

		for _, c := range candidates {
			if string(c.Name) == value {
				return c.Name, true
			}
		}
		for _, c := range candidates {
			if strings.EqualFold(string(c.Name), value) {
				return c.Name, true
			}
		}
	}
	return "", false
}
