package analysis

import (
	"strings"
	"time"
)

// GroupSeparator joins the group labels stored in Activity.GroupNames.
const GroupSeparator = " / "

type Activity struct {
	ID            string    `json:"id,omitempty"`
	UploadID      string    `json:"uploadId,omitempty"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Price         string    `json:"price"`
	LoveVotes     int       `json:"love_votes"`
	LikeVotes     int       `json:"like_votes"`
	PassVotes     int       `json:"pass_votes"`
	Score         float64   `json:"score"`
	WebsiteLink   string    `json:"website_link"`
	GoogleMapsURL string    `json:"google_maps_url"`
	GroupNames    string    `json:"groupNames"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
}

// Groups splits GroupNames into its labels, dropping blanks.
func (a Activity) Groups() []string {
	if strings.TrimSpace(a.GroupNames) == "" {
		return nil
	}
	parts := strings.Split(a.GroupNames, GroupSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type CategoryStat struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avgScore"`
}

type CategoryLeader struct {
	Category    string   `json:"category"`
	TopActivity Activity `json:"topActivity"`
	AvgScore    float64  `json:"avgScore"`
	Count       int      `json:"count"`
}

type Totals struct {
	TotalActivities int     `json:"totalActivities"`
	TotalLoveVotes  int     `json:"totalLoveVotes"`
	TotalLikeVotes  int     `json:"totalLikeVotes"`
	TotalPassVotes  int     `json:"totalPassVotes"`
	AvgScore        float64 `json:"avgScore"`
}

type BudgetTier struct {
	Tier       string     `json:"tier"`
	Activities []Activity `json:"activities"`
	AvgScore   float64    `json:"avgScore"`
	Count      int        `json:"count"`
	BestValue  Activity   `json:"bestValue"`
}

type GroupDynamics struct {
	Consensus     []Activity `json:"consensus"`
	Controversial []Activity `json:"controversial"`
	Polarizing    []Activity `json:"polarizing"`
	Unanimous     []Activity `json:"unanimous"`
}

type VotingPatterns struct {
	TotalVotes     int     `json:"totalVotes"`
	LovePercentage float64 `json:"lovePercentage"`
	LikePercentage float64 `json:"likePercentage"`
	PassPercentage float64 `json:"passPercentage"`
	Engagement     float64 `json:"engagement"`
}

type ScoreBin struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Summary bundles every derived view of one dataset snapshot.
type Summary struct {
	Totals              Totals           `json:"totals"`
	TopActivities       []Activity       `json:"topActivities"`
	CategoryStats       []CategoryStat   `json:"categoryStats"`
	CategoryLeaders     []CategoryLeader `json:"categoryLeaders"`
	BudgetAnalysis      []BudgetTier     `json:"budgetAnalysis"`
	GroupDynamics       GroupDynamics    `json:"groupDynamics"`
	VotingPatterns      VotingPatterns   `json:"votingPatterns"`
	ScoreDistribution   []ScoreBin       `json:"scoreDistribution"`
	AvailableCategories []string         `json:"availableCategories"`
}
