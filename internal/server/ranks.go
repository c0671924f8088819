package server

import (
	"context"
	"math"
	"sort"

	"github.com/classconduct/conduct-server/internal/db"
	"github.com/classconduct/conduct-server/internal/faults"
	"github.com/classconduct/conduct-server/internal/models"
)

type RankedStudent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type ClassRank struct {
	ClassName    string          `json:"className"`
	StudentCount int             `json:"studentCount"`
	AverageScore float64         `json:"averageScore"`
	Students     []RankedStudent `json:"students"`
	Rank         int             `json:"rank"`
}

// classRanks groups students by class, averages the derived scores and
// ranks the classes descending. One aggregate query replaces the
// per-student ledger reads; the derivation rule is the same.
func (s *Server) classRanks(ctx context.Context) ([]ClassRank, error) {
	students, err := db.ListStudents(ctx, s.database)
	if err != nil {
		return nil, faults.Storage("list students", err)
	}
	deltas, err := db.ScoreDeltas(ctx, s.database)
	if err != nil {
		return nil, faults.Storage("sum entries", err)
	}

	groups := make(map[string][]RankedStudent)
	for _, st := range students {
		groups[st.Class] = append(groups[st.Class], RankedStudent{
			ID:    st.ID,
			Name:  st.Name,
			Score: models.BaseScore + deltas[st.ID],
		})
	}

	ranks := make([]ClassRank, 0, len(groups))
	for class, members := range groups {
		sort.Slice(members, func(i, j int) bool { return members[i].Score > members[j].Score })
		total := 0
		for _, m := range members {
			total += m.Score
		}
		avg := 0.0
		if len(members) > 0 {
			avg = math.Round(float64(total)/float64(len(members))*100) / 100
		}
		ranks = append(ranks, ClassRank{
			ClassName:    class,
			StudentCount: len(members),
			AverageScore: avg,
			Students:     members,
		})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].AverageScore != ranks[j].AverageScore {
			return ranks[i].AverageScore > ranks[j].AverageScore
		}
		return ranks[i].ClassName < ranks[j].ClassName
	})
	for i := range ranks {
		ranks[i].Rank = i + 1
	}
	return ranks, nil
}
