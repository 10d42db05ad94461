// Package jobs scores extracted skills against a fixed table of job profiles.
package jobs

// NoMatch is returned when the job table is empty.
const NoMatch = "No match found"

// Profile is one row of the job table.
type Profile struct {
	Name     string
	Required []string
}

// Table is the job table in tie-break order.
var Table = []Profile{
	{Name: "Backend Developer", Required: []string{"python", "django", "sql"}},
	{Name: "ML Engineer", Required: []string{"machine learning", "python"}},
	{Name: "Frontend Developer", Required: []string{"html", "css", "javascript"}},
}

// Score is the overlap count for one job.
type Score struct {
	Job   string `json:"job"`
	Score int    `json:"score"`
}

// Matcher picks the job whose required skills overlap the candidate's most.
type Matcher struct {
	table []Profile
}

// NewMatcher copies table so later edits by the caller do not leak in.
func NewMatcher(table []Profile) *Matcher {
	return &Matcher{table: append([]Profile(nil), table...)}
}

var defaultMatcher = NewMatcher(Table)

// Scores returns |required ∩ skills| for every job, in table order.
func (m *Matcher) Scores(skills []string) []Score {
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[s] = struct{}{}
	}

	out := make([]Score, 0, len(m.table))
	for _, job := range m.table {
		seen := make(map[string]struct{}, len(job.Required))
		n := 0
		for _, req := range job.Required {
			if _, dup := seen[req]; dup {
				continue
			}
			seen[req] = struct{}{}
			if _, ok := have[req]; ok {
				n++
			}
		}
		out = append(out, Score{Job: job.Name, Score: n})
	}
	return out
}

// Best returns the highest scoring job. The first job in table order wins ties,
// so a non-empty table always yields a name even when every score is zero.
func (m *Matcher) Best(skills []string) (string, int) {
	scores := m.Scores(skills)
	if len(scores) == 0 {
		return NoMatch, 0
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Job, best.Score
}

// Scores runs the default table.
func Scores(skills []string) []Score {
	return defaultMatcher.Scores(skills)
}

// Best runs the default table.
func Best(skills []string) (string, int) {
	return defaultMatcher.Best(skills)
}
