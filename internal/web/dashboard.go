package web

import (
	"net/http"
	"sort"

	"github.com/classboard/classboard/internal/domain"
)

// Sortable columns of the all-topics table.
var dashboardColumns = map[string]bool{
	"topic":          true,
	"complete_count": true,
	"partial_count":  true,
	"none_count":     true,
	"total_votes":    true,
	"message_count":  true,
	"clarity_score":  true,
}

type sortState struct {
	Key string
	Dir string // "asc" or "desc"
}

// next returns the sort state a click on column produces: a repeated
// column toggles direction, a new column starts descending.
func (s sortState) next(column string) sortState {
	if s.Key == column && s.Dir == "desc" {
		return sortState{Key: column, Dir: "asc"}
	}
	return sortState{Key: column, Dir: "desc"}
}

// Link builds the query string for a column header.
func (s sortState) Link(column string) string {
	n := s.next(column)
	return "/dashboard?sort=" + n.Key + "&dir=" + n.Dir
}

// Arrow returns the header indicator for the active column.
func (s sortState) Arrow(column string) string {
	if s.Key != column {
		return ""
	}
	if s.Dir == "asc" {
		return "↑"
	}
	return "↓"
}

// parseSortState reads the sort query parameters, falling back to the
// clarity-ascending default so struggling topics surface first.
func parseSortState(r *http.Request) sortState {
	s := sortState{Key: "clarity_score", Dir: "asc"}
	if key := r.URL.Query().Get("sort"); dashboardColumns[key] {
		s.Key = key
	}
	if dir := r.URL.Query().Get("dir"); dir == "asc" || dir == "desc" {
		s.Dir = dir
	}
	return s
}

func sortTopics(topics []domain.TopicStats, s sortState) []domain.TopicStats {
	sorted := make([]domain.TopicStats, len(topics))
	copy(sorted, topics)

	value := func(t domain.TopicStats) float64 {
		switch s.Key {
		case "complete_count":
			return float64(t.CompleteCount)
		case "partial_count":
			return float64(t.PartialCount)
		case "none_count":
			return float64(t.NoneCount)
		case "total_votes":
			return float64(t.TotalVotes)
		case "message_count":
			return float64(t.MessageCount)
		default:
			return t.ClarityScore
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		var less bool
		if s.Key == "topic" {
			less = sorted[i].Topic < sorted[j].Topic
		} else {
			less = value(sorted[i]) < value(sorted[j])
		}
		if s.Dir == "desc" {
			return !less
		}
		return less
	})
	return sorted
}

type dashboardPage struct {
	basePage
	Summary     domain.AnalyticsSummary
	Sort        sortState
	Topics      []domain.TopicStats
	Attention   []domain.TopicStats
	ChartTop    []domain.TopicStats // stacked understanding chart, top 10 voted
	Clarity     []domain.TopicStats // clarity bars, all voted topics
	Most        *domain.TopicStats
	Least       *domain.TopicStats
	MostActive  *domain.TopicStats
	LeastActive *domain.TopicStats
}

// Dashboard renders the teacher analytics view from one backend
// snapshot. Both charts and the table derive from that single fetch.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	page := dashboardPage{
		basePage: basePage{Title: "Analytics Dashboard", User: currentUser(r)},
		Sort:     parseSortState(r),
	}

	analytics, err := h.client.Analytics(r.Context())
	if err != nil {
		h.logger.Warn("loading analytics", "error", err)
		page.Error = errorText(err, "Failed to load analytics")
		h.render(w, http.StatusOK, "dashboard.html.tmpl", page)
		return
	}

	page.Summary = analytics.Summary
	page.Topics = sortTopics(analytics.Topics, page.Sort)
	page.Attention = analytics.TopicsNeedingAttention
	page.Most = analytics.MostUnderstood
	page.Least = analytics.LeastUnderstood
	page.MostActive = analytics.MostActiveThread
	page.LeastActive = analytics.LeastActiveThread

	voted := sortTopics(analytics.VotedTopics(), page.Sort)
	page.Clarity = voted
	if len(voted) > 10 {
		page.ChartTop = voted[:10]
	} else {
		page.ChartTop = voted
	}

	h.render(w, http.StatusOK, "dashboard.html.tmpl", page)
}
