package domain

// AnalyticsSummary is the headline card data of the dashboard.
type AnalyticsSummary struct {
	TotalStudents               int     `json:"total_students"`
	StudentsParticipated        int     `json:"students_participated"`
	TotalAnnouncements          int     `json:"total_announcements"`
	TotalThreads                int     `json:"total_threads"`
	TotalVotes                  int     `json:"total_votes"`
	OverallUnderstandingRate    float64 `json:"overall_understanding_rate"`
	TopicsNeedingAttentionCount int     `json:"topics_needing_attention_count"`
}

// TopicStats is one row of the per-topic analytics table.
// ClarityScore is the 0-100 percentage of complete votes.
type TopicStats struct {
	ThreadID          int64   `json:"thread_id"`
	Topic             string  `json:"topic"`
	AnnouncementTitle string  `json:"announcement_title"`
	CompleteCount     int     `json:"complete_count"`
	PartialCount      int     `json:"partial_count"`
	NoneCount         int     `json:"none_count"`
	TotalVotes        int     `json:"total_votes"`
	MessageCount      int     `json:"message_count"`
	ClarityScore      float64 `json:"clarity_score"`
}

// ClarityBand buckets a clarity score for display: "good" at 70 and
// above, "warn" from 50, "bad" below.
func (t TopicStats) ClarityBand() string {
	switch {
	case t.ClarityScore >= 70:
		return "good"
	case t.ClarityScore >= 50:
		return "warn"
	default:
		return "bad"
	}
}

// Analytics is the read-only snapshot the backend recomputes per fetch.
type Analytics struct {
	Summary                AnalyticsSummary `json:"summary"`
	Topics                 []TopicStats     `json:"topics"`
	TopicsNeedingAttention []TopicStats     `json:"topics_needing_attention"`
	MostUnderstood         *TopicStats      `json:"most_understood"`
	LeastUnderstood        *TopicStats      `json:"least_understood"`
	MostActiveThread       *TopicStats      `json:"most_active_thread"`
	LeastActiveThread      *TopicStats      `json:"least_active_thread"`
}

// VotedTopics returns only topics that received at least one vote,
// preserving order.
func (a *Analytics) VotedTopics() []TopicStats {
	voted := make([]TopicStats, 0, len(a.Topics))
	for _, t := range a.Topics {
		if t.TotalVotes > 0 {
			voted = append(voted, t)
		}
	}
	return voted
}
