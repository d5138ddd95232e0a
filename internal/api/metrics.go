package api

import (
	"context"
	"net/http"
)

type EngagementPoint struct {
	Name    string  `json:"name"`
	Active  float64 `json:"active"`
	Queries float64 `json:"queries"`
}

type TopicShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

type Activity struct {
	ID     any    `json:"id"`
	User   string `json:"user"`
	Topic  string `json:"topic"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

// SuperAdminMetrics is the platform-wide analytics snapshot.
type SuperAdminMetrics struct {
	AccuracyScore       float64           `json:"accuracy_score"`
	SQLSuccessRate      float64           `json:"sql_success_rate"`
	AvgResponseTime     float64           `json:"avg_response_time"`
	TotalQueries        int64             `json:"total_queries"`
	TotalUsers          int64             `json:"total_users"`
	ActiveUsers         int64             `json:"active_users"`
	TotalWordsGenerated int64             `json:"total_words_generated"`
	EngagementTrend     []EngagementPoint `json:"engagement_trend"`
	TopicDistribution   []TopicShare      `json:"topic_distribution"`
	RecentActivity      []Activity        `json:"recent_activity"`
	SystemHealth        string            `json:"system_health"`
}

// SuperAdminMetrics returns ErrForbidden (via errors.Is) for non super-admins.
func (c *Client) SuperAdminMetrics(ctx context.Context) (*SuperAdminMetrics, error) {
	var out SuperAdminMetrics
	err := c.do(ctx, call{
		method:        http.MethodGet,
		path:          "/auth/super-admin/metrics",
		out:           &out,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
