package dto

import "time"

// AnalyticsSnapshot is a fully-computed, internally consistent bundle of
// dashboard metrics. It is derived data only: cached, never the source of
// truth for anything.
type AnalyticsSnapshot struct {
	TotalUsers            int64     `json:"total_users"`
	ActiveUsersToday      int64     `json:"active_users_today"`
	TotalAnalyses         int64     `json:"total_analyses"`
	AnalysesToday         int64     `json:"analyses_today"`
	TotalAppointments     int64     `json:"total_appointments"`
	AppointmentsToday     int64     `json:"appointments_today"`
	TotalPatients         int64     `json:"total_patients"`
	PatientsToday         int64     `json:"patients_today"`
	SystemUptimeHours     float64   `json:"system_uptime_hours"`
	AverageResponseTime   float64   `json:"average_response_time"`
	ErrorRate             float64   `json:"error_rate"`
	ExternalAPICalls      int64     `json:"external_api_calls"`
	ExternalAPICallsToday int64     `json:"external_api_calls_today"`
	GeneratedAt           time.Time `json:"generated_at"`
	CacheHit              bool      `json:"cache_hit"`
}

// HealthMetrics carries the snapshot fields the score derives from.
type HealthMetrics struct {
	ErrorRate    float64 `json:"error_rate"`
	ResponseTime float64 `json:"response_time"`
	UptimeHours  float64 `json:"uptime_hours"`
	ActiveUsers  int64   `json:"active_users"`
}

// HealthReport is the scored health of the system at one point in time.
type HealthReport struct {
	HealthScore float64       `json:"health_score"`
	Status      string        `json:"status"`
	Metrics     HealthMetrics `json:"metrics"`
	LastUpdated time.Time     `json:"last_updated"`
}

// SystemInfo carries process lifetime data for the dashboard payload.
type SystemInfo struct {
	UptimeHours float64   `json:"uptime_hours"`
	StartTime   time.Time `json:"start_time"`
	CurrentTime time.Time `json:"current_time"`
}

// DashboardResponse combines the snapshot with recent samples for the admin
// landing page.
type DashboardResponse struct {
	Analytics        AnalyticsSnapshot     `json:"analytics"`
	RecentActivities []ActivityLogResponse `json:"recent_activities"`
	RecentLogs       []SystemLogResponse   `json:"recent_logs"`
	PendingFlags     []ContentFlagResponse `json:"pending_flags"`
	SystemInfo       SystemInfo            `json:"system_info"`
}

// RealtimeStatsResponse holds lightweight counts over the trailing window.
type RealtimeStatsResponse struct {
	Timestamp             time.Time         `json:"timestamp"`
	Analytics             AnalyticsSnapshot `json:"analytics"`
	RecentActivitiesCount int64             `json:"recent_activities_count"`
	RecentLogsCount       int64             `json:"recent_logs_count"`
	ErrorLogsCount        int64             `json:"error_logs_count"`
}
