package service

import (
	"github.com/noah-isme/clinic-admin-api/internal/config"
	"github.com/noah-isme/clinic-admin-api/internal/dto"
)

// Health status tiers.
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusWarning  = "warning"
	HealthStatusCritical = "critical"
)

// ScoreHealth maps a snapshot to a bounded health score and a status tier.
// Pure function: same snapshot and weights always yield the same report.
func ScoreHealth(snapshot dto.AnalyticsSnapshot, weights config.HealthWeights) dto.HealthReport {
	score := 100.0
	score -= capAt(snapshot.ErrorRate*weights.ErrorRateWeight, weights.ErrorRateCap)
	score -= capAt(snapshot.AverageResponseTime*weights.LatencyWeight, weights.LatencyCap)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	status := HealthStatusCritical
	switch {
	case score >= weights.HealthyThreshold:
		status = HealthStatusHealthy
	case score >= weights.WarningThreshold:
		status = HealthStatusWarning
	}

	return dto.HealthReport{
		HealthScore: score,
		Status:      status,
		Metrics: dto.HealthMetrics{
			ErrorRate:    snapshot.ErrorRate,
			ResponseTime: snapshot.AverageResponseTime,
			UptimeHours:  snapshot.SystemUptimeHours,
			ActiveUsers:  snapshot.ActiveUsersToday,
		},
		LastUpdated: snapshot.GeneratedAt,
	}
}

func capAt(value, limit float64) float64 {
	if value < 0 {
		return 0
	}
	if limit > 0 && value > limit {
		return limit
	}
	return value
}
