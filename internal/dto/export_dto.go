package dto

import "time"

// Export log types and formats accepted by the export endpoint.
const (
	ExportLogTypeActivities = "user_activities"
	ExportLogTypeSystem     = "system"

	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

// LogExportRequest describes a bounded log export. The date range is
// inclusive on both ends.
type LogExportRequest struct {
	LogType   string    `validate:"required,oneof=user_activities system"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required"`
	Format    string    `validate:"required,oneof=json csv"`
}
