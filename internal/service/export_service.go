package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
)

const exportBatchSize = 500

// ExportService projects a bounded log range into a JSON or CSV payload. Rows
// are streamed to the writer in batches; the full range is never held in
// memory, so exports of large windows stay flat. Validate lets callers reject
// a request before any response bytes are committed.
type ExportService interface {
	Validate(req dto.LogExportRequest) error
	Export(ctx context.Context, req dto.LogExportRequest, w io.Writer) error
}

type exportService struct {
	activities repository.ActivityLogRepository
	systemLogs repository.SystemLogRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewExportService constructs the log exporter.
func NewExportService(activities repository.ActivityLogRepository, systemLogs repository.SystemLogRepository, validate *validator.Validate, logger zerolog.Logger) ExportService {
	return &exportService{
		activities: activities,
		systemLogs: systemLogs,
		validator:  validate,
		logger:     logger.With().Str("component", "export_service").Logger(),
	}
}

func (s *exportService) Validate(req dto.LogExportRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	if req.StartDate.After(req.EndDate) {
		return fmt.Errorf("%w: start date is after end date", ErrValidation)
	}
	switch req.LogType {
	case dto.ExportLogTypeActivities, dto.ExportLogTypeSystem:
		return nil
	default:
		return fmt.Errorf("%w: unknown log type %q", ErrValidation, req.LogType)
	}
}

func (s *exportService) Export(ctx context.Context, req dto.LogExportRequest, w io.Writer) error {
	if err := s.Validate(req); err != nil {
		return err
	}

	if req.LogType == dto.ExportLogTypeActivities {
		return s.exportActivities(ctx, req, w)
	}
	return s.exportSystemLogs(ctx, req, w)
}

func (s *exportService) exportActivities(ctx context.Context, req dto.LogExportRequest, w io.Writer) error {
	if req.Format == dto.ExportFormatCSV {
		cw := csv.NewWriter(w)
		header := []string{"id", "user_id", "user_email", "activity_type", "description", "ip_address", "user_agent", "metadata", "timestamp", "session_id"}
		if err := cw.Write(header); err != nil {
			return err
		}

		err := s.activities.StreamRange(ctx, req.StartDate, req.EndDate, exportBatchSize, func(entries []models.ActivityLog) error {
			for _, entry := range entries {
				record := []string{
					entry.ID,
					derefString(entry.UserID),
					derefString(entry.UserEmail),
					string(entry.ActivityType),
					entry.Description,
					derefString(entry.IPAddress),
					derefString(entry.UserAgent),
					encodeMetadata(entry.Metadata),
					entry.Timestamp.UTC().Format(time.RFC3339Nano),
					derefString(entry.SessionID),
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
			cw.Flush()
			return cw.Error()
		})
		if err != nil {
			return s.persistenceErr(err)
		}
		cw.Flush()
		return cw.Error()
	}

	stream := newJSONStream(w)
	err := s.activities.StreamRange(ctx, req.StartDate, req.EndDate, exportBatchSize, func(entries []models.ActivityLog) error {
		for _, entry := range entries {
			if err := stream.write(dto.NewActivityLogResponse(entry)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.persistenceErr(err)
	}
	return stream.close()
}

func (s *exportService) exportSystemLogs(ctx context.Context, req dto.LogExportRequest, w io.Writer) error {
	if req.Format == dto.ExportFormatCSV {
		cw := csv.NewWriter(w)
		header := []string{"id", "level", "component", "message", "stack_trace", "metadata", "timestamp"}
		if err := cw.Write(header); err != nil {
			return err
		}

		err := s.systemLogs.StreamRange(ctx, req.StartDate, req.EndDate, exportBatchSize, func(entries []models.SystemLog) error {
			for _, entry := range entries {
				record := []string{
					entry.ID,
					string(entry.Level),
					entry.Component,
					entry.Message,
					derefString(entry.StackTrace),
					encodeMetadata(entry.Metadata),
					entry.Timestamp.UTC().Format(time.RFC3339Nano),
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
			cw.Flush()
			return cw.Error()
		})
		if err != nil {
			return s.persistenceErr(err)
		}
		cw.Flush()
		return cw.Error()
	}

	stream := newJSONStream(w)
	err := s.systemLogs.StreamRange(ctx, req.StartDate, req.EndDate, exportBatchSize, func(entries []models.SystemLog) error {
		for _, entry := range entries {
			if err := stream.write(dto.NewSystemLogResponse(entry)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.persistenceErr(err)
	}
	return stream.close()
}

func (s *exportService) persistenceErr(err error) error {
	s.logger.Error().Err(err).Msg("log export failed")
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

// jsonStream writes an incrementally built JSON array of records.
type jsonStream struct {
	w     io.Writer
	count int
	err   error
}

func newJSONStream(w io.Writer) *jsonStream {
	return &jsonStream{w: w}
}

func (j *jsonStream) write(record interface{}) error {
	if j.err != nil {
		return j.err
	}

	prefix := ","
	if j.count == 0 {
		prefix = "["
	}
	if _, err := io.WriteString(j.w, prefix); err != nil {
		j.err = err
		return err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		j.err = err
		return err
	}
	if _, err := j.w.Write(payload); err != nil {
		j.err = err
		return err
	}

	j.count++
	return nil
}

func (j *jsonStream) close() error {
	if j.err != nil {
		return j.err
	}
	if j.count == 0 {
		_, err := io.WriteString(j.w, "[]")
		return err
	}
	_, err := io.WriteString(j.w, "]")
	return err
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func encodeMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	payload, err := json.Marshal(metadata)
	if err != nil {
		return strconv.Quote(fmt.Sprintf("%v", metadata))
	}
	return string(payload)
}
