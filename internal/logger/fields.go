package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by the scoring pipeline.
const (
	FieldProvider    = "ai_provider"
	FieldModel       = "ai_model"
	FieldBatchID     = "batch_id"
	FieldJobID       = "job_id"
	FieldCandidateID = "candidate_id"
	FieldUserID      = "user_id"
)

// stringFields turns key/value pairs into zap fields, skipping blank values.
func stringFields(kv ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := strings.TrimSpace(kv[i])
		value := strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// WithFields attaches fields to l. A nil logger becomes a no-op logger.
func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// ForProvider scopes l to a text-generation provider and model.
func ForProvider(l *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(l, stringFields(FieldProvider, provider, FieldModel, model)...)
}

// ForBatch scopes l to one scoring batch of a job.
func ForBatch(l *zap.Logger, batchID, jobID string) *zap.Logger {
	return WithFields(l, stringFields(FieldBatchID, batchID, FieldJobID, jobID)...)
}
