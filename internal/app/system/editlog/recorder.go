// internal/app/system/editlog/recorder.go
package editlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/stratahandbook/internal/app/store/edits"
	"github.com/dalemusser/stratahandbook/internal/app/system/content"
	"github.com/dalemusser/stratahandbook/internal/app/system/network"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
	"go.uber.org/zap"
)

// Config holds edit logging configuration.
type Config struct {
	// Edits controls logging for subsection create/update/delete.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Edits string
	// Auth controls logging for sign-in and sign-out. Auth events are never
	// stored, so "all" and "log" both mean zap only.
	Auth string
}

// Recorder writes edit log entries. Recording is best effort: a failed write
// is logged and never fails the edit that produced it.
type Recorder struct {
	store  *edits.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new Recorder.
func New(store *edits.Store, zapLog *zap.Logger, config Config) *Recorder {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Recorder{store: store, zapLog: zapLog, config: config}
}

func (r *Recorder) logToZap(entry models.EditLogEntry) {
	fields := []zap.Field{
		zap.Bool("edit", true),
		zap.String("action", string(entry.Action)),
		zap.String("user_email", entry.UserEmail),
		zap.String("section_id", entry.SectionID),
		zap.String("subsection_id", entry.SubsectionID),
		zap.String("subsection_title", entry.SubsectionTitle),
	}
	r.zapLog.Info("handbook edit", fields...)
}

// Record stores entry according to configuration.
// A nil Recorder is a no-op, which lets tests skip edit logging.
func (r *Recorder) Record(ctx context.Context, entry models.EditLogEntry) {
	if r == nil {
		return
	}
	setting := r.config.Edits
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		r.logToZap(entry)
	}
	if (setting == "all" || setting == "db") && r.store != nil {
		if err := r.store.Append(ctx, entry); err != nil {
			r.zapLog.Error("failed to store edit log entry",
				zap.Error(err),
				zap.String("action", string(entry.Action)),
				zap.String("section_id", entry.SectionID),
			)
		}
	}
}

// Created records a new subsection.
func (r *Recorder) Created(ctx context.Context, userEmail, sectionID string, after models.Subsection) {
	r.Record(ctx, models.EditLogEntry{
		UserEmail:       userEmail,
		SectionID:       sectionID,
		SubsectionID:    after.ID,
		SubsectionTitle: after.Title,
		Action:          models.EditCreate,
		After:           content.Snapshot(after),
	})
}

// Updated records a change to an existing subsection.
func (r *Recorder) Updated(ctx context.Context, userEmail, sectionID string, before, after models.Subsection) {
	r.Record(ctx, models.EditLogEntry{
		UserEmail:       userEmail,
		SectionID:       sectionID,
		SubsectionID:    after.ID,
		SubsectionTitle: after.Title,
		Action:          models.EditUpdate,
		Before:          content.Snapshot(before),
		After:           content.Snapshot(after),
	})
}

// Deleted records a removed subsection.
func (r *Recorder) Deleted(ctx context.Context, userEmail, sectionID string, before models.Subsection) {
	r.Record(ctx, models.EditLogEntry{
		UserEmail:       userEmail,
		SectionID:       sectionID,
		SubsectionID:    before.ID,
		SubsectionTitle: before.Title,
		Action:          models.EditDelete,
		Before:          content.Snapshot(before),
	})
}

func (r *Recorder) auth(event string, req *http.Request, email string, success bool, reason string) {
	if r == nil || r.config.Auth == "off" || r.config.Auth == "db" {
		return
	}
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("event_type", event),
		zap.String("email", email),
		zap.String("ip", network.ClientIP(req)),
	}
	if reason != "" {
		fields = append(fields, zap.String("failure_reason", reason))
	}
	if success {
		r.zapLog.Info("auth event", fields...)
	} else {
		r.zapLog.Warn("auth event", fields...)
	}
}

// LoginSuccess logs a successful sign-in.
func (r *Recorder) LoginSuccess(req *http.Request, email string) {
	r.auth("login_success", req, email, true, "")
}

// LoginDenied logs a sign-in rejected by the domain restriction or OAuth errors.
func (r *Recorder) LoginDenied(req *http.Request, email, reason string) {
	r.auth("login_denied", req, email, false, reason)
}

// Logout logs a sign-out.
func (r *Recorder) Logout(req *http.Request, email string) {
	r.auth("logout", req, email, true, "")
}
