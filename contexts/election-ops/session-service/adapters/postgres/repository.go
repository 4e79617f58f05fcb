package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"electra/contexts/election-ops/eligibility"
	"electra/contexts/election-ops/session-service/domain/entities"
	domainerrors "electra/contexts/election-ops/session-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) SaveSession(ctx context.Context, session entities.Session) error {
	row := sessionModelFromEntity(session)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":             row.Title,
			"description":       row.Description,
			"start_time":        row.StartTime,
			"end_time":          row.EndTime,
			"min_age":           row.MinAge,
			"scope":             row.Scope,
			"scope_state":       row.ScopeState,
			"scope_lga":         row.ScopeLGA,
			"require_whitelist": row.RequireWhitelist,
			"forced_ended":      row.ForcedEnded,
			"results_published": row.ResultsPublished,
			"updated_at":        row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("session_repo_save_failed", create.Error, "session_id", row.ID)
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (entities.Session, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Session{}, domainerrors.ErrSessionNotFound
		}
		return entities.Session{}, r.logError("session_repo_get_failed", err, "session_id", strings.TrimSpace(sessionID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSessions(ctx context.Context) ([]entities.Session, error) {
	var rows []sessionModel
	err := r.db.WithContext(ctx).
		Order("start_time DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("session_repo_list_failed", err)
	}
	return toEntities(rows), nil
}

func (r *Repository) ListPendingScheduled(ctx context.Context, now time.Time, limit int) ([]entities.Session, error) {
	var rows []sessionModel
	err := r.db.WithContext(ctx).
		Where("scheduled_notified_at IS NULL AND start_time > ?", now.UTC()).
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("session_repo_pending_scheduled_failed", err)
	}
	return toEntities(rows), nil
}

func (r *Repository) ListPendingStarted(ctx context.Context, now time.Time, createdBefore time.Time, limit int) ([]entities.Session, error) {
	var rows []sessionModel
	err := r.db.WithContext(ctx).
		Where("started_notified_at IS NULL AND start_time <= ? AND forced_ended = false", now.UTC()).
		Where("scheduled_notified_at IS NOT NULL OR created_at <= ?", createdBefore.UTC()).
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("session_repo_pending_started_failed", err)
	}
	return toEntities(rows), nil
}

func (r *Repository) ListPendingEnded(ctx context.Context, now time.Time, limit int) ([]entities.Session, error) {
	var rows []sessionModel
	err := r.db.WithContext(ctx).
		Where("ended_notified_at IS NULL AND (forced_ended = true OR end_time <= ?)", now.UTC()).
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("session_repo_pending_ended_failed", err)
	}
	return toEntities(rows), nil
}

func (r *Repository) ListPendingResults(ctx context.Context, limit int) ([]entities.Session, error) {
	var rows []sessionModel
	err := r.db.WithContext(ctx).
		Where("results_notified_at IS NULL AND results_published = true").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("session_repo_pending_results_failed", err)
	}
	return toEntities(rows), nil
}

// ClaimTransition stamps a fired-at column only when it is still null and
// reports whether this caller won. The single conditional update is the
// idempotency guard shared by every poller process.
func (r *Repository) ClaimTransition(ctx context.Context, sessionID string, transition entities.LifecycleTransition, at time.Time) (bool, error) {
	column, ok := markColumn(transition)
	if !ok {
		return false, domainerrors.ErrUnknownTransition
	}
	update := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("id = ? AND "+column+" IS NULL", strings.TrimSpace(sessionID)).
		Update(column, at.UTC())
	if update.Error != nil {
		return false, r.logError("session_repo_claim_failed", update.Error,
			"session_id", strings.TrimSpace(sessionID),
			"transition", string(transition),
		)
	}
	return update.RowsAffected > 0, nil
}

func markColumn(transition entities.LifecycleTransition) (string, bool) {
	switch transition {
	case entities.TransitionScheduled:
		return "scheduled_notified_at", true
	case entities.TransitionStarted:
		return "started_notified_at", true
	case entities.TransitionEnded:
		return "ended_notified_at", true
	case entities.TransitionResults:
		return "results_notified_at", true
	default:
		return "", false
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-ops/session-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("session repository operation failed", fields...)
	return err
}

func toEntities(rows []sessionModel) []entities.Session {
	items := make([]entities.Session, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type sessionModel struct {
	ID                  string     `gorm:"column:id;primaryKey"`
	Title               string     `gorm:"column:title"`
	Description         string     `gorm:"column:description"`
	StartTime           time.Time  `gorm:"column:start_time"`
	EndTime             time.Time  `gorm:"column:end_time"`
	MinAge              int        `gorm:"column:min_age"`
	Scope               string     `gorm:"column:scope"`
	ScopeState          string     `gorm:"column:scope_state"`
	ScopeLGA            string     `gorm:"column:scope_lga"`
	RequireWhitelist    bool       `gorm:"column:require_whitelist"`
	ForcedEnded         bool       `gorm:"column:forced_ended"`
	ResultsPublished    bool       `gorm:"column:results_published"`
	ScheduledNotifiedAt *time.Time `gorm:"column:scheduled_notified_at"`
	StartedNotifiedAt   *time.Time `gorm:"column:started_notified_at"`
	EndedNotifiedAt     *time.Time `gorm:"column:ended_notified_at"`
	ResultsNotifiedAt   *time.Time `gorm:"column:results_notified_at"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (sessionModel) TableName() string {
	return "voting_sessions"
}

func sessionModelFromEntity(session entities.Session) sessionModel {
	row := sessionModel{
		ID:                  strings.TrimSpace(session.SessionID),
		Title:               strings.TrimSpace(session.Title),
		Description:         strings.TrimSpace(session.Description),
		StartTime:           session.StartTime.UTC(),
		EndTime:             session.EndTime.UTC(),
		MinAge:              session.MinAge,
		Scope:               string(session.Scope),
		ScopeState:          strings.TrimSpace(session.ScopeState),
		ScopeLGA:            strings.TrimSpace(session.ScopeLGA),
		RequireWhitelist:    session.RequireWhitelist,
		ForcedEnded:         session.ForcedEnded,
		ResultsPublished:    session.ResultsPublished,
		ScheduledNotifiedAt: normalizeOptionalTime(session.Marks.ScheduledNotifiedAt),
		StartedNotifiedAt:   normalizeOptionalTime(session.Marks.StartedNotifiedAt),
		EndedNotifiedAt:     normalizeOptionalTime(session.Marks.EndedNotifiedAt),
		ResultsNotifiedAt:   normalizeOptionalTime(session.Marks.ResultsNotifiedAt),
		CreatedAt:           session.CreatedAt.UTC(),
		UpdatedAt:           session.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m sessionModel) toEntity() entities.Session {
	return entities.Session{
		SessionID:        m.ID,
		Title:            m.Title,
		Description:      m.Description,
		StartTime:        m.StartTime.UTC(),
		EndTime:          m.EndTime.UTC(),
		MinAge:           m.MinAge,
		Scope:            eligibility.Scope(m.Scope),
		ScopeState:       m.ScopeState,
		ScopeLGA:         m.ScopeLGA,
		RequireWhitelist: m.RequireWhitelist,
		ForcedEnded:      m.ForcedEnded,
		ResultsPublished: m.ResultsPublished,
		Marks: entities.LifecycleMarks{
			ScheduledNotifiedAt: normalizeOptionalTime(m.ScheduledNotifiedAt),
			StartedNotifiedAt:   normalizeOptionalTime(m.StartedNotifiedAt),
			EndedNotifiedAt:     normalizeOptionalTime(m.EndedNotifiedAt),
			ResultsNotifiedAt:   normalizeOptionalTime(m.ResultsNotifiedAt),
		},
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}
