package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"electra/contexts/election-ops/eligibility"
	"electra/contexts/election-ops/notification-service/domain/entities"
	domainerrors "electra/contexts/election-ops/notification-service/domain/errors"

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

// SaveNotification appends one event. Events are immutable, so a duplicate
// id is a conflict, never an update.
func (r *Repository) SaveNotification(ctx context.Context, notification entities.Notification) error {
	row, err := notificationModelFromEntity(notification)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("notification_repo_save_failed", create.Error, "notification_id", row.ID)
	}
	return nil
}

func (r *Repository) GetNotification(ctx context.Context, notificationID string) (entities.Notification, error) {
	var row notificationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(notificationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Notification{}, domainerrors.ErrNotificationNotFound
		}
		return entities.Notification{}, r.logError("notification_repo_get_failed", err, "notification_id", strings.TrimSpace(notificationID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListUnclearedForUser(ctx context.Context, audience entities.Audience, userID string, limit int) ([]entities.Notification, error) {
	var rows []notificationModel
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Joins("LEFT JOIN notification_receipts ON notification_receipts.notification_id = notifications.id AND notification_receipts.user_id = ?", strings.TrimSpace(userID)).
		Where("notifications.audience = ? AND notification_receipts.cleared_at IS NULL", string(audience)).
		Order("notifications.created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("notification_repo_list_failed", err, "user_id", strings.TrimSpace(userID))
	}
	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// UpsertRead creates the receipt on first touch and sets read_at exactly
// once; a later call never overwrites the original instant.
func (r *Repository) UpsertRead(ctx context.Context, notificationID, userID string, at time.Time) error {
	stamped := at.UTC()
	row := receiptModel{
		NotificationID: strings.TrimSpace(notificationID),
		UserID:         strings.TrimSpace(userID),
		ReadAt:         &stamped,
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "notification_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"read_at": gorm.Expr("COALESCE(notification_receipts.read_at, EXCLUDED.read_at)"),
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("receipt_repo_upsert_read_failed", create.Error,
			"notification_id", row.NotificationID,
			"user_id", row.UserID,
		)
	}
	return nil
}

// UpsertClear sets read_at (if unset) and cleared_at in one atomic upsert.
// Both columns coalesce to their first value, making the clear terminal and
// the call idempotent.
func (r *Repository) UpsertClear(ctx context.Context, notificationID, userID string, at time.Time) error {
	stamped := at.UTC()
	row := receiptModel{
		NotificationID: strings.TrimSpace(notificationID),
		UserID:         strings.TrimSpace(userID),
		ReadAt:         &stamped,
		ClearedAt:      &stamped,
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "notification_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"read_at":    gorm.Expr("COALESCE(notification_receipts.read_at, EXCLUDED.read_at)"),
			"cleared_at": gorm.Expr("COALESCE(notification_receipts.cleared_at, EXCLUDED.cleared_at)"),
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("receipt_repo_upsert_clear_failed", create.Error,
			"notification_id", row.NotificationID,
			"user_id", row.UserID,
		)
	}
	return nil
}

func (r *Repository) GetReceipt(ctx context.Context, notificationID, userID string) (entities.Receipt, bool, error) {
	var row receiptModel
	err := r.db.WithContext(ctx).
		Where("notification_id = ? AND user_id = ?", strings.TrimSpace(notificationID), strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Receipt{}, false, nil
		}
		return entities.Receipt{}, false, r.logError("receipt_repo_get_failed", err,
			"notification_id", strings.TrimSpace(notificationID),
			"user_id", strings.TrimSpace(userID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListReceipts(ctx context.Context, userID string, notificationIDs []string) ([]entities.Receipt, error) {
	if len(notificationIDs) == 0 {
		return nil, nil
	}
	var rows []receiptModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND notification_id IN ?", strings.TrimSpace(userID), notificationIDs).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("receipt_repo_list_failed", err, "user_id", strings.TrimSpace(userID))
	}
	items := make([]entities.Receipt, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
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
		"module", "election-ops/notification-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("notification repository operation failed", fields...)
	return err
}

type notificationModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Type       string    `gorm:"column:type"`
	Title      string    `gorm:"column:title"`
	Message    string    `gorm:"column:message"`
	Audience   string    `gorm:"column:audience"`
	Scope      string    `gorm:"column:scope"`
	ScopeState string    `gorm:"column:scope_state"`
	ScopeLGA   string    `gorm:"column:scope_lga"`
	SessionID  *string   `gorm:"column:session_id"`
	Metadata   []byte    `gorm:"column:metadata"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(notification entities.Notification) (notificationModel, error) {
	row := notificationModel{
		ID:         strings.TrimSpace(notification.NotificationID),
		Type:       strings.TrimSpace(notification.Type),
		Title:      strings.TrimSpace(notification.Title),
		Message:    notification.Message,
		Audience:   string(notification.Audience),
		Scope:      string(notification.Scope),
		ScopeState: strings.TrimSpace(notification.ScopeState),
		ScopeLGA:   strings.TrimSpace(notification.ScopeLGA),
		CreatedAt:  notification.CreatedAt.UTC(),
	}
	if sessionID := strings.TrimSpace(notification.SessionID); sessionID != "" {
		row.SessionID = &sessionID
	}
	if len(notification.Metadata) > 0 {
		payload, err := json.Marshal(notification.Metadata)
		if err != nil {
			return notificationModel{}, err
		}
		row.Metadata = payload
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row, nil
}

func (m notificationModel) toEntity() entities.Notification {
	sessionID := ""
	if m.SessionID != nil {
		sessionID = strings.TrimSpace(*m.SessionID)
	}
	var metadata map[string]string
	if len(m.Metadata) > 0 {
		// Metadata is opaque; a malformed blob degrades to empty rather
		// than failing the read.
		_ = json.Unmarshal(m.Metadata, &metadata)
	}
	return entities.Notification{
		NotificationID: m.ID,
		Type:           m.Type,
		Title:          m.Title,
		Message:        m.Message,
		Audience:       entities.Audience(m.Audience),
		Scope:          eligibility.Scope(m.Scope),
		ScopeState:     m.ScopeState,
		ScopeLGA:       m.ScopeLGA,
		SessionID:      sessionID,
		Metadata:       metadata,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type receiptModel struct {
	NotificationID string     `gorm:"column:notification_id;primaryKey"`
	UserID         string     `gorm:"column:user_id;primaryKey"`
	ReadAt         *time.Time `gorm:"column:read_at"`
	ClearedAt      *time.Time `gorm:"column:cleared_at"`
}

func (receiptModel) TableName() string {
	return "notification_receipts"
}

func (m receiptModel) toEntity() entities.Receipt {
	return entities.Receipt{
		NotificationID: m.NotificationID,
		UserID:         m.UserID,
		ReadAt:         normalizeOptionalTime(m.ReadAt),
		ClearedAt:      normalizeOptionalTime(m.ClearedAt),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}
