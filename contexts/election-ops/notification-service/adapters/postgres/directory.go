package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"electra/contexts/election-ops/eligibility"

	"gorm.io/gorm"
)

// Directory reads voter profiles for inbox filtering and bulk email. It
// implements ports.VoterDirectory and eligibility.WhitelistChecker against
// the registration service's tables, which this side treats as read-only.
type Directory struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewDirectory(db *gorm.DB, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		db:     db,
		logger: logger,
	}
}

func (d *Directory) GetVoter(ctx context.Context, userID string) (eligibility.Voter, bool, error) {
	var row voterModel
	err := d.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return eligibility.Voter{}, false, nil
		}
		return eligibility.Voter{}, false, d.logError("voter_directory_get_failed", err, "user_id", strings.TrimSpace(userID))
	}
	return row.toEntity(), true, nil
}

func (d *Directory) ListEmailRecipients(ctx context.Context) ([]eligibility.Voter, error) {
	var rows []voterModel
	err := d.db.WithContext(ctx).
		Where("status = ? AND email_verified = true AND email <> ''", string(eligibility.VoterStatusActive)).
		Find(&rows).
		Error
	if err != nil {
		return nil, d.logError("voter_directory_list_recipients_failed", err)
	}
	items := make([]eligibility.Voter, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// Contains answers the whitelist check by email or national id.
func (d *Directory) Contains(ctx context.Context, email, nationalID string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	nationalID = strings.TrimSpace(nationalID)
	if email == "" && nationalID == "" {
		return false, nil
	}

	query := d.db.WithContext(ctx).Model(&whitelistModel{})
	switch {
	case email != "" && nationalID != "":
		query = query.Where("LOWER(email) = ? OR national_id = ?", email, nationalID)
	case email != "":
		query = query.Where("LOWER(email) = ?", email)
	default:
		query = query.Where("national_id = ?", nationalID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, d.logError("voter_directory_whitelist_failed", err)
	}
	return count > 0, nil
}

func (d *Directory) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-ops/notification-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	d.logger.Error("voter directory operation failed", fields...)
	return err
}

type voterModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	DateOfBirth   *time.Time `gorm:"column:date_of_birth"`
	State         string     `gorm:"column:state"`
	LGA           string     `gorm:"column:lga"`
	Status        string     `gorm:"column:status"`
	Email         string     `gorm:"column:email"`
	NationalID    string     `gorm:"column:national_id"`
	EmailVerified bool       `gorm:"column:email_verified"`
}

func (voterModel) TableName() string {
	return "voters"
}

func (m voterModel) toEntity() eligibility.Voter {
	return eligibility.Voter{
		VoterID:       m.ID,
		DateOfBirth:   m.DateOfBirth,
		State:         m.State,
		LGA:           m.LGA,
		Status:        eligibility.VoterStatus(m.Status),
		Email:         m.Email,
		NationalID:    m.NationalID,
		EmailVerified: m.EmailVerified,
	}
}

type whitelistModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	Email      string `gorm:"column:email"`
	NationalID string `gorm:"column:national_id"`
}

func (whitelistModel) TableName() string {
	return "eligible_voters"
}
