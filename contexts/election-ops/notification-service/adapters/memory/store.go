package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"electra/contexts/election-ops/eligibility"
	"electra/contexts/election-ops/notification-service/domain/entities"
	domainerrors "electra/contexts/election-ops/notification-service/domain/errors"

	"github.com/google/uuid"
)

type receiptKey struct {
	notificationID string
	userID         string
}

// Store is the in-memory backing used by tests and local wiring. It
// implements ports.NotificationRepository, ports.ReceiptRepository,
// ports.VoterDirectory, ports.SessionCatalog, eligibility.WhitelistChecker,
// ports.Clock and ports.IDGenerator.
type Store struct {
	mu            sync.RWMutex
	notifications map[string]entities.Notification
	receipts      map[receiptKey]entities.Receipt
	voters        map[string]eligibility.Voter
	sessions      map[string]eligibility.Rules
	whitelist     map[string]struct{}
	now           time.Time
}

func NewStore(seed []entities.Notification) *Store {
	notifications := make(map[string]entities.Notification, len(seed))
	for _, notification := range seed {
		notifications[notification.NotificationID] = notification
	}
	return &Store{
		notifications: notifications,
		receipts:      make(map[receiptKey]entities.Receipt),
		voters:        make(map[string]eligibility.Voter),
		sessions:      make(map[string]eligibility.Rules),
		whitelist:     make(map[string]struct{}),
	}
}

// SetNow pins the store clock; zero means wall clock.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) SetVoter(voter eligibility.Voter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[strings.TrimSpace(voter.VoterID)] = voter
}

func (s *Store) SetSessionRules(rules eligibility.Rules) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[strings.TrimSpace(rules.SessionID)] = rules
}

func (s *Store) AddToWhitelist(values ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value != "" {
			s.whitelist[value] = struct{}{}
		}
	}
}

func (s *Store) SaveNotification(_ context.Context, notification entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.notifications[notification.NotificationID]; exists {
		return domainerrors.ErrConflict
	}
	s.notifications[notification.NotificationID] = notification
	return nil
}

func (s *Store) GetNotification(_ context.Context, notificationID string) (entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notification, ok := s.notifications[strings.TrimSpace(notificationID)]
	if !ok {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	return notification, nil
}

func (s *Store) ListUnclearedForUser(_ context.Context, audience entities.Audience, userID string, limit int) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID = strings.TrimSpace(userID)
	items := make([]entities.Notification, 0, len(s.notifications))
	for _, notification := range s.notifications {
		if notification.Audience != audience {
			continue
		}
		receipt, ok := s.receipts[receiptKey{notification.NotificationID, userID}]
		if ok && receipt.Cleared() {
			continue
		}
		items = append(items, notification)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) UpsertRead(_ context.Context, notificationID, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := receiptKey{strings.TrimSpace(notificationID), strings.TrimSpace(userID)}
	receipt := s.receipts[key]
	receipt.NotificationID = key.notificationID
	receipt.UserID = key.userID
	if receipt.ReadAt == nil {
		stamped := at.UTC()
		receipt.ReadAt = &stamped
	}
	s.receipts[key] = receipt
	return nil
}

func (s *Store) UpsertClear(_ context.Context, notificationID, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := receiptKey{strings.TrimSpace(notificationID), strings.TrimSpace(userID)}
	receipt := s.receipts[key]
	receipt.NotificationID = key.notificationID
	receipt.UserID = key.userID
	stamped := at.UTC()
	if receipt.ReadAt == nil {
		receipt.ReadAt = &stamped
	}
	if receipt.ClearedAt == nil {
		receipt.ClearedAt = &stamped
	}
	s.receipts[key] = receipt
	return nil
}

func (s *Store) GetReceipt(_ context.Context, notificationID, userID string) (entities.Receipt, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	receipt, ok := s.receipts[receiptKey{strings.TrimSpace(notificationID), strings.TrimSpace(userID)}]
	return receipt, ok, nil
}

func (s *Store) ListReceipts(_ context.Context, userID string, notificationIDs []string) ([]entities.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID = strings.TrimSpace(userID)
	items := make([]entities.Receipt, 0, len(notificationIDs))
	for _, notificationID := range notificationIDs {
		if receipt, ok := s.receipts[receiptKey{notificationID, userID}]; ok {
			items = append(items, receipt)
		}
	}
	return items, nil
}

// ReceiptCount reports how many receipt rows exist; test helper.
func (s *Store) ReceiptCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.receipts)
}

func (s *Store) GetVoter(_ context.Context, userID string) (eligibility.Voter, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voter, ok := s.voters[strings.TrimSpace(userID)]
	return voter, ok, nil
}

func (s *Store) ListEmailRecipients(_ context.Context) ([]eligibility.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]eligibility.Voter, 0, len(s.voters))
	for _, voter := range s.voters {
		if voter.Status == eligibility.VoterStatusActive && voter.EmailVerified && strings.TrimSpace(voter.Email) != "" {
			items = append(items, voter)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].VoterID < items[j].VoterID
	})
	return items, nil
}

func (s *Store) GetSessionRules(_ context.Context, sessionID string) (eligibility.Rules, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules, ok := s.sessions[strings.TrimSpace(sessionID)]
	return rules, ok, nil
}

func (s *Store) Contains(_ context.Context, email, nationalID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		if _, ok := s.whitelist[email]; ok {
			return true, nil
		}
	}
	if nationalID = strings.ToLower(strings.TrimSpace(nationalID)); nationalID != "" {
		if _, ok := s.whitelist[nationalID]; ok {
			return true, nil
		}
	}
	return false, nil
}
