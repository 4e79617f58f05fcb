package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"electra/contexts/election-ops/eligibility"
	application "electra/contexts/election-ops/notification-service/application"
	"electra/contexts/election-ops/notification-service/ports"
)

// LifecycleEmailUseCase resolves the recipient pool for one lifecycle
// transition and sends a templated message. Recipients are active profiles
// with a verified email whose location the session's scope covers,
// deduplicated by address. Recipient selection runs against current profile
// state, not notification history.
type LifecycleEmailUseCase struct {
	Directory ports.VoterDirectory
	Mailer    ports.Mailer
	BatchSize int
	Logger    *slog.Logger
}

func (uc *LifecycleEmailUseCase) SendSessionEmail(ctx context.Context, ann ports.SessionAnnouncement, subject, body string) error {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Mailer == nil || uc.Directory == nil {
		return nil
	}

	voters, err := uc.Directory.ListEmailRecipients(ctx)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(voters))
	recipients := make([]string, 0, len(voters))
	for _, voter := range voters {
		if voter.Status != eligibility.VoterStatusActive || !voter.EmailVerified {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(voter.Email))
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		actor := eligibility.Location{State: voter.State, LGA: voter.LGA}
		if !eligibility.Matches(ann.Scope, ann.ScopeState, ann.ScopeLGA, actor) {
			continue
		}
		seen[email] = struct{}{}
		recipients = append(recipients, email)
	}
	if len(recipients) == 0 {
		return nil
	}

	html := fmt.Sprintf("<p>%s</p>", body)
	batch := uc.BatchSize
	if batch <= 0 {
		batch = 50
	}
	for start := 0; start < len(recipients); start += batch {
		end := start + batch
		if end > len(recipients) {
			end = len(recipients)
		}
		if err := uc.Mailer.Send(ctx, recipients[start:end], subject, html); err != nil {
			return err
		}
	}

	logger.Info("lifecycle email sent",
		"event", "lifecycle_email_sent",
		"module", "election-ops/notification-service",
		"layer", "application",
		"session_id", ann.SessionID,
		"transition", ann.Transition,
		"recipient_count", len(recipients),
	)
	return nil
}
