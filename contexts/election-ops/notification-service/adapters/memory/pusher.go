package memory

import (
	"context"
	"sync"
)

// Push captures one delivery attempt observed by CapturePusher. An empty
// UserID means a broadcast.
type Push struct {
	UserID  string
	Payload any
}

// CapturePusher records pushes instead of delivering them. Fail, if set, is
// returned from every call so tests can prove push failures stay advisory.
type CapturePusher struct {
	mu     sync.Mutex
	pushes []Push
	Fail   error
}

func (p *CapturePusher) PushToUser(userID string, payload any) error {
	if p.Fail != nil {
		return p.Fail
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, Push{UserID: userID, Payload: payload})
	return nil
}

func (p *CapturePusher) Broadcast(payload any) error {
	if p.Fail != nil {
		return p.Fail
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, Push{Payload: payload})
	return nil
}

func (p *CapturePusher) Pushes() []Push {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Push(nil), p.pushes...)
}

// Mail captures one mailer call observed by CaptureMailer.
type Mail struct {
	To      []string
	Subject string
	HTML    string
}

// CaptureMailer records outgoing mail instead of sending it.
type CaptureMailer struct {
	mu    sync.Mutex
	mails []Mail
	Fail  error
}

func (m *CaptureMailer) Send(_ context.Context, to []string, subject, html string) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mails = append(m.mails, Mail{
		To:      append([]string(nil), to...),
		Subject: subject,
		HTML:    html,
	})
	return nil
}

func (m *CaptureMailer) Mails() []Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Mail(nil), m.mails...)
}
