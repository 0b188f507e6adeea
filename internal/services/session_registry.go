package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// SessionRegistryImpl implements domain.SessionRegistry
type SessionRegistryImpl struct {
	sessionRepo domain.SessionRepository
	audit       *auditDispatcher
	notifier    domain.NotificationService
	alertTo     string
	log         *logrus.Logger
	now         func() time.Time
}

// NewSessionRegistry creates a new session registry. notifier and alertTo are
// optional; when set, IP drift warnings are also pushed out of band.
func NewSessionRegistry(sessionRepo domain.SessionRepository, sink domain.AuditSink, notifier domain.NotificationService, alertTo string, log *logrus.Logger) domain.SessionRegistry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SessionRegistryImpl{
		sessionRepo: sessionRepo,
		audit:       newAuditDispatcher(sink, log),
		notifier:    notifier,
		alertTo:     alertTo,
		log:         log,
		now:         time.Now,
	}
}

// CreateSession implements domain.SessionRegistry. Existing active sessions
// are terminated before the new one is created; if that termination fails the
// login fails and no session is inserted.
func (s *SessionRegistryImpl) CreateSession(ctx context.Context, accountID uint, ip, userAgent string, displacedReason domain.TerminationReason) (*domain.Session, error) {
	now := s.now().UTC()
	session := &domain.Session{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		IPAddress:      ip,
		UserAgent:      userAgent,
		IsActive:       true,
		LastActivityAt: now,
		CreatedAt:      now,
	}

	displaced, err := s.sessionRepo.ReplaceActive(ctx, session, displacedReason)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if displaced > 0 {
		s.audit.dispatch(domain.NewAuditEvent(domain.AuditSessionTerminated).
			WithActor(accountID).
			WithResource("session", session.ID).
			WithOrigin(ip, userAgent).
			WithDetail(fmt.Sprintf("displaced %d prior session(s), reason %s", displaced, domain.NormalizeTerminationReason(displacedReason))))
	}

	return session, nil
}

// TouchActivity implements domain.SessionRegistry. IP drift is recorded and
// flagged for forensics; it never blocks the request.
func (s *SessionRegistryImpl) TouchActivity(ctx context.Context, sessionID, currentIP string) (*domain.Session, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, domain.ErrSessionRevoked
	}

	now := s.now().UTC()
	session.LastActivityAt = now

	if currentIP != "" && currentIP != session.IPAddress {
		session.PreviousIP = session.IPAddress
		session.IPAddress = currentIP
		session.IPChanged = true
		session.IPChangedAt = &now

		s.audit.dispatch(domain.NewAuditEvent(domain.AuditSessionIPChanged).
			WithOutcome(domain.OutcomeWarning).
			WithActor(session.AccountID).
			WithResource("session", session.ID).
			WithOrigin(currentIP, session.UserAgent).
			WithDetail(fmt.Sprintf("ip changed from %s to %s", session.PreviousIP, currentIP)))

		s.alertIPChange(session)
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session activity: %w", err)
	}
	return session, nil
}

// Terminate implements domain.SessionRegistry
func (s *SessionRegistryImpl) Terminate(ctx context.Context, sessionID string, reason domain.TerminationReason, actorIP string) error {
	reason = domain.NormalizeTerminationReason(reason)
	if err := s.sessionRepo.MarkTerminated(ctx, sessionID, reason, s.now().UTC()); err != nil {
		return err
	}

	s.audit.dispatch(domain.NewAuditEvent(domain.AuditSessionTerminated).
		WithResource("session", sessionID).
		WithOrigin(actorIP, "").
		WithDetail(string(reason)))
	return nil
}

// TerminateAll implements domain.SessionRegistry. Sessions are terminated one
// by one so a failure on one does not block the others; the count of sessions
// actually terminated is returned.
func (s *SessionRegistryImpl) TerminateAll(ctx context.Context, accountID uint, reason domain.TerminationReason, actorIP string) (int, error) {
	reason = domain.NormalizeTerminationReason(reason)

	sessions, err := s.sessionRepo.FindActiveByAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to list active sessions: %w", err)
	}

	terminated := 0
	now := s.now().UTC()
	for _, session := range sessions {
		if err := s.sessionRepo.MarkTerminated(ctx, session.ID, reason, now); err != nil {
			s.log.WithFields(logrus.Fields{
				"session_id": session.ID,
				"account_id": accountID,
			}).WithError(err).Error("failed to terminate session")
			continue
		}
		terminated++
	}

	if terminated > 0 {
		s.audit.dispatch(domain.NewAuditEvent(domain.AuditSessionTerminated).
			WithActor(accountID).
			WithResource("account", strconv.FormatUint(uint64(accountID), 10)).
			WithOrigin(actorIP, "").
			WithDetail(fmt.Sprintf("terminated %d session(s), reason %s", terminated, reason)))
	}

	return terminated, nil
}

// SweepIdle implements domain.SessionRegistry. Background maintenance only:
// idle sessions are evicted lazily here, not rejected mid-request.
func (s *SessionRegistryImpl) SweepIdle(ctx context.Context, idleThreshold time.Duration) (int, error) {
	cutoff := s.now().UTC().Add(-idleThreshold)
	sessions, err := s.sessionRepo.FindActiveIdleSince(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list idle sessions: %w", err)
	}

	swept := 0
	now := s.now().UTC()
	for _, session := range sessions {
		if err := s.sessionRepo.MarkTerminated(ctx, session.ID, domain.ReasonTimeout, now); err != nil {
			s.log.WithField("session_id", session.ID).WithError(err).Error("failed to sweep idle session")
			continue
		}
		swept++
	}

	if swept > 0 {
		s.audit.dispatch(domain.NewAuditEvent(domain.AuditSessionSweep).
			WithResource("sessions", strconv.Itoa(swept)).
			WithDetail(fmt.Sprintf("idle threshold %s", idleThreshold)))
	}

	return swept, nil
}

// FindActive implements domain.SessionRegistry
func (s *SessionRegistryImpl) FindActive(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, domain.ErrSessionRevoked
	}
	return session, nil
}

// alertIPChange pushes a best-effort out-of-band warning. Same rules as
// audit: failures are logged and swallowed.
func (s *SessionRegistryImpl) alertIPChange(session *domain.Session) {
	if s.notifier == nil || s.alertTo == "" {
		return
	}
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Errorf("ip change alert panic: %v", rec)
			}
		}()
		msg := fmt.Sprintf("Session %s (account %d) changed IP from %s to %s",
			session.ID, session.AccountID, session.PreviousIP, session.IPAddress)
		if err := s.notifier.SendSMS(s.alertTo, msg); err != nil {
			s.log.WithError(err).Warn("ip change alert failed")
		}
	}()
}
