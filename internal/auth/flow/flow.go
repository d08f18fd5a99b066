// Package flow implements the authentication flows: signup, password
// login, federated login and logout. Every successful login issues a
// bearer token and upserts the user's session row the same way.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/auth/credentials"
	"skill-auth-service/internal/auth/provider"
	"skill-auth-service/internal/auth/resolver"
	"skill-auth-service/internal/auth/token"
	"skill-auth-service/internal/events"
	"skill-auth-service/internal/logger"
	"skill-auth-service/internal/metrics"
	"skill-auth-service/internal/session"
	"skill-auth-service/internal/user"
)

// Flow names used in logs, metrics and events.
const (
	FlowSignup    = "signup"
	FlowPassword  = "password"
	FlowFederated = "federated"
	FlowLogout    = "logout"
)

// DefaultProvider is used when a federated login names no provider.
const DefaultProvider = "google"

const (
	MessageLoginSuccessful = "Login successful"
	MessageUserCreated     = "User created successfully"
)

// Result is the outcome of a successful login.
type Result struct {
	User      *user.User
	Token     string
	ExpiresAt time.Time
	// Created is true when the login created the user.
	Created bool
	Message string
}

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginInput struct {
	Email    string
	Password string
}

type Deps struct {
	Credentials *credentials.Service
	Resolver    resolver.Resolver
	Providers   *provider.Registry
	Tokens      *token.Service
	Sessions    session.Store
	// Denylist is optional. When set, logout revokes the presented token.
	Denylist session.Denylist
	Metrics  metrics.Recorder
	Events   events.Publisher
}

type Service struct {
	credentials *credentials.Service
	resolver    resolver.Resolver
	providers   *provider.Registry
	tokens      *token.Service
	sessions    session.Store
	denylist    session.Denylist
	metrics     metrics.Recorder
	events      events.Publisher
}

func NewService(d Deps) *Service {
	s := &Service{
		credentials: d.Credentials,
		resolver:    d.Resolver,
		providers:   d.Providers,
		tokens:      d.Tokens,
		sessions:    d.Sessions,
		denylist:    d.Denylist,
		metrics:     d.Metrics,
		events:      d.Events,
	}
	if s.metrics == nil {
		s.metrics = metrics.Nop{}
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	return s
}

// Signup registers a password user. No token is issued.
func (s *Service) Signup(ctx context.Context, in SignupInput) (u *user.User, err error) {
	defer s.observe(FlowSignup, time.Now(), &err)

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)

	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", auth.ErrValidation)
	}

	u, err = s.credentials.Register(ctx, credentials.Registration{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.SubjectUserCreated, u, FlowSignup)
	return u, nil
}

// Login authenticates email and password, issues a token and records
// the session.
func (s *Service) Login(ctx context.Context, in LoginInput) (res *Result, err error) {
	defer s.observe(FlowPassword, time.Now(), &err)

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", auth.ErrValidation)
	}

	u, err := s.credentials.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, FlowPassword, u, false)
}

// FederatedLogin verifies a provider-issued assertion and logs the
// matching user in, creating the user on first login.
func (s *Service) FederatedLogin(ctx context.Context, providerName string, rawAssertion string) (res *Result, err error) {
	defer s.observe(FlowFederated, time.Now(), &err)

	if strings.TrimSpace(rawAssertion) == "" {
		return nil, fmt.Errorf("%w: token is required", auth.ErrValidation)
	}
	if providerName == "" {
		providerName = DefaultProvider
	}

	p, err := s.providers.Get(providerName)
	if err != nil {
		return nil, err
	}

	identity, err := p.VerifyAssertion(ctx, rawAssertion)
	if err != nil {
		return nil, err
	}

	return s.completeFederated(ctx, identity)
}

// CompleteFederated logs in an identity already verified by a provider,
// as returned from the authorization code flow.
func (s *Service) CompleteFederated(ctx context.Context, identity *auth.Identity) (res *Result, err error) {
	defer s.observe(FlowFederated, time.Now(), &err)
	return s.completeFederated(ctx, identity)
}

func (s *Service) completeFederated(ctx context.Context, identity *auth.Identity) (*Result, error) {
	if identity == nil {
		return nil, fmt.Errorf("%w: no identity", auth.ErrInvalidAssertion)
	}
	if !identity.EmailVerified {
		return nil, auth.ErrEmailNotVerified
	}

	u, created, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	if created {
		s.publish(ctx, events.SubjectUserCreated, u, FlowFederated)
	}

	return s.startSession(ctx, FlowFederated, u, created)
}

// Logout tears down the session of the presented token. A missing or
// untrusted token has nothing to tear down and is not an error.
func (s *Service) Logout(ctx context.Context, rawToken string) (err error) {
	defer s.observe(FlowLogout, time.Now(), &err)

	if rawToken == "" {
		return nil
	}

	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, claims.UserID, rawToken); err != nil {
		return fmt.Errorf("%w: delete session: %w", auth.ErrStore, err)
	}

	if s.denylist != nil {
		if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("%w: revoke token: %w", auth.ErrStore, err)
		}
	}

	logger.Info("logout", map[string]any{
		"user_id": claims.UserID,
	})

	return nil
}

func (s *Service) startSession(ctx context.Context, flow string, u *user.User, created bool) (*Result, error) {
	raw, claims, err := s.tokens.Issue(token.Subject{ID: u.ID, Email: u.Email})
	if err != nil {
		return nil, err
	}
	expiresAt := claims.ExpiresAt.Time

	if err := s.sessions.Upsert(ctx, session.Session{
		UserID:    u.ID,
		Token:     raw,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, fmt.Errorf("%w: upsert session: %w", auth.ErrStore, err)
	}

	s.metrics.RecordTokenIssued(flow)
	s.publish(ctx, events.SubjectUserLoggedIn, u, flow)

	msg := MessageLoginSuccessful
	if created {
		msg = MessageUserCreated
	}

	return &Result{
		User:      u,
		Token:     raw,
		ExpiresAt: expiresAt,
		Created:   created,
		Message:   msg,
	}, nil
}

func (s *Service) publish(ctx context.Context, subject string, u *user.User, flow string) {
	err := s.events.Publish(ctx, subject, events.UserEvent{
		UserID: u.ID,
		Email:  u.Email,
		Flow:   flow,
	})
	if err != nil {
		logger.Warn("event publish failed", map[string]any{
			"subject": subject,
			"error":   err.Error(),
		})
	}
}

func (s *Service) observe(flow string, start time.Time, errp *error) {
	s.metrics.RecordFlowLatency(flow, time.Since(start))

	if *errp == nil {
		s.metrics.RecordAttempt(flow, metrics.OutcomeSuccess, "")
		return
	}
	s.metrics.RecordAttempt(flow, metrics.OutcomeFailure, Reason(*errp))
}

// Reason maps an error to a short metrics and log label.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, auth.ErrValidation):
		return "validation"
	case errors.Is(err, auth.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, auth.ErrEmailNotVerified):
		return "email_not_verified"
	case errors.Is(err, auth.ErrInvalidAssertion):
		return "invalid_assertion"
	case errors.Is(err, auth.ErrStore):
		return "store"
	default:
		return "internal"
	}
}
