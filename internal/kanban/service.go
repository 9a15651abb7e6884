package kanban

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rezzai/jobsearch/internal/events"
	"rezzai/jobsearch/internal/model"
	"rezzai/jobsearch/internal/store"
)

// DefaultResume is recorded when the caller does not name the resume sent.
const DefaultResume = "Default Resume"

// Repository is the part of store.Store the tracker needs.
type Repository interface {
	CreateApplication(ctx context.Context, a model.Application) (*model.Application, error)
	ListApplications(ctx context.Context, userID string) ([]model.Application, error)
	GetApplication(ctx context.Context, userID, id string) (*model.Application, error)
	UpdateApplicationStatus(ctx context.Context, userID, id string, change model.StatusChange) (*model.Application, error)
	DeleteApplication(ctx context.Context, userID, id string) error
}

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates the tracker business logic. It has no dependency on
// a transport; the HTTP handler and the gRPC server both call it.
type Service struct {
	repo Repository
	pub  events.Publisher
	now  func() time.Time
}

// NewService returns a configured Service. pub may be nil.
func NewService(repo Repository, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{repo: repo, pub: pub, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// NewApplication is the caller-supplied part of an application.
type NewApplication struct {
	JobID      string `json:"jobId"`
	Company    string `json:"company"`
	JobTitle   string `json:"jobTitle"`
	JobURL     string `json:"jobUrl"`
	Location   string `json:"location"`
	ResumeUsed string `json:"resumeUsed"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

// ─── Business logic ───────────────────────────────────────────────────────────

// Create starts tracking a job. Status defaults to Pending and the resume
// to DefaultResume. Returns ErrDuplicate when the user already tracks the job.
func (s *Service) Create(ctx context.Context, userID string, in NewApplication) (*model.Application, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Msg: "missing user id"}
	}
	in.JobID = strings.TrimSpace(in.JobID)
	in.Company = strings.TrimSpace(in.Company)
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	if in.JobID == "" || in.Company == "" || in.JobTitle == "" {
		return nil, &ValidationError{Msg: "missing required fields: jobId, company and jobTitle are required"}
	}

	status := StatusPending
	if in.Status != "" {
		st, err := ParseStatus(in.Status)
		if err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
		status = st
	}
	resume := strings.TrimSpace(in.ResumeUsed)
	if resume == "" {
		resume = DefaultResume
	}

	now := s.now()
	app, err := s.repo.CreateApplication(ctx, model.Application{
		UserID:     userID,
		JobID:      in.JobID,
		Company:    in.Company,
		JobTitle:   in.JobTitle,
		JobURL:     in.JobURL,
		Location:   in.Location,
		ResumeUsed: resume,
		Status:     string(status),
		Notes:      in.Notes,
		History:    []model.StatusChange{},
		AppliedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.pub.Publish(ctx, events.ApplicationCreated, map[string]any{
		"applicationId": app.ID,
		"userId":        userID,
		"jobId":         app.JobID,
		"status":        app.Status,
	}); err != nil {
		slog.Warn("publish EVENT_APPLICATION_CREATED failed", "err", err)
	}
	return app, nil
}

// List returns all applications for the user, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]model.Application, error) {
	apps, err := s.repo.ListApplications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// Get returns one application, validating ownership.
func (s *Service) Get(ctx context.Context, userID, id string) (*model.Application, error) {
	return s.repo.GetApplication(ctx, userID, id)
}

// UpdateStatus moves an application to a new column.
// Returns ErrNotFound if the application does not exist or belong to userID,
// a *ValidationError if the status is unknown or the move is not allowed, and
// ErrConflict if the status changed after it was checked.
func (s *Service) UpdateStatus(ctx context.Context, userID, id, newStatusStr string) (*model.Application, error) {
	newStatus, err := ParseStatus(newStatusStr)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	current, err := s.repo.GetApplication(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	currentStatus, _ := ParseStatus(current.Status)
	if !IsTransitionAllowed(currentStatus, newStatus) {
		return nil, &ValidationError{
			Msg: fmt.Sprintf("transition %s → %s is not allowed", current.Status, newStatus),
		}
	}

	app, err := s.repo.UpdateApplicationStatus(ctx, userID, id, model.StatusChange{
		From: current.Status,
		To:   string(newStatus),
		At:   s.now(),
	})
	if err != nil {
		return nil, err
	}

	// Publish board event (non-fatal)
	if err := s.pub.Publish(ctx, events.ApplicationMoved, map[string]any{
		"applicationId": id,
		"userId":        userID,
		"from":          current.Status,
		"to":            string(newStatus),
	}); err != nil {
		slog.Warn("publish EVENT_APPLICATION_MOVED failed", "err", err)
	}

	return app, nil
}

// Delete stops tracking an application.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteApplication(ctx, userID, id)
}

// ─── Errors ──────────────────────────────────────────────────────────────────

var (
	// ErrNotFound is returned when an application is missing or does not belong to the user.
	ErrNotFound = store.ErrNotFound
	// ErrDuplicate is returned when the user already tracks the job.
	ErrDuplicate = store.ErrDuplicate
	// ErrConflict is returned when another move landed between the check
	// and the update.
	ErrConflict = store.ErrConflict
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
