package service

import (
	"context"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/queue"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
)

// GuidanceService manages guidance sessions and the submissions and comments
// exchanged in them.
type GuidanceService struct {
	theses      *repository.ThesisRepo
	sessions    *repository.GuidanceSessionRepo
	submissions *repository.SubmissionRepo
	comments    *repository.CommentRepo
	pub         EventPublisher
	log         *zap.SugaredLogger
}

func NewGuidanceService(theses *repository.ThesisRepo, sessions *repository.GuidanceSessionRepo,
	submissions *repository.SubmissionRepo, comments *repository.CommentRepo,
	pub EventPublisher, log *zap.SugaredLogger) *GuidanceService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &GuidanceService{theses: theses, sessions: sessions, submissions: submissions, comments: comments, pub: pub, log: log}
}

type SessionInput struct {
	ThesisID    uint64
	SessionDate time.Time // zero means now
	Notes       null.String
}

func (s *GuidanceService) CreateSession(ctx context.Context, in SessionInput) (*model.GuidanceSession, error) {
	ok, err := s.theses.Exists(ctx, in.ThesisID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.NewError(repository.ErrNotFound, "thesis not found")
	}
	g := &model.GuidanceSession{ThesisID: in.ThesisID, SessionDate: in.SessionDate, Notes: in.Notes}
	if err := s.sessions.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateNotes replaces the session notes verbatim; an invalid notes value
// clears them.
func (s *GuidanceService) UpdateNotes(ctx context.Context, id uint64, notes null.String) (*model.GuidanceSession, error) {
	g, err := s.sessions.UpdateNotes(ctx, id, notes)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, repository.NewError(repository.ErrNotFound, "guidance session not found")
	}
	return g, nil
}

func (s *GuidanceService) GetSession(ctx context.Context, id uint64) (*model.GuidanceSession, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *GuidanceService) SessionsByThesis(ctx context.Context, thesisID uint64) ([]model.GuidanceSession, error) {
	return s.sessions.ListByThesis(ctx, thesisID)
}

func (s *GuidanceService) DeleteSession(ctx context.Context, id uint64) (bool, error) {
	return s.sessions.Delete(ctx, id)
}

// CreateSubmission stores file metadata. References are left to the store,
// whose rejection surfaces as ErrReferentialIntegrity.
func (s *GuidanceService) CreateSubmission(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, err
	}
	id := sub.ID
	notify(ctx, s.pub, s.log, queue.NotificationEvent{
		Type:              queue.EventSubmissionCreated,
		GuidanceSessionID: sub.GuidanceSessionID,
		ThesisID:          s.thesisOf(ctx, sub.GuidanceSessionID),
		ActorID:           sub.UploadedBy,
		SubmissionID:      &id,
		Summary:           fmt.Sprintf("%s uploaded (%d bytes)", sub.FileName, sub.FileSize),
		OccurredAt:        sub.CreatedAt.Format(time.RFC3339),
	})
	return sub, nil
}

func (s *GuidanceService) GetSubmission(ctx context.Context, id uint64) (*model.Submission, error) {
	return s.submissions.GetByID(ctx, id)
}

func (s *GuidanceService) SubmissionsBySession(ctx context.Context, sessionID uint64) ([]model.Submission, error) {
	return s.submissions.ListBySession(ctx, sessionID)
}

func (s *GuidanceService) DeleteSubmission(ctx context.Context, id uint64) (bool, error) {
	return s.submissions.Delete(ctx, id)
}

// CreateComment checks the session and, when given, that the submission
// exists in that same session before writing.
func (s *GuidanceService) CreateComment(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	g, err := s.sessions.GetByID(ctx, c.GuidanceSessionID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, repository.NewError(repository.ErrNotFound, "guidance session not found")
	}
	if c.SubmissionID.Valid {
		sub, err := s.submissions.GetByID(ctx, c.SubmissionID.Uint64)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, repository.NewError(repository.ErrNotFound, "submission not found")
		}
		if sub.GuidanceSessionID != c.GuidanceSessionID {
			return nil, repository.NewError(repository.ErrInvalidState, "submission %d belongs to another guidance session", sub.ID)
		}
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}

	ev := queue.NotificationEvent{
		Type:              queue.EventCommentCreated,
		GuidanceSessionID: c.GuidanceSessionID,
		ThesisID:          g.ThesisID,
		ActorID:           c.SenderID,
		CommentID:         &c.ID,
		Summary:           truncate(c.Content, 120),
		OccurredAt:        c.CreatedAt.Format(time.RFC3339),
	}
	if c.ReceiverID.Valid {
		ev.RecipientID = &c.ReceiverID.Uint64
	}
	if c.SubmissionID.Valid {
		ev.SubmissionID = &c.SubmissionID.Uint64
	}
	notify(ctx, s.pub, s.log, ev)
	return c, nil
}

func (s *GuidanceService) GetComment(ctx context.Context, id uint64) (*model.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

func (s *GuidanceService) CommentsBySession(ctx context.Context, sessionID uint64) ([]model.Comment, error) {
	return s.comments.ListBySession(ctx, sessionID)
}

func (s *GuidanceService) CommentsBySubmission(ctx context.Context, submissionID uint64) ([]model.Comment, error) {
	return s.comments.ListBySubmission(ctx, submissionID)
}

func (s *GuidanceService) DeleteComment(ctx context.Context, id uint64) (bool, error) {
	return s.comments.Delete(ctx, id)
}

// thesisOf is best effort; the event is still useful without the thesis id.
func (s *GuidanceService) thesisOf(ctx context.Context, sessionID uint64) uint64 {
	g, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil || g == nil {
		return 0
	}
	return g.ThesisID
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
