package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/queue"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/testutil/testdb"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/utils"
)

// fastArgon keeps hashing cheap in tests.
var fastArgon = utils.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.NotificationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Events() []queue.NotificationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.NotificationEvent(nil), p.events...)
}

type env struct {
	auth     *AuthService
	profiles *ProfileService
	theses   *ThesisService
	guidance *GuidanceService
	pub      *recordingPublisher
	issuer   *utils.TokenIssuer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testdb.SQLite(t)
	log := zap.NewNop().Sugar()

	users := repository.NewUserRepo(db)
	students := repository.NewStudentRepo(db)
	lecturers := repository.NewLecturerRepo(db)
	theses := repository.NewThesisRepo(db)
	pub := &recordingPublisher{}
	issuer := utils.NewTokenIssuer("test-secret", time.Hour)

	return &env{
		auth:     NewAuthService(users, repository.NewTokenRepo(db), issuer, fastArgon, log),
		profiles: NewProfileService(users, students, lecturers),
		theses:   NewThesisService(students, lecturers, theses),
		guidance: NewGuidanceService(theses, repository.NewGuidanceSessionRepo(db),
			repository.NewSubmissionRepo(db), repository.NewCommentRepo(db), pub, log),
		pub:    pub,
		issuer: issuer,
	}
}

func (e *env) register(t *testing.T, username string, role model.Role) *model.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username, Email: username + "@campus.test", Password: "s3cret-pass", Role: role,
	})
	require.NoError(t, err)
	return u
}

func (e *env) student(t *testing.T, username, nim string) *model.Student {
	t.Helper()
	u := e.register(t, username, model.RoleStudent)
	s, err := e.profiles.CreateStudent(context.Background(), StudentInput{UserID: u.ID, StudentID: nim, FullName: username})
	require.NoError(t, err)
	return s
}

func (e *env) lecturer(t *testing.T, username, nidn string) *model.Lecturer {
	t.Helper()
	u := e.register(t, username, model.RoleLecturer)
	l, err := e.profiles.CreateLecturer(context.Background(), LecturerInput{UserID: u.ID, LecturerID: nidn, FullName: "Dr. " + username})
	require.NoError(t, err)
	return l
}
