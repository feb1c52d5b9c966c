package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	vo "nmqueue/internal/domain/person/valueobjects"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/logger"
)

type fakeSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

func (f *fakeSender) Send(to []string, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type stubPersonRepo struct {
	person.Repository
	byID map[uint]*person.Person
}

func (s *stubPersonRepo) GetByID(ctx context.Context, id uint) (*person.Person, error) {
	return s.byID[id], nil
}

type stubProcessRepo struct {
	process.Repository
	byID map[uint]*process.Process
}

func (s *stubProcessRepo) GetByID(ctx context.Context, id uint) (*process.Process, error) {
	return s.byID[id], nil
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)           {}
func (noopLogger) Info(msg string, args ...any)            {}
func (noopLogger) Warn(msg string, args ...any)            {}
func (noopLogger) Error(msg string, args ...any)           {}
func (noopLogger) With(args ...any) logger.Interface       { return noopLogger{} }
func (noopLogger) Named(name string) logger.Interface      { return noopLogger{} }
func (noopLogger) Debugw(msg string, keysAndValues ...any) {}
func (noopLogger) Infow(msg string, keysAndValues ...any)  {}
func (noopLogger) Warnw(msg string, keysAndValues ...any)  {}
func (noopLogger) Errorw(msg string, keysAndValues ...any) {}

func notifierFixture(t *testing.T) (*TransitionNotifier, *fakeSender) {
	t.Helper()

	cn, err := vo.NewName("Ada")
	require.NoError(t, err)
	email, err := vo.NewEmail("ada@example.org")
	require.NoError(t, err)
	applicant, err := person.ReconstructPerson(
		7, cn, nil, nil, email, nil, nil,
		membership.StatusApplicant, time.Now(), "", time.Now(), nil, nil,
	)
	require.NoError(t, err)

	proc, err := process.ReconstructProcess(
		3, 7,
		membership.StatusApplicant, membership.StatusDeveloper,
		membership.ProgressAppOK,
		nil, nil, "ada-1234", time.Now(),
	)
	require.NoError(t, err)

	sender := &fakeSender{}
	notifier := NewTransitionNotifier(
		&stubPersonRepo{byID: map[uint]*person.Person{7: applicant}},
		&stubProcessRepo{byID: map[uint]*process.Process{3: proc}},
		sender,
		"nm-archive@example.org",
		noopLogger{},
	)
	return notifier, sender
}

func entry(t *testing.T, progress membership.Progress, message string, public bool) *process.LogEntry {
	t.Helper()
	e, err := process.ReconstructLogEntry(1, 3, nil, progress, message, public, time.Now())
	require.NoError(t, err)
	return e
}

func TestNotifierAnnouncesProgressArrival(t *testing.T) {
	notifier, sender := notifierFixture(t)

	newEntry := entry(t, membership.ProgressAppOK, "advocacies check out", true)
	prevEntry := entry(t, membership.ProgressAdvRcvd, "", true)

	require.NoError(t, notifier.OnTransition(context.Background(), newEntry, prevEntry))
	require.Len(t, sender.sent, 1)

	mail := sender.sent[0]
	assert.Equal(t, []string{"ada@example.org", "nm-archive@example.org"}, mail.to,
		"public entries are copied to the archive")
	assert.Equal(t, "ada-1234: Your application has been approved by Front Desk", mail.subject)
	assert.Contains(t, mail.body, "advocacies check out")
}

func TestNotifierPrivateEntrySkipsArchive(t *testing.T) {
	notifier, sender := notifierFixture(t)

	newEntry := entry(t, membership.ProgressDAMOK, "", false)
	prevEntry := entry(t, membership.ProgressFDOK, "", false)

	require.NoError(t, notifier.OnTransition(context.Background(), newEntry, prevEntry))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"ada@example.org"}, sender.sent[0].to)
}

func TestNotifierSilentOnAnnotation(t *testing.T) {
	notifier, sender := notifierFixture(t)

	newEntry := entry(t, membership.ProgressAM, "interview notes", false)
	prevEntry := entry(t, membership.ProgressAM, "", false)

	require.NoError(t, notifier.OnTransition(context.Background(), newEntry, prevEntry))
	assert.Empty(t, sender.sent)
}

func TestNotifierSilentOnUnannouncedProgress(t *testing.T) {
	notifier, sender := notifierFixture(t)

	newEntry := entry(t, membership.ProgressAppRcvd, "", true)
	prevEntry := entry(t, membership.ProgressAppNew, "", true)

	require.NoError(t, notifier.OnTransition(context.Background(), newEntry, prevEntry))
	assert.Empty(t, sender.sent)
}

func TestNotifierHoldStatesShareTemplate(t *testing.T) {
	notifier, sender := notifierFixture(t)

	newEntry := entry(t, membership.ProgressFDHold, "", false)
	prevEntry := entry(t, membership.ProgressAMOK, "", false)

	require.NoError(t, notifier.OnTransition(context.Background(), newEntry, prevEntry))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].subject, "on hold")
}

func TestNotifierFirstEntryHasNoPrevious(t *testing.T) {
	notifier, sender := notifierFixture(t)

	newEntry := entry(t, membership.ProgressAppNew, "", true)

	require.NoError(t, notifier.OnTransition(context.Background(), newEntry, nil))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].subject, "created")
}

func TestNotifierPropagatesSendFailure(t *testing.T) {
	notifier, sender := notifierFixture(t)
	sender.err = assert.AnError

	newEntry := entry(t, membership.ProgressDone, "", true)
	prevEntry := entry(t, membership.ProgressDAMOK, "", false)

	assert.Error(t, notifier.OnTransition(context.Background(), newEntry, prevEntry))
}
