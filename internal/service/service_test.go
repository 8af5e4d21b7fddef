package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qna_web/internal/models"
	"qna_web/internal/repository"
	"qna_web/internal/storage"
	"qna_web/internal/testutil"
	"qna_web/pkg/utils"
)

// testClock 每次呼叫前進一秒，讓建立時間有確定的先後
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	db       *storage.Database
	services *Services
	alice    *models.User
	bob      *models.User
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	services := NewServices(repository.NewRepositories(db), tokens, zerolog.Nop())

	clock := &testClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	services.Question.now = clock.Now
	services.Answer.now = clock.Now

	return &fixture{
		db:       db,
		services: services,
		alice:    testutil.CreateUser(t, db, "alice"),
		bob:      testutil.CreateUser(t, db, "bob"),
	}
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := f.services.User

	input := RegisterInput{Username: "dave", Password: "s3cret!", Email: "dave@example.com"}
	require.NoError(t, users.Register(ctx, input))
	assert.ErrorIs(t, users.Register(ctx, input), ErrUserExists)
	assert.ErrorIs(t, users.Register(ctx, RegisterInput{Username: "other", Password: "x", Email: "dave@example.com"}), ErrUserExists)

	stored, err := repository.NewUserRepository(f.db).FindByUsername(ctx, "dave")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.Password)

	_, err = users.Login(ctx, "dave", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Login(ctx, "nobody", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	result, err := users.Login(ctx, "dave", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, "dave", result.Username)
	assert.NotEmpty(t, result.AccessToken)

	user, err := users.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)

	_, err = users.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestUserService_AuthenticateDeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, _, err := utils.NewTokenManager("test-secret", time.Hour).GenerateToken(4242, "ghost")
	require.NoError(t, err)

	_, err = f.services.User.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestQuestionService_CreateListGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	questions := f.services.Question

	first, err := questions.Create(ctx, f.alice.ID, "first", "content one")
	require.NoError(t, err)
	_, err = questions.Create(ctx, f.bob.ID, "second", "content two")
	require.NoError(t, err)

	list, err := questions.List(ctx, 0, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	require.Len(t, list.QuestionList, 2)
	assert.Equal(t, "second", list.QuestionList[0].Subject)
	assert.NotNil(t, list.QuestionList[0].Answers)
	assert.NotNil(t, list.QuestionList[0].Voter)

	page, err := questions.List(ctx, 1, 1, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.QuestionList, 1)
	assert.Equal(t, "first", page.QuestionList[0].Subject)

	got, err := questions.Get(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "alice", got.User.Username)
	assert.Nil(t, got.ModifyDate)

	_, err = questions.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestQuestionService_ListHugePage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Question.Create(ctx, f.alice.ID, "only", "question")
	require.NoError(t, err)

	list, err := f.services.Question.List(ctx, math.MaxInt/10+1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	assert.Empty(t, list.QuestionList)
}

func TestQuestionService_UpdateAndDeleteRequireAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	questions := f.services.Question

	q, err := questions.Create(ctx, f.alice.ID, "subject", "content")
	require.NoError(t, err)

	assert.ErrorIs(t, questions.Update(ctx, f.bob.ID, q.ID, "hijacked", "x"), ErrPermissionDenied)
	assert.ErrorIs(t, questions.Delete(ctx, f.bob.ID, q.ID), ErrPermissionDenied)
	assert.ErrorIs(t, questions.Update(ctx, f.alice.ID, 9999, "s", "c"), ErrQuestionNotFound)

	require.NoError(t, questions.Update(ctx, f.alice.ID, q.ID, "new subject", "new content"))
	got, err := questions.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "new subject", got.Subject)
	assert.Equal(t, "new content", got.Content)
	require.NotNil(t, got.ModifyDate)
	assert.True(t, got.ModifyDate.After(got.CreateDate))

	_, err = f.services.Answer.Create(ctx, f.bob.ID, q.ID, "an answer")
	require.NoError(t, err)

	require.NoError(t, questions.Delete(ctx, f.alice.ID, q.ID))
	_, err = questions.Get(ctx, q.ID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.ErrorIs(t, questions.Delete(ctx, f.alice.ID, q.ID), ErrQuestionNotFound)
}

func TestQuestionService_AnonymousQuestionCannotBeEdited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q := testutil.CreateQuestion(t, f.db, nil, "orphan", "no author", time.Now())
	assert.ErrorIs(t, f.services.Question.Update(ctx, f.alice.ID, q.ID, "s", "c"), ErrPermissionDenied)
}

func TestQuestionService_VoteIsUniquePerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	questions := f.services.Question

	q, err := questions.Create(ctx, f.alice.ID, "subject", "content")
	require.NoError(t, err)

	require.NoError(t, questions.Vote(ctx, f.bob.ID, q.ID))
	require.NoError(t, questions.Vote(ctx, f.bob.ID, q.ID))
	require.NoError(t, questions.Vote(ctx, f.alice.ID, q.ID))
	assert.ErrorIs(t, questions.Vote(ctx, f.bob.ID, 9999), ErrQuestionNotFound)

	got, err := questions.Get(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, got.Voter, 2)
	assert.ElementsMatch(t, []string{"alice", "bob"}, []string{got.Voter[0].Username, got.Voter[1].Username})
}

func TestAnswerService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	answers := f.services.Answer

	q, err := f.services.Question.Create(ctx, f.alice.ID, "subject", "content")
	require.NoError(t, err)

	_, err = answers.Create(ctx, f.bob.ID, 9999, "nowhere")
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	a, err := answers.Create(ctx, f.bob.ID, q.ID, "bob's answer")
	require.NoError(t, err)
	assert.Equal(t, q.ID, a.QuestionID)

	got, err := answers.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "bob", got.User.Username)
	assert.Empty(t, got.Voter)

	assert.ErrorIs(t, answers.Update(ctx, f.alice.ID, a.ID, "edited"), ErrPermissionDenied)
	require.NoError(t, answers.Update(ctx, f.bob.ID, a.ID, "edited"))

	require.NoError(t, answers.Vote(ctx, f.alice.ID, a.ID))
	require.NoError(t, answers.Vote(ctx, f.alice.ID, a.ID))
	assert.ErrorIs(t, answers.Vote(ctx, f.alice.ID, 9999), ErrAnswerNotFound)

	got, err = answers.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
	assert.NotNil(t, got.ModifyDate)
	require.Len(t, got.Voter, 1)
	assert.Equal(t, f.alice.ID, got.Voter[0].ID)

	question, err := f.services.Question.Get(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, question.Answers, 1)
	assert.Equal(t, "edited", question.Answers[0].Content)

	assert.ErrorIs(t, answers.Delete(ctx, f.alice.ID, a.ID), ErrPermissionDenied)
	require.NoError(t, answers.Delete(ctx, f.bob.ID, a.ID))
	_, err = answers.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrAnswerNotFound)
}
