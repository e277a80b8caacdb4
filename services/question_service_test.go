package services

import (
	"testing"

	"cityrace/apperr"
	"cityrace/geo"
	"cityrace/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndGetQuestion(t *testing.T) {
	env := newTestEnv(t)

	lat, long := 59.318329, 18.042192
	added, err := env.questionService.AddQuestion(&QuestionRequest{
		Latitude:  &lat,
		Longitude: &long,
		Text:      "Vilken staty står här?",
		TextEn:    "Which statue stands here?",
		Answer:    "Karl XII",
		AnswerEn:  "Charles XII",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	require.NotNil(t, added.Latitude)
	assert.Equal(t, lat, *added.Latitude)
	assert.Equal(t, "Karl XII", added.Answer)

	full, err := env.questionService.GetQuestion(added.ID, RoleAdmin)
	require.NoError(t, err)
	assert.NotNil(t, full.Latitude)
	assert.Equal(t, "Charles XII", full.AnswerEn)

	// Non-admin callers never see coordinates or answers.
	restricted, err := env.questionService.GetQuestion(added.ID, "USER")
	require.NoError(t, err)
	assert.Equal(t, "Vilken staty står här?", restricted.Text)
	assert.Nil(t, restricted.Latitude)
	assert.Nil(t, restricted.Longitude)
	assert.Empty(t, restricted.Answer)
	assert.Empty(t, restricted.AnswerEn)
}

func TestGetQuestionMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.questionService.GetQuestion(uuid.NewString(), RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSelectGameQuestionsWalkingOrder(t *testing.T) {
	env := newTestEnv(t)
	env.createGame(t, "game-1", "user-1")
	questions := env.seedQuestionChain(t, testOrigin, 3)

	game, err := env.games.Find("game-1")
	require.NoError(t, err)

	selected, err := env.questionService.SelectGameQuestions(game, testOrigin)
	require.NoError(t, err)
	require.Len(t, selected, 3)
	for i, gq := range selected {
		assert.Equal(t, "game-1", gq.GameID)
		assert.Equal(t, questions[i].ID, gq.QuestionID)
	}
}

func TestSelectGameQuestionsDistanceConstraints(t *testing.T) {
	env := newTestEnv(t)
	env.createGame(t, "game-1", "user-1")

	// A denser pool along the meridian, every step has multiple candidates.
	pool := map[string]models.Coordinate{}
	for _, meters := range []float64{1500, 2500, 3500, 4500, 5500, 6500} {
		coord := north(testOrigin, meters)
		pool[env.seedQuestion(t, coord).ID] = coord
	}

	game, err := env.games.Find("game-1")
	require.NoError(t, err)

	selected, err := env.questionService.SelectGameQuestions(game, testOrigin)
	require.NoError(t, err)
	require.Len(t, selected, env.cfg.QuestionsPerGame)

	seen := map[string]bool{}
	current := testOrigin
	for _, gq := range selected {
		coord, ok := pool[gq.QuestionID]
		require.True(t, ok, "selected question not from the pool")
		assert.False(t, seen[gq.QuestionID], "question selected twice")
		seen[gq.QuestionID] = true

		dist := geo.Distance(current, coord)
		assert.GreaterOrEqual(t, dist, env.cfg.MinQuestionDistance)
		assert.LessOrEqual(t, dist, env.cfg.MaxQuestionDistance)
		current = coord
	}

	// Pairwise spread of at least half the minimum distance.
	spread := env.cfg.MinQuestionDistance / 2
	for i, a := range selected {
		for _, b := range selected[i+1:] {
			assert.GreaterOrEqual(t, geo.Distance(pool[a.QuestionID], pool[b.QuestionID]), spread)
		}
	}
}

func TestSelectGameQuestionsPoolTooSmall(t *testing.T) {
	env := newTestEnv(t)
	env.createGame(t, "game-1", "user-1")
	env.seedQuestion(t, north(testOrigin, 1500))

	game, err := env.games.Find("game-1")
	require.NoError(t, err)

	_, err = env.questionService.SelectGameQuestions(game, testOrigin)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestSelectGameQuestionsNoneInRange(t *testing.T) {
	env := newTestEnv(t)
	env.createGame(t, "game-1", "user-1")
	for _, meters := range []float64{5000, 7000, 9000} {
		env.seedQuestion(t, north(testOrigin, meters))
	}

	game, err := env.games.Find("game-1")
	require.NoError(t, err)

	_, err = env.questionService.SelectGameQuestions(game, testOrigin)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestSelectGameQuestionsExcludesSharedUserHistory(t *testing.T) {
	env := newTestEnv(t)
	first := env.startedGame(t, testOrigin, "user-1", "user-2")

	usedIDs := map[string]bool{}
	for _, gq := range first.Questions {
		usedIDs[gq.QuestionID] = true
	}

	// Fresh questions laid out west of the first chain.
	westOrigin := models.Coordinate{Latitude: testOrigin.Latitude, Longitude: testOrigin.Longitude - 0.3}
	env.seedQuestionChain(t, westOrigin, 3)

	// user-2 played the first game, so its questions are off limits here.
	env.createGame(t, "game-2", "user-2")
	game, err := env.games.Find("game-2")
	require.NoError(t, err)

	selected, err := env.questionService.SelectGameQuestions(game, westOrigin)
	require.NoError(t, err)
	require.Len(t, selected, 3)
	for _, gq := range selected {
		assert.False(t, usedIDs[gq.QuestionID], "question repeated from an earlier game")
	}
}

func TestNextQuestionAssignsClosest(t *testing.T) {
	env := newTestEnv(t)
	game := env.startedGame(t, testOrigin, "user-1")
	member := env.memberOf(t, game.ID, "user-1")

	question, err := env.questionService.NextQuestion(game.ID, member.ID, "user-1", testOrigin)
	require.NoError(t, err)
	assert.Equal(t, game.Questions[0].QuestionID, question.ID)

	// Assigned questions come back in the restricted view, the member has
	// to walk there, not read the target off the payload.
	assert.Nil(t, question.Latitude)
	assert.Nil(t, question.Longitude)
	assert.Empty(t, question.Answer)

	active, err := env.questions.FindMemberActiveQuestion(game.ID, member.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, question.ID, active.QuestionID)
}

func TestNextQuestionIdempotent(t *testing.T) {
	env := newTestEnv(t)
	game := env.startedGame(t, testOrigin, "user-1")
	member := env.memberOf(t, game.ID, "user-1")

	first, err := env.questionService.NextQuestion(game.ID, member.ID, "user-1", testOrigin)
	require.NoError(t, err)

	// Second call from a completely different spot: the active question
	// sticks until answered.
	second, err := env.questionService.NextQuestion(game.ID, member.ID, "user-1", north(testOrigin, 5500))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var assignments int64
	require.NoError(t, env.db.Model(&models.MemberQuestion{}).
		Where("member_id = ?", member.ID).Count(&assignments).Error)
	assert.EqualValues(t, 1, assignments)
}

func TestNextQuestionSkipsCurrentLocation(t *testing.T) {
	env := newTestEnv(t)
	nearby := env.seedQuestion(t, testOrigin)
	farther := env.seedQuestion(t, north(testOrigin, 1000))
	game, member := env.manualStartedGame(t, "user-1", nearby, farther)

	// Standing right on the nearby question: it gets skipped in favor of
	// one worth walking to.
	question, err := env.questionService.NextQuestion(game.ID, member.ID, "user-1", testOrigin)
	require.NoError(t, err)
	assert.Equal(t, farther.ID, question.ID)
}

func TestNextQuestionFallsBackWhenAllTooClose(t *testing.T) {
	env := newTestEnv(t)
	near := env.seedQuestion(t, north(testOrigin, 50))
	lessNear := env.seedQuestion(t, north(testOrigin, 100))
	game, member := env.manualStartedGame(t, "user-1", near, lessNear)

	// Both candidates are within skipping distance, so the filter is
	// abandoned and the closest one wins.
	question, err := env.questionService.NextQuestion(game.ID, member.ID, "user-1", testOrigin)
	require.NoError(t, err)
	assert.Equal(t, near.ID, question.ID)
}

func TestNextQuestionLastOneAlwaysAssigned(t *testing.T) {
	env := newTestEnv(t)
	only := env.seedQuestion(t, testOrigin)
	game, member := env.manualStartedGame(t, "user-1", only)

	// A single remaining question is handed out even while standing on it.
	question, err := env.questionService.NextQuestion(game.ID, member.ID, "user-1", testOrigin)
	require.NoError(t, err)
	assert.Equal(t, only.ID, question.ID)
}

func TestNextQuestionBeforeStart(t *testing.T) {
	env := newTestEnv(t)
	env.createGame(t, "game-1", "user-1")
	member := env.memberOf(t, "game-1", "user-1")

	_, err := env.questionService.NextQuestion("game-1", member.ID, "user-1", testOrigin)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPreconditionRequired, apperr.KindOf(err))
}

func TestNextQuestionWrongUser(t *testing.T) {
	env := newTestEnv(t)
	game := env.startedGame(t, testOrigin, "user-1")
	member := env.memberOf(t, game.ID, "user-1")

	_, err := env.questionService.NextQuestion(game.ID, member.ID, "user-2", testOrigin)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

// manualStartedGame wires a started game with an explicit question sequence,
// bypassing the bulk selection so tests control the candidate geometry.
func (env *testEnv) manualStartedGame(t *testing.T, userID string, questions ...*models.Question) (*models.Game, *models.Member) {
	t.Helper()
	gameID := uuid.NewString()
	env.createGame(t, gameID, userID)

	gameQuestions := make([]models.GameQuestion, 0, len(questions))
	for _, question := range questions {
		gameQuestions = append(gameQuestions, models.GameQuestion{
			GameID:     gameID,
			QuestionID: question.ID,
		})
	}
	game, err := env.games.Find(gameID)
	require.NoError(t, err)
	require.NoError(t, env.games.Start(game, gameQuestions))

	game, err = env.games.Find(gameID)
	require.NoError(t, err)
	return game, env.memberOf(t, gameID, userID)
}
