package services

import (
	"fmt"
	"testing"

	"cityrace/config"
	"cityrace/models"
	"cityrace/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Latitude degrees per meter on a great circle, used to lay out test
// questions at exact distances along a meridian.
const latDegPerMeter = 1.0 / 111194.926

type testEnv struct {
	db         *gorm.DB
	cfg        config.GameConfig
	games      *repository.GameRepository
	members    *repository.MemberRepository
	questions  *repository.QuestionRepository
	positions  *repository.PositionRepository
	placements *repository.PlacementRepository

	questionService *QuestionService
	gameService     *GameService
	positionService *PositionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Game{},
		&models.Member{},
		&models.Question{},
		&models.GameQuestion{},
		&models.MemberQuestion{},
		&models.Position{},
		&models.Placement{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := config.GameConfig{
		QuestionsPerGame:    3,
		MinQuestionDistance: 1000,
		MaxQuestionDistance: 3000,
		MaxAnswerDistance:   10,
	}

	env := &testEnv{
		db:         db,
		cfg:        cfg,
		games:      repository.NewGameRepository(db),
		members:    repository.NewMemberRepository(db),
		questions:  repository.NewQuestionRepository(db),
		positions:  repository.NewPositionRepository(db),
		placements: repository.NewPlacementRepository(db),
	}
	env.questionService = NewQuestionService(cfg, env.questions, env.games, env.members)
	env.gameService = NewGameService(env.games, env.members, env.questionService, nil, nil)
	env.positionService = NewPositionService(cfg, env.games, env.members, env.questions, env.positions, env.placements, env.gameService, nil)
	return env
}

// north returns the coordinate the given number of meters due north of origin.
func north(origin models.Coordinate, meters float64) models.Coordinate {
	return models.Coordinate{
		Latitude:  origin.Latitude + meters*latDegPerMeter,
		Longitude: origin.Longitude,
	}
}

func (env *testEnv) seedQuestion(t *testing.T, coord models.Coordinate) *models.Question {
	t.Helper()
	question := &models.Question{
		ID:        uuid.NewString(),
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		Text:      "Var ligger den här grejen?",
		TextEn:    "Where is this thing?",
		Answer:    "Gatan 1",
		AnswerEn:  "Street 1",
	}
	require.NoError(t, env.questions.Save(question))
	return question
}

// seedQuestionChain seeds count questions spaced 2000m apart due north of
// origin, starting 1500m out. Each step satisfies the selection distance
// band, giving the bulk selection a valid route.
func (env *testEnv) seedQuestionChain(t *testing.T, origin models.Coordinate, count int) []*models.Question {
	t.Helper()
	questions := make([]*models.Question, 0, count)
	for i := 0; i < count; i++ {
		questions = append(questions, env.seedQuestion(t, north(origin, 1500+float64(i)*2000)))
	}
	return questions
}

// createGame creates a game through the service with the given admin user.
func (env *testEnv) createGame(t *testing.T, gameID, adminUserID string) *GameDTO {
	t.Helper()
	game, err := env.gameService.CreateGame(adminUserID, &CreateGameRequest{ID: gameID, Name: "Test Game"})
	require.NoError(t, err)
	return game
}

// readyAll marks every member of the game as ready.
func (env *testEnv) readyAll(t *testing.T, gameID string) {
	t.Helper()
	game, err := env.games.Find(gameID)
	require.NoError(t, err)
	require.NotNil(t, game)
	for _, member := range game.Members {
		require.NoError(t, env.gameService.SetMemberReady(gameID, member.ID, member.UserID))
	}
}

// memberOf returns the game's member row for the given user.
func (env *testEnv) memberOf(t *testing.T, gameID, userID string) *models.Member {
	t.Helper()
	game, err := env.games.Find(gameID)
	require.NoError(t, err)
	require.NotNil(t, game)
	for i := range game.Members {
		if game.Members[i].UserID == userID {
			return &game.Members[i]
		}
	}
	t.Fatalf("no member for user %s in game %s", userID, gameID)
	return nil
}

// startedGame creates a game with the given users (first one admin), seeds a
// question chain from origin and starts the game.
func (env *testEnv) startedGame(t *testing.T, origin models.Coordinate, userIDs ...string) *models.Game {
	t.Helper()
	gameID := uuid.NewString()
	env.createGame(t, gameID, userIDs[0])
	for _, userID := range userIDs[1:] {
		_, err := env.gameService.JoinGame(gameID, userID)
		require.NoError(t, err)
	}
	env.seedQuestionChain(t, origin, env.cfg.QuestionsPerGame)
	env.readyAll(t, gameID)
	_, err := env.gameService.StartGame(gameID, userIDs[0], origin)
	require.NoError(t, err)

	game, err := env.games.Find(gameID)
	require.NoError(t, err)
	require.NotNil(t, game)
	return game
}
