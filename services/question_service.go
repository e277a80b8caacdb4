package services

import (
	"math/rand"

	"cityrace/apperr"
	"cityrace/config"
	"cityrace/geo"
	"cityrace/models"
	"cityrace/repository"

	"github.com/google/uuid"
)

// QuestionService manages the global question pool and runs the two
// geography-driven assignment algorithms: the bulk selection of a game's
// question set at start, and the per-member choice of the next question.
type QuestionService struct {
	cfg       config.GameConfig
	questions *repository.QuestionRepository
	games     *repository.GameRepository
	members   *repository.MemberRepository
}

func NewQuestionService(
	cfg config.GameConfig,
	questions *repository.QuestionRepository,
	games *repository.GameRepository,
	members *repository.MemberRepository,
) *QuestionService {
	return &QuestionService{
		cfg:       cfg,
		questions: questions,
		games:     games,
		members:   members,
	}
}

// AddQuestion adds a question to the global pool. Role checks happen in the
// transport layer, pool management requires the platform ADMIN role.
func (s *QuestionService) AddQuestion(req *QuestionRequest) (*QuestionDTO, error) {
	question := &models.Question{
		ID:        uuid.NewString(),
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Text:      req.Text,
		TextEn:    req.TextEn,
		Answer:    req.Answer,
		AnswerEn:  req.AnswerEn,
	}
	if err := s.questions.Save(question); err != nil {
		return nil, err
	}
	return newQuestionDTO(question, true), nil
}

// GetQuestion fetches a pool question. Non-admin callers get a restricted
// view without coordinates or answers.
func (s *QuestionService) GetQuestion(id, role string) (*QuestionDTO, error) {
	question, err := s.questions.Find(id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, apperr.NotFound("question with id=%s does not exist", id)
	}
	return newQuestionDTO(question, role == RoleAdmin), nil
}

// SelectGameQuestions picks the game's ordered question set. Starting from
// the supplied origin it greedily chooses one question at a time, uniformly
// at random among candidates that lie within the configured distance band of
// the current origin and keep a spread of at least half the minimum distance
// to every question already chosen. Questions used by any earlier game that
// shares a user with this game are excluded up front. The loop is bounded by
// the set size, an empty candidate set fails the whole selection.
func (s *QuestionService) SelectGameQuestions(game *models.Game, origin models.Coordinate) ([]models.GameQuestion, error) {
	previousIDs, err := s.questions.FindPreviousQuestionIDs(game)
	if err != nil {
		return nil, err
	}
	pool, err := s.questions.FindAll(previousIDs)
	if err != nil {
		return nil, err
	}

	count := s.cfg.QuestionsPerGame
	if len(pool) < count {
		return nil, apperr.Internal("not enough questions: have %d eligible, need %d", len(pool), count)
	}

	selected := make([]models.Question, 0, count)
	current := origin
	for i := 0; i < count; i++ {
		candidates := s.filterCandidates(pool, current, selected)
		if len(candidates) == 0 {
			return nil, apperr.Internal("not enough questions within distance constraints for game with id=%s", game.ID)
		}
		choice := candidates[rand.Intn(len(candidates))]
		selected = append(selected, pool[choice])
		current = pool[choice].Coordinate()
		pool = append(pool[:choice], pool[choice+1:]...)
	}

	gameQuestions := make([]models.GameQuestion, 0, count)
	for _, question := range selected {
		gameQuestions = append(gameQuestions, models.GameQuestion{
			GameID:     game.ID,
			QuestionID: question.ID,
		})
	}
	return gameQuestions, nil
}

func (s *QuestionService) filterCandidates(pool []models.Question, origin models.Coordinate, selected []models.Question) []int {
	minDist := s.cfg.MinQuestionDistance
	maxDist := s.cfg.MaxQuestionDistance
	spread := minDist / 2

	candidates := []int{}
	for i, question := range pool {
		if !geo.IsWithin(origin, question.Coordinate(), maxDist, minDist) {
			continue
		}
		if !s.keepsSpread(question, selected, spread) {
			continue
		}
		candidates = append(candidates, i)
	}
	return candidates
}

// keepsSpread checks that the question stays at least spread meters away
// from every already selected question, keeping the walking route spread out.
func (s *QuestionService) keepsSpread(question models.Question, selected []models.Question, spread int) bool {
	for _, other := range selected {
		if geo.Distance(question.Coordinate(), other.Coordinate()) < spread {
			return false
		}
	}
	return true
}

// NextQuestion returns the question the member should pursue next. If the
// member already has an active question it is returned unchanged, repeated
// calls never reassign. Otherwise the closest unanswered question is chosen,
// skipping any that the member is practically standing on unless that would
// leave nothing to pick, and the final remaining question is always handed
// out regardless of distance.
func (s *QuestionService) NextQuestion(gameID, memberID, userID string, position models.Coordinate) (*QuestionDTO, error) {
	game, err := assertActiveGame(s.games, gameID)
	if err != nil {
		return nil, err
	}
	if game.StartedAt == nil {
		return nil, apperr.PreconditionRequired("game with id=%s has not started", gameID)
	}
	member, err := assertValidGameMember(s.members, gameID, memberID, userID)
	if err != nil {
		return nil, err
	}

	active, err := s.questions.FindMemberActiveQuestion(gameID, memberID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return newQuestionDTO(&active.Question, false), nil
	}

	candidates, err := s.questions.FindMemberUnanswered(gameID, memberID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		// Completion logic should have ended the game before the member
		// could ask again, treat this as data corruption.
		return nil, apperr.Internal("no questions left to assign to member with id=%s", memberID)
	}

	chosen := s.chooseNext(candidates, position)

	memberQuestion := &models.MemberQuestion{
		MemberID:       member.ID,
		GameQuestionID: chosen.ID,
	}
	err = s.questions.SaveMemberQuestion(memberQuestion)
	if err != nil && !apperr.IsKind(err, apperr.KindConflict) {
		return nil, err
	}
	// A conflict means a concurrent call assigned the question first, the
	// assignment itself stands either way.
	return newQuestionDTO(&chosen.Question, false), nil
}

func (s *QuestionService) chooseNext(candidates []models.GameQuestion, position models.Coordinate) models.GameQuestion {
	if len(candidates) == 1 {
		// The last question must always be reachable, no distance filtering.
		return candidates[0]
	}

	// Skip questions the member is already standing on.
	tooClose := s.cfg.MinQuestionDistance / 4
	filtered := make([]models.GameQuestion, 0, len(candidates))
	for _, candidate := range candidates {
		if geo.Distance(position, candidate.Question.Coordinate()) > tooClose {
			filtered = append(filtered, candidate)
		}
	}
	if len(filtered) == 0 {
		filtered = candidates
	}

	chosen := filtered[0]
	best := geo.Distance(position, chosen.Question.Coordinate())
	for _, candidate := range filtered[1:] {
		if dist := geo.Distance(position, candidate.Question.Coordinate()); dist < best {
			chosen = candidate
			best = dist
		}
	}
	return chosen
}
