package services

import (
	"cityrace/apperr"
	"cityrace/config"
	"cityrace/geo"
	"cityrace/models"
	"cityrace/repository"

	"github.com/google/uuid"
)

// PositionService ingests GPS submissions, verifies them against the
// member's active question and drives completion and placement.
type PositionService struct {
	cfg         config.GameConfig
	games       *repository.GameRepository
	members     *repository.MemberRepository
	questions   *repository.QuestionRepository
	positions   *repository.PositionRepository
	placements  *repository.PlacementRepository
	gameService *GameService
	hub         *Hub
}

func NewPositionService(
	cfg config.GameConfig,
	games *repository.GameRepository,
	members *repository.MemberRepository,
	questions *repository.QuestionRepository,
	positions *repository.PositionRepository,
	placements *repository.PlacementRepository,
	gameService *GameService,
	hub *Hub,
) *PositionService {
	return &PositionService{
		cfg:         cfg,
		games:       games,
		members:     members,
		questions:   questions,
		positions:   positions,
		placements:  placements,
		gameService: gameService,
		hub:         hub,
	}
}

// SubmitPosition logs a member's position and checks it against their active
// question. Every submission is stored, hit or miss. A hit answers the
// question, may finish the member and may end the game.
func (s *PositionService) SubmitPosition(gameID, memberID, userID string, req *PositionRequest) (*PositionResultDTO, error) {
	game, err := assertGameExists(s.games, gameID)
	if err != nil {
		return nil, err
	}
	member, err := assertValidGameMember(s.members, gameID, memberID, userID)
	if err != nil {
		return nil, err
	}

	position := &models.Position{
		ID:        uuid.NewString(),
		MemberID:  member.ID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
	if err := s.positions.Save(position); err != nil {
		return nil, err
	}

	active, err := s.questions.FindMemberActiveQuestion(gameID, memberID)
	if err != nil {
		return nil, err
	}
	if active == nil || !geo.IsWithin(position.Coordinate(), active.Question.Coordinate(), s.cfg.MaxAnswerDistance, 0) {
		return &PositionResultDTO{IsAnswer: false}, nil
	}

	answered, err := s.questions.SetMemberQuestionAnswered(member.ID, active.ID, position)
	if err != nil {
		return nil, err
	}
	if !answered {
		// A concurrent submission closed the question first.
		return &PositionResultDTO{IsAnswer: false}, nil
	}

	s.broadcast(gameID, "question_answered", map[string]interface{}{
		"memberId":   member.ID,
		"questionId": active.QuestionID,
	})

	gameEnded, err := s.checkCompletion(game, member)
	if err != nil {
		return nil, err
	}

	return &PositionResultDTO{
		IsAnswer:  true,
		GameEnded: gameEnded,
		Question:  newQuestionDTO(&active.Question, true),
	}, nil
}

// GetMemberPositions returns the member's full position log.
func (s *PositionService) GetMemberPositions(gameID, memberID, userID string) ([]PositionDTO, error) {
	if _, err := assertGameExists(s.games, gameID); err != nil {
		return nil, err
	}
	member, err := assertValidGameMember(s.members, gameID, memberID, userID)
	if err != nil {
		return nil, err
	}

	positions, err := s.positions.FindMemberPositions(member.ID)
	if err != nil {
		return nil, err
	}
	dtos := make([]PositionDTO, 0, len(positions))
	for i := range positions {
		dtos = append(dtos, newPositionDTO(&positions[i]))
	}
	return dtos, nil
}

// checkCompletion records a placement the first time the member has answered
// every question and then runs the game level end check. A placement
// conflict means a racing request recorded it first and is ignored.
func (s *PositionService) checkCompletion(game *models.Game, member *models.Member) (bool, error) {
	answered, err := s.members.CountAnswered(member.ID)
	if err != nil {
		return false, err
	}
	if answered < len(game.Questions) {
		return false, nil
	}

	placement := &models.Placement{
		GameID:   game.ID,
		MemberID: member.ID,
	}
	if err := s.placements.Save(placement); err != nil {
		if !apperr.IsKind(err, apperr.KindConflict) {
			return false, err
		}
	} else {
		s.broadcast(game.ID, "member_finished", map[string]interface{}{
			"memberId": member.ID,
		})
	}

	return s.gameService.CheckIfGameEnded(game.ID)
}

func (s *PositionService) broadcast(gameID, eventType string, payload interface{}) {
	if s.hub != nil {
		s.hub.BroadcastToGame(gameID, eventType, payload)
	}
}
