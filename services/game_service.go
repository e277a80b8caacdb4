package services

import (
	"context"
	"log"
	"regexp"

	"cityrace/apperr"
	"cityrace/models"
	"cityrace/repository"

	"github.com/google/uuid"
)

var shortcodePattern = regexp.MustCompile(`^[a-zA-Z0-9]{4}$`)

// GameService owns the game lifecycle state machine: create, join, ready,
// start, delete, leave and the end-of-game check. Question selection is
// delegated to the QuestionService at start time.
type GameService struct {
	games     *repository.GameRepository
	members   *repository.MemberRepository
	questions *QuestionService
	users     *UserService
	hub       *Hub
}

func NewGameService(
	games *repository.GameRepository,
	members *repository.MemberRepository,
	questions *QuestionService,
	users *UserService,
	hub *Hub,
) *GameService {
	return &GameService{
		games:     games,
		members:   members,
		questions: questions,
		users:     users,
		hub:       hub,
	}
}

// CreateGame creates a new game with the caller as its first, admin member.
// The id can be supplied by the caller, a duplicate id is a conflict.
func (s *GameService) CreateGame(userID string, req *CreateGameRequest) (*GameDTO, error) {
	gameID := req.ID
	if gameID == "" {
		gameID = uuid.NewString()
	}

	game := &models.Game{
		ID:   gameID,
		Name: req.Name,
		Members: []models.Member{
			{
				ID:      uuid.NewString(),
				GameID:  gameID,
				UserID:  userID,
				IsAdmin: true,
			},
		},
	}

	if err := s.games.Save(game); err != nil {
		return nil, err
	}
	return s.toGameDTO(game), nil
}

func (s *GameService) GetGame(gameID string) (*GameDTO, error) {
	game, err := assertGameExists(s.games, gameID)
	if err != nil {
		return nil, err
	}
	return s.toGameDTO(game), nil
}

// GetGameByShortcode resolves a 4 character shortcode. Shortcodes only work
// before the game has started.
func (s *GameService) GetGameByShortcode(code string) (*GameDTO, error) {
	if !shortcodePattern.MatchString(code) {
		return nil, apperr.BadRequest("shortcode must be 4 alphanumeric characters")
	}
	game, err := s.games.FindByShortcode(code)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.NotFound("no game found for shortcode=%s", code)
	}
	return s.toGameDTO(game), nil
}

// JoinGame adds the user as a non-admin, non-ready member of the game.
func (s *GameService) JoinGame(gameID, userID string) (*MemberDTO, error) {
	game, err := assertGameExists(s.games, gameID)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		ID:     uuid.NewString(),
		GameID: game.ID,
		UserID: userID,
	}
	if err := s.members.Add(member); err != nil {
		return nil, err
	}

	s.broadcast(game.ID, "member_joined", map[string]interface{}{
		"memberId": member.ID,
	})
	dto := newMemberDTO(member, s.lookupUsername(member.UserID))
	return &dto, nil
}

// SetMemberReady flags the member as ready for the game to start. Idempotent.
func (s *GameService) SetMemberReady(gameID, memberID, userID string) error {
	if _, err := assertGameExists(s.games, gameID); err != nil {
		return err
	}
	member, err := assertValidGameMember(s.members, gameID, memberID, userID)
	if err != nil {
		return err
	}
	if err := s.members.SetReady(member.ID); err != nil {
		return err
	}

	s.broadcast(gameID, "member_ready", map[string]interface{}{
		"memberId": member.ID,
	})
	return nil
}

// StartGame runs the bulk question selection and transitions the game to
// STARTED. Only the game's admin member may start, and only once everyone is
// ready. Selection failures abort the start with no partial assignment.
func (s *GameService) StartGame(gameID, userID string, origin models.Coordinate) (*GameDTO, error) {
	game, err := assertGameExists(s.games, gameID)
	if err != nil {
		return nil, err
	}
	if err := assertUserIsGameAdmin(userID, game); err != nil {
		return nil, err
	}
	if err := assertAllMembersReady(game); err != nil {
		return nil, err
	}
	if game.StartedAt != nil {
		return nil, apperr.Conflict("game with id=%s has already started", gameID)
	}

	gameQuestions, err := s.questions.SelectGameQuestions(game, origin)
	if err != nil {
		return nil, err
	}
	if err := s.games.Start(game, gameQuestions); err != nil {
		return nil, err
	}
	game.Questions = gameQuestions

	s.broadcast(game.ID, "game_started", map[string]interface{}{
		"questions": len(gameQuestions),
	})
	return s.toGameDTO(game), nil
}

// DeleteGame removes an unstarted game and its members. Admin only.
func (s *GameService) DeleteGame(gameID, userID string) error {
	game, err := assertGameExists(s.games, gameID)
	if err != nil {
		return err
	}
	if err := assertUserIsGameAdmin(userID, game); err != nil {
		return err
	}
	if game.StartedAt != nil {
		return apperr.PreconditionRequired("game with id=%s has started and cannot be deleted", gameID)
	}
	return s.games.Delete(game)
}

// LeaveGame removes the member if the game has not started, or resigns them
// if it has. Both branches re-evaluate whether the game is over.
func (s *GameService) LeaveGame(gameID, memberID, userID string) error {
	game, err := assertGameExists(s.games, gameID)
	if err != nil {
		return err
	}
	member, err := assertValidGameMember(s.members, gameID, memberID, userID)
	if err != nil {
		return err
	}

	if game.StartedAt == nil {
		if err := s.members.Delete(member); err != nil {
			return err
		}
	} else {
		if err := s.members.SetResigned(member.ID); err != nil {
			return err
		}
	}

	s.broadcast(gameID, "member_left", map[string]interface{}{
		"memberId": member.ID,
	})
	_, err = s.CheckIfGameEnded(gameID)
	return err
}

// CheckIfGameEnded evaluates the completion rules and ends the game when
// they are met. The game ends when no active members remain, when
// resignations have left at most one active member, or when every active
// member has answered every question. Ending is idempotent, a game already
// ended reports false.
func (s *GameService) CheckIfGameEnded(gameID string) (bool, error) {
	game, err := s.games.Find(gameID)
	if err != nil {
		return false, err
	}
	if game == nil || game.StartedAt == nil || game.EndedAt != nil {
		return false, nil
	}

	ended, err := s.shouldEnd(game)
	if err != nil || !ended {
		return false, err
	}

	won, err := s.games.End(game)
	if err != nil {
		return false, err
	}
	if !won {
		// A concurrent check ended the game first and already broadcast it.
		return false, nil
	}
	s.broadcast(game.ID, "game_ended", map[string]interface{}{
		"gameId": game.ID,
	})
	return true, nil
}

func (s *GameService) shouldEnd(game *models.Game) (bool, error) {
	active := game.ActiveMembers()
	resigned := len(game.Members) - len(active)

	if len(active) == 0 {
		return true, nil
	}
	// A race with a single remaining member is pointless, end it as soon as
	// resignations leave one member standing.
	if resigned > 0 && len(active) == 1 {
		return true, nil
	}

	total := len(game.Questions)
	if total == 0 {
		return false, nil
	}
	for _, member := range active {
		answered, err := s.members.CountAnswered(member.ID)
		if err != nil {
			return false, err
		}
		if answered < total {
			return false, nil
		}
	}
	return true, nil
}

func (s *GameService) toGameDTO(game *models.Game) *GameDTO {
	members := make([]MemberDTO, 0, len(game.Members))
	for i := range game.Members {
		member := &game.Members[i]
		members = append(members, newMemberDTO(member, s.lookupUsername(member.UserID)))
	}

	placements := make([]PlacementDTO, 0, len(game.Placements))
	for i, placement := range game.Placements {
		placements = append(placements, PlacementDTO{
			Rank:      i + 1,
			MemberID:  placement.MemberID,
			CreatedAt: placement.CreatedAt,
		})
	}

	return &GameDTO{
		ID:            game.ID,
		Name:          game.Name,
		Status:        game.Status(),
		CreatedAt:     game.CreatedAt,
		StartedAt:     game.StartedAt,
		EndedAt:       game.EndedAt,
		QuestionCount: len(game.Questions),
		Members:       members,
		Placements:    placements,
	}
}

// lookupUsername resolves a user id to a username through the cached user
// service. Lookup failures degrade to an empty username instead of failing
// the whole request.
func (s *GameService) lookupUsername(userID string) string {
	if s.users == nil {
		return ""
	}
	user, err := s.users.GetUser(context.Background(), userID)
	if err != nil {
		log.Printf("Failed to fetch user %s: %v", userID, err)
		return ""
	}
	return user.Username
}

func (s *GameService) broadcast(gameID, eventType string, payload interface{}) {
	if s.hub != nil {
		s.hub.BroadcastToGame(gameID, eventType, payload)
	}
}
