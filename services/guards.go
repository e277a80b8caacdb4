package services

import (
	"cityrace/apperr"
	"cityrace/models"
	"cityrace/repository"
)

// Authority and existence guards shared by the game, question and position
// services. All of them translate a failed check into the typed error the
// transport layer expects.

func assertGameExists(games *repository.GameRepository, gameID string) (*models.Game, error) {
	game, err := games.Find(gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.PreconditionRequired("game with id=%s does not exist", gameID)
	}
	return game, nil
}

func assertActiveGame(games *repository.GameRepository, gameID string) (*models.Game, error) {
	game, err := assertGameExists(games, gameID)
	if err != nil {
		return nil, err
	}
	if game.EndedAt != nil {
		return nil, apperr.PreconditionRequired("game with id=%s has ended", gameID)
	}
	return game, nil
}

func assertValidGameMember(members *repository.MemberRepository, gameID, memberID, userID string) (*models.Member, error) {
	member, err := members.Find(memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperr.PreconditionRequired("game member with id=%s does not exist", memberID)
	}
	if member.UserID != userID {
		return nil, apperr.Forbidden("user id and member id are not related")
	}
	if member.GameID != gameID {
		return nil, apperr.PreconditionRequired("member not part of game with id=%s", gameID)
	}
	return member, nil
}

func assertAllMembersReady(game *models.Game) error {
	for _, member := range game.Members {
		if !member.IsReady {
			return apperr.PreconditionRequired("all members are not ready in game with id=%s", game.ID)
		}
	}
	return nil
}

func assertUserIsGameAdmin(userID string, game *models.Game) error {
	for _, member := range game.Members {
		if member.UserID == userID && member.IsAdmin {
			return nil
		}
	}
	return apperr.Forbidden("user is not admin of game with id=%s", game.ID)
}
