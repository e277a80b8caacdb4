package services

import (
	"time"

	"cityrace/models"
)

// RoleAdmin is the platform role that gates question pool management. It is
// independent of the per-game admin member flag.
const RoleAdmin = "ADMIN"

type CreateGameRequest struct {
	ID   string `json:"id"`
	Name string `json:"name" binding:"required"`
}

type QuestionRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Text      string   `json:"text" binding:"required"`
	TextEn    string   `json:"text_en" binding:"required"`
	Answer    string   `json:"answer" binding:"required"`
	AnswerEn  string   `json:"answer_en" binding:"required"`
}

type PositionRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type GameDTO struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Status        models.GameStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	StartedAt     *time.Time        `json:"startedAt"`
	EndedAt       *time.Time        `json:"endedAt"`
	QuestionCount int               `json:"questions"`
	Members       []MemberDTO       `json:"members"`
	Placements    []PlacementDTO    `json:"placements"`
}

type MemberDTO struct {
	ID         string             `json:"id"`
	GameID     string             `json:"gameId"`
	UserID     string             `json:"userId"`
	Username   string             `json:"username,omitempty"`
	IsAdmin    bool               `json:"isAdmin"`
	IsReady    bool               `json:"isReady"`
	State      models.MemberState `json:"state"`
	ResignedAt *time.Time         `json:"resignedAt"`
	CreatedAt  time.Time          `json:"createdAt"`
}

type PlacementDTO struct {
	Rank      int       `json:"rank"`
	MemberID  string    `json:"memberId"`
	CreatedAt time.Time `json:"createdAt"`
}

// QuestionDTO is the wire representation of a question. Coordinates and
// answers are only present in the full (admin or post-answer) view.
type QuestionDTO struct {
	ID        string    `json:"id"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Text      string    `json:"text"`
	TextEn    string    `json:"text_en"`
	Answer    string    `json:"answer,omitempty"`
	AnswerEn  string    `json:"answer_en,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type PositionResultDTO struct {
	IsAnswer  bool         `json:"isAnswer"`
	GameEnded bool         `json:"gameEnded"`
	Question  *QuestionDTO `json:"question,omitempty"`
}

type PositionDTO struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"memberId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
}

func newQuestionDTO(question *models.Question, full bool) *QuestionDTO {
	dto := &QuestionDTO{
		ID:        question.ID,
		Text:      question.Text,
		TextEn:    question.TextEn,
		CreatedAt: question.CreatedAt,
	}
	if full {
		latitude := question.Latitude
		longitude := question.Longitude
		dto.Latitude = &latitude
		dto.Longitude = &longitude
		dto.Answer = question.Answer
		dto.AnswerEn = question.AnswerEn
	}
	return dto
}

func newMemberDTO(member *models.Member, username string) MemberDTO {
	return MemberDTO{
		ID:         member.ID,
		GameID:     member.GameID,
		UserID:     member.UserID,
		Username:   username,
		IsAdmin:    member.IsAdmin,
		IsReady:    member.IsReady,
		State:      member.State(),
		ResignedAt: member.ResignedAt,
		CreatedAt:  member.CreatedAt,
	}
}

func newPositionDTO(position *models.Position) PositionDTO {
	return PositionDTO{
		ID:        position.ID,
		MemberID:  position.MemberID,
		Latitude:  position.Latitude,
		Longitude: position.Longitude,
		CreatedAt: position.CreatedAt,
	}
}
