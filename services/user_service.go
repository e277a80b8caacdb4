package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"cityrace/apperr"

	"github.com/redis/go-redis/v9"
)

// UserDTO is the profile shape served by the external user service.
type UserDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

// UserService fetches user profiles from the external user service through
// a TTL-bounded redis cache, so member lists don't hammer the collaborator.
type UserService struct {
	client   *http.Client
	redis    *redis.Client
	baseURL  string
	cacheTTL time.Duration
}

func NewUserService(redisClient *redis.Client, baseURL string, cacheTTL time.Duration) *UserService {
	return &UserService{
		client:   &http.Client{Timeout: 10 * time.Second},
		redis:    redisClient,
		baseURL:  baseURL,
		cacheTTL: cacheTTL,
	}
}

// GetUser returns the profile for the given user id, served from cache when
// a fresh entry exists.
// Upstream failures surface as bad gateway errors.
func (s *UserService) GetUser(ctx context.Context, userID string) (*UserDTO, error) {
	if user := s.getCached(ctx, userID); user != nil {
		return user, nil
	}

	user, err := s.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.storeCached(ctx, user)
	return user, nil
}

func (s *UserService) fetchUser(ctx context.Context, userID string) (*UserDTO, error) {
	url := fmt.Sprintf("%s/v1/users/%s", s.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to build user request")
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadGateway, err, "failed to fetch user with id=%s", userID)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, apperr.BadGateway("user service returned status %d for user with id=%s", res.StatusCode, userID)
	}

	var user UserDTO
	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		return nil, apperr.Wrap(apperr.KindBadGateway, err, "failed to decode user with id=%s", userID)
	}
	return &user, nil
}

func (s *UserService) getCached(ctx context.Context, userID string) *UserDTO {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, userCacheKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting user %s: %v", userID, err)
		}
		return nil
	}

	var user UserDTO
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		log.Printf("Failed to unmarshal cached user %s: %v", userID, err)
		return nil
	}
	return &user
}

func (s *UserService) storeCached(ctx context.Context, user *UserDTO) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		log.Printf("Failed to marshal user %s: %v", user.ID, err)
		return
	}
	if err := s.redis.Set(ctx, userCacheKey(user.ID), data, s.cacheTTL).Err(); err != nil {
		log.Printf("Failed to cache user %s: %v", user.ID, err)
	}
}

func userCacheKey(userID string) string {
	return "user:" + userID
}
