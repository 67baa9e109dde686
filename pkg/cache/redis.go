package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"quiz-live/internal/game"
	"quiz-live/internal/models"
)

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func quizKey(ownerID uint, title string) string {
	return fmt.Sprintf("quiz:%d:%s", ownerID, title)
}

func (c *RedisCache) SetQuiz(quiz *models.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, quizKey(quiz.OwnerID, quiz.Title), data, 24*time.Hour).Err()
}

func (c *RedisCache) GetQuiz(ownerID uint, title string) (*models.Quiz, error) {
	data, err := c.client.Get(c.ctx, quizKey(ownerID, title)).Bytes()
	if err != nil {
		return nil, err
	}

	var quiz models.Quiz
	err = json.Unmarshal(data, &quiz)
	return &quiz, err
}

func (c *RedisCache) DeleteQuiz(ownerID uint, title string) error {
	return c.client.Del(c.ctx, quizKey(ownerID, title)).Err()
}

// SetFinalStandings records a finished game's leaderboard as a sorted set so
// results stay queryable after the session's pin is released.
func (c *RedisCache) SetFinalStandings(pin string, final []game.RankEntry) error {
	key := "leaderboard:" + pin

	pipe := c.client.Pipeline()
	pipe.Del(c.ctx, key)
	for _, entry := range final {
		pipe.ZAdd(c.ctx, key, &redis.Z{
			Score:  float64(entry.Score),
			Member: entry.Username,
		})
	}
	pipe.Expire(c.ctx, key, 24*time.Hour)

	_, err := pipe.Exec(c.ctx)
	return err
}

// GetFinalStandings returns a recorded leaderboard, best score first.
func (c *RedisCache) GetFinalStandings(pin string) ([]game.RankEntry, error) {
	key := "leaderboard:" + pin

	results, err := c.client.ZRevRangeWithScores(c.ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]game.RankEntry, len(results))
	for i, z := range results {
		entries[i] = game.RankEntry{
			Rank:     i + 1,
			Username: z.Member.(string),
			Score:    int(z.Score),
		}
	}
	return entries, nil
}
