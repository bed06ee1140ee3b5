package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/connectfour/internal/apperror"
	"github.com/rocketscienceinc/connectfour/internal/entity"
)

const scoreKey = "connectfour:score"

// ScoreRepository - running totals of finished games. Individual games are not kept.
type ScoreRepository interface {
	Record(ctx context.Context, outcome entity.Outcome) error
	Totals(ctx context.Context) (entity.Score, error)
	Reset(ctx context.Context) error
}

type dbScore struct {
	client *redis.Client
}

func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

func (that *dbScore) Record(ctx context.Context, outcome entity.Outcome) error {
	if !outcome.IsFinished() {
		return fmt.Errorf("%w: cannot record %s", apperror.ErrInvalidArgument, outcome)
	}

	if err := that.client.HIncrBy(ctx, scoreKey, outcome.String(), 1).Err(); err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	return nil
}

func (that *dbScore) Totals(ctx context.Context) (entity.Score, error) {
	fields, err := that.client.HGetAll(ctx, scoreKey).Result()
	if err != nil {
		return entity.Score{}, fmt.Errorf("failed to get score: %w", err)
	}

	var score entity.Score
	for _, outcome := range []entity.Outcome{entity.Player1Win, entity.Player2Win, entity.Draw} {
		raw, ok := fields[outcome.String()]
		if !ok {
			continue
		}

		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return entity.Score{}, fmt.Errorf("failed to parse %s count %q: %w", outcome, raw, err)
		}

		score.Add(outcome, n)
	}

	return score, nil
}

func (that *dbScore) Reset(ctx context.Context) error {
	if err := that.client.Del(ctx, scoreKey).Err(); err != nil {
		return fmt.Errorf("failed to reset score: %w", err)
	}

	return nil
}
