package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/observability"
	"github.com/noah-isme/placement-portal-api/internal/placement"
	"github.com/noah-isme/placement-portal-api/internal/repository"
)

const statisticsCacheKey = "placement:statistics"

// StatisticsService aggregates placement statistics for administrators.
type StatisticsService interface {
	CacheInvalidator
	Get(ctx context.Context) (dto.StatisticsResponse, error)
}

type statisticsService struct {
	repo     repository.StatisticsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStatisticsService constructs the statistics service. A nil cache disables caching.
func NewStatisticsService(repo repository.StatisticsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StatisticsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &statisticsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "statistics_service").Logger(),
		now:      time.Now,
	}
}

func (s *statisticsService) Get(ctx context.Context) (dto.StatisticsResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/placement-portal-api/internal/service/statistics")
	ctx, span := tracer.Start(ctx, "statistics.aggregate")
	span.SetAttributes(attribute.String("statistics.cache_key", statisticsCacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, statisticsCacheKey).Result()
		if err == nil {
			var response dto.StatisticsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("statistics.cache_hit", true))
				observability.CacheLookups().WithLabelValues("statistics", "hit").Inc()
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read statistics cache")
			span.RecordError(err)
		}
		observability.CacheLookups().WithLabelValues("statistics", "miss").Inc()
	}

	start := time.Now()
	placements, err := s.repo.ListPlacements(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_placements_failed")
		return dto.StatisticsResponse{}, storeError(err, "student")
	}

	offers, err := s.repo.ListOffers(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_offers_failed")
		return dto.StatisticsResponse{}, storeError(err, "notice")
	}
	observability.StatisticsAggregation().Observe(time.Since(start).Seconds())

	stats := placement.Summarize(placements, offers)
	response := dto.NewStatisticsResponse(stats, s.now().UTC())
	span.SetAttributes(
		attribute.Int64("statistics.total_students", stats.TotalStudents),
		attribute.Int64("statistics.placed_students", stats.PlacedStudents),
		attribute.Int("statistics.offer_count", len(offers)),
	)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, statisticsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store statistics cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func (s *statisticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statisticsCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate statistics cache")
	}
}
