package service

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/observability"
	"github.com/noah-isme/placement-portal-api/internal/placement"
	"github.com/noah-isme/placement-portal-api/internal/repository"
)

const companiesCacheKey = "placement:companies"

// NoticeService publishes notices and matches them against student profiles.
type NoticeService interface {
	Create(ctx context.Context, actor Actor, req dto.NoticeCreateRequest) (dto.NoticeResponse, error)
	ListAll(ctx context.Context) (dto.NoticeListResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	ListForStudent(ctx context.Context, actor Actor) (dto.StudentNoticesResponse, error)
	VisitedCompanies(ctx context.Context) (dto.VisitedCompaniesResponse, error)
	Live(ctx context.Context, actor Actor) (<-chan dto.NoticeEvent, func(), error)
}

// NoticeServiceConfig groups the optional collaborators of the notice service.
type NoticeServiceConfig struct {
	Cache        *redis.Client
	CompaniesTTL time.Duration
	Events       NoticeEvents
	Activity     ActivityRecorder
	Statistics   CacheInvalidator
}

type noticeService struct {
	notices      repository.NoticeRepository
	students     repository.StudentRepository
	validator    *validator.Validate
	cache        *redis.Client
	companiesTTL time.Duration
	events       NoticeEvents
	activity     ActivityRecorder
	stats        CacheInvalidator
	logger       zerolog.Logger
	tracer       trace.Tracer
	richText     *bluemonday.Policy
	plainText    *bluemonday.Policy
}

// NewNoticeService constructs the notice service.
func NewNoticeService(notices repository.NoticeRepository, students repository.StudentRepository, validate *validator.Validate, cfg NoticeServiceConfig, logger zerolog.Logger) NoticeService {
	ttl := cfg.CompaniesTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &noticeService{
		notices:      notices,
		students:     students,
		validator:    validate,
		cache:        cfg.Cache,
		companiesTTL: ttl,
		events:       cfg.Events,
		activity:     cfg.Activity,
		stats:        cfg.Statistics,
		logger:       logger.With().Str("component", "notice_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/placement-portal-api/internal/service/notice"),
		richText:     bluemonday.UGCPolicy(),
		plainText:    bluemonday.StrictPolicy(),
	}
}

// stripMarkup drops tags from a plain-text field. The strict policy
// entity-encodes what it keeps, so the result is decoded back to text.
func (s *noticeService) stripMarkup(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.plainText.Sanitize(value)))
}

func (s *noticeService) Create(ctx context.Context, actor Actor, req dto.NoticeCreateRequest) (dto.NoticeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.NoticeResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "notices.publish", trace.WithAttributes(
		attribute.Int("notice.target_semesters", len(req.TargetSemesters)),
		attribute.Int("notice.target_branches", len(req.TargetBranches)),
	))
	defer span.End()

	input := req.ToInput()
	input.CompanyName = s.stripMarkup(input.CompanyName)
	input.Description = strings.TrimSpace(s.richText.Sanitize(input.Description))
	input.PackageOffered = s.stripMarkup(input.PackageOffered)
	input.Link = strings.TrimSpace(input.Link)

	draft, err := placement.ValidateNotice(input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.NoticeResponse{}, err
	}

	notice := models.NewNotice(draft, actor.ID)
	if err := s.notices.Create(spanCtx, &notice); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.NoticeResponse{}, storeError(err, "notice")
	}
	span.SetAttributes(attribute.Int("notice.id", int(notice.ID)))

	response := dto.NewNoticeResponse(notice)
	s.afterMutation(spanCtx, actor, NoticeEventCreated, response)

	s.logger.Info().Uint("notice_id", notice.ID).Str("company", notice.CompanyName).Msg("notice published")

	return response, nil
}

func (s *noticeService) ListAll(ctx context.Context) (dto.NoticeListResponse, error) {
	notices, err := s.notices.List(ctx)
	if err != nil {
		return dto.NoticeListResponse{}, storeError(err, "notice")
	}

	items := dto.NewNoticeResponses(notices)
	return dto.NoticeListResponse{Items: items, Count: len(items)}, nil
}

func (s *noticeService) Delete(ctx context.Context, actor Actor, id uint) error {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "notice")
	}

	if err := s.notices.Delete(ctx, id); err != nil {
		return storeError(err, "notice")
	}

	s.afterMutation(ctx, actor, NoticeEventDeleted, dto.NewNoticeResponse(notice))
	s.logger.Info().Uint("notice_id", id).Msg("notice deleted")
	return nil
}

func (s *noticeService) ListForStudent(ctx context.Context, actor Actor) (dto.StudentNoticesResponse, error) {
	student, err := s.students.GetByID(ctx, actor.ID)
	if err != nil {
		return dto.StudentNoticesResponse{}, storeError(err, "student")
	}

	notices, err := s.notices.List(ctx)
	if err != nil {
		return dto.StudentNoticesResponse{}, storeError(err, "notice")
	}

	result := placement.ListEligible(student.Profile(), notices)
	items := dto.NewNoticeResponses(result.Notices)

	outcome := "listed"
	if result.Placed {
		outcome = "placed"
	}
	observability.EligibilityChecks().WithLabelValues(outcome).Inc()

	return dto.StudentNoticesResponse{
		Items:   items,
		Count:   len(items),
		Placed:  result.Placed,
		Message: result.Reason,
	}, nil
}

func (s *noticeService) VisitedCompanies(ctx context.Context) (dto.VisitedCompaniesResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, companiesCacheKey).Result()
		if err == nil {
			var companies []string
			if unmarshalErr := json.Unmarshal([]byte(cached), &companies); unmarshalErr == nil && companies != nil {
				observability.CacheLookups().WithLabelValues("companies", "hit").Inc()
				return dto.VisitedCompaniesResponse{Companies: companies, Count: len(companies), CacheHit: true}, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read companies cache")
		}
		observability.CacheLookups().WithLabelValues("companies", "miss").Inc()
	}

	names, err := s.notices.ListCompanyNames(ctx)
	if err != nil {
		return dto.VisitedCompaniesResponse{}, storeError(err, "notice")
	}
	companies := placement.VisitedCompanies(names)

	if s.cache != nil {
		if payload, err := json.Marshal(companies); err == nil {
			if err := s.cache.Set(ctx, companiesCacheKey, payload, s.companiesTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store companies cache")
			}
		}
	}

	return dto.VisitedCompaniesResponse{Companies: companies, Count: len(companies)}, nil
}

// Live streams notice events to one student. Created notices are forwarded
// only when the student's current profile is eligible for them.
func (s *noticeService) Live(ctx context.Context, actor Actor) (<-chan dto.NoticeEvent, func(), error) {
	if s.events == nil {
		return nil, nil, errors.New("live notices are not enabled")
	}
	if _, err := s.students.GetByID(ctx, actor.ID); err != nil {
		return nil, nil, storeError(err, "student")
	}

	raw, unsubscribe := s.events.Subscribe()
	out := make(chan dto.NoticeEvent, noticeEventBufferSize)
	liveCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(out)
		for {
			select {
			case <-liveCtx.Done():
				return
			case event, ok := <-raw:
				if !ok {
					return
				}
				if event.Type == NoticeEventCreated && !s.eligibleNow(liveCtx, actor.ID, event.Notice) {
					continue
				}
				select {
				case out <- event:
				case <-liveCtx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		cancel()
		unsubscribe()
	}
	return out, cleanup, nil
}

func (s *noticeService) eligibleNow(ctx context.Context, studentID uint, notice dto.NoticeResponse) bool {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to load profile for live notice")
		return false
	}
	eligible := placement.IsEligible(student.Profile(), notice.Target())
	outcome := "live_skipped"
	if eligible {
		outcome = "live_delivered"
	}
	observability.EligibilityChecks().WithLabelValues(outcome).Inc()
	return eligible
}

func (s *noticeService) afterMutation(ctx context.Context, actor Actor, eventType string, notice dto.NoticeResponse) {
	if s.cache != nil {
		if err := s.cache.Del(ctx, companiesCacheKey).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate companies cache")
		}
	}
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
	if s.events != nil {
		s.events.Publish(ctx, dto.NoticeEvent{Type: eventType, Notice: notice, SentAt: time.Now().UTC()})
	}

	id := notice.ID
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     eventType,
		EntityType: "notice",
		EntityID:   &id,
		Metadata: map[string]interface{}{
			"company":  notice.CompanyName,
			"job_type": string(notice.JobType),
		},
	})
}
