package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/observability"
	"github.com/noah-isme/placement-portal-api/internal/repository"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("only PDF resumes are accepted")
	// ErrUploadMissing indicates no file was attached.
	ErrUploadMissing = errors.New("file is required")
	// ErrUploadsDisabled indicates no storage backend is configured.
	ErrUploadsDisabled = errors.New("resume uploads are not configured")
)

const resumeMimeType = "application/pdf"

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ResumeService validates and stores student resumes.
type ResumeService interface {
	Upload(ctx context.Context, actor Actor, file *multipart.FileHeader) (dto.ResumeResponse, error)
}

type resumeService struct {
	storage  FileStorage
	students repository.StudentRepository
	logger   zerolog.Logger
	maxSize  int64
	tracer   trace.Tracer
}

// NewResumeService constructs a resume service. A nil storage disables uploads.
func NewResumeService(storage FileStorage, students repository.StudentRepository, maxSizeMB int, logger zerolog.Logger) ResumeService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &resumeService{
		storage:  storage,
		students: students,
		logger:   logger.With().Str("component", "resume_service").Logger(),
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		tracer:   otel.Tracer("github.com/noah-isme/placement-portal-api/internal/service/resume"),
	}
}

func (s *resumeService) Upload(ctx context.Context, actor Actor, file *multipart.FileHeader) (dto.ResumeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "resume.store")
	defer span.End()
	span.SetAttributes(attribute.Int64("upload.max_bytes", s.maxSize), attribute.Int("upload.student_id", int(actor.ID)))

	if s.storage == nil {
		return dto.ResumeResponse{}, ErrUploadsDisabled
	}
	if file == nil {
		span.SetStatus(codes.Error, "file missing")
		return dto.ResumeResponse{}, ErrUploadMissing
	}

	if file.Size > s.maxSize {
		return dto.ResumeResponse{}, s.reject(span, "size", ErrUploadTooLarge)
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		return dto.ResumeResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		return dto.ResumeResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		return dto.ResumeResponse{}, s.reject(span, "size", ErrUploadTooLarge)
	}

	detected := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", detected.String()))
	if !detected.Is(resumeMimeType) {
		return dto.ResumeResponse{}, s.reject(span, "type", ErrUploadTypeNotAllowed)
	}

	student, err := s.students.GetByID(ctx, actor.ID)
	if err != nil {
		span.RecordError(err)
		return dto.ResumeResponse{}, storeError(err, "student")
	}

	checksum := sha256.Sum256(buf.Bytes())
	name := fmt.Sprintf("%s-resume.pdf", strings.ToLower(student.USN))

	url, err := s.storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return dto.ResumeResponse{}, s.reject(span, "storage", err)
	}

	if _, err := s.students.Update(ctx, student.ID, map[string]interface{}{"resume_url": url}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.ResumeResponse{}, storeError(err, "student")
	}

	observability.ResumeUploads().WithLabelValues("stored").Inc()
	observability.ResumeUploadBytes().Observe(float64(buf.Len()))
	span.SetStatus(codes.Ok, "stored")
	s.logger.Info().Str("usn", student.USN).Int("size_bytes", buf.Len()).Msg("resume uploaded")

	return dto.ResumeResponse{
		URL:       url,
		MimeType:  resumeMimeType,
		SizeBytes: int64(buf.Len()),
		Checksum:  hex.EncodeToString(checksum[:]),
	}, nil
}

func (s *resumeService) reject(span trace.Span, reason string, err error) error {
	observability.ResumeUploads().WithLabelValues(reason).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	return err
}
