package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Enabled reports whether every credential is present.
func (c Config) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// ResumeStore keeps student resumes in Cloudinary. Each student owns a
// single asset that is overwritten on every upload.
type ResumeStore struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary resume store.
func New(cfg Config, logger zerolog.Logger) (*ResumeStore, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	folder := strings.Trim(cfg.Folder, "/")
	if folder == "" {
		folder = "resumes"
	}

	return &ResumeStore{
		client: cld,
		folder: folder,
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload sends the PDF to Cloudinary and returns its secure URL.
func (s *ResumeStore) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	publicID := PublicID(name)

	params := uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       publicID,
		ResourceType:   "raw",
		Overwrite:      api.Bool(true),
		Invalidate:     api.Bool(true),
		UniqueFilename: api.Bool(false),
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload resume: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected resume: %s", result.Error.Message)
	}

	s.logger.Info().Str("public_id", result.PublicID).Msg("resume uploaded to cloudinary")

	return result.SecureURL, nil
}

// PublicID derives a stable asset id from a file name. Raw assets keep their
// extension in the id so the delivered URL ends in .pdf.
func PublicID(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, strings.ToLower(base))

	base = strings.Trim(base, "-")
	if base == "" {
		base = "resume"
	}

	return base + ext
}
