package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	db "psetu-backend/database"
	"psetu-backend/gcs"
	"psetu-backend/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const programImageFolder = "programs"

type DonationService struct {
	programs ProgramStore
	uploader ImageUploader
	logger   logrus.FieldLogger
}

// NewDonationService accepts a nil uploader when no bucket is configured.
func NewDonationService(programs ProgramStore, uploader ImageUploader, logger logrus.FieldLogger) *DonationService {
	return &DonationService{programs: programs, uploader: uploader, logger: logger}
}

type ProgramInput struct {
	Title       string
	Description string
	GoalAmount  float64
	ImageURL    string
	Category    string
	Location    string
	Urgent      bool
}

func (s *DonationService) CreateProgram(ctx context.Context, in ProgramInput) (*models.DonationProgram, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" || in.GoalAmount == 0 {
		return nil, ErrMissingFields
	}
	if in.GoalAmount < 0 {
		return nil, ErrInvalidAmount
	}

	program := &models.DonationProgram{
		Title:       title,
		Description: description,
		GoalAmount:  in.GoalAmount,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Category:    strings.TrimSpace(in.Category),
		Location:    strings.TrimSpace(in.Location),
		Urgent:      in.Urgent,
	}
	if program.Category == "" {
		program.Category = models.DefaultProgramCategory
	}
	if program.Location == "" {
		program.Location = models.DefaultProgramLocation
	}

	if err := s.programs.Insert(ctx, program); err != nil {
		return nil, fmt.Errorf("insert donation program: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"program_id": program.ID.Hex(),
		"title":      program.Title,
	}).Info("donation program created")
	return program, nil
}

func (s *DonationService) ListPrograms(ctx context.Context) ([]models.DonationProgram, error) {
	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donation programs: %w", err)
	}
	if programs == nil {
		programs = []models.DonationProgram{}
	}
	return programs, nil
}

func (s *DonationService) GetProgram(ctx context.Context, id string) (*models.DonationProgram, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	program, err := s.programs.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("find donation program: %w", err)
	}
	return program, nil
}

// UploadImage stores a program image and returns its public URL.
func (s *DonationService) UploadImage(ctx context.Context, r io.Reader, contentType string) (string, error) {
	if s.uploader == nil {
		return "", ErrUploadsDisabled
	}
	if _, ok := gcs.ExtensionFor(contentType); !ok {
		return "", ErrUnsupportedImage
	}

	url, err := s.uploader.Upload(ctx, r, contentType, programImageFolder)
	if err != nil {
		return "", fmt.Errorf("upload program image: %w", err)
	}
	return url, nil
}

// Seed inserts the given programs only when the collection is empty.
// It returns how many were inserted.
func (s *DonationService) Seed(ctx context.Context, inputs []ProgramInput) (int, error) {
	count, err := s.programs.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count donation programs: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, in := range inputs {
		if _, err := s.CreateProgram(ctx, in); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
