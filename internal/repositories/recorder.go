package repositories

import (
	"fmt"

	"github.com/desertthunder/m3ux/internal/models"
)

// RunRecorder implements tasks.RunRecorder using ConversionRepository.
//
// Each finished run becomes one conversions row plus one unmatched_tracks row per failure.
type RunRecorder struct {
	repo *ConversionRepository
}

// NewRunRecorder creates a new RunRecorder with the given repository
func NewRunRecorder(repo *ConversionRepository) *RunRecorder {
	return &RunRecorder{repo: repo}
}

// RecordRun stores a finished conversion and returns its ID.
func (a *RunRecorder) RecordRun(sourceLink, libraryRoot, outputPath string, outcome models.ConversionOutcome, written bool) (string, error) {
	conversion := models.NewConversion(sourceLink, libraryRoot, outputPath, outcome, written)
	if err := a.repo.Create(conversion); err != nil {
		return "", fmt.Errorf("failed to record conversion: %w", err)
	}

	var unmatched []models.RemoteTrack
	for _, r := range outcome.Results {
		if !r.Matched() {
			unmatched = append(unmatched, r.Remote)
		}
	}
	if len(unmatched) == 0 {
		return conversion.ID(), nil
	}

	if err := a.repo.AddUnmatched(conversion.ID(), unmatched); err != nil {
		return conversion.ID(), err
	}
	return conversion.ID(), nil
}
