// internal/runner/submit.go
package runner

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/davenull7x/listforge/internal/config"
	"github.com/davenull7x/listforge/internal/enhance"
	"github.com/davenull7x/listforge/internal/schema"
	"github.com/davenull7x/listforge/internal/store"
	"github.com/davenull7x/listforge/internal/submit"
)

// SubmitSummary is the operator-facing outcome of one submission pass.
type SubmitSummary struct {
	Succeeded int
	Failed    int
	Manual    int
}

// Submitter replays stored site profiles against each directory with the
// operator's submission data. One failed directory never stops the pass;
// every attempt is recorded before the next one starts.
type Submitter struct {
	cfg      *config.Config
	store    *store.Store
	enhancer enhance.Enhancer
	log      *zap.Logger
}

func NewSubmitter(cfg *config.Config, st *store.Store, enhancer enhance.Enhancer, logger *zap.Logger) *Submitter {
	return &Submitter{
		cfg:      cfg,
		store:    st,
		enhancer: enhancer,
		log:      logger.Named("submitter"),
	}
}

// Run submits to all directories over one shared driver. The enhancer, when
// configured, is consulted once up front; any enhancer failure falls back to
// the operator's original content.
func (s *Submitter) Run(ctx context.Context, driver submit.PageDriver, dirs []schema.DirectoryRecord, data schema.SubmissionData) (SubmitSummary, error) {
	var summary SubmitSummary

	profiles, err := s.store.LoadProfiles()
	if err != nil {
		return summary, err
	}
	if len(profiles) == 0 {
		s.log.Warn("No site profiles on disk; every submission will require manual handling")
	}

	data = s.enhance(ctx, data)

	orch := submit.New(driver, profiles, s.cfg.Run, s.log)
	limiter := rate.NewLimiter(rate.Every(s.cfg.Run.InterDirectoryDelay), 1)

	for _, dir := range dirs {
		if err := limiter.Wait(ctx); err != nil {
			return summary, err
		}

		result := orch.Submit(dir, data)
		if err := s.store.AppendResult(dir.Name, dir.URL, result); err != nil {
			s.log.Error("Failed to record submission result",
				zap.String("directory", dir.Name), zap.Error(err))
		}

		switch {
		case result.RequiresManual:
			summary.Manual++
		case result.Success:
			summary.Succeeded++
		default:
			summary.Failed++
		}
	}

	s.log.Info("Submission pass complete",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("manual", summary.Manual))
	return summary, nil
}

func (s *Submitter) enhance(ctx context.Context, data schema.SubmissionData) schema.SubmissionData {
	if s.enhancer == nil {
		return data
	}

	req := enhance.Request{
		URL:         data.URL,
		Title:       data.Name,
		Description: data.Description,
		Keywords:    data.Tags,
	}
	suggestion, err := s.enhancer.Improve(ctx, req)
	if err != nil {
		s.log.Warn("Content enhancement failed; keeping original submission data", zap.Error(err))
		return data
	}
	enhance.Apply(&data, suggestion)
	return data
}
