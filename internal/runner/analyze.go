// internal/runner/analyze.go
package runner

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/davenull7x/listforge/internal/config"
	"github.com/davenull7x/listforge/internal/extract"
	"github.com/davenull7x/listforge/internal/profile"
	"github.com/davenull7x/listforge/internal/schema"
	"github.com/davenull7x/listforge/internal/store"
)

// AnalysisDriver is the browser capability the profiling pass needs. The
// production implementation is *browser.Session; the caller acquires it once
// per run and directories share it strictly sequentially.
type AnalysisDriver interface {
	Navigate(url string) error
	Evaluate(expr string, out any) error
	ClickSelector(selector string) (bool, error)
	ClickByText(text string) (bool, error)
	WaitForAsync(d time.Duration) error
}

// AnalyzeSummary is the operator-facing outcome of one profiling pass.
// Analyzed counts every page that was inspected end to end, including pages
// that ended up flagged for manual submission; Failed counts only pages the
// pass could not navigate to or extract from. The split matches the success
// notion of the field statistics report.
type AnalyzeSummary struct {
	Analyzed int
	Failed   int
}

// Analyzer profiles each directory: navigate, optionally reveal, extract,
// classify and persist a SiteConfig, while feeding the field frequency
// aggregator. Per-directory failures never abort the pass.
type Analyzer struct {
	cfg       *config.Config
	extractor *extract.Extractor
	builder   *profile.Builder
	store     *store.Store
	log       *zap.Logger
}

func NewAnalyzer(cfg *config.Config, st *store.Store, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		cfg:       cfg,
		extractor: extract.New(logger),
		builder:   profile.NewBuilder(logger),
		store:     st,
		log:       logger.Named("analyzer"),
	}
}

// Run profiles all directories over one shared driver and flushes the
// profile and statistics stores once at the end.
func (a *Analyzer) Run(ctx context.Context, driver AnalysisDriver, dirs []schema.DirectoryRecord) (AnalyzeSummary, error) {
	var summary AnalyzeSummary

	profiles := make(map[string]schema.SiteConfig, len(dirs))
	perSite := make(map[string]schema.PageExtraction, len(dirs))
	agg := profile.NewAggregator()

	limiter := rate.NewLimiter(rate.Every(a.cfg.Run.InterDirectoryDelay), 1)

	for _, dir := range dirs {
		if err := limiter.Wait(ctx); err != nil {
			return summary, err
		}

		siteCfg, analyzed := a.analyzeOne(driver, dir, agg, perSite)
		profiles[dir.Name] = siteCfg
		if analyzed {
			summary.Analyzed++
		} else {
			summary.Failed++
		}
	}

	if err := a.store.SaveProfiles(profiles); err != nil {
		return summary, err
	}
	if err := a.store.SaveStats(agg.Report(perSite)); err != nil {
		return summary, err
	}

	a.log.Info("Profiling pass complete",
		zap.Int("analyzed", summary.Analyzed),
		zap.Int("failed", summary.Failed),
		zap.Int("total", agg.TotalSites()))
	return summary, nil
}

func (a *Analyzer) analyzeOne(
	driver AnalysisDriver,
	dir schema.DirectoryRecord,
	agg *profile.Aggregator,
	perSite map[string]schema.PageExtraction,
) (schema.SiteConfig, bool) {
	log := a.log.With(zap.String("directory", dir.Name))

	url := dir.URL
	if dir.SubmitURL != "" {
		url = dir.SubmitURL
	}

	if err := driver.Navigate(url); err != nil {
		agg.ObserveFailure(dir.Name)
		return a.builder.BuildFailure(url, err), false
	}

	if dir.RevealControl != "" {
		attempts := profile.ParseRevealControl(dir.RevealControl)
		if _, err := profile.ExecuteReveal(driver, attempts, log); err != nil {
			// The site is analyzed as if the control doesn't exist.
			log.Warn("Reveal control not resolved during analysis", zap.Error(err))
		} else if err := driver.WaitForAsync(a.cfg.Run.SettleDelay); err != nil {
			log.Debug("Settle wait interrupted", zap.Error(err))
		}
	}

	ext, err := a.extractor.Extract(driver)
	if err != nil {
		agg.ObserveFailure(dir.Name)
		return a.builder.BuildFailure(url, err), false
	}

	agg.ObserveSite(dir.Name, ext.Forms)
	perSite[dir.Name] = ext
	return a.builder.Build(ext), true
}
