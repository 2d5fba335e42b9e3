// internal/submit/orchestrator.go
package submit

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/config"
	"github.com/davenull7x/listforge/internal/profile"
	"github.com/davenull7x/listforge/internal/schema"
)

// PageDriver is the capability surface the orchestrator drives. It is
// injected rather than inherited so each capability can be tested in
// isolation; internal/browser.Session is the production implementation.
type PageDriver interface {
	Navigate(url string) error
	ClickSelector(selector string) (bool, error)
	ClickByText(text string) (bool, error)
	ElementExists(selector string) (bool, error)
	ClearAndType(selector, text string) error
	SetSelectValue(selector, value string) (bool, error)
	WaitForAsync(d time.Duration) error
	WaitNavigationOrGrace(grace time.Duration) (bool, error)
	Screenshot(path string) error
}

// Orchestrator replays persisted site profiles through the live
// fill-and-submit sequence: navigate, optional reveal, fill, optional
// CAPTCHA pause, submit, classify. Every failure is scoped to the current
// directory; the orchestrator itself never returns an error.
type Orchestrator struct {
	driver   PageDriver
	profiles map[string]schema.SiteConfig
	run      config.RunConfig
	log      *zap.Logger
}

func New(driver PageDriver, profiles map[string]schema.SiteConfig, run config.RunConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		driver:   driver,
		profiles: profiles,
		run:      run,
		log:      logger.Named("orchestrator"),
	}
}

// Submit runs the state machine for one directory and yields its terminal
// classification.
func (o *Orchestrator) Submit(dir schema.DirectoryRecord, data schema.SubmissionData) schema.SubmissionResult {
	log := o.log.With(zap.String("directory", dir.Name))

	// An explicit submit URL is assumed to land directly on the form, which
	// also suppresses the reveal step below.
	targetURL := dir.URL
	usedSubmitURL := false
	if dir.SubmitURL != "" {
		targetURL = dir.SubmitURL
		usedSubmitURL = true
	}

	// Init -> Navigated. Failure here is terminal for this directory only.
	if err := o.driver.Navigate(targetURL); err != nil {
		o.captureFailure(dir.Name, log)
		return schema.SubmissionResult{
			Message: fmt.Sprintf("navigation to %s failed: %v", targetURL, err),
		}
	}

	siteCfg, hasProfile := o.profiles[dir.Name]
	if !hasProfile {
		// The page visit above gives the operator context even without a
		// profile; no fill is attempted.
		log.Warn("No site profile recorded; manual submission required")
		return schema.SubmissionResult{
			RequiresManual: true,
			Message:        schema.ErrProfileMissing.Error() + "; page visited for manual submission",
		}
	}

	// Navigated -> Revealed.
	if dir.RevealControl != "" && !usedSubmitURL {
		attempts := profile.ParseRevealControl(dir.RevealControl)
		if _, err := profile.ExecuteReveal(o.driver, attempts, log); err != nil {
			// Non-fatal: proceed as if no reveal step existed.
			log.Warn("Reveal control not resolved; continuing", zap.Error(err))
		} else if err := o.driver.WaitForAsync(o.run.SettleDelay); err != nil {
			log.Debug("Settle wait interrupted", zap.Error(err))
		}
	}

	// Revealed/Navigated -> Filled: short-circuit when the profile cannot
	// be used.
	if siteCfg.ManualSubmissionRequired || siteCfg.Error != "" {
		msg := "site profile flags manual submission"
		if siteCfg.Error != "" {
			msg += ": " + siteCfg.Error
		}
		return schema.SubmissionResult{
			RequiresManual: true,
			UsedSiteConfig: true,
			Message:        msg,
		}
	}
	if siteCfg.Form == nil {
		return schema.SubmissionResult{
			UsedSiteConfig: true,
			Message:        "site profile carries no form block; nothing to fill",
		}
	}

	filled, skipped := o.fillFields(siteCfg.Form.Fields, data, log)

	// Filled -> AwaitingCaptcha: a fixed, non-cancellable pause assumed long
	// enough for a human to solve the challenge.
	if siteCfg.RequiresCaptcha {
		log.Info("CAPTCHA present; pausing for manual solve",
			zap.Duration("wait", o.run.CaptchaWait))
		if err := o.driver.WaitForAsync(o.run.CaptchaWait); err != nil {
			log.Debug("CAPTCHA wait interrupted", zap.Error(err))
		}
	}

	// -> Submitted.
	found, err := o.driver.ClickSelector(siteCfg.Form.SubmitButtonSelector)
	if err != nil {
		o.captureFailure(dir.Name, log)
		return schema.SubmissionResult{
			UsedSiteConfig: true,
			Message:        fmt.Sprintf("submit activation failed: %v", err),
		}
	}
	if !found {
		return schema.SubmissionResult{
			UsedSiteConfig: true,
			Message: fmt.Sprintf("%s: %q",
				schema.ErrSubmitButtonNotFound, siteCfg.Form.SubmitButtonSelector),
		}
	}

	// Submission may be asynchronous and produce no navigation; not an
	// error either way.
	navigated, _ := o.driver.WaitNavigationOrGrace(o.run.SubmitGrace)

	msg := fmt.Sprintf("submitted: %d fields filled, %d skipped", filled, skipped)
	if navigated {
		msg += "; navigation observed"
	} else {
		msg += "; no navigation observed"
	}
	log.Info("Submission completed", zap.String("outcome", msg))
	return schema.SubmissionResult{
		Success:        true,
		UsedSiteConfig: true,
		Message:        msg,
	}
}

// fillFields populates every canonical key present in both the mapping and
// the submission data. A missing element skips that field only; the fill
// never aborts the submission. Keys are walked in sorted order so behavior
// is reproducible.
func (o *Orchestrator) fillFields(fields schema.FieldMapping, data schema.SubmissionData, log *zap.Logger) (filled, skipped int) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		target := fields[key]
		value, ok := data.Value(key)
		if !ok {
			continue
		}

		exists, err := o.driver.ElementExists(target.Selector)
		if err != nil || !exists {
			log.Debug("Field not found on page; skipped",
				zap.String("key", key),
				zap.String("selector", target.Selector),
				zap.Error(err))
			skipped++
			continue
		}

		switch target.Type {
		case "select":
			matched, err := o.driver.SetSelectValue(target.Selector, value)
			if err != nil || !matched {
				log.Debug("Select option not matched; skipped",
					zap.String("key", key), zap.Error(err))
				skipped++
				continue
			}
		default:
			// Text-like controls: clear existing content, then type.
			if err := o.driver.ClearAndType(target.Selector, value); err != nil {
				log.Debug("Typing failed; field skipped",
					zap.String("key", key), zap.Error(err))
				skipped++
				continue
			}
		}
		filled++
	}
	return filled, skipped
}

func (o *Orchestrator) captureFailure(name string, log *zap.Logger) {
	if !o.run.CaptureScreenshotOnError {
		return
	}
	path := filepath.Join(o.run.ScreenshotDir, sanitizeFilename(name)+".png")
	if err := o.driver.Screenshot(path); err != nil {
		log.Debug("Failed to capture error screenshot", zap.Error(err))
	}
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
