// Package caseanalysis is the application service orchestrating case
// management, transcript analysis and division prediction over the domain
// ports.  All business rules live below in the analysis core; this layer
// handles persistence, caching, events and status bookkeeping.
package caseanalysis

import (
	"context"

	"github.com/x-ordo/evidentia/internal/analysis/engine"
	"github.com/x-ordo/evidentia/internal/analysis/prediction"
	"github.com/x-ordo/evidentia/internal/domain/caserecord"
	"github.com/x-ordo/evidentia/internal/domain/evidence"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// Deps bundles everything the service needs.  Engine and Predictor are
// required; Cache, Events and Attachments are optional and disable their
// feature when nil.
type Deps struct {
	Cases       caserecord.Repository
	Analyses    caserecord.AnalysisRepository
	Evidence    evidence.Repository
	Transcripts caserecord.TranscriptStore
	Attachments evidence.AttachmentStore
	Engine      *engine.Engine
	Predictor   *prediction.Predictor
	Cache       ResultCache
	Events      EventPublisher
	Logger      logging.Logger
}

// Service implements the case-analysis use cases.
type Service struct {
	deps Deps
	log  logging.Logger
}

// NewService constructs the application service.
func NewService(deps Deps) (*Service, error) {
	if deps.Cases == nil || deps.Analyses == nil || deps.Evidence == nil || deps.Transcripts == nil {
		return nil, errors.New(errors.ErrCodeInternal, "caseanalysis: missing repository dependency")
	}
	if deps.Engine == nil || deps.Predictor == nil {
		return nil, errors.New(errors.ErrCodeInternal, "caseanalysis: missing analysis core dependency")
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	return &Service{deps: deps, log: deps.Logger.Named("caseanalysis")}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Case management
// ─────────────────────────────────────────────────────────────────────────────

// CreateCase registers a new case.
func (s *Service) CreateCase(ctx context.Context, title, plaintiffName, defendantName string) (*caserecord.Case, error) {
	c, err := caserecord.NewCase(title, plaintiffName, defendantName)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Cases.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("case created", logging.String(logging.FieldCaseID, string(c.ID)))
	return c, nil
}

// GetCase fetches one case.
func (s *Service) GetCase(ctx context.Context, id common.ID) (*caserecord.Case, error) {
	return s.deps.Cases.GetByID(ctx, id)
}

// ListCases pages through cases.
func (s *Service) ListCases(ctx context.Context, filter caserecord.ListFilter) ([]*caserecord.Case, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.deps.Cases.List(ctx, filter)
}

// SetProperty records the marital estate figures for a case.
func (s *Service) SetProperty(ctx context.Context, id common.ID, totalAssets, totalDebts int64) (*caserecord.Case, error) {
	c, err := s.deps.Cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.SetProperty(totalAssets, totalDebts); err != nil {
		return nil, err
	}
	if err := s.deps.Cases.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CloseCase ends a case's lifecycle.
func (s *Service) CloseCase(ctx context.Context, id common.ID) error {
	c, err := s.deps.Cases.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Transition(caserecord.StatusClosed); err != nil {
		return err
	}
	return s.deps.Cases.Update(ctx, c)
}

// ─────────────────────────────────────────────────────────────────────────────
// Transcript and evidence intake
// ─────────────────────────────────────────────────────────────────────────────

// UploadTranscript stores the transcript in object storage and records its
// key on the case.  A re-upload replaces the previous transcript and
// invalidates any cached analysis.
func (s *Service) UploadTranscript(ctx context.Context, caseID common.ID, msgs []types.Message) (*caserecord.Case, error) {
	if err := caserecord.ValidateTranscript(msgs); err != nil {
		return nil, err
	}
	c, err := s.deps.Cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	key, err := s.deps.Transcripts.Put(ctx, caseID, msgs)
	if err != nil {
		return nil, err
	}
	old := c.TranscriptKey
	c.SetTranscript(key)
	if err := s.deps.Cases.Update(ctx, c); err != nil {
		return nil, err
	}
	if old != "" && old != key {
		if err := s.deps.Transcripts.Delete(ctx, old); err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("stale transcript cleanup failed",
				logging.String("object_key", old))
		}
	}
	s.invalidate(ctx, caseID)

	s.log.WithContext(ctx).Info("transcript uploaded",
		logging.String(logging.FieldCaseID, string(caseID)),
		logging.Int("messages", len(msgs)))
	return c, nil
}

// AddEvidence attaches a validated evidence item to a case.
func (s *Service) AddEvidence(ctx context.Context, caseID common.ID, et types.EvidenceType, categories []string, faultParty common.Party, description string) (*evidence.Item, error) {
	if _, err := s.deps.Cases.GetByID(ctx, caseID); err != nil {
		return nil, err
	}
	item, err := evidence.NewItem(caseID, et, categories, faultParty, description)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Evidence.Add(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, caseID)
	return item, nil
}

// ListEvidence returns a case's evidence items.
func (s *Service) ListEvidence(ctx context.Context, caseID common.ID) ([]*evidence.Item, error) {
	if _, err := s.deps.Cases.GetByID(ctx, caseID); err != nil {
		return nil, err
	}
	return s.deps.Evidence.ListByCase(ctx, caseID)
}

// RemoveEvidence deletes one evidence item along with its stored attachment.
func (s *Service) RemoveEvidence(ctx context.Context, caseID, evidenceID common.ID) error {
	item, err := s.deps.Evidence.GetByID(ctx, evidenceID)
	if err != nil {
		return err
	}
	if item.CaseID != caseID {
		return errors.Newf(errors.ErrCodeEvidenceNotFound, "evidence %s does not belong to case %s", evidenceID, caseID)
	}
	if err := s.deps.Evidence.Delete(ctx, evidenceID); err != nil {
		return err
	}
	if item.AttachmentKey != "" && s.deps.Attachments != nil {
		if err := s.deps.Attachments.Delete(ctx, item.AttachmentKey); err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("attachment cleanup failed",
				logging.String("object_key", item.AttachmentKey))
		}
	}
	s.invalidate(ctx, caseID)
	return nil
}

// AttachFile stores the raw evidence file in object storage and records its
// key on the item.
func (s *Service) AttachFile(ctx context.Context, caseID, evidenceID common.ID, contentType string, data []byte) (*evidence.Item, error) {
	if s.deps.Attachments == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "no attachment store configured")
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeBadRequest, "attachment body is empty")
	}
	item, err := s.deps.Evidence.GetByID(ctx, evidenceID)
	if err != nil {
		return nil, err
	}
	if item.CaseID != caseID {
		return nil, errors.Newf(errors.ErrCodeEvidenceNotFound, "evidence %s does not belong to case %s", evidenceID, caseID)
	}

	key, err := s.deps.Attachments.Put(ctx, caseID, evidenceID, contentType, data)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Evidence.SetAttachmentKey(ctx, evidenceID, key); err != nil {
		return nil, err
	}
	item.AttachmentKey = key

	s.log.WithContext(ctx).Info("attachment stored",
		logging.String(logging.FieldCaseID, string(caseID)),
		logging.String("object_key", key),
		logging.Int("bytes", len(data)))
	return item, nil
}

// AttachmentDownloadURL returns a time-limited URL for the item's stored file.
func (s *Service) AttachmentDownloadURL(ctx context.Context, caseID, evidenceID common.ID) (string, error) {
	if s.deps.Attachments == nil {
		return "", errors.New(errors.ErrCodeServiceUnavailable, "no attachment store configured")
	}
	item, err := s.deps.Evidence.GetByID(ctx, evidenceID)
	if err != nil {
		return "", err
	}
	if item.CaseID != caseID {
		return "", errors.Newf(errors.ErrCodeEvidenceNotFound, "evidence %s does not belong to case %s", evidenceID, caseID)
	}
	if item.AttachmentKey == "" {
		return "", errors.Newf(errors.ErrCodeNotFound, "evidence %s has no attachment", evidenceID)
	}
	return s.deps.Attachments.PresignDownload(ctx, item.AttachmentKey)
}

// ─────────────────────────────────────────────────────────────────────────────
// Analysis
// ─────────────────────────────────────────────────────────────────────────────

// RequestAnalysis marks the case ANALYZING and emits an analysis-requested
// event for the worker fleet.  Callers without a message bus should use
// AnalyzeCase directly.
func (s *Service) RequestAnalysis(ctx context.Context, caseID common.ID) error {
	c, err := s.deps.Cases.GetByID(ctx, caseID)
	if err != nil {
		return err
	}
	if c.TranscriptKey == "" {
		return errors.Newf(errors.ErrCodeBadRequest, "case %s has no transcript to analyze", caseID)
	}
	if err := c.Transition(caserecord.StatusAnalyzing); err != nil {
		return err
	}
	if err := s.deps.Cases.Update(ctx, c); err != nil {
		return err
	}
	if s.deps.Events == nil {
		return errors.New(errors.ErrCodeServiceUnavailable, "no event bus configured for async analysis")
	}
	return s.deps.Events.PublishAnalysisRequested(ctx, caseID)
}

// AnalyzeCase runs the full analysis synchronously: load the transcript,
// score and triage it, persist and cache the result, and emit the completion
// event.
func (s *Service) AnalyzeCase(ctx context.Context, caseID common.ID) (*types.AnalysisResult, error) {
	c, err := s.deps.Cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.TranscriptKey == "" {
		return nil, errors.Newf(errors.ErrCodeBadRequest, "case %s has no transcript to analyze", caseID)
	}

	msgs, err := s.deps.Transcripts.Get(ctx, c.TranscriptKey)
	if err != nil {
		return nil, err
	}

	result, err := s.deps.Engine.AnalyzeCase(ctx, caseID, msgs)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Analyses.SaveResult(ctx, result); err != nil {
		return nil, err
	}
	if c.Status == caserecord.StatusOpen || c.Status == caserecord.StatusAnalyzing {
		if c.Status == caserecord.StatusOpen {
			_ = c.Transition(caserecord.StatusAnalyzing)
		}
		if err := c.Transition(caserecord.StatusAnalyzed); err == nil {
			if err := s.deps.Cases.Update(ctx, c); err != nil {
				s.log.WithContext(ctx).WithError(err).Warn("case status update failed",
					logging.String(logging.FieldCaseID, string(caseID)))
			}
		}
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.SetAnalysis(ctx, result); err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("analysis cache write failed")
		}
	}
	if s.deps.Events != nil {
		if err := s.deps.Events.PublishAnalysisCompleted(ctx, result); err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("analysis-completed event publish failed")
		}
	}
	return result, nil
}

// GetAnalysis returns the latest analysis result, read through the cache.
func (s *Service) GetAnalysis(ctx context.Context, caseID common.ID) (*types.AnalysisResult, error) {
	if s.deps.Cache != nil {
		cached, err := s.deps.Cache.GetAnalysis(ctx, caseID)
		if err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("analysis cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}
	result, err := s.deps.Analyses.GetResult(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if s.deps.Cache != nil {
		if err := s.deps.Cache.SetAnalysis(ctx, result); err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("analysis cache write failed")
		}
	}
	return result, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Division prediction
// ─────────────────────────────────────────────────────────────────────────────

// PredictDivision computes and persists the division forecast from the case's
// evidence and property figures.
func (s *Service) PredictDivision(ctx context.Context, caseID common.ID) (*types.DivisionPrediction, error) {
	c, err := s.deps.Cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	items, err := s.deps.Evidence.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	evidences := make([]types.Evidence, len(items))
	for i, item := range items {
		evidences[i] = item.ToAnalysis()
	}

	pred, err := s.deps.Predictor.Predict(ctx, caseID, evidences, prediction.PropertyProfile{
		TotalAssets: c.TotalAssets,
		TotalDebts:  c.TotalDebts,
	})
	if err != nil {
		return nil, err
	}

	if err := s.deps.Analyses.SavePrediction(ctx, caseID, pred); err != nil {
		return nil, err
	}
	if s.deps.Cache != nil {
		if err := s.deps.Cache.SetPrediction(ctx, caseID, pred); err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("prediction cache write failed")
		}
	}
	s.log.WithContext(ctx).Info("division predicted",
		logging.String(logging.FieldCaseID, string(caseID)),
		logging.Int("plaintiff_ratio", pred.PlaintiffRatio),
		logging.String("confidence", string(pred.ConfidenceLevel)))
	return pred, nil
}

// GetPrediction returns the latest division forecast, read through the cache.
func (s *Service) GetPrediction(ctx context.Context, caseID common.ID) (*types.DivisionPrediction, error) {
	if s.deps.Cache != nil {
		cached, err := s.deps.Cache.GetPrediction(ctx, caseID)
		if err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("prediction cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.deps.Analyses.GetPrediction(ctx, caseID)
}

func (s *Service) invalidate(ctx context.Context, caseID common.ID) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Invalidate(ctx, caseID); err != nil {
		s.log.WithContext(ctx).WithError(err).Warn("cache invalidation failed",
			logging.String(logging.FieldCaseID, string(caseID)))
	}
}
