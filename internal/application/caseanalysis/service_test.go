package caseanalysis

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-ordo/evidentia/internal/analysis/engine"
	"github.com/x-ordo/evidentia/internal/analysis/impact"
	"github.com/x-ordo/evidentia/internal/analysis/lexicon"
	"github.com/x-ordo/evidentia/internal/analysis/prediction"
	"github.com/x-ordo/evidentia/internal/analysis/risk"
	"github.com/x-ordo/evidentia/internal/analysis/scoring"
	"github.com/x-ordo/evidentia/internal/domain/caserecord"
	"github.com/x-ordo/evidentia/internal/domain/evidence"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeCaseRepo struct {
	mu    sync.Mutex
	cases map[common.ID]*caserecord.Case
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: map[common.ID]*caserecord.Case{}}
}

func (r *fakeCaseRepo) Create(_ context.Context, c *caserecord.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cases[c.ID]; ok {
		return errors.Newf(errors.ErrCodeCaseAlreadyExists, "case %s exists", c.ID)
	}
	cp := *c
	r.cases[c.ID] = &cp
	return nil
}

func (r *fakeCaseRepo) GetByID(_ context.Context, id common.ID) (*caserecord.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeCaseNotFound, "case %s not found", id)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCaseRepo) Update(_ context.Context, c *caserecord.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cases[c.ID]; !ok {
		return errors.Newf(errors.ErrCodeCaseNotFound, "case %s not found", c.ID)
	}
	cp := *c
	r.cases[c.ID] = &cp
	return nil
}

func (r *fakeCaseRepo) Delete(_ context.Context, id common.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cases, id)
	return nil
}

func (r *fakeCaseRepo) List(_ context.Context, filter caserecord.ListFilter) ([]*caserecord.Case, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*caserecord.Case
	for _, c := range r.cases {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

type fakeAnalysisRepo struct {
	mu          sync.Mutex
	results     map[common.ID]*types.AnalysisResult
	predictions map[common.ID]*types.DivisionPrediction
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{
		results:     map[common.ID]*types.AnalysisResult{},
		predictions: map[common.ID]*types.DivisionPrediction{},
	}
}

func (r *fakeAnalysisRepo) SaveResult(_ context.Context, result *types.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.CaseID] = result
	return nil
}

func (r *fakeAnalysisRepo) GetResult(_ context.Context, caseID common.ID) (*types.AnalysisResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[caseID]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeAnalysisNotFound, "no analysis for case %s", caseID)
	}
	return res, nil
}

func (r *fakeAnalysisRepo) SavePrediction(_ context.Context, caseID common.ID, p *types.DivisionPrediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predictions[caseID] = p
	return nil
}

func (r *fakeAnalysisRepo) GetPrediction(_ context.Context, caseID common.ID) (*types.DivisionPrediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.predictions[caseID]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeAnalysisNotFound, "no prediction for case %s", caseID)
	}
	return p, nil
}

type fakeEvidenceRepo struct {
	mu    sync.Mutex
	items map[common.ID]*evidence.Item
}

func newFakeEvidenceRepo() *fakeEvidenceRepo {
	return &fakeEvidenceRepo{items: map[common.ID]*evidence.Item{}}
}

func (r *fakeEvidenceRepo) Add(_ context.Context, item *evidence.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *fakeEvidenceRepo) GetByID(_ context.Context, id common.ID) (*evidence.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeEvidenceNotFound, "evidence %s not found", id)
	}
	return item, nil
}

func (r *fakeEvidenceRepo) ListByCase(_ context.Context, caseID common.ID) ([]*evidence.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*evidence.Item
	for _, item := range r.items {
		if item.CaseID == caseID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeEvidenceRepo) SetAttachmentKey(_ context.Context, id common.ID, objectKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return errors.Newf(errors.ErrCodeEvidenceNotFound, "evidence %s not found", id)
	}
	item.AttachmentKey = objectKey
	return nil
}

func (r *fakeEvidenceRepo) Delete(_ context.Context, id common.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return errors.Newf(errors.ErrCodeEvidenceNotFound, "evidence %s not found", id)
	}
	delete(r.items, id)
	return nil
}

type fakeTranscriptStore struct {
	mu      sync.Mutex
	objects map[string][]types.Message
	n       int
}

func newFakeTranscriptStore() *fakeTranscriptStore {
	return &fakeTranscriptStore{objects: map[string][]types.Message{}}
}

func (s *fakeTranscriptStore) Put(_ context.Context, caseID common.ID, msgs []types.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	key := string(caseID) + "/transcript-" + string(rune('0'+s.n))
	s.objects[key] = msgs
	return key, nil
}

func (s *fakeTranscriptStore) Get(_ context.Context, key string) ([]types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs, ok := s.objects[key]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeNotFound, "object %s not found", key)
	}
	return msgs, nil
}

func (s *fakeTranscriptStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type fakeAttachmentStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeAttachmentStore() *fakeAttachmentStore {
	return &fakeAttachmentStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeAttachmentStore) Put(_ context.Context, caseID, evidenceID common.ID, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := "cases/" + string(caseID) + "/evidence/" + string(evidenceID)
	s.objects[key] = data
	s.types[key] = contentType
	return key, nil
}

func (s *fakeAttachmentStore) Get(_ context.Context, objectKey string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectKey]
	if !ok {
		return nil, "", errors.Newf(errors.ErrCodeNotFound, "attachment %s not found", objectKey)
	}
	return data, s.types[objectKey], nil
}

func (s *fakeAttachmentStore) PresignDownload(_ context.Context, objectKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectKey]; !ok {
		return "", errors.Newf(errors.ErrCodeNotFound, "attachment %s not found", objectKey)
	}
	return "https://storage.local/" + objectKey + "?signed=1", nil
}

func (s *fakeAttachmentStore) Delete(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	delete(s.types, objectKey)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	results     map[common.ID]*types.AnalysisResult
	predictions map[common.ID]*types.DivisionPrediction
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		results:     map[common.ID]*types.AnalysisResult{},
		predictions: map[common.ID]*types.DivisionPrediction{},
	}
}

func (c *fakeCache) GetAnalysis(_ context.Context, caseID common.ID) (*types.AnalysisResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results[caseID], nil
}

func (c *fakeCache) SetAnalysis(_ context.Context, result *types.AnalysisResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[result.CaseID] = result
	return nil
}

func (c *fakeCache) GetPrediction(_ context.Context, caseID common.ID) (*types.DivisionPrediction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.predictions[caseID], nil
}

func (c *fakeCache) SetPrediction(_ context.Context, caseID common.ID, p *types.DivisionPrediction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.predictions[caseID] = p
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, caseID common.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, caseID)
	delete(c.predictions, caseID)
	return nil
}

type fakeEvents struct {
	mu        sync.Mutex
	requested []common.ID
	completed []common.ID
}

func (e *fakeEvents) PublishAnalysisRequested(_ context.Context, caseID common.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requested = append(e.requested, caseID)
	return nil
}

func (e *fakeEvents) PublishAnalysisCompleted(_ context.Context, result *types.AnalysisResult) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completed = append(e.completed, result.CaseID)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixture
// ─────────────────────────────────────────────────────────────────────────────

type fixture struct {
	svc         *Service
	cases       *fakeCaseRepo
	analyses    *fakeAnalysisRepo
	evidence    *fakeEvidenceRepo
	transcripts *fakeTranscriptStore
	attachments *fakeAttachmentStore
	cache       *fakeCache
	events      *fakeEvents
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	lex := lexicon.NewDefault()
	f := &fixture{
		cases:       newFakeCaseRepo(),
		analyses:    newFakeAnalysisRepo(),
		evidence:    newFakeEvidenceRepo(),
		transcripts: newFakeTranscriptStore(),
		attachments: newFakeAttachmentStore(),
		cache:       newFakeCache(),
		events:      &fakeEvents{},
	}
	eng := engine.NewEngine(scoring.NewScorer(lex), risk.NewAnalyzer(), logging.NewNopLogger())
	pred := prediction.NewPredictor(impact.NewAnalyzer(impact.NewDefaultRuleTable(), lex), nil, logging.NewNopLogger())

	svc, err := NewService(Deps{
		Cases:       f.cases,
		Analyses:    f.analyses,
		Evidence:    f.evidence,
		Transcripts: f.transcripts,
		Attachments: f.attachments,
		Engine:      eng,
		Predictor:   pred,
		Cache:       f.cache,
		Events:      f.events,
		Logger:      logging.NewNopLogger(),
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) createCase(t *testing.T) *caserecord.Case {
	t.Helper()
	c, err := f.svc.CreateCase(context.Background(), "이혼 사건", "김원고", "이피고")
	require.NoError(t, err)
	return c
}

func transcript(contents ...string) []types.Message {
	out := make([]types.Message, len(contents))
	for i, c := range contents {
		out[i] = types.Message{Content: c, Sender: "상대방"}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestNewService_MissingDeps(t *testing.T) {
	_, err := NewService(Deps{})
	assert.Error(t, err)
}

func TestCreateAndGetCase(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	got, err := f.svc.GetCase(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Title, got.Title)
	assert.Equal(t, caserecord.StatusOpen, got.Status)
}

func TestGetCase_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetCase(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestUploadTranscript_StoresAndReplacesObject(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	updated, err := f.svc.UploadTranscript(context.Background(), c.ID, transcript("이혼하자"))
	require.NoError(t, err)
	firstKey := updated.TranscriptKey
	assert.NotEmpty(t, firstKey)

	updated, err = f.svc.UploadTranscript(context.Background(), c.ID, transcript("다시 얘기하자"))
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, updated.TranscriptKey)

	// The stale object was removed.
	_, err = f.transcripts.Get(context.Background(), firstKey)
	assert.Error(t, err)
}

func TestUploadTranscript_TooLarge(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	_, err := f.svc.UploadTranscript(context.Background(), c.ID, make([]types.Message, caserecord.MaxTranscriptMessages+1))
	assert.True(t, errors.IsCode(err, errors.ErrCodeTranscriptTooLarge))
}

func TestAnalyzeCase_FullFlow(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)
	_, err := f.svc.UploadTranscript(context.Background(), c.ID, transcript(
		"폭행을 당해서 병원 진단서를 받았어요",
		"이혼 소송을 준비 중입니다",
	))
	require.NoError(t, err)

	result, err := f.svc.AnalyzeCase(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, result.CaseID)
	assert.Equal(t, 2, result.TotalMessages)

	// Persisted, cached, status updated and event emitted.
	stored, err := f.analyses.GetResult(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, result, stored)

	cached, _ := f.cache.GetAnalysis(context.Background(), c.ID)
	assert.Equal(t, result, cached)

	after, _ := f.svc.GetCase(context.Background(), c.ID)
	assert.Equal(t, caserecord.StatusAnalyzed, after.Status)

	assert.Equal(t, []common.ID{c.ID}, f.events.completed)
}

func TestAnalyzeCase_NoTranscript(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	_, err := f.svc.AnalyzeCase(context.Background(), c.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestRequestAnalysis_PublishesEvent(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)
	_, err := f.svc.UploadTranscript(context.Background(), c.ID, transcript("이혼"))
	require.NoError(t, err)

	require.NoError(t, f.svc.RequestAnalysis(context.Background(), c.ID))
	assert.Equal(t, []common.ID{c.ID}, f.events.requested)

	after, _ := f.svc.GetCase(context.Background(), c.ID)
	assert.Equal(t, caserecord.StatusAnalyzing, after.Status)
}

func TestGetAnalysis_CacheHitSkipsRepository(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	cached := &types.AnalysisResult{CaseID: c.ID, TotalMessages: 42}
	require.NoError(t, f.cache.SetAnalysis(context.Background(), cached))

	got, err := f.svc.GetAnalysis(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.TotalMessages)
}

func TestGetAnalysis_MissEverywhere(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	_, err := f.svc.GetAnalysis(context.Background(), c.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisNotFound))
}

func TestAddEvidence_InvalidatesCache(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)
	require.NoError(t, f.cache.SetAnalysis(context.Background(), &types.AnalysisResult{CaseID: c.ID}))

	_, err := f.svc.AddEvidence(context.Background(), c.ID, types.EvidenceChatLog, []string{"adultery"}, common.PartyDefendant, "")
	require.NoError(t, err)

	cached, _ := f.cache.GetAnalysis(context.Background(), c.ID)
	assert.Nil(t, cached)
}

func TestRemoveEvidence_WrongCaseRejected(t *testing.T) {
	f := newFixture(t)
	c1 := f.createCase(t)
	c2 := f.createCase(t)

	item, err := f.svc.AddEvidence(context.Background(), c1.ID, types.EvidencePhoto, []string{"violence"}, common.PartyDefendant, "")
	require.NoError(t, err)

	err = f.svc.RemoveEvidence(context.Background(), c2.ID, item.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEvidenceNotFound))

	require.NoError(t, f.svc.RemoveEvidence(context.Background(), c1.ID, item.ID))
}

func TestAttachFile_StoresObjectAndKey(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	item, err := f.svc.AddEvidence(context.Background(), c.ID, types.EvidencePhoto, []string{"violence"}, common.PartyDefendant, "진단서 사진")
	require.NoError(t, err)

	attached, err := f.svc.AttachFile(context.Background(), c.ID, item.ID, "image/jpeg", []byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	require.NotEmpty(t, attached.AttachmentKey)

	data, contentType, err := f.attachments.Get(context.Background(), attached.AttachmentKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
	assert.Equal(t, "image/jpeg", contentType)

	stored, err := f.evidence.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, attached.AttachmentKey, stored.AttachmentKey)
}

func TestAttachFile_EmptyBodyRejected(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)
	item, err := f.svc.AddEvidence(context.Background(), c.ID, types.EvidencePhoto, []string{"violence"}, common.PartyDefendant, "")
	require.NoError(t, err)

	_, err = f.svc.AttachFile(context.Background(), c.ID, item.ID, "image/jpeg", nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestAttachFile_WrongCaseRejected(t *testing.T) {
	f := newFixture(t)
	c1 := f.createCase(t)
	c2 := f.createCase(t)
	item, err := f.svc.AddEvidence(context.Background(), c1.ID, types.EvidencePhoto, []string{"violence"}, common.PartyDefendant, "")
	require.NoError(t, err)

	_, err = f.svc.AttachFile(context.Background(), c2.ID, item.ID, "image/jpeg", []byte{1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeEvidenceNotFound))
}

func TestAttachmentDownloadURL(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)
	item, err := f.svc.AddEvidence(context.Background(), c.ID, types.EvidenceRecording, []string{"verbal_abuse"}, common.PartyDefendant, "녹음 파일")
	require.NoError(t, err)

	// Before any upload there is nothing to presign.
	_, err = f.svc.AttachmentDownloadURL(context.Background(), c.ID, item.ID)
	assert.True(t, errors.IsNotFound(err))

	attached, err := f.svc.AttachFile(context.Background(), c.ID, item.ID, "audio/mpeg", []byte("recording"))
	require.NoError(t, err)

	url, err := f.svc.AttachmentDownloadURL(context.Background(), c.ID, item.ID)
	require.NoError(t, err)
	assert.Contains(t, url, attached.AttachmentKey)
}

func TestAttachFile_NoStoreConfigured(t *testing.T) {
	f := newFixture(t)
	f.svc.deps.Attachments = nil
	c := f.createCase(t)
	item, err := f.svc.AddEvidence(context.Background(), c.ID, types.EvidencePhoto, []string{"violence"}, common.PartyDefendant, "")
	require.NoError(t, err)

	_, err = f.svc.AttachFile(context.Background(), c.ID, item.ID, "image/jpeg", []byte{1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestRemoveEvidence_DeletesAttachment(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)
	item, err := f.svc.AddEvidence(context.Background(), c.ID, types.EvidencePhoto, []string{"violence"}, common.PartyDefendant, "")
	require.NoError(t, err)
	attached, err := f.svc.AttachFile(context.Background(), c.ID, item.ID, "image/jpeg", []byte{1, 2, 3})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveEvidence(context.Background(), c.ID, item.ID))
	_, _, err = f.attachments.Get(context.Background(), attached.AttachmentKey)
	assert.Error(t, err)
}

func TestPredictDivision_PersistsAndCaches(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)
	_, err := f.svc.SetProperty(context.Background(), c.ID, 1_000_000_000, 200_000_000)
	require.NoError(t, err)

	_, err = f.svc.AddEvidence(context.Background(), c.ID, types.EvidenceChatLog, []string{"adultery"}, common.PartyDefendant, "불륜 외도 정황")
	require.NoError(t, err)

	pred, err := f.svc.PredictDivision(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(800_000_000), pred.NetValue)
	assert.Equal(t, 100, pred.PlaintiffRatio+pred.DefendantRatio)
	assert.Greater(t, pred.PlaintiffRatio, 50)

	stored, err := f.analyses.GetPrediction(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, pred, stored)

	got, err := f.svc.GetPrediction(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, pred, got)
}

func TestCloseCase_BlocksFurtherTransitions(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	require.NoError(t, f.svc.CloseCase(context.Background(), c.ID))
	_, err := f.svc.UploadTranscript(context.Background(), c.ID, transcript("이혼"))
	require.NoError(t, err) // uploads are allowed; analysis is not
	err = f.svc.RequestAnalysis(context.Background(), c.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))
}
