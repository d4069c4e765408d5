//go:build integration

// Integration tests for the PostgreSQL repositories.  They require Docker and
// are gated behind the "integration" build tag.
package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/x-ordo/evidentia/internal/domain/caserecord"
	"github.com/x-ordo/evidentia/internal/domain/evidence"
	"github.com/x-ordo/evidentia/internal/infrastructure/database/postgres"
	"github.com/x-ordo/evidentia/internal/infrastructure/database/postgres/repositories"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("evidentia_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.RunMigrations(dbURL, "file://../../../../../migrations"))

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func newCase(t *testing.T) *caserecord.Case {
	t.Helper()
	c, err := caserecord.NewCase("이혼 및 재산분할 청구", "김원고", "이피고")
	require.NoError(t, err)
	return c
}

func TestCaseRepository_CRUD(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewCaseRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	c := newCase(t)
	require.NoError(t, repo.Create(ctx, c))

	err := repo.Create(ctx, c)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeCaseAlreadyExists))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Title, got.Title)
	assert.Equal(t, caserecord.StatusOpen, got.Status)

	require.NoError(t, got.SetProperty(500_000_000, 100_000_000))
	got.SetTranscript("cases/" + string(got.ID) + "/transcript.json")
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500_000_000), reloaded.TotalAssets)
	assert.NotEmpty(t, reloaded.TranscriptKey)

	open := caserecord.StatusOpen
	cases, total, err := repo.List(ctx, caserecord.ListFilter{Status: &open, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, cases, 1)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestEvidenceRepository_CRUD(t *testing.T) {
	pool := startPostgres(t)
	caseRepo := repositories.NewCaseRepository(pool, logging.NewNopLogger())
	repo := repositories.NewEvidenceRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	c := newCase(t)
	require.NoError(t, caseRepo.Create(ctx, c))

	item, err := evidence.NewItem(c.ID, types.EvidenceChatLog,
		[]string{"adultery"}, common.PartyDefendant, "불륜 정황이 담긴 대화 내역")
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.CaseID)
	assert.Equal(t, []string{"adultery"}, got.LegalCategories)

	items, err := repo.ListByCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, repo.Delete(ctx, item.ID))
	err = repo.Delete(ctx, item.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeEvidenceNotFound))
}

func TestAnalysisRepository_UpsertKeepsLatest(t *testing.T) {
	pool := startPostgres(t)
	caseRepo := repositories.NewCaseRepository(pool, logging.NewNopLogger())
	repo := repositories.NewAnalysisRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	c := newCase(t)
	require.NoError(t, caseRepo.Create(ctx, c))

	first := &types.AnalysisResult{CaseID: c.ID, TotalMessages: 10, AnalyzedAt: time.Now().UTC()}
	require.NoError(t, repo.SaveResult(ctx, first))

	second := &types.AnalysisResult{CaseID: c.ID, TotalMessages: 25, AnalyzedAt: time.Now().UTC()}
	require.NoError(t, repo.SaveResult(ctx, second))

	got, err := repo.GetResult(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, got.TotalMessages)

	pred := &types.DivisionPrediction{PlaintiffRatio: 74, DefendantRatio: 26}
	require.NoError(t, repo.SavePrediction(ctx, c.ID, pred))

	gotPred, err := repo.GetPrediction(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 74, gotPred.PlaintiffRatio)

	_, err = repo.GetResult(ctx, "00000000-0000-0000-0000-000000000000")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeAnalysisNotFound))
}
