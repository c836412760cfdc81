package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medscore-backend/application/queries"
	"medscore-backend/application/services"
	"medscore-backend/application/transfer"
	"medscore-backend/domain/catalog"
	"medscore-backend/domain/params"
	"medscore-backend/domain/report"
	"medscore-backend/domain/score"
	"medscore-backend/domain/traversal"
	"medscore-backend/pkg/common"
	pkgerrors "medscore-backend/pkg/errors"
)

type staticCatalog struct {
	cat *catalog.Catalog
}

func (s *staticCatalog) Current() *catalog.Catalog        { return s.cat }
func (s *staticCatalog) Reload(ctx context.Context) error { return nil }

func fixtureCatalog(t *testing.T) *staticCatalog {
	t.Helper()

	algorithm := &catalog.AlgorithmDefinition{
		ID:        "pe-workup",
		Name:      "PE Workup",
		Category:  "pulmonology",
		EntryNode: "start",
		Steps: []catalog.AlgorithmStep{
			{
				ID:    "vitals",
				Title: "Vitals",
				Parameters: []catalog.ParameterDefinition{
					{ID: "heart-rate", Name: "Heart rate", Type: catalog.ParameterNumber},
					{ID: "hypotension", Name: "Hypotension", Type: catalog.ParameterBoolean},
				},
			},
		},
		Nodes: map[string]*catalog.AlgorithmNode{
			"start": {ID: "start", Content: "Hemodynamically unstable?", Edges: map[string]string{
				"true":  "unstable",
				"false": "stable",
			}},
			"unstable": {
				ID:              "unstable",
				Content:         "High-risk PE pathway",
				Recommendations: []string{"Immediate CT angiography", "Consider thrombolysis"},
			},
			"stable": {ID: "stable", Content: "Apply Wells criteria"},
		},
	}

	bound := func(v float64) *float64 { return &v }
	calculator := &catalog.CalculatorDefinition{
		ID:       "padua",
		Name:     "Padua Prediction Score",
		Category: "hematology",
		Parameters: []catalog.ParameterDefinition{
			{ID: "active-cancer", Name: "Active cancer", Type: catalog.ParameterBoolean, Weight: 3},
			{ID: "reduced-mobility", Name: "Reduced mobility", Type: catalog.ParameterBoolean, Weight: 3},
		},
		Interpretations: catalog.Interpretations{
			Ranges: []catalog.InterpretationRange{
				{Max: bound(3), Label: "Low risk"},
				{Min: bound(4), Label: "High risk"},
			},
		},
	}

	cat, err := catalog.New([]*catalog.AlgorithmDefinition{algorithm}, []*catalog.CalculatorDefinition{calculator})
	require.NoError(t, err)
	return &staticCatalog{cat: cat}
}

func TestListHandlers(t *testing.T) {
	catalogs := fixtureCatalog(t)
	ctx := context.Background()

	t.Run("lists calculators", func(t *testing.T) {
		result, err := NewListCalculatorsHandler(catalogs).Handle(ctx, queries.ListCalculatorsQuery{})
		require.NoError(t, err)

		page, ok := result.(*common.PaginatedResult)
		require.True(t, ok)
		items, ok := page.Items.([]CalculatorSummary)
		require.True(t, ok)
		require.Len(t, items, 1)
		assert.Equal(t, "padua", items[0].ID)
		assert.Equal(t, 2, items[0].Parameters)
		assert.Equal(t, 1, page.Pagination.Total)
	})

	t.Run("category filter excludes non-matching", func(t *testing.T) {
		result, err := NewListAlgorithmsHandler(catalogs).Handle(ctx, queries.ListAlgorithmsQuery{Category: "cardiology"})
		require.NoError(t, err)

		page := result.(*common.PaginatedResult)
		assert.Empty(t, page.Items.([]AlgorithmSummary))
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		result, err := NewListAlgorithmsHandler(catalogs).Handle(ctx, queries.ListAlgorithmsQuery{Page: 9, PageSize: 10})
		require.NoError(t, err)

		page := result.(*common.PaginatedResult)
		assert.Empty(t, page.Items.([]AlgorithmSummary))
		assert.Equal(t, 1, page.Pagination.Total)
	})

	t.Run("get calculator", func(t *testing.T) {
		result, err := NewGetCalculatorHandler(catalogs).Handle(ctx, queries.GetCalculatorQuery{CalculatorID: "padua"})
		require.NoError(t, err)
		def := result.(*catalog.CalculatorDefinition)
		assert.Equal(t, "Padua Prediction Score", def.Name)
	})

	t.Run("get unknown algorithm returns not found", func(t *testing.T) {
		_, err := NewGetAlgorithmHandler(catalogs).Handle(ctx, queries.GetAlgorithmQuery{AlgorithmID: "nope"})
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestEvaluateAlgorithmHandler(t *testing.T) {
	catalogs := fixtureCatalog(t)
	walker := traversal.NewWalker(traversal.EdgePolicyError)
	handler := NewEvaluateAlgorithmHandler(catalogs, walker, zap.NewNop())
	ctx := context.Background()

	t.Run("walks to a terminal node", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.EvaluateAlgorithmQuery{
			AlgorithmID: "pe-workup",
			StepID:      "vitals",
			Inputs:      map[string]interface{}{"heart-rate": 128.0, "hypotension": true},
			Answers:     map[string]interface{}{"start": true},
		})
		require.NoError(t, err)

		eval := result.(*AlgorithmEvaluation)
		assert.Equal(t, traversal.OutcomeTerminal, eval.Status)
		assert.Equal(t, "unstable", eval.Node.ID)
		assert.Equal(t, []string{"start", "unstable"}, eval.Path)
	})

	t.Run("missing answer leaves the walk pending", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.EvaluateAlgorithmQuery{
			AlgorithmID: "pe-workup",
			Answers:     map[string]interface{}{},
		})
		require.NoError(t, err)

		eval := result.(*AlgorithmEvaluation)
		assert.Equal(t, traversal.OutcomePending, eval.Status)
		assert.Equal(t, "start", eval.Node.ID)
	})

	t.Run("missing step inputs name the fields", func(t *testing.T) {
		_, err := handler.Handle(ctx, queries.EvaluateAlgorithmQuery{
			AlgorithmID: "pe-workup",
			StepID:      "vitals",
			Inputs:      map[string]interface{}{"heart-rate": 128.0},
			Answers:     map[string]interface{}{"start": true},
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
		assert.Contains(t, err.Error(), "hypotension")
	})

	t.Run("unknown step returns not found", func(t *testing.T) {
		_, err := handler.Handle(ctx, queries.EvaluateAlgorithmQuery{
			AlgorithmID: "pe-workup",
			StepID:      "imaging",
		})
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestEvaluateCalculatorHandler(t *testing.T) {
	catalogs := fixtureCatalog(t)
	handler := NewEvaluateCalculatorHandler(catalogs, score.NewEvaluator(score.ScreeningAdvisory), zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.EvaluateCalculatorQuery{
		CalculatorID: "padua",
		Inputs:       map[string]interface{}{"active-cancer": true, "reduced-mobility": true},
	})
	require.NoError(t, err)

	scored := result.(*score.Result)
	assert.Equal(t, 6.0, scored.Score)
	require.NotNil(t, scored.Interpretation)
	assert.Equal(t, "High risk", scored.Interpretation.Label)
}

func TestGetReportHandler(t *testing.T) {
	catalogs := fixtureCatalog(t)
	handler := NewGetReportHandler(catalogs)
	ctx := context.Background()

	t.Run("formats both renderings", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.GetReportQuery{
			AlgorithmID: "pe-workup",
			NodeID:      "unstable",
			Inputs:      map[string]interface{}{"hypotension": true},
		})
		require.NoError(t, err)

		rep := result.(*Report)
		assert.True(t, strings.HasPrefix(rep.Clinical, "PE Workup Assessment\n"))
		assert.Contains(t, rep.Clinical, "- Immediate CT angiography")
		assert.Contains(t, rep.Printer, "hypotension: Yes")
		assert.True(t, strings.HasSuffix(strings.TrimRight(rep.Printer, "\n"), report.AttributionFooter))
	})

	t.Run("unknown node returns not found", func(t *testing.T) {
		_, err := handler.Handle(ctx, queries.GetReportQuery{
			AlgorithmID: "pe-workup",
			NodeID:      "nope",
		})
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestExportDefinitionsHandler(t *testing.T) {
	catalogs := fixtureCatalog(t)
	handler := NewExportDefinitionsHandler(catalogs)

	result, err := handler.Handle(context.Background(), queries.ExportDefinitionsQuery{})
	require.NoError(t, err)

	payload := result.([]byte)
	doc, err := transfer.ParseJSON(payload)
	require.NoError(t, err)
	assert.Len(t, doc.Algorithms, 1)
	assert.Len(t, doc.Calculators, 1)
}

type memorySnapshotStore struct {
	snapshots map[string]params.Snapshot
}

func (s *memorySnapshotStore) ReadAll(ctx context.Context, ownerID string) (params.Snapshot, error) {
	return s.snapshots[ownerID], nil
}

func (s *memorySnapshotStore) WriteAll(ctx context.Context, ownerID string, snapshot params.Snapshot) error {
	s.snapshots[ownerID] = snapshot
	return nil
}

func TestParameterQueryHandlers(t *testing.T) {
	store := &memorySnapshotStore{snapshots: map[string]params.Snapshot{
		"user-1": {
			{ID: "weight", Name: "Weight", Value: 82.5, Unit: "kg"},
			{ID: "age", Name: "Age", Value: 61.0},
		},
	}}
	sessions := services.NewParameterSessions(store, zap.NewNop())
	ctx := context.Background()

	t.Run("lists sorted by id", func(t *testing.T) {
		result, err := NewListParametersHandler(sessions).Handle(ctx, queries.ListParametersQuery{OwnerID: "user-1"})
		require.NoError(t, err)

		list := result.([]params.StoredParameter)
		require.Len(t, list, 2)
		assert.Equal(t, "age", list[0].ID)
		assert.Equal(t, "weight", list[1].ID)
	})

	t.Run("gets one parameter", func(t *testing.T) {
		result, err := NewGetParameterHandler(sessions).Handle(ctx, queries.GetParameterQuery{OwnerID: "user-1", ParameterID: "weight"})
		require.NoError(t, err)

		stored := result.(params.StoredParameter)
		assert.Equal(t, 82.5, stored.Value)
		assert.Equal(t, "kg", stored.Unit)
	})

	t.Run("unknown parameter returns not found", func(t *testing.T) {
		_, err := NewGetParameterHandler(sessions).Handle(ctx, queries.GetParameterQuery{OwnerID: "user-1", ParameterID: "height"})
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}
