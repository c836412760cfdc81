package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medscore-backend/application/commands"
	"medscore-backend/application/ports"
	"medscore-backend/application/services"
	"medscore-backend/domain/catalog"
	"medscore-backend/domain/params"
	pkgerrors "medscore-backend/pkg/errors"
)

type memorySnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]params.Snapshot
	readErr   error
	writeErr  error
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{snapshots: make(map[string]params.Snapshot)}
}

func (s *memorySnapshotStore) ReadAll(ctx context.Context, ownerID string) (params.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.snapshots[ownerID], nil
}

func (s *memorySnapshotStore) WriteAll(ctx context.Context, ownerID string, snapshot params.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.snapshots[ownerID] = snapshot
	return nil
}

type memoryDefinitionRepo struct {
	mu          sync.Mutex
	algorithms  map[string]*catalog.AlgorithmDefinition
	calculators map[string]*catalog.CalculatorDefinition
}

func newMemoryDefinitionRepo() *memoryDefinitionRepo {
	return &memoryDefinitionRepo{
		algorithms:  make(map[string]*catalog.AlgorithmDefinition),
		calculators: make(map[string]*catalog.CalculatorDefinition),
	}
}

func (r *memoryDefinitionRepo) LoadDefinitions(ctx context.Context) ([]*catalog.AlgorithmDefinition, []*catalog.CalculatorDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var algs []*catalog.AlgorithmDefinition
	for _, def := range r.algorithms {
		algs = append(algs, def)
	}
	var calcs []*catalog.CalculatorDefinition
	for _, def := range r.calculators {
		calcs = append(calcs, def)
	}
	return algs, calcs, nil
}

func (r *memoryDefinitionRepo) SaveAlgorithm(ctx context.Context, def *catalog.AlgorithmDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.algorithms[def.ID] = def
	return nil
}

func (r *memoryDefinitionRepo) SaveCalculator(ctx context.Context, def *catalog.CalculatorDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calculators[def.ID] = def
	return nil
}

func (r *memoryDefinitionRepo) DeleteDefinition(ctx context.Context, kind ports.DefinitionKind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch kind {
	case ports.KindAlgorithm:
		delete(r.algorithms, id)
	case ports.KindCalculator:
		delete(r.calculators, id)
	}
	return nil
}

func seededRepo(t *testing.T) *memoryDefinitionRepo {
	t.Helper()
	repo := newMemoryDefinitionRepo()
	repo.calculators["wells-dvt"] = &catalog.CalculatorDefinition{
		ID:   "wells-dvt",
		Name: "Wells DVT",
		Parameters: []catalog.ParameterDefinition{
			{ID: "active-cancer", Name: "Active cancer", Type: catalog.ParameterBoolean},
		},
	}
	return repo
}

func newCatalogService(t *testing.T, repo ports.DefinitionRepository) *services.CatalogService {
	t.Helper()
	svc, err := services.NewCatalogService(context.Background(), repo, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestSaveParameterHandler(t *testing.T) {
	t.Run("saves and persists", func(t *testing.T) {
		store := newMemorySnapshotStore()
		sessions := services.NewParameterSessions(store, zap.NewNop())
		handler := NewSaveParameterHandler(sessions, zap.NewNop())

		err := handler.Handle(context.Background(), commands.SaveParameterCommand{
			OwnerID:     "user-1",
			ParameterID: "weight",
			Name:        "Weight",
			Value:       82.5,
			Unit:        "kg",
		})
		require.NoError(t, err)

		persisted := store.snapshots["user-1"]
		require.Len(t, persisted, 1)
		assert.Equal(t, "weight", persisted[0].ID)
		assert.Equal(t, 82.5, persisted[0].Value)
	})

	t.Run("persistence failure is not fatal", func(t *testing.T) {
		store := newMemorySnapshotStore()
		store.writeErr = errors.New("disk full")
		sessions := services.NewParameterSessions(store, zap.NewNop())
		handler := NewSaveParameterHandler(sessions, zap.NewNop())

		err := handler.Handle(context.Background(), commands.SaveParameterCommand{
			OwnerID:     "user-1",
			ParameterID: "weight",
			Name:        "Weight",
			Value:       82.5,
		})
		require.NoError(t, err)

		value, err := sessions.Session(context.Background(), "user-1").GetParameterValue("weight")
		require.NoError(t, err)
		assert.Equal(t, 82.5, value)
	})
}

func TestRemoveAndClearParameterHandlers(t *testing.T) {
	store := newMemorySnapshotStore()
	sessions := services.NewParameterSessions(store, zap.NewNop())
	ctx := context.Background()

	save := NewSaveParameterHandler(sessions, zap.NewNop())
	require.NoError(t, save.Handle(ctx, commands.SaveParameterCommand{OwnerID: "u", ParameterID: "a", Name: "A", Value: 1.0}))
	require.NoError(t, save.Handle(ctx, commands.SaveParameterCommand{OwnerID: "u", ParameterID: "b", Name: "B", Value: 2.0}))

	remove := NewRemoveParameterHandler(sessions, zap.NewNop())
	require.NoError(t, remove.Handle(ctx, commands.RemoveParameterCommand{OwnerID: "u", ParameterID: "a"}))
	assert.Len(t, store.snapshots["u"], 1)

	clearAll := NewClearParametersHandler(sessions, zap.NewNop())
	require.NoError(t, clearAll.Handle(ctx, commands.ClearParametersCommand{OwnerID: "u"}))
	assert.Empty(t, store.snapshots["u"])
}

func TestImportDefinitionsHandler(t *testing.T) {
	t.Run("JSON import saves definitions and reloads", func(t *testing.T) {
		repo := seededRepo(t)
		catalogs := newCatalogService(t, repo)
		handler := NewImportDefinitionsHandler(repo, catalogs, zap.NewNop())

		payload := []byte(`{
  "algorithms": [{
    "id": "sepsis-screen",
    "name": "Sepsis Screen",
    "entryNode": "start",
    "nodes": {
      "start": {"id": "start", "content": "qSOFA >= 2?", "edges": {"true": "escalate", "false": "observe"}},
      "escalate": {"id": "escalate", "content": "Escalate care"},
      "observe": {"id": "observe", "content": "Continue observation"}
    }
  }]
}`)
		err := handler.Handle(context.Background(), commands.ImportDefinitionsCommand{
			Actor:   "admin-1",
			Format:  commands.FormatJSON,
			Payload: payload,
		})
		require.NoError(t, err)

		def, err := catalogs.Current().Algorithm("sepsis-screen")
		require.NoError(t, err)
		assert.Equal(t, "Sepsis Screen", def.Name)
	})

	t.Run("CSV import merges parameters into the target calculator", func(t *testing.T) {
		repo := seededRepo(t)
		catalogs := newCatalogService(t, repo)
		handler := NewImportDefinitionsHandler(repo, catalogs, zap.NewNop())

		payload := []byte("id,name,type,unit,tooltip,storable\n" +
			"active-cancer,Active malignancy,boolean,,,true\n" +
			"heart-rate,Heart rate,number,bpm,,false\n")

		err := handler.Handle(context.Background(), commands.ImportDefinitionsCommand{
			Actor:        "admin-1",
			Format:       commands.FormatCSV,
			Payload:      payload,
			CalculatorID: "wells-dvt",
		})
		require.NoError(t, err)

		def, err := catalogs.Current().Calculator("wells-dvt")
		require.NoError(t, err)
		require.Len(t, def.Parameters, 2)

		cancer, ok := def.Parameter("active-cancer")
		require.True(t, ok)
		assert.Equal(t, "Active malignancy", cancer.Name)
		assert.True(t, cancer.Storable)

		_, ok = def.Parameter("heart-rate")
		assert.True(t, ok)
	})

	t.Run("CSV import into unknown calculator fails", func(t *testing.T) {
		repo := seededRepo(t)
		catalogs := newCatalogService(t, repo)
		handler := NewImportDefinitionsHandler(repo, catalogs, zap.NewNop())

		err := handler.Handle(context.Background(), commands.ImportDefinitionsCommand{
			Actor:        "admin-1",
			Format:       commands.FormatCSV,
			Payload:      []byte("id,name,type,unit,tooltip,storable\nhr,Heart rate,number,bpm,,false\n"),
			CalculatorID: "nope",
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("invalid JSON leaves the catalog untouched", func(t *testing.T) {
		repo := seededRepo(t)
		catalogs := newCatalogService(t, repo)
		handler := NewImportDefinitionsHandler(repo, catalogs, zap.NewNop())

		err := handler.Handle(context.Background(), commands.ImportDefinitionsCommand{
			Actor:   "admin-1",
			Format:  commands.FormatJSON,
			Payload: []byte("{broken"),
		})
		require.Error(t, err)

		_, calcCount := catalogs.Current().Counts()
		assert.Equal(t, 1, calcCount)
	})
}

func TestDeleteDefinitionHandler(t *testing.T) {
	t.Run("deletes and reloads", func(t *testing.T) {
		repo := seededRepo(t)
		catalogs := newCatalogService(t, repo)
		handler := NewDeleteDefinitionHandler(repo, catalogs, zap.NewNop())

		err := handler.Handle(context.Background(), commands.DeleteDefinitionCommand{
			Actor: "admin-1",
			Kind:  ports.KindCalculator,
			ID:    "wells-dvt",
		})
		require.NoError(t, err)

		_, err = catalogs.Current().Calculator("wells-dvt")
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		repo := seededRepo(t)
		catalogs := newCatalogService(t, repo)
		handler := NewDeleteDefinitionHandler(repo, catalogs, zap.NewNop())

		err := handler.Handle(context.Background(), commands.DeleteDefinitionCommand{
			Actor: "admin-1",
			Kind:  ports.KindAlgorithm,
			ID:    "missing",
		})
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}
