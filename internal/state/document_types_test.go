package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docstore/internal/model"
	"docstore/internal/repository/kvstore"
	"docstore/internal/service"
	svcMocks "docstore/internal/service/mocks"
	"docstore/internal/storage"
	"docstore/internal/testutil"
)

func newTypeState() *DocumentTypeState {
	repo := kvstore.NewDocumentTypeStore(storage.NewMemory(), zap.NewNop())
	return NewDocumentTypeState(service.NewDocumentTypeService(repo, testutil.NewStubIDGenerator()), zap.NewNop())
}

func TestDocumentTypeState_SeedAndMutate(t *testing.T) {
	ctx := context.Background()
	s := newTypeState()

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, model.DefaultDocumentTypes(), s.Types())
	assert.Equal(t, "Contrato", s.NameOf("2"))

	dt, err := s.Add(ctx, "Acta")
	require.NoError(t, err)
	assert.Equal(t, "id-1", dt.ID)
	assert.Len(t, s.Types(), 6)

	_, err = s.Rename(ctx, "id-1", "Acta de reunión")
	require.NoError(t, err)
	assert.Equal(t, "Acta de reunión", s.NameOf("id-1"))

	require.NoError(t, s.Delete(ctx, "1"))
	assert.Len(t, s.Types(), 5)
	assert.Equal(t, model.UnknownDocumentTypeName, s.NameOf("1"))
}

func TestDocumentTypeState_RenameMissing(t *testing.T) {
	ctx := context.Background()
	s := newTypeState()
	require.NoError(t, s.Load(ctx))

	_, err := s.Rename(ctx, "missing", "x")
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, model.DefaultDocumentTypes(), s.Types())
}

func TestDocumentTypeState_ErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	mSvc := new(svcMocks.MockDocumentTypeService)
	s := NewDocumentTypeState(mSvc, zap.NewNop())

	mSvc.On("Delete", ctx, "1").Return(errors.New("boom"))
	mSvc.On("List", ctx).Return(nil, errors.New("unreachable"))

	err := s.Delete(ctx, "1")
	assert.EqualError(t, err, "boom")
	mSvc.AssertExpectations(t)
}
