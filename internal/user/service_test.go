package user

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apitest"
	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) List(ctx context.Context) (response.ItemList[Item], error) {
	args := m.Called(ctx)
	return args.Get(0).(response.ItemList[Item]), args.Error(1)
}

func (m *mockRepository) FindByID(ctx context.Context, id int) (*Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *mockRepository) GetProfile(ctx context.Context) (*Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, item Item) (*Item, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *mockRepository) Edit(ctx context.Context, id int, req EditRequest) (*Item, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Trims username and forwards", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", ctx, Item{Username: "ana", IsStaff: true}).Return(&Item{ID: 1, Username: "ana", IsStaff: true}, nil)

		got, err := NewService(repo, nil).Create(ctx, CreateRequest{Username: "  ana ", IsStaff: true})
		require.NoError(t, err)
		assert.Equal(t, 1, got.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Empty username", func(t *testing.T) {
		repo := new(mockRepository)
		_, err := NewService(repo, nil).Create(ctx, CreateRequest{Username: " "})
		assert.ErrorIs(t, err, ErrUsernameRequired)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Detail is unwrapped", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", ctx, mock.Anything).
			Return(nil, apperror.New(http.StatusBadRequest, []byte(`{"detail":"A user with that username already exists."}`)))

		_, err := NewService(repo, nil).Create(ctx, CreateRequest{Username: "ana"})
		require.Error(t, err)
		assert.Equal(t, "A user with that username already exists.", err.Error())
	})
}

func TestService_ListPropagatesPlainErrors(t *testing.T) {
	ctx := context.Background()
	transport := errors.New("connection refused")

	repo := new(mockRepository)
	repo.On("List", ctx).Return(response.ItemList[Item]{}, transport)

	_, err := NewService(repo, nil).List(ctx)
	assert.ErrorIs(t, err, transport)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRepository)
	repo.On("Delete", ctx, 7).Return(apperror.New(http.StatusForbidden, []byte(`{"detail":"You do not have permission to perform this action."}`)))

	svc := NewService(repo, nil)
	err := svc.Delete(ctx, 7)
	assert.EqualError(t, err, "You do not have permission to perform this action.")

	assert.ErrorIs(t, svc.Delete(ctx, 0), ErrInvalidID)
}

func TestService_UpdateRaw(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Handle(http.MethodPatch, "/users/:id/", func(c *gin.Context) {
		var body map[string]any
		_ = c.ShouldBindJSON(&body)
		body["id"] = 3
		c.JSON(http.StatusOK, body)
	})

	svc := NewService(NewAPIRepository(srv.Client), srv.Client)
	out, err := svc.UpdateRaw(context.Background(), 3, map[string]any{"first_name": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", out["first_name"])
	assert.Equal(t, float64(3), out["id"])

	call := srv.LastCall(t)
	assert.Equal(t, "/v1/users/3/", call.Path)
	assert.Equal(t, http.MethodPatch, call.Method)
}
