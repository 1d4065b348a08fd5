package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"evotodo/infras/otel/mocks"
	"evotodo/infras/token"
	userMocks "evotodo/internal/domains/user/mocks"
	"evotodo/internal/domains/user/model"
	"evotodo/internal/domains/user/service"
)

func TestUserService_Mirror(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := userMocks.NewMockUser(ctrl)
	svc := service.New(repo, mocks.NewOtel())

	identity := token.Identity{
		Subject: "user-123",
		Email:   "user@example.com",
		Name:    "Test User",
	}

	repo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mod model.User) error {
			assert.Equal(t, "user-123", mod.ID)
			require.NotNil(t, mod.Email)
			assert.Equal(t, "user@example.com", *mod.Email)
			require.NotNil(t, mod.Name)
			assert.Equal(t, "Test User", *mod.Name)

			return nil
		})

	require.NoError(t, svc.Mirror(context.Background(), identity))
}

func TestUserService_Mirror_OmitsEmptyClaims(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := userMocks.NewMockUser(ctrl)
	svc := service.New(repo, mocks.NewOtel())

	repo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mod model.User) error {
			assert.Nil(t, mod.Email)
			assert.Nil(t, mod.Name)

			return nil
		})

	require.NoError(t, svc.Mirror(context.Background(), token.Identity{Subject: "user-123"}))
}

func TestUserService_Mirror_SurfacesRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := userMocks.NewMockUser(ctrl)
	svc := service.New(repo, mocks.NewOtel())

	repo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(errors.New("connection refused"))

	// The caller decides whether to swallow the error; the service reports it.
	assert.Error(t, svc.Mirror(context.Background(), token.Identity{Subject: "user-123"}))
}
