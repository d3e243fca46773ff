package links

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"persona/internal/people/models"
	"persona/internal/people/ports"
	"persona/internal/people/ports/mocks"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/sentinel"
)

func TestRegistryValidate(t *testing.T) {
	r := NewRegistry()
	r.Register(TypeUser, func(context.Context, string) (any, error) { return nil, nil })

	assert.NoError(t, r.Validate(nil))
	assert.NoError(t, r.Validate(&models.Link{Type: TypeUser, ID: "u-1"}))

	err := r.Validate(&models.Link{Type: "invoice", ID: "i-1"})
	de, ok := dErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, dErrors.CodeValidation, de.Code)
	assert.Equal(t, "family_relationship.link.type", de.Field)
	assert.Equal(t, "unknown link type invoice, expected one of: user", de.Message)

	assert.True(t, dErrors.HasCode(r.Validate(&models.Link{Type: TypeUser}), dErrors.CodeValidation))

	r.Register("patient", func(context.Context, string) (any, error) { return nil, nil })
	assert.Equal(t, []string{"patient", TypeUser}, r.Types())
}

func TestUserLoader(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserLinker(ctrl)
	r := NewRegistry()
	r.Register(TypeUser, UserLoader(users))
	ctx := context.Background()

	t.Run("loads linked user", func(t *testing.T) {
		users.EXPECT().FindUser(gomock.Any(), "u-1").Return(&ports.User{ID: "u-1", Name: "Jane"}, nil)

		data, err := r.Load(ctx, &models.Link{Type: TypeUser, ID: "u-1"})
		require.NoError(t, err)
		assert.Equal(t, &ports.User{ID: "u-1", Name: "Jane"}, data)
	})

	t.Run("missing user degrades to nil", func(t *testing.T) {
		users.EXPECT().FindUser(gomock.Any(), "u-2").Return(nil, sentinel.ErrNotFound)

		data, err := r.Load(ctx, &models.Link{Type: TypeUser, ID: "u-2"})
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("loader failure surfaces", func(t *testing.T) {
		users.EXPECT().FindUser(gomock.Any(), "u-3").Return(nil, errors.New("timeout"))

		_, err := r.Load(ctx, &models.Link{Type: TypeUser, ID: "u-3"})
		assert.Error(t, err)
	})

	t.Run("unregistered type loads nothing", func(t *testing.T) {
		data, err := r.Load(ctx, &models.Link{Type: "invoice", ID: "i-1"})
		require.NoError(t, err)
		assert.Nil(t, data)
	})
}
