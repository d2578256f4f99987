package validation

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"go-checklist-api/internal/model"
	"go-checklist-api/pkg/apierror"
)

func TestStruct(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid payload", func(t *testing.T) {
		err := Struct(model.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "p@ss"})
		require.NoError(t, err)
	})

	t.Run("reports fields by json name", func(t *testing.T) {
		err := Struct(model.RegisterRequest{Username: "al", Email: "nope"})
		require.Error(t, err)

		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, apierror.CodeValidation, apiErr.Code)
		require.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
		require.Equal(t, "must be at least 3 characters", apiErr.Fields["username"])
		require.Equal(t, "must be a valid email address", apiErr.Fields["email"])
		require.Equal(t, "is required", apiErr.Fields["password"])
	})
}
