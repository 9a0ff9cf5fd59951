package errs_test

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/school-library/library/internal/errs"
)

func TestError_Is(t *testing.T) {
	t.Parallel()
	err := errs.ErrCatalogItemNotFound.Withf("catalog not found with id: %d", 7)
	require.ErrorIs(t, err, errs.ErrCatalogItemNotFound)
	require.NotErrorIs(t, err, errs.ErrMemberNotFound)
	require.Equal(t, "catalog not found with id: 7", err.Error())

	wrapped := fmt.Errorf("rent: %w", errs.ErrNoCopiesAvailable)
	require.ErrorIs(t, wrapped, errs.ErrNoCopiesAvailable)
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		err    error
		want   errs.Kind
		wantOK bool
	}{
		{"not found", errs.ErrLoanNotFound, errs.KindNotFound, true},
		{"conflict wrapped", errors.Wrap(errs.ErrAlreadyReturned, "return"), errs.KindConflict, true},
		{"invalid", errs.Invalid("rentId must be positive"), errs.KindInvalidInput, true},
		{"system", errors.New("connection refused"), 0, false},
	}
	for _, tt := range tests {
		kind, ok := errs.KindOf(tt.err)
		require.Equal(t, tt.wantOK, ok, tt.name)
		require.Equal(t, tt.want, kind, tt.name)
	}
}
