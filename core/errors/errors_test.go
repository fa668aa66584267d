package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMatchesKind(t *testing.T) {
	errMissing := New(ErrNotFound, "bounty: not found")
	wrapped := fmt.Errorf("%w: id 7", errMissing)

	require.True(t, stderrors.Is(wrapped, errMissing))
	require.True(t, stderrors.Is(wrapped, ErrNotFound))
	require.False(t, stderrors.Is(wrapped, ErrValidation))
	require.Equal(t, "bounty: not found: id 7", wrapped.Error())
	require.Equal(t, ErrNotFound, Kind(wrapped))
}

func TestKindUnclassified(t *testing.T) {
	require.Nil(t, Kind(stderrors.New("disk full")))
	require.Nil(t, Kind(nil))
}
