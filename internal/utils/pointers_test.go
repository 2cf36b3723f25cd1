package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-nightlife-client/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestPointers(t *testing.T) {
	p := utils.Ptr("bio")
	require.Equal(t, "bio", *p)
	require.Equal(t, "bio", utils.Value(p))
	require.Equal(t, "bio", utils.ValueOr(p, "other"))

	var missing *int
	require.Zero(t, utils.Value(missing))
	require.Equal(t, 7, utils.ValueOr(missing, 7))
}
