package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetTrimsAndFallsBack(t *testing.T) {
	t.Setenv("KARAOKE_TEST_VALUE", "  console ")
	require.Equal(t, "console", Get("KARAOKE_TEST_VALUE", "json"))

	t.Setenv("KARAOKE_TEST_VALUE", "   ")
	require.Equal(t, "json", Get("KARAOKE_TEST_VALUE", "json"))
}

func TestFirstSkipsBlankKeys(t *testing.T) {
	t.Setenv("KARAOKE_TEST_A", "")
	t.Setenv("KARAOKE_TEST_B", "8081")
	require.Equal(t, "8081", First("KARAOKE_TEST_A", "KARAOKE_TEST_B"))
	require.Equal(t, "", First("KARAOKE_TEST_A"))
}
