package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUntilNextNoon(t *testing.T) {
	morning := time.Date(2025, 3, 1, 9, 30, 0, 0, moscow)
	require.Equal(t, 2*time.Hour+30*time.Minute, untilNextNoon(morning))

	// после полудня ждём до завтра
	evening := time.Date(2025, 3, 1, 18, 0, 0, 0, moscow)
	require.Equal(t, 18*time.Hour, untilNextNoon(evening))

	// ровно в полдень — тоже до завтра, без нулевого ожидания
	noon := time.Date(2025, 3, 1, 12, 0, 0, 0, moscow)
	require.Equal(t, 24*time.Hour, untilNextNoon(noon))
}
