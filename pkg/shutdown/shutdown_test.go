package shutdown

import (
	"testing"
	"time"

	"github.com/dwikikusuma/videoshop-cart/pkg/logger"
)

func TestGraceful(t *testing.T) {
	log := logger.Discard()

	t.Run("stop returns in time", func(t *testing.T) {
		forced := false
		ok := Graceful(log, "fast", time.Second, func() {}, func() { forced = true })
		if !ok || forced {
			t.Fatalf("expected clean stop, ok=%v forced=%v", ok, forced)
		}
	})

	t.Run("timeout forces", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		forced := false
		ok := Graceful(log, "slow", 10*time.Millisecond, func() { <-release }, func() { forced = true })
		if ok || !forced {
			t.Fatalf("expected forced stop, ok=%v forced=%v", ok, forced)
		}
	})
}
