package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake(t *testing.T) {
	c := Fake(epoch)
	require.Equal(t, epoch, c.Now())
	require.Equal(t, epoch, c.Now(), "time stands still without Advance")

	c.Advance(3 * time.Second)
	require.Equal(t, epoch.Add(3*time.Second), c.Now())

	c.Set(epoch)
	require.Equal(t, epoch, c.Now())
}

func TestFake_AutoStep(t *testing.T) {
	c := Fake(epoch)
	c.AutoStep(time.Millisecond)

	begin := c.Now()
	end := c.Now()
	require.Equal(t, time.Millisecond, end.Sub(begin))
}

func TestReal(t *testing.T) {
	before := time.Now()
	now := Real().Now()
	require.False(t, now.Before(before))
}
