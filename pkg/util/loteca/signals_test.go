package loteca

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMomentum(t *testing.T) {
	assert.Zero(t, Momentum(nil))
	assert.InDelta(t, 3.0, Momentum([]string{"V", "V", "V"}), 1e-9)
	// (0*1 + 1*2 + 3*3) / 6
	assert.InDelta(t, 11.0/6.0, Momentum([]string{"D", "E", "V"}), 1e-9)
	// recent results weigh more
	assert.Greater(t, Momentum([]string{"D", "V"}), Momentum([]string{"V", "D"}))
}

func TestDesperation(t *testing.T) {
	assert.Zero(t, Desperation(1, 9, 10, 38))
	assert.InDelta(t, 1.0*19/38, Desperation(2, 19, 10, 38), 1e-9)
	assert.InDelta(t, 0.7*19/38, Desperation(8, 19, 10, 38), 1e-9)
	assert.Zero(t, Desperation(10, 19, 10, 38))
	assert.InDelta(t, 0.5*19/38, Desperation(14, 19, 10, 38), 1e-9)
	assert.InDelta(t, 0.5*19/38, Desperation(16, 19, 10, 38), 1e-9)
	assert.InDelta(t, 1.2, Desperation(20, 38, 10, 38), 1e-9)
}

func TestSoberba(t *testing.T) {
	assert.Zero(t, Soberba(false, 1, 20, 30, 38))
	assert.Zero(t, Soberba(true, 10, 5, 30, 38))
	assert.Zero(t, Soberba(true, 5, 5, 30, 38))
	assert.InDelta(t, (10.0/20)*(10.0/20)*30/38, Soberba(true, 2, 12, 30, 38), 1e-9)
}
