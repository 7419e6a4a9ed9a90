package pattern

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mendapp/mend/internal/domain"
)

func TestIntensityScore(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"low", 1, true},
		{"Mild", 1.5, true},
		{"moderate", 2.5, true},
		{"medium", 2.5, true},
		{" HIGH ", 3.5, true},
		{"intense", 4, true},
		{"extreme", 5, true},
		{"4.2", 4.2, true},
		{"", 0, false},
		{"very", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := IntensityScore(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func TestComputeSnapshot_Empty(t *testing.T) {
	snap := ComputeSnapshot("user-1", nil, testNow)

	assert.Equal(t, 0, snap.SignalCount)
	assert.Equal(t, 0.0, snap.AvgIntensity)
	assert.Equal(t, 0.0, snap.Volatility)
	assert.Equal(t, domain.BaselineCalm, snap.BaselineState)
	assert.Empty(t, snap.DominantThemes)
	assert.NotNil(t, snap.DominantThemes)
}

func TestComputeSnapshot_Statistics(t *testing.T) {
	sigs := []domain.Signal{
		sig(domain.EmotionSad, domain.IntensityHigh, domain.ContextWork, daysAgo(1)),
		sig(domain.EmotionTired, domain.IntensityMedium, domain.ContextFamily, daysAgo(2)),
		sig(domain.EmotionCalm, domain.IntensityLow, domain.ContextWork, daysAgo(9)),
		sig(domain.EmotionCalm, domain.IntensityLow, domain.ContextWork, daysAgo(20)), // outside window
	}

	snap := ComputeSnapshot("user-1", sigs, testNow)

	assert.Equal(t, 3, snap.SignalCount)
	assert.Equal(t, 2, snap.RecentWeekCount)
	assert.Equal(t, 1, snap.PriorWeekCount)
	assert.InDelta(t, (3.5+2.5+1)/3, snap.AvgIntensity, 1e-9)

	avg := (3.5 + 2.5 + 1) / 3
	want := math.Sqrt(((3.5-avg)*(3.5-avg) + (2.5-avg)*(2.5-avg) + (1-avg)*(1-avg)) / 3)
	assert.InDelta(t, want, snap.Volatility, 1e-9)
	assert.Equal(t, []domain.Context{domain.ContextWork, domain.ContextFamily}, snap.DominantThemes)
	assert.Equal(t, domain.BaselineElevated, snap.BaselineState)
	assert.Equal(t, testNow, snap.ComputedAt)
}

func TestComputeSnapshot_SingleSignalHasZeroVolatility(t *testing.T) {
	snap := ComputeSnapshot("u", []domain.Signal{sig(domain.EmotionSad, domain.IntensityHigh, domain.ContextWork, daysAgo(1))}, testNow)
	assert.Equal(t, 0.0, snap.Volatility)
	assert.Equal(t, 3.5, snap.AvgIntensity)
}

func TestComputeSnapshot_ThemeTiesKeepFirstSeen(t *testing.T) {
	sigs := []domain.Signal{
		sig(domain.EmotionSad, domain.IntensityLow, domain.ContextMoney, daysAgo(1)),
		sig(domain.EmotionSad, domain.IntensityLow, domain.ContextSleep, daysAgo(2)),
		sig(domain.EmotionSad, domain.IntensityLow, domain.ContextWork, daysAgo(3)),
		sig(domain.EmotionSad, domain.IntensityLow, domain.ContextFamily, daysAgo(4)),
		sig(domain.EmotionSad, domain.IntensityLow, domain.ContextFamily, daysAgo(5)),
	}

	snap := ComputeSnapshot("u", sigs, testNow)
	assert.Equal(t, []domain.Context{domain.ContextFamily, domain.ContextMoney, domain.ContextSleep}, snap.DominantThemes)
}

func TestComputeSnapshot_UnmappableIntensityIgnored(t *testing.T) {
	sigs := []domain.Signal{
		sig(domain.EmotionSad, domain.Intensity("???"), domain.ContextWork, daysAgo(1)),
		sig(domain.EmotionSad, domain.IntensityLow, domain.ContextWork, daysAgo(1)),
	}
	snap := ComputeSnapshot("u", sigs, testNow)
	assert.Equal(t, 2, snap.SignalCount)
	assert.Equal(t, 1.0, snap.AvgIntensity)
}

func TestBaselineState(t *testing.T) {
	assert.Equal(t, domain.BaselineFluctuating, baselineState(1.0, 1.1))
	assert.Equal(t, domain.BaselineCalm, baselineState(2.2, 0.5))
	assert.Equal(t, domain.BaselineElevated, baselineState(2.21, 0.5))
	assert.Equal(t, domain.BaselineElevated, baselineState(3.5, 1.09))
	assert.Equal(t, domain.BaselineHigh, baselineState(3.6, 0))
}
