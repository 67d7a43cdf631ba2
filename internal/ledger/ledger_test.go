package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/loadanalyzer/pkg/models"
)

func mustAdd(t *testing.T, l *Ledger, name, power, quantity, hours string) models.Appliance {
	t.Helper()
	a, err := l.Add(name, power, quantity, hours)
	require.NoError(t, err)
	return a
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		fields   [4]string
		wantErrs []Issue
	}{
		{name: "valid entry", fields: [4]string{"Fridge", "150", "1", "24"}},
		{name: "fractional quantity", fields: [4]string{"Fan", "75", "0.5", "3"}},
		{name: "huge power accepted", fields: [4]string{"Furnace", "1e12", "1000000", "1"}},
		{name: "name padded with spaces", fields: [4]string{"   Lamp  ", " 60 ", "2", "5"}},
		{name: "empty name", fields: [4]string{"", "100", "1", "1"}, wantErrs: []Issue{EmptyName}},
		{name: "blank name", fields: [4]string{"   ", "100", "1", "1"}, wantErrs: []Issue{EmptyName}},
		{name: "name 50 chars", fields: [4]string{strings.Repeat("a", 50), "100", "1", "1"}},
		{name: "name 51 chars", fields: [4]string{strings.Repeat("a", 51), "100", "1", "1"}, wantErrs: []Issue{NameTooLong}},
		{name: "name 50 multibyte chars", fields: [4]string{strings.Repeat("é", 50), "100", "1", "1"}},
		{name: "zero power", fields: [4]string{"TV", "0", "1", "1"}, wantErrs: []Issue{InvalidPower}},
		{name: "negative power", fields: [4]string{"TV", "-5", "1", "1"}, wantErrs: []Issue{InvalidPower}},
		{name: "power not a number", fields: [4]string{"TV", "abc", "1", "1"}, wantErrs: []Issue{InvalidPower}},
		{name: "power blank", fields: [4]string{"TV", "", "1", "1"}, wantErrs: []Issue{InvalidPower}},
		{name: "power NaN", fields: [4]string{"TV", "NaN", "1", "1"}, wantErrs: []Issue{InvalidPower}},
		{name: "power infinite", fields: [4]string{"TV", "Inf", "1", "1"}, wantErrs: []Issue{InvalidPower}},
		{name: "negative quantity", fields: [4]string{"TV", "100", "-1", "1"}, wantErrs: []Issue{InvalidQuantity}},
		{name: "quantity not a number", fields: [4]string{"TV", "100", "two", "1"}, wantErrs: []Issue{InvalidQuantity}},
		{name: "zero hours", fields: [4]string{"TV", "100", "1", "0"}, wantErrs: []Issue{InvalidHours}},
		{name: "hours not a number", fields: [4]string{"TV", "100", "1", "x"}, wantErrs: []Issue{InvalidHours}},
		{name: "24 hours", fields: [4]string{"TV", "100", "1", "24"}},
		{name: "25 hours", fields: [4]string{"TV", "100", "1", "25"}, wantErrs: []Issue{HoursExceedsDay}},
		{name: "empty name and zero power", fields: [4]string{"", "0", "1", "1"}, wantErrs: []Issue{EmptyName, InvalidPower}},
		{
			name:     "everything wrong",
			fields:   [4]string{strings.Repeat("b", 60), "-1", "0", "30"},
			wantErrs: []Issue{NameTooLong, InvalidPower, InvalidQuantity, HoursExceedsDay},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(tc.fields[0], tc.fields[1], tc.fields[2], tc.fields[3])
			assert.Equal(t, tc.wantErrs, got)
		})
	}
}

func TestAdd_ComputesEnergy(t *testing.T) {
	l := New()
	a := mustAdd(t, l, "  Monitor ", "150", "2", "8")

	assert.Equal(t, "Monitor", a.Name)
	assert.Equal(t, 150.0, a.PowerWatts)
	assert.Equal(t, 2.0, a.Quantity)
	assert.Equal(t, 8.0, a.HoursPerDay)
	assert.Equal(t, 2.4, a.EnergyKWhPerDay)
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, 1, l.Len())
}

func TestAdd_RejectsWholesale(t *testing.T) {
	l := New()
	mustAdd(t, l, "Fridge", "150", "1", "24")

	_, err := l.Add("", "0", "1", "5")
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []Issue{EmptyName, InvalidPower}, verr.Issues)
	assert.True(t, verr.Has(EmptyName))
	assert.False(t, verr.Has(InvalidHours))
	assert.Contains(t, err.Error(), "Appliance name cannot be empty")
	assert.Contains(t, err.Error(), "Power rating must be a positive number")

	assert.Equal(t, 1, l.Len())
}

func TestAdd_UniqueIDs(t *testing.T) {
	l := New()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		a := mustAdd(t, l, fmt.Sprintf("Bulb %d", i), "10", "1", "1")
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
	}
}

func TestAdd_SkipsCollidingIDs(t *testing.T) {
	ids := []string{"a", "a", "a", "b"}
	l := New()
	l.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first := mustAdd(t, l, "One", "10", "1", "1")
	second := mustAdd(t, l, "Two", "10", "1", "1")
	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "b", second.ID)
}

func TestRemove(t *testing.T) {
	l := New()
	a := mustAdd(t, l, "A", "100", "1", "1")
	b := mustAdd(t, l, "B", "200", "1", "1")
	c := mustAdd(t, l, "C", "300", "1", "1")

	assert.False(t, l.Remove("does-not-exist"))
	assert.Equal(t, []models.Appliance{a, b, c}, l.Records())

	assert.True(t, l.Remove(b.ID))
	assert.Equal(t, []models.Appliance{a, c}, l.Records())

	assert.False(t, l.Remove(b.ID))
	assert.Equal(t, 2, l.Len())

	_, ok := l.Get(b.ID)
	assert.False(t, ok)
	got, ok := l.Get(c.ID)
	assert.True(t, ok)
	assert.Equal(t, c, got)
}

func TestClear(t *testing.T) {
	l := New()
	mustAdd(t, l, "A", "100", "1", "1")
	mustAdd(t, l, "B", "200", "1", "1")

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Records())
	assert.Empty(t, l.ChartSeries())

	_, err := l.Analyze()
	assert.ErrorIs(t, err, ErrEmptyLedger)

	// still usable after clearing
	mustAdd(t, l, "C", "300", "1", "1")
	assert.Equal(t, 1, l.Len())
}

func TestRecords_ReturnsCopy(t *testing.T) {
	l := New()
	mustAdd(t, l, "A", "100", "1", "1")

	recs := l.Records()
	recs[0].Name = "changed"
	assert.Equal(t, "A", l.Records()[0].Name)
}

func TestAnalyze_Empty(t *testing.T) {
	_, err := New().Analyze()
	assert.ErrorIs(t, err, ErrEmptyLedger)
}

func TestAnalyze_SingleRecord(t *testing.T) {
	l := New()
	a := mustAdd(t, l, "Heater", "2000", "1", "3")

	s, err := l.Analyze()
	require.NoError(t, err)
	assert.Equal(t, a.EnergyKWhPerDay, s.TotalEnergyKWh)
	assert.Equal(t, s.TotalEnergyKWh, s.AverageEnergyKWh)
	assert.Equal(t, a, s.MaxConsumer)
	assert.Equal(t, a, s.MinConsumer)
	assert.Equal(t, 1, s.Count)
}

func TestAnalyze_FridgeAndLamp(t *testing.T) {
	l := New()
	fridge := mustAdd(t, l, "Fridge", "150", "1", "24")
	lamp := mustAdd(t, l, "Lamp", "60", "2", "5")

	assert.Equal(t, 3.6, fridge.EnergyKWhPerDay)
	assert.Equal(t, 0.6, lamp.EnergyKWhPerDay)

	s, err := l.Analyze()
	require.NoError(t, err)
	assert.Equal(t, 4.2, s.TotalEnergyKWh)
	assert.Equal(t, 2.1, s.AverageEnergyKWh)
	assert.Equal(t, "Fridge", s.MaxConsumer.Name)
	assert.Equal(t, "Lamp", s.MinConsumer.Name)
	assert.Equal(t, 2, s.Count)

	again, err := l.Analyze()
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestAnalyze_TieBreakFirstInserted(t *testing.T) {
	l := New()
	first := mustAdd(t, l, "Five hours", "100", "1", "5")
	second := mustAdd(t, l, "One hour", "500", "1", "1")
	require.Equal(t, first.EnergyKWhPerDay, second.EnergyKWhPerDay)

	s, err := l.Analyze()
	require.NoError(t, err)
	assert.Equal(t, first.ID, s.MaxConsumer.ID)
	assert.Equal(t, first.ID, s.MinConsumer.ID)
}

func TestAnalyze_EnergyBeyondFloatRange(t *testing.T) {
	l := New()
	huge := mustAdd(t, l, "Huge", "1e308", "1e308", "24")
	mustAdd(t, l, "Lamp", "60", "2", "5")
	assert.True(t, math.IsInf(huge.EnergyKWhPerDay, 1))

	var s models.Summary
	require.NotPanics(t, func() {
		var err error
		s, err = l.Analyze()
		require.NoError(t, err)
	})
	assert.True(t, math.IsInf(s.TotalEnergyKWh, 1))
	assert.True(t, math.IsInf(s.AverageEnergyKWh, 1))
	assert.Equal(t, huge.ID, s.MaxConsumer.ID)
	assert.Equal(t, "Lamp", s.MinConsumer.Name)

	series := l.ChartSeries()
	require.Len(t, series, 2)
	assert.Equal(t, models.RoleMax, series[0].Role)
	assert.Equal(t, models.RoleMin, series[1].Role)
}

func TestAnalyze_TotalOverflow(t *testing.T) {
	l := New()
	// 1e308 kWh each: finite alone, past float64 range together
	a := mustAdd(t, l, "Plant A", "1e308", "100", "10")
	mustAdd(t, l, "Plant B", "1e308", "100", "10")
	require.Equal(t, 1e308, a.EnergyKWhPerDay)

	var s models.Summary
	require.NotPanics(t, func() {
		var err error
		s, err = l.Analyze()
		require.NoError(t, err)
	})
	assert.True(t, math.IsInf(s.TotalEnergyKWh, 1))
	assert.Equal(t, 1e308, s.AverageEnergyKWh)
}

func TestChartSeries(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		series := New().ChartSeries()
		assert.NotNil(t, series)
		assert.Empty(t, series)
	})

	t.Run("single record is max", func(t *testing.T) {
		l := New()
		mustAdd(t, l, "Only", "100", "1", "1")
		assert.Equal(t, []models.ChartPoint{{Label: "Only", Value: 0.1, Role: models.RoleMax}}, l.ChartSeries())
	})

	t.Run("roles in insertion order", func(t *testing.T) {
		l := New()
		mustAdd(t, l, "Fridge", "150", "1", "24")
		mustAdd(t, l, "Lamp", "60", "2", "5")
		mustAdd(t, l, "TV", "100", "1", "10")

		want := []models.ChartPoint{
			{Label: "Fridge", Value: 3.6, Role: models.RoleMax},
			{Label: "Lamp", Value: 0.6, Role: models.RoleMin},
			{Label: "TV", Value: 1, Role: models.RoleDefault},
		}
		assert.Equal(t, want, l.ChartSeries())
	})

	t.Run("ties colour every matching bar", func(t *testing.T) {
		l := New()
		mustAdd(t, l, "A", "100", "1", "5")
		mustAdd(t, l, "B", "500", "1", "1")
		mustAdd(t, l, "C", "100", "1", "1")
		mustAdd(t, l, "D", "100", "1", "1")

		roles := []models.ColorRole{}
		for _, p := range l.ChartSeries() {
			roles = append(roles, p.Role)
		}
		assert.Equal(t, []models.ColorRole{models.RoleMax, models.RoleMax, models.RoleMin, models.RoleMin}, roles)
	})

	t.Run("all equal are max", func(t *testing.T) {
		l := New()
		mustAdd(t, l, "A", "100", "1", "1")
		mustAdd(t, l, "B", "100", "1", "1")
		for _, p := range l.ChartSeries() {
			assert.Equal(t, models.RoleMax, p.Role)
		}
	})
}

func TestLedger_ConcurrentAdds(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.Add(fmt.Sprintf("Device %d", i), "100", "1", "1")
			assert.NoError(t, err)
			_ = l.ChartSeries()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, l.Len())
	ids := make(map[string]bool)
	for _, a := range l.Records() {
		ids[a.ID] = true
	}
	assert.Len(t, ids, 50)
}

func TestDailyEnergy(t *testing.T) {
	assert.Equal(t, 2.4, DailyEnergy(150, 2, 8))
	assert.Equal(t, 0.5, DailyEnergy(100, 1, 5))
	assert.Equal(t, 0.5, DailyEnergy(500, 1, 1))
	assert.Equal(t, 0.0375, DailyEnergy(75, 0.5, 1))
}

func TestAnalysis(t *testing.T) {
	l := New()
	_, _, err := l.Analysis()
	assert.ErrorIs(t, err, ErrEmptyLedger)

	mustAdd(t, l, "Fridge", "150", "1", "24")
	mustAdd(t, l, "Lamp", "60", "2", "5")

	summary, series, err := l.Analysis()
	require.NoError(t, err)
	want, err := l.Analyze()
	require.NoError(t, err)
	assert.Equal(t, want, summary)
	assert.Equal(t, l.ChartSeries(), series)
}
