package ledger

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jgoulah/loadanalyzer/pkg/models"
)

// Ledger holds the appliance inventory in insertion order.
//
// All methods are safe for concurrent use; mutations are serialized so ids
// stay unique and order is preserved.
type Ledger struct {
	mu         sync.RWMutex
	appliances []models.Appliance
	newID      func() string
	now        func() time.Time
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		newID: newUUID,
		now:   time.Now,
	}
}

// newUUID returns a time-ordered UUIDv7, falling back to a random v4 if the
// v7 generator fails
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Add validates the raw fields and appends a new appliance.
// Nothing is inserted when validation fails; the returned *ValidationError
// lists every issue.
func (l *Ledger) Add(name, power, quantity, hours string) (models.Appliance, error) {
	if issues := Validate(name, power, quantity, hours); len(issues) > 0 {
		return models.Appliance{}, &ValidationError{Issues: issues}
	}

	// Validate guarantees these parse
	powerVal, _ := parseNumber(power)
	quantityVal, _ := parseNumber(quantity)
	hoursVal, _ := parseNumber(hours)

	l.mu.Lock()
	defer l.mu.Unlock()

	appliance := models.Appliance{
		ID:              l.uniqueID(),
		Name:            strings.TrimSpace(name),
		PowerWatts:      powerVal,
		Quantity:        quantityVal,
		HoursPerDay:     hoursVal,
		EnergyKWhPerDay: DailyEnergy(powerVal, quantityVal, hoursVal),
		CreatedAt:       l.now(),
	}
	l.appliances = append(l.appliances, appliance)

	return appliance, nil
}

// uniqueID draws ids until one is not already in use. Callers hold l.mu.
func (l *Ledger) uniqueID() string {
	for {
		id := l.newID()
		if l.indexOf(id) < 0 {
			return id
		}
	}
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.appliances {
		if l.appliances[i].ID == id {
			return i
		}
	}
	return -1
}

// Remove deletes the appliance with the given id.
// It returns false if no such appliance exists.
func (l *Ledger) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.appliances = append(l.appliances[:i], l.appliances[i+1:]...)
	return true
}

// Clear removes every appliance
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appliances = nil
}

// Len returns the number of appliances
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.appliances)
}

// Records returns a copy of the appliances in insertion order
func (l *Ledger) Records() []models.Appliance {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Appliance, len(l.appliances))
	copy(out, l.appliances)
	return out
}

// Get returns the appliance with the given id
func (l *Ledger) Get(id string) (models.Appliance, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexOf(id)
	if i < 0 {
		return models.Appliance{}, false
	}
	return l.appliances[i], true
}

// Analyze computes total, average and the largest and smallest consumers.
// Ties go to the appliance added first. It returns ErrEmptyLedger when
// there is nothing to analyze.
func (l *Ledger) Analyze() (models.Summary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.analyze()
}

// Analysis returns the summary and chart series computed from the same state
func (l *Ledger) Analysis() (models.Summary, []models.ChartPoint, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summary, err := l.analyze()
	if err != nil {
		return models.Summary{}, nil, err
	}
	return summary, l.chartSeries(), nil
}

func (l *Ledger) analyze() (models.Summary, error) {
	if len(l.appliances) == 0 {
		return models.Summary{}, ErrEmptyLedger
	}

	// Energies past float64 range are stored as +Inf and cannot enter a decimal
	total := decimal.Zero
	overflow := false
	maxRec, minRec := l.appliances[0], l.appliances[0]
	for _, a := range l.appliances {
		if math.IsInf(a.EnergyKWhPerDay, 0) || math.IsNaN(a.EnergyKWhPerDay) {
			overflow = true
		} else {
			total = total.Add(decimal.NewFromFloat(a.EnergyKWhPerDay))
		}
		if a.EnergyKWhPerDay > maxRec.EnergyKWhPerDay {
			maxRec = a
		}
		if a.EnergyKWhPerDay < minRec.EnergyKWhPerDay {
			minRec = a
		}
	}

	count := len(l.appliances)
	average := total.Div(decimal.NewFromInt(int64(count)))

	totalVal, _ := total.Float64()
	averageVal, _ := average.Float64()
	if overflow {
		totalVal, averageVal = math.Inf(1), math.Inf(1)
	}

	return models.Summary{
		TotalEnergyKWh:   totalVal,
		AverageEnergyKWh: averageVal,
		MaxConsumer:      maxRec,
		MinConsumer:      minRec,
		Count:            count,
	}, nil
}

// ChartSeries projects the ledger into chart bars in insertion order.
// A bar is marked max when its energy equals the ledger maximum, otherwise
// min when it equals the minimum. Every tied bar gets the role, unlike
// Analyze which picks a single record.
func (l *Ledger) ChartSeries() []models.ChartPoint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chartSeries()
}

func (l *Ledger) chartSeries() []models.ChartPoint {
	series := make([]models.ChartPoint, 0, len(l.appliances))
	if len(l.appliances) == 0 {
		return series
	}

	maxVal, minVal := l.appliances[0].EnergyKWhPerDay, l.appliances[0].EnergyKWhPerDay
	for _, a := range l.appliances[1:] {
		if a.EnergyKWhPerDay > maxVal {
			maxVal = a.EnergyKWhPerDay
		}
		if a.EnergyKWhPerDay < minVal {
			minVal = a.EnergyKWhPerDay
		}
	}

	for _, a := range l.appliances {
		role := models.RoleDefault
		switch a.EnergyKWhPerDay {
		case maxVal:
			role = models.RoleMax
		case minVal:
			role = models.RoleMin
		}
		series = append(series, models.ChartPoint{
			Label: a.Name,
			Value: a.EnergyKWhPerDay,
			Role:  role,
		})
	}

	return series
}

// DailyEnergy returns the kWh used per day: (watts / 1000) * hours * quantity.
// Products beyond float64 range come back as +Inf.
func DailyEnergy(powerWatts, quantity, hoursPerDay float64) float64 {
	kwh := decimal.NewFromFloat(powerWatts).Shift(-3).
		Mul(decimal.NewFromFloat(hoursPerDay)).
		Mul(decimal.NewFromFloat(quantity))
	v, _ := kwh.Float64()
	return v
}
