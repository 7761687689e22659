package finance

import "math/rand"

// DataSource feeds the aggregation engine with per-branch records. The mock
// implementation stands in for a transactional ledger that does not exist
// yet; a future ledger-backed source replaces it without touching the
// calculators.
type DataSource interface {
	// BaseSeries returns the chronological monthly series for a concrete
	// unit. Empty when the unit has no records.
	BaseSeries(unitID string) []MonthlyRecord
	// Students returns the active student roster for a concrete unit,
	// zero when unknown.
	Students(unitID string) int
	// DelinquencySeries returns per-month delinquency percentages aligned
	// with BaseSeries.
	DelinquencySeries(unitID string) []float64
	// Occupancy returns the classroom occupancy percentage for a unit.
	Occupancy(unitID string) float64
	// Satisfaction returns the family satisfaction percentage for a unit.
	Satisfaction(unitID string) float64
}

type mockUnitData struct {
	revenue      []float64
	expense      []float64
	students     int
	delinqBase   float64
	occupancy    float64
	satisfaction float64
}

// MockDataSource synthesises a plausible 2025 series per branch. All
// randomness flows from the injected seed so tests stay deterministic.
type MockDataSource struct {
	periods []string
	units   map[string]mockUnitData
	seed    int64
}

// NewMockDataSource builds the static dataset. The seed drives the
// delinquency jitter only.
func NewMockDataSource(seed int64) *MockDataSource {
	return &MockDataSource{
		seed: seed,
		periods: []string{
			"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06",
			"2025-07", "2025-08", "2025-09", "2025-10", "2025-11", "2025-12",
		},
		units: map[string]mockUnitData{
			"campo-grande": {
				revenue:      []float64{89200, 90100, 91350, 90800, 92400, 93600, 94100, 95300, 96200, 97100, 97800, 98500},
				expense:      []float64{70900, 71600, 72300, 72100, 73000, 73800, 74200, 74900, 75400, 75900, 76300, 76800},
				students:     420,
				delinqBase:   3.2,
				occupancy:    87,
				satisfaction: 92,
			},
			"recreio": {
				revenue:      []float64{76400, 77200, 78100, 77800, 79000, 79900, 80600, 81400, 82200, 83000, 83600, 84200},
				expense:      []float64{61200, 61800, 62500, 62300, 63100, 63700, 64300, 64900, 65500, 66000, 66500, 66900},
				students:     350,
				delinqBase:   2.8,
				occupancy:    82,
				satisfaction: 89,
			},
			"barra": {
				revenue:      []float64{56900, 57600, 58300, 58100, 59000, 59700, 60300, 61000, 61600, 62200, 62700, 63080},
				expense:      []float64{44100, 44600, 45200, 45000, 45700, 46200, 46700, 47100, 47500, 47800, 48100, 48300},
				students:     280,
				delinqBase:   4.1,
				occupancy:    78,
				satisfaction: 94,
			},
		},
	}
}

// BaseSeries implements DataSource.
func (m *MockDataSource) BaseSeries(unitID string) []MonthlyRecord {
	data, ok := m.units[unitID]
	if !ok {
		return nil
	}
	series := make([]MonthlyRecord, len(m.periods))
	for i, period := range m.periods {
		series[i] = MonthlyRecord{
			Period:   period,
			Revenue:  data.revenue[i],
			Expense:  data.expense[i],
			Students: data.students,
		}
	}
	return series
}

// Students implements DataSource.
func (m *MockDataSource) Students(unitID string) int {
	return m.units[unitID].students
}

// DelinquencySeries implements DataSource. Each month drifts slightly
// downward from the unit's base rate with seeded jitter on top.
func (m *MockDataSource) DelinquencySeries(unitID string) []float64 {
	data, ok := m.units[unitID]
	if !ok {
		return nil
	}
	rng := rand.New(rand.NewSource(m.seed + int64(len(unitID))))
	rates := make([]float64, len(m.periods))
	for i := range m.periods {
		jitter := (rng.Float64() - 0.5) * 0.8
		drift := 0.04 * float64(i)
		rate := data.delinqBase + jitter - drift
		if rate < 0.5 {
			rate = 0.5
		}
		rates[i] = rate
	}
	return rates
}

// Occupancy implements DataSource.
func (m *MockDataSource) Occupancy(unitID string) float64 {
	return m.units[unitID].occupancy
}

// Satisfaction implements DataSource.
func (m *MockDataSource) Satisfaction(unitID string) float64 {
	return m.units[unitID].satisfaction
}
