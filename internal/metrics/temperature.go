package metrics

import "github.com/san-kum/argonbench/internal/dynamo"

// Thermometer is implemented by particle systems that report a kinetic
// temperature.
type Thermometer interface {
	Temperature(x dynamo.State) float64
}

// Temperature averages the kinetic temperature over observed states.
type Temperature struct {
	th      Thermometer
	sum     float64
	last    float64
	samples int
}

func NewTemperature(th Thermometer) *Temperature {
	return &Temperature{th: th}
}

func (m *Temperature) Name() string { return "temperature" }

func (m *Temperature) Observe(x dynamo.State, t float64) {
	m.last = m.th.Temperature(x)
	m.sum += m.last
	m.samples++
}

func (m *Temperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Temperature) Last() float64 { return m.last }

func (m *Temperature) Reset() {
	m.sum, m.last = 0, 0
	m.samples = 0
}
