package simulator

import (
	"math"

	"coldchain-monitor/internal/domain/geo"
)

// Policy holds the tuning knobs for one kind of synthetic telemetry.
type Policy struct {
	Name string

	// Temperature is drawn uniformly from [BaseMin, BaseMax), except with
	// BreachProbability it comes from [BreachMin, BreachMax).
	BaseMin           float64
	BaseMax           float64
	BreachProbability float64
	BreachMin         float64
	BreachMax         float64

	// StepFraction of the remaining distance is covered per tick, plus up to
	// ±Jitter degrees of noise on each axis.
	StepFraction float64
	Jitter       float64

	// Battery drops by up to BatteryDrainMax per tick and never below BatteryFloor.
	BatteryDrainMax float64
	BatteryFloor    float64
}

// ContinuousPolicy is used by demo mode: a wide band with a 15% chance of a
// forced breach so alerts show up regularly.
func ContinuousPolicy() Policy {
	return Policy{
		Name:              "continuous",
		BaseMin:           0,
		BaseMax:           12,
		BreachProbability: 0.15,
		BreachMin:         8.5,
		BreachMax:         12,
		StepFraction:      0.015,
		Jitter:            0.004,
		BatteryDrainMax:   0.5,
		BatteryFloor:      10,
	}
}

// SingleShotPolicy is used by the on-demand simulate trigger.
func SingleShotPolicy() Policy {
	return Policy{
		Name:            "single-shot",
		BaseMin:         2,
		BaseMax:         10,
		StepFraction:    0.015,
		Jitter:          0.004,
		BatteryDrainMax: 0.5,
		BatteryFloor:    10,
	}
}

// BackgroundPolicy is used by the always-on simulator.
func BackgroundPolicy() Policy {
	return Policy{
		Name:              "background",
		BaseMin:           2,
		BaseMax:           8,
		BreachProbability: 0.2,
		BreachMin:         8.5,
		BreachMax:         12.5,
		StepFraction:      0.01,
		Jitter:            0.0025,
		BatteryDrainMax:   0.3,
		BatteryFloor:      10,
	}
}

// Sample is one synthesized reading before ingestion.
type Sample struct {
	Temperature float64
	Location    geo.Location
	Battery     float64
}

// Sample draws the next reading for a device at current heading to dest.
// Draw order is fixed: breach roll (only when BreachProbability > 0),
// temperature, latitude jitter, longitude jitter, battery drain.
func (p Policy) Sample(r Rand, current, dest geo.Location, battery float64) Sample {
	lo, hi := p.BaseMin, p.BaseMax
	if p.BreachProbability > 0 && r.Float64() < p.BreachProbability {
		lo, hi = p.BreachMin, p.BreachMax
	}
	temp := lo + r.Float64()*(hi-lo)

	lat := current.Lat + (dest.Lat-current.Lat)*p.StepFraction + (r.Float64()-0.5)*2*p.Jitter
	lng := current.Lng + (dest.Lng-current.Lng)*p.StepFraction + (r.Float64()-0.5)*2*p.Jitter

	// a device already under the floor stays where it is
	next := math.Max(math.Min(p.BatteryFloor, battery), battery-r.Float64()*p.BatteryDrainMax)

	return Sample{
		Temperature: geo.RoundTo(temp, 1),
		Location:    geo.Location{Lat: lat, Lng: lng}.Round(6),
		Battery:     geo.RoundTo(next, 1),
	}
}
