package service

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Simulation bounds: plausible soil moisture drifts around a damp baseline,
// clamped to the range a real probe reports.
const (
	simBaseMoisture = 45.0
	simDayAmplitude = 10.0 // slow multi-day drift
	simHourSwing    = 5.0  // intra-day swing
	simNoise        = 5.0  // +/- random jitter
	simMinMoisture  = 30.0
	simMaxMoisture  = 70.0
)

// SimulatorService feeds generated readings through the normal ingest path
// when no physical sensor is attached.
type SimulatorService struct {
	ingest Ingest
	rng    *rand.Rand
	now    func() time.Time
}

func NewSimulatorService(ingest Ingest) *SimulatorService {
	return &SimulatorService{
		ingest: ingest,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// Run ticks at the given interval until ctx is canceled, recording one
// generated reading per tick.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			_, _ = s.ingest.Record(ctx, RecordParams{
				Moisture: s.generate(now),
				Source:   SourceSimulator,
			})
		}
	}
}

// generate produces a moisture value for the given instant: a sinusoidal
// day-of-month drift plus an hourly swing plus jitter, clamped to the probe's
// practical range.
func (s *SimulatorService) generate(now time.Time) float64 {
	day := float64(now.UTC().Day())
	hour := float64(now.UTC().Hour())

	moisture := simBaseMoisture +
		math.Sin(day*0.2)*simDayAmplitude +
		math.Sin(hour*0.3)*simHourSwing +
		(s.rng.Float64()-0.5)*2*simNoise

	if moisture < simMinMoisture {
		moisture = simMinMoisture
	}
	if moisture > simMaxMoisture {
		moisture = simMaxMoisture
	}
	return round2(moisture)
}
