package server

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"ev-parking-lot/internal/parking"
)

// lotCollector exposes the current lot occupancy on /metrics. Values are read
// from a controller snapshot at scrape time.
type lotCollector struct {
	controller *parking.InstrumentedController

	slots *prometheus.Desc
	level *prometheus.Desc
}

func newLotCollector(controller *parking.InstrumentedController) *lotCollector {
	return &lotCollector{
		controller: controller,
		slots: prometheus.NewDesc(
			"parking_lot_slots",
			"Number of parking slots by pool and state.",
			[]string{"pool", "state"}, nil,
		),
		level: prometheus.NewDesc(
			"parking_lot_level",
			"Level identifier of the configured lot.",
			nil, nil,
		),
	}
}

func (c *lotCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.slots
	ch <- c.level
}

func (c *lotCollector) Collect(ch chan<- prometheus.Metric) {
	status := c.controller.Status(context.Background())

	pools := []struct {
		name   string
		status parking.PoolStatus
	}{
		{parking.PoolRegular.String(), status.Regular},
		{parking.PoolElectric.String(), status.EV},
	}

	for _, p := range pools {
		ch <- prometheus.MustNewConstMetric(c.slots, prometheus.GaugeValue, float64(p.status.Occupied), p.name, "occupied")
		ch <- prometheus.MustNewConstMetric(c.slots, prometheus.GaugeValue, float64(p.status.Available()), p.name, "available")
	}
	ch <- prometheus.MustNewConstMetric(c.level, prometheus.GaugeValue, float64(status.Level))
}
