package deploy

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	deployTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villetta",
		Subsystem: "deploy",
		Name:      "deployments_total",
		Help:      "Count of deployment attempts by outcome",
	}, []string{"outcome"})

	anchorSkips = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villetta",
		Subsystem: "deploy",
		Name:      "patch_anchor_skips_total",
		Help:      "Template patch anchors that did not match, by rule",
	}, []string{"anchor"})
)

func init() {
	for _, collector := range []prometheus.Collector{deployTotal, anchorSkips} {
		if err := prometheus.Register(collector); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if v, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					if collector == deployTotal {
						deployTotal = v
					} else {
						anchorSkips = v
					}
				}
			}
		}
	}
}
