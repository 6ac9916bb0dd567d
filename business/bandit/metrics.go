package bandit

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ArmUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_arm_updates_total",
			Help: "Count of applied bandit arm updates by section.",
		},
		[]string{"section"},
	)

	ArmUpdateErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bandit_arm_update_errors_total",
			Help: "Count of rejected or failed bandit arm update batches.",
		},
	)
)

func init() {
	prometheus.MustRegister(ArmUpdatesTotal, ArmUpdateErrorsTotal)
}
