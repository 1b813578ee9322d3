package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statementsExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grants_statements_executed",
		Help: "The total number of mutation statements executed against the server",
	})
	accessReconciliations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grants_access_reconciliations",
		Help: "The total number of role or privilege reconciliation calls",
	})
	userReconciliations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grants_user_reconciliations",
		Help: "The total number of user lifecycle reconciliation calls",
	})
	usersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grants_users_created",
		Help: "The total number of users created",
	})
	usersDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grants_users_dropped",
		Help: "The total number of users dropped",
	})
)

func IncrementStatementsExecuted(count int) {
	statementsExecuted.Add(float64(count))
}

func IncrementAccessReconciliations(count int) {
	accessReconciliations.Add(float64(count))
}

func IncrementUserReconciliations(count int) {
	userReconciliations.Add(float64(count))
}

func IncrementUsersCreated(count int) {
	usersCreated.Add(float64(count))
}

func IncrementUsersDropped(count int) {
	usersDropped.Add(float64(count))
}
