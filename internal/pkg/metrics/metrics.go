// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	relationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawpals_relations_created_total",
		Help: "Relation rows created, by relation kind",
	}, []string{"kind"})

	relationsRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawpals_relations_removed_total",
		Help: "Relation rows removed by unassign, retraction or cascade, by relation kind",
	}, []string{"kind"})

	membershipTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawpals_membership_transitions_total",
		Help: "Group membership state changes, by resulting status",
	}, []string{"status"})

	matchActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawpals_match_actions_total",
		Help: "Recorded like/dislike actions",
	}, []string{"action"})

	mutualMatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawpals_mutual_matches_total",
		Help: "Mutual matches detected",
	})

	notificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawpals_notifications_dropped_total",
		Help: "Notification hook deliveries that failed",
	})

	domainErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawpals_domain_errors_total",
		Help: "Errors returned to callers, by API error code",
	}, []string{"code"})
)

// RelationCreated counts a new relation row of kind.
func RelationCreated(kind string) {
	relationsCreated.WithLabelValues(kind).Inc()
}

// RelationsRemoved counts n removed relation rows of kind.
func RelationsRemoved(kind string, n int64) {
	if n > 0 {
		relationsRemoved.WithLabelValues(kind).Add(float64(n))
	}
}

func MembershipTransition(status string) {
	membershipTransitions.WithLabelValues(status).Inc()
}

func MatchAction(action string) {
	matchActions.WithLabelValues(action).Inc()
}

func MutualMatch() {
	mutualMatches.Inc()
}

func NotificationDropped() {
	notificationsDropped.Inc()
}

func DomainError(code string) {
	domainErrors.WithLabelValues(code).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
