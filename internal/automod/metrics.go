package automod

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var messagesChecked = promauto.NewCounter(prometheus.CounterOpts{
	Name: "automod_messages_checked",
	Help: "Number of messages run through the rule pipeline",
})

var checkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "automod_check_duration_sec",
	Help: "Total duration of one message check including enforcement",
})

var ruleTriggered = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_rule_triggered",
	Help: "Number of rule triggers",
}, []string{"rule_type"})

var actionExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_action_executed",
	Help: "Number of enforcement actions executed",
}, []string{"action"})

var storeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_store_errors",
	Help: "Number of store failures that caused a message to pass unchecked",
}, []string{"stage"})

var sweeperPurged = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_sweeper_purged",
	Help: "Number of stale records removed by the sweeper",
}, []string{"kind"})
