package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClicksTotal - нажатия по итогу обработки: executed, rejected, denied, failed, duplicate.
	ClicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_clicks_total",
			Help: "Total number of button clicks by outcome",
		},
		[]string{"outcome"},
	)

	// ActionsTotal - выполненные действия по имени.
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_actions_total",
			Help: "Total number of executed actions per action name",
		},
		[]string{"action"},
	)

	// ClickProcessingTime - время обработки нажатия.
	ClickProcessingTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_click_processing_seconds",
			Help:    "Time to process a button click",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		},
	)

	// SessionsSwept - удалённые истёкшие сессии меню.
	SessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_menu_sessions_swept_total",
		Help: "Total number of expired menu sessions removed by the sweeper",
	})

	// BrokerErrors - ошибки чтения и разбора событий из брокера.
	BrokerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_broker_errors_total",
			Help: "Total number of broker receive and decode errors",
		},
		[]string{"stage"},
	)
)
