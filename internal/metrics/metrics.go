package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitstudio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_bookings_total",
			Help: "Booking requests by outcome",
		},
		[]string{"outcome"},
	)

	BookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
		[]string{"refunded"},
	)

	AttendanceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_attendance_total",
			Help: "Attendance and completion records by credit deduction outcome",
		},
		[]string{"kind", "deduction"},
	)

	CreditsConsumedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitstudio_credits_consumed_total",
			Help: "Total number of credits consumed",
		},
	)

	CreditsRefundedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitstudio_credits_refunded_total",
			Help: "Total number of credits refunded",
		},
	)

	SubscriptionsPurchasedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_subscriptions_purchased_total",
			Help: "Total number of subscriptions purchased",
		},
		[]string{"plan"},
	)

	SubscriptionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitstudio_subscriptions_expired_total",
			Help: "Subscriptions moved to expired by the sweep job",
		},
	)

	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_sessions_total",
			Help: "Workout session transitions by resulting status",
		},
		[]string{"status"},
	)

	LowCreditNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_low_credit_notifications_total",
			Help: "Low credit notifications by delivery status",
		},
		[]string{"status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitstudio_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordRateLimited(path string) {
	RateLimitedTotal.WithLabelValues(path).Inc()
}

func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordBookingCancellation(refunded bool) {
	label := "false"
	if refunded {
		label = "true"
	}
	BookingCancellationsTotal.WithLabelValues(label).Inc()
}

func RecordAttendance(kind, deduction string) {
	AttendanceTotal.WithLabelValues(kind, deduction).Inc()
}

func RecordCreditConsumed() {
	CreditsConsumedTotal.Inc()
}

func RecordCreditRefunded() {
	CreditsRefundedTotal.Inc()
}

func RecordSubscriptionPurchase(plan string) {
	SubscriptionsPurchasedTotal.WithLabelValues(plan).Inc()
}

func RecordSubscriptionsExpired(n int64) {
	SubscriptionsExpiredTotal.Add(float64(n))
}

func RecordSession(status string) {
	SessionsTotal.WithLabelValues(status).Inc()
}

func RecordLowCreditNotification(status string) {
	LowCreditNotificationsTotal.WithLabelValues(status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func SetEmailQueueLength(n int64) {
	EmailQueueLength.Set(float64(n))
}
