package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// InitMeterProvider installs a Prometheus-backed MeterProvider and returns the
// /metrics handler with its shutdown function.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(newResource(serviceName, serviceVersion)),
	)
	otel.SetMeterProvider(mp)

	return promhttp.Handler(), mp.Shutdown, nil
}

// OrderMetrics holds the order lifecycle instruments. A nil *OrderMetrics
// records nothing.
type OrderMetrics struct {
	ordersCreated     otelmetric.Int64Counter
	statusTransitions otelmetric.Int64Counter
	checkoutFailures  otelmetric.Int64Counter
	orderValue        otelmetric.Float64Histogram
}

// NewOrderMetrics registers the instruments on the global MeterProvider.
func NewOrderMetrics() (*OrderMetrics, error) {
	meter := otel.Meter("unieats/orders")

	created, err := meter.Int64Counter("orders_created_total",
		otelmetric.WithDescription("Orders placed through checkout"))
	if err != nil {
		return nil, err
	}
	transitions, err := meter.Int64Counter("order_status_transitions_total",
		otelmetric.WithDescription("Applied order status transitions"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("checkout_failures_total",
		otelmetric.WithDescription("Rejected or failed checkouts by reason"))
	if err != nil {
		return nil, err
	}
	value, err := meter.Float64Histogram("order_value",
		otelmetric.WithDescription("Order totals at checkout"),
		otelmetric.WithExplicitBucketBoundaries(5, 10, 25, 50, 100, 250, 500))
	if err != nil {
		return nil, err
	}

	return &OrderMetrics{
		ordersCreated:     created,
		statusTransitions: transitions,
		checkoutFailures:  failures,
		orderValue:        value,
	}, nil
}

func (m *OrderMetrics) OrderCreated(ctx context.Context, shopID int64, total float64) {
	if m == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.Int64("shop_id", shopID))
	m.ordersCreated.Add(ctx, 1, attrs)
	m.orderValue.Record(ctx, total, attrs)
}

func (m *OrderMetrics) StatusTransition(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

func (m *OrderMetrics) CheckoutFailed(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.checkoutFailures.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("reason", reason)))
}
