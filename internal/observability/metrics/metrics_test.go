package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsUnknownLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("endpoint", "/api/invoices"),
		attribute.String("customer_email", "person@example.com"),
		attribute.String("outcome", "ok"),
	)

	require.Len(t, attrs, 2)
	for _, attr := range attrs {
		require.NotEqual(t, attribute.Key("customer_email"), attr.Key)
	}
}

func TestPrometheusRegistryExposesCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fixbench_test_events_total",
		Help: "test counter",
	})
	require.NoError(t, registry.Register(counter))
	counter.Add(3)

	families, err := registry.Gather()
	require.NoError(t, err)

	var found *dto.MetricFamily
	for _, family := range families {
		if family.GetName() == "fixbench_test_events_total" {
			found = family
		}
	}
	require.NotNil(t, found)
	require.Equal(t, float64(3), found.GetMetric()[0].GetCounter().GetValue())
}
