package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("test_prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.refreshInterval, ShouldEqual, 5*time.Second)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})

			Convey("And collectors should carry namespace, prefix and labels", func() {
				manager.questionsTotal.WithLabelValues("ranking", "answer").Inc()

				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() == "test_namespace_test_subsystem_test_prefix_questions_total" {
						found = true
						So(mf.GetMetric()[0].GetLabel(), ShouldNotBeEmpty)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When invalid option values are passed", func() {
			m := &Manager{namespace: "keep", refreshInterval: time.Second}
			WithNamespace("")(m)
			WithRefreshInterval(-1)(m)
			WithHistogramBuckets(nil)(m)
			WithPrometheusRegistry(nil)(m)

			Convey("Then the previous values should be kept", func() {
				So(m.namespace, ShouldEqual, "keep")
				So(m.refreshInterval, ShouldEqual, time.Second)
				So(m.histogramBuckets, ShouldBeNil)
				So(m.registry, ShouldBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording question metrics", func() {
			before := testutil.ToFloat64(globalManager.questionsTotal.WithLabelValues("lookup", "no_data"))
			RecordQuestion("lookup", "no_data")
			RecordQuestion("lookup", "no_data")

			Convey("Then the counter should increase", func() {
				after := testutil.ToFloat64(globalManager.questionsTotal.WithLabelValues("lookup", "no_data"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When updating dataset gauges", func() {
			UpdateDataset(1400, 7, 3)

			Convey("Then the gauges should hold the values", func() {
				So(testutil.ToFloat64(globalManager.datasetRecords), ShouldEqual, 1400)
				So(testutil.ToFloat64(globalManager.datasetYears), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.datasetVersion), ShouldEqual, 3)
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordResolveLatency(0.2)
					RecordStrategyOutcome("retrieval", "answer")
					RecordStrategyError("llm")
					RecordLLMLatency(800)
					RecordLLMError()
					RecordSkippedRows(3)
					RecordSkippedRows(0)
					UpdateIndexedDocuments(1400)
					RecordReload("ok", 12)
					UpdateReloadQueue(1, 8)
					RecordReloadRejected()
					RecordScrapeRequest("200")
					RecordHTTPRequest("ask", "POST", "200")
					RecordHTTPRequestDuration("ask", "POST", "200", 4)
					RecordErrorByType("client_error", "medium")
					RecordErrorByEndpoint("ranking", "GET", "not_found")
					RecordErrorLatency("http", "not_found", 1)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then every family should use the medals namespace", func() {
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				for _, mf := range families {
					So(strings.HasPrefix(mf.GetName(), "medals_qa_"), ShouldBeTrue)
				}
			})
		})

		Convey("When reading the refresh interval", func() {
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}
