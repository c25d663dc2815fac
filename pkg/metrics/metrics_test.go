package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))
			manager.matchRequests.WithLabelValues("remote").Inc()

			Convey("Then metrics are registered under the default namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "crewmatch_server_match_requests_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.profileUpserts.Inc()

			Convey("Then names and labels follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
					if f.GetName() == "test_unit_profile_upserts_total" {
						labels := f.GetMetric()[0].GetLabel()
						So(labels, ShouldHaveLength, 1)
						So(labels[0].GetName(), ShouldEqual, "env")
					}
				}
				So(strings.Join(names, ","), ShouldContainSubstring, "test_unit_profile_upserts_total")
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "crewmatch")
				So(manager.subsystem, ShouldEqual, "server")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.constLabels, ShouldBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When a fallback is recorded", func() {
			before := testutil.ToFloat64(globalManager.fallbackSelected.WithLabelValues("error"))
			RecordFallbackSelected("error")

			Convey("Then the reason counter grows by one", func() {
				after := testutil.ToFloat64(globalManager.fallbackSelected.WithLabelValues("error"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When match requests are recorded", func() {
			before := testutil.ToFloat64(globalManager.matchRequests.WithLabelValues("fallback"))
			RecordMatchRequest("fallback")
			RecordMatchRequest("fallback")

			Convey("Then the source counter reflects them", func() {
				after := testutil.ToFloat64(globalManager.matchRequests.WithLabelValues("fallback"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When gauges are set", func() {
			UpdateProfilesTotal(12)
			UpdateSubscribers(3)
			UpdateQueueSize(7)

			Convey("Then they hold the last value", func() {
				So(testutil.ToFloat64(globalManager.profilesTotal), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.subscribers), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7)
			})
		})

		Convey("When synced events are added", func() {
			before := testutil.ToFloat64(globalManager.eventsSynced)
			RecordEventsSynced(5)

			Convey("Then the counter grows by the batch size", func() {
				So(testutil.ToFloat64(globalManager.eventsSynced)-before, ShouldEqual, 5)
			})
		})

		Convey("When every recorder is called", func() {
			Convey("Then none panic", func() {
				So(func() {
					RecordMatchLatency(3)
					RecordMatchScore(77)
					RecordRemoteFetchLatency(40)
					RecordProfileUpsert()
					RecordMessageProcessed()
					RecordMessageDuplicate()
					RecordDeliveryLatency(1)
					RecordBroadcastDropped()
					RecordCalendarError()
					RecordInvitationIssued()
					RecordHTTPRequest("/api/matches", "GET", "200")
					RecordHTTPRequestDuration("/api/matches", "GET", "200", 2)
					RecordRateLimited()
					RecordRepositoryQueryLatency("get_profile", 0.3)
					RecordRepositoryUpdateLatency("upsert_profile", 0.4)
					UpdateQueueCapacity(100)
					UpdateQueueUtilization(0.07)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					UpdateWorkerCount(4)
					UpdateWorkerActiveCount(4)
					RecordWorkerProcessingLatency(0.2)
					RecordWorkerError()
					RecordErrorByComponent("api", "bad_request")
					RecordErrorByEndpoint("/api/profile", "POST", "bad_request")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(10)
				}, ShouldNotPanic)
			})
		})

		Convey("When reading the registry", func() {
			Convey("Then the custom registry is returned", func() {
				So(GetRegistry(), ShouldEqual, customRegistry)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		before := testutil.ToFloat64(globalManager.messagesProcessed)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordMessageProcessed()
				}
			}()
		}
		wg.Wait()

		Convey("Then no increments are lost", func() {
			So(testutil.ToFloat64(globalManager.messagesProcessed)-before, ShouldEqual, 1000)
		})
	})
}
