package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/crewmatch/internal/adapters/repository"
	service "github.com/okian/crewmatch/internal/app"
	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/internal/domain/types"
	"github.com/okian/crewmatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func subject() model.Profile {
	return model.Profile{
		Email:    "Me@CrewMatch.dev",
		FullName: "Me",
		Skills:   []string{"coding", "design", "leadership"},
		Traits:   model.Traits{Trait1: "extrovert", Trait2: "analytical", Trait3: "flexible", Trait4: "collaborative"},
		Goal:     "hackathon",
		Branch:   "cse",
	}
}

type failingSource struct{ calls int }

func (f *failingSource) Candidates(context.Context, string) ([]model.Profile, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

func startService(opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{service.WithWorkerCount(2), service.WithQueueSize(100)}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithPageSize(6),
		)

		Convey("Then stats reflect the configuration before start", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["workerCount"], ShouldEqual, 8)
			So(stats["queueSize"], ShouldEqual, 50_000)
			So(stats["pageSize"], ShouldEqual, 6)
		})

		Convey("Then calls before start are refused", func() {
			_, err := svc.GetProfile(context.Background(), "a@x.io")
			So(err, ShouldEqual, service.ErrNotStarted)
			_, err = svc.MatchProfile(context.Background(), subject())
			So(err, ShouldEqual, service.ErrNotStarted)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc := service.New(service.WithWorkerCount(2))
		So(svc.Start(ctx), ShouldBeNil)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then it reports running stats", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["queueLength"], ShouldEqual, 0)
			So(stats["totalProfiles"], ShouldEqual, 0)
			So(svc.Hub(), ShouldNotBeNil)
			svc.Stop()
		})

		Convey("When stopping the service twice", func() {
			svc.Stop()
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Profiles(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When a profile is saved twice", func() {
			n1, err1 := svc.SaveProfile(ctx, subject())
			p := subject()
			p.Bio = "builds things"
			n2, err2 := svc.SaveProfile(ctx, p)

			Convey("Then the first insert and the second update", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(n1, ShouldEqual, 1)
				So(n2, ShouldEqual, 2)
			})

			Convey("And lookups are case-insensitive on email", func() {
				got, err := svc.GetProfile(ctx, "ME@crewmatch.dev ")
				So(err, ShouldBeNil)
				So(got.Bio, ShouldEqual, "builds things")
				So(got.Email, ShouldEqual, "me@crewmatch.dev")
			})
		})

		Convey("When the profile does not exist", func() {
			_, err := svc.GetProfile(ctx, "ghost@x.io")

			Convey("Then the store's not-found error surfaces", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Matches(t *testing.T) {
	Convey("Given a service with only the subject stored", t, func() {
		svc := startService()
		defer svc.Stop()
		ctx := context.Background()
		_, err := svc.SaveProfile(ctx, subject())
		So(err, ShouldBeNil)

		Convey("When matching", func() {
			page, err := svc.Matches(ctx, "me@crewmatch.dev")

			Convey("Then the fallback pool is ranked and split four and two", func() {
				So(err, ShouldBeNil)
				So(page.Source, ShouldEqual, types.SourceFallback)
				So(page.Top, ShouldHaveLength, 4)
				So(page.Remainder, ShouldHaveLength, 2)
				So(page.Top[0].Candidate.FullName, ShouldEqual, "Aarav Sharma")
				So(page.Top[0].Score, ShouldEqual, 77)
			})
		})

		Convey("When other profiles are stored", func() {
			_, err := svc.SaveProfile(ctx, model.Profile{Email: "peer@x.io", FullName: "Peer", Skills: []string{"coding", "design", "research"}, Goal: "hackathon", Branch: "ece"})
			So(err, ShouldBeNil)
			_, err = svc.SaveProfile(ctx, model.Profile{Email: "far@x.io", FullName: "Far", Skills: []string{"marketing", "research", "communication"}, Goal: "networking", Branch: "cse"})
			So(err, ShouldBeNil)

			page, err := svc.Matches(ctx, "me@crewmatch.dev")

			Convey("Then they form the pool and the subject is excluded", func() {
				So(err, ShouldBeNil)
				So(page.Source, ShouldEqual, types.SourceRemote)
				So(page.Total(), ShouldEqual, 2)
				So(page.Top[0].Candidate.Email, ShouldEqual, "peer@x.io")
				So(page.Top[0].Score, ShouldEqual, 62)
				So(page.Top[1].Score, ShouldEqual, 10)
				So(page.Remainder, ShouldBeEmpty)
			})
		})

		Convey("When the subject is unknown", func() {
			_, err := svc.Matches(ctx, "ghost@x.io")

			Convey("Then not-found is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a remote source that always fails", t, func() {
		src := &failingSource{}
		svc := startService(service.WithCandidateSource(src), service.WithPageSize(2))
		defer svc.Stop()

		Convey("When matching an unsaved profile", func() {
			page, err := svc.MatchProfile(context.Background(), subject())

			Convey("Then one attempt is made and the fallback pool is used", func() {
				So(err, ShouldBeNil)
				So(src.calls, ShouldEqual, 1)
				So(page.Source, ShouldEqual, types.SourceFallback)
				So(page.Top, ShouldHaveLength, 2)
				So(page.Remainder, ShouldHaveLength, 4)
			})
		})
	})

	Convey("Given a custom fallback pool", t, func() {
		pool := []model.Profile{{ID: "only", FullName: "Only One", Goal: "hackathon"}}
		svc := startService(service.WithCandidateSource(&failingSource{}), service.WithFallbackPool(pool))
		defer svc.Stop()

		Convey("Then it replaces the sample candidates", func() {
			page, err := svc.MatchProfile(context.Background(), subject())
			So(err, ShouldBeNil)
			So(page.Total(), ShouldEqual, 1)
			So(page.Top[0].Candidate.FullName, ShouldEqual, "Only One")
			So(page.Top[0].Score, ShouldEqual, 30)
		})
	})
}
