package matching_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/crewmatch/internal/domain/matching"
	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type stubSource struct {
	pool  []model.Profile
	err   error
	calls int
	email string
}

func (s *stubSource) Candidates(_ context.Context, email string) ([]model.Profile, error) {
	s.calls++
	s.email = email
	return s.pool, s.err
}

type stubLister struct {
	limit int
	pool  []model.Profile
	err   error
}

func (s *stubLister) OtherProfiles(_ context.Context, _ string, limit int) ([]model.Profile, error) {
	s.limit = limit
	return s.pool, s.err
}

func TestSelector(t *testing.T) {
	ctx := context.Background()
	subject := subjectProfile()

	Convey("Given a selector without a remote source", t, func() {
		sel := matching.NewSelector()

		Convey("Then the sample pool is used", func() {
			pool, src := sel.Select(ctx, subject)
			So(src, ShouldEqual, types.SourceFallback)
			So(pool, ShouldHaveLength, 6)
		})
	})

	Convey("Given a remote source with candidates", t, func() {
		remote := &stubSource{pool: []model.Profile{{Email: "r@x.io"}}}
		sel := matching.NewSelector(matching.WithRemote(remote))

		Convey("Then the remote pool is used after exactly one attempt", func() {
			pool, src := sel.Select(ctx, subject)
			So(src, ShouldEqual, types.SourceRemote)
			So(pool, ShouldHaveLength, 1)
			So(remote.calls, ShouldEqual, 1)
			So(remote.email, ShouldEqual, subject.Email)
		})
	})

	Convey("Given a failing remote source", t, func() {
		remote := &stubSource{err: errors.New("connection refused")}
		sel := matching.NewSelector(matching.WithRemote(remote))

		Convey("Then the fallback is used without retrying", func() {
			pool, src := sel.Select(ctx, subject)
			So(src, ShouldEqual, types.SourceFallback)
			So(pool, ShouldHaveLength, 6)
			So(remote.calls, ShouldEqual, 1)
		})

		Convey("And each selection makes a fresh attempt", func() {
			sel.Select(ctx, subject)
			sel.Select(ctx, subject)
			So(remote.calls, ShouldEqual, 2)
		})
	})

	Convey("Given a remote source returning nothing", t, func() {
		remote := &stubSource{}
		sel := matching.NewSelector(matching.WithRemote(remote))

		Convey("Then the fallback is used", func() {
			_, src := sel.Select(ctx, subject)
			So(src, ShouldEqual, types.SourceFallback)
		})
	})

	Convey("Given a subject without an email", t, func() {
		remote := &stubSource{pool: []model.Profile{{Email: "r@x.io"}}}
		sel := matching.NewSelector(matching.WithRemote(remote))

		Convey("Then the remote source is not consulted", func() {
			_, src := sel.Select(ctx, model.Profile{})
			So(src, ShouldEqual, types.SourceFallback)
			So(remote.calls, ShouldEqual, 0)
		})
	})

	Convey("Given a custom fallback pool", t, func() {
		custom := []model.Profile{{ID: "x", FullName: "Custom"}}
		sel := matching.NewSelector(matching.WithFallbackPool(custom))

		Convey("Then it replaces the sample pool and is returned as a copy", func() {
			pool, _ := sel.Select(ctx, subject)
			So(pool, ShouldHaveLength, 1)
			pool[0].FullName = "changed"
			again, _ := sel.Select(ctx, subject)
			So(again[0].FullName, ShouldEqual, "Custom")
		})
	})
}

func TestStoreSource(t *testing.T) {
	Convey("Given a store source with a zero limit", t, func() {
		lister := &stubLister{pool: []model.Profile{{Email: "o@x.io"}}}
		src := matching.NewStoreSource(lister, 0)

		Convey("Then the default limit is requested", func() {
			pool, err := src.Candidates(context.Background(), "me@x.io")
			So(err, ShouldBeNil)
			So(pool, ShouldHaveLength, 1)
			So(lister.limit, ShouldEqual, matching.DefaultCandidateLimit)
		})
	})

	Convey("Given a failing store", t, func() {
		src := matching.NewStoreSource(&stubLister{err: errors.New("db down")}, 5)

		Convey("Then the error is wrapped", func() {
			_, err := src.Candidates(context.Background(), "me@x.io")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "db down")
		})
	})
}

func TestLoadPool(t *testing.T) {
	Convey("Given a YAML candidate file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "pool.yaml")
		content := `
- id: "a1"
  fullName: Zoya Khan
  branch: ECE
  skills: [Coding, coding, research]
  traits:
    trait1: introvert
  goal: learning
`
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

		Convey("Then candidates are loaded and normalized", func() {
			pool, err := matching.LoadPool(path)
			So(err, ShouldBeNil)
			So(pool, ShouldHaveLength, 1)
			So(pool[0].Branch, ShouldEqual, "ece")
			So(pool[0].Skills, ShouldResemble, []string{"coding", "research"})
			So(pool[0].Traits.Trait1, ShouldEqual, "introvert")
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := matching.LoadPool(filepath.Join(t.TempDir(), "nope.yaml"))

		Convey("Then ErrPoolFile is returned", func() {
			So(errors.Is(err, matching.ErrPoolFile), ShouldBeTrue)
		})
	})

	Convey("Given an empty list", t, func() {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		So(os.WriteFile(path, []byte("[]\n"), 0o600), ShouldBeNil)

		Convey("Then ErrPoolFile is returned", func() {
			_, err := matching.LoadPool(path)
			So(errors.Is(err, matching.ErrPoolFile), ShouldBeTrue)
		})
	})
}
