package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/crewmatch/internal/domain/model"
	types "github.com/okian/crewmatch/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatchPage(t *testing.T) {
	Convey("Given a match page", t, func() {
		page := types.MatchPage{
			Source: types.SourceFallback,
			Top: []types.MatchResult{
				{Candidate: model.Profile{Email: "a@x.io"}, Score: 77, Reasons: []string{"2 shared skills", "Same goal"}},
			},
			Remainder: []types.MatchResult{
				{Candidate: model.Profile{Email: "b@x.io"}, Score: 25, Reasons: []string{}},
				{Candidate: model.Profile{Email: "c@x.io"}, Score: 10, Reasons: []string{}},
			},
		}

		Convey("Then Total counts both slices", func() {
			So(page.Total(), ShouldEqual, 3)
		})

		Convey("When encoded as JSON", func() {
			raw, err := json.Marshal(page)
			So(err, ShouldBeNil)

			var decoded map[string]json.RawMessage
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)

			Convey("Then the page uses the source, matches and more keys", func() {
				So(decoded, ShouldContainKey, "source")
				So(decoded, ShouldContainKey, "matches")
				So(decoded, ShouldContainKey, "more")
				So(string(decoded["source"]), ShouldEqual, `"fallback"`)
			})
		})
	})

	Convey("Given an empty page", t, func() {
		page := types.MatchPage{Top: []types.MatchResult{}, Remainder: []types.MatchResult{}}

		Convey("Then both slices encode as empty arrays", func() {
			raw, err := json.Marshal(page)
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"matches":[]`)
			So(string(raw), ShouldContainSubstring, `"more":[]`)
			So(page.Total(), ShouldEqual, 0)
		})
	})
}
