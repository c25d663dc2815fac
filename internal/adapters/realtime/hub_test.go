package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/okian/crewmatch/internal/domain/model"
	logging "github.com/okian/crewmatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestHub(t *testing.T) {
	Convey("Given a hub with subscribers on two groups", t, func() {
		_ = logging.Init()
		ctx := context.Background()
		h := NewHub(WithSubscriberBuffer(2))
		defer h.Close()

		a, err := h.Subscribe("g1", "a@x.io")
		So(err, ShouldBeNil)
		b, err := h.Subscribe("g1", "b@x.io")
		So(err, ShouldBeNil)
		c, err := h.Subscribe("g2", "c@x.io")
		So(err, ShouldBeNil)

		So(h.Total(), ShouldEqual, 3)
		So(h.Subscribers("g1"), ShouldEqual, 2)

		Convey("When a message is delivered to g1", func() {
			So(h.Deliver(ctx, model.Message{ID: "m1", GroupID: "g1"}), ShouldBeNil)

			Convey("Then only g1 subscribers receive it", func() {
				So((<-a.C()).ID, ShouldEqual, "m1")
				So((<-b.C()).ID, ShouldEqual, "m1")
				So(len(c.C()), ShouldEqual, 0)
			})
		})

		Convey("When a subscriber falls behind", func() {
			for _, id := range []string{"m1", "m2", "m3"} {
				So(h.Deliver(ctx, model.Message{ID: id, GroupID: "g2"}), ShouldBeNil)
			}

			Convey("Then extra messages are dropped instead of blocking", func() {
				So(len(c.C()), ShouldEqual, 2)
				So((<-c.C()).ID, ShouldEqual, "m1")
			})
		})

		Convey("When a subscription is closed", func() {
			a.Close()
			a.Close()

			Convey("Then its channel is closed and the count drops", func() {
				_, ok := <-a.C()
				So(ok, ShouldBeFalse)
				So(h.Subscribers("g1"), ShouldEqual, 1)
				So(h.Total(), ShouldEqual, 2)
			})
		})

		Convey("When the hub closes", func() {
			h.Close()

			Convey("Then every channel closes and new work is refused", func() {
				_, ok := <-b.C()
				So(ok, ShouldBeFalse)
				_, ok = <-c.C()
				So(ok, ShouldBeFalse)
				So(h.Total(), ShouldEqual, 0)

				_, err := h.Subscribe("g1", "d@x.io")
				So(err, ShouldEqual, ErrClosed)
				So(h.Deliver(ctx, model.Message{GroupID: "g1"}), ShouldEqual, ErrClosed)

				c.Close()
				So(h.Total(), ShouldEqual, 0)
			})
		})
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestHub_Serve(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	_ = logging.Init()

	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.Serve(w, r, "g1", r.URL.Query().Get("email"))
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?email=a@x.io"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer resp.Body.Close()

	if !waitFor(func() bool { return h.Subscribers("g1") == 1 }) {
		t.Fatal("subscriber was not registered")
	}

	sent := model.Message{ID: "m1", GroupID: "g1", Email: "b@x.io", Content: "hello"}
	if err := h.Deliver(context.Background(), sent); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var got model.Message
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.ID != "m1" || got.Content != "hello" {
		t.Errorf("unexpected message %+v", got)
	}

	_ = conn.Close()
	if !waitFor(func() bool { return h.Subscribers("g1") == 0 }) {
		t.Error("subscriber was not removed after disconnect")
	}

	h.Close()
	srv.Close()
}

func TestHub_ServeRejectsPlainHTTP(t *testing.T) {
	_ = logging.Init()
	h := NewHub()
	defer h.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := h.Serve(rec, req, "g1", "a@x.io"); err == nil {
		t.Error("expected upgrade error")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if h.Total() != 0 {
		t.Errorf("expected no subscribers, got %d", h.Total())
	}
}
