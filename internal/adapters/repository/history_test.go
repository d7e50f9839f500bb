package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/snowbellsan/psiguard/internal/adapters/repository"
	"github.com/snowbellsan/psiguard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func reading(i int) types.Reading {
	return types.Reading{
		ID:          fmt.Sprintf("r-%d", i),
		Timestamp:   time.Unix(int64(i), 0),
		Consumption: float64(i),
		Tier:        "NOMINAL",
		Valid:       true,
	}
}

func TestHistory_Append(t *testing.T) {
	Convey("Given a history with capacity 5", t, func() {
		h := repository.NewHistory(repository.WithCapacity(5))
		ctx := context.Background()

		Convey("When nothing has been recorded", func() {
			Convey("Then Latest reports empty", func() {
				_, err := h.Latest(ctx)
				So(errors.Is(err, repository.ErrEmpty), ShouldBeTrue)
			})

			Convey("And Recent reports empty", func() {
				_, err := h.Recent(ctx, 3)
				So(errors.Is(err, repository.ErrEmpty), ShouldBeTrue)
			})

			Convey("And the snapshot carries no data", func() {
				So(h.Snapshot().HasData, ShouldBeFalse)
				So(h.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When fewer readings than capacity are appended", func() {
			for i := 1; i <= 3; i++ {
				h.Append(ctx, reading(i))
			}

			Convey("Then all are retained in insertion order", func() {
				got, err := h.Recent(ctx, 0)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 3)
				So(got[0].ID, ShouldEqual, "r-1")
				So(got[2].ID, ShouldEqual, "r-3")
			})

			Convey("And Latest is the newest", func() {
				latest, err := h.Latest(ctx)
				So(err, ShouldBeNil)
				So(latest.ID, ShouldEqual, "r-3")
			})
		})

		Convey("When seven readings are appended", func() {
			for i := 1; i <= 7; i++ {
				h.Append(ctx, reading(i))
			}

			Convey("Then exactly readings #3 through #7 remain, in order", func() {
				got, err := h.Recent(ctx, 0)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 5)
				for i, r := range got {
					So(r.ID, ShouldEqual, fmt.Sprintf("r-%d", i+3))
				}
			})

			Convey("And the buffer never exceeds its capacity", func() {
				So(h.Len(ctx), ShouldEqual, 5)
				So(h.Capacity(), ShouldEqual, 5)
			})

			Convey("And a bounded Recent returns the newest tail", func() {
				got, err := h.Recent(ctx, 2)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].ID, ShouldEqual, "r-6")
				So(got[1].ID, ShouldEqual, "r-7")
			})
		})
	})
}

func TestHistory_SnapshotImmutability(t *testing.T) {
	Convey("Given a history with published readings", t, func() {
		h := repository.NewHistory(repository.WithCapacity(3))
		ctx := context.Background()
		h.Append(ctx, reading(1))

		Convey("When a reader holds a snapshot across later writes", func() {
			snap := h.Snapshot()
			h.Append(ctx, reading(2))
			h.Append(ctx, reading(3))
			h.Append(ctx, reading(4))

			Convey("Then the held snapshot is unchanged", func() {
				So(snap.Readings, ShouldHaveLength, 1)
				So(snap.Latest.ID, ShouldEqual, "r-1")
			})

			Convey("And a fresh snapshot sees the new state", func() {
				So(h.Snapshot().Readings, ShouldHaveLength, 3)
				So(h.Snapshot().Latest.ID, ShouldEqual, "r-4")
			})
		})
	})
}

func TestHistory_ConcurrentReads(t *testing.T) {
	Convey("Given one writer and many concurrent readers", t, func() {
		h := repository.NewHistory(repository.WithCapacity(10))
		ctx := context.Background()

		var wg sync.WaitGroup
		stop := make(chan struct{})

		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
						snap := h.Snapshot()
						if snap.HasData && len(snap.Readings) == 0 {
							t.Error("snapshot with data but no readings")
						}
						_, _ = h.Recent(ctx, 5)
					}
				}
			}()
		}

		for i := 1; i <= 200; i++ {
			h.Append(ctx, reading(i))
		}
		close(stop)
		wg.Wait()

		Convey("Then writes remain bounded and ordered", func() {
			got, err := h.Recent(ctx, 0)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 10)
			So(got[9].ID, ShouldEqual, "r-200")
		})
	})
}
