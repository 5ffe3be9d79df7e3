package service_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pendulolabs/pendulo/internal/adapters/artifacts"
	service "github.com/pendulolabs/pendulo/internal/app"
	"github.com/pendulolabs/pendulo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const waveCSV = "name,fans_instagram,posts_instagram,engagement_instagram,shares_facebook,presence_instagram\n" +
	"Candidato A,100000,40,5%,900,1\n" +
	"Candidato B,20000,10,2%,100,1\n" +
	"Marca X,5000,2,1%,10,1\n"

func seedWave(t *testing.T, root, client, wave, content string) {
	t.Helper()
	dir := filepath.Join(root, "raw", client, wave)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "wave.csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func startService(t *testing.T, root string) *service.Service {
	t.Helper()
	svc := service.New(
		service.WithDataRoot(root),
		service.WithWorkerCount(2),
		service.WithClientPlayers(map[string]string{"acme": "Candidato A"}),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })
	return svc
}

func TestGetOverview(t *testing.T) {
	Convey("Given a seeded wave", t, func() {
		root := t.TempDir()
		seedWave(t, root, "acme", "P1", waveCSV)
		svc := startService(t, root)
		ctx := context.Background()

		Convey("When requesting the overview", func() {
			out, err := svc.GetOverview(ctx, "acme", "P1")
			So(err, ShouldBeNil)

			Convey("Then players come ranked with the client flagged", func() {
				So(out.Wave, ShouldEqual, "P1")
				So(out.Players, ShouldHaveLength, 3)
				So(out.Players[0].Name, ShouldEqual, "Candidato A")
				So(out.Players[0].IsClient, ShouldBeTrue)
				So(out.Players[0].SirIndex, ShouldBeGreaterThan, out.Players[1].SirIndex)
				So(out.Players[2].Name, ShouldEqual, "Marca X")
			})

			Convey("Then all artifacts landed on disk", func() {
				store := artifacts.New(root)
				w, _ := model.ParseWave("P1")
				So(store.HasArtifacts("acme", w), ShouldBeTrue)

				rows, found, err := store.ReadResultado("acme", w)
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(rows, ShouldHaveLength, 3)
			})

			Convey("Then a second request is a cache hit", func() {
				before := svc.GetStats(ctx)
				again, err := svc.GetOverview(ctx, "acme", "P1")
				So(err, ShouldBeNil)
				So(again.Players[0].Name, ShouldEqual, "Candidato A")

				after := svc.GetStats(ctx)
				So(after.WavesComputed, ShouldEqual, before.WavesComputed)
				So(after.CacheHits, ShouldBeGreaterThan, before.CacheHits)
			})
		})
	})
}

func TestResultadoCacheLayer(t *testing.T) {
	Convey("Given a computed wave whose JSON artifacts were removed", t, func() {
		root := t.TempDir()
		seedWave(t, root, "acme", "P1", waveCSV)
		svc := startService(t, root)
		ctx := context.Background()

		first, err := svc.GetOverview(ctx, "acme", "P1")
		So(err, ShouldBeNil)

		store := artifacts.New(root)
		w, _ := model.ParseWave("P1")
		for _, p := range []string{
			store.OverviewPath("acme", w),
			store.RadarPath("acme", w),
			store.MetricsPath("acme", w),
		} {
			So(os.Remove(p), ShouldBeNil)
		}

		// Corrupt the raw input. If the rebuild reached the kernel it would
		// now fail, so success proves the Resultado layer short-circuited it.
		rawPath := filepath.Join(root, "raw", "acme", "P1", "wave.csv")
		So(os.WriteFile(rawPath, []byte("fans_facebook\n1\n"), 0o644), ShouldBeNil)

		Convey("When requesting the overview again", func() {
			second, err := svc.GetOverview(ctx, "acme", "P1")
			So(err, ShouldBeNil)

			Convey("Then the scores match the first computation", func() {
				So(second.Players[0].Name, ShouldEqual, first.Players[0].Name)
				So(second.Players[0].SirIndex, ShouldEqual, first.Players[0].SirIndex)
			})
		})
	})
}

func TestSingleFlight(t *testing.T) {
	Convey("Given concurrent requests for an uncomputed wave", t, func() {
		root := t.TempDir()
		seedWave(t, root, "acme", "P1", waveCSV)
		svc := startService(t, root)
		ctx := context.Background()

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.GetOverview(ctx, "acme", "P1")
			}(i)
		}
		wg.Wait()

		Convey("Then every caller succeeds", func() {
			for _, err := range errs {
				So(err, ShouldBeNil)
			}
		})

		Convey("Then the wave was computed exactly once", func() {
			So(svc.GetStats(ctx).WavesComputed, ShouldEqual, 1)
		})
	})
}

func TestErrorTaxonomy(t *testing.T) {
	Convey("Given a running service", t, func() {
		root := t.TempDir()
		svc := startService(t, root)
		ctx := context.Background()

		Convey("When the wave has no raw input", func() {
			_, err := svc.GetOverview(ctx, "acme", "P1")
			So(err, ShouldWrap, artifacts.ErrInputNotFound)
			So(err.Error(), ShouldContainSubstring, `client "acme" wave P1`)
		})

		Convey("When the wave identifier is malformed", func() {
			_, err := svc.GetOverview(ctx, "acme", "wave-one")
			So(err, ShouldWrap, model.ErrBadWave)
		})
	})
}

func TestEndToEndFixture(t *testing.T) {
	// Four-player wave with hand-computed expectations. Linear scaling
	// applies everywhere (no ratio reaches the dominance factor), floor 1,
	// cap 98. Candidato A tops activity, engagement and diffusion, is second
	// on fans, and is present on three of four platforms.
	fixture := "name,fans_instagram,posts_instagram,engagement_instagram,shares_tiktok,presence_facebook,presence_instagram,presence_twitter,presence_tiktok\n" +
		"Candidato A,70000,40,5%,1000,1,1,,1\n" +
		"Candidato B,100000,20,3%,500,1,1,1,1\n" +
		"Marca X,20000,10,2%,100,,1,,1\n" +
		"Marca Y,10000,5,1%,50,,1,,\n"

	Convey("Given the four-player fixture", t, func() {
		root := t.TempDir()
		seedWave(t, root, "acme", "P1", fixture)
		svc := startService(t, root)
		ctx := context.Background()

		overview, err := svc.GetOverview(ctx, "acme", "P1")
		So(err, ShouldBeNil)

		Convey("Then Candidato A ranks first with the expected composite", func() {
			So(overview.Players, ShouldHaveLength, 4)
			So(overview.Players[0].Name, ShouldEqual, "Candidato A")
			// 12*73.75 + 24*65.67 + 16*98 + 28*98 + 20*98, over 100.
			So(overview.Players[0].SirIndex, ShouldAlmostEqual, 87.33, 0.05)
			So(overview.Players[1].Name, ShouldEqual, "Candidato B")
			So(overview.Players[1].SirIndex, ShouldAlmostEqual, 64.83, 0.05)
			So(overview.Players[3].Name, ShouldEqual, "Marca Y")
		})

		Convey("Then the radar engagement row covers every player in range", func() {
			radar, err := svc.GetRadar(ctx, "acme", "P1")
			So(err, ShouldBeNil)

			var engRow map[string]any
			for _, row := range radar.Data {
				if row["metric"] == "Engajamento" {
					engRow = row
				}
			}
			So(engRow, ShouldNotBeNil)
			for _, name := range []string{"Candidato A", "Candidato B", "Marca X", "Marca Y"} {
				v, ok := engRow[name].(float64)
				So(ok, ShouldBeTrue)
				So(v, ShouldBeBetweenOrEqual, 0, 100)
			}
			So(engRow["Candidato A"], ShouldEqual, 98.0)
		})

		Convey("Then presence reflects platform coverage", func() {
			radar, err := svc.GetRadar(ctx, "acme", "P1")
			So(err, ShouldBeNil)
			So(radar.Data[0]["metric"], ShouldEqual, "Presença")
			So(radar.Data[0]["Candidato A"], ShouldEqual, 73.75)
			So(radar.Data[0]["Candidato B"], ShouldEqual, 98.0)
			So(radar.Data[0]["Marca Y"], ShouldEqual, 25.25)
		})
	})
}

func TestPrevWaveTotals(t *testing.T) {
	Convey("Given two consecutive computed waves", t, func() {
		root := t.TempDir()
		seedWave(t, root, "acme", "P1", waveCSV)
		seedWave(t, root, "acme", "P2", waveCSV)
		svc := startService(t, root)
		ctx := context.Background()

		_, err := svc.GetMetrics(ctx, "acme", "P1")
		So(err, ShouldBeNil)

		m2, err := svc.GetMetrics(ctx, "acme", "P2")
		So(err, ShouldBeNil)

		Convey("Then the second wave carries the first wave's totals", func() {
			So(m2.Wave, ShouldEqual, "P2")
			So(m2.PlatformDataByPlayer["candidato-a"], ShouldHaveLength, 1)
			So(m2.PlatformPrevDataByPlayer["candidato-a"], ShouldHaveLength, 1)
			So(m2.PlatformPrevDataByPlayer["candidato-a"][0].Platform, ShouldEqual, "total")
		})

		Convey("Then the wave listing is newest first", func() {
			waves, err := svc.ListWaves(ctx, "acme")
			So(err, ShouldBeNil)
			So(waves, ShouldResemble, []string{"P2", "P1"})
		})
	})
}
