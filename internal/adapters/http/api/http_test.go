package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pendulolabs/pendulo/internal/adapters/http/api"
	service "github.com/pendulolabs/pendulo/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

const waveCSV = "name,fans_instagram,posts_instagram,engagement_instagram,shares_facebook,presence_instagram\n" +
	"Candidato A,100000,40,5%,900,1\n" +
	"Candidato B,20000,10,2%,100,1\n"

func newMux(t *testing.T, root string) *http.ServeMux {
	t.Helper()
	svc := service.New(
		service.WithDataRoot(root),
		service.WithWorkerCount(1),
		service.WithClientPlayers(map[string]string{"acme": "Candidato A"}),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })

	mux := http.NewServeMux()
	api.NewServer(svc, api.WithCacheMaxAge(120)).Register(mux)
	return mux
}

func seedWave(t *testing.T, root, client, wave string) {
	t.Helper()
	dir := filepath.Join(root, "raw", client, wave)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "wave.csv"), []byte(waveCSV), 0o644); err != nil {
		t.Fatal(err)
	}
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestOverviewEndpoint(t *testing.T) {
	Convey("Given a seeded wave", t, func() {
		root := t.TempDir()
		seedWave(t, root, "acme", "P1")
		mux := newMux(t, root)

		Convey("When fetching the overview", func() {
			rec := get(mux, "/api/v1/pendulo/acme/overview/P1")
			So(rec.Code, ShouldEqual, http.StatusOK)

			Convey("Then the payload is the ranked overview", func() {
				var body struct {
					Wave    string `json:"wave"`
					Players []struct {
						ID       string  `json:"id"`
						Name     string  `json:"name"`
						IsClient bool    `json:"isClient"`
						SirIndex float64 `json:"sirIndex"`
					} `json:"players"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Wave, ShouldEqual, "P1")
				So(body.Players, ShouldHaveLength, 2)
				So(body.Players[0].Name, ShouldEqual, "Candidato A")
				So(body.Players[0].IsClient, ShouldBeTrue)
			})

			Convey("Then shared caches may hold the response", func() {
				So(rec.Header().Get("Cache-Control"), ShouldEqual, "public, s-maxage=120")
				So(rec.Header().Get("Content-Type"), ShouldEqual, "application/json")
			})
		})

		Convey("When fetching the radar", func() {
			rec := get(mux, "/api/v1/pendulo/acme/radar/P1")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body struct {
				Dimensions []string         `json:"dimensions"`
				Data       []map[string]any `json:"data"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body.Dimensions, ShouldHaveLength, 5)
			So(body.Data, ShouldHaveLength, 5)
		})

		Convey("When fetching the metrics", func() {
			rec := get(mux, "/api/v1/pendulo/acme/metrics/P1")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body struct {
				Wave                 string                      `json:"wave"`
				PlatformDataByPlayer map[string][]map[string]any `json:"platformDataByPlayer"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body.Wave, ShouldEqual, "P1")
			So(body.PlatformDataByPlayer, ShouldContainKey, "candidato-a")
		})

		Convey("When listing waves", func() {
			// Force computation so the wave appears under processed/.
			So(get(mux, "/api/v1/pendulo/acme/overview/P1").Code, ShouldEqual, http.StatusOK)

			rec := get(mux, "/api/v1/pendulo/acme/waves")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body struct {
				Waves []string `json:"waves"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body.Waves, ShouldResemble, []string{"P1"})
		})
	})
}

func TestErrorResponses(t *testing.T) {
	Convey("Given a service without data", t, func() {
		mux := newMux(t, t.TempDir())

		Convey("Then a wave without input is an empty state, not an error", func() {
			rec := get(mux, "/api/v1/pendulo/acme/overview/P1")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"status":"no_data"`)
		})

		Convey("Then a malformed wave identifier is unprocessable", func() {
			rec := get(mux, "/api/v1/pendulo/acme/overview/wave-one")
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(rec.Body.String(), ShouldContainSubstring, "error")
		})

		Convey("Then unknown routes are not found", func() {
			rec := get(mux, "/api/v1/pendulo/acme/unknown/P1")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given a running server", t, func() {
		mux := newMux(t, t.TempDir())

		Convey("Then health serves the metrics registry", func() {
			rec := get(mux, "/healthz")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats expose orchestrator counters", func() {
			rec := get(mux, "/stats")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "wavesComputed")
		})
	})
}
