package scoring_test

import (
	"testing"

	"github.com/pendulolabs/pendulo/internal/domain/normalize"
	"github.com/pendulolabs/pendulo/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestComposite(t *testing.T) {
	Convey("Given the default dimension weights", t, func() {
		scorer := scoring.New()

		Convey("When every dimension has the same score", func() {
			row := normalize.Row{Presenca: 50, Popularidade: 50, Atividade: 50, Engajamento: 50, Difusao: 50}

			Convey("Then the composite equals that score", func() {
				So(scorer.Composite(row), ShouldEqual, 50.0)
			})
		})

		Convey("When scores differ across dimensions", func() {
			row := normalize.Row{Presenca: 98, Popularidade: 80, Atividade: 60, Engajamento: 40, Difusao: 20}

			Convey("Then the composite is the weighted average", func() {
				// (12*98 + 24*80 + 16*60 + 28*40 + 20*20) / 100
				So(scorer.Composite(row), ShouldEqual, 55.76)
			})
		})

		Convey("Then a bump in a heavy dimension moves the composite more", func() {
			base := normalize.Row{Presenca: 50, Popularidade: 50, Atividade: 50, Engajamento: 50, Difusao: 50}
			heavy := base
			heavy.Engajamento += 10
			light := base
			light.Presenca += 10
			So(scorer.Composite(heavy), ShouldBeGreaterThan, scorer.Composite(light))
		})
	})

	Convey("Given custom weights", t, func() {
		scorer := scoring.New(scoring.WithWeights(scoring.Weights{Engajamento: 1}))

		Convey("Then only the weighted dimension matters", func() {
			row := normalize.Row{Presenca: 98, Engajamento: 37}
			So(scorer.Composite(row), ShouldEqual, 37.0)
		})
	})

	Convey("Given weights with a non-positive sum", t, func() {
		scorer := scoring.New(scoring.WithWeights(scoring.Weights{}))

		Convey("Then the defaults are kept", func() {
			row := normalize.Row{Presenca: 60, Popularidade: 60, Atividade: 60, Engajamento: 60, Difusao: 60}
			So(scorer.Composite(row), ShouldEqual, 60.0)
		})
	})
}

func TestScore(t *testing.T) {
	Convey("Given normalized rows", t, func() {
		scorer := scoring.New()
		rows := []normalize.Row{
			{Name: "B", Presenca: 40, Popularidade: 40, Atividade: 40, Engajamento: 40, Difusao: 40},
			{Name: "A", Presenca: 90, Popularidade: 90, Atividade: 90, Engajamento: 90, Difusao: 90},
		}

		out := scorer.Score(rows)

		Convey("Then ingestion order is preserved", func() {
			So(out, ShouldHaveLength, 2)
			So(out[0].Name, ShouldEqual, "B")
			So(out[1].Name, ShouldEqual, "A")
		})

		Convey("Then each row carries its composite", func() {
			So(out[0].SirFinal, ShouldEqual, 40.0)
			So(out[1].SirFinal, ShouldEqual, 90.0)
		})
	})
}
