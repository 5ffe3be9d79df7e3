package ingest

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCleanNumber(t *testing.T) {
	Convey("Given raw cell values", t, func() {
		Convey("Then pt-BR thousands formatting parses", func() {
			v, pct, ok := cleanNumber("1.234.567")
			So(ok, ShouldBeTrue)
			So(pct, ShouldBeFalse)
			So(v, ShouldEqual, 1234567)
		})

		Convey("Then decimal commas parse", func() {
			v, _, ok := cleanNumber("12,5")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 12.5)
		})

		Convey("Then thousands and decimals combine", func() {
			v, _, ok := cleanNumber("1.234,5")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1234.5)
		})

		Convey("Then a plain dot stays a decimal separator", func() {
			v, _, ok := cleanNumber("3.5")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3.5)
		})

		Convey("Then percent signs are stripped and flagged", func() {
			v, pct, ok := cleanNumber("4,5%")
			So(ok, ShouldBeTrue)
			So(pct, ShouldBeTrue)
			So(v, ShouldEqual, 4.5)
		})

		Convey("Then non-breaking spaces are ignored", func() {
			v, _, ok := cleanNumber("1\u00A0234")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1234)
		})

		Convey("Then empty cells and dashes are absent, not zero", func() {
			_, _, ok := cleanNumber("")
			So(ok, ShouldBeFalse)
			_, _, ok = cleanNumber("-")
			So(ok, ShouldBeFalse)
			_, _, ok = cleanNumber("n/a")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestNormalizePercentColumn(t *testing.T) {
	Convey("Given a percent-like column", t, func() {
		Convey("When any cell carried an explicit percent sign", func() {
			values := []float64{4.5, 0.5}
			normalizePercentColumn(values, []bool{true, true}, true)
			So(values[0], ShouldAlmostEqual, 0.045)
			So(values[1], ShouldAlmostEqual, 0.005)
		})

		Convey("When values range in (1, 100] the heuristic divides", func() {
			values := []float64{4.5, 3.2}
			normalizePercentColumn(values, []bool{true, true}, false)
			So(values[0], ShouldAlmostEqual, 0.045)
		})

		Convey("When values are already fractions nothing changes", func() {
			values := []float64{0.045, 0.032}
			normalizePercentColumn(values, []bool{true, true}, false)
			So(values[0], ShouldAlmostEqual, 0.045)
		})

		Convey("When values exceed 100 they are treated as counts", func() {
			values := []float64{450, 3.2}
			normalizePercentColumn(values, []bool{true, true}, false)
			So(values[0], ShouldEqual, 450)
		})
	})
}

func TestCanonicalize(t *testing.T) {
	Convey("Given raw headers", t, func() {
		cases := map[string]string{
			"Followers_Facebook":  "fans_facebook",
			"seguidores_twitter":  "fans_twitter",
			"Retweets_Twitter":    "shares_twitter",
			"video_shares_tiktok": "shares_tiktok",
			"Eng_Instagram":       "engagement_instagram",
			"delta_eng_facebook":  "var_engagement_facebook",
			"has_tiktok":          "presence_tiktok",
			"fans_instagram":      "fans_instagram",
		}
		for raw, want := range cases {
			canon, numeric := canonicalize(raw)
			So(canon, ShouldEqual, want)
			So(numeric, ShouldBeTrue)
		}

		Convey("Then identity and period headers are recognized", func() {
			canon, numeric := canonicalize("Nome")
			So(canon, ShouldEqual, "name")
			So(numeric, ShouldBeFalse)

			canon, _ = canonicalize("inicio_periodo")
			So(canon, ShouldEqual, "period_start")
			canon, _ = canonicalize("date_to")
			So(canon, ShouldEqual, "period_end")
		})

		Convey("Then unknown headers are not numeric metrics", func() {
			_, numeric := canonicalize("observacoes")
			So(numeric, ShouldBeFalse)
		})
	})
}
