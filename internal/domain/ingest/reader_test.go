package ingest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pendulolabs/pendulo/internal/domain/ingest"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadTable(t *testing.T) {
	Convey("Given a semicolon CSV with pt-BR numbers and synonym headers", t, func() {
		path := writeFile(t, "wave.csv",
			"Nome;Seguidores_Facebook;Posts_Instagram;Eng_Instagram;Retweets_Twitter;Has_Facebook;inicio_periodo;fim_periodo\n"+
				"Candidato A;1.234.567;12;4,5%;300;1;2026-01-01;2026-01-31\n"+
				"Candidato B;890.120;8;3,2%;150;1;2026-01-01;2026-01-31\n")

		table, err := ingest.ReadTable(path)
		So(err, ShouldBeNil)
		So(table.Rows, ShouldHaveLength, 2)

		Convey("Then headers are canonicalized", func() {
			So(table.HasColumn("fans_facebook"), ShouldBeTrue)
			So(table.HasColumn("posts_instagram"), ShouldBeTrue)
			So(table.HasColumn("engagement_instagram"), ShouldBeTrue)
			So(table.HasColumn("shares_twitter"), ShouldBeTrue)
			So(table.HasColumn("presence_facebook"), ShouldBeTrue)
		})

		Convey("Then numbers are cleaned and rates become fractions", func() {
			a := table.Rows[0]
			So(a.Name, ShouldEqual, "Candidato A")
			So(a.Value("fans_facebook"), ShouldEqual, 1234567)
			So(a.Value("engagement_instagram"), ShouldAlmostEqual, 0.045)
			So(a.Value("shares_twitter"), ShouldEqual, 300)
			So(a.PeriodStart, ShouldEqual, "2026-01-01")
			So(a.PeriodEnd, ShouldEqual, "2026-01-31")
		})
	})

	Convey("Given a comma CSV with a UTF-8 BOM", t, func() {
		path := writeFile(t, "wave.csv",
			"\xef\xbb\xbfname,fans_facebook,posts_facebook\n"+
				"Marca X,1000,5\n"+
				",999,9\n")

		table, err := ingest.ReadTable(path)
		So(err, ShouldBeNil)

		Convey("Then rows without a name are skipped", func() {
			So(table.Rows, ShouldHaveLength, 1)
			So(table.Rows[0].Name, ShouldEqual, "Marca X")
			So(table.Rows[0].Value("fans_facebook"), ShouldEqual, 1000)
		})
	})

	Convey("Given duplicate headers", t, func() {
		path := writeFile(t, "wave.csv",
			"name,fans_facebook,followers_facebook\n"+
				"Marca X,1000,2000\n")

		table, err := ingest.ReadTable(path)
		So(err, ShouldBeNil)

		Convey("Then the first occurrence wins", func() {
			So(table.Rows[0].Value("fans_facebook"), ShouldEqual, 1000)
		})
	})

	Convey("Given a table without a name column", t, func() {
		path := writeFile(t, "wave.csv", "fans_facebook\n1000\n")

		_, err := ingest.ReadTable(path)
		So(err, ShouldWrap, ingest.ErrMalformedInput)
	})

	Convey("Given a header-only table", t, func() {
		path := writeFile(t, "wave.csv", "name,fans_facebook\n")

		_, err := ingest.ReadTable(path)
		So(err, ShouldWrap, ingest.ErrMalformedInput)
	})

	Convey("Given a missing file", t, func() {
		_, err := ingest.ReadTable(filepath.Join(t.TempDir(), "absent.csv"))
		So(err, ShouldWrap, ingest.ErrInputNotFound)
	})

	Convey("Given empty cells", t, func() {
		path := writeFile(t, "wave.csv",
			"name,fans_facebook,fans_twitter\n"+
				"Marca X,1000,\n")

		table, err := ingest.ReadTable(path)
		So(err, ShouldBeNil)

		Convey("Then absent values read as zero", func() {
			So(table.Rows[0].Value("fans_twitter"), ShouldEqual, 0)
			_, present := table.Rows[0].Values["fans_twitter"]
			So(present, ShouldBeFalse)
		})
	})
}
