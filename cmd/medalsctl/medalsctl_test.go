package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const datasetCSV = `Nation,Year,Gold,Silver,Bronze,Total,Rank
United States,2016,46,37,38,121,1
Great Britain,2016,27,23,17,67,2
China,2016,26,18,26,70,3
Spain,2016,7,4,6,17,14
`

const medalPage = `<html><body>
<table class="wikitable sortable plainrowheaders">
<tr><th scope="col">Rank</th><th scope="col">NOC</th><th scope="col">Gold</th><th scope="col">Silver</th><th scope="col">Bronze</th><th scope="col">Total</th></tr>
<tr><td>1</td><th scope="row"><a>United States</a> (USA)</th><td>46</td><td>28</td><td>29</td><td>103</td></tr>
<tr><td>2</td><th scope="row"><a>China</a> (CHN)</th><td>38</td><td>31</td><td>22</td><td>91</td></tr>
<tr><th colspan="2">Totals (2 entries)</th><td>84</td><td>59</td><td>51</td><td>194</td></tr>
</table>
</body></html>`

// isolateEnv keeps the developer's environment out of config.Load.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MEDALS_CONFIG", "MEDALS_LLM__API_KEY", "MEDALS_ALIAS_PATH",
		"GOOGLE_API_KEY", "OPENAI_API_KEY", "GROQ_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func execute(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAskCommand(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "medals.csv")
	if err := os.WriteFile(path, []byte(datasetCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	Convey("Given a local dataset", t, func() {
		Convey("When asking a ranking question", func() {
			out, err := execute("ask", "--dataset", path, "¿Qué", "país", "ganó", "más", "medallas", "de", "oro", "en", "2016?")

			Convey("Then the answer should be printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "United States")
				So(out, ShouldContainSubstring, "46")
			})
		})

		Convey("When asking for JSON output", func() {
			out, err := execute("ask", "--json", "--dataset", path, "medallas de España en 2016")

			Convey("Then the reply should be decodable", func() {
				So(err, ShouldBeNil)
				var got askOutput
				So(json.Unmarshal([]byte(out), &got), ShouldBeNil)
				So(got.Outcome, ShouldEqual, "answer")
				So(got.Source, ShouldEqual, "resolver")
				So(got.Text, ShouldContainSubstring, "17")
			})
		})

		Convey("When asking about a year without data", func() {
			out, err := execute("ask", "--dataset", path, "¿Quién ganó más oros en 1996?")

			Convey("Then the NoData reason should be printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "1996")
			})
		})

		Convey("When no question is given", func() {
			_, err := execute("ask", "--dataset", path)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestAliasesCommand(t *testing.T) {
	isolateEnv(t)

	Convey("Given the aliases command", t, func() {
		Convey("When validating the embedded table", func() {
			out, err := execute("aliases")

			Convey("Then it should report ok", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "alias table embedded")
				So(out, ShouldContainSubstring, "ok")
			})
		})

		Convey("When listing a custom table", func() {
			path := filepath.Join(t.TempDir(), "aliases.yaml")
			So(os.WriteFile(path, []byte("version: 9\naliases:\n  - {alias: \"alemania\", country: \"Germany\"}\n"), 0o600), ShouldBeNil)
			out, err := execute("aliases", "--list", "--file", path)

			Convey("Then every entry should be printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "alemania\tGermany")
				So(out, ShouldContainSubstring, "version 9, 1 entries")
			})
		})

		Convey("When a table has colliding aliases", func() {
			path := filepath.Join(t.TempDir(), "aliases.yaml")
			body := "version: 1\naliases:\n  - {alias: \"España\", country: \"Spain\"}\n  - {alias: \"espana\", country: \"Mexico\"}\n"
			So(os.WriteFile(path, []byte(body), 0o600), ShouldBeNil)
			_, err := execute("aliases", "--file", path)

			Convey("Then validation should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, path)
			})
		})
	})
}

func TestScrapeCommand(t *testing.T) {
	isolateEnv(t)

	Convey("Given a server serving a medal table", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.URL.Path, "2012") {
				http.NotFound(w, r)
				return
			}
			_, _ = fmt.Fprint(w, medalPage)
		}))
		defer srv.Close()
		t.Setenv("MEDALS_SCRAPER__BASE_URL", srv.URL+"/wiki/%d_Summer_Olympics_medal_table")
		t.Setenv("MEDALS_SCRAPER__ATTEMPTS", "1")

		out := filepath.Join(t.TempDir(), "data", "medals.csv")

		Convey("When scraping a year the server knows", func() {
			stdout, err := execute("scrape", "--years", "2012", "--out", out)

			Convey("Then the CSV should be written", func() {
				So(err, ShouldBeNil)
				So(stdout, ShouldContainSubstring, "wrote 2 rows")

				data, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(string(data)), "\n")
				So(lines, ShouldHaveLength, 3)
				So(lines[0], ShouldEqual, "Nation,Year,Gold,Silver,Bronze,Total,Rank")
				So(lines[1], ShouldEqual, "United States,2012,46,28,29,103,1")
			})
		})

		Convey("When one of the years fails", func() {
			stdout, err := execute("scrape", "--years", "2012,2016", "--out", out)

			Convey("Then the rows that loaded are still written and the command fails", func() {
				So(err, ShouldNotBeNil)
				So(stdout, ShouldContainSubstring, "wrote 2 rows")
				_, statErr := os.Stat(out)
				So(statErr, ShouldBeNil)
			})
		})

		Convey("When every year fails", func() {
			_, err := execute("scrape", "--years", "2016", "--out", out)

			Convey("Then nothing should be written", func() {
				So(err, ShouldNotBeNil)
				_, statErr := os.Stat(out)
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})
}
