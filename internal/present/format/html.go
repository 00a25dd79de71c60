package format

import (
	"html/template"
	"io"

	"github.com/mithrel/tally/internal/markdown"
)

// EChartsURL is the script the HTML page loads charts from.
const EChartsURL = "https://cdn.jsdelivr.net/npm/echarts@5/dist/echarts.min.js"

const chartsDegraded = "Chart renderer failed to load; showing the report only."

var pageTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 960px; color: #222; }
dl.meta { display: grid; grid-template-columns: max-content auto; gap: .25rem 1rem; color: #555; }
dl.meta dt { font-weight: 600; }
.chart { width: 100%; height: 360px; margin: 1.5rem 0; }
.status { color: #C44E52; }
</style>
</head>
<body>
<main>
{{- with .Rows}}
<dl class="meta">{{range .}}<dt>{{index . 0}}</dt><dd>{{index . 1}}</dd>{{end}}</dl>
{{- end}}
<article class="report">{{.Body}}</article>
{{- if .Charts}}
<p id="chart-status" class="status" hidden></p>
<section class="charts">
<div id="heatmap" class="chart"></div>
<div id="period" class="chart"></div>
<div id="amount" class="chart"></div>
</section>
<script src="{{.ScriptURL}}"></script>
<script>
(function () {
  var options = {{.Charts}};
  if (typeof echarts === "undefined") {
    var status = document.getElementById("chart-status");
    status.textContent = {{.Degraded}};
    status.hidden = false;
    document.querySelector(".charts").hidden = true;
    return;
  }
  ["heatmap", "period", "amount"].forEach(function (id) {
    echarts.init(document.getElementById(id)).setOption(options[id]);
  });
})();
</script>
{{- end}}
</main>
</body>
</html>
`))

type htmlPage struct {
	Title     string
	Rows      [][2]string
	Body      template.HTML
	Charts    map[string]any
	ScriptURL string
	Degraded  string
}

// WriteHTMLReport writes a standalone page. chartOptions may be nil, in which
// case no chart markup or script is emitted.
func WriteHTMLReport(w io.Writer, doc markdown.Document, meta Meta, chartOptions map[string]any) error {
	page := htmlPage{
		Title: "Transaction report",
		Rows:  meta.rows(),
		// Span text was escaped by markdown.Render.
		Body:      template.HTML(doc.HTML()),
		Charts:    chartOptions,
		ScriptURL: EChartsURL,
		Degraded:  chartsDegraded,
	}
	return pageTmpl.Execute(w, page)
}
