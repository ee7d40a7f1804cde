package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/element-hunt/internal/app"
	"github.com/jaminalder/element-hunt/internal/catalog"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"categories": catalog.Categories,
		"add":        func(a, b int) int { return a + b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Element Hunt</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
.table{display:grid;grid-template-columns:repeat(18,3rem);gap:2px}
.cell{height:3rem;font-size:.8rem}
.cell.hit{outline:3px solid green}.cell.miss{opacity:.35}.cell.selected{outline:3px solid gold}
.alert{color:#b00}
</style>
</head><body>{{template "content" .}}</body></html>`))
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Element Hunt</h1>
<p>Find your opponent's three hidden elements. Answer each cell's valence subshell to fire.</p>
<form action="/match" method="post"><button>New match</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/match/{{.ID}}/events">
  <div sse-swap="board" hx-target="#board" hx-swap="outerHTML">{{template "board" .}}</div>
</div>`))
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

// boardData is the input of the board fragment.
type boardData struct {
	app.View
	Error string
}

const boardTemplate = `
<div id="board" data-phase="{{.Phase}}">
  {{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
  {{$id := .ID}}

  {{if eq .Phase "entering-names"}}
  <form hx-post="/match/{{$id}}/names" hx-target="#board" hx-swap="outerHTML" method="post">
    <input name="p1" placeholder="Player 1" value="{{(index .Players 0).Name}}">
    <input name="p2" placeholder="Player 2" value="{{(index .Players 1).Name}}">
    <button type="submit">Start</button>
  </form>
  {{end}}

  {{with .Reveal}}
  <section class="reveal">
    {{if .Started}}
    <h2>{{.Name}}, memorise your elements ({{.Remaining}})</h2>
    <ul>{{range $.OwnTargets}}<li>{{.Symbol}} {{.Name}}</li>{{end}}</ul>
    <button hx-post="/match/{{$id}}/reveal/close" hx-target="#board" hx-swap="outerHTML">Done</button>
    {{else}}
    <h2>{{.Name}}, make sure only you are looking.</h2>
    <button hx-post="/match/{{$id}}/reveal/start" hx-target="#board" hx-swap="outerHTML">Show my elements</button>
    {{end}}
  </section>
  {{end}}

  {{if eq .Phase "turn-transition"}}
  <section class="pass">
    <h2>Pass the device to {{.ActiveName}}</h2>
    <button hx-post="/match/{{$id}}/turn/start" hx-target="#board" hx-swap="outerHTML">I'm {{.ActiveName}}, start my turn</button>
  </section>
  {{end}}

  {{if .Cells}}
  <header>
    {{range .Players}}<span class="player">{{.Name}}: turn {{.TurnCount}}/{{$.MaxTurns}}, {{.Hits}} hits, {{.Misses}} misses</span> {{end}}
  </header>
  {{if .HintLoad}}<div class="hint loading">Consulting the oracle...</div>{{else if .Hint}}<div class="hint">{{.Hint}}</div>{{end}}
  {{if .OwnTargets}}
  <div class="peek">Your elements ({{.Peek}}): {{range .OwnTargets}}<span class="{{if .Found}}found{{end}}">{{.Symbol}}</span> {{end}}
    <button hx-post="/match/{{$id}}/peek/close" hx-target="#board" hx-swap="outerHTML">Hide</button>
  </div>
  {{else if eq .Phase "active-turn"}}{{if not .Selection}}
  <button hx-post="/match/{{$id}}/peek" hx-target="#board" hx-swap="outerHTML">View my elements</button>
  {{end}}{{end}}
  <div class="table">
    {{range .Cells}}
    <button class="cell {{.Category}} {{.Mark}}{{if .Selected}} selected{{end}}" style="grid-row: {{.Row}}; grid-column: {{.Col}}"
      {{if or .Mark (ne $.Phase "active-turn")}}disabled{{end}}
      hx-post="/match/{{$id}}/select" hx-vals='{"n": "{{.Number}}"}' hx-target="#board" hx-swap="outerHTML"
      title="{{.Name}}">{{.Number}}<br>{{.Symbol}}</button>
    {{end}}
  </div>
  <ul class="legend">{{range categories}}<li>{{.}}</li>{{end}}</ul>
  {{end}}

  {{with .Selection}}
  <form class="answer" hx-post="/match/{{$id}}/answer" hx-target="#board" hx-swap="outerHTML" method="post">
    <label>Valence subshell of {{.Name}} ({{.Symbol}})</label>
    <input name="answer" autocomplete="off" autofocus{{if .Invalid}} class="invalid"{{end}}>
    <span>{{.AttemptsLeft}} attempts left</span>
    {{if .Invalid}}<span class="alert">Wrong answer, try again.</span>{{end}}
    <button type="submit">Fire</button>
    <button type="button" hx-post="/match/{{$id}}/deselect" hx-target="#board" hx-swap="outerHTML">Cancel</button>
  </form>
  {{end}}

  {{with .Result}}
  <section class="result {{.Outcome}}">
    <h2>{{.Message}}</h2>
    {{if .Symbol}}<p>{{.Symbol}} {{.Name}}</p>{{end}}
    {{if $.FactLoad}}<p class="fact loading">Looking up a fun fact...</p>{{else if $.Fact}}<p class="fact">{{$.Fact}}</p>{{end}}
    <button hx-post="/match/{{$id}}/confirm" hx-target="#board" hx-swap="outerHTML">Continue</button>
  </section>
  {{end}}

  {{with .Over}}
  <section class="over">
    {{if .Draw}}<h2>Draw!</h2>{{else}}<h2>{{.Winner}} wins!</h2>{{end}}
    <p>Reason: {{.Reason}}</p>
    <ul>{{range $.Players}}<li>{{.Name}}: {{.Hits}} hits</li>{{end}}</ul>
    <button hx-post="/match/{{$id}}/restart" hx-target="#board" hx-swap="outerHTML">Play again</button>
  </section>
  {{end}}

  <ol class="log">{{range .Log}}<li class="{{.Kind}}">{{.Message}}</li>{{end}}</ol>
</div>
`
