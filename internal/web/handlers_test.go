package web

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/jaminalder/element-hunt/internal/app"
	"github.com/jaminalder/element-hunt/internal/catalog"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
	t.Helper()
	s := app.NewService(app.WithTick(200 * time.Millisecond))
	t.Cleanup(s.Close)
	h := NewServer(s, WithSessionSecret("test-secret"))
	return s, h
}

// createMatch posts the new-match form and returns the match id and the
// session cookie that owns it.
func createMatch(t *testing.T, h http.Handler) (string, *http.Cookie) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/match", nil))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	loc := rr.Result().Header.Get("Location")
	if !strings.HasPrefix(loc, "/match/") {
		t.Fatalf("expected redirect to /match/{id}, got %q", loc)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			return strings.TrimPrefix(loc, "/match/"), c
		}
	}
	t.Fatalf("expected %s cookie", sessionCookie)
	return "", nil
}

func post(t *testing.T, h http.Handler, path string, form url.Values, c *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c != nil {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// toActiveTurn plays names and both reveals, then starts player 1's turn.
func toActiveTurn(t *testing.T, h http.Handler, id string, c *http.Cookie) {
	t.Helper()
	base := "/match/" + id
	steps := []struct {
		path string
		form url.Values
	}{
		{"/names", url.Values{"p1": {"Ada"}, "p2": {"Bob"}}},
		{"/reveal/start", nil},
		{"/reveal/close", nil},
		{"/reveal/start", nil},
		{"/reveal/close", nil},
		{"/turn/start", nil},
	}
	for _, s := range steps {
		rr := post(t, h, base+s.path, s.form, c)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", s.path, rr.Code)
		}
		if strings.Contains(rr.Body.String(), `class="alert"`) {
			t.Fatalf("%s rejected: %q", s.path, rr.Body.String())
		}
	}
}

// freeCell returns a cell that does not hold one of the opponent's targets.
func freeCell(st *app.MatchState) catalog.Element {
	opp := st.Match.Opponent()
	for _, e := range catalog.All() {
		hidden := false
		for _, tg := range opp.Targets {
			hidden = hidden || tg.Element.Number == e.Number
		}
		if !hidden {
			return e
		}
	}
	panic("no free cell")
}

func TestIndexPage(t *testing.T) {
	_, h := newTestServer(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<form") || !strings.Contains(body, `action="/match"`) {
		t.Fatalf("index should contain create form; got body: %q", body)
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected health response %d %q", rr.Code, rr.Body.String())
	}
}

func TestMatchPageHasSSEWiring(t *testing.T) {
	_, h := newTestServer(t)
	id, c := createMatch(t, h)

	req := httptest.NewRequest("GET", "/match/"+url.PathEscape(id), nil)
	req.AddCookie(c)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `hx-ext="sse"`) || !strings.Contains(body, "/match/"+id+"/events") {
		t.Fatalf("expected SSE wiring in page; got body: %q", body)
	}
	if !strings.Contains(body, `data-phase="entering-names"`) {
		t.Fatalf("expected name entry board; got body: %q", body)
	}
}

func TestMatchRequiresOwnerSession(t *testing.T) {
	_, h := newTestServer(t)
	id, _ := createMatch(t, h)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/match/"+id, nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without session, got %d", rr.Code)
	}

	// A different browser with its own valid session.
	_, other := createMatch(t, h)
	rr = post(t, h, "/match/"+id+"/names", url.Values{"p1": {"x"}, "p2": {"y"}}, other)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign session, got %d", rr.Code)
	}

	forged := &http.Cookie{Name: sessionCookie, Value: "not-a-token"}
	rr = post(t, h, "/match/"+id+"/names", url.Values{"p1": {"x"}, "p2": {"y"}}, forged)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for forged cookie, got %d", rr.Code)
	}
}

func TestSecureCookieOption(t *testing.T) {
	s := app.NewService()
	t.Cleanup(s.Close)
	for _, secure := range []bool{false, true} {
		h := NewServer(s, WithSecureCookies(secure), WithSessionSecret("test-secret"))
		_, c := createMatch(t, h)
		if c.Secure != secure {
			t.Fatalf("WithSecureCookies(%v): cookie Secure=%v", secure, c.Secure)
		}
	}
}

func TestUnknownMatchIsNotFound(t *testing.T) {
	_, h := newTestServer(t)
	_, c := createMatch(t, h)
	req := httptest.NewRequest("GET", "/match/does-not-exist", nil)
	req.AddCookie(c)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSecondMatchReusesSession(t *testing.T) {
	_, h := newTestServer(t)
	_, c := createMatch(t, h)
	req := httptest.NewRequest("POST", "/match", nil)
	req.AddCookie(c)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Fatalf("expected existing session to be kept")
	}
	id := strings.TrimPrefix(rr.Result().Header.Get("Location"), "/match/")
	get := httptest.NewRequest("GET", "/match/"+id, nil)
	get.AddCookie(c)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, get)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected owner access to second match, got %d", rr.Code)
	}
}

func TestNamesEndpointReturnsBoardFragment(t *testing.T) {
	svc, h := newTestServer(t)
	id, c := createMatch(t, h)

	rr := post(t, h, "/match/"+id+"/names", url.Values{"p1": {"Ada"}, "p2": {"Bob"}}, c)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="board"`) || strings.Contains(body, "<html") {
		t.Fatalf("expected bare board fragment, got %q", body)
	}
	if !strings.Contains(body, `data-phase="revealing"`) {
		t.Fatalf("expected reveal board, got %q", body)
	}
	latest, _ := svc.Get(id)
	if latest.Match.Players[0].Name != "Ada" || latest.Match.Players[1].Name != "Bob" {
		t.Fatalf("names not applied: %+v", latest.Match.Players)
	}
}

func TestRejectedActionRendersMessage(t *testing.T) {
	svc, h := newTestServer(t)
	id, c := createMatch(t, h)

	rr := post(t, h, "/match/"+id+"/names", url.Values{"p1": {"  "}, "p2": {"Bob"}}, c)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Both players need a name") {
		t.Fatalf("expected name error, got %q", rr.Body.String())
	}
	latest, _ := svc.Get(id)
	if latest.Match.Phase.String() != "entering-names" {
		t.Fatalf("phase changed on rejected action: %s", latest.Match.Phase)
	}
}

func TestSelectAndAnswer(t *testing.T) {
	svc, h := newTestServer(t)
	id, c := createMatch(t, h)
	toActiveTurn(t, h, id, c)

	st, _ := svc.Get(id)
	cell := freeCell(st)
	rr := post(t, h, "/match/"+id+"/select", url.Values{"n": {strconv.Itoa(cell.Number)}}, c)
	if !strings.Contains(rr.Body.String(), "Valence subshell of "+cell.Name) {
		t.Fatalf("expected answer dialog for %s, got %q", cell.Name, rr.Body.String())
	}

	rr = post(t, h, "/match/"+id+"/answer", url.Values{"answer": {"xyz"}}, c)
	if !strings.Contains(rr.Body.String(), "Answer in subshell notation") {
		t.Fatalf("expected format error, got %q", rr.Body.String())
	}

	rr = post(t, h, "/match/"+id+"/answer", url.Values{"answer": {cell.Valence}}, c)
	if !strings.Contains(rr.Body.String(), `data-phase="resolving-feedback"`) {
		t.Fatalf("expected feedback board, got %q", rr.Body.String())
	}
	latest, _ := svc.Get(id)
	if got := latest.Match.Players[0].Misses; len(got) != 1 || got[0] != cell.Number {
		t.Fatalf("expected recorded miss on %d, got %v", cell.Number, got)
	}

	rr = post(t, h, "/match/"+id+"/confirm", nil, c)
	if !strings.Contains(rr.Body.String(), `data-phase="turn-transition"`) {
		t.Fatalf("expected turn transition, got %q", rr.Body.String())
	}
}

func TestSelectRejectsGarbage(t *testing.T) {
	_, h := newTestServer(t)
	id, c := createMatch(t, h)
	toActiveTurn(t, h, id, c)
	rr := post(t, h, "/match/"+id+"/select", url.Values{"n": {"banana"}}, c)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "No such element") {
		t.Fatalf("expected unknown element message, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
	_, h := newTestServer(t)
	id, c := createMatch(t, h)
	req := httptest.NewRequest("GET", "/match/"+id+"/events", nil)
	req.AddCookie(c)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Result().Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected text/event-stream, got %q", ct)
	}
}

func TestEventsStreamBoardUpdates(t *testing.T) {
	svc, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()
	id, c := createMatch(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/match/"+id+"/events", nil)
	req.Header.Set("Accept", "text/event-stream")
	req.AddCookie(c)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("events request: %v", err)
	}
	defer resp.Body.Close()

	if _, err := svc.SetNames(id, "Ada", "Bob"); err != nil {
		t.Fatalf("SetNames: %v", err)
	}
	sc := bufio.NewScanner(resp.Body)
	sawEvent := false
	for sc.Scan() {
		line := sc.Text()
		if line == "event: board" {
			sawEvent = true
			continue
		}
		if sawEvent && strings.HasPrefix(line, "data: ") && strings.Contains(line, `id="board"`) {
			return
		}
	}
	t.Fatalf("no board event received (saw event line: %v, err: %v)", sawEvent, sc.Err())
}

func TestEventsStreamEndsOnClose(t *testing.T) {
	svc, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()
	id, c := createMatch(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/match/"+id+"/events", nil)
	req.Header.Set("Accept", "text/event-stream")
	req.AddCookie(c)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("events request: %v", err)
	}
	defer resp.Body.Close()

	svc.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		t.Fatalf("stream did not end cleanly: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatalf("stream stayed open after Close")
	}

	req, _ = http.NewRequest("GET", srv.URL+"/match/"+id+"/events", nil)
	req.Header.Set("Accept", "text/event-stream")
	req.AddCookie(c)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("events request: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 after Close, got %d", resp2.StatusCode)
	}
}

func TestWriteSSESplitsLines(t *testing.T) {
	var buf bytes.Buffer
	writeSSE(&buf, "board", []byte("<div>\n<p>x</p>\n</div>\n"))
	want := "event: board\ndata: <div>\ndata: <p>x</p>\ndata: </div>\n\n"
	if buf.String() != want {
		t.Fatalf("unexpected frame:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWebSocketStreamsViews(t *testing.T) {
	svc, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()
	id, c := createMatch(t, h)

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/match/" + id + "/ws"
	hdr := http.Header{}
	hdr.Set("Cookie", sessionCookie+"="+c.Value)
	conn, resp, err := websocket.DefaultDialer.Dial(u, hdr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	read := func() app.View {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var v app.View
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return v
	}

	if v := read(); v.ID != id || v.Phase != "entering-names" {
		t.Fatalf("unexpected initial view: %+v", v)
	}
	if _, err := svc.SetNames(id, "Ada", "Bob"); err != nil {
		t.Fatalf("SetNames: %v", err)
	}
	v := read()
	if v.Phase != "revealing" || v.Reveal == nil || v.Reveal.Name != "Ada" {
		t.Fatalf("unexpected view after names: %+v", v)
	}
	if len(v.OwnTargets) != 0 {
		t.Fatalf("targets must stay hidden until the reveal starts")
	}
}

func TestWebSocketRequiresOwner(t *testing.T) {
	_, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()
	id, _ := createMatch(t, h)

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/match/" + id + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
}
