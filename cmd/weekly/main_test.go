package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
}

// fakeServer 按 "METHOD path" 返回预置响应并记录请求
func fakeServer(t *testing.T, routes map[string]func(w http.ResponseWriter)) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		reqs = append(reqs, rec)
		handler, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"code":"NOT_FOUND","error":"no route"}`))
			return
		}
		handler(w)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func jsonReply(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func runCLI(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WEEKLY_SERVER_URL", "")
	t.Setenv("WEEKLY_THEME", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server-url", serverURL}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestLoadConfig_Precedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".weekly"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".weekly", "config.yaml"),
		[]byte("server_url: http://file:1\ntheme: 清新绿\n"), 0644))

	t.Setenv("WEEKLY_SERVER_URL", "")
	t.Setenv("WEEKLY_THEME", "")
	cmd := newRootCmd()
	cfg := LoadConfig(cmd)
	assert.Equal(t, "http://file:1", cfg.ServerURL)
	assert.Equal(t, "清新绿", cfg.Theme)
	assert.Equal(t, "text", cfg.Output)

	t.Setenv("WEEKLY_SERVER_URL", "http://env:2")
	cfg = LoadConfig(cmd)
	assert.Equal(t, "http://env:2", cfg.ServerURL)

	require.NoError(t, cmd.ParseFlags([]string{"--server-url", "http://flag:3", "-o", "json"}))
	cfg = LoadConfig(cmd)
	assert.Equal(t, "http://flag:3", cfg.ServerURL)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WEEKLY_SERVER_URL", "")
	cfg := LoadConfig(newRootCmd())
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, "text", cfg.Output)
}

func TestTaskList_Text(t *testing.T) {
	srv, _ := fakeServer(t, map[string]func(http.ResponseWriter){
		"GET /api/v1/week": jsonReply(http.StatusOK, `{"success":true,"data":{
			"Monday":[{"id":"t1","content":"接口联调","status":"completed","category":"Dev"}],
			"Tuesday":[{"id":"t2","content":"评审","status":"in-progress","category":"Meeting"}]}}`),
	})

	out, err := runCLI(t, srv.URL, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "周一 (Monday)")
	assert.Contains(t, out, "[x] t1  接口联调 [Dev]")
	assert.Contains(t, out, "[~] t2  评审 [Meeting]")
	assert.Contains(t, out, "周五 (Friday)\n  -")
}

func TestTaskAdd_WithContentPatchesNewTask(t *testing.T) {
	srv, reqs := fakeServer(t, map[string]func(http.ResponseWriter){
		"POST /api/v1/week/Wednesday/tasks": jsonReply(http.StatusCreated,
			`{"success":true,"data":{"id":"t9","content":"","status":"completed","category":"Dev"}}`),
		"PATCH /api/v1/week/Wednesday/tasks/t9": jsonReply(http.StatusOK,
			`{"success":true,"data":{"id":"t9","content":"写周报","status":"pending","category":"Dev"}}`),
	})

	out, err := runCLI(t, srv.URL, "task", "add", "Wednesday", "--content", "写周报", "--status", "pending")
	require.NoError(t, err)
	require.Len(t, *reqs, 2)
	assert.Equal(t, map[string]interface{}{"content": "写周报", "status": "pending"}, (*reqs)[1].Body)
	assert.Contains(t, out, "[ ] t9  写周报 [Dev]")
}

func TestTaskEdit_RequiresAField(t *testing.T) {
	_, err := runCLI(t, "http://127.0.0.1:0", "task", "edit", "Monday", "t1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestTaskClear_RequiresYes(t *testing.T) {
	srv, reqs := fakeServer(t, map[string]func(http.ResponseWriter){
		"DELETE /api/v1/week": jsonReply(http.StatusOK, `{"success":true,"message":"week cleared"}`),
	})

	_, err := runCLI(t, srv.URL, "task", "clear")
	require.Error(t, err)
	assert.Empty(t, *reqs)

	out, err := runCLI(t, srv.URL, "task", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "week cleared")
}

func TestServerErrorIsReported(t *testing.T) {
	srv, _ := fakeServer(t, map[string]func(http.ResponseWriter){
		"POST /api/v1/report/generate": jsonReply(http.StatusBadRequest,
			`{"success":false,"code":"NO_TASKS","error":"NO_TASKS"}`),
	})

	_, err := runCLI(t, srv.URL, "report", "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400 NO_TASKS")
}

func TestReportEdit_SendsFieldRequest(t *testing.T) {
	srv, reqs := fakeServer(t, map[string]func(http.ResponseWriter){
		"PATCH /api/v1/report/field": jsonReply(http.StatusOK, `{"success":true,"data":{
			"data":{"weeklySummary":["a","b"],"finalSummary":"ok"},
			"meta":{"name":"张三","role":"工程师","supervisor":"李四","dateRange":"2025/10/13 - 2025/10/17"},
			"status":"success"}}`),
	})

	out, err := runCLI(t, srv.URL, "report", "edit", "dailyLogs", "联调完成", "--index", "2", "--sub-field", "content")
	require.NoError(t, err)
	require.Len(t, *reqs, 1)
	assert.Equal(t, "dailyLogs", (*reqs)[0].Body["section"])
	assert.Equal(t, float64(2), (*reqs)[0].Body["index"])
	assert.Equal(t, "content", (*reqs)[0].Body["sub_field"])
	assert.Equal(t, "联调完成", (*reqs)[0].Body["value"])
	assert.Contains(t, out, "张三 / 工程师 / 李四")
	assert.Contains(t, out, "weeklySummary: 2")
	assert.Contains(t, out, "finalSummary: ok")
}

func TestReportMeta_MergesWithCurrent(t *testing.T) {
	view := `{"success":true,"data":{"data":null,
		"meta":{"name":"您的姓名","role":"岗位名称","supervisor":"上级姓名","dateRange":"2025/10/13 - 2025/10/17"},
		"status":"idle"}}`
	srv, reqs := fakeServer(t, map[string]func(http.ResponseWriter){
		"GET /api/v1/report":      jsonReply(http.StatusOK, view),
		"PUT /api/v1/report/meta": jsonReply(http.StatusOK, view),
	})

	_, err := runCLI(t, srv.URL, "report", "meta", "--name", "王五")
	require.NoError(t, err)
	require.Len(t, *reqs, 2)
	put := (*reqs)[1].Body
	assert.Equal(t, "王五", put["name"])
	assert.Equal(t, "岗位名称", put["role"])
	assert.Equal(t, "2025/10/13 - 2025/10/17", put["dateRange"])
}

func TestReportShow_JSONOutput(t *testing.T) {
	srv, _ := fakeServer(t, map[string]func(http.ResponseWriter){
		"GET /api/v1/report": jsonReply(http.StatusOK, `{"success":true,"data":{"status":"idle"}}`),
	})

	out, err := runCLI(t, srv.URL, "-o", "json", "report", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "idle"`)
}

func TestExportPDF_WritesFile(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	srv, reqs := fakeServer(t, map[string]func(http.ResponseWriter){
		"POST /api/v1/report/export": func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(pdf)
		},
	})

	path := filepath.Join(t.TempDir(), "out.pdf")
	out, err := runCLI(t, srv.URL, "export", "pdf", "-f", path, "--theme", "深邃紫", "--primary", "#112233")
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
	assert.Contains(t, out, "exported")
	assert.Contains(t, (*reqs)[0].Query, "primary=%23112233")
}

func TestStats_EmptyWeek(t *testing.T) {
	srv, _ := fakeServer(t, map[string]func(http.ResponseWriter){
		"GET /api/v1/stats": func(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) },
	})

	out, err := runCLI(t, srv.URL, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "no tasks this week")
}

func TestStats_Text(t *testing.T) {
	srv, _ := fakeServer(t, map[string]func(http.ResponseWriter){
		"GET /api/v1/stats": jsonReply(http.StatusOK, `{"success":true,"data":{
			"total":5,"completion_rate":60,
			"percentages":{"completed":60,"in_progress":20,"pending":20},
			"daily_counts":[{"day":"Monday","label":"周一","count":3},{"day":"Tuesday","label":"周二","count":2}],
			"busiest_label":"周一"}}`),
	})

	out, err := runCLI(t, srv.URL, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total: 5  completion: 60%")
	assert.Contains(t, out, "周一 ### 3")
	assert.Contains(t, out, "busiest: 周一")
}

func TestDraftStatus(t *testing.T) {
	srv, _ := fakeServer(t, map[string]func(http.ResponseWriter){
		"GET /api/v1/draft": jsonReply(http.StatusOK, `{"success":true,"data":{"exists":true}}`),
	})

	out, err := runCLI(t, srv.URL, "draft", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "draft: saved")
}
