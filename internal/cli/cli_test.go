package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-helper/internal/config"
	"quiz-helper/internal/domain"
)

const sampleQuiz = `# arithmetic
Q1,What is 2+2?,1:@4:5
Q2,Pick the even numbers,@2:3:@4:7
`

func TestCheckListsQuestions(t *testing.T) {
	quizPath := writeFile(t, "quiz.csv", sampleQuiz)
	out, err := execute(t, "check", quizPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "quiz.csv: 2 questions") {
		t.Fatalf("expected count line, got %q", out)
	}
	if !strings.Contains(out, "* 1) 4") || !strings.Contains(out, "  0) 1") {
		t.Fatalf("expected correct markers, got %q", out)
	}
}

func TestCheckReportsParseErrors(t *testing.T) {
	quizPath := writeFile(t, "bad.csv", "Q1,only two fields\n")
	_, err := execute(t, "check", quizPath)
	if !domain.IsParseError(err) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestScoreText(t *testing.T) {
	quizPath := writeFile(t, "quiz.csv", sampleQuiz)
	answersPath := writeFile(t, "answers.yaml", "answers:\n  - [1]\n  - [0]\n")
	out, err := execute(t, "score", quizPath, answersPath)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	for _, want := range []string{
		"question 1: totally correct",
		"question 2: partially correct",
		"Correct Answer %     85.71%",
		"Totally Correct %    50.00%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
}

func TestScoreJSON(t *testing.T) {
	quizPath := writeFile(t, "quiz.csv", sampleQuiz)
	answersPath := writeFile(t, "answers.yaml", "answers:\n  - [1]\n  - [0]\n")
	out, err := execute(t, "score", quizPath, answersPath, "-o", "json")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	var summary domain.ResultSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode: %v (%s)", err, out)
	}
	if summary.Correct != 6 || summary.Total != 7 || summary.OnlyCorrect != 2 || summary.OnlyCorrectTotal != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestScoreRejectsMismatchedAnswers(t *testing.T) {
	quizPath := writeFile(t, "quiz.csv", sampleQuiz)
	answersPath := writeFile(t, "answers.yaml", "answers:\n  - [1]\n")
	_, err := execute(t, "score", quizPath, answersPath)
	if !domain.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExportRoundTrips(t *testing.T) {
	quizPath := writeFile(t, "quiz.csv", sampleQuiz)
	outPath := filepath.Join(t.TempDir(), "copy.csv")
	if _, err := execute(t, "export", quizPath, "--out", outPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	out, err := execute(t, "check", outPath, "-q")
	if err != nil {
		t.Fatalf("check exported file: %v", err)
	}
	if !strings.Contains(out, "copy.csv: 2 questions") {
		t.Fatalf("unexpected check output %q", out)
	}
}

func TestRunRequiresTerminal(t *testing.T) {
	_, err := execute(t, "run")
	if !errors.Is(err, errNoTerminal) {
		t.Fatalf("expected errNoTerminal, got %v", err)
	}
}

func TestLibraryCommandsNeedPostgres(t *testing.T) {
	quizPath := writeFile(t, "quiz.csv", sampleQuiz)
	for _, args := range [][]string{{"migrate"}, {"import", quizPath}, {"list"}} {
		if _, err := execute(t, args...); !errors.Is(err, errNoPostgres) {
			t.Fatalf("%v: expected errNoPostgres, got %v", args, err)
		}
	}
}

func TestLoadConfigAppliesLogFlags(t *testing.T) {
	cfg, err := loadConfig(&rootOptions{
		configPath: filepath.Join(t.TempDir(), "missing.yaml"),
		logLevel:   "debug",
		logFile:    "quiz.log",
	})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "quiz.log" {
		t.Fatalf("expected overrides, got %+v", cfg.Log)
	}
}

func TestMuxServesHealthAndMetrics(t *testing.T) {
	env, err := newEnvironment(context.Background(), config.Default(), nil)
	if err != nil {
		t.Fatalf("environment: %v", err)
	}
	defer env.Close()
	server := httptest.NewServer(newMux(env))
	defer server.Close()

	for path, want := range map[string]string{"/healthz": "ok", "/metrics": "quiz_sessions_started_total"} {
		resp, err := server.Client().Get(server.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if !strings.Contains(string(body), want) {
			t.Fatalf("%s: expected %q in %q", path, want, body)
		}
	}
}

func TestServeConfinesQuizSources(t *testing.T) {
	quizDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(quizDir, "sample.csv"), []byte(sampleQuiz), 0o644); err != nil {
		t.Fatalf("write quiz: %v", err)
	}
	secret := writeFile(t, "secrets.txt", "db,password=hunter2,@x\n")

	cfg := config.Default()
	cfg.Server.QuizDir = quizDir
	env, err := newServerEnvironment(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("environment: %v", err)
	}
	defer env.Close()
	server := httptest.NewServer(newMux(env))
	defer server.Close()

	for _, src := range []string{secret, "/etc/passwd", "../x.csv", "../" + filepath.Base(filepath.Dir(secret)) + "/secrets.txt"} {
		msg := dialSource(t, server.URL, src)
		if msg.Type != "error" || msg.Payload["kind"] != "forbidden" {
			t.Fatalf("%q: expected forbidden error, got %+v", src, msg)
		}
		if strings.Contains(fmt.Sprint(msg.Payload), "hunter2") {
			t.Fatalf("%q: file content leaked: %+v", src, msg)
		}
	}

	msg := dialSource(t, server.URL, "sample.csv")
	if msg.Type != "state" || msg.Payload["state"] != "in_progress" {
		t.Fatalf("expected quiz from quiz dir, got %+v", msg)
	}
}

type wsReply struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// dialSource opens /ws with src preselected and returns the first reply.
func dialSource(t *testing.T, serverURL, src string) wsReply {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws?source=" + url.QueryEscape(src)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var reply wsReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read %q: %v", src, err)
	}
	return reply
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
