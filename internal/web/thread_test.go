package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
)

func threadBackend(askCount *atomic.Int64, messages []map[string]any) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/threads/3/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"thread_id":    3,
			"thread_title": "Discussion: Recursion",
			"thread_topic": "Recursion",
			"messages":     messages,
		})
	})
	mux.HandleFunc("POST /api/threads/3/ask", func(w http.ResponseWriter, r *http.Request) {
		askCount.Add(1)
		var body struct {
			Question string `json:"question"`
			UserID   int64  `json:"user_id"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		updated := append(messages, map[string]any{
			"id": 10, "sender_type": "student", "user_name": "Alice Smith", "content": body.Question,
		}, map[string]any{
			"id": 11, "sender_type": "ai", "user_name": "AI Assistant", "content": "Here is an answer.",
		})
		json.NewEncoder(w).Encode(map[string]any{"success": true, "messages": updated})
	})
	return mux
}

func TestThreadEmptyState(t *testing.T) {
	var askCount atomic.Int64
	app := newTestApp(t, threadBackend(&askCount, nil))
	cookie := app.loginAs(t, student)

	resp := get(t, app.server.URL+"/threads/3", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "No messages yet") {
		t.Error("empty state copy not rendered")
	}
	if !strings.Contains(body, "Recursion") {
		t.Error("topic not rendered")
	}
}

func TestAskEmptyQuestionSkipsBackend(t *testing.T) {
	var askCount atomic.Int64
	app := newTestApp(t, threadBackend(&askCount, nil))
	cookie := app.loginAs(t, student)

	resp := postForm(t, app.server.URL+"/threads/3/ask", url.Values{"question": {"   "}}, cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if askCount.Load() != 0 {
		t.Errorf("ask requests = %d, want 0 for empty question", askCount.Load())
	}
}

func TestAskRendersUpdatedList(t *testing.T) {
	var askCount atomic.Int64
	app := newTestApp(t, threadBackend(&askCount, nil))
	cookie := app.loginAs(t, student)

	resp := postForm(t, app.server.URL+"/threads/3/ask", url.Values{"question": {"What is recursion?"}}, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "What is recursion?") {
		t.Error("question not in updated list")
	}
	if !strings.Contains(body, "Here is an answer.") {
		t.Error("AI answer not in updated list")
	}
	// Input cleared on success.
	if strings.Contains(body, `value="What is recursion?"`) {
		t.Error("input not cleared after successful ask")
	}
	if askCount.Load() != 1 {
		t.Errorf("ask requests = %d, want 1", askCount.Load())
	}
}

func TestAskFailurePreservesInput(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/threads/3/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"thread_id": 3, "thread_topic": "Recursion",
			"messages": []map[string]any{{"id": 1, "sender_type": "ai", "user_name": "AI Assistant", "content": "Earlier answer"}},
		})
	})
	mux.HandleFunc("POST /api/threads/3/ask", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"detail": "AI service is unavailable"})
	})
	app := newTestApp(t, mux)
	cookie := app.loginAs(t, student)

	resp := postForm(t, app.server.URL+"/threads/3/ask", url.Values{"question": {"Why does it stack overflow?"}}, cookie)
	body := readBody(t, resp)

	if !strings.Contains(body, "AI service is unavailable") {
		t.Error("backend detail not shown on ask failure")
	}
	if !strings.Contains(body, `value="Why does it stack overflow?"`) {
		t.Error("typed question not preserved on failure")
	}
	if !strings.Contains(body, "Earlier answer") {
		t.Error("existing history not kept visible on failure")
	}
}
