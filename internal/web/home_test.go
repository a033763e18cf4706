package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
)

// feedBackend serves two announcements whose threads have polls; the
// poll endpoint for thread 2 always fails.
func feedBackend(voteCount *atomic.Int64) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/announcements", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"announcements": []map[string]any{
				{
					"id": 1, "title": "Week 1 Lecture", "content": "Read chapter 3",
					"teacher_name": "Prof Jones", "created_at": "2026-08-20T10:00:00Z",
					"has_topics": true,
					"threads": []map[string]any{
						{"id": 1, "topic": "Recursion", "message_count": 4},
						{"id": 2, "topic": "Stacks", "message_count": 0},
					},
				},
			},
		})
	})
	mux.HandleFunc("GET /api/topics/1/poll", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results":      map[string]int{"complete": 4, "partial": 2, "none": 1},
			"student_vote": "partial",
		})
	})
	mux.HandleFunc("GET /api/topics/2/poll", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("POST /api/topics/1/poll", func(w http.ResponseWriter, r *http.Request) {
		voteCount.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"results": map[string]int{"complete": 5, "partial": 2, "none": 1},
		})
	})
	return mux
}

func TestHomeFeedAndPollIsolation(t *testing.T) {
	var voteCount atomic.Int64
	app := newTestApp(t, feedBackend(&voteCount))
	cookie := app.loginAs(t, student)

	resp := get(t, app.server.URL+"/home", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body := readBody(t, resp)

	if !strings.Contains(body, "Week 1 Lecture") {
		t.Error("announcement not rendered")
	}
	// Thread 1 tally rendered despite thread 2's poll fetch failing.
	if !strings.Contains(body, "7 votes") {
		t.Error("working poll widget missing its tally")
	}
	if !strings.Contains(body, "Stacks") {
		t.Error("failed poll widget dropped from the page")
	}
	if strings.Contains(body, "banner-error") {
		t.Error("page-level error shown for a single widget failure")
	}
}

func TestHomeFeedFailureShowsBanner(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "database unavailable"})
	})
	app := newTestApp(t, backend)
	cookie := app.loginAs(t, student)

	resp := get(t, app.server.URL+"/home", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if body := readBody(t, resp); !strings.Contains(body, "database unavailable") {
		t.Error("feed failure banner not rendered")
	}
}

func TestVoteForwardsAndRedirects(t *testing.T) {
	var voteCount atomic.Int64
	app := newTestApp(t, feedBackend(&voteCount))
	cookie := app.loginAs(t, student)

	resp := postForm(t, app.server.URL+"/threads/1/vote", url.Values{"level": {"complete"}}, cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/home" {
		t.Errorf("Location = %q, want %q", loc, "/home")
	}
	if voteCount.Load() != 1 {
		t.Errorf("vote requests = %d, want 1", voteCount.Load())
	}
}

func TestVoteIgnoresTeacherAndBadLevel(t *testing.T) {
	var voteCount atomic.Int64
	app := newTestApp(t, feedBackend(&voteCount))

	teacherCookie := app.loginAs(t, teacher)
	resp := postForm(t, app.server.URL+"/threads/1/vote", url.Values{"level": {"complete"}}, teacherCookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("teacher vote status = %d, want redirect", resp.StatusCode)
	}

	studentCookie := app.loginAs(t, student)
	resp = postForm(t, app.server.URL+"/threads/1/vote", url.Values{"level": {"sideways"}}, studentCookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("bad level status = %d, want redirect", resp.StatusCode)
	}

	if voteCount.Load() != 0 {
		t.Errorf("vote requests = %d, want 0", voteCount.Load())
	}
}
