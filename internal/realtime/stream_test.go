package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"

	types "github.com/yungbote/stride-backend/internal/domain"
)

func TestProgressStreamWritesOrderedFrames(t *testing.T) {
	rec := httptest.NewRecorder()
	stream, err := NewSSEProgressStream(rec, mustTestLogger(t))
	if err != nil {
		t.Fatalf("new stream: %v", err)
	}

	stream.Emit(StreamEventProgress, types.ExecutionProgress{
		Step: "Creating todos", Completed: 1, Total: 3, Status: types.ProgressInProgress,
	})
	stream.Emit(StreamEventComplete, types.ExecutionSummary{Success: true})
	stream.Close()

	body := rec.Body.String()
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content type = %q", got)
	}
	progressAt := strings.Index(body, "event: progress\n")
	completeAt := strings.Index(body, "event: complete\n")
	if progressAt < 0 || completeAt < 0 {
		t.Fatalf("missing frames in body: %q", body)
	}
	if progressAt > completeAt {
		t.Fatalf("frames out of order: %q", body)
	}
	if !strings.Contains(body, `"step":"Creating todos"`) {
		t.Fatalf("progress payload missing step: %q", body)
	}
}

func TestProgressStreamEmitAfterCloseIsNoOp(t *testing.T) {
	rec := httptest.NewRecorder()
	stream, err := NewSSEProgressStream(rec, mustTestLogger(t))
	if err != nil {
		t.Fatalf("new stream: %v", err)
	}

	stream.Close()
	before := rec.Body.Len()
	stream.Emit(StreamEventError, map[string]string{"error": "late"})
	if rec.Body.Len() != before {
		t.Fatalf("emit after close wrote %d bytes", rec.Body.Len()-before)
	}
}
