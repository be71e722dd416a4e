package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"glocalnews/internal/model"
	"glocalnews/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

// syncRecorder guards the recorder so the test can read the body while the
// streaming handler is still writing.
type syncRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

func (r *syncRecorder) Header() http.Header {
	return r.rec.Header()
}

func (r *syncRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Write(b)
}

func (r *syncRecorder) WriteString(s string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.WriteString(s)
}

func (r *syncRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.WriteHeader(code)
}

// CloseNotify satisfies http.CloseNotifier, which gin's Context.Stream
// requires of the underlying writer. The tests drive disconnect through the
// request context, so the channel never fires.
func (r *syncRecorder) CloseNotify() <-chan bool {
	return make(chan bool)
}

func (r *syncRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.Flush()
}

func (r *syncRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Body.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStream_DeliversPublishedArticles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dist := realtime.NewDistributor()
	defer dist.Close()

	r := gin.New()
	r.GET("/stream", NewStreamHandler(dist).Stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest("GET", "/stream", nil).WithContext(ctx)
	w := &syncRecorder{rec: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(done)
	}()

	waitFor(t, func() bool { return dist.SubscriberCount() == 1 })

	dist.Publish([]model.Article{{ID: 1, Title: "Watermain break closes Elm Street"}})

	waitFor(t, func() bool {
		return strings.Contains(w.body(), "Watermain break closes Elm Street")
	})

	cancel()
	<-done

	assert.Equal(t, true, strings.Contains(w.body(), "event:connected"))
	assert.Equal(t, 0, dist.SubscriberCount())
}

func TestStream_DisconnectUnsubscribes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dist := realtime.NewDistributor()
	defer dist.Close()

	r := gin.New()
	r.GET("/stream", NewStreamHandler(dist).Stream)

	ctx, cancel := context.WithCancel(context.Background())

	req := httptest.NewRequest("GET", "/stream", nil).WithContext(ctx)
	w := &syncRecorder{rec: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(done)
	}()

	waitFor(t, func() bool { return dist.SubscriberCount() == 1 })

	cancel()
	<-done

	assert.Equal(t, 0, dist.SubscriberCount())
}
