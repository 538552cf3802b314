package observability

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Slim in-process metrics registry. Counters and latency sums only; the
// snapshot endpoint exposes everything as JSON for scraping or debugging.

type Counter struct {
	mu sync.Mutex
	v  uint64
}

func (c *Counter) Inc() { c.Add(1) }

func (c *Counter) Add(n uint64) {
	c.mu.Lock()
	c.v += n
	c.mu.Unlock()
}

func (c *Counter) Value() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

type CounterVec struct {
	mu sync.Mutex
	m  map[string]uint64
}

func NewCounterVec() *CounterVec {
	return &CounterVec{m: map[string]uint64{}}
}

func (c *CounterVec) Inc(labels ...string) { c.Add(1, labels...) }

func (c *CounterVec) Add(n uint64, labels ...string) {
	key := strings.Join(labels, "|")
	c.mu.Lock()
	c.m[key] += n
	c.mu.Unlock()
}

func (c *CounterVec) Snapshot() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]uint64, len(c.m))
	for k, v := range c.m {
		out[k] = v
	}
	return out
}

type LatencyVec struct {
	mu    sync.Mutex
	count map[string]uint64
	sumMs map[string]float64
}

func NewLatencyVec() *LatencyVec {
	return &LatencyVec{count: map[string]uint64{}, sumMs: map[string]float64{}}
}

func (l *LatencyVec) Observe(d time.Duration, labels ...string) {
	key := strings.Join(labels, "|")
	l.mu.Lock()
	l.count[key]++
	l.sumMs[key] += float64(d.Milliseconds())
	l.mu.Unlock()
}

func (l *LatencyVec) Snapshot() map[string]map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]map[string]float64, len(l.count))
	for k, n := range l.count {
		out[k] = map[string]float64{"count": float64(n), "sum_ms": l.sumMs[k]}
	}
	return out
}

type Metrics struct {
	apiRequests      *CounterVec
	apiLatency       *LatencyVec
	llmRequests      *CounterVec
	llmLatency       *LatencyVec
	llmTokens        *CounterVec
	executionActions *CounterVec
	executionItems   *Counter
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("METRICS_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func Init() *Metrics {
	initOnce.Do(func() {
		if !Enabled() {
			return
		}
		instance = &Metrics{
			apiRequests:      NewCounterVec(),
			apiLatency:       NewLatencyVec(),
			llmRequests:      NewCounterVec(),
			llmLatency:       NewLatencyVec(),
			llmTokens:        NewCounterVec(),
			executionActions: NewCounterVec(),
			executionItems:   &Counter{},
		}
	})
	return instance
}

func Current() *Metrics { return instance }

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.Inc(method, route, statusClass(status))
	m.apiLatency.Observe(d, method, route)
}

func (m *Metrics) ObserveLLMRequest(model, path string, status int, d time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	m.llmRequests.Inc(model, path, statusClass(status))
	m.llmLatency.Observe(d, model, path)
	if inputTokens > 0 {
		m.llmTokens.Add(uint64(inputTokens), model, "input")
	}
	if outputTokens > 0 {
		m.llmTokens.Add(uint64(outputTokens), model, "output")
	}
}

func (m *Metrics) ObserveExecutionAction(actionType string, failed bool, items int) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.executionActions.Inc(actionType, outcome)
	if items > 0 {
		m.executionItems.Add(uint64(items))
	}
}

func (m *Metrics) Snapshot() map[string]any {
	if m == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"enabled":           true,
		"api_requests":      sorted(m.apiRequests.Snapshot()),
		"api_latency":       m.apiLatency.Snapshot(),
		"llm_requests":      sorted(m.llmRequests.Snapshot()),
		"llm_latency":       m.llmLatency.Snapshot(),
		"llm_tokens":        sorted(m.llmTokens.Snapshot()),
		"execution_actions": sorted(m.executionActions.Snapshot()),
		"execution_items":   m.executionItems.Value(),
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}

func sorted(in map[string]uint64) map[string]uint64 {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]uint64, len(in))
	for _, k := range keys {
		out[k] = in[k]
	}
	return out
}
