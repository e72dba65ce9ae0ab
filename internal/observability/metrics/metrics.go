package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type requestKey struct {
	handler string
	method  string
	code    string
}

type histogram struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type collector struct {
	mu             sync.Mutex
	requests       map[requestKey]uint64
	messages       map[string]uint64
	messageLatency map[string]*histogram
	providerErrors map[string]uint64
}

var defaultCollector = &collector{
	requests:       make(map[requestKey]uint64),
	messages:       make(map[string]uint64),
	messageLatency: make(map[string]*histogram),
	providerErrors: make(map[string]uint64),
}

// ObserveHTTPRequest records metrics about an HTTP request lifecycle.
func ObserveHTTPRequest(handler, method string, status int) {
	defaultCollector.mu.Lock()
	defer defaultCollector.mu.Unlock()
	key := requestKey{handler: handler, method: method, code: strconv.Itoa(status)}
	defaultCollector.requests[key]++
}

// ObserveMessage records one processed inbound message: the classified
// intent and the end-to-end handling latency.
func ObserveMessage(intent string, duration time.Duration) {
	defaultCollector.mu.Lock()
	defer defaultCollector.mu.Unlock()
	defaultCollector.messages[intent]++
	hist := defaultCollector.messageLatency[intent]
	if hist == nil {
		hist = newHistogram()
		defaultCollector.messageLatency[intent] = hist
	}
	hist.observe(duration.Seconds())
}

// ObserveProviderError counts a failed call to an upstream provider.
func ObserveProviderError(provider string) {
	defaultCollector.mu.Lock()
	defer defaultCollector.mu.Unlock()
	defaultCollector.providerErrors[provider]++
}

func newHistogram() *histogram {
	buckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) observe(value float64) {
	h.count++
	h.sum += value
	for idx, bound := range h.buckets {
		if value <= bound {
			for i := idx; i < len(h.counts); i++ {
				h.counts[i]++
			}
			break
		}
	}
}

// Handler exposes the metrics in Prometheus text exposition format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_, _ = fmt.Fprint(w, defaultCollector.render())
	})
}

func (c *collector) render() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var builder strings.Builder
	builder.Grow(1024)

	builder.WriteString("# HELP neolink_http_requests_total Total number of HTTP requests processed.\n")
	builder.WriteString("# TYPE neolink_http_requests_total counter\n")
	reqKeys := make([]requestKey, 0, len(c.requests))
	for key := range c.requests {
		reqKeys = append(reqKeys, key)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].handler == reqKeys[j].handler {
			if reqKeys[i].method == reqKeys[j].method {
				return reqKeys[i].code < reqKeys[j].code
			}
			return reqKeys[i].method < reqKeys[j].method
		}
		return reqKeys[i].handler < reqKeys[j].handler
	})
	for _, key := range reqKeys {
		builder.WriteString(fmt.Sprintf("neolink_http_requests_total{handler=\"%s\",method=\"%s\",code=\"%s\"} %d\n",
			escape(key.handler), escape(key.method), escape(key.code), c.requests[key]))
	}

	builder.WriteString("# HELP neolink_messages_total Total number of inbound messages by classified intent.\n")
	builder.WriteString("# TYPE neolink_messages_total counter\n")
	for _, intent := range sortedKeys(c.messages) {
		builder.WriteString(fmt.Sprintf("neolink_messages_total{intent=\"%s\"} %d\n",
			escape(intent), c.messages[intent]))
	}

	builder.WriteString("# HELP neolink_message_duration_seconds Message handling duration in seconds.\n")
	builder.WriteString("# TYPE neolink_message_duration_seconds histogram\n")
	intents := make([]string, 0, len(c.messageLatency))
	for intent := range c.messageLatency {
		intents = append(intents, intent)
	}
	sort.Strings(intents)
	for _, intent := range intents {
		hist := c.messageLatency[intent]
		for idx, bound := range hist.buckets {
			builder.WriteString(fmt.Sprintf("neolink_message_duration_seconds_bucket{intent=\"%s\",le=\"%s\"} %d\n",
				escape(intent), formatFloat(bound), hist.counts[idx]))
		}
		builder.WriteString(fmt.Sprintf("neolink_message_duration_seconds_bucket{intent=\"%s\",le=\"+Inf\"} %d\n",
			escape(intent), hist.count))
		builder.WriteString(fmt.Sprintf("neolink_message_duration_seconds_sum{intent=\"%s\"} %s\n",
			escape(intent), formatFloat(hist.sum)))
		builder.WriteString(fmt.Sprintf("neolink_message_duration_seconds_count{intent=\"%s\"} %d\n",
			escape(intent), hist.count))
	}

	builder.WriteString("# HELP neolink_provider_errors_total Total number of failed upstream provider calls.\n")
	builder.WriteString("# TYPE neolink_provider_errors_total counter\n")
	for _, provider := range sortedKeys(c.providerErrors) {
		builder.WriteString(fmt.Sprintf("neolink_provider_errors_total{provider=\"%s\"} %d\n",
			escape(provider), c.providerErrors[provider]))
	}

	return builder.String()
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func escape(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "\n", "")
	return value
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
