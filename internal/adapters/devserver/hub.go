package devserver

import (
	"bufio"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	eventReload = "reload"
	eventCSS    = "css"

	clientBuffer      = 8
	heartbeatInterval = 30 * time.Second
)

// Event is one live-reload message sent to browsers.
type Event struct {
	Type  string   `json:"type"`
	Paths []string `json:"paths,omitempty"`
}

// Hub manages server-sent event clients and fans reload events out to them.
type Hub struct {
	mu      sync.Mutex
	nextID  int
	clients map[int]*hubClient
	closed  bool

	clientsGauge prometheus.Gauge
	broadcasts   *prometheus.CounterVec
	dropped      prometheus.Counter
}

type hubClient struct {
	ch   chan []byte
	done chan struct{}
}

// NewHub creates a Hub and registers its metrics with reg.
func NewHub(reg prometheus.Registerer) *Hub {
	h := &Hub{
		clients: make(map[int]*hubClient),
		clientsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sitepress",
			Name:      "livereload_clients",
			Help:      "Number of connected live-reload clients",
		}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitepress",
			Name:      "livereload_broadcasts_total",
			Help:      "Live-reload events sent, by type",
		}, []string{"type"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sitepress",
			Name:      "livereload_dropped_clients_total",
			Help:      "Clients dropped because they did not keep up",
		}),
	}
	if reg != nil {
		reg.MustRegister(h.clientsGauge, h.broadcasts, h.dropped)
	}
	return h
}

// ServeHTTP implements the SSE endpoint.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	id, client, ok := h.addClient()
	if !ok {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.removeClient(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(": connected\n\n") {
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			if !send(": ping\n\n") {
				return
			}
		case data := <-client.ch:
			if !send("data: " + string(data) + "\n\n") {
				return
			}
		}
	}
}

// Broadcast sends e to every client. Clients whose buffer is full are dropped.
func (h *Hub) Broadcast(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	var slow []int
	for id, c := range h.clients {
		select {
		case c.ch <- data:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.Unlock()

	h.broadcasts.WithLabelValues(e.Type).Inc()
	for _, id := range slow {
		h.dropped.Inc()
		h.removeClient(id)
	}
}

// Shutdown disconnects every client and rejects new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		close(c.done)
		delete(h.clients, id)
	}
	h.clientsGauge.Set(0)
}

func (h *Hub) addClient() (int, *hubClient, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, nil, false
	}
	c := &hubClient{ch: make(chan []byte, clientBuffer), done: make(chan struct{})}
	id := h.nextID
	h.nextID++
	h.clients[id] = c
	h.clientsGauge.Set(float64(len(h.clients)))
	return id, c, true
}

func (h *Hub) removeClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
		h.clientsGauge.Set(float64(len(h.clients)))
	}
}
