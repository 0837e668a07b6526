package htmlpng

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHistorySize is how many renders the service remembers
const DefaultHistorySize = 100

// StoredRequest describes one render made through the MCP tools
type StoredRequest struct {
	ID          string         `json:"id"`
	ContextName string         `json:"context_name"`
	URL         string         `json:"url,omitempty"`
	InputHTML   string         `json:"input_html,omitempty"`
	Settings    RenderSettings `json:"settings"`
	Resize      string         `json:"resize,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Duration    time.Duration  `json:"duration"`
	RequestType string         `json:"request_type"` // render_url, render_html
	Error       string         `json:"error,omitempty"`
	Screenshot  []byte         `json:"-"`
}

// RequestHistoryManager keeps the most recent renders in memory
type RequestHistoryManager struct {
	requests map[string]*StoredRequest
	order    []string
	limit    int
	mutex    sync.RWMutex
}

func NewRequestHistoryManager(limit int) *RequestHistoryManager {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &RequestHistoryManager{
		requests: make(map[string]*StoredRequest),
		limit:    limit,
	}
}

// StoreRequest stores a render, evicting the oldest one past the limit
func (m *RequestHistoryManager) StoreRequest(request *StoredRequest) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.requests[request.ID]; !exists {
		m.order = append(m.order, request.ID)
	}
	m.requests[request.ID] = request

	for len(m.order) > m.limit {
		delete(m.requests, m.order[0])
		m.order = m.order[1:]
	}
}

func (m *RequestHistoryManager) GetRequest(requestID string) (*StoredRequest, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	request, exists := m.requests[requestID]
	return request, exists
}

// GetLastRequest returns the most recent render of a context
func (m *RequestHistoryManager) GetLastRequest(contextName string, configManager *ContextConfigManager) (*StoredRequest, bool) {
	context, exists := configManager.GetContext(contextName)
	if !exists || context.LastRequestID == "" {
		return nil, false
	}

	return m.GetRequest(context.LastRequestID)
}

// NewRequestHistoryEntry builds the history record of a finished render
func NewRequestHistoryEntry(contextName, url, inputHTML, requestType string, settings RenderSettings, resize string, screenshot []byte, startTime time.Time, err error) *StoredRequest {
	entry := &StoredRequest{
		ID:          GenerateRequestID(),
		ContextName: contextName,
		URL:         url,
		InputHTML:   inputHTML,
		Settings:    settings,
		Resize:      resize,
		Timestamp:   startTime,
		Duration:    time.Since(startTime),
		RequestType: requestType,
		Screenshot:  screenshot,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}

func GenerateRequestID() string {
	return uuid.NewString()
}
