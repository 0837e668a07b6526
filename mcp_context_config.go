package htmlpng

import (
	"sync"
	"time"
)

const DefaultContextName = "default"

// RenderContext is a named set of render settings used by the MCP tools
type RenderContext struct {
	Name           string
	Settings       RenderSettings
	LastRequestID  string
	RequestHistory []string // request IDs in chronological order
	CreatedAt      time.Time
	LastUsed       time.Time
}

// ContextConfigManager manages render contexts
type ContextConfigManager struct {
	contexts map[string]*RenderContext
	mutex    sync.RWMutex
}

func NewContextConfigManager() *ContextConfigManager {
	return &ContextConfigManager{
		contexts: make(map[string]*RenderContext),
	}
}

// CreateOrUpdateContext stores config under name, keeping the request history
// of an existing context
func (m *ContextConfigManager) CreateOrUpdateContext(name string, config *RenderContext) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if name == "" {
		name = DefaultContextName
	}

	if existing, exists := m.contexts[name]; exists {
		config.RequestHistory = existing.RequestHistory
		config.LastRequestID = existing.LastRequestID
		config.CreatedAt = existing.CreatedAt
	} else {
		config.CreatedAt = time.Now()
		config.RequestHistory = make([]string, 0)
	}

	config.Name = name
	config.LastUsed = time.Now()
	m.contexts[name] = config
}

// GetContext returns a copy of the named context and marks it as used
func (m *ContextConfigManager) GetContext(name string) (RenderContext, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if name == "" {
		name = DefaultContextName
	}

	context, exists := m.contexts[name]
	if !exists {
		return RenderContext{}, false
	}

	context.LastUsed = time.Now()

	snapshot := *context
	snapshot.RequestHistory = append([]string(nil), context.RequestHistory...)
	return snapshot, true
}

// ListContexts returns all contexts with their basic info, keyed by name
func (m *ContextConfigManager) ListContexts() map[string]interface{} {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make(map[string]interface{})
	for name, context := range m.contexts {
		result[name] = map[string]interface{}{
			"created_at":    context.CreatedAt,
			"last_used":     context.LastUsed,
			"request_count": len(context.RequestHistory),
			"viewport":      context.Settings.Viewport.String(),
			"full_page":     context.Settings.FullPage,
			"timeout":       context.Settings.TimeoutSeconds,
			"wait":          context.Settings.WaitSeconds,
			"domains":       context.Settings.DomainWhitelist,
			"headers":       context.Settings.Headers,
			"stealth":       context.Settings.Stealth,
		}
	}
	return result
}

// AddRequestToHistory appends a request ID to the context's history
func (m *ContextConfigManager) AddRequestToHistory(contextName string, requestID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if contextName == "" {
		contextName = DefaultContextName
	}

	if context, exists := m.contexts[contextName]; exists {
		context.RequestHistory = append(context.RequestHistory, requestID)
		context.LastRequestID = requestID
		context.LastUsed = time.Now()
	}
}
