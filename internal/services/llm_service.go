// internal/services/llm_service.go
package services

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/veospark/veospark-server/internal/config"
	apperrors "github.com/veospark/veospark-server/internal/errors"
	"github.com/veospark/veospark-server/internal/llm"
	"github.com/veospark/veospark-server/internal/utils"
)

var ErrLLMNotReady = errors.New("llm service not ready")

var providerDefaultModels = map[string]string{
	"google":     "gemini-2.5-flash",
	"openrouter": "google/gemini-2.5-flash",
}

// LLMService wraps the configured provider behind a single facade with a
// response cache and runtime reconfiguration.
type LLMService struct {
	providerMutex      sync.RWMutex
	provider           llm.Provider
	providerName       string
	cache              *LLMCache
	isReady            bool
	readyState         string
	activeDefaultModel string
}

type LLMCache struct {
	cache      map[string]*LLMCacheEntry
	mutex      sync.RWMutex
	expiration time.Duration
}

type LLMCacheEntry struct {
	Response  *llm.CompletionResponse
	CreatedAt time.Time
}

// NewLLMService creates the service from the current configuration.
// Initialization problems produce a not-ready service rather than an
// error, so the server can start without a configured key.
func NewLLMService() (*LLMService, error) {
	service := createBaseLLMService()

	cfg := config.GetCurrentConfig()
	if cfg == nil {
		service.readyState = "Failed to retrieve configuration"
		return service, nil
	}

	if cfg.LLMProvider == "" || (cfg.LLMConfig != nil && cfg.LLMConfig["api_key"] == "") {
		service.readyState = "API key not configured"
		return service, nil
	}

	provider, err := llm.GetProvider(cfg.LLMProvider, cfg.LLMConfig)
	if err != nil {
		service.readyState = fmt.Sprintf("Initialization failed: %v", err)
		return service, nil
	}

	service.provider = provider
	service.providerName = cfg.LLMProvider
	service.activeDefaultModel = extractDefaultModel(cfg.LLMConfig)
	service.isReady = true
	service.readyState = "Ready"

	return service, nil
}

// NewEmptyLLMService creates a standby service with no provider.
func NewEmptyLLMService() *LLMService {
	service := createBaseLLMService()
	service.providerName = "empty"
	service.readyState = "Standby mode - configure an API key in settings"
	return service
}

func createBaseLLMService() *LLMService {
	return &LLMService{
		isReady:    false,
		readyState: "Uninitialized",
		cache: &LLMCache{
			cache:      make(map[string]*LLMCacheEntry),
			expiration: 30 * time.Minute,
		},
	}
}

// IsReady reports whether the service can serve completions.
func (s *LLMService) IsReady() bool {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()

	if s.provider != nil && s.isReady {
		return true
	}

	cfg := config.GetCurrentConfig()
	if cfg == nil || cfg.LLMProvider == "" {
		return false
	}
	if cfg.LLMConfig == nil || cfg.LLMConfig["api_key"] == "" {
		return false
	}
	return true
}

// GetReadyState returns a human-readable readiness description.
func (s *LLMService) GetReadyState() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()

	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return "Cannot get configuration"
	}
	if cfg.LLMProvider == "" {
		return "LLM provider not configured"
	}
	if cfg.LLMConfig == nil || cfg.LLMConfig["api_key"] == "" {
		return "API key not configured"
	}
	if s.provider != nil && s.isReady {
		return "Ready"
	}
	return "Waiting for initialization"
}

// GetProviderStatus returns readiness plus a readable description.
func (s *LLMService) GetProviderStatus() (bool, string) {
	if s == nil {
		return false, "LLM service not initialized"
	}
	if s.IsReady() {
		return true, "Ready"
	}
	return false, s.GetReadyState()
}

// UpdateProvider switches the active provider at runtime and clears the
// response cache.
func (s *LLMService) UpdateProvider(providerName string, providerConfig map[string]string) error {
	provider, err := llm.GetProvider(providerName, providerConfig)
	if err != nil {
		s.providerMutex.Lock()
		s.isReady = false
		s.readyState = fmt.Sprintf("Configuration failed: %v", err)
		s.providerMutex.Unlock()
		return err
	}

	s.providerMutex.Lock()
	defer s.providerMutex.Unlock()

	s.provider = provider
	s.providerName = providerName
	s.activeDefaultModel = extractDefaultModel(providerConfig)
	s.isReady = true
	s.readyState = "Ready"

	s.cache = &LLMCache{
		cache:      make(map[string]*LLMCacheEntry),
		expiration: 30 * time.Minute,
	}

	return nil
}

// GetProvider returns the active provider, or nil when not configured.
func (s *LLMService) GetProvider() llm.Provider {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.provider
}

// GetProviderName returns the active provider name.
func (s *LLMService) GetProviderName() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.providerName
}

// GetDefaultModel returns the model used when a request names none.
func (s *LLMService) GetDefaultModel() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.resolveModelLocked("")
}

func (s *LLMService) resolveModelLocked(requestedModel string) string {
	if requestedModel != "" {
		return requestedModel
	}
	if s.activeDefaultModel != "" {
		return s.activeDefaultModel
	}
	if model, ok := providerDefaultModels[s.providerName]; ok {
		return model
	}
	return ""
}

func extractDefaultModel(cfg map[string]string) string {
	if cfg == nil {
		return ""
	}
	if model, ok := cfg["default_model"]; ok {
		return model
	}
	return ""
}

// CompleteText submits a completion request to the active provider,
// serving identical prompts from the cache.
func (s *LLMService) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.providerMutex.RLock()
	if !s.isReady || s.provider == nil {
		readyState := s.readyState
		s.providerMutex.RUnlock()
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("llm service not ready: %s", readyState), ErrLLMNotReady)
	}
	provider := s.provider
	req.Model = s.resolveModelLocked(req.Model)
	s.providerMutex.RUnlock()

	cacheKey := s.generateCacheKey(req.Prompt, req.SystemPrompt, req.Model)

	if cached := s.checkCache(cacheKey); cached != nil {
		utils.GetLogger().Debug("llm cache hit", map[string]interface{}{
			"cache_key_prefix": cacheKey[:8],
		})
		return cached, nil
	}

	resp, err := provider.CompleteText(ctx, req)
	if err != nil {
		return nil, apperrors.NewUpstreamError("llm completion failed", err)
	}

	s.addToCache(cacheKey, resp)

	return resp, nil
}

func (s *LLMService) generateCacheKey(prompt, systemPrompt, model string) string {
	s.providerMutex.RLock()
	providerName := s.providerName
	s.providerMutex.RUnlock()

	hashInput := fmt.Sprintf("%s:::%s:::%s:::%s", prompt, systemPrompt, model, providerName)
	h := md5.New()
	h.Write([]byte(hashInput))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (s *LLMService) checkCache(key string) *llm.CompletionResponse {
	c := s.cache
	if c == nil {
		return nil
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[key]
	if !exists {
		return nil
	}
	if time.Since(entry.CreatedAt) > c.expiration {
		return nil
	}
	return entry.Response
}

func (s *LLMService) addToCache(key string, response *llm.CompletionResponse) {
	c := s.cache
	if c == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[key] = &LLMCacheEntry{
		Response:  response,
		CreatedAt: time.Now(),
	}

	if len(c.cache) > 1000 {
		c.cleanupOldest(100)
	}
}

func (c *LLMCache) cleanupOldest(count int) {
	type keyAge struct {
		key string
		age time.Time
	}

	entries := make([]keyAge, 0, len(c.cache))
	for k, v := range c.cache {
		entries = append(entries, keyAge{k, v.CreatedAt})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].age.Before(entries[j].age)
	})

	maxToDelete := min(count, len(entries))
	for i := 0; i < maxToDelete; i++ {
		delete(c.cache, entries[i].key)
	}
}
