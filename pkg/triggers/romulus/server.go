package romulus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/romulus-live/romulus-connect/pkg/protocol"
)

var (
	globalServerManager *ServerManager
	once                sync.Once
)

// Handler routes inbound webhook deliveries for one registered path to the
// trigger's callback.
type Handler struct {
	Path     string
	Callback protocol.TriggerCallback
	Logger   *slog.Logger
}

// ServerManager owns the single HTTP server shared by every webhook trigger
// in the process. Triggers register paths; deliveries are dispatched by
// exact path match.
type ServerManager struct {
	app      *fiber.App
	handlers map[string]*Handler
	mu       sync.RWMutex
	logger   *slog.Logger
	port     int
	started  bool
	done     chan struct{}
	doneOnce sync.Once
}

func GetServerManager(port int, logger *slog.Logger) *ServerManager {
	once.Do(func() {
		globalServerManager = NewServerManager(port, logger)
	})

	return globalServerManager
}

func NewServerManager(port int, logger *slog.Logger) *ServerManager {
	manager := &ServerManager{
		handlers: make(map[string]*Handler),
		logger:   logger.With("module", "romulus_webhook_server"),
		port:     port,
		done:     make(chan struct{}),
	}

	manager.app = fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	manager.app.Post("/*", manager.handleWebhook)

	return manager
}

func SetGlobalServerManager(manager *ServerManager) {
	globalServerManager = manager
}

func GetGlobalServerManager() *ServerManager {
	return globalServerManager
}

// App exposes the underlying fiber app, used by tests to exercise handlers
// without binding a port.
func (sm *ServerManager) App() *fiber.App {
	return sm.app
}

func (sm *ServerManager) RegisterWebhook(ctx context.Context, path string, handler *Handler) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.handlers[path]; exists {
		return fmt.Errorf("webhook path %s already registered", path)
	}

	sm.handlers[path] = handler
	sm.logger.InfoContext(ctx, "Registered webhook handler", "path", path)

	return nil
}

func (sm *ServerManager) UnregisterWebhook(ctx context.Context, path string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.handlers[path]; exists {
		delete(sm.handlers, path)
		sm.logger.InfoContext(ctx, "Unregistered webhook handler", "path", path)
	}
}

func (sm *ServerManager) Start(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.started {
		return nil
	}

	addr := fmt.Sprintf(":%d", sm.port)

	go func() {
		sm.logger.Info("Starting webhook HTTP server", "addr", addr)

		err := sm.app.Listen(addr)
		if err != nil {
			sm.logger.Error("Webhook server stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()

		err := sm.Stop(context.Background())
		if err != nil {
			sm.logger.Error("Failed to stop webhook server", "error", err)
		}
	}()

	sm.started = true

	return nil
}

func (sm *ServerManager) Stop(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.started {
		return nil
	}

	sm.logger.Info("Stopping webhook server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := sm.app.ShutdownWithContext(shutdownCtx)

	sm.started = false
	sm.doneOnce.Do(func() {
		close(sm.done)
	})

	return err
}

func (sm *ServerManager) Done() <-chan struct{} {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.done
}

func (sm *ServerManager) HandlerCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.handlers)
}

// handleWebhook passes the delivery body through to the registered callback
// unmodified. Inbound payloads are not validated against any schema; the
// vendor owns their shape.
func (sm *ServerManager) handleWebhook(c fiber.Ctx) error {
	sm.mu.RLock()
	handler, exists := sm.handlers[c.Path()]
	sm.mu.RUnlock()

	if !exists {
		sm.logger.Warn("No handler found for webhook path", "path", c.Path())

		problem := problems.NewStatusProblem(fiber.StatusNotFound).
			WithInstance(c.Path()).
			WithType("webhook_not_found").
			WithDetail("no trigger is registered for this path")

		return c.Status(fiber.StatusNotFound).JSON(problem)
	}

	handler.Logger.Info("Received webhook delivery", "path", c.Path())

	data := decodeDeliveryBody(c.Body())

	go func() {
		err := handler.Callback(context.Background(), data)
		if err != nil {
			handler.Logger.Error("Error handling webhook delivery", "error", err)
		}
	}()

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "webhook received",
	})
}

func decodeDeliveryBody(body []byte) map[string]any {
	if len(body) == 0 {
		return map[string]any{}
	}

	var payload any

	err := json.Unmarshal(body, &payload)
	if err != nil {
		return map[string]any{"body": string(body)}
	}

	if object, ok := payload.(map[string]any); ok {
		return object
	}

	return map[string]any{"body": payload}
}

// ResetGlobalManager resets the global manager (for testing purposes).
func ResetGlobalManager() {
	once = sync.Once{}
	globalServerManager = nil
}
