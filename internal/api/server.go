package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"NeoLink/internal/agent"
	"NeoLink/internal/history"
	"NeoLink/internal/observability/metrics"
	"NeoLink/pkg/logger"
)

// Config 控制 HTTP 服务的监听与 Webhook 校验行为。
type Config struct {
	Addr string `json:"addr"`
	// TwilioAuthToken 配置后会对 /webhook 请求做签名校验。
	TwilioAuthToken string `json:"-"`
	// PublicURL 是 Twilio 回调看到的外部地址，用于签名计算。
	PublicURL string `json:"public_url"`
}

// Server 负责暴露 Webhook 与管理接口。
type Server struct {
	cfg        Config
	agent      *agent.Agent
	repository history.Repository
}

// NewServer 构造 API 服务实例。repo 可以为 nil，此时消息
// 查询接口返回空列表。
func NewServer(cfg Config, ag *agent.Agent, repo history.Repository) *Server {
	return &Server{cfg: cfg, agent: ag, repository: repo}
}

// Router 构建完整的路由表。
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(observeRequests)

	r.Post("/webhook", s.requireTwilioSignature(s.handleWebhook))
	r.Get("/health", s.handleHealth)
	r.Get("/test", s.handleTest)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/messages", s.handleCreateMessage)
		r.Get("/messages", s.handleListMessages)
	})
	return r
}

// Start 启动 HTTP 服务，直到上下文取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.L().Info("HTTP 服务已启动", slog.String("addr", s.cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// handleWebhook 处理 Twilio 的 WhatsApp 回调，返回 TwiML。
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "无法解析表单", http.StatusBadRequest)
		return
	}
	from := r.PostFormValue("From")
	body := strings.TrimSpace(r.PostFormValue("Body"))
	if from == "" {
		http.Error(w, "缺少 From 参数", http.StatusBadRequest)
		return
	}

	reply := s.agent.HandleMessage(r.Context(), from, body)
	writeTwiML(w, reply)
}

// handleHealth 返回服务健康状态与能力清单。
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"agent":  "NeoLink DeFi WhatsApp Agent",
		"features": []string{
			"Real blockchain data",
			"Live market prices",
			"Natural conversation",
			"DeFi education",
			"Gas fee tracking",
		},
		"version": "1.0.0",
	})
}

// handleTest 是开发期的连通性测试接口。
func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "NeoLink DeFi WhatsApp Agent is running!",
		"endpoints": map[string]string{
			"webhook": "/webhook",
			"health":  "/health",
			"test":    "/test",
		},
	})
}

type createMessageRequest struct {
	UserKey string `json:"user_key"`
	Body    string `json:"body"`
}

type createMessageResponse struct {
	UserKey string `json:"user_key"`
	Reply   string `json:"reply"`
}

// handleCreateMessage 以 JSON 方式驱动一次消息处理，便于联调。
func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "无法解析请求体", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.UserKey) == "" {
		http.Error(w, "user_key 不能为空", http.StatusBadRequest)
		return
	}

	reply := s.agent.HandleMessage(r.Context(), req.UserKey, req.Body)
	writeJSON(w, http.StatusOK, createMessageResponse{UserKey: req.UserKey, Reply: reply})
}

// handleListMessages 查询最近的会话记录。
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	if s.repository == nil {
		writeJSON(w, http.StatusOK, []history.Record{})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit 参数不合法", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := s.repository.ListRecent(r.Context(), r.URL.Query().Get("user_key"), limit)
	if err != nil {
		logger.L().Error("查询会话记录失败", slog.Any("error", err))
		http.Error(w, "查询会话记录失败", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// observeRequests 记录每个请求的计数指标。
func observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		metrics.ObserveHTTPRequest(r.URL.Path, r.Method, ww.Status())
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
