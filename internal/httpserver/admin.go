package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bot-pedidos/internal/repo"
)

const defaultListLimit = 50

func (s *Server) registerAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/orders", s.handleListOrders)
	mux.HandleFunc("GET /admin/orders/{ref}", s.handleGetOrder)
	mux.HandleFunc("PATCH /admin/orders/{ref}/status", s.handleUpdateOrderStatus)
	mux.HandleFunc("GET /admin/users", s.handleListUsers)
	mux.HandleFunc("GET /admin/users/{phone}/orders", s.handleUserOrders)
	mux.HandleFunc("GET /admin/users/{phone}/messages", s.handleUserMessages)
	mux.HandleFunc("GET /admin/products", s.handleListProducts)
	mux.HandleFunc("PATCH /admin/products/{id}/availability", s.handleProductAvailability)
	mux.HandleFunc("GET /admin/stats", s.handleStats)
	mux.HandleFunc("POST /admin/reload-knowledge", s.handleReloadKnowledge)
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	return limit
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !repo.ValidOrderStatus(status) {
		writeError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	orders, err := s.deps.Repository.ListOrders(r.Context(), status, parseLimit(r))
	if err != nil {
		s.logger.Error("list orders failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list orders failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.deps.Repository.GetOrderByRef(r.Context(), r.PathValue("ref"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.Error("get order failed", "error", err)
		writeError(w, http.StatusInternalServerError, "get order failed")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if !repo.ValidOrderStatus(body.Status) {
		writeError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	order, err := s.deps.Repository.UpdateOrderStatus(r.Context(), r.PathValue("ref"), body.Status)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, repo.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			s.logger.Error("update order status failed", "error", err)
			writeError(w, http.StatusInternalServerError, "update order status failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Repository.ListUsers(r.Context(), parseLimit(r))
	if err != nil {
		s.logger.Error("list users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list users failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
}

func (s *Server) handleUserOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.deps.Repository.ListOrdersByPhone(r.Context(), r.PathValue("phone"))
	if err != nil {
		s.logger.Error("list user orders failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list user orders failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
}

func (s *Server) handleUserMessages(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Repository.GetUserByPhone(r.Context(), r.PathValue("phone"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error("get user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "get user failed")
		return
	}

	messages, err := s.deps.Repository.ListRecentMessages(r.Context(), user.ID, parseLimit(r))
	if err != nil {
		s.logger.Error("list messages failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list messages failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "messages": messages, "count": len(messages)})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	onlyAvailable := r.URL.Query().Get("available") == "true"
	products, err := s.deps.Repository.ListProducts(r.Context(), r.URL.Query().Get("category"), onlyAvailable)
	if err != nil {
		s.logger.Error("list products failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list products failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products, "count": len(products)})
}

func (s *Server) handleProductAvailability(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := s.deps.Repository.SetProductAvailability(r.Context(), r.PathValue("id"), body.Available); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		s.logger.Error("set product availability failed", "error", err)
		writeError(w, http.StatusInternalServerError, "set product availability failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": r.PathValue("id"), "available": body.Available})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	orderStats, err := s.deps.Repository.OrderStats(r.Context())
	if err != nil {
		s.logger.Error("order stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "order stats failed")
		return
	}

	since := time.Now().AddDate(0, 0, -7)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be YYYY-MM-DD")
			return
		}
		since = parsed
	}

	messageStats, err := s.deps.Repository.MessageStats(r.Context(), since)
	if err != nil {
		s.logger.Error("message stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "message stats failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orders":   orderStats,
		"messages": messageStats,
		"since":    since.Format("2006-01-02"),
	})
}

func (s *Server) handleReloadKnowledge(w http.ResponseWriter, r *http.Request) {
	if s.deps.Knowledge == nil {
		writeError(w, http.StatusServiceUnavailable, "knowledge base unavailable")
		return
	}
	if err := s.deps.Knowledge.Reload(); err != nil {
		s.logger.Error("knowledge reload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "knowledge reload failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "entries": s.deps.Knowledge.Len()})
}
