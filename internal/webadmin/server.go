package webadmin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hvtran/accounting-bot/constants"
	"github.com/hvtran/accounting-bot/internal/common"
	"github.com/hvtran/accounting-bot/internal/export"
	"github.com/hvtran/accounting-bot/internal/repository"
)

// Server is the JSON API behind the accounting admin panel.
type Server struct {
	cfg      common.AdminConfig
	invoices *repository.InvoiceRepository
	users    *repository.UserRepository
	exporter *export.Service
	logger   *slog.Logger
}

func NewServer(cfg common.AdminConfig, invoices *repository.InvoiceRepository,
	users *repository.UserRepository, exporter *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, invoices: invoices, users: users, exporter: exporter, logger: logger}
}

// Router builds the gin engine with all admin routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/api/login", s.loginHandler)

	auth := r.Group("/api")
	auth.Use(s.authMiddleware())
	{
		auth.GET("/dashboard", s.dashboardHandler)
		auth.GET("/invoices", s.listInvoicesHandler)
		auth.GET("/invoices/:id", s.getInvoiceHandler)
		auth.POST("/invoices/:id/approve", s.approveInvoiceHandler)
		auth.POST("/invoices/:id/reject", s.rejectInvoiceHandler)
		auth.GET("/users", s.listUsersHandler)
		auth.POST("/users/:id/role", s.setRoleHandler)
		auth.GET("/export.xlsx", s.exportHandler)
	}
	return r
}

// Run serves the admin API until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("admin.http.listen", "addr", s.cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) dashboardHandler(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := s.invoices.CountAll(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	pending, _ := s.invoices.CountByStatus(ctx, constants.StatusPending)
	approved, _ := s.invoices.CountByStatus(ctx, constants.StatusApproved)
	rejected, _ := s.invoices.CountByStatus(ctx, constants.StatusRejected)
	totalAmount, _ := s.invoices.TotalAmount(ctx)
	approvedAmount, _ := s.invoices.TotalAmountByStatus(ctx, constants.StatusApproved)
	users, _ := s.users.List(ctx)
	roles := map[string]int{}
	for _, u := range users {
		roles[string(u.Role)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": gin.H{
			"total":    total,
			"pending":  pending,
			"approved": approved,
			"rejected": rejected,
		},
		"amounts": gin.H{
			"total":    totalAmount,
			"approved": approvedAmount,
			"pending":  totalAmount - approvedAmount,
		},
		"user_count": len(users),
		"roles":      roles,
		"categories": constants.AllCategories(),
	})
}

func (s *Server) listInvoicesHandler(c *gin.Context) {
	ctx := c.Request.Context()
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	status := c.Query("status")
	switch status {
	case "":
		invs, err := s.invoices.Recent(ctx, limit)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoices": invs})
	case string(constants.StatusPending), string(constants.StatusApproved), string(constants.StatusRejected):
		invs, err := s.invoices.ListByStatus(ctx, constants.InvoiceStatus(status), limit)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoices": invs})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, approved or rejected"})
	}
}

func (s *Server) getInvoiceHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}
	inv, err := s.invoices.GetByID(c.Request.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (s *Server) approveInvoiceHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	err = s.invoices.Approve(c.Request.Context(), id, 0, s.adminUsername(c))
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "invoice not found or no longer pending"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info("admin.invoice.approved", "invoice_id", id)
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

func (s *Server) rejectInvoiceHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason is required"})
		return
	}

	err = s.invoices.Reject(c.Request.Context(), id, 0, s.adminUsername(c), req.Reason)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "invoice not found or no longer pending"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info("admin.invoice.rejected", "invoice_id", id)
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

func (s *Server) listUsersHandler(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) setRoleHandler(c *gin.Context) {
	telegramID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram user id"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}
	role := constants.Role(req.Role)
	if role != constants.RoleUser && role != constants.RoleAccountant && role != constants.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be user, accountant or admin"})
		return
	}

	err = s.users.UpdateRole(c.Request.Context(), telegramID, role)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"telegram_user_id": telegramID, "role": role})
}

func (s *Server) exportHandler(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = &t
	}

	data, err := s.exporter.ExportInvoicesXLSX(c.Request.Context(), from, to)
	if err != nil {
		s.fail(c, err)
		return
	}

	filename := fmt.Sprintf("hoa_don_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) adminUsername(c *gin.Context) string {
	if v, ok := c.Get("username"); ok {
		if name, ok := v.(string); ok && name != "" {
			return name
		}
	}
	return s.cfg.Username
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("admin.http.error", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
