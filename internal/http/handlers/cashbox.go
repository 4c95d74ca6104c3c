package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/http/middleware"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/services"
)

func cashboxService(c *gin.Context) services.CashboxService {
	return services.CashboxService{
		Repo:      repositories.CashboxRepo{},
		RequestID: middleware.GetRequestID(c),
	}
}

type expenseRequest struct {
	Concept       string  `json:"concept"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}

// POST /api/cashbox/expenses
// Los ingresos entran solos con cada venta; aquí solo se capturan egresos.
func RecordExpense(c *gin.Context) {
	var req expenseRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	userID := middleware.GetUserID(c)
	if err := cashboxService(c).RecordExpense(userID, req.Concept, req.Amount, req.PaymentMethod); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "egreso registrado"})
}

// GET /api/cashbox/balance
func GetCashboxBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	balance, err := cashboxService(c).Balance(userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// GET /api/cashbox/entries
// Movimientos de la ventana abierta del cajero autenticado.
func GetCashboxEntries(c *gin.Context) {
	userID := middleware.GetUserID(c)
	repo := repositories.CashboxRepo{}
	entries, err := repo.OpenEntries(userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de movimientos", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// POST /api/cashbox/cutoff
func CashboxCutoff(c *gin.Context) {
	userID := middleware.GetUserID(c)
	cutoff, err := cashboxService(c).Cutoff(userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "corte de caja realizado", "cutoff": cutoff})
}

// GET /api/cashbox/cutoffs
func GetCashboxCutoffs(c *gin.Context) {
	userID := middleware.GetUserID(c)
	repo := repositories.CashboxRepo{}
	cutoffs, err := repo.ListCutoffs(userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de cortes", err)
		return
	}
	c.JSON(http.StatusOK, cutoffs)
}
