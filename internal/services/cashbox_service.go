package services

import (
	"fmt"
	"strings"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/utils"
)

// CashboxService lleva la caja del operador: ingresos por ventas, egresos sueltos y
// cortes de caja que cierran la ventana abierta.
type CashboxService struct {
	Repo      repositories.CashboxRepo
	RequestID string
}

func (s CashboxService) RecordIncome(userID int64, concept string, amount float64, method, refType string, refID int64) error {
	return s.record(userID, models.CashboxIncome, concept, amount, method, refType, refID)
}

func (s CashboxService) RecordExpense(userID int64, concept string, amount float64, method string) error {
	return s.record(userID, models.CashboxExpense, concept, amount, method, "", 0)
}

func (s CashboxService) record(userID int64, kind, concept string, amount float64, method, refType string, refID int64) error {
	if userID <= 0 {
		return domain.ValidationError{Field: "user_id", Msg: "id inválido"}
	}
	if amount <= 0 {
		return domain.ValidationError{Field: "amount", Msg: "debe ser mayor a cero"}
	}
	if strings.TrimSpace(concept) == "" {
		return domain.ValidationError{Field: "concept", Msg: "concepto requerido"}
	}
	id, err := s.Repo.Insert(models.CashboxEntry{
		UserID:        userID,
		Kind:          kind,
		Concept:       concept,
		Amount:        amount,
		PaymentMethod: method,
		RefType:       refType,
		RefID:         refID,
	})
	if err != nil {
		return domain.InternalError{Msg: "no se pudo registrar el movimiento", Err: err}
	}
	utils.LogEvent(s.RequestID, "cashbox", kind,
		fmt.Sprintf("entry_id=%d user_id=%d amount=%s", id, userID, utils.FormatMoney(amount)))
	return nil
}

// Balance summarizes the open window without closing it.
func (s CashboxService) Balance(userID int64) (models.CashboxCutoff, error) {
	entries, err := s.Repo.OpenEntries(userID)
	if err != nil {
		return models.CashboxCutoff{}, domain.InternalError{Err: err}
	}
	return summarize(userID, entries), nil
}

// Cutoff snapshots and closes the open window; returns the stored summary.
func (s CashboxService) Cutoff(userID int64) (models.CashboxCutoff, error) {
	entries, err := s.Repo.OpenEntries(userID)
	if err != nil {
		return models.CashboxCutoff{}, domain.InternalError{Err: err}
	}
	if len(entries) == 0 {
		return models.CashboxCutoff{}, domain.ConflictError{Resource: "cashbox", Msg: "no hay movimientos abiertos"}
	}
	cutoff := summarize(userID, entries)
	id, err := s.Repo.CloseWindow(cutoff)
	if err != nil {
		return models.CashboxCutoff{}, domain.InternalError{Msg: "no se pudo cerrar la caja", Err: err}
	}
	cutoff.ID = id
	utils.LogEvent(s.RequestID, "cashbox", "cutoff",
		fmt.Sprintf("cutoff_id=%d user_id=%d balance=%s", id, userID, utils.FormatMoney(cutoff.Balance)))
	return cutoff, nil
}

func summarize(userID int64, entries []models.CashboxEntry) models.CashboxCutoff {
	out := models.CashboxCutoff{
		UserID:     userID,
		EntryCount: len(entries),
		CreatedAt:  utils.FormatDateTime(utils.NowUTC()),
	}
	for _, e := range entries {
		switch e.Kind {
		case models.CashboxIncome:
			out.TotalIncome += e.Amount
		case models.CashboxExpense:
			out.TotalExpense += e.Amount
		}
	}
	out.Balance = out.TotalIncome - out.TotalExpense
	return out
}
