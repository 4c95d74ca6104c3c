package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
)

var cashboxEntryRows = []string{"id", "user_id", "kind", "concept", "amount",
	"payment_method", "ref_type", "ref_id", "created_at"}

func newCashboxService(t *testing.T) (CashboxService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := CashboxService{Repo: repositories.CashboxRepo{DB: db}}
	return svc, mock, func() { db.Close() }
}

func TestCashboxBalanceSummarizesOpenWindow(t *testing.T) {
	svc, mock, closeDB := newCashboxService(t)
	defer closeDB()

	mock.ExpectQuery("WHERE user_id = \\? AND cutoff_id = 0").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(cashboxEntryRows).
			AddRow(1, 2, "income", "Venta de boletos folio RES-1", 540.0, "efectivo", "reservation", 1, "2026-08-30 09:00:00").
			AddRow(2, 2, "income", "Envio de paquete guia PKG-1", 120.0, "efectivo", "package", 1, "2026-08-30 10:00:00").
			AddRow(3, 2, "expense", "Gasolina", 200.0, "efectivo", "", 0, "2026-08-30 11:00:00"))

	balance, err := svc.Balance(2)
	if err != nil {
		t.Fatalf("balance error: %v", err)
	}
	if balance.TotalIncome != 660 || balance.TotalExpense != 200 || balance.Balance != 460 {
		t.Errorf("unexpected summary: %+v", balance)
	}
	if balance.EntryCount != 3 {
		t.Errorf("entry count = %d", balance.EntryCount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCashboxCutoffClosesWindow(t *testing.T) {
	svc, mock, closeDB := newCashboxService(t)
	defer closeDB()

	mock.ExpectQuery("WHERE user_id = \\? AND cutoff_id = 0").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(cashboxEntryRows).
			AddRow(1, 2, "income", "Venta", 300.0, "efectivo", "reservation", 1, "2026-08-30 09:00:00"))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO cashbox_cutoffs").
		WithArgs(int64(2), 300.0, 0.0, 300.0, 1).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("UPDATE cashbox_entries SET cutoff_id = \\?").
		WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cutoff, err := svc.Cutoff(2)
	if err != nil {
		t.Fatalf("cutoff error: %v", err)
	}
	if cutoff.ID != 7 || cutoff.Balance != 300 {
		t.Errorf("unexpected cutoff: %+v", cutoff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCashboxCutoffRejectsEmptyWindow(t *testing.T) {
	svc, mock, closeDB := newCashboxService(t)
	defer closeDB()

	mock.ExpectQuery("WHERE user_id = \\? AND cutoff_id = 0").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(cashboxEntryRows))

	if _, err := svc.Cutoff(2); !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCashboxRecordValidation(t *testing.T) {
	svc, _, closeDB := newCashboxService(t)
	defer closeDB()

	if err := svc.RecordExpense(0, "Gasolina", 100, "efectivo"); !domain.IsValidation(err) {
		t.Errorf("expected ValidationError for user, got %v", err)
	}
	if err := svc.RecordExpense(2, "Gasolina", 0, "efectivo"); !domain.IsValidation(err) {
		t.Errorf("expected ValidationError for amount, got %v", err)
	}
	if err := svc.RecordExpense(2, "   ", 100, "efectivo"); !domain.IsValidation(err) {
		t.Errorf("expected ValidationError for concept, got %v", err)
	}
}
