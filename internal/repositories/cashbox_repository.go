package repositories

import (
	"database/sql"
	"strings"

	intconfig "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/config"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/domain/models"
)

type CashboxRepo struct {
	DB *sql.DB
}

func (r CashboxRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// EnsureSchema creates the cashbox tables on first run (best effort).
func (r CashboxRepo) EnsureSchema() error {
	db := r.db()
	if db == nil {
		return sql.ErrConnDone
	}
	entries := `
CREATE TABLE IF NOT EXISTS cashbox_entries (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	kind VARCHAR(10) NOT NULL,
	concept VARCHAR(255) NOT NULL,
	amount DECIMAL(10,2) NOT NULL,
	payment_method VARCHAR(50) NOT NULL DEFAULT '',
	ref_type VARCHAR(30) NOT NULL DEFAULT '',
	ref_id BIGINT NOT NULL DEFAULT 0,
	cutoff_id BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_user_cutoff (user_id, cutoff_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	if _, err := db.Exec(entries); err != nil {
		return err
	}
	cutoffs := `
CREATE TABLE IF NOT EXISTS cashbox_cutoffs (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	total_income DECIMAL(10,2) NOT NULL,
	total_expense DECIMAL(10,2) NOT NULL,
	balance DECIMAL(10,2) NOT NULL,
	entry_count INT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_user (user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := db.Exec(cutoffs)
	return err
}

func (r CashboxRepo) Insert(e models.CashboxEntry) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO cashbox_entries (user_id, kind, concept, amount, payment_method, ref_type, ref_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.UserID, e.Kind, strings.TrimSpace(e.Concept), e.Amount,
		strings.TrimSpace(e.PaymentMethod), e.RefType, e.RefID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// OpenEntries lists a user's movements that no cutoff has claimed yet.
func (r CashboxRepo) OpenEntries(userID int64) ([]models.CashboxEntry, error) {
	rows, err := r.db().Query(`
		SELECT id, user_id, kind, concept, amount, payment_method, ref_type, ref_id, created_at
		FROM cashbox_entries
		WHERE user_id = ? AND cutoff_id = 0
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CashboxEntry{}
	for rows.Next() {
		var e models.CashboxEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Concept, &e.Amount,
			&e.PaymentMethod, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CloseWindow snapshots the open window into a cutoff row and stamps the entries so
// they never count twice. Both steps run in one transaction.
func (r CashboxRepo) CloseWindow(cutoff models.CashboxCutoff) (int64, error) {
	db := r.db()
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	res, err := tx.Exec(`
		INSERT INTO cashbox_cutoffs (user_id, total_income, total_expense, balance, entry_count)
		VALUES (?, ?, ?, ?, ?)
	`, cutoff.UserID, cutoff.TotalIncome, cutoff.TotalExpense, cutoff.Balance, cutoff.EntryCount)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	cutoffID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if _, err := tx.Exec(`
		UPDATE cashbox_entries SET cutoff_id = ? WHERE user_id = ? AND cutoff_id = 0
	`, cutoffID, cutoff.UserID); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return cutoffID, nil
}

func (r CashboxRepo) ListCutoffs(userID int64) ([]models.CashboxCutoff, error) {
	rows, err := r.db().Query(`
		SELECT id, user_id, total_income, total_expense, balance, entry_count, created_at
		FROM cashbox_cutoffs WHERE user_id = ? ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CashboxCutoff{}
	for rows.Next() {
		var c models.CashboxCutoff
		if err := rows.Scan(&c.ID, &c.UserID, &c.TotalIncome, &c.TotalExpense,
			&c.Balance, &c.EntryCount, &c.CreatedAt); err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
