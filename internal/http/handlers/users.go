package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	intconfig "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/config"
)

// GET /api/users
func GetUsers(c *gin.Context) {
	rows, err := intconfig.DB.Query(`
		SELECT id, name, username, email, phone, role, status
		FROM users ORDER BY id ASC
	`)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de usuarios", err)
		return
	}
	defer rows.Close()

	out := []AuthUser{}
	for rows.Next() {
		var u AuthUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Role, &u.Status); err != nil {
			RespondError(c, http.StatusInternalServerError, "falló la lectura de usuarios", err)
			return
		}
		out = append(out, u)
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var u AuthUser
	err := intconfig.DB.QueryRow(`
		SELECT id, name, username, email, phone, role, status
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Role, &u.Status)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "usuario no encontrado", nil)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falló la consulta de usuario", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type userRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Password string `json:"password"`
}

// POST /api/users
func CreateUser(c *gin.Context) {
	var req userRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		RespondError(c, http.StatusBadRequest, "contraseña requerida", nil)
		return
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = "cashier"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo procesar la contraseña", err)
		return
	}
	res, err := intconfig.DB.Exec(`
		INSERT INTO users (name, username, email, phone, password_hash, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 'active', NOW(), NOW())
	`, req.Name, req.Username, req.Email, req.Phone, string(hash), role)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo crear el usuario", err)
		return
	}
	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "usuario creado"})
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req userRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	_, err := intconfig.DB.Exec(`
		UPDATE users SET name=?, username=?, email=?, phone=?, role=?, status=?, updated_at=NOW()
		WHERE id=?
	`, req.Name, req.Username, req.Email, req.Phone, req.Role, req.Status, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo actualizar el usuario", err)
		return
	}
	if strings.TrimSpace(req.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err == nil {
			_, _ = intconfig.DB.Exec(`UPDATE users SET password_hash=? WHERE id=?`, string(hash), id)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "usuario actualizado"})
}

// DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if _, err := intconfig.DB.Exec(`DELETE FROM users WHERE id=?`, id); err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo eliminar el usuario", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "usuario eliminado"})
}
