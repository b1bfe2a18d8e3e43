package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"assettrack/internal/models"

	"github.com/go-chi/chi/v5"
)

var departmentOrderColumns = map[string]string{
	"id":   "id",
	"name": "name",
}

// listDepartments handles department listing
func (s *Server) listDepartments(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	clauses := []string{}
	args := []interface{}{}
	arg := 1

	if v := strings.TrimSpace(r.URL.Query().Get("id")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			clauses = append(clauses, fmt.Sprintf("id = $%d", arg))
			args = append(args, id)
			arg++
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("name")); v != "" {
		clauses = append(clauses, fmt.Sprintf("name = $%d", arg))
		args = append(args, v)
		arg++
	}

	sqlStr := `SELECT id, name, description FROM departments`
	if len(clauses) > 0 {
		sqlStr += " WHERE " + strings.Join(clauses, " AND ")
	}
	sqlStr += buildOrderBy(params.order, departmentOrderColumns)

	rows, err := s.DB.QueryContext(r.Context(), sqlStr, args...)
	if err != nil {
		writeDBError(w, err)
		return
	}
	defer rows.Close()

	departments := []models.Department{}
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description); err != nil {
			writeDBError(w, err)
			return
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, departments)
}

// getDepartment handles getting a single department by ID
func (s *Server) getDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid department ID")
		return
	}

	var d models.Department
	err = s.DB.QueryRowContext(r.Context(),
		`SELECT id, name, description FROM departments WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Description)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Department not found")
		return
	}
	if err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// createDepartment inserts a new department
func (s *Server) createDepartment(w http.ResponseWriter, r *http.Request) {
	var req models.DepartmentInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	d := models.Department{Name: req.Name, Description: req.Description}
	err := s.DB.QueryRowContext(r.Context(), `
		INSERT INTO departments (name, description)
		VALUES ($1, $2)
		RETURNING id`,
		req.Name, req.Description,
	).Scan(&d.ID)
	if err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

// updateDepartment overwrites the department matching id
func (s *Server) updateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid department ID")
		return
	}

	var req models.DepartmentInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	res, err := s.DB.ExecContext(r.Context(),
		`UPDATE departments SET name = $1, description = $2 WHERE id = $3`,
		req.Name, req.Description, id)
	if err != nil {
		writeDBError(w, err)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		writeError(w, http.StatusNotFound, "Department not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteDepartment handles deleting a department
func (s *Server) deleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid department ID")
		return
	}

	res, err := s.DB.ExecContext(r.Context(), `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		writeDBError(w, err)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		writeError(w, http.StatusNotFound, "Department not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
