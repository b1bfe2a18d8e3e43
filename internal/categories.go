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

var categoryOrderColumns = map[string]string{
	"id":   "id",
	"name": "name",
}

// listCategories handles category listing
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
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

	sqlStr := `SELECT id, name, description FROM categories`
	if len(clauses) > 0 {
		sqlStr += " WHERE " + strings.Join(clauses, " AND ")
	}
	sqlStr += buildOrderBy(params.order, categoryOrderColumns)

	rows, err := s.DB.QueryContext(r.Context(), sqlStr, args...)
	if err != nil {
		writeDBError(w, err)
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			writeDBError(w, err)
			return
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// getCategory handles getting a single category by ID
func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var c models.Category
	err = s.DB.QueryRowContext(r.Context(),
		`SELECT id, name, description FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// createCategory inserts a new category
func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	c := models.Category{Name: req.Name, Description: req.Description}
	err := s.DB.QueryRowContext(r.Context(), `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id`,
		req.Name, req.Description,
	).Scan(&c.ID)
	if err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// updateCategory overwrites the category matching id
func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	res, err := s.DB.ExecContext(r.Context(),
		`UPDATE categories SET name = $1, description = $2 WHERE id = $3`,
		req.Name, req.Description, id)
	if err != nil {
		writeDBError(w, err)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteCategory handles deleting a category. Assets referencing it
// make the delete fail at the database constraint.
func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	res, err := s.DB.ExecContext(r.Context(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		writeDBError(w, err)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
