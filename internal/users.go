package internal

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"assettrack/internal/models"
)

var userOrderColumns = map[string]string{
	"id":       "users.id",
	"username": "users.username",
	"email":    "users.email",
}

// listUsers handles user listing. Users are read-only through the
// store; accounts are created at the identity endpoints.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	clauses := []string{}
	args := []interface{}{}
	arg := 1

	for _, col := range []string{"id", "department_id"} {
		if v := strings.TrimSpace(r.URL.Query().Get(col)); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				clauses = append(clauses, fmt.Sprintf("users.%s = $%d", col, arg))
				args = append(args, id)
				arg++
			}
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("role")); v != "" {
		clauses = append(clauses, fmt.Sprintf("users.role = $%d", arg))
		args = append(args, v)
		arg++
	}

	cols := `users.id, users.username, users.email, users.department_id, users.role, users.created_at`
	joins := ""
	if params.expand["department"] {
		cols += ", d.id, d.name, d.description"
		joins = " LEFT JOIN departments d ON d.id = users.department_id"
	}

	sqlStr := "SELECT " + cols + " FROM users" + joins
	if len(clauses) > 0 {
		sqlStr += " WHERE " + strings.Join(clauses, " AND ")
	}
	sqlStr += buildOrderBy(params.order, userOrderColumns)

	rows, err := s.DB.QueryContext(r.Context(), sqlStr, args...)
	if err != nil {
		writeDBError(w, err)
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		dest := []interface{}{&u.ID, &u.Username, &u.Email, &u.DepartmentID, &u.Role, &u.CreatedAt}

		var deptID sql.NullInt64
		var deptName, deptDesc sql.NullString
		if params.expand["department"] {
			dest = append(dest, &deptID, &deptName, &deptDesc)
		}

		if err := rows.Scan(dest...); err != nil {
			writeDBError(w, err)
			return
		}

		if deptID.Valid {
			u.Department = &models.Department{ID: deptID.Int64, Name: deptName.String}
			if deptDesc.Valid {
				u.Department.Description = &deptDesc.String
			}
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
