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

const assetColumns = `assets.id, assets.name, assets.description, assets.asset_code,
       assets.category_id, assets.department_id, assets.status, assets.acquisition_date,
       assets.acquisition_cost, assets.location, assets.notes, assets.created_at`

var assetOrderColumns = map[string]string{
	"id":               "assets.id",
	"name":             "assets.name",
	"asset_code":       "assets.asset_code",
	"status":           "assets.status",
	"acquisition_date": "assets.acquisition_date",
	"created_at":       "assets.created_at",
}

// assetQuery builds the SELECT head for asset reads, joining the
// related tables only when the caller asked for expansion.
func assetQuery(params listParams) string {
	cols := assetColumns
	joins := ""
	if params.expand["category"] {
		cols += ", c.id, c.name, c.description"
		joins += " LEFT JOIN categories c ON c.id = assets.category_id"
	}
	if params.expand["department"] {
		cols += ", d.id, d.name, d.description"
		joins += " LEFT JOIN departments d ON d.id = assets.department_id"
	}
	return "SELECT " + cols + " FROM assets" + joins
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner, params listParams) (models.Asset, error) {
	var a models.Asset
	dest := []interface{}{
		&a.ID, &a.Name, &a.Description, &a.AssetCode, &a.CategoryID,
		&a.DepartmentID, &a.Status, &a.AcquisitionDate, &a.AcquisitionCost,
		&a.Location, &a.Notes, &a.CreatedAt,
	}

	var catID, deptID sql.NullInt64
	var catName, catDesc, deptName, deptDesc sql.NullString
	if params.expand["category"] {
		dest = append(dest, &catID, &catName, &catDesc)
	}
	if params.expand["department"] {
		dest = append(dest, &deptID, &deptName, &deptDesc)
	}

	if err := row.Scan(dest...); err != nil {
		return a, err
	}

	if catID.Valid {
		a.Category = &models.Category{ID: catID.Int64, Name: catName.String}
		if catDesc.Valid {
			a.Category.Description = &catDesc.String
		}
	}
	if deptID.Valid {
		a.Department = &models.Department{ID: deptID.Int64, Name: deptName.String}
		if deptDesc.Valid {
			a.Department.Description = &deptDesc.String
		}
	}
	return a, nil
}

// listAssets handles asset listing with equality filters, ordering,
// and relation expansion. The full result set is returned in one
// response; there is no pagination.
func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	clauses := []string{}
	args := []interface{}{}
	arg := 1

	for _, col := range []string{"id", "category_id", "department_id"} {
		if v := strings.TrimSpace(r.URL.Query().Get(col)); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				clauses = append(clauses, fmt.Sprintf("assets.%s = $%d", col, arg))
				args = append(args, id)
				arg++
			}
		}
	}
	for _, col := range []string{"status", "asset_code"} {
		if v := strings.TrimSpace(r.URL.Query().Get(col)); v != "" {
			clauses = append(clauses, fmt.Sprintf("assets.%s = $%d", col, arg))
			args = append(args, v)
			arg++
		}
	}

	sqlStr := assetQuery(params)
	if len(clauses) > 0 {
		sqlStr += " WHERE " + strings.Join(clauses, " AND ")
	}
	sqlStr += buildOrderBy(params.order, assetOrderColumns)

	rows, err := s.DB.QueryContext(r.Context(), sqlStr, args...)
	if err != nil {
		writeDBError(w, err)
		return
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows, params)
		if err != nil {
			writeDBError(w, err)
			return
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assets)
}

// getAsset handles getting a single asset by ID
func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	params := parseListParams(r)
	sqlStr := assetQuery(params) + " WHERE assets.id = $1"

	a, err := scanAsset(s.DB.QueryRowContext(r.Context(), sqlStr, id), params)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Asset not found")
		return
	}
	if err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func validateAssetInput(in *models.AssetInput) string {
	if in.Name == "" {
		return "name is required"
	}
	if in.AssetCode == "" {
		return "asset_code is required"
	}
	if in.CategoryID == 0 {
		return "category_id is required"
	}
	if in.Status == "" {
		in.Status = "available"
	}
	if !models.IsValidStatus(in.Status) {
		return "status must be one of: " + strings.Join(models.ValidStatuses, ", ")
	}
	return ""
}

// createAsset inserts a new asset. The store assigns the id and the
// creation timestamp and returns the full record.
func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	var req models.AssetInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateAssetInput(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	a := models.Asset{
		Name:            req.Name,
		Description:     req.Description,
		AssetCode:       req.AssetCode,
		CategoryID:      req.CategoryID,
		DepartmentID:    req.DepartmentID,
		Status:          req.Status,
		AcquisitionDate: req.AcquisitionDate,
		AcquisitionCost: req.AcquisitionCost,
		Location:        req.Location,
		Notes:           req.Notes,
	}

	err := s.DB.QueryRowContext(r.Context(), `
		INSERT INTO assets (name, description, asset_code, category_id, department_id,
		                    status, acquisition_date, acquisition_cost, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		req.Name, req.Description, req.AssetCode, req.CategoryID, req.DepartmentID,
		req.Status, req.AcquisitionDate, req.AcquisitionCost, req.Location, req.Notes,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		writeDBError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// updateAsset overwrites every field of the asset matching id with the
// submitted form state. There is no partial-patch shape.
func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	var req models.AssetInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateAssetInput(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := s.DB.ExecContext(r.Context(), `
		UPDATE assets
		SET name = $1, description = $2, asset_code = $3, category_id = $4,
		    department_id = $5, status = $6, acquisition_date = $7,
		    acquisition_cost = $8, location = $9, notes = $10
		WHERE id = $11`,
		req.Name, req.Description, req.AssetCode, req.CategoryID, req.DepartmentID,
		req.Status, req.AcquisitionDate, req.AcquisitionCost, req.Location, req.Notes,
		id)
	if err != nil {
		writeDBError(w, err)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		writeError(w, http.StatusNotFound, "Asset not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteAsset handles deleting an asset. There is no cascade handling;
// the database's own constraints decide what referencing rows do to
// the outcome.
func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	res, err := s.DB.ExecContext(r.Context(), `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		writeDBError(w, err)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		writeError(w, http.StatusNotFound, "Asset not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
