package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	mw "github.com/rogerio-castellano/inventory-dashboard/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

var requiredColumns = []string{"name", "categoryid", "unitprice", "stock"}

type csvRow struct {
	Name           string
	CategoryID     string
	UnitPrice      string
	Stock          string
	ExpirationDate string
}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			Name:           field(record, "name"),
			CategoryID:     field(record, "categoryid"),
			UnitPrice:      field(record, "unitprice"),
			Stock:          field(record, "stock"),
			ExpirationDate: field(record, "expirationdate"),
		})
	}
	return rows, nil
}

func (r csvRow) toNewProduct() (models.NewProduct, error) {
	if r.Name == "" {
		return models.NewProduct{}, errors.New("missing name")
	}
	categoryID, err := strconv.Atoi(r.CategoryID)
	if err != nil || categoryID <= 0 {
		return models.NewProduct{}, errors.New("invalid categoryId")
	}
	price, err := strconv.ParseFloat(r.UnitPrice, 64)
	if err != nil || price < 0 {
		return models.NewProduct{}, errors.New("invalid unitPrice")
	}
	stock, err := strconv.Atoi(r.Stock)
	if err != nil || stock < 0 {
		return models.NewProduct{}, errors.New("invalid stock")
	}

	p := models.NewProduct{
		CategoryID: categoryID,
		Name:       r.Name,
		UnitPrice:  price,
		Stock:      stock,
	}
	if r.ExpirationDate != "" {
		d, err := models.ParseDate(r.ExpirationDate)
		if err != nil {
			return models.NewProduct{}, errors.New("invalid expirationDate")
		}
		p.ExpirationDate = &d
	}
	return p, nil
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Each valid row is created through the inventory API. Columns: name, categoryId, unitPrice, stock, expirationDate (optional).
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} ErrorResponse
// @Router /api/products/import [post]
// @Security BearerAuth
func (s *Server) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	imported := 0
	errorsList := []ImportRowError{}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		p, err := rec.toNewProduct()
		if err != nil {
			errorsList = append(errorsList, ImportRowError{Row: rowNum, Description: err.Error()})
			continue
		}

		if _, err := s.store.Create(r.Context(), p); err != nil {
			errorsList = append(errorsList, ImportRowError{Row: rowNum, Description: inventory.Message(err)})
			continue
		}
		imported++
	}

	logx.Info().Str("user", mw.GetSubject(r)).Int("imported", imported).Int("rejected", len(errorsList)).Msg("products imported")
	respond(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}
