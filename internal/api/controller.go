package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hargabyte/sheet/internal/formula"
	"github.com/hargabyte/sheet/internal/output"
	"github.com/hargabyte/sheet/internal/sheet"
	"github.com/hargabyte/sheet/internal/store"
	"github.com/hargabyte/sheet/internal/workbook"
)

// Workbook is the part of *workbook.Workbook the controller uses.
type Workbook interface {
	Set(ctx context.Context, sheetName, cellName, raw string) (workbook.Cell, []string, error)
	Get(ctx context.Context, sheetName, cellName string) (workbook.Cell, error)
	Cells(ctx context.Context, sheetName string) ([]workbook.Cell, error)
	Dependents(ctx context.Context, sheetName, cellName string) ([]string, error)
}

// Controller holds the HTTP handlers.
type Controller struct {
	Workbook Workbook
}

type cellParams struct {
	SheetID string `uri:"sheet_id" binding:"required"`
	CellID  string `uri:"cell_id" binding:"required"`
}

type sheetParams struct {
	SheetID string `uri:"sheet_id" binding:"required"`
}

// SetCellRequest is the body of a set request. An empty value clears the
// cell, so presence is required rather than a non-empty string.
type SetCellRequest struct {
	Value *string `json:"value" binding:"required"`
}

// NewController returns a controller over wb.
func NewController(wb Workbook) *Controller {
	return &Controller{Workbook: wb}
}

func view(c workbook.Cell) output.CellView {
	return output.NewCellView(c.Name, c.Contents, c.Value, c.Present)
}

// rejected reports whether err is the caller's fault.
func rejected(err error) bool {
	return errors.Is(err, sheet.ErrInvalidName) ||
		errors.Is(err, sheet.ErrCircularDependency) ||
		errors.Is(err, formula.ErrFormat) ||
		errors.Is(err, store.ErrInvalidSheetName)
}

func badName(err error) bool {
	return errors.Is(err, sheet.ErrInvalidName) || errors.Is(err, store.ErrInvalidSheetName)
}

// SetCellAction handles POST /:sheet_id/:cell_id and answers 201 with the
// recalculated cells, or 422 when the edit is rejected.
func (api *Controller) SetCellAction(c *gin.Context) {
	params := cellParams{}
	request := SetCellRequest{}

	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cell, recalculated, err := api.Workbook.Set(c.Request.Context(), params.SheetID, params.CellID, *request.Value)
	switch {
	case err != nil && rejected(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "value": *request.Value})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, output.SetResult{Cell: view(cell), Recalculated: recalculated})
	}
}

// GetCellAction handles GET /:sheet_id/:cell_id. An empty cell is 404.
func (api *Controller) GetCellAction(c *gin.Context) {
	params := cellParams{}
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cell, err := api.Workbook.Get(c.Request.Context(), params.SheetID, params.CellID)
	switch {
	case err != nil && badName(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case !cell.Present:
		c.JSON(http.StatusNotFound, gin.H{"error": sheet.ErrCellNotFound.Error()})
	default:
		c.JSON(http.StatusOK, view(cell))
	}
}

// GetSheetAction handles GET /:sheet_id and lists every non-empty cell.
func (api *Controller) GetSheetAction(c *gin.Context) {
	params := sheetParams{}
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cells, err := api.Workbook.Cells(c.Request.Context(), params.SheetID)
	switch {
	case err != nil && badName(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		response := output.ListOutput{Sheet: params.SheetID, Cells: make([]output.CellView, 0, len(cells))}
		for _, cell := range cells {
			response.Cells = append(response.Cells, view(cell))
		}
		c.JSON(http.StatusOK, response)
	}
}

// DependentsAction handles GET /:sheet_id/:cell_id/dependents.
func (api *Controller) DependentsAction(c *gin.Context) {
	params := cellParams{}
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dependents, err := api.Workbook.Dependents(c.Request.Context(), params.SheetID, params.CellID)
	switch {
	case err != nil && badName(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, output.DependentsOutput{Cell: params.CellID, Dependents: dependents})
	}
}
