package inventory

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medcab/medcab/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the inventory endpoints. Each route maps one panel of
// the tracker: register, stock, forecast, statistics, export, edit/delete,
// print.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/medications", h.RegisterMedication)
	api.GET("/medications", h.ListMedications)
	api.GET("/medications/:id", h.GetMedication)
	api.PATCH("/medications/:id", h.UpdateMedication)
	api.DELETE("/medications/:id", h.DeleteMedication)

	api.GET("/stock", h.GetStock)
	api.GET("/forecast", h.GetForecast)
	api.GET("/stats", h.GetStatistics)

	api.GET("/export/csv", h.ExportCSV)
	api.GET("/export/xlsx", h.ExportXLSX)
	api.GET("/export/html", h.ExportHTML)
	api.GET("/report", h.PrintReport)
}

func (h *Handler) RegisterMedication(c echo.Context) error {
	var r Record
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.Register(c.Request().Context(), r)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListMedications(c echo.Context) error {
	pg := pagination.FromContext(c)
	col := h.svc.List(c.Request().Context())

	total := len(col.Medications)
	start := pg.Offset
	if start > total {
		start = total
	}
	end := start + pg.Limit
	if end > total {
		end = total
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(col.Medications[start:end], total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.svc.Update(c.Request().Context(), id, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetStock(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Stock(c.Request().Context()))
}

func (h *Handler) GetForecast(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Forecast(c.Request().Context()))
}

func (h *Handler) GetStatistics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Statistics(c.Request().Context()))
}

func exportFileName(ext string) string {
	return fmt.Sprintf("medications_%s.%s", time.Now().UTC().Format("20060102_150405"), ext)
}

func (h *Handler) ExportCSV(c echo.Context) error {
	col := h.svc.List(c.Request().Context())

	c.Response().Header().Set("Content-Type", "text/csv")
	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFileName("csv")))
	c.Response().WriteHeader(http.StatusOK)

	return WriteCSV(c.Response(), col)
}

func (h *Handler) ExportXLSX(c echo.Context) error {
	col := h.svc.List(c.Request().Context())

	c.Response().Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFileName("xlsx")))
	c.Response().WriteHeader(http.StatusOK)

	return WriteXLSX(c.Response(), col)
}

func (h *Handler) ExportHTML(c echo.Context) error {
	col := h.svc.List(c.Request().Context())

	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFileName("html")))
	c.Response().WriteHeader(http.StatusOK)

	return RenderHTML(c.Response(), col, time.Now())
}

// PrintReport serves the same HTML report inline for printing.
func (h *Handler) PrintReport(c echo.Context) error {
	col := h.svc.List(c.Request().Context())

	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)

	return RenderHTML(c.Response(), col, time.Now())
}
