package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carpet-shop-api/internal/application/analytics"
	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
)

// ReportHandler expone los reportes financiero y de inventario.
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Financial godoc
// @Summary      Reporte financiero por rango
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReportRangeRequest  false  "start_date / end_date"
// @Success      200   {object}  dto.FinancialReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/financial [post]
func (h *ReportHandler) Financial(c *fiber.Ctx) error {
	var in dto.ReportRangeRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Financial(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FinancialPeriod godoc
// @Summary      Reporte financiero de un período predefinido
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        period  path  string  true  "daily | weekly | monthly | quarterly | semi-annual | annual"
// @Success      200  {object}  dto.FinancialReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/financial/{period} [get]
func (h *ReportHandler) FinancialPeriod(c *fiber.Ctx) error {
	out, err := h.uc.FinancialForPeriod(c.UserContext(), c.Params("period"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Reporte de inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryReportResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.uc.Inventory(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
