package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carpet-shop-api/internal/application/checks"
	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
)

// CheckHandler maneja el registro de cheques (protegido).
type CheckHandler struct {
	uc *checks.CheckUseCase
}

// NewCheckHandler construye el handler.
func NewCheckHandler(uc *checks.CheckUseCase) *CheckHandler {
	return &CheckHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar cheque
// @Tags         checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCheckRequest  true  "Datos del cheque"
// @Success      201   {object}  dto.CheckResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/checks [post]
func (h *CheckHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCheckRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cheque
// @Tags         checks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cheque"
// @Success      200  {object}  dto.CheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/checks/{id} [get]
func (h *CheckHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar cheques por vencimiento
// @Tags         checks
// @Security     Bearer
// @Produce      json
// @Param        check_type  query  string  false  "incoming | outgoing"
// @Param        status      query  string  false  "Estado"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.CheckListResponse
// @Router       /api/checks [get]
func (h *CheckHandler) List(c *fiber.Ctx) error {
	var in dto.CheckListRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	start, end, err := queryDateRange(c)
	if err != nil {
		return badRequest(c, "INVALID_DATE", err.Error())
	}
	in.StartDate, in.EndDate = start, end
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cheque
// @Tags         checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del cheque"
// @Param        body  body  dto.UpdateCheckRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.CheckResponse
// @Router       /api/checks/{id} [put]
func (h *CheckHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCheckRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cheque
// @Tags         checks
// @Security     Bearer
// @Param        id  path  string  true  "ID del cheque"
// @Success      204
// @Router       /api/checks/{id} [delete]
func (h *CheckHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Upcoming godoc
// @Summary      Cheques pendientes por vencer
// @Tags         checks
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (1-90)"  default(7)
// @Success      200  {array}  dto.CheckResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/checks/upcoming [get]
func (h *CheckHandler) Upcoming(c *fiber.Ctx) error {
	out, err := h.uc.Upcoming(c.UserContext(), c.QueryInt("days", checks.DefaultUpcomingDays))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
