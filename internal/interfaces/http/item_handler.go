package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
	"github.com/jhoicas/carpet-shop-api/internal/application/inventory"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
)

// ItemHandler maneja el catálogo de alfombras (protegido).
type ItemHandler struct {
	uc *inventory.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear alfombra
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos de la alfombra"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
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
// @Summary      Obtener alfombra por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id               path   string  true   "ID de la alfombra"
// @Param        include_deleted  query  bool    false  "Incluir eliminadas"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"), c.QueryBool("include_deleted", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar alfombras
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        size             query  string  false  "Tamaño"
// @Param        material         query  string  false  "Material (subcadena)"
// @Param        search           query  string  false  "Diseño, marca o descripción"
// @Param        available_only   query  bool    false  "Solo con existencia"
// @Param        include_deleted  query  bool    false  "Incluir eliminadas"
// @Param        limit            query  int     false  "Límite"  default(100)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var in dto.ItemListRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar alfombra
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la alfombra"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
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
// @Summary      Eliminar alfombra (lógico)
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID de la alfombra"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.SoftDelete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary      Restaurar alfombra eliminada
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alfombra"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/restore [post]
func (h *ItemHandler) Restore(c *fiber.Ctx) error {
	out, err := h.uc.Restore(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeletePermanent godoc
// @Summary      Eliminar alfombra definitivamente (admin)
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID de la alfombra"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/permanent [delete]
func (h *ItemHandler) DeletePermanent(c *fiber.Ctx) error {
	if err := h.uc.DeletePermanent(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadImage godoc
// @Summary      Subir foto de la alfombra
// @Tags         items
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "ID de la alfombra"
// @Param        file  formData  file    true  "Imagen JPEG/PNG"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/image [post]
func (h *ItemHandler) UploadImage(c *fiber.Ctx) error {
	file, err := formUpload(c, "file")
	if err != nil {
		return badRequest(c, "MISSING_FILE", "campo file requerido")
	}
	out, err := h.uc.UploadImage(c.UserContext(), c.Params("id"), file)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddOperation godoc
// @Summary      Agregar operación de costo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la alfombra"
// @Param        body  body  dto.CreateOperationRequest  true  "Operación"
// @Success      201   {object}  dto.OperationResponse
// @Router       /api/items/{id}/operations [post]
func (h *ItemHandler) AddOperation(c *fiber.Ctx) error {
	var in dto.CreateOperationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddOperation(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateOperation godoc
// @Summary      Actualizar operación de costo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        opID  path  string                      true  "ID de la operación"
// @Param        body  body  dto.UpdateOperationRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.OperationResponse
// @Router       /api/items/operations/{opID} [put]
func (h *ItemHandler) UpdateOperation(c *fiber.Ctx) error {
	var in dto.UpdateOperationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateOperation(c.UserContext(), c.Params("opID"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteOperation godoc
// @Summary      Eliminar operación de costo
// @Tags         items
// @Security     Bearer
// @Param        opID  path  string  true  "ID de la operación"
// @Success      204
// @Router       /api/items/operations/{opID} [delete]
func (h *ItemHandler) DeleteOperation(c *fiber.Ctx) error {
	if err := h.uc.DeleteOperation(c.UserContext(), c.Params("opID")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportPDF godoc
// @Summary      Exportar catálogo en PDF
// @Tags         items
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/items/export/pdf [get]
func (h *ItemHandler) ExportPDF(c *fiber.Ctx) error {
	var in dto.ItemListRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	data, err := h.uc.ExportPDF(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, data, "application/pdf", "carpets.pdf")
}

// ExportXLSX godoc
// @Summary      Exportar catálogo en Excel
// @Tags         items
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/items/export/xlsx [get]
func (h *ItemHandler) ExportXLSX(c *fiber.Ctx) error {
	var in dto.ItemListRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	data, err := h.uc.ExportXLSX(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "carpets.xlsx")
}

// Sizes godoc
// @Summary      Tamaños disponibles con su etiqueta
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SizeCount
// @Router       /api/items/sizes [get]
func (h *ItemHandler) Sizes(c *fiber.Ctx) error {
	out := make([]dto.SizeCount, 0, len(entity.Sizes))
	for _, s := range entity.Sizes {
		out = append(out, dto.SizeCount{Size: s, SizeLabel: entity.SizeLabel(s)})
	}
	return c.JSON(out)
}

func sendAttachment(c *fiber.Ctx, data []byte, contentType, filename string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
