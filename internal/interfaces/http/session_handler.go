package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	appsession "github.com/jhoicas/conteo-api/internal/application/session"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
)

// SessionHandler maneja las peticiones HTTP de sesiones de conteo y
// recepción (protegido).
type SessionHandler struct {
	uc *appsession.SessionUseCase
}

// NewSessionHandler construye el handler.
func NewSessionHandler(uc *appsession.SessionUseCase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// sessionError traduce la taxonomía de errores del motor a respuestas HTTP.
// Los errores tipados aportan el detalle (sub-razón del merge, claves sin
// línea base) para que el cliente no tenga que parsear mensajes.
func sessionError(c *fiber.Ctx, err error) error {
	var merr *reconcile.MergeError
	if errors.As(err, &merr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "NOT_MERGEABLE",
			Message: "las sesiones no se pueden fusionar",
			Details: []string{string(merr.Reason)},
		})
	}
	var berr *reconcile.BaselineError
	if errors.As(err, &berr) {
		keys := make([]string, len(berr.Missing))
		for i, k := range berr.Missing {
			keys[i] = k.String()
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "MISSING_BASELINE",
			Message: "no hay línea base de stock para todas las claves de la sesión",
			Details: keys,
		})
	}
	switch {
	case errors.Is(err, domain.ErrSessionClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_CLOSED", Message: "la sesión no admite más cambios"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "cantidad inválida"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el recurso ya existe"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// Create godoc
// @Summary      Crear sesión de conteo o recepción
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  true  "name, session_type (counting|receiving), store_id, shipment_id opcional"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in, GetCompanyID(c), GetUserID(c))
	if err != nil {
		return sessionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar sesiones
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        store_id      query  string  false  "Filtrar por tienda"
// @Param        session_type  query  string  false  "counting | receiving"
// @Param        is_active     query  string  false  "true | false"
// @Param        start_date    query  string  false  "YYYY-MM-DD"
// @Param        end_date      query  string  false  "YYYY-MM-DD"
// @Param        search        query  string  false  "Nombre de sesión o de producto"
// @Success      200  {object}  dto.SessionListResponse
// @Router       /api/sessions [get]
func (h *SessionHandler) List(c *fiber.Ctx) error {
	var in dto.ListSessionsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	out, err := h.uc.List(in, GetCompanyID(c))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de sesión con líneas y desglose por contribuyente
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Params("id"), GetCompanyID(c))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(out)
}

// Join godoc
// @Summary      Unirse a una sesión abierta
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/join [post]
func (h *SessionHandler) Join(c *fiber.Ctx) error {
	out, err := h.uc.Join(c.Context(), c.Params("id"), GetCompanyID(c), GetUserID(c))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar sesión sin afectar stock
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/close [post]
func (h *SessionHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.Close(c.Context(), c.Params("id"), GetCompanyID(c))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(out)
}

// AddItems godoc
// @Summary      Aplicar lote de escaneos (deltas aditivos)
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la sesión"
// @Param        body  body  dto.AddItemsRequest  true  "items con accepted/rejected acumulados del lote"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/items [post]
func (h *SessionHandler) AddItems(c *fiber.Ctx) error {
	var in dto.AddItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddItems(c.Context(), c.Params("id"), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(out)
}

// SetItem godoc
// @Summary      Corregir el aporte propio sobre una clave (reemplazo absoluto)
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la sesión"
// @Param        body  body  dto.SetItemRequest  true  "product_id, variant_id opcional, accepted, rejected"
// @Success      200   {object}  dto.SessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/items [put]
func (h *SessionHandler) SetItem(c *fiber.Ctx) error {
	var in dto.SetItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SetItem(c.Context(), c.Params("id"), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(out)
}

// Merge godoc
// @Summary      Fusionar otra sesión dentro de esta
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID de la sesión destino"
// @Param        body  body  dto.MergeRequest  true  "source_session_id"
// @Success      200   {object}  dto.MergeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/merge [post]
func (h *SessionHandler) Merge(c *fiber.Ctx) error {
	var in dto.MergeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Merge(c.Context(), c.Params("id"), GetCompanyID(c), in)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(out)
}

// Compare godoc
// @Summary      Comparar dos sesiones (diff de tres vías)
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true  "ID de la sesión A"
// @Param        other  query  string  true  "ID de la sesión B"
// @Success      200    {object}  dto.CompareResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/compare [get]
func (h *SessionHandler) Compare(c *fiber.Ctx) error {
	out, err := h.uc.Compare(c.Params("id"), c.Query("other"), GetCompanyID(c))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(out)
}

// Finalize godoc
// @Summary      Finalizar sesión de recepción y aplicar stock
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la sesión"
// @Param        body  body  dto.FinalizeRequest  false  "notes opcional"
// @Success      200   {object}  dto.FinalizeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/finalize [post]
func (h *SessionHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.Finalize(c.Context(), c.Params("id"), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de la sesión: fusiones absorbidas y recepción
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/history [get]
func (h *SessionHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.Params("id"), GetCompanyID(c))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Acta de recepción en PDF
// @Tags         sessions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/receiving-report [get]
func (h *SessionHandler) Report(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Report(c.Params("id"), GetCompanyID(c))
	if err != nil {
		return sessionError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
