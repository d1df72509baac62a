package http

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseBody decodifica el JSON y valida los tags. Si falla ya escribió la respuesta 400
// y devuelve false.
func parseBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		return false, badRequest(c, "VALIDATION", validationMessage(err))
	}
	return true, nil
}

// parseQuery decodifica y valida los parámetros de consulta.
func parseQuery(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	if err := validate.Struct(out); err != nil {
		return false, badRequest(c, "VALIDATION", validationMessage(err))
	}
	return true, nil
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// queryDateRange lee start_date y end_date (YYYY-MM-DD o RFC3339).
// Una fecha sin hora en end_date cubre el día completo.
func queryDateRange(c *fiber.Ctx) (start, end *time.Time, err error) {
	if s := c.Query("start_date"); s != "" {
		t, _, err := parseDate(s)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if s := c.Query("end_date"); s != "" {
		t, dateOnly, err := parseDate(s)
		if err != nil {
			return nil, nil, err
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		end = &t
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("fecha inválida %q", s)
	}
	return t, false, nil
}

// formUpload lee el archivo multipart del campo indicado.
func formUpload(c *fiber.Ctx, field string) (dto.FileUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return dto.FileUpload{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return dto.FileUpload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return dto.FileUpload{}, err
	}
	return dto.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
