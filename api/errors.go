package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	msgInternal      = "Error interno del servidor"
	msgUnauthorized  = "No autorizado"
	msgInvalidID     = "Identificador inválido"
	msgInvalidDate   = "Formato de fecha inválido, use AAAA-MM-DD"
	msgInvalidStatus = "Estado de reserva no válido"
	msgInvalidNumber = "Parámetro numérico inválido"
	msgInvalidBody   = "Cuerpo de la solicitud inválido"
)

// envelope wraps every response body.
type envelope struct {
	Error   bool `json:"error"`
	Content any  `json:"content"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func respond(c *gin.Context, status int, content any) {
	c.JSON(status, envelope{Error: false, Content: content})
}

func fail(c *gin.Context, status int, content any) {
	c.AbortWithStatusJSON(status, envelope{Error: true, Content: content})
}

// errorWriter maps service errors to HTTP statuses.
type errorWriter struct {
	strictAuthorization bool
	log                 logrus.FieldLogger
}

func (w errorWriter) status(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		if w.strictAuthorization {
			return http.StatusForbidden
		}
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (w errorWriter) write(c *gin.Context, err error) {
	status := w.status(err)
	if status == http.StatusInternalServerError {
		if w.log != nil {
			w.log.WithFields(logrus.Fields{
				"path":       c.FullPath(),
				"request_id": c.GetString(requestIDKey),
			}).WithError(err).Error("request failed")
		}
		fail(c, status, msgInternal)
		return
	}
	fail(c, status, err.Error())
}

// bindError reports struct tag failures per field; anything else is a malformed body.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fail(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	fields := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	fail(c, http.StatusBadRequest, fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "El campo es obligatorio"
	case "min":
		return "El valor debe ser al menos " + fe.Param()
	case "max":
		return "El valor no puede superar " + fe.Param()
	case "gtfield":
		return "Debe ser posterior a " + fe.Param()
	default:
		return "Valor inválido"
	}
}
