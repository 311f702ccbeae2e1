package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// mensagens padrão por código de negócio do núcleo de agenda
var businessMessages = map[string]string{
	"outside_operating_hours": "Fora do horário de atendimento.",
	"too_soon":                "Horário muito em cima; respeite a antecedência mínima.",
	"capacity_exceeded":       "Horário lotado.",
	"conflicting_booking":     "Conflito com outro agendamento.",
	"weight_constraint":       "Peso do pet fora do limite do serviço.",
	"invalid_format":          "Dados inválidos.",
	"invalid_state":           "Transição de status inválida.",
	"not_found":               "Registro não encontrado.",
}

// WriteBusiness mapeia o erro de negócio para a resposta HTTP certa.
// Erros sem código viram 500 genérico.
func WriteBusiness(c *gin.Context, err error) {
	code, ok := BusinessCode(err)
	if !ok {
		Internal(c, "internal_error", "Erro interno.")
		return
	}

	msg, ok := businessMessages[code]
	if !ok {
		msg = "Pedido recusado."
	}

	switch code {
	case "not_found":
		NotFound(c, code, msg)
	case "capacity_exceeded", "conflicting_booking":
		Conflict(c, code, msg)
	default:
		BadRequest(c, code, msg)
	}
}
