package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/valeri-app/valeri/internal/utils"
)

// APIError is the wire shape for every failed call: a short user-facing
// message plus a machine-readable code.
type APIError struct {
	Error string     `json:"error"`
	Code  utils.Code `json:"code,omitempty"`
}

func writeError(c *gin.Context, err error) {
	c.JSON(utils.HTTPStatus(err), APIError{
		Error: utils.Message(err),
		Code:  codeOf(err),
	})
}

func codeOf(err error) utils.Code {
	for _, code := range []utils.Code{
		utils.CodeInvalidArgument, utils.CodeUnauthorized, utils.CodeForbidden,
		utils.CodeNotFound, utils.CodeConflict, utils.CodeUnavailable,
		utils.CodeTimeout, utils.CodeInternal,
	} {
		if utils.IsCode(err, code) {
			return code
		}
	}
	return utils.CodeInternal
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "Unauthorized", nil))
	return "", false
}

func accessToken(c *gin.Context) string {
	if v, ok := c.Get("access_token"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
