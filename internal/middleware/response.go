package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Offered lists the representations every endpoint can produce, in order of
// preference when the client expresses none.
var Offered = []string{gin.MIMEJSON, gin.MIMEXML}

// Respond renders data as JSON or XML depending on the Accept header.
// xmlData, when non-nil, replaces data for XML clients; XML needs a single
// root element where JSON is happy with a bare array.
func Respond(c *gin.Context, code int, data, xmlData any) {
	if xmlData == nil {
		xmlData = data
	}
	// gin.Negotiate only renders application/xml.
	if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEXML, gin.MIMEXML2) == gin.MIMEXML2 {
		c.XML(code, xmlData)
		return
	}
	c.Negotiate(code, gin.Negotiate{
		Offered:  Offered,
		JSONData: data,
		XMLData:  xmlData,
	})
}

// RespondEmpty answers with a status and no body.
func RespondEmpty(c *gin.Context, code int) {
	c.Status(code)
	c.Writer.WriteHeaderNow()
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"message": message,
	})
}

// RespondInternalError logs err against the request and hides it from the client.
func RespondInternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}
