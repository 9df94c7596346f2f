package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func serveXLSXBytes(c *gin.Context, filename string, content []byte) {
	setXLSXHeaders(c, filename)
	c.Data(http.StatusOK, contentTypeXLSX, content)
}

// setXLSXHeaders percent-encodes the file name; Hangul is not allowed in a
// plain quoted-string filename.
func setXLSXHeaders(c *gin.Context, filename string) {
	encoded := url.PathEscape(filename)
	c.Header("Content-Type", contentTypeXLSX)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, encoded, encoded))
}
