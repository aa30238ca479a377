package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invoicedomain "github.com/railzwaylabs/invoicefmt/internal/invoice/domain"
	"go.uber.org/zap"
)

// RenderInvoice handles GET /v1/invoices/:id/render?locale=en-NZ
func (s *Server) RenderInvoice(c *gin.Context) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || invoiceID <= 0 {
		AbortWithError(c, invoicedomain.ErrInvalidInvoiceID)
		return
	}

	ctx := c.Request.Context()
	formatter, err := s.formatters.Create(ctx, invoiceID, c.Query("locale"))
	if err != nil {
		if toAPIError(err) == ErrInternal {
			s.log.Error("failed to build invoice formatter", zap.String("invoice_id", invoiceID.String()), zap.Error(err))
		}
		AbortWithError(c, err)
		return
	}

	respondData(c, formatter.Render(ctx))
}
