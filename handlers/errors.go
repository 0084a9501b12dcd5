package handlers

import (
	"net/http"

	"staybridge/services/supplier"
	"staybridge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// supplierError reports a failed supplier call. Rejections keep the supplier's error code and
// surface as a bad gateway; everything else is an internal error.
func supplierError(c *gin.Context, message string, err error) {
	getLogger(c).Error(message, zap.Error(err))
	if supplier.IsRejection(err) {
		utils.JSONErrorCode(c, http.StatusBadGateway, message, err.Error(), supplier.RejectionCode(err))
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, message, err.Error())
}
