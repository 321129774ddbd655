package controllers

import (
	"net/http"

	"rxplain/services"

	"github.com/gin-gonic/gin"
)

// ListMedications returns the combined, de-duplicated medication view across
// all of the user's processed documents. Rebuilt on every request; the view
// is derived, never stored.
func ListMedications(c *gin.Context) {
	uid := c.GetUint("userID")

	meds, err := services.ListAggregated(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"medications": meds, "count": len(meds)})
}
