package controllers

import (
	"net/http"
	"strconv"

	"rxplain/services"

	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	Docs    *services.DocumentService
	Reports *services.ReportService
}

func NewDocumentController(docs *services.DocumentService, reports *services.ReportService) *DocumentController {
	return &DocumentController{Docs: docs, Reports: reports}
}

type UploadDocumentInput struct {
	Name       string `json:"name" binding:"required"`
	FileBase64 string `json:"file_base64" binding:"required"` // data URI
}

func (dc *DocumentController) Upload(c *gin.Context) {
	uid := c.GetUint("userID")

	var input UploadDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := dc.Docs.ProcessUpload(uid, input.Name, input.FileBase64)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// The medication list changed; any cached report is stale.
	dc.Reports.InvalidateUser(uid)

	c.JSON(http.StatusCreated, doc)
}

func (dc *DocumentController) List(c *gin.Context) {
	uid := c.GetUint("userID")

	docs, err := dc.Docs.List(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (dc *DocumentController) Delete(c *gin.Context) {
	uid := c.GetUint("userID")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	if err := dc.Docs.Delete(uid, uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	dc.Reports.InvalidateUser(uid)
	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}
