package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/services"
	"proofdeck-backend/internal/validation"
)

type ProofsHandler struct {
	service  *services.ProofService
	validate *validator.Validate
}

func NewProofsHandler(service *services.ProofService, validate *validator.Validate) *ProofsHandler {
	return &ProofsHandler{service: service, validate: validate}
}

// Upload godoc
//
//	@Summary		Upload a proof version
//	@Description	Stores a batch of proof files as the order's next version
//	@Tags			proofs
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			orderId		formData	string	true	"Order ID"
//	@Param			files		formData	file	true	"Proof files"
//	@Param			staffNote	formData	string	false	"Note shown to the customer"
//	@Success		201			{object}	models.UploadResponse
//	@Failure		400			{object}	models.ErrorResponse
//	@Failure		404			{object}	models.ErrorResponse
//	@Router			/api/proofs/upload [post]
func (h *ProofsHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_request", Message: "Expected multipart form data"})
		return
	}

	orderID, err := uuid.Parse(c.PostForm("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_id", Message: "orderId must be a UUID"})
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) > validation.MaxFilesPerUpload {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "too_many_files",
			Message: services.ErrTooManyFiles.Error(),
		})
		return
	}

	files := make([]services.UploadFile, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		if header.Size > validation.MaxFileSize {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "file_too_large",
				Message: header.Filename + " exceeds the 10MB size limit",
			})
			return
		}
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_request", Message: "Failed to read uploaded file"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_request", Message: "Failed to read uploaded file"})
			return
		}
		files = append(files, services.UploadFile{
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	staffNote := c.PostForm("staffNote")
	version, err := h.service.Upload(orderID, files, staffNote)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Order not found"})
		case errors.Is(err, services.ErrNoFiles),
			errors.Is(err, services.ErrTooManyFiles),
			errors.Is(err, services.ErrFileTooLarge),
			errors.Is(err, services.ErrUnsupportedType):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_upload", Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to store proof files"})
		}
		return
	}

	resp := models.UploadResponse{
		OrderID:       orderID.String(),
		VersionID:     version.ID.String(),
		VersionNumber: version.VersionNumber,
		Files:         make([]models.FileInfo, 0, len(files)),
	}
	for _, f := range files {
		resp.Files = append(resp.Files, models.FileInfo{Filename: f.Filename, Size: int64(len(f.Data))})
	}
	c.JSON(http.StatusCreated, resp)
}

// Send godoc
//
//	@Summary		Send a proof to the customer
//	@Description	Mints a fresh magic link, marks the proof sent, and emails the customer
//	@Tags			proofs
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.SendProofRequest	true	"Order reference"
//	@Success		200		{object}	models.SendProofResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Router			/api/proofs/send [post]
func (h *ProofsHandler) Send(c *gin.Context) {
	var req models.SendProofRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_id", Message: "Order ID must be a UUID"})
		return
	}

	proofLink, err := h.service.Send(orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Order not found"})
		case errors.Is(err, services.ErrNoProofVersions):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no_proofs", Message: err.Error()})
		case errors.Is(err, services.ErrNoCustomerEmail):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no_customer_email", Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to send proof"})
		}
		return
	}

	c.JSON(http.StatusOK, models.SendProofResponse{Success: true, ProofLink: proofLink})
}
