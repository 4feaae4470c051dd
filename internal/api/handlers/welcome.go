package handlers

import (
	"net/http"

	"github.com/lokatani/marketplace-api/internal/models"
	"github.com/lokatani/marketplace-api/internal/utils/response"
)

const welcomeMessage = "Lokatani API - Marketplace untuk Petani & Pembeli"

// Welcome godoc
//	@Summary	API root
//	@Tags		Meta
//	@Produce	json
//	@Success	200	{object}	models.MessageResponse
//	@Router		/ [get]
func Welcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, models.MessageResponse{Message: welcomeMessage})
	}
}
