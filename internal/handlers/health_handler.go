package handlers

import (
	"net/http"

	"github.com/grvbrk/ytcomments/internal/utils"
)

func HandlerHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"status": "healthy", "service": "ytcomments"})
}
