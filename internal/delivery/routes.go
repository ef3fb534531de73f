package delivery

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, hMedia *MediaHandler) {
	r.Post("/media", hMedia.Create)
	r.Get("/media/{mobile_number}", hMedia.GetByOwner)
	r.Put("/media/{mobile_number}", hMedia.UpdateByOwner)
	r.Delete("/media/{media_id}", hMedia.DeleteByMediaID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}
