package controllers

import (
	"net/http"

	"github.com/angelmondragon/karaoke-backend/api/responses"
	"github.com/angelmondragon/karaoke-backend/api/validators"
	"github.com/angelmondragon/karaoke-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
)

// ListServices returns the orderable services whose name contains ?q=.
func ListServices(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		keyword := validators.QueryKeyword(r, "q", maxKeywordLength)
		list, err := svc.ListServices(r.Context(), keyword)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toServiceResponses(list))
	}
}
