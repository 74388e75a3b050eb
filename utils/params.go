package utils

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

// ParseID reads a positive integer path parameter and answers 400 itself
// when it is missing or malformed.
func ParseID(w http.ResponseWriter, ps httprouter.Params, name string) (int64, bool) {
	id, err := strconv.ParseInt(ps.ByName(name), 10, 64)
	if err != nil || id <= 0 {
		RespondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
