package utils

import (
	"net/http"

	"merchant/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetUserTypeFromRequest(r *http.Request) string {
	userType, _ := r.Context().Value(globals.UserTypeKey).(string)
	return userType
}
