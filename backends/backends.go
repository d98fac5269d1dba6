package backends

import (
	"net/http"

	"github.com/check-weather/check_weather/iface"
)

// statusKind maps a non-200 provider status to an error kind. Only the
// forecast endpoints treat 404 as an unknown city; for the key check it is
// just unexpected.
func statusKind(code int, cityLookup bool) iface.ErrorKind {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return iface.APIKeyError
	case code == http.StatusTooManyRequests:
		return iface.LimitError
	case code == http.StatusNotFound && cityLookup:
		return iface.NotFoundError
	case code >= 500 && code <= 599:
		return iface.ServerError
	}
	return iface.UnknownError
}
