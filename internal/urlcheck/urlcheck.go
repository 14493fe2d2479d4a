package urlcheck

import (
	"net/url"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsValidURL verifica se s é uma URL http(s) absoluta com host.
func IsValidURL(s string) bool {
	if err := validate.Var(s, "required,url"); err != nil {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
