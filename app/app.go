package app

import (
	"database/sql"

	"github.com/go-chi/jwtauth/v5"

	"github.com/jmorel/formwell/config"
)

type App struct {
	*sql.DB
	config.Config
	TokenAuth *jwtauth.JWTAuth
}
