package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/formforge/formforge/config"
	"github.com/formforge/formforge/store"
	"github.com/formforge/formforge/submit"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
	Store   store.Store
	Guard   submit.Guard
	Limiter *submit.Limiter
}
