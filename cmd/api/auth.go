package main

import (
	"net/http"
)

type tokenResponse struct {
	Token string `json:"token"`
}

// createTokenHandler issues a bearer token to a client that passed basic auth.
//
// POST /v1/authentication/token
func (app *application) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	client := getClientFromContext(r)

	token, err := app.authenticator.GenerateToken(client)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("issued api token", "client", client)

	if err := app.jsonResponse(w, http.StatusCreated, tokenResponse{Token: token}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":  "ok",
		"env":     app.config.env,
		"version": version,
	}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
