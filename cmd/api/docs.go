//go:generate swag init -g docs.go -o ../../docs --parseDependency --parseInternal --dir .,../../internal/httpapi

package main

// @title radar_api API
// @version 1.0
// @description Radar de Obras HTTP API.
// @BasePath /v1
// @securityDefinitions.apikey SessionAuth
// @in cookie
// @name radar_session
// @description HttpOnly session cookie
