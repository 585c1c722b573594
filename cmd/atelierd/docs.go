package main

// General API documentation for swaggo. Run `swag init -g cmd/atelierd/main.go -o docs` to regenerate.
//
// @title           atelierd API
// @version         1.0
// @description     HTTP API for the creative generation pipeline.
//
// @contact.name   atelierd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
