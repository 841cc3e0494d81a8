package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           camerad API
// @version         1.0
// @description     HTTP API for camera discovery, selection, and capture session windows.
//
// @contact.name   camerad maintainers
// @contact.url    https://github.com/your-org/camerad
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
