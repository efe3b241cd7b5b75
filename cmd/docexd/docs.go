package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           docexd API
// @version         1.0
// @description     HTTP API for document-to-structured-text extraction.
//
// @contact.name   docexd maintainers
// @contact.url    https://github.com/your-org/docexd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
