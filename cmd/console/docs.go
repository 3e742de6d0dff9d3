package main

// @title Catalog Console API
// @version 1.0
// @description JSON endpoints of the catalog console: field validation and session status

// @contact.name API Support

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @tag.name Validation
// @tag.description Product form field validation

// @tag.name Session
// @tag.description Session status

// @tag.name Health
// @tag.description Health check endpoints
